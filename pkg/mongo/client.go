package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tutorloop/checkout-backend/pkg/config"
	"github.com/tutorloop/checkout-backend/pkg/logger"
)

// Client wraps the shared Mongo connection.
type Client struct {
	raw      *mongo.Client
	database *mongo.Database
}

// New boots a Mongo client using the provided configuration.
func New(ctx context.Context, cfg config.MongoConfig, logg *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize)

	raw, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := raw.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "mongo connection established")
	}

	return &Client{
		raw:      raw,
		database: raw.Database(cfg.Database),
	}, nil
}

// Collection returns a typed CRUD wrapper for the named collection.
func (c *Client) Collection(name string) *Collection {
	return &Collection{coll: c.database.Collection(name)}
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return c.raw.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Disconnect(ctx)
}
