package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// finder is the slice of mongo.Collection the wrapper depends on; tests
// substitute it to avoid a live server.
type finder interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// Collection provides the document-store CRUD surface used for persistence.
// Every entity maps to an explicit bson-tagged struct; there is no generic
// field injection.
type Collection struct {
	coll finder
}

// ParseID converts a hex document id into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("parsing document id %q: %w", id, err)
	}
	return oid, nil
}

// FindByID decodes the document with the given hex id into out. A missing
// document is reported as (false, nil), never as an error.
func (c *Collection) FindByID(ctx context.Context, id string, out any) (bool, error) {
	oid, err := ParseID(id)
	if err != nil {
		return false, err
	}
	return c.FindOne(ctx, bson.M{"_id": oid}, out)
}

// FindOne decodes the first document matching filter into out.
func (c *Collection) FindOne(ctx context.Context, filter bson.M, out any) (bool, error) {
	err := c.coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find one: %w", err)
	}
	return true, nil
}

// Find decodes all documents matching filter into out, which must be a
// pointer to a slice. Sort is optional.
func (c *Collection) Find(ctx context.Context, filter bson.M, out any, sort bson.D) error {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	cursor, err := c.coll.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decoding documents: %w", err)
	}
	return nil
}

// All decodes every document in the collection into out.
func (c *Collection) All(ctx context.Context, out any) error {
	return c.Find(ctx, bson.M{}, out, nil)
}

// InsertOne stores the document and returns its hex id.
func (c *Collection) InsertOne(ctx context.Context, document any) (string, error) {
	result, err := c.coll.InsertOne(ctx, document)
	if err != nil {
		return "", fmt.Errorf("insert one: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(result.InsertedID), nil
}

// UpdateByID applies a $set of fields to the document with the given hex id.
func (c *Collection) UpdateByID(ctx context.Context, id string, fields bson.M) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	_, err = c.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update by id: %w", err)
	}
	return nil
}

// DeleteByID removes the document with the given hex id.
func (c *Collection) DeleteByID(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete by id: %w", err)
	}
	return nil
}
