package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/tutorloop/checkout-backend/internal/catalog"
	"github.com/tutorloop/checkout-backend/pkg/config"
	"github.com/tutorloop/checkout-backend/pkg/logger"
	"github.com/tutorloop/checkout-backend/pkg/mongo"
)

// Loads catalog fixtures into the products collection. Records already
// present (matched by name) are left alone, so reruns are safe.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	file := flag.String("file", "", "path to a JSON array of product records")
	force := flag.Bool("force", false, "allow seeding outside dev")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	if !cfg.App.IsDev() && !*force {
		fmt.Fprintln(os.Stderr, "refusing to seed outside dev; pass -force")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"file": *file,
	})

	raw, err := os.ReadFile(*file)
	requireResource(ctx, logg, "fixture file", err)

	var records []map[string]any
	requireResource(ctx, logg, "fixture parse", json.Unmarshal(raw, &records))

	mongoClient, err := mongo.New(context.Background(), cfg.Mongo, logg)
	requireResource(ctx, logg, "mongo", err)
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			logg.Error(ctx, "error closing mongo", err)
		}
	}()

	products, err := catalog.NewRepository(mongoClient.Collection(catalog.CollectionName))
	requireResource(ctx, logg, "products repository", err)

	inserted := 0
	for _, record := range records {
		product := catalog.ProductFromRecord(record)
		if product.Name == "" {
			fmt.Fprintln(os.Stderr, "skipping record without a name")
			continue
		}

		_, found, err := products.FindByName(ctx, product.Name)
		requireResource(ctx, logg, "products lookup", err)
		if found {
			continue
		}

		id, err := products.Insert(ctx, product)
		requireResource(ctx, logg, "products insert", err)
		fmt.Printf("inserted %s (%s)\n", product.Name, id)
		inserted++
	}

	logg.Info(logg.WithField(ctx, "inserted", inserted), "seed complete")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
