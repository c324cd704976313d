package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/tutorloop/checkout-backend/internal/catalog"
	"github.com/tutorloop/checkout-backend/internal/checkout"
	"github.com/tutorloop/checkout-backend/internal/customers"
	"github.com/tutorloop/checkout-backend/internal/session"
	"github.com/tutorloop/checkout-backend/pkg/config"
	"github.com/tutorloop/checkout-backend/pkg/logger"
	"github.com/tutorloop/checkout-backend/pkg/redis"
	stripeclient "github.com/tutorloop/checkout-backend/pkg/stripe"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "checkout"})

	_ = godotenv.Load()

	// Flags
	cmd := flag.String("cmd", "", "command: customer|card|add-card|cart-add|cart-show|cart-clear|checkout")
	customerID := flag.String("customer", "", "gateway customer id")
	cardID := flag.String("card", "", "card id (for -cmd=card)")
	token := flag.String("token", "", "card token (for -cmd=add-card)")
	sessionID := flag.String("session", "", "shopping session id (blank mints a new one)")
	confirm := flag.Bool("confirm", false, "required to charge in prod")

	// cart-add flags
	name := flag.String("name", "", "product name")
	desc := flag.String("desc", "", "product description")
	price := flag.String("price", "", "unit price, e.g. 25.00")
	sku := flag.String("sku", "", "gateway SKU id")
	qty := flag.Int64("qty", 1, "quantity")

	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "checkout",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
	})

	gateway, err := stripeclient.NewClient(ctx, cfg.Stripe, logg)
	requireResource(ctx, logg, "stripe", err)

	customerSvc, err := customers.NewService(gateway)
	requireResource(ctx, logg, "customer service", err)

	// Commands that do NOT touch the session store
	switch *cmd {
	case "customer":
		record, err := customerSvc.Retrieve(ctx, *customerID)
		requireResource(ctx, logg, "customer lookup", err)
		if record == nil {
			fmt.Fprintln(os.Stderr, "no such customer:", *customerID)
			os.Exit(1)
		}
		printJSON(record)
		return

	case "card":
		card, err := customerSvc.RetrieveCard(ctx, *customerID, *cardID)
		requireResource(ctx, logg, "card lookup", err)
		printJSON(card)
		return

	case "add-card":
		card, err := customerSvc.AddCard(ctx, *customerID, *token)
		requireResource(ctx, logg, "add card", err)
		printJSON(card)
		return
	}

	// Everything else works on a session cart
	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	carts, err := session.NewStore(redisClient, cfg.Redis)
	requireResource(ctx, logg, "session store", err)

	sid := *sessionID
	if sid == "" {
		sid = session.NewSessionID()
		fmt.Println("session:", sid)
	}
	ctx = logg.WithSessionID(ctx, sid)

	switch *cmd {
	case "cart-add":
		unit, err := decimal.NewFromString(*price)
		requireResource(ctx, logg, "price", err)
		product := catalog.NewProduct(*name, *desc, unit)
		if *sku != "" {
			product = catalog.NewSKUProduct(*name, *desc, unit, *sku)
		}
		crt, err := carts.Current(ctx, sid)
		requireResource(ctx, logg, "session cart", err)
		crt.AddProducts(product, *qty)
		err = carts.Save(ctx, sid, crt)
		requireResource(ctx, logg, "session cart save", err)
		printJSON(crt)

	case "cart-show":
		crt, err := carts.Current(ctx, sid)
		requireResource(ctx, logg, "session cart", err)
		printJSON(crt)

	case "cart-clear":
		err := carts.Clear(ctx, sid)
		requireResource(ctx, logg, "session cart clear", err)
		fmt.Println("cart cleared")

	case "checkout":
		if cfg.App.IsProd() && !*confirm {
			fmt.Fprintln(os.Stderr, "charging in prod requires -confirm")
			os.Exit(1)
		}

		record, err := customerSvc.Retrieve(ctx, *customerID)
		requireResource(ctx, logg, "customer lookup", err)
		if record == nil {
			fmt.Fprintln(os.Stderr, "no such customer:", *customerID)
			os.Exit(1)
		}

		guard, err := session.NewCheckoutGuard(redisClient, cfg.Redis)
		requireResource(ctx, logg, "checkout guard", err)

		svc, err := checkout.NewService(checkout.ServiceParams{
			Gateway:      gateway,
			CartProvider: carts,
			Logger:       logg,
			Guard:        guard,
		})
		requireResource(ctx, logg, "checkout service", err)

		result, err := svc.Checkout(ctx, checkout.Customer{
			ID:        record.ID,
			Email:     record.Email,
			SessionID: sid,
		}, nil)
		requireResource(ctx, logg, "checkout", err)
		printJSON(result)
		if !result.Paid() {
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
