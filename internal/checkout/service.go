package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v72"

	"github.com/tutorloop/checkout-backend/internal/cart"
	pkgerrors "github.com/tutorloop/checkout-backend/pkg/errors"
	"github.com/tutorloop/checkout-backend/pkg/logger"
	"github.com/tutorloop/checkout-backend/pkg/metrics"
	stripeclient "github.com/tutorloop/checkout-backend/pkg/stripe"
)

type gateway interface {
	CreateOrder(ctx context.Context, params stripeclient.OrderCreateParams) (*stripe.Order, error)
	PayOrder(ctx context.Context, orderID, customerID string) (*stripe.Order, error)
}

type cartProvider interface {
	Current(ctx context.Context, sessionID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type attemptGuard interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

// Service executes checkout orchestration.
type Service interface {
	Checkout(ctx context.Context, customer Customer, crt *cart.Cart) (*Result, error)
}

// Customer identifies the authenticated account checking out. SessionID names
// the ambient session cart used when no explicit cart is supplied.
type Customer struct {
	ID        string
	Email     string
	SessionID string
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Gateway      gateway
	CartProvider cartProvider
	Logger       *logger.Logger
	Metrics      *metrics.CheckoutMetrics

	// Guard, when set, serializes attempts per session so a double submit
	// cannot charge the same cart twice.
	Guard attemptGuard
}

type service struct {
	gateway gateway
	carts   cartProvider
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
	guard   attemptGuard
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Gateway == nil {
		return nil, fmt.Errorf("gateway required")
	}
	if params.CartProvider == nil {
		return nil, fmt.Errorf("cart provider required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		gateway: params.Gateway,
		carts:   params.CartProvider,
		logg:    params.Logger,
		metrics: params.Metrics,
		guard:   params.Guard,
	}, nil
}

// Checkout converts the cart into a gateway order and charges it. The cart is
// emptied only after both the create and the pay call succeed; on a decline
// or any other gateway failure the cart is left untouched and the outcome is
// reported through the Result rather than an error.
func (s *service) Checkout(ctx context.Context, customer Customer, crt *cart.Cart) (*Result, error) {
	if strings.TrimSpace(customer.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if strings.TrimSpace(customer.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}

	ctx = s.logg.WithCustomerID(ctx, customer.ID)

	if sid := strings.TrimSpace(customer.SessionID); s.guard != nil && sid != "" {
		acquired, err := s.guard.Acquire(ctx, sid)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring checkout guard")
		}
		if !acquired {
			s.metrics.IncOutcome(string(StatusFailed))
			s.logg.Warn(ctx, "checkout already in progress for session")
			return failed("checkout already in progress"), nil
		}
		// Release once the attempt reaches a terminal outcome so the
		// customer can retry after a decline or failure.
		defer func() {
			if err := s.guard.Release(ctx, sid); err != nil {
				s.logg.Error(ctx, "releasing checkout guard", err)
			}
		}()
	}

	ambient := false
	if crt == nil {
		if strings.TrimSpace(customer.SessionID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required when no cart is supplied")
		}
		current, err := s.carts.Current(ctx, customer.SessionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session cart")
		}
		crt = current
		ambient = true
	}

	lines, err := toOrderLines(crt.ChargeRecords())
	if err != nil {
		return nil, err
	}
	params := stripeclient.OrderCreateParams{
		Currency:   cart.Currency,
		CustomerID: customer.ID,
		Email:      customer.Email,
		Lines:      lines,
	}

	start := time.Now()
	created, err := s.gateway.CreateOrder(ctx, params)
	s.metrics.ObserveGateway("create_order", time.Since(start))
	if err != nil {
		return s.report(ctx, err, "creating order"), nil
	}

	start = time.Now()
	order, err := s.gateway.PayOrder(ctx, created.ID, customer.ID)
	s.metrics.ObserveGateway("pay_order", time.Since(start))
	if err != nil {
		return s.report(ctx, err, "paying order"), nil
	}

	crt.Empty()
	if ambient {
		if err := s.carts.Clear(ctx, customer.SessionID); err != nil {
			// The charge already went through; a stale session cart is a
			// cleanup problem, not a checkout failure.
			s.logg.Error(ctx, "clearing session cart after checkout", err)
		}
	}

	s.metrics.IncOutcome(string(StatusPaid))
	s.logg.Info(ctx, fmt.Sprintf("checkout paid order %s", order.ID))
	return paid(order), nil
}

// report turns a gateway error into the matching terminal result. No gateway
// error ever escapes Checkout as a Go error.
func (s *service) report(ctx context.Context, err error, op string) *Result {
	if pkgerrors.HasCode(err, pkgerrors.CodeDeclined) {
		reason := pkgerrors.As(err).Message()
		s.metrics.IncOutcome(string(StatusDeclined))
		s.logg.Warn(ctx, fmt.Sprintf("card declined: %s", reason))
		return declined(reason)
	}

	s.metrics.IncOutcome(string(StatusFailed))
	s.logg.Error(ctx, op, err)
	return failed(err.Error())
}

// toOrderLines projects charge records onto gateway line items. The gateway
// only accepts whole minor-unit amounts, so a fractional line total is a
// validation error rather than something to round away silently.
func toOrderLines(records []cart.ChargeRecord) ([]stripeclient.OrderLine, error) {
	lines := make([]stripeclient.OrderLine, 0, len(records))
	for _, record := range records {
		if !record.Amount.IsInteger() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("line amount %s for %q is not a whole minor-unit value", record.Amount, record.Description))
		}
		lines = append(lines, stripeclient.OrderLine{
			Amount:      record.Amount.IntPart(),
			Currency:    record.Currency,
			Description: record.Description,
			Parent:      record.Parent,
			Quantity:    record.Quantity,
			Type:        record.Type,
		})
	}
	return lines, nil
}
