package stripe

import (
	"context"
	stdErrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/card"
	"github.com/stripe/stripe-go/v72/customer"
	"github.com/stripe/stripe-go/v72/order"

	pkgerrors "github.com/tutorloop/checkout-backend/pkg/errors"
)

const expandDefaultSource = "default_source"

// OrderLine is a single gateway order line item.
type OrderLine struct {
	Amount      int64
	Currency    string
	Description string
	Parent      *string
	Quantity    int64
	Type        string
}

// OrderCreateParams captures the fields required to open a gateway order.
type OrderCreateParams struct {
	Currency   string
	CustomerID string
	Email      string
	Lines      []OrderLine
}

// CreateOrder opens a gateway order for the customer with the given line
// items. Each call is stamped with a fresh idempotency key.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*stripe.Order, error) {
	orderParams := &stripe.OrderParams{
		Currency: stripe.String(params.Currency),
		Customer: stripe.String(params.CustomerID),
		Email:    stripe.String(params.Email),
	}
	orderParams.Context = ctx
	orderParams.IdempotencyKey = stripe.String(uuid.NewString())

	for _, line := range params.Lines {
		orderParams.Items = append(orderParams.Items, &stripe.OrderItemParams{
			Amount:      stripe.Int64(line.Amount),
			Currency:    stripe.String(line.Currency),
			Description: stripe.String(line.Description),
			Parent:      line.Parent,
			Quantity:    stripe.Int64(line.Quantity),
			Type:        stripe.String(line.Type),
		})
	}

	created, err := order.New(orderParams)
	if err != nil {
		return nil, mapGatewayError(err, "create order")
	}
	return created, nil
}

// PayOrder charges an open gateway order on behalf of the customer. A card
// decline surfaces as a CARD_DECLINED error; anything else is a dependency
// failure.
func (c *Client) PayOrder(ctx context.Context, orderID, customerID string) (*stripe.Order, error) {
	payParams := &stripe.OrderPayParams{
		Customer: stripe.String(customerID),
	}
	payParams.Context = ctx
	payParams.IdempotencyKey = stripe.String(uuid.NewString())

	paid, err := order.Pay(orderID, payParams)
	if err != nil {
		return nil, mapGatewayError(err, "pay order")
	}
	return paid, nil
}

// RetrieveCustomer fetches a customer with its default payment source
// expanded. An unknown id yields (nil, nil).
func (c *Client) RetrieveCustomer(ctx context.Context, customerID string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	params.AddExpand(expandDefaultSource)

	record, err := customer.Get(customerID, params)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapGatewayError(err, "retrieve customer")
	}
	return record, nil
}

// RetrieveCard fetches a card payment source for the customer. An unknown id
// yields (nil, nil).
func (c *Client) RetrieveCard(ctx context.Context, customerID, cardID string) (*stripe.Card, error) {
	params := &stripe.CardParams{
		Customer: stripe.String(customerID),
	}
	params.Context = ctx

	record, err := card.Get(cardID, params)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, mapGatewayError(err, "retrieve card")
	}
	return record, nil
}

// AddCard attaches a tokenized card to the customer as a payment source.
func (c *Client) AddCard(ctx context.Context, customerID, token string) (*stripe.Card, error) {
	params := &stripe.CardParams{
		Customer: stripe.String(customerID),
		Token:    stripe.String(token),
	}
	params.Context = ctx

	created, err := card.New(params)
	if err != nil {
		return nil, mapGatewayError(err, "add card")
	}
	return created, nil
}

func mapGatewayError(err error, op string) error {
	var stripeErr *stripe.Error
	if stdErrors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return pkgerrors.Wrap(pkgerrors.CodeDeclined, err, declineReason(stripeErr))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}

func declineReason(stripeErr *stripe.Error) string {
	if stripeErr == nil {
		return "card declined"
	}
	if reason := strings.TrimSpace(string(stripeErr.DeclineCode)); reason != "" {
		return reason
	}
	if msg := strings.TrimSpace(stripeErr.Msg); msg != "" {
		return msg
	}
	return "card declined"
}

func isNotFound(err error) bool {
	var stripeErr *stripe.Error
	if !stdErrors.As(err, &stripeErr) {
		return false
	}
	return stripeErr.Code == stripe.ErrorCodeResourceMissing
}
