package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v72"

	pkgerrors "github.com/tutorloop/checkout-backend/pkg/errors"
	"github.com/tutorloop/checkout-backend/pkg/types"
)

type gateway interface {
	RetrieveCustomer(ctx context.Context, customerID string) (*stripe.Customer, error)
	RetrieveCard(ctx context.Context, customerID, cardID string) (*stripe.Card, error)
	AddCard(ctx context.Context, customerID, token string) (*stripe.Card, error)
}

// Customer is the account view assembled from the gateway record: the phone
// number is promoted out of the free-form metadata and the tutoring profile
// is derived from the same mapping.
type Customer struct {
	ID              string            `json:"id"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	DefaultSourceID string            `json:"default_source_id,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	Student         types.Student     `json:"student"`
}

// Card is a payment-source view with its billing address parsed into a
// first-class field.
type Card struct {
	ID             string        `json:"id"`
	Brand          string        `json:"brand"`
	Last4          string        `json:"last4"`
	BillingAddress types.Address `json:"billing_address"`
}

// Service retrieves account and payment-source views from the gateway.
type Service interface {
	Retrieve(ctx context.Context, customerID string) (*Customer, error)
	RetrieveCard(ctx context.Context, customerID, cardID string) (*Card, error)
	AddCard(ctx context.Context, customerID, token string) (*Card, error)
}

type service struct {
	gateway gateway
}

// NewService builds the customer service on the shared gateway client.
func NewService(gw gateway) (Service, error) {
	if gw == nil {
		return nil, fmt.Errorf("gateway required")
	}
	return &service{gateway: gw}, nil
}

// Retrieve fetches the customer with its default payment source expanded.
// An unknown id yields (nil, nil), never an error.
func (s *service) Retrieve(ctx context.Context, customerID string) (*Customer, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	record, err := s.gateway.RetrieveCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	customer := &Customer{
		ID:       record.ID,
		Email:    record.Email,
		Phone:    record.Metadata[types.MetadataKeyPhone],
		Metadata: record.Metadata,
		Student:  types.StudentFromMetadata(record.Metadata),
	}
	if record.DefaultSource != nil {
		customer.DefaultSourceID = record.DefaultSource.ID
	}
	return customer, nil
}

// RetrieveCard fetches a card and derives its billing address. An unknown id
// yields (nil, nil).
func (s *service) RetrieveCard(ctx context.Context, customerID, cardID string) (*Card, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if strings.TrimSpace(cardID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card id required")
	}

	record, err := s.gateway.RetrieveCard(ctx, customerID, cardID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}
	return cardFromRecord(record), nil
}

// AddCard attaches a tokenized card to the customer.
func (s *service) AddCard(ctx context.Context, customerID, token string) (*Card, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "card token required")
	}

	record, err := s.gateway.AddCard(ctx, customerID, token)
	if err != nil {
		return nil, err
	}
	return cardFromRecord(record), nil
}

func cardFromRecord(record *stripe.Card) *Card {
	return &Card{
		ID:    record.ID,
		Brand: string(record.Brand),
		Last4: record.Last4,
		BillingAddress: types.Address{
			StreetLine1: record.AddressLine1,
			StreetLine2: record.AddressLine2,
			City:        record.AddressCity,
			State:       record.AddressState,
			ZipCode:     record.AddressZip,
		},
	}
}
