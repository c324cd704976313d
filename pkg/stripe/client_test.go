package stripe

import (
	"testing"

	"github.com/stripe/stripe-go/v72"

	pkgerrors "github.com/tutorloop/checkout-backend/pkg/errors"
)

func TestNormalizeEnv(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "", want: testEnv},
		{raw: "test", want: testEnv},
		{raw: " LIVE ", want: liveEnv},
		{raw: "staging", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeEnv(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %q got %q", tt.raw, tt.want, got)
		}
	}
}

func TestValidateAPIKeyMatchesEnv(t *testing.T) {
	if err := validateAPIKey(testEnv, "sk_test_abc"); err != nil {
		t.Fatalf("test key in test env should pass: %v", err)
	}
	if err := validateAPIKey(liveEnv, "sk_live_abc"); err != nil {
		t.Fatalf("live key in live env should pass: %v", err)
	}
	if err := validateAPIKey(testEnv, "sk_live_abc"); err == nil {
		t.Fatal("live key in test env should fail")
	}
	if err := validateAPIKey(liveEnv, "sk_test_abc"); err == nil {
		t.Fatal("test key in live env should fail")
	}
}

func TestMapGatewayErrorDistinguishesDeclines(t *testing.T) {
	declined := &stripe.Error{
		Type:        stripe.ErrorTypeCard,
		DeclineCode: stripe.DeclineCodeInsufficientFunds,
		Msg:         "Your card has insufficient funds.",
	}
	mapped := mapGatewayError(declined, "pay order")
	if !pkgerrors.HasCode(mapped, pkgerrors.CodeDeclined) {
		t.Fatalf("card error should map to declined, got %v", mapped)
	}
	if typed := pkgerrors.As(mapped); typed.Message() != "insufficient_funds" {
		t.Fatalf("expected decline code as reason, got %q", typed.Message())
	}

	outage := &stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "gateway on fire"}
	mapped = mapGatewayError(outage, "pay order")
	if !pkgerrors.HasCode(mapped, pkgerrors.CodeDependency) {
		t.Fatalf("api error should map to dependency, got %v", mapped)
	}
}

func TestIsNotFound(t *testing.T) {
	missing := &stripe.Error{Code: stripe.ErrorCodeResourceMissing}
	if !isNotFound(missing) {
		t.Fatal("resource_missing should read as not found")
	}
	if isNotFound(&stripe.Error{Code: stripe.ErrorCodeRateLimit}) {
		t.Fatal("rate limit is not a missing resource")
	}
}
