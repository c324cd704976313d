package checkout

import "github.com/stripe/stripe-go/v72"

// Status is the terminal outcome of a checkout attempt.
type Status string

const (
	// StatusPaid means the order was created and charged; the cart was emptied.
	StatusPaid Status = "paid"
	// StatusDeclined means the gateway refused the card; the cart is intact
	// and the customer can retry with another payment method.
	StatusDeclined Status = "declined"
	// StatusFailed means the gateway failed for any other reason; the cart
	// is intact.
	StatusFailed Status = "failed"
)

// Result reports how a checkout attempt ended. Exactly one of the failure
// categories or Paid applies; Order is set only on Paid.
type Result struct {
	Status Status        `json:"status"`
	Order  *stripe.Order `json:"order,omitempty"`
	Reason string        `json:"reason,omitempty"`
}

// Paid reports whether the attempt ended in a charged order.
func (r *Result) Paid() bool {
	return r != nil && r.Status == StatusPaid
}

func paid(order *stripe.Order) *Result {
	return &Result{Status: StatusPaid, Order: order}
}

func declined(reason string) *Result {
	return &Result{Status: StatusDeclined, Reason: reason}
}

func failed(reason string) *Result {
	return &Result{Status: StatusFailed, Reason: reason}
}
