package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentStatusIsValid(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{status: "Pending", want: true},
		{status: "Paid", want: true},
		{status: "Shipped", want: true},
		{status: "Cancelled", want: true},
		{status: "pending", want: false},
		{status: "Refunded", want: false},
		{status: "", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			assert.Equal(t, tc.want, PaymentStatusType(tc.status).IsValid())
		})
	}
}

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		name string
		from PaymentStatusType
		to   PaymentStatusType
		want bool
	}{
		{name: "pending to paid", from: PaymentStatusPending, to: PaymentStatusPaid, want: true},
		{name: "pending to cancelled", from: PaymentStatusPending, to: PaymentStatusCancelled, want: true},
		{name: "paid to shipped", from: PaymentStatusPaid, to: PaymentStatusShipped, want: true},
		{name: "self transition is noop", from: PaymentStatusPaid, to: PaymentStatusPaid, want: true},
		{name: "no backward paid to pending", from: PaymentStatusPaid, to: PaymentStatusPending, want: false},
		{name: "no backward shipped to paid", from: PaymentStatusShipped, to: PaymentStatusPaid, want: false},
		{name: "no skip pending to shipped", from: PaymentStatusPending, to: PaymentStatusShipped, want: false},
		{name: "cancelled is terminal", from: PaymentStatusCancelled, to: PaymentStatusPaid, want: false},
		{name: "shipped is terminal", from: PaymentStatusShipped, to: PaymentStatusCancelled, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}
