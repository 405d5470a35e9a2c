package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusCompleted,
		OrderStatusShipped,
		OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), "expected %q to be valid", s)
	}

	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("delivered").Valid())
	assert.False(t, OrderStatus("PENDING").Valid())
}

func TestPaymentStatusValid(t *testing.T) {
	for _, s := range []PaymentStatus{
		PaymentStatusUnpaid,
		PaymentStatusPaid,
		PaymentStatusPartiallyPaid,
	} {
		assert.True(t, s.Valid(), "expected %q to be valid", s)
	}

	assert.False(t, PaymentStatus("").Valid())
	assert.False(t, PaymentStatus("refunded").Valid())
}
