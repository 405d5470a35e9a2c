package services

import (
	"testing"
	"time"

	"opsdesk_server/structs/tables"

	"github.com/stretchr/testify/assert"
)

func TestReduceCustomerStats(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	customers := []tables.Customer{
		{CreatedAt: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)},
		// same month, previous year: must not count
		{CreatedAt: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)},
	}

	stats := reduceCustomerStats(customers, now)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.NewThisMonth)
	assert.InDelta(t, 50.0, stats.GrowthRate, 0.001)
}

func TestReduceCustomerStatsEmpty(t *testing.T) {
	stats := reduceCustomerStats(nil, time.Now())

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.NewThisMonth)
	assert.Equal(t, 0.0, stats.GrowthRate)
}

func TestReduceProductStats(t *testing.T) {
	products := []tables.Product{
		{Stock: 0, Price: 1000},
		{Stock: 3, Price: 2000},
		{Stock: 10, Price: 3000},
		{Stock: 11, Price: 4000},
		{Stock: 250, Price: 5000},
	}

	stats := reduceProductStats(products)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.LowStock)
	assert.Equal(t, 1, stats.OutOfStock)
	assert.Equal(t, int64(3000), stats.AveragePrice)
}

func TestReduceProductStatsEmpty(t *testing.T) {
	stats := reduceProductStats(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, int64(0), stats.AveragePrice)
}

func TestReduceOrderStats(t *testing.T) {
	orders := []tables.Order{
		{Status: tables.OrderStatusPending, PaymentStatus: tables.PaymentStatusUnpaid, TotalAmount: 1500},
		{Status: tables.OrderStatusPending, PaymentStatus: tables.PaymentStatusPaid, TotalAmount: 2500},
		{Status: tables.OrderStatusCompleted, PaymentStatus: tables.PaymentStatusPaid, TotalAmount: 10000},
		{Status: tables.OrderStatusCancelled, PaymentStatus: tables.PaymentStatusUnpaid, TotalAmount: 500},
		{Status: tables.OrderStatusShipped, PaymentStatus: tables.PaymentStatusPartiallyPaid, TotalAmount: 3000},
	}

	stats := reduceOrderStats(orders)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Unpaid)
	// cancelled orders still count toward total sales
	assert.Equal(t, int64(17500), stats.TotalSales)
}
