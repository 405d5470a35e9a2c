package handling

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"opsdesk_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listRequest(rawQuery string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/list", nil)
	r.URL.RawQuery = rawQuery
	return r
}

func TestParseCustomerListOptions(t *testing.T) {
	opts, err := ParseCustomerListOptions(listRequest("page=2&page_size=10&search=ada&sort=email&order=desc"))
	require.NoError(t, err)

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 10, opts.PageSize)
	assert.Equal(t, "ada", opts.SearchTerm)
	assert.Equal(t, "email", opts.SortBy)
	assert.Equal(t, "DESC", opts.SortDirection)
}

func TestParseCustomerListOptionsEmpty(t *testing.T) {
	opts, err := ParseCustomerListOptions(listRequest(""))
	require.NoError(t, err)

	assert.Equal(t, 0, opts.Page)
	assert.Equal(t, 0, opts.PageSize)
	assert.Empty(t, opts.SearchTerm)
}

func TestParseCustomerListOptionsBadPage(t *testing.T) {
	_, err := ParseCustomerListOptions(listRequest("page=abc"))
	assert.Error(t, err)
}

func TestParseProductListOptions(t *testing.T) {
	opts, err := ParseProductListOptions(listRequest("min_price=100&max_price=5000&in_stock=true&sort=price&order=asc"))
	require.NoError(t, err)

	require.NotNil(t, opts.MinPrice)
	assert.Equal(t, int64(100), *opts.MinPrice)
	require.NotNil(t, opts.MaxPrice)
	assert.Equal(t, int64(5000), *opts.MaxPrice)
	require.NotNil(t, opts.InStock)
	assert.True(t, *opts.InStock)
	assert.Equal(t, "ASC", opts.SortDirection)
}

func TestParseProductListOptionsBadPrice(t *testing.T) {
	_, err := ParseProductListOptions(listRequest("min_price=cheap"))
	assert.Error(t, err)
}

func TestParseProductListOptionsBadStockFlag(t *testing.T) {
	_, err := ParseProductListOptions(listRequest("in_stock=maybe"))
	assert.Error(t, err)
}

func TestParseOrderListOptions(t *testing.T) {
	customerId := uuid.New()
	opts, err := ParseOrderListOptions(listRequest(
		"status=pending&payment_status=unpaid&customer_id=" + customerId.String() +
			"&date_from=2026-01-01T00:00:00Z&date_to=2026-02-01T00:00:00Z",
	))
	require.NoError(t, err)

	require.NotNil(t, opts.Status)
	assert.Equal(t, tables.OrderStatusPending, *opts.Status)
	require.NotNil(t, opts.PaymentStatus)
	assert.Equal(t, tables.PaymentStatusUnpaid, *opts.PaymentStatus)
	require.NotNil(t, opts.CustomerId)
	assert.Equal(t, customerId, *opts.CustomerId)
	require.NotNil(t, opts.DateFrom)
	require.NotNil(t, opts.DateTo)
	assert.True(t, opts.DateFrom.Before(*opts.DateTo))
}

func TestParseOrderListOptionsBadCustomerId(t *testing.T) {
	_, err := ParseOrderListOptions(listRequest("customer_id=not-a-uuid"))
	assert.Error(t, err)
}

func TestParseOrderListOptionsBadDate(t *testing.T) {
	_, err := ParseOrderListOptions(listRequest("date_from=yesterday"))
	assert.Error(t, err)
}

func TestNormalizeDirection(t *testing.T) {
	assert.Equal(t, "", normalizeDirection(""))
	assert.Equal(t, "ASC", normalizeDirection("asc"))
	assert.Equal(t, "DESC", normalizeDirection(" desc "))
}
