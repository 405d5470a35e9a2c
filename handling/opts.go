package handling

import (
	"net/http"
	"opsdesk_server/services"
	"opsdesk_server/structs/tables"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseCustomerListOptions parses HTTP query parameters into CustomerListOptions
func ParseCustomerListOptions(r *http.Request) (*services.CustomerListOptions, error) {
	query := r.URL.Query()

	opts := &services.CustomerListOptions{}
	if len(query) == 0 {
		return opts, nil
	}

	var err error
	if opts.Page, opts.PageSize, err = parsePagination(query.Get("page"), query.Get("page_size")); err != nil {
		return nil, err
	}

	opts.SearchTerm = query.Get("search")
	opts.SortBy = query.Get("sort")
	opts.SortDirection = normalizeDirection(query.Get("order"))

	return opts, nil
}

// ParseProductListOptions parses HTTP query parameters into ProductListOptions
func ParseProductListOptions(r *http.Request) (*services.ProductListOptions, error) {
	query := r.URL.Query()

	opts := &services.ProductListOptions{}
	if len(query) == 0 {
		return opts, nil
	}

	var err error
	if opts.Page, opts.PageSize, err = parsePagination(query.Get("page"), query.Get("page_size")); err != nil {
		return nil, err
	}

	opts.SearchTerm = query.Get("search")
	opts.SortBy = query.Get("sort")
	opts.SortDirection = normalizeDirection(query.Get("order"))

	if minPrice := query.Get("min_price"); minPrice != "" {
		val, err := strconv.ParseInt(minPrice, 10, 64)
		if err != nil {
			return nil, err
		}
		opts.MinPrice = &val
	}

	if maxPrice := query.Get("max_price"); maxPrice != "" {
		val, err := strconv.ParseInt(maxPrice, 10, 64)
		if err != nil {
			return nil, err
		}
		opts.MaxPrice = &val
	}

	if inStock := query.Get("in_stock"); inStock != "" {
		val, err := strconv.ParseBool(inStock)
		if err != nil {
			return nil, err
		}
		opts.InStock = &val
	}

	return opts, nil
}

// ParseOrderListOptions parses HTTP query parameters into OrderListOptions
func ParseOrderListOptions(r *http.Request) (*services.OrderListOptions, error) {
	query := r.URL.Query()

	opts := &services.OrderListOptions{}
	if len(query) == 0 {
		return opts, nil
	}

	var err error
	if opts.Page, opts.PageSize, err = parsePagination(query.Get("page"), query.Get("page_size")); err != nil {
		return nil, err
	}

	opts.SearchTerm = query.Get("search")
	opts.SortBy = query.Get("sort")
	opts.SortDirection = normalizeDirection(query.Get("order"))

	if status := query.Get("status"); status != "" {
		s := tables.OrderStatus(status)
		opts.Status = &s
	}

	if paymentStatus := query.Get("payment_status"); paymentStatus != "" {
		s := tables.PaymentStatus(paymentStatus)
		opts.PaymentStatus = &s
	}

	if customerId := query.Get("customer_id"); customerId != "" {
		id, err := uuid.Parse(customerId)
		if err != nil {
			return nil, err
		}
		opts.CustomerId = &id
	}

	if dateFrom := query.Get("date_from"); dateFrom != "" {
		t, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			return nil, err
		}
		opts.DateFrom = &t
	}

	if dateTo := query.Get("date_to"); dateTo != "" {
		t, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			return nil, err
		}
		opts.DateTo = &t
	}

	return opts, nil
}

func parsePagination(page, pageSize string) (int, int, error) {
	var p, ps int
	var err error

	if page != "" {
		if p, err = strconv.Atoi(page); err != nil {
			return 0, 0, err
		}
	}
	if pageSize != "" {
		if ps, err = strconv.Atoi(pageSize); err != nil {
			return 0, 0, err
		}
	}

	return p, ps, nil
}

// normalizeDirection maps query values like "asc"/"desc" to the SQL form
func normalizeDirection(dir string) string {
	if dir == "" {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(dir))
}
