package services

import (
	"context"
	"fmt"
	"opsdesk_server/database"
	"opsdesk_server/lib"
	"opsdesk_server/structs"
	"opsdesk_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CustomerService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewCustomerService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *CustomerService {
	return &CustomerService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// CustomerListOptions contains filtering and pagination options for customer queries
type CustomerListOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Matches against name, email, and phone
	SearchTerm string `json:"search_term,omitempty"`

	SortBy        string `json:"sort_by"`
	SortDirection string `json:"sort_direction"`

	Timeout time.Duration `json:"-"`
}

// CustomerListResult wraps the customer list response with metadata
type CustomerListResult struct {
	Customers  []tables.Customer   `json:"customers"`
	Pagination database.Pagination `json:"pagination"`
}

var validCustomerSortFields = map[string]bool{
	"name":       true,
	"email":      true,
	"created_at": true,
	"updated_at": true,
}

func (cs *CustomerService) applyDefaultOptions(opts *CustomerListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 25
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}
	if opts.SortBy == "" {
		opts.SortBy = "name"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = "ASC"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
}

func (cs *CustomerService) validateOptions(opts *CustomerListOptions) error {
	if !validCustomerSortFields[opts.SortBy] {
		return fmt.Errorf("invalid sort field: %s", opts.SortBy)
	}
	if opts.SortDirection != "ASC" && opts.SortDirection != "DESC" {
		return fmt.Errorf("invalid sort direction: %s (must be ASC or DESC)", opts.SortDirection)
	}
	return nil
}

func (cs *CustomerService) applyFilters(query *database.QueryBuilder[tables.Customer], opts *CustomerListOptions) *database.QueryBuilder[tables.Customer] {
	if opts.SearchTerm != "" {
		searchPattern := "%" + opts.SearchTerm + "%"
		query = query.WhereRaw(
			"(name ILIKE ? OR email ILIKE ? OR phone ILIKE ?)",
			searchPattern, searchPattern, searchPattern,
		)
	}
	return query
}

func (cs *CustomerService) applySorting(query *database.QueryBuilder[tables.Customer], opts *CustomerListOptions) *database.QueryBuilder[tables.Customer] {
	direction := database.DESC
	if opts.SortDirection == "ASC" {
		direction = database.ASC
	}

	query = query.OrderBy(opts.SortBy, direction)

	// Secondary sort for stable ordering
	return query.OrderBy("id", database.ASC)
}

// GetAllCustomers retrieves customers with filtering, sorting, and pagination
func (cs *CustomerService) GetAllCustomers(ctx context.Context, opts *CustomerListOptions) (*CustomerListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &CustomerListOptions{}
	}
	cs.applyDefaultOptions(opts)

	if err := cs.validateOptions(opts); err != nil {
		cs.logger.Error("Invalid customer list options", gecho.Field("error", err))
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	query := database.Query[tables.Customer](cs.db).Timeout(opts.Timeout)
	query = cs.applyFilters(query, opts)
	query = cs.applySorting(query, opts)

	result, err := database.Paginate(query, ctx, opts.Page, opts.PageSize)
	if err != nil {
		cs.logger.Error("Failed to fetch customers",
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}

	cs.logger.Debug("Customers fetched",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("duration", time.Since(startTime)))

	return &CustomerListResult{
		Customers:  result.Data,
		Pagination: result.Pagination,
	}, nil
}

// GetCustomerById retrieves a single customer by ID.
// Returns lib.ErrNotFound when the id does not exist.
func (cs *CustomerService) GetCustomerById(ctx context.Context, id uuid.UUID) (*tables.Customer, error) {
	cached, err := cs.cacheService.GetCustomerFromCache(id)
	if err == nil && cached != nil {
		return cached, nil
	}

	customer, err := database.FindByID[tables.Customer](ctx, cs.db, id)
	if err != nil {
		cs.logger.Error("Failed to fetch customer", gecho.Field("id", id), gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	if customer == nil {
		return nil, lib.ErrNotFound
	}

	go func() {
		if err := cs.cacheService.SetCustomerInCache(customer); err != nil {
			cs.logger.Warn("Failed to cache customer", gecho.Field("id", id), gecho.Field("error", err))
		}
	}()

	return customer, nil
}

// CreateCustomer inserts a new customer and returns the stored row
func (cs *CustomerService) CreateCustomer(ctx context.Context, customer *tables.Customer) (*tables.Customer, error) {
	if customer.Id == uuid.Nil {
		customer.Id = uuid.New()
	}
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	created, err := database.CreateRecord(ctx, cs.db, customer)
	if err != nil {
		cs.logger.Error("Failed to create customer", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}

	cs.logger.Info("Customer created", gecho.Field("id", created.Id), gecho.Field("name", created.Name))
	return created, nil
}

// UpdateCustomer applies a partial update and returns the updated row.
// Returns lib.ErrNotFound when the id does not exist.
func (cs *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req *structs.UpdateCustomerRequest) (*tables.Customer, error) {
	if !req.HasChanges() {
		return cs.GetCustomerById(ctx, id)
	}

	values := map[string]any{"updated_at": time.Now()}
	if req.Name != nil {
		values["name"] = *req.Name
	}
	if req.Email != nil {
		values["email"] = *req.Email
	}
	if req.Phone != nil {
		values["phone"] = *req.Phone
	}
	if req.Address != nil {
		values["address"] = *req.Address
	}

	customer, err := database.UpdateByID[tables.Customer](ctx, cs.db, id, values)
	if err != nil {
		cs.logger.Error("Failed to update customer", gecho.Field("id", id), gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	if customer == nil {
		return nil, lib.ErrNotFound
	}

	if err := cs.cacheService.InvalidateCustomerCache(id); err != nil {
		cs.logger.Warn("Failed to invalidate customer cache", gecho.Field("id", id), gecho.Field("error", err))
	}

	return customer, nil
}

// DeleteCustomer removes a customer. Customers with existing orders are
// protected: the delete is refused with lib.ErrConflict so order history
// stays intact.
func (cs *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	// Order count and delete run in one transaction so an order created
	// between the two cannot slip past the restriction
	err := cs.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		orderCount, err := tx.NewSelect().
			Model((*tables.Order)(nil)).
			Where("customer_id = ?", id).
			Count(ctx)
		if err != nil {
			cs.logger.Error("Failed to count customer orders", gecho.Field("id", id), gecho.Field("error", err))
			return lib.MapPgError(err)
		}
		if orderCount > 0 {
			cs.logger.Warn("Refusing to delete customer with orders",
				gecho.Field("id", id),
				gecho.Field("order_count", orderCount))
			return lib.ErrConflict
		}

		res, err := tx.NewDelete().
			Model((*tables.Customer)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			cs.logger.Error("Failed to delete customer", gecho.Field("id", id), gecho.Field("error", err))
			return lib.MapPgError(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return lib.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := cs.cacheService.InvalidateCustomerCache(id); err != nil {
		cs.logger.Warn("Failed to invalidate customer cache", gecho.Field("id", id), gecho.Field("error", err))
	}

	cs.logger.Info("Customer deleted", gecho.Field("id", id))
	return nil
}
