package services

import (
	"context"
	"fmt"
	"opsdesk_server/database"
	"opsdesk_server/lib"
	"opsdesk_server/structs"
	"opsdesk_server/structs/tables"
	"runtime/debug"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

type OrderService struct {
	logger          *gecho.Logger
	cfg             *structs.Config
	db              *database.DB
	customerService *CustomerService
	productService  *ProductService
	emailService    *EmailService
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	db *database.DB,
	customerService *CustomerService,
	productService *ProductService,
	emailService *EmailService,
) *OrderService {
	return &OrderService{
		logger:          logger,
		cfg:             cfg,
		db:              db,
		customerService: customerService,
		productService:  productService,
		emailService:    emailService,
	}
}

// OrderListOptions contains filtering and pagination options for order queries
type OrderListOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Filters
	CustomerId    *uuid.UUID            `json:"customer_id,omitempty"`
	Status        *tables.OrderStatus   `json:"status,omitempty"`
	PaymentStatus *tables.PaymentStatus `json:"payment_status,omitempty"`
	DateFrom      *time.Time            `json:"date_from,omitempty"`
	DateTo        *time.Time            `json:"date_to,omitempty"`
	SearchTerm    string                `json:"search_term,omitempty"` // matches notes

	// Sorting
	SortBy        string `json:"sort_by"`
	SortDirection string `json:"sort_direction"`

	Timeout time.Duration `json:"-"`
}

// OrderListResult wraps the order list response with metadata
type OrderListResult struct {
	Orders     []tables.Order      `json:"orders"`
	Pagination database.Pagination `json:"pagination"`
}

var validOrderSortFields = map[string]bool{
	"order_date":   true,
	"total_amount": true,
	"status":       true,
	"created_at":   true,
	"updated_at":   true,
}

func (os *OrderService) applyDefaultOptions(opts *OrderListOptions) {
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
		opts.SortBy = "order_date"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = "DESC"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
}

func (os *OrderService) validateOptions(opts *OrderListOptions) error {
	if !validOrderSortFields[opts.SortBy] {
		return fmt.Errorf("invalid sort field: %s", opts.SortBy)
	}
	if opts.SortDirection != "ASC" && opts.SortDirection != "DESC" {
		return fmt.Errorf("invalid sort direction: %s (must be ASC or DESC)", opts.SortDirection)
	}
	if opts.Status != nil && !opts.Status.Valid() {
		return fmt.Errorf("invalid status: %s", *opts.Status)
	}
	if opts.PaymentStatus != nil && !opts.PaymentStatus.Valid() {
		return fmt.Errorf("invalid payment status: %s", *opts.PaymentStatus)
	}
	return nil
}

func (os *OrderService) applyFilters(query *database.QueryBuilder[tables.Order], opts *OrderListOptions) *database.QueryBuilder[tables.Order] {
	if opts.CustomerId != nil {
		query = query.Where("customer_id", *opts.CustomerId)
	}
	if opts.Status != nil {
		query = query.Where("status", *opts.Status)
	}
	if opts.PaymentStatus != nil {
		query = query.Where("payment_status", *opts.PaymentStatus)
	}
	if opts.DateFrom != nil {
		query = query.WhereOp("order_date", ">=", *opts.DateFrom)
	}
	if opts.DateTo != nil {
		query = query.WhereOp("order_date", "<=", *opts.DateTo)
	}
	if opts.SearchTerm != "" {
		query = query.WhereLike("notes", "%"+opts.SearchTerm+"%")
	}
	return query
}

func (os *OrderService) applySorting(query *database.QueryBuilder[tables.Order], opts *OrderListOptions) *database.QueryBuilder[tables.Order] {
	direction := database.DESC
	if opts.SortDirection == "ASC" {
		direction = database.ASC
	}

	query = query.OrderBy(opts.SortBy, direction)

	// Secondary sort for stable ordering
	return query.OrderBy("id", database.ASC)
}

// GetAllOrders retrieves order headers with filtering, sorting, and pagination
func (os *OrderService) GetAllOrders(ctx context.Context, opts *OrderListOptions) (*OrderListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &OrderListOptions{}
	}
	os.applyDefaultOptions(opts)

	if err := os.validateOptions(opts); err != nil {
		os.logger.Error("Invalid order list options", gecho.Field("error", err))
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	query := database.Query[tables.Order](os.db).Timeout(opts.Timeout)
	query = os.applyFilters(query, opts)
	query = os.applySorting(query, opts)

	result, err := database.Paginate(query, ctx, opts.Page, opts.PageSize)
	if err != nil {
		os.logger.Error("Failed to fetch orders",
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}

	os.logger.Debug("Orders fetched",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("duration", time.Since(startTime)))

	return &OrderListResult{
		Orders:     result.Data,
		Pagination: result.Pagination,
	}, nil
}

// GetOrdersByCustomer retrieves all orders for one customer, newest first
func (os *OrderService) GetOrdersByCustomer(ctx context.Context, customerId uuid.UUID) ([]tables.Order, error) {
	orders, err := database.Query[tables.Order](os.db).
		Where("customer_id", customerId).
		OrderBy("order_date", database.DESC).
		OrderBy("id", database.ASC).
		All(ctx)
	if err != nil {
		os.logger.Error("Failed to fetch customer orders",
			gecho.Field("customer_id", customerId),
			gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	return orders, nil
}

// GetOrderWithItems retrieves the order aggregate. The header and the line
// items are fetched concurrently. A failing items fetch degrades to an
// empty item list instead of failing the whole read, so a half-written
// aggregate is still visible to the caller.
func (os *OrderService) GetOrderWithItems(ctx context.Context, id uuid.UUID) (*structs.OrderWithItems, error) {
	var order *tables.Order
	var items []tables.OrderItem

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		order, err = database.FindByID[tables.Order](gCtx, os.db, id)
		if err != nil {
			return lib.MapPgError(err)
		}
		if order == nil {
			return lib.ErrNotFound
		}
		return nil
	})

	g.Go(func() error {
		fetched, err := database.Query[tables.OrderItem](os.db).
			Where("order_id", id).
			OrderBy("created_at", database.ASC).
			All(gCtx)
		if err != nil {
			// Degraded read: log and serve the header with no items
			os.logger.Error("Failed to fetch order items",
				gecho.Field("order_id", id),
				gecho.Field("error", err))
			return nil
		}
		items = fetched
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []tables.OrderItem{}
	}

	return &structs.OrderWithItems{
		Order: *order,
		Items: items,
	}, nil
}

// CreateOrder inserts the order header and all line items in one
// transaction. Either the whole aggregate lands or nothing does.
func (os *OrderService) CreateOrder(ctx context.Context, req *structs.CreateOrderRequest) (result *structs.OrderWithItems, err error) {
	if req.Status != "" && !tables.OrderStatus(req.Status).Valid() {
		return nil, fmt.Errorf("invalid status: %s", req.Status)
	}
	if req.PaymentStatus != "" && !tables.PaymentStatus(req.PaymentStatus).Valid() {
		return nil, fmt.Errorf("invalid payment status: %s", req.PaymentStatus)
	}

	now := time.Now()
	order := &tables.Order{
		Id:            uuid.New(),
		CustomerId:    req.CustomerId,
		OrderDate:     now,
		TotalAmount:   req.TotalAmount,
		Status:        tables.OrderStatusPending,
		PaymentStatus: tables.PaymentStatusUnpaid,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	if req.Status != "" {
		order.Status = tables.OrderStatus(req.Status)
	}
	if req.PaymentStatus != "" {
		order.PaymentStatus = tables.PaymentStatus(req.PaymentStatus)
	}

	tx, err := os.db.BeginTx(ctx, nil)
	if err != nil {
		os.logger.Error("Failed to begin transaction", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			os.logger.Error(fmt.Sprintf("panic in CreateOrder: %v", p),
				gecho.Field("stack_trace", string(debug.Stack())))
			err = fmt.Errorf("panic recovered: %v", p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.NewInsert().Model(order).Exec(ctx); err != nil {
		os.logger.Error("Failed to insert order", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}

	items := make([]tables.OrderItem, 0, len(req.Items))
	for _, input := range req.Items {
		items = append(items, tables.OrderItem{
			Id:         uuid.New(),
			OrderId:    order.Id,
			ProductId:  input.ProductId,
			Quantity:   input.Quantity,
			UnitPrice:  input.UnitPrice,
			TotalPrice: input.TotalPrice,
			CreatedAt:  now,
		})
	}

	if len(items) > 0 {
		if _, err = tx.NewInsert().Model(&items).Exec(ctx); err != nil {
			os.logger.Error("Failed to insert order items",
				gecho.Field("order_id", order.Id),
				gecho.Field("error", err))
			return nil, lib.MapPgError(err)
		}
	}

	os.logger.Info("Order created",
		gecho.Field("order_id", order.Id),
		gecho.Field("customer_id", order.CustomerId),
		gecho.Field("items", len(items)),
		gecho.Field("total_amount", order.TotalAmount))

	os.sendOrderConfirmation(order, items)

	return &structs.OrderWithItems{Order: *order, Items: items}, nil
}

// sendOrderConfirmation emails the customer asynchronously, best effort
func (os *OrderService) sendOrderConfirmation(order *tables.Order, items []tables.OrderItem) {
	if os.emailService == nil || !os.cfg.Email.Enabled {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		customer, err := os.customerService.GetCustomerById(ctx, order.CustomerId)
		if err != nil || customer.Email == "" {
			return
		}

		// Resolve product names for the mail, ids as fallback
		productNames := make(map[uuid.UUID]string, len(items))
		ids := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductId)
		}
		if products, err := os.productService.GetProductsByIds(ctx, ids); err == nil {
			for _, p := range products {
				productNames[p.Id] = p.Name
			}
		}

		if err := os.emailService.SendOrderConfirmation(customer, order, items, productNames); err != nil {
			os.logger.Warn("Failed to send order confirmation",
				gecho.Field("order_id", order.Id),
				gecho.Field("error", err))
		}
	}()
}

// UpdateOrder applies a partial header update and returns the updated row.
// Returns lib.ErrNotFound when the id does not exist.
func (os *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, req *structs.UpdateOrderRequest) (*tables.Order, error) {
	values := map[string]any{"updated_at": time.Now()}
	if req.CustomerId != nil {
		values["customer_id"] = *req.CustomerId
	}
	if req.OrderDate != nil {
		values["order_date"] = *req.OrderDate
	}
	if req.TotalAmount != nil {
		values["total_amount"] = *req.TotalAmount
	}
	if req.Status != nil {
		if !tables.OrderStatus(*req.Status).Valid() {
			return nil, fmt.Errorf("invalid status: %s", *req.Status)
		}
		values["status"] = *req.Status
	}
	if req.PaymentStatus != nil {
		if !tables.PaymentStatus(*req.PaymentStatus).Valid() {
			return nil, fmt.Errorf("invalid payment status: %s", *req.PaymentStatus)
		}
		values["payment_status"] = *req.PaymentStatus
	}
	if req.Notes != nil {
		values["notes"] = *req.Notes
	}

	order, err := database.UpdateByID[tables.Order](ctx, os.db, id, values)
	if err != nil {
		os.logger.Error("Failed to update order", gecho.Field("id", id), gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrNotFound
	}

	return order, nil
}

// UpdateOrderItems rewrites existing line items in one transaction. Every
// update is scoped to (item id, order id) so an item belonging to another
// order can never be touched. Any item that matches no row aborts the
// whole batch with lib.ErrNotFound.
func (os *OrderService) UpdateOrderItems(ctx context.Context, orderId uuid.UUID, updates []structs.OrderItemUpdate) (err error) {
	if len(updates) == 0 {
		return nil
	}

	tx, err := os.db.BeginTx(ctx, nil)
	if err != nil {
		return lib.MapPgError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			os.logger.Error(fmt.Sprintf("panic in UpdateOrderItems: %v", p))
			err = fmt.Errorf("panic recovered: %v", p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, item := range updates {
		res, execErr := tx.NewUpdate().
			Model(&tables.OrderItem{}).
			Set("quantity = ?", item.Quantity).
			Set("unit_price = ?", item.UnitPrice).
			Set("total_price = ?", item.TotalPrice).
			Where("id = ?", item.Id).
			Where("order_id = ?", orderId).
			Exec(ctx)
		if execErr != nil {
			os.logger.Error("Failed to update order item",
				gecho.Field("order_id", orderId),
				gecho.Field("item_id", item.Id),
				gecho.Field("error", execErr))
			err = lib.MapPgError(execErr)
			return err
		}

		affected, raErr := res.RowsAffected()
		if raErr != nil {
			err = raErr
			return err
		}
		if affected == 0 {
			os.logger.Warn("Order item not found for update",
				gecho.Field("order_id", orderId),
				gecho.Field("item_id", item.Id))
			err = lib.ErrNotFound
			return err
		}
	}

	if err = os.touchOrder(ctx, tx, orderId); err != nil {
		return err
	}

	return nil
}

// AddOrderItems appends line items to an existing order
func (os *OrderService) AddOrderItems(ctx context.Context, orderId uuid.UUID, inputs []structs.OrderItemInput) (items []tables.OrderItem, err error) {
	order, err := database.FindByID[tables.Order](ctx, os.db, orderId)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrNotFound
	}

	now := time.Now()
	items = make([]tables.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		items = append(items, tables.OrderItem{
			Id:         uuid.New(),
			OrderId:    orderId,
			ProductId:  input.ProductId,
			Quantity:   input.Quantity,
			UnitPrice:  input.UnitPrice,
			TotalPrice: input.TotalPrice,
			CreatedAt:  now,
		})
	}

	tx, err := os.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			os.logger.Error(fmt.Sprintf("panic in AddOrderItems: %v", p))
			err = fmt.Errorf("panic recovered: %v", p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.NewInsert().Model(&items).Exec(ctx); err != nil {
		os.logger.Error("Failed to add order items",
			gecho.Field("order_id", orderId),
			gecho.Field("error", err))
		err = lib.MapPgError(err)
		return nil, err
	}

	if err = os.touchOrder(ctx, tx, orderId); err != nil {
		return nil, err
	}

	return items, nil
}

// RemoveOrderItem deletes one line item, scoped to its parent order.
// Returns lib.ErrNotFound when no such item exists on that order.
func (os *OrderService) RemoveOrderItem(ctx context.Context, orderId, itemId uuid.UUID) error {
	affected, err := database.Query[tables.OrderItem](os.db).
		Where("id", itemId).
		Where("order_id", orderId).
		Delete(ctx)
	if err != nil {
		os.logger.Error("Failed to remove order item",
			gecho.Field("order_id", orderId),
			gecho.Field("item_id", itemId),
			gecho.Field("error", err))
		return lib.MapPgError(err)
	}
	if affected == 0 {
		return lib.ErrNotFound
	}

	return nil
}

// DeleteOrder removes an order. Its line items go with it through the
// store's ON DELETE CASCADE rule.
func (os *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	deleted, err := database.DeleteByID[tables.Order](ctx, os.db, id)
	if err != nil {
		os.logger.Error("Failed to delete order", gecho.Field("id", id), gecho.Field("error", err))
		return lib.MapPgError(err)
	}
	if !deleted {
		return lib.ErrNotFound
	}

	os.logger.Info("Order deleted", gecho.Field("id", id))
	return nil
}

// touchOrder bumps the header's updated_at inside the caller's transaction
func (os *OrderService) touchOrder(ctx context.Context, tx bun.Tx, orderId uuid.UUID) error {
	_, err := tx.NewUpdate().
		Model(&tables.Order{}).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", orderId).
		Exec(ctx)
	if err != nil {
		return lib.MapPgError(err)
	}
	return nil
}
