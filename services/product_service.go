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
)

type ProductService struct {
	logger       *gecho.Logger
	db           *database.DB
	cacheService *CacheService
}

func NewProductService(logger *gecho.Logger, db *database.DB, cacheService *CacheService) *ProductService {
	return &ProductService{
		logger:       logger,
		db:           db,
		cacheService: cacheService,
	}
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Filters
	MinPrice   *int64 `json:"min_price,omitempty"` // cents
	MaxPrice   *int64 `json:"max_price,omitempty"` // cents
	SearchTerm string `json:"search_term,omitempty"`
	InStock    *bool  `json:"in_stock,omitempty"`

	// Sorting
	SortBy        string `json:"sort_by"`
	SortDirection string `json:"sort_direction"`

	Timeout time.Duration `json:"-"`
}

// ProductListResult wraps the product list response with metadata
type ProductListResult struct {
	Products   []tables.Product    `json:"products"`
	Pagination database.Pagination `json:"pagination"`
}

var validProductSortFields = map[string]bool{
	"name":           true,
	"price":          true,
	"sku":            true,
	"stock_quantity": true,
	"created_at":     true,
	"updated_at":     true,
}

func (ps *ProductService) applyDefaultOptions(opts *ProductListOptions) {
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

func (ps *ProductService) validateOptions(opts *ProductListOptions) error {
	if !validProductSortFields[opts.SortBy] {
		return fmt.Errorf("invalid sort field: %s", opts.SortBy)
	}
	if opts.SortDirection != "ASC" && opts.SortDirection != "DESC" {
		return fmt.Errorf("invalid sort direction: %s (must be ASC or DESC)", opts.SortDirection)
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && *opts.MinPrice > *opts.MaxPrice {
		return fmt.Errorf("min_price cannot be greater than max_price")
	}
	return nil
}

func (ps *ProductService) applyFilters(query *database.QueryBuilder[tables.Product], opts *ProductListOptions) *database.QueryBuilder[tables.Product] {
	if opts.MinPrice != nil {
		query = query.WhereOp("price", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		query = query.WhereOp("price", "<=", *opts.MaxPrice)
	}

	if opts.InStock != nil {
		if *opts.InStock {
			query = query.WhereOp("stock_quantity", ">", 0)
		} else {
			query = query.Where("stock_quantity", 0)
		}
	}

	// Search in name, description, or SKU
	if opts.SearchTerm != "" {
		searchPattern := "%" + opts.SearchTerm + "%"
		query = query.WhereRaw(
			"(name ILIKE ? OR description ILIKE ? OR sku ILIKE ?)",
			searchPattern, searchPattern, searchPattern,
		)
	}

	return query
}

func (ps *ProductService) applySorting(query *database.QueryBuilder[tables.Product], opts *ProductListOptions) *database.QueryBuilder[tables.Product] {
	direction := database.DESC
	if opts.SortDirection == "ASC" {
		direction = database.ASC
	}

	query = query.OrderBy(opts.SortBy, direction)

	// Secondary sort for stable ordering
	return query.OrderBy("id", database.ASC)
}

// GetAllProducts retrieves products with filtering, sorting, and pagination
func (ps *ProductService) GetAllProducts(ctx context.Context, opts *ProductListOptions) (*ProductListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ProductListOptions{}
	}
	ps.applyDefaultOptions(opts)

	if err := ps.validateOptions(opts); err != nil {
		ps.logger.Error("Invalid product list options", gecho.Field("error", err))
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	query := database.Query[tables.Product](ps.db).Timeout(opts.Timeout)
	query = ps.applyFilters(query, opts)
	query = ps.applySorting(query, opts)

	result, err := database.Paginate(query, ctx, opts.Page, opts.PageSize)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	ps.logger.Debug("Products fetched",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("duration", time.Since(startTime)))

	return &ProductListResult{
		Products:   result.Data,
		Pagination: result.Pagination,
	}, nil
}

// GetProductById retrieves a single product by ID, cache first.
// Returns lib.ErrNotFound when the id does not exist.
func (ps *ProductService) GetProductById(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	cached, err := ps.cacheService.GetProductFromCache(id)
	if err == nil && cached != nil {
		return cached, nil
	}

	product, err := database.FindByID[tables.Product](ctx, ps.db, id)
	if err != nil {
		ps.logger.Error("Failed to fetch product", gecho.Field("id", id), gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	go func() {
		if err := ps.cacheService.SetProductInCache(product); err != nil {
			ps.logger.Warn("Failed to cache product", gecho.Field("id", id), gecho.Field("error", err))
		}
	}()

	return product, nil
}

// GetProductsByIds retrieves multiple products by their ids
func (ps *ProductService) GetProductsByIds(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error) {
	if len(ids) == 0 {
		return []tables.Product{}, nil
	}

	idValues := make([]any, len(ids))
	for i, id := range ids {
		idValues[i] = id
	}

	products, err := database.Query[tables.Product](ps.db).
		WhereIn("id", idValues).
		Timeout(10 * time.Second).
		All(ctx)
	if err != nil {
		ps.logger.Error("Failed to fetch products by ids", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to fetch products by ids: %w", err)
	}

	return products, nil
}

// CreateProduct inserts a new product and returns the stored row.
// A SKU is generated when the request leaves it empty.
func (ps *ProductService) CreateProduct(ctx context.Context, product *tables.Product) (*tables.Product, error) {
	if product.Id == uuid.Nil {
		product.Id = uuid.New()
	}
	if product.SKU == "" {
		sku, err := lib.GenerateSKU(product.Name, 6)
		if err != nil {
			return nil, fmt.Errorf("failed to generate SKU: %w", err)
		}
		product.SKU = sku
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	created, err := database.CreateRecord(ctx, ps.db, product)
	if err != nil {
		ps.logger.Error("Failed to create product", gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}

	if err := ps.cacheService.InvalidateProductCache(created.Id); err != nil {
		ps.logger.Warn("Failed to invalidate product cache", gecho.Field("id", created.Id), gecho.Field("error", err))
	}

	ps.logger.Info("Product created",
		gecho.Field("id", created.Id),
		gecho.Field("name", created.Name),
		gecho.Field("sku", created.SKU))
	return created, nil
}

// UpdateProduct applies a partial update and returns the updated row.
// Returns lib.ErrNotFound when the id does not exist.
func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *structs.UpdateProductRequest) (*tables.Product, error) {
	if !req.HasChanges() {
		return ps.GetProductById(ctx, id)
	}

	values := map[string]any{"updated_at": time.Now()}
	if req.Name != nil {
		values["name"] = *req.Name
	}
	if req.Description != nil {
		values["description"] = *req.Description
	}
	if req.Price != nil {
		values["price"] = *req.Price
	}
	if req.SKU != nil {
		values["sku"] = *req.SKU
	}
	if req.Stock != nil {
		values["stock_quantity"] = *req.Stock
	}

	product, err := database.UpdateByID[tables.Product](ctx, ps.db, id, values)
	if err != nil {
		ps.logger.Error("Failed to update product", gecho.Field("id", id), gecho.Field("error", err))
		return nil, lib.MapPgError(err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}

	if err := ps.cacheService.InvalidateProductCache(id); err != nil {
		ps.logger.Warn("Failed to invalidate product cache", gecho.Field("id", id), gecho.Field("error", err))
	}

	return product, nil
}

// DeleteProduct removes a product
func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	deleted, err := database.DeleteByID[tables.Product](ctx, ps.db, id)
	if err != nil {
		ps.logger.Error("Failed to delete product", gecho.Field("id", id), gecho.Field("error", err))
		return lib.MapPgError(err)
	}
	if !deleted {
		return lib.ErrNotFound
	}

	if err := ps.cacheService.InvalidateProductCache(id); err != nil {
		ps.logger.Warn("Failed to invalidate product cache", gecho.Field("id", id), gecho.Field("error", err))
	}

	ps.logger.Info("Product deleted", gecho.Field("id", id))
	return nil
}
