package services

import (
	"context"
	"fmt"
	"opsdesk_server/database"
	"opsdesk_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"golang.org/x/sync/errgroup"
)

// lowStockThreshold marks products that need restocking on the dashboard
const lowStockThreshold = 10

type StatsService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewStatsService(logger *gecho.Logger, db *database.DB) *StatsService {
	return &StatsService{
		logger: logger,
		db:     db,
	}
}

// DashboardStats is the aggregate snapshot served to the dashboard
type DashboardStats struct {
	Customers CustomerStats `json:"customers"`
	Products  ProductStats  `json:"products"`
	Orders    OrderStats    `json:"orders"`
}

type CustomerStats struct {
	Total        int     `json:"total"`
	NewThisMonth int     `json:"new_this_month"`
	GrowthRate   float64 `json:"growth_rate"` // new this month as % of total
}

type ProductStats struct {
	Total        int   `json:"total"`
	LowStock     int   `json:"low_stock"`
	OutOfStock   int   `json:"out_of_stock"`
	AveragePrice int64 `json:"average_price"` // cents
}

type OrderStats struct {
	Total      int   `json:"total"`
	Pending    int   `json:"pending"`
	Completed  int   `json:"completed"`
	Unpaid     int   `json:"unpaid"`
	TotalSales int64 `json:"total_sales"` // cents, over all orders
}

// GetDashboardStats fetches all three entity sets concurrently and reduces
// them in memory. The dataset is small-business sized, so no aggregate SQL.
func (ss *StatsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	startTime := time.Now()

	var customers []tables.Customer
	var products []tables.Product
	var orders []tables.Order

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		customers, err = database.Query[tables.Customer](ss.db).All(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = database.Query[tables.Product](ss.db).All(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = database.Query[tables.Order](ss.db).All(gCtx)
		return err
	})

	if err := g.Wait(); err != nil {
		ss.logger.Error("Failed to fetch dashboard data", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to fetch dashboard data: %w", err)
	}

	stats := &DashboardStats{
		Customers: reduceCustomerStats(customers, time.Now()),
		Products:  reduceProductStats(products),
		Orders:    reduceOrderStats(orders),
	}

	ss.logger.Debug("Dashboard stats computed",
		gecho.Field("customers", stats.Customers.Total),
		gecho.Field("products", stats.Products.Total),
		gecho.Field("orders", stats.Orders.Total),
		gecho.Field("duration", time.Since(startTime)))

	return stats, nil
}

// reduceCustomerStats counts customers created in the same calendar month
// and year as now.
func reduceCustomerStats(customers []tables.Customer, now time.Time) CustomerStats {
	newThisMonth := 0
	for _, c := range customers {
		if c.CreatedAt.Month() == now.Month() && c.CreatedAt.Year() == now.Year() {
			newThisMonth++
		}
	}

	growthRate := 0.0
	if len(customers) > 0 {
		growthRate = float64(newThisMonth) / float64(len(customers)) * 100
	}

	return CustomerStats{
		Total:        len(customers),
		NewThisMonth: newThisMonth,
		GrowthRate:   growthRate,
	}
}

func reduceProductStats(products []tables.Product) ProductStats {
	lowStock := 0
	outOfStock := 0
	var priceSum int64

	for _, p := range products {
		if p.Stock == 0 {
			outOfStock++
		} else if p.Stock <= lowStockThreshold {
			lowStock++
		}
		priceSum += p.Price
	}

	var averagePrice int64
	if len(products) > 0 {
		averagePrice = priceSum / int64(len(products))
	}

	return ProductStats{
		Total:        len(products),
		LowStock:     lowStock,
		OutOfStock:   outOfStock,
		AveragePrice: averagePrice,
	}
}

func reduceOrderStats(orders []tables.Order) OrderStats {
	stats := OrderStats{Total: len(orders)}

	for _, o := range orders {
		switch o.Status {
		case tables.OrderStatusPending:
			stats.Pending++
		case tables.OrderStatusCompleted:
			stats.Completed++
		}
		if o.PaymentStatus == tables.PaymentStatusUnpaid {
			stats.Unpaid++
		}
		stats.TotalSales += o.TotalAmount
	}

	return stats
}
