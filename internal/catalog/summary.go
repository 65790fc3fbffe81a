package catalog

import (
	"context"
	"fmt"
	"sort"
)

const (
	recentOrderCount = 5
	summaryPageSize  = 100
)

// Dashboard aggregates the admin overview from whichever repositories back
// the server.
type Dashboard struct {
	Products   ProductRepository
	Categories CategoryRepository
	Orders     OrderRepository
	Customers  CustomerRepository
}

// Summary counts every collection and sums revenue over orders that were
// not cancelled.
func (d *Dashboard) Summary(ctx context.Context) (*Summary, error) {
	one := ListParams{Page: 1, Limit: 1}

	products, err := d.Products.ListProducts(ctx, one)
	if err != nil {
		return nil, fmt.Errorf("summary products: %w", err)
	}
	categories, err := d.Categories.ListCategories(ctx, one)
	if err != nil {
		return nil, fmt.Errorf("summary categories: %w", err)
	}
	customers, err := d.Customers.ListCustomers(ctx, one)
	if err != nil {
		return nil, fmt.Errorf("summary customers: %w", err)
	}

	var all []Order
	for page := 1; ; page++ {
		res, err := d.Orders.ListOrders(ctx, ListParams{Page: page, Limit: summaryPageSize})
		if err != nil {
			return nil, fmt.Errorf("summary orders: %w", err)
		}
		all = append(all, res.Orders...)
		if page >= res.TotalPages {
			break
		}
	}

	var revenue float64
	for _, o := range all {
		if o.Status != OrderCancelled {
			revenue += o.Total
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	recent := all
	if len(recent) > recentOrderCount {
		recent = recent[:recentOrderCount]
	}

	return &Summary{
		TotalProducts:   products.TotalProducts,
		TotalCategories: categories.TotalCategories,
		TotalOrders:     len(all),
		TotalCustomers:  customers.TotalCustomers,
		Revenue:         revenue,
		RecentOrders:    append([]Order{}, recent...),
	}, nil
}
