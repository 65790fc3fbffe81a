package catalog

import (
	"context"
	"math"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ProductRepository is the persistence contract for products.
type ProductRepository interface {
	ListProducts(ctx context.Context, params ListParams) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, id string) (*DeleteResult, error)
	// AddProductImages appends gallery URLs to a product.
	AddProductImages(ctx context.Context, id string, urls []string) (*Product, error)
}

// CategoryRepository is the persistence contract for categories.
type CategoryRepository interface {
	ListCategories(ctx context.Context, params ListParams) (*CategoryPage, error)
	GetCategory(ctx context.Context, id string) (*Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*Category, error)
	DeleteCategory(ctx context.Context, id string) (*DeleteResult, error)
}

// OrderRepository is read-only: orders are written by the storefront.
type OrderRepository interface {
	ListOrders(ctx context.Context, params ListParams) (*OrderPage, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
}

// CustomerRepository is read-only.
type CustomerRepository interface {
	ListCustomers(ctx context.Context, params ListParams) (*CustomerPage, error)
	GetCustomer(ctx context.Context, id string) (*Customer, error)
}

// Normalize fills in the default page and limit.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	return p
}

// Offset is the index of the first record on the page. It saturates at
// math.MaxInt instead of wrapping for very large pages.
func (p ListParams) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// totalPages is ceil(total/limit).
func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

// paginate slices an already filtered collection. Pages past the end give
// an empty, non-nil slice.
func paginate[T any](filtered []T, p ListParams) []T {
	start := p.Offset()
	if start >= len(filtered) {
		return []T{}
	}
	end := len(filtered)
	if p.Limit < end-start {
		end = start + p.Limit
	}
	out := make([]T, end-start)
	copy(out, filtered[start:end])
	return out
}
