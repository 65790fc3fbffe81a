package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s
}

func TestListProductsPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page, err := s.ListProducts(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 12, page.TotalProducts)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Products, 10)
	assert.Equal(t, "1", page.Products[0].ID)

	page, err = s.ListProducts(ctx, ListParams{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, "11", page.Products[0].ID)

	page, err = s.ListProducts(ctx, ListParams{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
	assert.Equal(t, 9, page.CurrentPage)
	assert.Equal(t, 12, page.TotalProducts)
}

func TestPageSizesAddUp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, search := range []string{"", "baby"} {
		all, err := s.ListProducts(ctx, ListParams{Limit: 100, Search: search})
		require.NoError(t, err)
		want := make([]string, 0, len(all.Products))
		for _, p := range all.Products {
			want = append(want, p.ID)
		}
		require.NotEmpty(t, want)

		for _, limit := range []int{1, 3, 5, 7, 12, 50} {
			t.Run(fmt.Sprintf("search=%q/limit=%d", search, limit), func(t *testing.T) {
				first, err := s.ListProducts(ctx, ListParams{Page: 1, Limit: limit, Search: search})
				require.NoError(t, err)
				assert.Equal(t, len(want), first.TotalProducts)

				var got []string
				for p := 1; p <= first.TotalPages; p++ {
					page, err := s.ListProducts(ctx, ListParams{Page: p, Limit: limit, Search: search})
					require.NoError(t, err)
					assert.LessOrEqual(t, len(page.Products), limit)
					for _, prod := range page.Products {
						got = append(got, prod.ID)
					}
				}
				// same records in the same order, none repeated or skipped
				assert.Equal(t, want, got)
			})
		}
	}
}

func TestHugePageIsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, page := range []int{1<<61 + 1, 1<<62 + 1, math.MaxInt} {
		t.Run(fmt.Sprintf("page=%d", page), func(t *testing.T) {
			var res *ProductPage
			require.NotPanics(t, func() {
				var err error
				res, err = s.ListProducts(ctx, ListParams{Page: page, Limit: 4})
				require.NoError(t, err)
			})
			assert.NotNil(t, res.Products)
			assert.Empty(t, res.Products)
			assert.Equal(t, page, res.CurrentPage)
			assert.Equal(t, 12, res.TotalProducts)

			cats, err := s.ListCategories(ctx, ListParams{Page: page, Limit: 4})
			require.NoError(t, err)
			assert.Empty(t, cats.Categories)

			orders, err := s.ListOrders(ctx, ListParams{Page: page, Limit: 4})
			require.NoError(t, err)
			assert.Empty(t, orders.Orders)
		})
	}
}

func TestListProductsSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// matches category as well as name, case-insensitively
	page, err := s.ListProducts(ctx, ListParams{Search: "TOYS"})
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalProducts)
	for _, p := range page.Products {
		assert.Equal(t, "Toys", p.Category)
	}

	page, err = s.ListProducts(ctx, ListParams{Search: "teddy"})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Plush Teddy Bear", page.Products[0].Name)

	page, err = s.ListProducts(ctx, ListParams{Search: "no such thing"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.TotalProducts)
	assert.Equal(t, 0, page.TotalPages)
	assert.NotNil(t, page.Products)
}

func TestCreateThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.CreateProduct(ctx, CreateProductRequest{
		Name:     "Baby Sun Hat",
		Category: "Accessories",
		Price:    700,
		Stock:    10,
		Images:   []string{"/a.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "13", created.ID)
	assert.Equal(t, StatusActive, created.Status)
	assert.Equal(t, s.now(), created.CreatedAt)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	// returned values are copies
	got.Images[0] = "/changed.png"
	again, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.png"}, again.Images)
}

func TestCreateValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateProduct(ctx, CreateProductRequest{Price: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "price")

	page, err := s.ListProducts(ctx, ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 12, page.TotalProducts)
}

func TestUpdateMergesFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before, err := s.GetProduct(ctx, "2")
	require.NoError(t, err)

	updated, err := s.UpdateProduct(ctx, "2", UpdateProductRequest{Price: ptr(2500.0)})
	require.NoError(t, err)
	assert.Equal(t, 2500.0, updated.Price)
	assert.Equal(t, before.Name, updated.Name)
	assert.Equal(t, before.Stock, updated.Stock)
	assert.Equal(t, before.CreatedAt, updated.CreatedAt)
	assert.Equal(t, s.now(), updated.UpdatedAt)

	// zero values are still explicit updates
	updated, err = s.UpdateProduct(ctx, "2", UpdateProductRequest{Stock: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, 2500.0, updated.Price)

	_, err = s.UpdateProduct(ctx, "2", UpdateProductRequest{Status: ptr("archived")})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = s.UpdateProduct(ctx, "404", UpdateProductRequest{Name: ptr("x")})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteDoesNotReuseIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	res, err := s.DeleteProduct(ctx, "12")
	require.NoError(t, err)
	assert.Equal(t, &DeleteResult{Success: true, Message: "Product deleted successfully"}, res)

	_, err = s.GetProduct(ctx, "12")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "product", nf.Resource)

	_, err = s.DeleteProduct(ctx, "12")
	assert.True(t, errors.Is(err, ErrNotFound))

	created, err := s.CreateProduct(ctx, CreateProductRequest{Name: "Crayons"})
	require.NoError(t, err)
	assert.Equal(t, "13", created.ID)
}

func TestAddProductImages(t *testing.T) {
	s := NewMemoryStoreWith([]Product{{ID: "1", Name: "Bare"}}, nil, nil, nil)
	ctx := context.Background()

	p, err := s.AddProductImages(ctx, "1", []string{"http://cdn/a.png", "http://cdn/b.png"})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/a.png", p.ImageURL)
	assert.Equal(t, []string{"http://cdn/a.png", "http://cdn/b.png"}, p.Images)

	p, err = s.AddProductImages(ctx, "1", []string{"http://cdn/c.png"})
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/a.png", p.ImageURL)
	assert.Len(t, p.Images, 3)

	_, err = s.AddProductImages(ctx, "2", []string{"x"})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCategoryLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCategory(ctx, CreateCategoryRequest{Name: "Bath & Bedtime"})
	require.NoError(t, err)
	assert.Equal(t, "8", c.ID)
	assert.Equal(t, "bath-and-bedtime", c.Slug)
	assert.Equal(t, 0, c.ProductCount)
	assert.Equal(t, StatusActive, c.Status)

	bySlug, err := s.GetCategoryBySlug(ctx, "bath-and-bedtime")
	require.NoError(t, err)
	assert.Equal(t, c, bySlug)

	explicit, err := s.CreateCategory(ctx, CreateCategoryRequest{Name: "Gifts", Slug: "Gift Ideas"})
	require.NoError(t, err)
	assert.Equal(t, "gift-ideas", explicit.Slug)

	updated, err := s.UpdateCategory(ctx, c.ID, UpdateCategoryRequest{Description: ptr("Towels and pyjamas")})
	require.NoError(t, err)
	assert.Equal(t, "Bath & Bedtime", updated.Name)
	assert.Equal(t, "bath-and-bedtime", updated.Slug)
	assert.Equal(t, "Towels and pyjamas", updated.Description)

	// an empty slug falls back to the name
	updated, err = s.UpdateCategory(ctx, c.ID, UpdateCategoryRequest{Name: ptr("Bath Time"), Slug: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "bath-time", updated.Slug)

	_, err = s.DeleteCategory(ctx, c.ID)
	require.NoError(t, err)
	_, err = s.GetCategory(ctx, c.ID)
	assert.True(t, errors.Is(err, ErrNotFound))

	next, err := s.CreateCategory(ctx, CreateCategoryRequest{Name: "Outdoor"})
	require.NoError(t, err)
	assert.Equal(t, "10", next.ID)
}

func TestListCategoriesSearch(t *testing.T) {
	s := newTestStore(t)

	page, err := s.ListCategories(context.Background(), ListParams{Search: "essentials"})
	require.NoError(t, err)
	require.Len(t, page.Categories, 1)
	assert.Equal(t, "baby-care", page.Categories[0].Slug)
	assert.Equal(t, 1, page.TotalPages)
}

func TestListOrdersByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page, err := s.ListOrders(ctx, ListParams{Status: OrderDelivered})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalOrders)
	for _, o := range page.Orders {
		assert.Equal(t, OrderDelivered, o.Status)
	}

	page, err = s.ListOrders(ctx, ListParams{Limit: 3, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 8, page.TotalOrders)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Orders, 2)

	o, err := s.GetOrder(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, OrderCancelled, o.Status)

	_, err = s.GetOrder(ctx, "99")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListCustomersSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page, err := s.ListCustomers(ctx, ListParams{Search: "grace.njeri@"})
	require.NoError(t, err)
	require.Len(t, page.Customers, 1)
	assert.Equal(t, "5", page.Customers[0].ID)

	page, err = s.ListCustomers(ctx, ListParams{Search: "wanjiku"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCustomers)

	c, err := s.GetCustomer(ctx, "6")
	require.NoError(t, err)
	assert.Equal(t, "David Mwangi", c.Name)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, ListParams{Page: 1, Limit: 10}, ListParams{}.Normalize())
	assert.Equal(t, ListParams{Page: 1, Limit: 10}, ListParams{Page: -3, Limit: -1}.Normalize())
	assert.Equal(t, ListParams{Page: 4, Limit: 2, Search: "x"}, ListParams{Page: 4, Limit: 2, Search: "x"}.Normalize())
	assert.Equal(t, 6, ListParams{Page: 4, Limit: 2}.Offset())
	assert.Equal(t, math.MaxInt, ListParams{Page: 1<<61 + 1, Limit: 4}.Offset())
	assert.Equal(t, math.MaxInt, ListParams{Page: 1<<62 + 1, Limit: 4}.Offset())

	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
}

func TestSummary(t *testing.T) {
	s := newTestStore(t)
	d := &Dashboard{Products: s, Categories: s, Orders: s, Customers: s}

	sum, err := d.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, sum.TotalProducts)
	assert.Equal(t, 7, sum.TotalCategories)
	assert.Equal(t, 8, sum.TotalOrders)
	assert.Equal(t, 6, sum.TotalCustomers)
	// everything except the cancelled order 4
	assert.Equal(t, 26100.0, sum.Revenue)

	require.Len(t, sum.RecentOrders, 5)
	assert.Equal(t, "8", sum.RecentOrders[0].ID)
	assert.Equal(t, "4", sum.RecentOrders[4].ID)
}

func TestSummaryEmptyStore(t *testing.T) {
	s := NewMemoryStoreWith(nil, nil, nil, nil)
	d := &Dashboard{Products: s, Categories: s, Orders: s, Customers: s}

	sum, err := d.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.TotalOrders)
	assert.Equal(t, 0.0, sum.Revenue)
	assert.NotNil(t, sum.RecentOrders)
}
