package catalog

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/format"
)

var (
	_ ProductRepository  = (*MemoryStore)(nil)
	_ CategoryRepository = (*MemoryStore)(nil)
	_ OrderRepository    = (*MemoryStore)(nil)
	_ CustomerRepository = (*MemoryStore)(nil)
)

// MemoryStore keeps all four admin collections in process memory. It is the
// development backend and the store used by tests. Callers only ever see
// copies of the stored records.
type MemoryStore struct {
	mu         sync.RWMutex
	products   []Product
	categories []Category
	orders     []Order
	customers  []Customer

	// ids come from counters, never from collection length, so a delete
	// followed by a create cannot reuse an id
	nextProductID  int
	nextCategoryID int

	now func() time.Time
}

// NewMemoryStore returns a store seeded with the demo data set.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWith(SeedProducts(), SeedCategories(), SeedOrders(), SeedCustomers())
}

// NewMemoryStoreWith returns a store holding copies of the given records.
func NewMemoryStoreWith(products []Product, categories []Category, orders []Order, customers []Customer) *MemoryStore {
	s := &MemoryStore{
		products:   make([]Product, 0, len(products)),
		categories: append([]Category(nil), categories...),
		orders:     append([]Order(nil), orders...),
		customers:  append([]Customer(nil), customers...),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, p := range products {
		s.products = append(s.products, p.clone())
	}

	s.nextProductID = 1
	for _, p := range s.products {
		if n, err := strconv.Atoi(p.ID); err == nil && n >= s.nextProductID {
			s.nextProductID = n + 1
		}
	}
	s.nextCategoryID = 1
	for _, c := range s.categories {
		if n, err := strconv.Atoi(c.ID); err == nil && n >= s.nextCategoryID {
			s.nextCategoryID = n + 1
		}
	}
	return s
}

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func searchTerm(p ListParams) string {
	return strings.ToLower(strings.TrimSpace(p.Search))
}

// ---- products ----

// ListProducts filters by name or category, then pages.
func (s *MemoryStore) ListProducts(_ context.Context, params ListParams) (*ProductPage, error) {
	params = params.Normalize()
	q := searchTerm(params)

	s.mu.RLock()
	filtered := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if matches(q, p.Name, p.Category) {
			filtered = append(filtered, p.clone())
		}
	}
	s.mu.RUnlock()

	return &ProductPage{
		Products:      paginate(filtered, params),
		TotalPages:    totalPages(len(filtered), params.Limit),
		TotalProducts: len(filtered),
		CurrentPage:   params.Page,
	}, nil
}

func (s *MemoryStore) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.productIndex(id)
	if i < 0 {
		return nil, notFound("product", id)
	}
	p := s.products[i].clone()
	return &p, nil
}

// CreateProduct appends a new active product.
func (s *MemoryStore) CreateProduct(_ context.Context, req CreateProductRequest) (*Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p := Product{
		ID:          strconv.Itoa(s.nextProductID),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Images:      append([]string(nil), req.Images...),
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.nextProductID++
	s.products = append(s.products, p)

	out := p.clone()
	return &out, nil
}

// UpdateProduct merges the supplied fields over the stored product.
func (s *MemoryStore) UpdateProduct(_ context.Context, id string, req UpdateProductRequest) (*Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return nil, notFound("product", id)
	}

	p := s.products[i].clone()
	applyProductUpdate(&p, req)
	p.UpdatedAt = s.now()
	s.products[i] = p

	out := p.clone()
	return &out, nil
}

func applyProductUpdate(p *Product, req UpdateProductRequest) {
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Images != nil {
		p.Images = append([]string(nil), (*req.Images)...)
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id string) (*DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return nil, notFound("product", id)
	}
	s.products = append(s.products[:i:i], s.products[i+1:]...)
	return &DeleteResult{Success: true, Message: "Product deleted successfully"}, nil
}

// AddProductImages appends gallery URLs and fills ImageURL when it is empty.
func (s *MemoryStore) AddProductImages(_ context.Context, id string, urls []string) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return nil, notFound("product", id)
	}
	p := s.products[i].clone()
	p.Images = append(p.Images, urls...)
	if p.ImageURL == "" && len(urls) > 0 {
		p.ImageURL = urls[0]
	}
	p.UpdatedAt = s.now()
	s.products[i] = p

	out := p.clone()
	return &out, nil
}

// ---- categories ----

// ListCategories filters by name or description, then pages.
func (s *MemoryStore) ListCategories(_ context.Context, params ListParams) (*CategoryPage, error) {
	params = params.Normalize()
	q := searchTerm(params)

	s.mu.RLock()
	filtered := make([]Category, 0, len(s.categories))
	for _, c := range s.categories {
		if matches(q, c.Name, c.Description) {
			filtered = append(filtered, c)
		}
	}
	s.mu.RUnlock()

	return &CategoryPage{
		Categories:      paginate(filtered, params),
		TotalPages:      totalPages(len(filtered), params.Limit),
		TotalCategories: len(filtered),
		CurrentPage:     params.Page,
	}, nil
}

func (s *MemoryStore) categoryIndex(match func(Category) bool) int {
	for i := range s.categories {
		if match(s.categories[i]) {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) GetCategory(_ context.Context, id string) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.categoryIndex(func(c Category) bool { return c.ID == id })
	if i < 0 {
		return nil, notFound("category", id)
	}
	c := s.categories[i]
	return &c, nil
}

func (s *MemoryStore) GetCategoryBySlug(_ context.Context, slug string) (*Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.categoryIndex(func(c Category) bool { return c.Slug == slug })
	if i < 0 {
		return nil, notFound("category", slug)
	}
	c := s.categories[i]
	return &c, nil
}

// CreateCategory appends an active category with no products.
func (s *MemoryStore) CreateCategory(_ context.Context, req CreateCategoryRequest) (*Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := Category{
		ID:           strconv.Itoa(s.nextCategoryID),
		Name:         req.Name,
		Slug:         categorySlug(req.Slug, req.Name),
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		ProductCount: 0,
		Status:       StatusActive,
		CreatedAt:    s.now(),
	}
	s.nextCategoryID++
	s.categories = append(s.categories, c)
	return &c, nil
}

// categorySlug prefers an explicit slug and falls back to the name.
func categorySlug(slug, name string) string {
	if s := format.Slugify(slug); s != "" {
		return s
	}
	return format.Slugify(name)
}

// UpdateCategory merges the supplied fields over the stored category.
func (s *MemoryStore) UpdateCategory(_ context.Context, id string, req UpdateCategoryRequest) (*Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(func(c Category) bool { return c.ID == id })
	if i < 0 {
		return nil, notFound("category", id)
	}
	c := s.categories[i]
	applyCategoryUpdate(&c, req)
	s.categories[i] = c
	return &c, nil
}

func applyCategoryUpdate(c *Category, req UpdateCategoryRequest) {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Slug != nil {
		c.Slug = categorySlug(*req.Slug, c.Name)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.ImageURL != nil {
		c.ImageURL = *req.ImageURL
	}
	if req.ProductCount != nil {
		c.ProductCount = *req.ProductCount
	}
	if req.Status != nil {
		c.Status = *req.Status
	}
}

func (s *MemoryStore) DeleteCategory(_ context.Context, id string) (*DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.categoryIndex(func(c Category) bool { return c.ID == id })
	if i < 0 {
		return nil, notFound("category", id)
	}
	s.categories = append(s.categories[:i:i], s.categories[i+1:]...)
	return &DeleteResult{Success: true, Message: "Category deleted successfully"}, nil
}

// ---- orders ----

// ListOrders filters on exact status, then pages.
func (s *MemoryStore) ListOrders(_ context.Context, params ListParams) (*OrderPage, error) {
	params = params.Normalize()

	s.mu.RLock()
	filtered := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		if params.Status == "" || o.Status == params.Status {
			filtered = append(filtered, o)
		}
	}
	s.mu.RUnlock()

	return &OrderPage{
		Orders:      paginate(filtered, params),
		TotalPages:  totalPages(len(filtered), params.Limit),
		TotalOrders: len(filtered),
		CurrentPage: params.Page,
	}, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, notFound("order", id)
}

// ---- customers ----

// ListCustomers filters by name or email, then pages.
func (s *MemoryStore) ListCustomers(_ context.Context, params ListParams) (*CustomerPage, error) {
	params = params.Normalize()
	q := searchTerm(params)

	s.mu.RLock()
	filtered := make([]Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if matches(q, c.Name, c.Email) {
			filtered = append(filtered, c)
		}
	}
	s.mu.RUnlock()

	return &CustomerPage{
		Customers:      paginate(filtered, params),
		TotalPages:     totalPages(len(filtered), params.Limit),
		TotalCustomers: len(filtered),
		CurrentPage:    params.Page,
	}, nil
}

func (s *MemoryStore) GetCustomer(_ context.Context, id string) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, notFound("customer", id)
}
