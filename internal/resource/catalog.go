package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/catalog"
)

type ProductService struct {
	t Transport
}

// AdminList pages through products for the admin table.
func (s *ProductService) AdminList(ctx context.Context, q PageQuery) (*catalog.ProductPage, error) {
	return call[catalog.ProductPage](ctx, s.t, http.MethodGet, "/admin/products", nil, q.values())
}

func (s *ProductService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return call[catalog.Product](ctx, s.t, http.MethodGet, "/products/"+seg(id), nil, nil)
}

func (s *ProductService) ByCategory(ctx context.Context, name string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/products/category/"+seg(name), nil, nil)
}

func (s *ProductService) Related(ctx context.Context, id string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/products/"+seg(id)+"/related", nil, nil)
}

func (s *ProductService) Featured(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/products/featured", nil, nil)
}

func (s *ProductService) Search(ctx context.Context, query string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/products/search", nil, url.Values{"q": {query}})
}

func (s *ProductService) Create(ctx context.Context, req catalog.CreateProductRequest) (*catalog.Product, error) {
	return call[catalog.Product](ctx, s.t, http.MethodPost, "/products", req, nil)
}

func (s *ProductService) Update(ctx context.Context, id string, req catalog.UpdateProductRequest) (*catalog.Product, error) {
	return call[catalog.Product](ctx, s.t, http.MethodPut, "/products/"+seg(id), req, nil)
}

func (s *ProductService) Delete(ctx context.Context, id string) (*catalog.DeleteResult, error) {
	return call[catalog.DeleteResult](ctx, s.t, http.MethodDelete, "/products/"+seg(id), nil, nil)
}

// UploadImage sends one image as the "images" form field.
func (s *ProductService) UploadImage(ctx context.Context, id, filename string, r io.Reader) (*catalog.Product, error) {
	body, err := s.t.Upload(ctx, "/admin/products/"+seg(id)+"/images", "images", filename, r)
	if err != nil {
		return nil, err
	}
	var p catalog.Product
	if len(body) > 0 {
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("decode image upload: %w", err)
		}
	}
	return &p, nil
}

type CategoryService struct {
	t Transport
}

func (s *CategoryService) List(ctx context.Context, q PageQuery) (*catalog.CategoryPage, error) {
	return call[catalog.CategoryPage](ctx, s.t, http.MethodGet, "/categories", nil, q.values())
}

func (s *CategoryService) Get(ctx context.Context, id string) (*catalog.Category, error) {
	return call[catalog.Category](ctx, s.t, http.MethodGet, "/categories/"+seg(id), nil, nil)
}

func (s *CategoryService) BySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	return call[catalog.Category](ctx, s.t, http.MethodGet, "/categories/slug/"+seg(slug), nil, nil)
}

func (s *CategoryService) Featured(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/categories/featured", nil, nil)
}

func (s *CategoryService) Products(ctx context.Context, slug string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/categories/"+seg(slug)+"/products", nil, nil)
}

func (s *CategoryService) Create(ctx context.Context, req catalog.CreateCategoryRequest) (*catalog.Category, error) {
	return call[catalog.Category](ctx, s.t, http.MethodPost, "/categories", req, nil)
}

func (s *CategoryService) Update(ctx context.Context, id string, req catalog.UpdateCategoryRequest) (*catalog.Category, error) {
	return call[catalog.Category](ctx, s.t, http.MethodPut, "/categories/"+seg(id), req, nil)
}

func (s *CategoryService) Delete(ctx context.Context, id string) (*catalog.DeleteResult, error) {
	return call[catalog.DeleteResult](ctx, s.t, http.MethodDelete, "/categories/"+seg(id), nil, nil)
}
