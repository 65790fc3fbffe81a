package resource

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/catalog"
)

type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartService struct {
	t Transport
}

func (s *CartService) Get(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/cart", nil, nil)
}

func (s *CartService) Add(ctx context.Context, item CartItem) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/cart", item, nil)
}

func (s *CartService) UpdateQuantity(ctx context.Context, itemID string, quantity int) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPut, "/cart/"+seg(itemID), map[string]int{"quantity": quantity}, nil)
}

func (s *CartService) Remove(ctx context.Context, itemID string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodDelete, "/cart/"+seg(itemID), nil, nil)
}

func (s *CartService) Clear(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodDelete, "/cart", nil, nil)
}

type OrderService struct {
	t Transport
}

func (s *OrderService) Create(ctx context.Context, order interface{}) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/orders", order, nil)
}

func (s *OrderService) Get(ctx context.Context, id string) (*catalog.Order, error) {
	return call[catalog.Order](ctx, s.t, http.MethodGet, "/orders/"+seg(id), nil, nil)
}

func (s *OrderService) Mine(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/orders/user", nil, nil)
}

// AdminList pages through all orders; q.Status filters exactly.
func (s *OrderService) AdminList(ctx context.Context, q PageQuery) (*catalog.OrderPage, error) {
	return call[catalog.OrderPage](ctx, s.t, http.MethodGet, "/admin/orders", nil, q.values())
}

func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPatch, "/admin/orders/"+seg(id)+"/status", map[string]string{"status": status}, nil)
}

type FavoriteService struct {
	t Transport
}

func (s *FavoriteService) List(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/favorites", nil, nil)
}

func (s *FavoriteService) Add(ctx context.Context, productID string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/favorites", map[string]string{"product_id": productID}, nil)
}

func (s *FavoriteService) Remove(ctx context.Context, id string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodDelete, "/favorites/"+seg(id), nil, nil)
}

// Check reports whether productID is in the caller's favorites.
func (s *FavoriteService) Check(ctx context.Context, productID string) (bool, error) {
	res, err := call[struct {
		IsFavorite bool `json:"isFavorite"`
	}](ctx, s.t, http.MethodGet, "/favorites/check/"+seg(productID), nil, nil)
	if err != nil {
		return false, err
	}
	return res.IsFavorite, nil
}
