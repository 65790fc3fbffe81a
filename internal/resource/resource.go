// Package resource groups the storefront API calls by resource. Every call
// is a fresh request; errors from the transport are returned unchanged.
package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/apiclient"
)

// Transport is the subset of *apiclient.Client the services use.
type Transport interface {
	Request(ctx context.Context, method, path string, body interface{}, params url.Values) (json.RawMessage, error)
	Upload(ctx context.Context, path, field, filename string, r io.Reader) (json.RawMessage, error)
}

var _ Transport = (*apiclient.Client)(nil)

// Services bundles one operation group per resource.
type Services struct {
	Auth       *AuthService
	Products   *ProductService
	Categories *CategoryService
	Cart       *CartService
	Orders     *OrderService
	Users      *UserService
	Customers  *CustomerService
	Newsletter *NewsletterService
	Analytics  *AnalyticsService
	Favorites  *FavoriteService
}

// New wires every group to t. tokens receives the session on login and is
// cleared on logout.
func New(t Transport, tokens apiclient.TokenStore) *Services {
	return &Services{
		Auth:       &AuthService{t: t, tokens: tokens},
		Products:   &ProductService{t: t},
		Categories: &CategoryService{t: t},
		Cart:       &CartService{t: t},
		Orders:     &OrderService{t: t},
		Users:      &UserService{t: t},
		Customers:  &CustomerService{t: t},
		Newsletter: &NewsletterService{t: t},
		Analytics:  &AnalyticsService{t: t},
		Favorites:  &FavoriteService{t: t},
	}
}

// call performs one request and decodes the response into T.
func call[T any](ctx context.Context, t Transport, method, path string, body interface{}, params url.Values) (*T, error) {
	raw, err := t.Request(ctx, method, path, body, params)
	if err != nil {
		return nil, err
	}
	var out T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return &out, nil
}

// raw performs one request and returns the body untouched.
func raw(ctx context.Context, t Transport, method, path string, body interface{}, params url.Values) (json.RawMessage, error) {
	return t.Request(ctx, method, path, body, params)
}

func seg(id string) string {
	return url.PathEscape(id)
}

// PageQuery is the page/limit/search query string of admin list endpoints.
type PageQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func (q PageQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return v
}

func periodQuery(period string) url.Values {
	if period == "" {
		return nil
	}
	return url.Values{"period": {period}}
}
