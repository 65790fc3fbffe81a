package resource

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/catalog"
)

type UserService struct {
	t Transport
}

func (s *UserService) List(ctx context.Context, q PageQuery) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/admin/users", nil, q.values())
}

func (s *UserService) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/admin/users/"+seg(id), nil, nil)
}

func (s *UserService) Create(ctx context.Context, user interface{}) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/admin/users", user, nil)
}

func (s *UserService) Update(ctx context.Context, id string, user interface{}) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPut, "/admin/users/"+seg(id), user, nil)
}

func (s *UserService) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodDelete, "/admin/users/"+seg(id), nil, nil)
}

type CustomerService struct {
	t Transport
}

// List pages through customers, searching name and email.
func (s *CustomerService) List(ctx context.Context, q PageQuery) (*catalog.CustomerPage, error) {
	return call[catalog.CustomerPage](ctx, s.t, http.MethodGet, "/admin/customers", nil, q.values())
}

func (s *CustomerService) Get(ctx context.Context, id string) (*catalog.Customer, error) {
	return call[catalog.Customer](ctx, s.t, http.MethodGet, "/admin/customers/"+seg(id), nil, nil)
}

type NewsletterService struct {
	t Transport
}

func (s *NewsletterService) Subscribe(ctx context.Context, email string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/newsletter/subscribe", map[string]string{"email": email}, nil)
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, token string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/newsletter/unsubscribe/"+seg(token), nil, nil)
}

func (s *NewsletterService) Subscribers(ctx context.Context, q PageQuery) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/admin/newsletter/subscribers", nil, q.values())
}

func (s *NewsletterService) Campaigns(ctx context.Context) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/admin/newsletter/campaigns", nil, nil)
}

func (s *NewsletterService) CreateCampaign(ctx context.Context, campaign interface{}) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/admin/newsletter/campaigns", campaign, nil)
}

func (s *NewsletterService) SendCampaign(ctx context.Context, id string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/admin/newsletter/campaigns/"+seg(id)+"/send", nil, nil)
}

type AnalyticsService struct {
	t Transport
}

// Summary is the dashboard overview.
func (s *AnalyticsService) Summary(ctx context.Context, period string) (*catalog.Summary, error) {
	return call[catalog.Summary](ctx, s.t, http.MethodGet, "/admin/analytics/summary", nil, periodQuery(period))
}

func (s *AnalyticsService) SalesByCategory(ctx context.Context, period string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/admin/analytics/sales-by-category", nil, periodQuery(period))
}

func (s *AnalyticsService) TopProducts(ctx context.Context, period string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/admin/analytics/top-products", nil, periodQuery(period))
}

func (s *AnalyticsService) Revenue(ctx context.Context, period string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/admin/analytics/revenue", nil, periodQuery(period))
}
