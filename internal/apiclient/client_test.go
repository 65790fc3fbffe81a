package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	redirects []string
	notes     []string
}

func (r *recorder) policy(location string) Policy {
	p := Policy{
		OnSessionExpired: func(route string) { r.redirects = append(r.redirects, route) },
		Notify:           func(level, msg string) { r.notes = append(r.notes, level+":"+msg) },
	}
	if location != "" {
		p.CurrentLocation = func() string { return location }
	}
	return p
}

func newServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestRequestSendsJSONAndParams(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Blocks", body["name"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"13"}`))
	})

	c := New(srv.URL)
	raw, err := c.Request(context.Background(), http.MethodPost, "/products",
		map[string]string{"name": "Blocks"}, url.Values{"page": {"2"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"13"}`, string(raw))
}

func TestBearerHeader(t *testing.T) {
	var got []string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	c := New(srv.URL)
	ctx := context.Background()

	// no token, no header
	_, err := c.Get(ctx, "/admin/products", nil)
	require.NoError(t, err)

	c.Tokens().Save(StoredSession{Token: "tok"})
	_, err = c.Get(ctx, "/admin/products", nil)
	require.NoError(t, err)

	// public auth endpoints never carry the token
	_, err = c.Post(ctx, "/auth/login", map[string]string{"email": "a"})
	require.NoError(t, err)
	_, err = c.Get(ctx, "/auth/verify-email/abc", nil)
	require.NoError(t, err)

	// profile is not public
	_, err = c.Get(ctx, "/auth/profile", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok", "", "", "Bearer tok"}, got)
}

func TestSharedTokenStore(t *testing.T) {
	var got []string
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		if r.URL.Path == "/admin/orders" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	shared := NewMemoryTokenStore()
	var rec recorder
	a := New(srv.URL, WithTokenStore(shared), WithPolicy(rec.policy("/admin/products")))
	b := New(srv.URL, WithTokenStore(shared), WithPolicy(rec.policy("/admin/orders")))
	assert.Same(t, shared, a.Tokens())
	ctx := context.Background()

	a.Tokens().Save(StoredSession{Token: "tok"})
	_, err := b.Get(ctx, "/admin/products", nil)
	require.NoError(t, err)

	// a 401 seen by one client ends the session for both
	_, err = b.Get(ctx, "/admin/orders", nil)
	require.Error(t, err)
	assert.Empty(t, a.Tokens().Load().Token)

	_, err = a.Get(ctx, "/admin/products", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bearer tok", "Bearer tok", ""}, got)
}

func TestUnauthorizedClearsSessionAndRedirects(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	})

	rec := &recorder{}
	c := New(srv.URL, WithPolicy(rec.policy("/admin/products")))
	c.Tokens().Save(StoredSession{Token: "tok", RefreshToken: "ref", User: json.RawMessage(`{"id":"1"}`)})

	_, err := c.Get(context.Background(), "/admin/products", nil)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusUnauthorized, httpErr.Status)
	assert.Equal(t, "token expired", httpErr.Message())

	assert.Equal(t, StoredSession{}, c.Tokens().Load())
	assert.Equal(t, []string{"/admin/login"}, rec.redirects)
	assert.Len(t, rec.notes, 1)
}

func TestUnauthorizedStorefrontRoute(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	rec := &recorder{}
	c := New(srv.URL, WithPolicy(rec.policy("/cart")))

	_, err := c.Get(context.Background(), "/cart", nil)
	assert.Error(t, err)
	assert.Equal(t, []string{"/login"}, rec.redirects)
}

func TestUnauthorizedOnLoginPageDoesNotRedirect(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	rec := &recorder{}
	c := New(srv.URL, WithPolicy(rec.policy("/admin/login")))
	c.Tokens().Save(StoredSession{Token: "tok"})

	_, err := c.Post(context.Background(), "/auth/admin/login", map[string]string{})
	assert.Error(t, err)
	assert.Empty(t, rec.redirects)
	assert.Empty(t, rec.notes)
	assert.Equal(t, "", c.Tokens().Load().Token)
}

func TestServerErrorNotifiesButKeepsSession(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	rec := &recorder{}
	c := New(srv.URL, WithPolicy(rec.policy("/admin")))
	c.Tokens().Save(StoredSession{Token: "tok"})

	_, err := c.Get(context.Background(), "/admin/analytics/summary", nil)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.Status)

	assert.Equal(t, "tok", c.Tokens().Load().Token)
	assert.Empty(t, rec.redirects)
	assert.Equal(t, []string{LevelError + ":" + msgServerError}, rec.notes)
}

func TestClientErrorPassesThroughQuietly(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	rec := &recorder{}
	c := New(srv.URL, WithPolicy(rec.policy("/admin")))

	_, err := c.Get(context.Background(), "/products/99", nil)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Contains(t, httpErr.Error(), "Not Found")
	assert.Empty(t, rec.notes)
}

func TestTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Get(context.Background(), "/slow", nil)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, "/slow", netErr.Path)
}

func TestUploadSendsMultipart(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		file, header, err := r.FormFile("images")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "photo.jpg", header.Filename)
		assert.Equal(t, "bytes", string(data))
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	c := New(srv.URL)
	c.Tokens().Save(StoredSession{Token: "tok"})
	raw, err := c.Upload(context.Background(), "/admin/products/1/images", "images", "photo.jpg", strings.NewReader("bytes"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestLoginRoute(t *testing.T) {
	assert.Equal(t, "/admin/login", LoginRoute("/admin"))
	assert.Equal(t, "/admin/login", LoginRoute("/admin/orders"))
	assert.Equal(t, "/login", LoginRoute("/administrator"))
	assert.Equal(t, "/login", LoginRoute("/products/1"))
}
