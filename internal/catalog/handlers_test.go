package catalog

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/auth"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type testAPI struct {
	router *mux.Router
	store  *MemoryStore
	tokens *auth.Tokens
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := NewMemoryStore()
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	uploader := storage.NewFSUploader(afero.NewMemMapFs(), "/uploads", "http://cdn.test/uploads", 1<<20)

	h := NewHandler(&Dashboard{Products: store, Categories: store, Orders: store, Customers: store}, uploader, tokens)
	r := mux.NewRouter()
	h.Register(r)
	return &testAPI{router: r, store: store, tokens: tokens}
}

func (a *testAPI) adminToken(t *testing.T) string {
	t.Helper()
	u, err := auth.Authenticate(auth.Credentials{Email: auth.AdminEmail, Password: auth.AdminPassword})
	require.NoError(t, err)
	tok, err := a.tokens.Issue(*u)
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestLoginIssuesToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/admin/login", "", auth.Credentials{Email: auth.AdminEmail, Password: auth.AdminPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Token string    `json:"token"`
		User  auth.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "admin", res.User.Role)

	claims, err := api.tokens.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.AdminEmail, claims.Email)

	rec = api.do(t, http.MethodGet, "/auth/profile", res.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Admin User", decode[auth.User](t, rec).Name)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/auth/admin/login", "", auth.Credentials{Email: auth.AdminEmail, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), auth.ErrInvalidCredentials.Error())
}

func TestAdminRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/admin/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/admin/products", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	shopper, err := api.tokens.Issue(auth.User{ID: "9", Name: "Shopper", Role: "customer"})
	require.NoError(t, err)
	rec = api.do(t, http.MethodDelete, "/products/1", shopper, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// still there
	_, err = api.store.GetProduct(t.Context(), "1")
	assert.NoError(t, err)
}

func TestListProductsHandler(t *testing.T) {
	api := newTestAPI(t)
	tok := api.adminToken(t)

	rec := api.do(t, http.MethodGet, "/admin/products?page=2&limit=5&search=toy", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[ProductPage](t, rec)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 4, page.TotalProducts)
	assert.Equal(t, 1, page.TotalPages)
	assert.Empty(t, page.Products)

	// junk paging falls back to defaults
	rec = api.do(t, http.MethodGet, "/admin/products?page=abc&limit=-4", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[ProductPage](t, rec)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Products, DefaultLimit)
}

func TestProductCRUDHandlers(t *testing.T) {
	api := newTestAPI(t)
	tok := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/products", tok, CreateProductRequest{Name: "Bath Duck", Price: 300, Stock: 5})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[Product](t, rec)
	assert.Equal(t, "13", created.ID)

	rec = api.do(t, http.MethodGet, "/products/13", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bath Duck", decode[Product](t, rec).Name)

	rec = api.do(t, http.MethodPut, "/products/13", tok, map[string]interface{}{"stock": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[Product](t, rec)
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, 300.0, updated.Price)

	rec = api.do(t, http.MethodDelete, "/products/13", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[DeleteResult](t, rec).Success)

	rec = api.do(t, http.MethodGet, "/products/13", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProductValidationHandler(t *testing.T) {
	api := newTestAPI(t)
	tok := api.adminToken(t)

	rec := api.do(t, http.MethodPost, "/products", tok, map[string]interface{}{"price": -5})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var res struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Contains(t, res.Fields, "name")
	assert.Contains(t, res.Fields, "price")

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("{"))
	req.Header.Set("Authorization", "Bearer "+tok)
	bad := httptest.NewRecorder()
	api.router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestCategoryHandlers(t *testing.T) {
	api := newTestAPI(t)
	tok := api.adminToken(t)

	rec := api.do(t, http.MethodGet, "/categories/slug/toys", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "3", decode[Category](t, rec).ID)

	rec = api.do(t, http.MethodPost, "/categories", tok, CreateCategoryRequest{Name: "School Supplies"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "school-supplies", decode[Category](t, rec).Slug)

	rec = api.do(t, http.MethodGet, "/categories?limit=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[CategoryPage](t, rec)
	assert.Equal(t, 8, page.TotalCategories)
	assert.Equal(t, 3, page.TotalPages)

	rec = api.do(t, http.MethodPut, "/categories/8", tok, map[string]interface{}{"status": "inactive"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusInactive, decode[Category](t, rec).Status)

	rec = api.do(t, http.MethodDelete, "/categories/8", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/categories/8", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderAndCustomerHandlers(t *testing.T) {
	api := newTestAPI(t)
	tok := api.adminToken(t)

	rec := api.do(t, http.MethodGet, "/admin/orders?status=pending", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[OrderPage](t, rec)
	assert.Equal(t, 2, orders.TotalOrders)

	rec = api.do(t, http.MethodGet, "/orders/3", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mary Achieng", decode[Order](t, rec).UserName)

	rec = api.do(t, http.MethodGet, "/admin/customers?search=kamau", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	customers := decode[CustomerPage](t, rec)
	require.Len(t, customers.Customers, 1)
	assert.Equal(t, "4", customers.Customers[0].ID)

	rec = api.do(t, http.MethodGet, "/admin/customers/77", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodGet, "/admin/analytics/summary", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sum := decode[Summary](t, rec)
	assert.Equal(t, 12, sum.TotalProducts)
	assert.Len(t, sum.RecentOrders, 5)
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := mw.CreateFormFile(imagesFormField, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadProductImagesHandler(t *testing.T) {
	api := newTestAPI(t)
	tok := api.adminToken(t)

	body, contentType := multipartBody(t, map[string][]byte{"front.png": pngHeader})
	req := httptest.NewRequest(http.MethodPost, "/admin/products/4/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[Product](t, rec)
	require.Len(t, p.Images, 1)
	assert.True(t, strings.HasPrefix(p.Images[0], "http://cdn.test/uploads/"))
	assert.True(t, strings.HasSuffix(p.Images[0], ".png"))
}

func TestUploadRejectsNonImage(t *testing.T) {
	api := newTestAPI(t)
	tok := api.adminToken(t)

	body, contentType := multipartBody(t, map[string][]byte{"notes.txt": []byte("just some text")})
	req := httptest.NewRequest(http.MethodPost, "/admin/products/4/images", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	p, err := api.store.GetProduct(t.Context(), "4")
	require.NoError(t, err)
	assert.Empty(t, p.Images)
}
