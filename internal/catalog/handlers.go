package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/auth"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/logger"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/storage"

	"github.com/gorilla/mux"
)

const (
	maxListLimit       = 100
	maxMultipartMemory = 8 << 20
	imagesFormField    = "images"
)

// Handler handles HTTP requests for the admin API
type Handler struct {
	products   ProductRepository
	categories CategoryRepository
	orders     OrderRepository
	customers  CustomerRepository
	dashboard  *Dashboard
	uploader   storage.Uploader
	tokens     *auth.Tokens
}

// NewHandler creates a new admin handler over the given repositories
func NewHandler(d *Dashboard, uploader storage.Uploader, tokens *auth.Tokens) *Handler {
	return &Handler{
		products:   d.Products,
		categories: d.Categories,
		orders:     d.Orders,
		customers:  d.Customers,
		dashboard:  d,
		uploader:   uploader,
		tokens:     tokens,
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/auth/admin/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/profile", h.RequireAdmin(h.Profile)).Methods(http.MethodGet)

	r.HandleFunc("/admin/products", h.RequireAdmin(h.ListProducts)).Methods(http.MethodGet)
	r.HandleFunc("/admin/products/{id}/images", h.RequireAdmin(h.UploadProductImages)).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", h.GetProduct).Methods(http.MethodGet)
	r.HandleFunc("/products", h.RequireAdmin(h.CreateProduct)).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}", h.RequireAdmin(h.UpdateProduct)).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", h.RequireAdmin(h.DeleteProduct)).Methods(http.MethodDelete)

	r.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/categories/slug/{slug}", h.GetCategoryBySlug).Methods(http.MethodGet)
	r.HandleFunc("/categories/{id}", h.GetCategory).Methods(http.MethodGet)
	r.HandleFunc("/categories", h.RequireAdmin(h.CreateCategory)).Methods(http.MethodPost)
	r.HandleFunc("/categories/{id}", h.RequireAdmin(h.UpdateCategory)).Methods(http.MethodPut)
	r.HandleFunc("/categories/{id}", h.RequireAdmin(h.DeleteCategory)).Methods(http.MethodDelete)

	r.HandleFunc("/admin/orders", h.RequireAdmin(h.ListOrders)).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.RequireAdmin(h.GetOrder)).Methods(http.MethodGet)

	r.HandleFunc("/admin/customers", h.RequireAdmin(h.ListCustomers)).Methods(http.MethodGet)
	r.HandleFunc("/admin/customers/{id}", h.RequireAdmin(h.GetCustomer)).Methods(http.MethodGet)

	r.HandleFunc("/admin/analytics/summary", h.RequireAdmin(h.Summary)).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps store errors to status codes; anything unexpected is
// logged and hidden behind a 500.
func writeError(w http.ResponseWriter, op string, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "validation failed",
			"fields":  ve.Fields,
		})
	case errors.Is(err, ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		logger.Errorf("%s: %v", op, err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func listParams(r *http.Request) ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return ListParams{
		Page:   page,
		Limit:  limit,
		Search: q.Get("search"),
		Status: q.Get("status"),
	}.Normalize()
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// Login handles POST /auth/admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}

	user, err := auth.Authenticate(creds)
	if err != nil {
		logger.Infof("Login: rejected credentials for %q", creds.Email)
		writeMessage(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := h.tokens.Issue(*user)
	if err != nil {
		writeError(w, "Login", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Profile handles GET /auth/profile
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.FromContext(r.Context())
	if !ok || !session.IsAuthenticated() {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, session.CurrentUser())
}

// ListProducts handles GET /admin/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.products.ListProducts(r.Context(), listParams(r))
	if err != nil {
		writeError(w, "ListProducts", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetProduct handles GET /products/{id}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "GetProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /products (admin only)
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	product, err := h.products.CreateProduct(r.Context(), req)
	if err != nil {
		writeError(w, "CreateProduct", err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /products/{id} (admin only)
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}
	product, err := h.products.UpdateProduct(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, "UpdateProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /products/{id} (admin only)
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	res, err := h.products.DeleteProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "DeleteProduct", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UploadProductImages handles POST /admin/products/{id}/images (admin only).
// Every file under the "images" field is stored and appended to the gallery.
func (h *Handler) UploadProductImages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.products.GetProduct(r.Context(), id); err != nil {
		writeError(w, "UploadProductImages", err)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File[imagesFormField]
	if len(files) == 0 {
		writeMessage(w, http.StatusBadRequest, "no images uploaded")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			writeError(w, "UploadProductImages open", err)
			return
		}
		url, err := h.uploader.Upload(r.Context(), fh.Filename, f)
		f.Close()
		if errors.Is(err, storage.ErrNotImage) || errors.Is(err, storage.ErrTooLarge) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			writeError(w, "UploadProductImages upload", err)
			return
		}
		urls = append(urls, url)
	}

	product, err := h.products.AddProductImages(r.Context(), id, urls)
	if err != nil {
		writeError(w, "UploadProductImages", err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// ListCategories handles GET /categories
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := h.categories.ListCategories(r.Context(), listParams(r))
	if err != nil {
		writeError(w, "ListCategories", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetCategory handles GET /categories/{id}
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "GetCategory", err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// GetCategoryBySlug handles GET /categories/slug/{slug}
func (h *Handler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetCategoryBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, "GetCategoryBySlug", err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// CreateCategory handles POST /categories (admin only)
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := h.categories.CreateCategory(r.Context(), req)
	if err != nil {
		writeError(w, "CreateCategory", err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

// UpdateCategory handles PUT /categories/{id} (admin only)
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	category, err := h.categories.UpdateCategory(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, "UpdateCategory", err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// DeleteCategory handles DELETE /categories/{id} (admin only)
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	res, err := h.categories.DeleteCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "DeleteCategory", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ListOrders handles GET /admin/orders
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := h.orders.ListOrders(r.Context(), listParams(r))
	if err != nil {
		writeError(w, "ListOrders", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetOrder handles GET /orders/{id}
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "GetOrder", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// ListCustomers handles GET /admin/customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	page, err := h.customers.ListCustomers(r.Context(), listParams(r))
	if err != nil {
		writeError(w, "ListCustomers", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetCustomer handles GET /admin/customers/{id}
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customers.GetCustomer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, "GetCustomer", err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// Summary handles GET /admin/analytics/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Summary(r.Context())
	if err != nil {
		writeError(w, "Summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// RequireAdmin is middleware that requires a valid JWT token with admin role.
// The verified user travels on as the request's session.
func (h *Handler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := auth.GetBearerToken(r)
		if tokenStr == "" {
			logger.Debugf("RequireAdmin: no bearer token provided")
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := h.tokens.ParseToken(tokenStr)
		if err != nil {
			logger.Debugf("RequireAdmin: JWT parse error: %v", err)
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if !auth.HasRole(claims.Roles, "admin") {
			logger.Debugf("RequireAdmin: user lacks admin role")
			writeMessage(w, http.StatusForbidden, "forbidden - admin role required")
			return
		}

		session := auth.SessionFor(auth.UserFromClaims(claims))
		next(w, r.WithContext(auth.WithSession(r.Context(), session)))
	}
}
