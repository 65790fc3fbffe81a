package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var (
	_ ProductRepository  = (*PostgresStore)(nil)
	_ CategoryRepository = (*PostgresStore)(nil)
)

// Schema creates the catalog tables when they do not exist yet.
const Schema = `
CREATE SCHEMA IF NOT EXISTS catalog;

CREATE TABLE IF NOT EXISTS catalog.products (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	price       NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
	stock       INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
	image_url   TEXT NOT NULL DEFAULT '',
	images      TEXT[] NOT NULL DEFAULT '{}',
	status      TEXT NOT NULL DEFAULT 'active',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS catalog.categories (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	slug          TEXT NOT NULL UNIQUE,
	description   TEXT NOT NULL DEFAULT '',
	image_url     TEXT NOT NULL DEFAULT '',
	product_count INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL DEFAULT 'active',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const (
	productColumns = `id, name, description, category, price, stock, image_url,
		COALESCE(images, '{}'::text[]) AS images, status, created_at, updated_at`
	categoryColumns = `id, name, slug, description, image_url, product_count, status, created_at`

	uniqueViolation = "23505"
)

// PostgresStore handles database operations for products and categories
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new catalog store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies Schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("Migrate: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var p Product
	var images pq.StringArray
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Stock,
		&p.ImageURL, &images, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Images = []string(images)
	return &p, nil
}

func scanCategory(row rowScanner) (*Category, error) {
	var c Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL,
		&c.ProductCount, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchClause matches the search term as a literal substring of either
// column, case-insensitively.
func searchClause(params ListParams, colA, colB string) (string, []interface{}) {
	term := strings.TrimSpace(params.Search)
	if term == "" {
		return "", nil
	}
	return fmt.Sprintf(` WHERE (%s ILIKE $1 ESCAPE '\' OR %s ILIKE $1 ESCAPE '\')`, colA, colB),
		[]interface{}{"%" + likeEscaper.Replace(term) + "%"}
}

// ListProducts retrieves products with pagination and optional search
func (s *PostgresStore) ListProducts(ctx context.Context, params ListParams) (*ProductPage, error) {
	params = params.Normalize()
	where, args := searchClause(params, "name", "category")

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog.products"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("ListProducts count: %w", err)
	}

	products := []Product{}
	if params.Offset() >= total {
		return &ProductPage{
			Products:      products,
			TotalPages:    totalPages(total, params.Limit),
			TotalProducts: total,
			CurrentPage:   params.Page,
		}, nil
	}

	query := "SELECT " + productColumns + " FROM catalog.products" + where +
		fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListProducts query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("ListProducts scan: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListProducts rows: %w", err)
	}

	return &ProductPage{
		Products:      products,
		TotalPages:    totalPages(total, params.Limit),
		TotalProducts: total,
		CurrentPage:   params.Page,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *PostgresStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	if !validID(id) {
		return nil, notFound("product", id)
	}
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM catalog.products WHERE id = $1", id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("GetProduct query: %w", err)
	}
	return p, nil
}

// CreateProduct creates a new product
func (s *PostgresStore) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO catalog.products (
			id, name, description, category, price, stock, image_url, images, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING ` + productColumns

	row := s.db.QueryRowContext(ctx, query,
		uuid.New().String(), req.Name, req.Description, req.Category, req.Price,
		req.Stock, req.ImageURL, pq.Array(nonNil(req.Images)), StatusActive,
	)
	p, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// UpdateProduct updates the supplied fields of an existing product
func (s *PostgresStore) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*Product, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	if !validID(id) {
		return nil, notFound("product", id)
	}

	u := newUpdateBuilder("UPDATE catalog.products SET updated_at = now()")
	u.set("name", req.Name)
	u.set("description", req.Description)
	u.set("category", req.Category)
	u.set("price", req.Price)
	u.set("stock", req.Stock)
	u.set("image_url", req.ImageURL)
	if req.Images != nil {
		u.add("images", pq.Array(nonNil(*req.Images)))
	}
	u.set("status", req.Status)
	query, args := u.where(id, productColumns)

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("UpdateProduct: %w", err)
	}
	return p, nil
}

// DeleteProduct deletes a product by ID
func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) (*DeleteResult, error) {
	if err := s.deleteByID(ctx, "catalog.products", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("product", id)
		}
		return nil, fmt.Errorf("DeleteProduct: %w", err)
	}
	return &DeleteResult{Success: true, Message: "Product deleted successfully"}, nil
}

// AddProductImages appends gallery URLs to a product
func (s *PostgresStore) AddProductImages(ctx context.Context, id string, urls []string) (*Product, error) {
	if !validID(id) {
		return nil, notFound("product", id)
	}
	query := `
		UPDATE catalog.products
		SET images = images || $1::text[],
		    image_url = CASE
		        WHEN image_url = '' AND cardinality($1::text[]) > 0 THEN ($1::text[])[1]
		        ELSE image_url
		    END,
		    updated_at = now()
		WHERE id = $2
		RETURNING ` + productColumns

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, pq.Array(nonNil(urls)), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("AddProductImages: %w", err)
	}
	return p, nil
}

// ListCategories retrieves categories with pagination and optional search
func (s *PostgresStore) ListCategories(ctx context.Context, params ListParams) (*CategoryPage, error) {
	params = params.Normalize()
	where, args := searchClause(params, "name", "description")

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog.categories"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("ListCategories count: %w", err)
	}

	categories := []Category{}
	if params.Offset() >= total {
		return &CategoryPage{
			Categories:      categories,
			TotalPages:      totalPages(total, params.Limit),
			TotalCategories: total,
			CurrentPage:     params.Page,
		}, nil
	}

	query := "SELECT " + categoryColumns + " FROM catalog.categories" + where +
		fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListCategories query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("ListCategories scan: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCategories rows: %w", err)
	}

	return &CategoryPage{
		Categories:      categories,
		TotalPages:      totalPages(total, params.Limit),
		TotalCategories: total,
		CurrentPage:     params.Page,
	}, nil
}

func (s *PostgresStore) getCategoryBy(ctx context.Context, column, value string) (*Category, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM catalog.categories WHERE "+column+" = $1", value)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category", value)
	}
	if err != nil {
		return nil, fmt.Errorf("GetCategory query: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) GetCategory(ctx context.Context, id string) (*Category, error) {
	if !validID(id) {
		return nil, notFound("category", id)
	}
	return s.getCategoryBy(ctx, "id", id)
}

func (s *PostgresStore) GetCategoryBySlug(ctx context.Context, slug string) (*Category, error) {
	return s.getCategoryBy(ctx, "slug", slug)
}

// CreateCategory creates a new category
func (s *PostgresStore) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO catalog.categories (
			id, name, slug, description, image_url, product_count, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, 0, $6, $7
		)
		RETURNING ` + categoryColumns

	row := s.db.QueryRowContext(ctx, query,
		uuid.New().String(), req.Name, categorySlug(req.Slug, req.Name),
		req.Description, req.ImageURL, StatusActive, time.Now().UTC(),
	)
	c, err := scanCategory(row)
	if err != nil {
		return nil, categoryWriteError("CreateCategory", err)
	}
	return c, nil
}

// UpdateCategory updates the supplied fields of an existing category
func (s *PostgresStore) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*Category, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// slug normalisation needs the effective name
	current, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	merged := *current
	applyCategoryUpdate(&merged, req)

	u := newUpdateBuilder("UPDATE catalog.categories SET id = id")
	u.set("name", req.Name)
	if req.Slug != nil {
		u.add("slug", merged.Slug)
	}
	u.set("description", req.Description)
	u.set("image_url", req.ImageURL)
	u.set("product_count", req.ProductCount)
	u.set("status", req.Status)
	query, args := u.where(id, categoryColumns)

	c, err := scanCategory(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("category", id)
	}
	if err != nil {
		return nil, categoryWriteError("UpdateCategory", err)
	}
	return c, nil
}

func categoryWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return &ValidationError{Fields: map[string]string{"slug": "unique"}}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// DeleteCategory deletes a category by ID
func (s *PostgresStore) DeleteCategory(ctx context.Context, id string) (*DeleteResult, error) {
	if err := s.deleteByID(ctx, "catalog.categories", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("category", id)
		}
		return nil, fmt.Errorf("DeleteCategory: %w", err)
	}
	return &DeleteResult{Success: true, Message: "Category deleted successfully"}, nil
}

// deleteByID returns sql.ErrNoRows when nothing was deleted.
func (s *PostgresStore) deleteByID(ctx context.Context, table, id string) error {
	if !validID(id) {
		return sql.ErrNoRows
	}
	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// validID reports whether id can name a stored row. Anything else is a miss
// rather than a query error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// updateBuilder assembles a dynamic UPDATE from the non-nil fields of a
// partial update request.
type updateBuilder struct {
	query string
	args  []interface{}
}

func newUpdateBuilder(base string) *updateBuilder {
	return &updateBuilder{query: base}
}

func (u *updateBuilder) add(column string, value interface{}) {
	u.args = append(u.args, value)
	u.query += fmt.Sprintf(", %s = $%d", column, len(u.args))
}

// set adds column only when ptr is a non-nil *string, *int or *float64.
func (u *updateBuilder) set(column string, ptr interface{}) {
	switch v := ptr.(type) {
	case *string:
		if v != nil {
			u.add(column, *v)
		}
	case *int:
		if v != nil {
			u.add(column, *v)
		}
	case *float64:
		if v != nil {
			u.add(column, *v)
		}
	}
}

func (u *updateBuilder) where(id, returning string) (string, []interface{}) {
	args := append(u.args, id)
	return u.query + fmt.Sprintf(" WHERE id = $%d RETURNING %s", len(args), returning), args
}

// Seed loads demo products and categories into empty tables. Non-empty
// tables are left alone.
func (s *PostgresStore) Seed(ctx context.Context, products []Product, categories []Category) error {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog.categories").Scan(&n); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n == 0 {
		for _, c := range categories {
			if _, err := s.CreateCategory(ctx, CreateCategoryRequest{
				Name: c.Name, Slug: c.Slug, Description: c.Description, ImageURL: c.ImageURL,
			}); err != nil {
				return fmt.Errorf("seed category %s: %w", c.Name, err)
			}
		}
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog.products").Scan(&n); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, p := range products {
		if _, err := s.CreateProduct(ctx, CreateProductRequest{
			Name: p.Name, Description: p.Description, Category: p.Category,
			Price: p.Price, Stock: p.Stock, ImageURL: p.ImageURL, Images: p.Images,
		}); err != nil {
			return fmt.Errorf("seed product %s: %w", p.Name, err)
		}
	}
	return nil
}
