package catalog

import "time"

// Product statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusDraft    = "draft"
)

// Order statuses
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Product represents a product in the catalog
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Price       float64   `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	ImageURL    string    `json:"imageUrl" bson:"image_url"`
	Images      []string  `json:"images" bson:"images"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Category groups products; Slug is derived from Name unless set explicitly.
type Category struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	Description  string    `json:"description" bson:"description"`
	ImageURL     string    `json:"imageUrl" bson:"image_url"`
	ProductCount int       `json:"product_count" bson:"product_count"`
	Status       string    `json:"status" bson:"status"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Order is a storefront order as seen by the admin dashboard. Read-only here.
type Order struct {
	ID        string    `json:"id" bson:"_id"`
	UserName  string    `json:"user_name" bson:"user_name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Status    string    `json:"status" bson:"status"`
	Total     float64   `json:"total" bson:"total"`
	Items     int       `json:"items" bson:"items"`
}

// Customer is a storefront customer with aggregate spend. Read-only here.
type Customer struct {
	ID         string  `json:"id" bson:"_id"`
	Name       string  `json:"name" bson:"name"`
	Email      string  `json:"email" bson:"email"`
	Orders     int     `json:"orders" bson:"orders"`
	TotalSpent float64 `json:"total_spent" bson:"total_spent"`
}

// ListParams is the paging and filtering input shared by every List call.
// Search applies to products, categories and customers; Status to orders.
type ListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
}

// ProductPage wraps a page of products with pagination info
type ProductPage struct {
	Products      []Product `json:"products"`
	TotalPages    int       `json:"totalPages"`
	TotalProducts int       `json:"totalProducts"`
	CurrentPage   int       `json:"currentPage"`
}

type CategoryPage struct {
	Categories      []Category `json:"categories"`
	TotalPages      int        `json:"totalPages"`
	TotalCategories int        `json:"totalCategories"`
	CurrentPage     int        `json:"currentPage"`
}

type OrderPage struct {
	Orders      []Order `json:"orders"`
	TotalPages  int     `json:"totalPages"`
	TotalOrders int     `json:"totalOrders"`
	CurrentPage int     `json:"currentPage"`
}

type CustomerPage struct {
	Customers      []Customer `json:"customers"`
	TotalPages     int        `json:"totalPages"`
	TotalCustomers int        `json:"totalCustomers"`
	CurrentPage    int        `json:"currentPage"`
}

// CreateProductRequest represents the payload for creating a product.
// Status is not accepted: new products always start active.
type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	ImageURL    string   `json:"imageUrl"`
	Images      []string `json:"images"`
}

// UpdateProductRequest represents the payload for updating a product.
// Nil fields keep their current value.
type UpdateProductRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitnil,min=1"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Price       *float64  `json:"price,omitempty" validate:"omitnil,gte=0"`
	Stock       *int      `json:"stock,omitempty" validate:"omitnil,gte=0"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Images      *[]string `json:"images,omitempty"`
	Status      *string   `json:"status,omitempty" validate:"omitnil,oneof=active inactive draft"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitnil,min=1"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	ImageURL     *string `json:"imageUrl,omitempty"`
	ProductCount *int    `json:"product_count,omitempty" validate:"omitnil,gte=0"`
	Status       *string `json:"status,omitempty" validate:"omitnil,oneof=active inactive"`
}

// DeleteResult is returned by every Delete call
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Summary is the admin dashboard overview
type Summary struct {
	TotalProducts   int     `json:"totalProducts"`
	TotalCategories int     `json:"totalCategories"`
	TotalOrders     int     `json:"totalOrders"`
	TotalCustomers  int     `json:"totalCustomers"`
	Revenue         float64 `json:"revenue"`
	RecentOrders    []Order `json:"recentOrders"`
}

func (p Product) clone() Product {
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	return p
}
