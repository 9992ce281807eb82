package domain

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRef is the category reference embedded in a product
type CategoryRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// Product represents a catalog product mirrored from the content store
type Product struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Image       string      `json:"image"` // asset reference
	Price       float64     `json:"price"`
	OldPrice    *float64    `json:"old_price,omitempty"`
	OnSale      bool        `json:"on_sale"`
	Category    CategoryRef `json:"category"`
	Rating      float64     `json:"rating"`
	Stock       int         `json:"stock"`
	IsNew       *bool       `json:"is_new,omitempty"`
}

// Category represents a catalog category; ProductCount is derived by the store query
type Category struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	ProductCount int    `json:"product_count"`
}

// CartLine is a product snapshot with a quantity of at least 1
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// User is the session user. Role is the only admin marker.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ShippingInfo is the shipping form captured at checkout
type ShippingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

// UserSnapshot freezes the buyer's name and email at order time
type UserSnapshot struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderLine is an immutable line-item snapshot; later product edits do not alter it
type OrderLine struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order represents a submitted order
type Order struct {
	ID           string       `json:"id,omitempty"`
	OrderNumber  string       `json:"order_number"`
	UserRef      string       `json:"user_ref"` // user ID or "guest"
	UserSnapshot UserSnapshot `json:"user_snapshot"`
	Items        []OrderLine  `json:"items"`
	Subtotal     float64      `json:"subtotal"`
	Shipping     float64      `json:"shipping"`
	Tax          float64      `json:"tax"`
	Total        float64      `json:"total"`
	Status       OrderStatus  `json:"status"`
	ShippingInfo ShippingInfo `json:"shipping_info"`
	CreatedAt    time.Time    `json:"created_at"`
}

// GuestUserRef is the user reference stored on orders placed without a session
const GuestUserRef = "guest"

// OrderEvent represents an audit event for a checkout attempt
type OrderEvent struct {
	ID          uuid.UUID
	OrderNumber string
	ClientID    string
	EventType   string
	EventData   map[string]interface{} // JSON
	CreatedAt   time.Time
}

// IdempotencyKey maps a client-supplied key to the order it produced
type IdempotencyKey struct {
	Key         string
	ClientID    string
	OrderNumber string
	RequestHash string
	CreatedAt   time.Time
}

// Credential is a locally stored email/password pair (local auth provider only)
type Credential struct {
	UserID       uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// StorageEntry is one key of a client's persistent storage partition
type StorageEntry struct {
	ClientID  string
	Key       string
	Value     string
	UpdatedAt time.Time
}

// ProductInput is the admin form for creating or updating a product.
// Slug is filled in by the catalog before the write.
type ProductInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"gte=0"`
	OldPrice    *float64 `json:"old_price,omitempty"`
	Image       string   `json:"image"`
	Stock       int      `json:"stock" binding:"gte=0"`
	OnSale      bool     `json:"on_sale"`
	CategoryID  string   `json:"category_id"`
	Rating      float64  `json:"rating"`
	IsNew       *bool    `json:"is_new,omitempty"`
	Slug        string   `json:"-"`
}

// CategoryInput is the admin form for creating or updating a category
type CategoryInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Slug        string `json:"-"`
}
