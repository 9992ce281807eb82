package domain

import "strings"

// Role is the user's access role
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ResolveRole folds the two user-record schemes (role string, isAdmin flag) into one Role.
// An explicit role wins; otherwise the flag decides; otherwise the user is a plain user.
func ResolveRole(role string, isAdmin *bool) Role {
	switch Role(strings.ToLower(strings.TrimSpace(role))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleUser:
		return RoleUser
	}
	if isAdmin != nil && *isAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// SortKey selects the ordering of the derived product view
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortPopular   SortKey = "popular"
)

// IsValid checks if the sort key is known
func (k SortKey) IsValid() bool {
	switch k {
	case SortNewest, SortPriceLow, SortPriceHigh, SortPopular:
		return true
	default:
		return false
	}
}

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return newStatus == OrderStatusProcessing
	case OrderStatusProcessing:
		return newStatus == OrderStatusShipped
	case OrderStatusShipped:
		return newStatus == OrderStatusDelivered
	case OrderStatusDelivered:
		return false // Terminal
	default:
		return false
	}
}

// CheckoutState is the state of a single checkout attempt
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "idle"
	CheckoutSubmitting CheckoutState = "submitting"
	CheckoutConfirmed  CheckoutState = "confirmed"
	CheckoutFailed     CheckoutState = "failed"
)

// CanSubmit reports whether a new attempt may start from this state
func (s CheckoutState) CanSubmit() bool {
	return s != CheckoutSubmitting
}

// Language is the UI language preference
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageFrench  Language = "fr"
)

// IsValid checks if the language is supported
func (l Language) IsValid() bool {
	return l == LanguageEnglish || l == LanguageArabic || l == LanguageFrench
}

// Direction returns the text direction for the language
func (l Language) Direction() string {
	if l == LanguageArabic {
		return "rtl"
	}
	return "ltr"
}
