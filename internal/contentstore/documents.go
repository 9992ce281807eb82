package contentstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/luxeshop/storefront/internal/domain"
)

type slugField struct {
	Current string `json:"current"`
}

// imageField accepts either a bare asset reference or an image object
type imageField string

func (f *imageField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = imageField(s)
		return nil
	}
	var obj struct {
		Asset struct {
			Ref string `json:"_ref"`
		} `json:"asset"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*f = imageField(obj.Asset.Ref)
	return nil
}

// refField is either a dereferenced document or a raw reference
type refField struct {
	ID    string    `json:"_id"`
	Ref   string    `json:"_ref"`
	Title string    `json:"title"`
	Slug  slugField `json:"slug"`

	// legacy shape written by older clients: {type, ref}
	LegacyRef string `json:"ref"`
}

func (r *refField) id() string {
	switch {
	case r == nil:
		return ""
	case r.ID != "":
		return r.ID
	case r.Ref != "":
		return r.Ref
	default:
		return r.LegacyRef
	}
}

type productDoc struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Slug        slugField  `json:"slug"`
	Description string     `json:"description"`
	Image       imageField `json:"image"`
	Price       float64    `json:"price"`
	OldPrice    *float64   `json:"oldPrice"`
	OnSale      bool       `json:"onSale"`
	Category    *refField  `json:"category"`
	Rating      float64    `json:"rating"`
	Stock       int        `json:"stock"`
	IsNew       *bool      `json:"isNew"`
}

func (d *productDoc) toDomain() domain.Product {
	p := domain.Product{
		ID:          d.ID,
		Title:       d.Title,
		Slug:        d.Slug.Current,
		Description: d.Description,
		Image:       string(d.Image),
		Price:       d.Price,
		OldPrice:    d.OldPrice,
		OnSale:      d.OnSale,
		Rating:      d.Rating,
		Stock:       d.Stock,
		IsNew:       d.IsNew,
	}
	if d.Category != nil {
		p.Category = domain.CategoryRef{
			ID:    d.Category.id(),
			Title: d.Category.Title,
			Slug:  d.Category.Slug.Current,
		}
	}
	return p
}

func productFields(in domain.ProductInput) map[string]interface{} {
	fields := map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"price":       in.Price,
		"stock":       in.Stock,
		"onSale":      in.OnSale,
		"rating":      in.Rating,
		"slug":        slugValue(in.Slug),
	}
	if in.OldPrice != nil {
		fields["oldPrice"] = *in.OldPrice
	}
	if in.IsNew != nil {
		fields["isNew"] = *in.IsNew
	}
	if in.Image != "" {
		fields["image"] = imageValue(in.Image)
	}
	if in.CategoryID != "" {
		fields["category"] = reference(in.CategoryID)
	}
	return fields
}

type categoryDoc struct {
	ID           string     `json:"_id"`
	Title        string     `json:"title"`
	Slug         slugField  `json:"slug"`
	Description  string     `json:"description"`
	Image        imageField `json:"image"`
	ProductCount int        `json:"productCount"`
}

func (d *categoryDoc) toDomain() domain.Category {
	return domain.Category{
		ID:           d.ID,
		Title:        d.Title,
		Slug:         d.Slug.Current,
		Description:  d.Description,
		Image:        string(d.Image),
		ProductCount: d.ProductCount,
	}
}

func categoryFields(in domain.CategoryInput) map[string]interface{} {
	fields := map[string]interface{}{
		"title":       in.Title,
		"description": in.Description,
		"slug":        slugValue(in.Slug),
	}
	if in.Image != "" {
		fields["image"] = imageValue(in.Image)
	}
	return fields
}

type userDoc struct {
	DocID   string `json:"_id"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin *bool  `json:"isAdmin"`
}

func (d *userDoc) toDomain() domain.User {
	return domain.User{
		ID:    d.ID,
		Name:  d.Name,
		Email: d.Email,
		Role:  domain.ResolveRole(d.Role, d.IsAdmin),
	}
}

type orderItemDoc struct {
	Product  *refField `json:"product"`
	Title    string    `json:"title"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
}

type orderDoc struct {
	ID           string              `json:"_id"`
	OrderNumber  string              `json:"orderNumber"`
	User         *refField           `json:"user"`
	UserSnapshot domain.UserSnapshot `json:"userSnapshot"`
	Items        []orderItemDoc      `json:"items"`
	Subtotal     float64             `json:"subtotal"`
	Shipping     float64             `json:"shipping"`
	Tax          float64             `json:"tax"`
	Total        float64             `json:"total"`
	Status       string              `json:"status"`
	ShippingInfo domain.ShippingInfo `json:"shippingInfo"`
	CreatedAt    time.Time           `json:"createdAt"`
}

func (d *orderDoc) toDomain() domain.Order {
	o := domain.Order{
		ID:           d.ID,
		OrderNumber:  d.OrderNumber,
		UserRef:      d.User.id(),
		UserSnapshot: d.UserSnapshot,
		Subtotal:     d.Subtotal,
		Shipping:     d.Shipping,
		Tax:          d.Tax,
		Total:        d.Total,
		Status:       domain.OrderStatus(d.Status),
		ShippingInfo: d.ShippingInfo,
		CreatedAt:    d.CreatedAt,
	}
	if o.UserRef == "" {
		o.UserRef = domain.GuestUserRef
	}
	if !o.Status.IsValid() {
		o.Status = domain.OrderStatusPending
	}
	o.Items = make([]domain.OrderLine, 0, len(d.Items))
	for _, item := range d.Items {
		o.Items = append(o.Items, domain.OrderLine{
			ProductID: item.Product.id(),
			Title:     item.Title,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	// Orders written before subtotal was stored
	if o.Subtotal == 0 && len(o.Items) > 0 {
		for _, line := range o.Items {
			o.Subtotal += line.Price * float64(line.Quantity)
		}
	}
	return o
}

func orderFields(o *domain.Order) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(o.Items))
	for i, line := range o.Items {
		items = append(items, map[string]interface{}{
			"_key":     itemKey(i),
			"_type":    "orderItem",
			"product":  weakReference(line.ProductID),
			"title":    line.Title,
			"price":    line.Price,
			"quantity": line.Quantity,
		})
	}
	return map[string]interface{}{
		"orderNumber": o.OrderNumber,
		"user":        weakReference(o.UserRef),
		"userSnapshot": map[string]interface{}{
			"name":  o.UserSnapshot.Name,
			"email": o.UserSnapshot.Email,
		},
		"items":    items,
		"subtotal": o.Subtotal,
		"shipping": o.Shipping,
		"tax":      o.Tax,
		"total":    o.Total,
		"status":   string(o.Status),
		"shippingInfo": map[string]interface{}{
			"name":    o.ShippingInfo.Name,
			"email":   o.ShippingInfo.Email,
			"address": o.ShippingInfo.Address,
			"city":    o.ShippingInfo.City,
			"phone":   o.ShippingInfo.Phone,
		},
		"createdAt": o.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func itemKey(i int) string {
	return fmt.Sprintf("item-%d", i)
}
