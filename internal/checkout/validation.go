package checkout

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

var validate = validator.New()

type shippingForm struct {
	Name    string `validate:"required"`
	Email   string `validate:"required,email"`
	Address string `validate:"required"`
	City    string `validate:"required"`
	Phone   string `validate:"required"`
}

// normalizeShipping trims every field
func normalizeShipping(info domain.ShippingInfo) domain.ShippingInfo {
	return domain.ShippingInfo{
		Name:    strings.TrimSpace(info.Name),
		Email:   strings.TrimSpace(info.Email),
		Address: strings.TrimSpace(info.Address),
		City:    strings.TrimSpace(info.City),
		Phone:   strings.TrimSpace(info.Phone),
	}
}

// ValidateShipping checks the shipping form; fields are keyed by their JSON names
func ValidateShipping(info domain.ShippingInfo) error {
	form := shippingForm(normalizeShipping(info))
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "email":
			fields[name] = "invalid email"
		default:
			fields[name] = "required"
		}
	}
	return &errors.ErrValidation{Message: "invalid shipping information", Fields: fields}
}
