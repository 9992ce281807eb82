package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "product not found: chair", (&ErrNotFound{Resource: "product", ID: "chair"}).Error())
	assert.Equal(t, "unauthorized", (&ErrUnauthorized{}).Error())
	assert.Equal(t, "email already in use", (&ErrConflict{Message: "email already in use"}).Error())
	assert.Equal(t, "validation failed", (&ErrValidation{}).Error())
	assert.Equal(t, "invalid state transition from submitting to submitting",
		(&ErrInvalidStateTransition{From: "submitting", To: "submitting"}).Error())
}

func TestHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("fetch product: %w", &ErrNotFound{Resource: "product", ID: "x"})
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))

	v, ok := AsValidation(fmt.Errorf("checkout: %w", &ErrValidation{Fields: map[string]string{"address": "required"}}))
	assert.True(t, ok)
	assert.Equal(t, "required", v.Fields["address"])

	assert.True(t, IsUnauthorized(fmt.Errorf("x: %w", &ErrUnauthorized{Message: "no"})))
	assert.True(t, IsInvalidStateTransition(&ErrInvalidStateTransition{}))
}
