package contentstore

import (
	"context"
	"fmt"

	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

// UserByID returns the user record for an auth provider ID, or (nil, nil)
func (c *Client) UserByID(ctx context.Context, uid string) (*domain.User, error) {
	doc, err := c.userDoc(ctx, uid)
	if err != nil || doc == nil {
		return nil, err
	}
	u := doc.toDomain()
	return &u, nil
}

// CreateUser stores the user record created at registration
func (c *Client) CreateUser(ctx context.Context, u domain.User) error {
	role := u.Role
	if !role.IsValid() {
		role = domain.RoleUser
	}
	_, err := c.Mutate(ctx, CreateMutation("user", map[string]interface{}{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  string(role),
	}))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetUserRole changes a user's role; the legacy isAdmin flag is rewritten to match
func (c *Client) SetUserRole(ctx context.Context, uid string, role domain.Role) error {
	if !role.IsValid() {
		return &errors.ErrValidation{Message: fmt.Sprintf("invalid role %q", role)}
	}
	doc, err := c.userDoc(ctx, uid)
	if err != nil {
		return err
	}
	if doc == nil {
		return &errors.ErrNotFound{Resource: "user", ID: uid}
	}
	_, err = c.Mutate(ctx, SetMutation(doc.DocID, map[string]interface{}{
		"role":    string(role),
		"isAdmin": role == domain.RoleAdmin,
	}))
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", uid, err)
	}
	return nil
}

func (c *Client) userDoc(ctx context.Context, uid string) (*userDoc, error) {
	var doc *userDoc
	if err := c.Query(ctx, UserByIDQuery, map[string]interface{}{"uid": uid}, &doc); err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return doc, nil
}
