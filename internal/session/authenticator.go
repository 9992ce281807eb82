package session

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/authprovider"
	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

// MsgNotAdmin is returned when a non-admin uses the admin sign-in
const MsgNotAdmin = "You do not have admin privileges"

// UserDirectory is the user side of the content store
type UserDirectory interface {
	UserByID(ctx context.Context, uid string) (*domain.User, error)
	CreateUser(ctx context.Context, u domain.User) error
}

// LoginForm is the sign-in form
type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterForm is the registration form
type RegisterForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

var validate = validator.New()

// Authenticator verifies credentials and starts sessions
type Authenticator struct {
	provider authprovider.Provider
	users    UserDirectory
	logger   *zap.Logger
}

// NewAuthenticator creates an authenticator
func NewAuthenticator(provider authprovider.Provider, users UserDirectory, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authenticator{provider: provider, users: users, logger: logger}
}

// SignIn verifies the credentials and logs the profile into sess
func (a *Authenticator) SignIn(ctx context.Context, sess *Session, form LoginForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	user, _, err := a.resolve(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}
	if err := sess.Login(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// AdminSignIn is SignIn restricted to admins. A non-admin is logged out and rejected.
func (a *Authenticator) AdminSignIn(ctx context.Context, sess *Session, form LoginForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	user, found, err := a.resolve(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}
	if !found || !user.IsAdmin() {
		a.logger.Warn("Admin sign-in rejected", zap.String("user_id", user.ID))
		if err := sess.Logout(ctx); err != nil {
			a.logger.Error("Failed to clear session", zap.Error(err))
		}
		return nil, &errors.ErrUnauthorized{Message: MsgNotAdmin}
	}
	if err := sess.Login(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates the account and its user record, then logs it in
func (a *Authenticator) Register(ctx context.Context, sess *Session, form RegisterForm) (*domain.User, error) {
	form.Email = strings.TrimSpace(form.Email)
	form.Name = strings.TrimSpace(form.Name)
	if err := validateForm(form); err != nil {
		return nil, err
	}

	identity, err := a.provider.SignUp(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		ID:    identity.UID,
		Name:  form.Name,
		Email: identity.Email,
		Role:  domain.RoleUser,
	}
	if err := a.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	if err := sess.Login(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// resolve signs in with the provider and merges the stored profile.
// found reports whether a profile record exists.
func (a *Authenticator) resolve(ctx context.Context, email, password string) (*domain.User, bool, error) {
	identity, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, false, err
	}

	record, err := a.users.UserByID(ctx, identity.UID)
	if err != nil {
		return nil, false, err
	}

	user := &domain.User{ID: identity.UID, Email: identity.Email, Role: domain.RoleUser}
	if record == nil {
		return user, false, nil
	}
	user.Name = record.Name
	user.Role = record.Role
	if record.Email != "" {
		user.Email = record.Email
	}
	return user, true, nil
}

func validateForm(form interface{}) error {
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
		fields[jsonName(fe.Field())] = fieldMessage(fe)
	}
	return &errors.ErrValidation{Message: "invalid form", Fields: fields}
}

func jsonName(field string) string {
	if field == "ConfirmPassword" {
		return "confirm_password"
	}
	return strings.ToLower(field)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "invalid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "eqfield":
		return "passwords do not match"
	default:
		return "required"
	}
}
