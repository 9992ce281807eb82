package authprovider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/luxeshop/storefront/internal/config"
	"github.com/luxeshop/storefront/internal/domain"
	"github.com/luxeshop/storefront/pkg/errors"
)

type fakeCredentials struct {
	mu    sync.Mutex
	byKey map[string]*domain.Credential
}

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{byKey: map[string]*domain.Credential{}}
}

func (f *fakeCredentials) GetByEmail(_ context.Context, email string) (*domain.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byKey[strings.ToLower(email)]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "credential", ID: email}
	}
	return c, nil
}

func (f *fakeCredentials) Create(_ context.Context, cred *domain.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byKey[cred.Email]; ok {
		return &errors.ErrConflict{Message: "duplicate"}
	}
	cred.UserID = uuid.New()
	f.byKey[cred.Email] = cred
	return nil
}

func TestLocalProvider(t *testing.T) {
	ctx := context.Background()
	p := NewLocal(newFakeCredentials(), nil)
	p.cost = bcrypt.MinCost

	id, err := p.SignUp(ctx, "Jane@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", id.Email)
	assert.NotEmpty(t, id.UID)

	_, err = p.SignUp(ctx, "jane@example.com", "other12")
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	assert.Equal(t, MsgEmailInUse, err.Error())

	signed, err := p.SignIn(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, id.UID, signed.UID)

	_, err = p.SignIn(ctx, "jane@example.com", "wrong")
	assert.True(t, errors.IsUnauthorized(err))

	_, err = p.SignIn(ctx, "nobody@example.com", "secret1")
	assert.True(t, errors.IsUnauthorized(err))
}

func TestIdentityToolkit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-1", r.URL.Query().Get("key"))
		var req passwordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.ReturnSecureToken)

		switch {
		case r.URL.Path == "/accounts:signInWithPassword" && req.Password == "secret1":
			_, _ = io.WriteString(w, `{"localId":"uid-1","email":"jane@example.com","idToken":"tok"}`)
		case r.URL.Path == "/accounts:signInWithPassword":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`)
		case r.URL.Path == "/accounts:signUp" && req.Password == "short":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`)
		case r.URL.Path == "/accounts:signUp":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"EMAIL_EXISTS"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p := NewIdentityToolkit(srv.URL, "key-1", nil)
	ctx := context.Background()

	id, err := p.SignIn(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.UID)

	_, err = p.SignIn(ctx, "jane@example.com", "bad")
	assert.True(t, errors.IsUnauthorized(err))

	_, err = p.SignUp(ctx, "jane@example.com", "secret1")
	assert.True(t, errors.IsConflict(err))

	_, err = p.SignUp(ctx, "jane@example.com", "short")
	verr, ok := errors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "password")
}

func TestNew(t *testing.T) {
	p, err := New(config.AuthConfig{Provider: config.AuthProviderIdentityToolkit, APIKey: "k"}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &IdentityToolkit{}, p)

	_, err = New(config.AuthConfig{Provider: config.AuthProviderLocal}, nil, nil)
	assert.Error(t, err)

	p, err = New(config.AuthConfig{Provider: config.AuthProviderLocal}, newFakeCredentials(), nil)
	require.NoError(t, err)
	assert.IsType(t, &Local{}, p)

	_, err = New(config.AuthConfig{Provider: "ldap"}, nil, nil)
	assert.Error(t, err)
}
