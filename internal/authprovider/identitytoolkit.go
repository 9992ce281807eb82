package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/luxeshop/storefront/pkg/errors"
)

// DefaultIdentityToolkitURL is the public identity-toolkit REST endpoint
const DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

// IdentityToolkit calls the identity-toolkit REST API with a project API key
type IdentityToolkit struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewIdentityToolkit creates an identity-toolkit client
func NewIdentityToolkit(baseURL, apiKey string, logger *zap.Logger) *IdentityToolkit {
	if logger == nil {
		logger = zap.NewNop()
	}
	if baseURL == "" {
		baseURL = DefaultIdentityToolkitURL
	}
	return &IdentityToolkit{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type passwordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type toolkitError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn verifies an email/password pair
func (c *IdentityToolkit) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return c.call(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp creates an account
func (c *IdentityToolkit) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	return c.call(ctx, "accounts:signUp", email, password)
}

func (c *IdentityToolkit) call(ctx context.Context, method, email, password string) (*Identity, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("identity toolkit not configured: API key required")
	}

	u, err := url.Parse(c.baseURL + "/" + method)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", c.apiKey)
	u.RawQuery = q.Encode()

	payload, err := json.Marshal(passwordRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Identity toolkit request failed", zap.Error(err), zap.String("method", method))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var tkErr toolkitError
		if json.Unmarshal(body, &tkErr) == nil && tkErr.Error.Message != "" {
			return nil, mapToolkitError(tkErr.Error.Message)
		}
		return nil, fmt.Errorf("identity toolkit returned %d: %s", resp.StatusCode, string(body))
	}

	var account accountResponse
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if account.LocalID == "" {
		return nil, fmt.Errorf("identity toolkit returned no user id")
	}
	if account.Email == "" {
		account.Email = email
	}
	return &Identity{UID: account.LocalID, Email: account.Email}, nil
}

// mapToolkitError turns provider codes such as "WEAK_PASSWORD : ..." into typed errors
func mapToolkitError(message string) error {
	code := strings.TrimSpace(strings.SplitN(message, ":", 2)[0])
	switch code {
	case "INVALID_LOGIN_CREDENTIALS", "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "USER_DISABLED", "INVALID_EMAIL":
		return &errors.ErrUnauthorized{Message: MsgInvalidCredential}
	case "EMAIL_EXISTS":
		return &errors.ErrConflict{Message: MsgEmailInUse}
	case "WEAK_PASSWORD":
		return &errors.ErrValidation{
			Message: "password is too weak",
			Fields:  map[string]string{"password": "must be at least 6 characters"},
		}
	default:
		return fmt.Errorf("identity toolkit error: %s", message)
	}
}
