// Package contentstore is the HTTP client for the headless content store that
// owns products, categories, users and orders. Reads use the query endpoint
// (optionally through the CDN) with the read token; writes go through the
// mutate and asset endpoints with the write token.
package contentstore

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

	"github.com/luxeshop/storefront/internal/config"
)

type Client struct {
	queryBase  string
	apiBase    string
	dataset    string
	readToken  string
	writeToken string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new content store client
func NewClient(cfg config.ContentStoreConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	version := strings.TrimPrefix(cfg.APIVersion, "v")
	if version == "" {
		version = "2023-10-01"
	}

	var queryBase, apiBase string
	if cfg.BaseURL != "" {
		base := strings.TrimSuffix(cfg.BaseURL, "/")
		queryBase = fmt.Sprintf("%s/v%s", base, version)
		apiBase = queryBase
	} else {
		apiBase = fmt.Sprintf("https://%s.api.sanity.io/v%s", cfg.ProjectID, version)
		queryBase = apiBase
		if cfg.UseCDN {
			queryBase = fmt.Sprintf("https://%s.apicdn.sanity.io/v%s", cfg.ProjectID, version)
		}
	}

	return &Client{
		queryBase:  queryBase,
		apiBase:    apiBase,
		dataset:    cfg.Dataset,
		readToken:  cfg.ReadToken,
		writeToken: cfg.WriteToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// QueryResponse is the envelope returned by the query endpoint
type QueryResponse struct {
	Result json.RawMessage `json:"result"`
	Ms     int             `json:"ms"`
}

// APIError is the error body returned by the content store
type APIError struct {
	StatusCode  int
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("content store error: status %d: %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("content store error: status %d", e.StatusCode)
}

// Query runs a query with $-parameters and decodes the result into out
func (c *Client) Query(ctx context.Context, query string, params map[string]interface{}, out interface{}) error {
	u, err := url.Parse(fmt.Sprintf("%s/data/query/%s", c.queryBase, c.dataset))
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode param %s: %w", name, err)
		}
		q.Set("$"+name, string(encoded))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.readToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.readToken)
	}

	body, err := c.do(req)
	if err != nil {
		return err
	}

	var qr QueryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out == nil || len(qr.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(qr.Result, out); err != nil {
		return fmt.Errorf("failed to decode query result: %w", err)
	}
	return nil
}

// Mutate commits mutations in one transaction and returns the affected documents
func (c *Client) Mutate(ctx context.Context, mutations ...Mutation) (*MutateResponse, error) {
	if c.writeToken == "" {
		return nil, fmt.Errorf("content store write token not configured")
	}

	payload, err := json.Marshal(MutateRequest{Mutations: mutations})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/data/mutate/%s?returnIds=true&returnDocuments=true&visibility=sync", c.apiBase, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.writeToken)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var mr MutateResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &mr, nil
}

// Asset is an uploaded image asset
type Asset struct {
	ID  string `json:"_id"`
	URL string `json:"url"`
}

// UploadImage stores an image asset and returns its reference
func (c *Client) UploadImage(ctx context.Context, filename, contentType string, data io.Reader) (*Asset, error) {
	if c.writeToken == "" {
		return nil, fmt.Errorf("content store write token not configured")
	}

	u, err := url.Parse(fmt.Sprintf("%s/assets/images/%s", c.apiBase, c.dataset))
	if err != nil {
		return nil, err
	}
	if filename != "" {
		q := u.Query()
		q.Set("filename", filename)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.writeToken)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var out struct {
		Document Asset `json:"document"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if out.Document.ID == "" {
		return nil, fmt.Errorf("content store returned no asset id")
	}
	return &out.Document, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Content store request failed", zap.Error(err), zap.String("path", req.URL.Path))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error *APIError `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
			apiErr.Type = envelope.Error.Type
			apiErr.Description = envelope.Error.Description
		} else {
			apiErr.Description = strings.TrimSpace(string(body))
		}
		return nil, apiErr
	}

	return body, nil
}
