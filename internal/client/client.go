// Package client is the Go API client for the partner service plus the
// sync cache that mirrors one list view after every acknowledged call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/models"
	"love-manager-backend/internal/timeline"
)

// DefaultTimeout bounds every request when no *http.Client is supplied
const DefaultTimeout = 10 * time.Second

// HTTPError is a non-2xx response. It matches the errs sentinel for its status.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return errs.ErrValidation
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return errs.ErrUnauthorized
	case e.StatusCode == http.StatusNotFound:
		return errs.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return errs.ErrConflict
	case e.StatusCode >= http.StatusInternalServerError:
		return errs.ErrTransport
	default:
		return nil
	}
}

// Client calls the partner REST API. Tokens are passed per call.
type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// New creates a client for baseURL. A nil httpClient gets DefaultTimeout.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{HTTP: httpClient, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

type registerResponse struct {
	Message string         `json:"message"`
	Partner models.Partner `json:"partner"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	in := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Logout revokes token
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
}

// ListPartners lists partners with status. Non-approved views need a token.
func (c *Client) ListPartners(ctx context.Context, token string, status models.Status) ([]models.Partner, error) {
	var out []models.Partner
	path := "/api/partners?status=" + url.QueryEscape(string(status))
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPending lists partners awaiting approval
func (c *Client) ListPending(ctx context.Context, token string) ([]models.Partner, error) {
	var out []models.Partner
	if err := c.doJSON(ctx, http.MethodGet, "/api/partners/pending", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPartner fetches one partner
func (c *Client) GetPartner(ctx context.Context, id string) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodGet, partnerPath(id), "", nil)
}

// Summary fetches the server-computed derived view
func (c *Client) Summary(ctx context.Context, id string) (timeline.Summary, error) {
	var out timeline.Summary
	if err := c.doJSON(ctx, http.MethodGet, partnerPath(id)+"/summary", "", nil, &out); err != nil {
		return timeline.Summary{}, err
	}
	return out, nil
}

// Register submits a public registration
func (c *Client) Register(ctx context.Context, req models.PartnerCreateRequest) (models.Partner, error) {
	var out registerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/partners/register", "", req, &out); err != nil {
		return models.Partner{}, err
	}
	return out.Partner, nil
}

// CreatePartner creates an approved partner
func (c *Client) CreatePartner(ctx context.Context, token string, req models.PartnerAdminCreateRequest) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodPost, "/api/partners", token, req)
}

// UpdatePartner applies a partial update
func (c *Client) UpdatePartner(ctx context.Context, token, id string, req models.PartnerUpdateRequest) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodPut, partnerPath(id), token, req)
}

// DeletePartner removes a partner
func (c *Client) DeletePartner(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, partnerPath(id), token, nil, nil)
}

// ToggleFavorite flips isFavorite
func (c *Client) ToggleFavorite(ctx context.Context, token, id string) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodPatch, partnerPath(id)+"/favorite", token, nil)
}

// Approve approves a partner
func (c *Client) Approve(ctx context.Context, token, id string) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodPatch, partnerPath(id)+"/approve", token, nil)
}

// Reject rejects a partner
func (c *Client) Reject(ctx context.Context, token, id string) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodPatch, partnerPath(id)+"/reject", token, nil)
}

// UpdateRating sets the rating
func (c *Client) UpdateRating(ctx context.Context, token, id string, rating int) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodPatch, partnerPath(id)+"/rating", token, models.RatingRequest{Rating: &rating})
}

// AddGift appends a gift
func (c *Client) AddGift(ctx context.Context, token, id string, gift models.Gift) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodPost, partnerPath(id)+"/gifts", token, gift)
}

// AddMemory appends a memory
func (c *Client) AddMemory(ctx context.Context, token, id string, memory models.Memory) (models.Partner, error) {
	return c.partnerCall(ctx, http.MethodPost, partnerPath(id)+"/memories", token, memory)
}

func (c *Client) partnerCall(ctx context.Context, method, path, token string, in any) (models.Partner, error) {
	var out models.Partner
	if err := c.doJSON(ctx, method, path, token, in, &out); err != nil {
		return models.Partner{}, err
	}
	return out, nil
}

func partnerPath(id string) string {
	return "/api/partners/" + url.PathEscape(id)
}

// doJSON sends in as JSON and decodes a 2xx body into out. Network failures
// match errs.ErrTransport; non-2xx responses become *HTTPError.
func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errs.Transport(method+" "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Transport("failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// IsTransport reports whether err means the server could not be reached
func IsTransport(err error) bool {
	return errors.Is(err, errs.ErrTransport)
}
