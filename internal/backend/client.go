// Package backend is the typed client for the gitswitchd command and
// event surface. It holds no local state: commands mutate daemon truth
// only, and callers reconcile the store afterwards.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/gitswitch/internal/model"
)

// Client communicates with the gitswitchd HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the daemon at baseURL.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With().Str("component", "backend-client").Logger(),
	}
}

// ListAccounts fetches all known accounts in server order.
func (c *Client) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if err := c.getJSON(ctx, "/api/v1/accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetCurrentUser fetches the active account, or nil when none is active.
func (c *Client) GetCurrentUser(ctx context.Context) (*model.Account, error) {
	var account *model.Account
	if err := c.getJSON(ctx, "/api/v1/accounts/current", &account); err != nil {
		return nil, err
	}
	return account, nil
}

// AddAccount registers a new identity. The daemon rejects duplicate
// emails; no pre-check happens here.
func (c *Client) AddAccount(ctx context.Context, name, email string) error {
	payload := struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}{Name: name, Email: email}
	return c.send(ctx, http.MethodPost, "/api/v1/accounts", payload)
}

// RemoveAccount deletes the account with the given email.
func (c *Client) RemoveAccount(ctx context.Context, email string) error {
	return c.send(ctx, http.MethodDelete, accountPath(email), nil)
}

// RemoveAllAccounts deletes every account.
func (c *Client) RemoveAllAccounts(ctx context.Context) error {
	return c.send(ctx, http.MethodDelete, "/api/v1/accounts", nil)
}

// SwitchAccount activates the identity with the given email. Success
// does not update any local state; callers refresh afterwards.
func (c *Client) SwitchAccount(ctx context.Context, email string) error {
	return c.send(ctx, http.MethodPost, accountPath(email)+"/activate", nil)
}

// GetSSHKey fetches the public key for an account. Failure is expected
// to be non-fatal for callers.
func (c *Client) GetSSHKey(ctx context.Context, email string) (string, error) {
	var out struct {
		PublicKey string `json:"public_key"`
	}
	if err := c.getJSON(ctx, accountPath(email)+"/ssh-key", &out); err != nil {
		return "", err
	}
	return out.PublicKey, nil
}

func accountPath(email string) string {
	return "/api/v1/accounts/" + url.PathEscape(email)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &Error{Message: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.responseError(http.MethodGet, path, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &Error{Message: fmt.Sprintf("marshal request: %v", err)}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.responseError(method, path, resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// responseError extracts the daemon's error message from a failed
// response, falling back to the HTTP status.
func (c *Client) responseError(method, path string, resp *http.Response) *Error {
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Msg("backend command failed")

	data, _ := io.ReadAll(resp.Body)
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return &Error{Message: body.Error}
	}
	return &Error{Message: fmt.Sprintf("backend returned %s", resp.Status)}
}
