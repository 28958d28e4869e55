// Package client implements the HTTP API client used by the CLI to talk to
// the sharing server: registration, login, token refresh, snapshot publish
// and resolve. Transport failures map to ErrUnavailable, auth failures to
// ErrUnauthorized and missing snapshots to common.ErrorNotFound, so callers
// deal in sentinels instead of status codes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"territorykeeper/internal/common"
	"territorykeeper/internal/httpapi"
)

// Client is the remote API surface the CLI services depend on.
type Client interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) error
	Logout()
	Ping(ctx context.Context) error
	Publish(ctx context.Context, snapshot httpapi.Snapshot) (*httpapi.PublishResponse, error)
	ListShares(ctx context.Context) ([]httpapi.SnapshotListItem, error)
	Resolve(ctx context.Context, shareID string) (*httpapi.Snapshot, error)
	ExportURL(ctx context.Context, shareID string) (string, error)
	IsAuthenticated() bool
}

// HTTPClient is the concrete Client over net/http.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	accessToken  string
	refreshToken string
}

// NewHTTPClient returns a client for the API rooted at baseURL
// (e.g. "http://127.0.0.1:8080").
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) IsAuthenticated() bool {
	return c.accessToken != ""
}

// Logout drops the cached token pair.
func (c *HTTPClient) Logout() {
	c.accessToken = ""
	c.refreshToken = ""
}

// do sends one JSON request. When the server replies 401 and a refresh
// token is on hand, the token pair is refreshed once and the request is
// retried, mirroring an interceptor-style retry.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	err := c.doOnce(ctx, method, path, in, out, true)
	if !errors.Is(err, ErrUnauthorized) || c.refreshToken == "" {
		return err
	}

	if rerr := c.refresh(ctx); rerr != nil {
		return err
	}
	return c.doOnce(ctx, method, path, in, out, true)
}

func (c *HTTPClient) doOnce(ctx context.Context, method, path string, in, out any, withAuth bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if withAuth && c.accessToken != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+c.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode == http.StatusConflict:
		return common.ErrorAlreadyExists
	case resp.StatusCode >= 400:
		var apiErr httpapi.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s", apiErr.Error)
		}
		return fmt.Errorf("server: %s", resp.Status)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	var tokens httpapi.TokenPairResponse
	err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/refresh",
		httpapi.RefreshRequest{RefreshToken: c.refreshToken}, &tokens, false)
	if err != nil {
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) (string, error) {
	var resp httpapi.RegisterResponse
	err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/register",
		httpapi.RegisterRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return "", err
	}
	return resp.UserID, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	var tokens httpapi.TokenPairResponse
	err := c.doOnce(ctx, http.MethodPost, "/api/v1/auth/login",
		httpapi.LoginRequest{Email: email, Password: password}, &tokens, false)
	if err != nil {
		return err
	}
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp httpapi.PingResponse
	return c.doOnce(ctx, http.MethodGet, "/api/v1/ping", nil, &resp, false)
}

func (c *HTTPClient) Publish(ctx context.Context, snapshot httpapi.Snapshot) (*httpapi.PublishResponse, error) {
	var resp httpapi.PublishResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/snapshots",
		httpapi.PublishRequest{Record: snapshot}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListShares fetches the share codes the logged-in user has published,
// newest first.
func (c *HTTPClient) ListShares(ctx context.Context) ([]httpapi.SnapshotListItem, error) {
	var resp httpapi.SnapshotListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/snapshots", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Snapshots, nil
}

func (c *HTTPClient) Resolve(ctx context.Context, shareID string) (*httpapi.Snapshot, error) {
	var snap httpapi.Snapshot
	err := c.doOnce(ctx, http.MethodGet, "/api/v1/snapshots/"+shareID, nil, &snap, false)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *HTTPClient) ExportURL(ctx context.Context, shareID string) (string, error) {
	var resp httpapi.ExportResponse
	err := c.doOnce(ctx, http.MethodGet, "/api/v1/snapshots/"+shareID+"/export", nil, &resp, false)
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}
