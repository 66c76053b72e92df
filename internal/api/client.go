package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HeaderCorrelationID tags every outbound request so backend logs can be
// matched to a client session.
const HeaderCorrelationID = "X-Correlation-ID"

// ErrSessionExpired is returned when a 401 could not be recovered by a token
// refresh. The stored tokens are already cleared when this surfaces; the
// caller should send the user back to login.
var ErrSessionExpired = errors.New("session expired, login required")

// TokenStore holds the access/refresh token pair across requests. The SQLite
// store implements it for persistence; MemoryTokenStore serves tests and
// one-shot commands.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetTokens(access, refresh string) error
	Clear() error
}

// MemoryTokenStore is an in-process TokenStore.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

func (s *MemoryTokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryTokenStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryTokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = access, refresh
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
	return nil
}

// APIError is a non-2xx backend response.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Client is the typed client for the ordering backend. All resource methods
// (auth, menu, cart, orders, staff) hang off it.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  TokenStore
	log     *zap.Logger
}

// NewClient builds a backend client. tokens may be nil for anonymous use
// (menu browsing only).
func NewClient(baseURL string, timeout time.Duration, tokens TokenStore, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url %q: %w", baseURL, err)
	}
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}, nil
}

// Tokens exposes the underlying token store.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// do performs one request against the backend, decoding the JSON response
// into out when out is non-nil. A 401 triggers exactly one token refresh and
// retry; a failed refresh clears the stored tokens and yields
// ErrSessionExpired.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, query, body, true)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if err := c.refresh(ctx); err != nil {
			return err
		}

		resp, err = c.send(ctx, method, path, query, body, true)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// send builds and executes a single HTTP request.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body interface{}, authed bool) (*http.Response, error) {
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	u := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderCorrelationID, uuid.NewString())
	if authed {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	return resp, nil
}

// refresh exchanges the stored refresh token for a new pair. Failure is
// terminal for the session: tokens are cleared and ErrSessionExpired returned.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return ErrSessionExpired
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/auth/refresh",
		nil, map[string]string{"refreshToken": refreshToken}, false)
	if err != nil {
		return fmt.Errorf("token refresh failed: %w", err)
	}
	defer resp.Body.Close()

	var pair struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeResponse(resp, &pair); err != nil || pair.AccessToken == "" {
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.log.Warn("failed to clear tokens after refresh failure", zap.Error(clearErr))
		}
		c.log.Info("token refresh rejected, session closed")
		return ErrSessionExpired
	}

	// Some backend revisions rotate only the access token.
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	if err := c.tokens.SetTokens(pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("failed to persist refreshed tokens: %w", err)
	}
	c.log.Debug("access token refreshed")
	return nil
}

// decodeResponse maps the response onto out, turning non-2xx statuses into
// *APIError.
func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(data))
		}
		return apiErr
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
