// Package api is a thin typed client for the Dearie REST backend. It holds
// two configured senders: a public one for unauthenticated endpoints and a
// token-bearing one that attaches the caller's access token and silently
// reissues it on expiry.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/dearie-app/deariebot/internal/domain"
)

// Error is an application-level failure reported through the response
// envelope.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (%s, http %d)", e.Message, e.Code, e.Status)
}

// UserMessage returns the backend-provided message when present, otherwise
// a generic fallback suitable for display.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}

// IsTokenExpired reports whether err is the backend's access-token expiry
// signal.
func IsTokenExpired(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && isExpiryCode(apiErr.Code)
}

type envelope struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Client is the public (unauthenticated) sender.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends one request and decodes the envelope. contentType is empty for
// JSON bodies; multipart payloads pass the boundary content type through so
// no JSON header is applied to them.
func (c *Client) do(ctx context.Context, method, path, contentType string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: http %d: parse envelope: %w", method, path, resp.StatusCode, err)
	}

	if env.Code != CodeSuccess {
		return &Error{Code: env.Code, Message: env.Message, Status: resp.StatusCode}
	}

	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("parse result: %w", err)
		}
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}
	return c.do(ctx, method, path, "", payload, out)
}

// TokenSource supplies and persists bearer credentials for the authorized
// sender. The session store is the only implementation outside tests.
type TokenSource interface {
	AccessToken(ctx context.Context, userID int64) (string, error)
	RefreshToken(ctx context.Context, userID int64) (string, error)
	SetTokens(ctx context.Context, userID int64, access, refresh string) error
	// Terminate logs the user out after a failed reissue; the application
	// root reacts to it by prompting for a fresh login.
	Terminate(ctx context.Context, userID int64) error
}

// AuthClient is the token-bearing sender. Requests are issued on behalf of
// a specific user; when the backend signals token expiry the client redeems
// the refresh token once and re-issues the original request with the new
// bearer. Concurrent expiry detections for the same user share a single
// in-flight reissue.
type AuthClient struct {
	pub     *Client
	tokens  TokenSource
	reissue singleflight.Group
}

func NewAuthClient(pub *Client, tokens TokenSource) *AuthClient {
	return &AuthClient{pub: pub, tokens: tokens}
}

func (c *AuthClient) do(ctx context.Context, userID int64, method, path, contentType string, payload []byte, out any) error {
	access, err := c.tokens.AccessToken(ctx, userID)
	if err != nil {
		return err
	}
	if access == "" {
		return domain.ErrNotLoggedIn
	}

	err = c.send(ctx, method, path, contentType, payload, access, out)
	if !IsTokenExpired(err) {
		return err
	}

	newAccess, rerr := c.refreshTokens(ctx, userID)
	if rerr != nil {
		return rerr
	}

	// Exactly one retry; its outcome is returned unchanged either way.
	return c.send(ctx, method, path, contentType, payload, newAccess, out)
}

func (c *AuthClient) doJSON(ctx context.Context, userID int64, method, path string, in, out any) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}
	return c.do(ctx, userID, method, path, "", payload, out)
}

func (c *AuthClient) send(ctx context.Context, method, path, contentType string, payload []byte, access string, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.pub.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+access)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.pub.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: http %d: parse envelope: %w", method, path, resp.StatusCode, err)
	}

	if env.Code != CodeSuccess {
		return &Error{Code: env.Code, Message: env.Message, Status: resp.StatusCode}
	}

	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return fmt.Errorf("parse result: %w", err)
		}
	}
	return nil
}

// refreshTokens redeems the user's refresh token for a new pair. At most
// one reissue call is in flight per user; concurrent callers wait for it
// and share the outcome. Terminal failure logs the session out before
// propagating the reissue error.
func (c *AuthClient) refreshTokens(ctx context.Context, userID int64) (string, error) {
	// The reissue is shared by every coalesced caller, so it must not die
	// with whichever request happened to start it. The HTTP client timeout
	// still bounds it.
	ctx = context.WithoutCancel(ctx)
	v, err, _ := c.reissue.Do(strconv.FormatInt(userID, 10), func() (any, error) {
		refresh, err := c.tokens.RefreshToken(ctx, userID)
		if err != nil {
			return nil, err
		}
		if refresh == "" {
			c.terminate(ctx, userID)
			return nil, domain.ErrNotLoggedIn
		}

		pair, err := c.pub.Reissue(ctx, refresh)
		if err != nil {
			c.terminate(ctx, userID)
			return nil, fmt.Errorf("reissue tokens: %w", err)
		}

		if err := c.tokens.SetTokens(ctx, userID, pair.AccessToken, pair.RefreshToken); err != nil {
			return nil, fmt.Errorf("store reissued tokens: %w", err)
		}

		slog.Debug("access token reissued", "user_id", userID)
		return pair.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *AuthClient) terminate(ctx context.Context, userID int64) {
	if err := c.tokens.Terminate(ctx, userID); err != nil {
		slog.Error("terminate session", "error", err, "user_id", userID)
	}
}
