package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
)

// ErrUnauthenticated reports that no server session exists for the ambient
// credential.
var ErrUnauthenticated = errors.New("not authenticated")

// APIError is a rejection the server explained with a message, such as bad
// credentials or a duplicate registration.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// errorMessage extracts the server-supplied message from err, falling back
// to the given generic message for transport failures.
func errorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client implements AuthAPI against the conference REST API. A cookie jar
// carries the session credential, so the credential stays opaque: the client
// never reads or stores it explicitly.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a Client for the API at baseURL. Request deadlines come
// from the caller's context; no timeout is imposed here.
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Jar: jar},
	}, nil
}

type userEnvelope struct {
	User *User `json:"user"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}

// Me calls GET /auth/me and returns the session's user, or
// ErrUnauthenticated when the server rejects the ambient credential.
func (c *Client) Me(ctx context.Context) (*User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthenticated
	}
	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return &user, nil
}

// Login calls POST /auth/login. The response sets the session cookie in the
// jar as a side effect.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	return c.postForUser(ctx, "/auth/login", body, http.StatusOK)
}

// Register calls POST /auth/register, which creates the account and
// establishes a session in one step.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*User, error) {
	return c.postForUser(ctx, "/auth/register", in, http.StatusCreated)
}

// Logout calls POST /auth/logout. The server clears the cookie; any error is
// returned for the caller to log.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/auth/logout", nil)
	if err != nil {
		return err
	}
	defer drain(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	return nil
}

func (c *Client) postForUser(ctx context.Context, path string, body any, wantStatus int) (*User, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer drain(resp.Body)

	if resp.StatusCode != wantStatus {
		return nil, readAPIError(resp)
	}

	var env userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	if env.User == nil {
		return nil, errors.New("response missing user")
	}
	return env.User, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpc.Do(req)
}

func readAPIError(resp *http.Response) error {
	var env messageEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
