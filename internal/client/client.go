// Package client is a typed REST client for the job board API. Every call is
// a single request: nothing is retried, and a non-2xx reply becomes an *APIError
// carrying the server's message.
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
	"strconv"
	"strings"
	"time"

	"github.com/jobmaroc/jobboard/internal/accounts"
	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/models/dto"
	"github.com/jobmaroc/jobboard/internal/offers"
	"github.com/jobmaroc/jobboard/internal/session"
)

// DefaultTimeout bounds every request made with the default HTTP client.
const DefaultTimeout = 15 * time.Second

// listPageSize is the page size used when fetching the whole catalogue.
const listPageSize = 100

// APIError is a non-2xx reply.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one server. Set a token with SetToken before calling
// authenticated endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken presets the bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) { c.token = token }

// Signin exchanges credentials for a session. A non-accepted account fails
// with status 423.
func (c *Client) Signin(ctx context.Context, email, password string) (session.Session, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", dto.LoginRequest{Username: email, Password: password}, &out); err != nil {
		return session.Session{}, err
	}
	role, err := session.ParseRole(out.UserRole)
	if err != nil {
		return session.Session{}, err
	}
	c.token = out.JWTToken
	return session.Session{Token: out.JWTToken, Username: out.Username, Role: role}, nil
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// Offers fetches one server-side page of the catalogue.
func (c *Client) Offers(ctx context.Context, q offers.Query, page, size int) (dto.OfferPage, error) {
	v := q.Values()
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("page_size", strconv.Itoa(size))
	}
	var out dto.OfferPage
	err := c.do(ctx, http.MethodGet, "/api/offers?"+v.Encode(), nil, &out)
	return out, err
}

// AllOffers walks every page and returns the offers in server order.
// mine restricts the list to the calling manager's offers. An offer seen on
// an earlier page is skipped, since inserts between requests shift pages.
func (c *Client) AllOffers(ctx context.Context, mine bool) ([]models.Offer, error) {
	var all []models.Offer
	seen := make(map[int64]bool)
	for page := 1; ; page++ {
		v := url.Values{}
		v.Set("page", strconv.Itoa(page))
		v.Set("page_size", strconv.Itoa(listPageSize))
		if mine {
			v.Set("mine", "true")
		}
		var out dto.OfferPage
		if err := c.do(ctx, http.MethodGet, "/api/offers?"+v.Encode(), nil, &out); err != nil {
			return nil, err
		}
		for _, o := range out.Items {
			if !seen[o.ID] {
				seen[o.ID] = true
				all = append(all, o)
			}
		}
		if !out.HasNext() || len(out.Items) == 0 {
			return all, nil
		}
	}
}

func (c *Client) Offer(ctx context.Context, id int64) (models.Offer, error) {
	var out models.Offer
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/offers/%d", id), nil, &out)
	return out, err
}

func (c *Client) DeleteOffer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/offers/%d", id), nil, nil)
}

// Apply submits an application to offerID.
func (c *Client) Apply(ctx context.Context, req dto.ApplicationRequest) (models.Application, error) {
	var out models.Application
	err := c.do(ctx, http.MethodPost, "/api/applications", req, &out)
	return out, err
}

// MyApplications lists the calling talent's applications.
func (c *Client) MyApplications(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	err := c.do(ctx, http.MethodGet, "/api/applications/mine", nil, &out)
	return out, err
}

// ManagerApplications lists applications to the calling manager's offers.
func (c *Client) ManagerApplications(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	err := c.do(ctx, http.MethodGet, "/api/applications/manager", nil, &out)
	return out, err
}

func (c *Client) PendingUsers(ctx context.Context, q accounts.Query) ([]models.User, error) {
	return c.users(ctx, "/api/users/pending", q.Values())
}

// Users lists accounts. An empty role or status is not filtered on.
func (c *Client) Users(ctx context.Context, role session.Role, status models.AcceptanceStatus, q accounts.Query) ([]models.User, error) {
	v := q.Values()
	if role != "" {
		v.Set("role", string(role))
	}
	if status != "" {
		v.Set("status", string(status))
	}
	return c.users(ctx, "/api/users", v)
}

func (c *Client) users(ctx context.Context, path string, v url.Values) ([]models.User, error) {
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out []models.User
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// SetUserStatus approves or rejects an account.
func (c *Client) SetUserStatus(ctx context.Context, id int64, status models.AcceptanceStatus) (models.User, error) {
	var out models.User
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d/status", id), dto.StatusUpdateRequest{Status: string(status)}, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (dto.ProfileResponse, error) {
	var out dto.ProfileResponse
	err := c.do(ctx, http.MethodGet, "/api/profile", nil, &out)
	return out, err
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

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
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(env.Message)
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
