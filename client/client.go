package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/habedi/suds/auth"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://yourlaundry.pythonanywhere.com/api"

const defaultTimeout = 30 * time.Second

// Request describes one logical API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is a successful (2xx) API response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		log.Error().Err(err).Str("body_preview", truncate(string(r.Body), 200)).Msg("Failed to parse response JSON")
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Client is the authenticated request pipeline plus the typed API groups
// built on it. It is safe for concurrent use.
type Client struct {
	BaseURL     string
	HTTPClient  *http.Client
	Store       auth.CredentialStore
	Coordinator *auth.Coordinator
	Limiter     *RateLimiter

	Auth      *Authenticator
	Customers *CustomersAPI
	Services  *ServicesAPI
	Orders    *OrdersAPI
	Payments  *PaymentsAPI
	Inventory *InventoryAPI
	Staff     *StaffAPI
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// WithTimeout sets the transport timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.HTTPClient.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests per second; 0 disables the limit.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) { c.Limiter = NewRateLimiter(perSecond) }
}

// New creates a client for baseURL whose credentials live in store. The
// client owns one refresh coordinator shared by all of its requests.
func New(baseURL string, store auth.CredentialStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: defaultTimeout},
		Store:      store,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &Authenticator{c: c}
	c.Coordinator = auth.NewCoordinator(store, c.Auth)
	c.Customers = &CustomersAPI{crud[Customer]{c: c, path: "/clients/"}}
	c.Services = &ServicesAPI{crud[Service]{c: c, path: "/services/"}}
	c.Orders = &OrdersAPI{crud[Order]{c: c, path: "/orders/"}}
	c.Payments = &PaymentsAPI{crud[Payment]{c: c, path: "/payments/"}}
	c.Inventory = &InventoryAPI{crud[InventoryItem]{c: c, path: "/inventory/"}}
	c.Staff = &StaffAPI{crud[StaffMember]{c: c, path: "/staff/"}}
	return c
}

// Execute sends req with the stored access credential. A 401 triggers one
// refresh through the coordinator and one replay of the same request; a 401
// on the replay is returned as an *APIError. A failed refresh is returned as
// auth.ErrSessionExpired. Transport errors are returned as is.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	requestID := uuid.NewString()

	access, err := c.currentAccess()
	if err != nil {
		return nil, err
	}

	resp, err := c.dispatch(ctx, req, payload, access, requestID)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Debug().Str("path", req.Path).Str("request_id", requestID).Msg("Request unauthorized, acquiring a fresh access token")
		fresh, err := c.Coordinator.Acquire(ctx, access)
		if err != nil {
			return nil, err
		}
		resp, err = c.dispatch(ctx, req, payload, fresh, requestID)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(req.Method, req.Path, resp)
		log.Debug().Int("status", resp.StatusCode).Str("path", req.Path).Str("request_id", requestID).Msg("HTTP request returned non-OK status")
		return nil, apiErr
	}
	return resp, nil
}

// send dispatches req once without the refresh path. Used for the
// authentication endpoints, whose 401 means bad credentials.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	payload, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}
	resp, err := c.dispatch(ctx, req, payload, "", uuid.NewString())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(req.Method, req.Path, resp)
	}
	return resp, nil
}

func (c *Client) currentAccess() (string, error) {
	if c.Store == nil {
		return "", nil
	}
	creds, err := c.Store.Get()
	if err != nil {
		return "", fmt.Errorf("failed to read stored credentials: %w", err)
	}
	if creds == nil {
		return "", nil
	}
	return creds.Access, nil
}

func (c *Client) dispatch(ctx context.Context, req *Request, payload []byte, access, requestID string) (*Response, error) {
	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	urlStr, err := buildURL(c.BaseURL, req.Path, req.Query)
	if err != nil {
		return nil, err
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := createRequest(ctx, method, urlStr, payload, access, requestID)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("method", method).Str("url", urlStr).Str("request_id", requestID).Bool("auth", access != "").Msg("Sending HTTP request")
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		log.Error().Err(err).Str("method", method).Str("url", urlStr).Msg("HTTP request failed")
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer closeResponseBody(resp)

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body, RequestID: requestID}, nil
}
