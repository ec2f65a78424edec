package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/jrsteele09/dental-session-client/internal/errors"
	"github.com/jrsteele09/dental-session-client/sessions"
	"github.com/jrsteele09/dental-session-client/users"
)

const (
	contentTypeJSON = "application/json"
	headerRequestID = "X-Request-ID"
	defaultAgent    = "dental-session-client"
)

// SessionManager is the part of sessions.Manager the client depends on.
type SessionManager interface {
	Session() sessions.Session
	Login(accessToken, refreshToken string, user users.Profile) error
	UpdateTokens(accessToken, refreshToken string) error
	Logout()
}

var _ SessionManager = (*sessions.Manager)(nil)

// Request describes one call to the marketplace API.
type Request struct {
	Method string
	Path   string
	Body   any        // JSON-encoded when non-nil
	Query  url.Values // Appended to the path
}

// Client sends authenticated requests to the marketplace API. Every call
// other than login goes through Do, which attaches the bearer token and
// performs at most one refresh-and-retry when the token is rejected.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	sessions  SessionManager

	refreshGroup singleflight.Group

	subscribersLock sync.RWMutex
	subscribers     map[int]func(error)
	nextSubscriber  int
}

type Option func(*Client)

// WithHTTPClient replaces the default transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every round trip made by the client, including one
// supplied through WithHTTPClient in any order.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent != "" {
			c.userAgent = agent
		}
	}
}

// New creates a client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, sm SessionManager, opts ...Option) (*Client, error) {
	if sm == nil {
		return nil, fmt.Errorf("[apiclient New] nil session manager: %w", errors.ErrConfiguration)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[apiclient New] invalid base URL %q: %w", baseURL, errors.ErrConfiguration)
	}

	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{},
		userAgent:   defaultAgent,
		sessions:    sm,
		subscribers: make(map[int]func(error)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// OnAuthExpired registers fn to be called whenever a call fails with an
// AuthExpiredError. Navigation back to the login view belongs in fn.
// The returned func removes the subscription.
func (c *Client) OnAuthExpired(fn func(error)) func() {
	c.subscribersLock.Lock()
	defer c.subscribersLock.Unlock()

	id := c.nextSubscriber
	c.nextSubscriber++
	c.subscribers[id] = fn
	return func() {
		c.subscribersLock.Lock()
		defer c.subscribersLock.Unlock()
		delete(c.subscribers, id)
	}
}

// Do sends req with the current access token and decodes a 2xx JSON body
// into out (which may be nil).
//
// A 401 triggers one refresh cycle followed by one retry. Failures are
// returned as *AuthExpiredError, *RequestFailedError or *NetworkError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	sentWith := c.sessions.Session().AccessToken
	resp, err := c.send(ctx, req, sentWith)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized {
		token, err := c.refresh(ctx, sentWith)
		if err != nil {
			return err
		}
		if resp, err = c.send(ctx, req, token); err != nil {
			return err
		}
		if resp.status == http.StatusUnauthorized {
			return c.expire(errRetryUnauthorized)
		}
	}

	return resp.decode(out)
}

// Get is shorthand for a GET through Do.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

type response struct {
	status int
	body   []byte
}

func (r *response) decode(out any) error {
	if r.status < 200 || r.status > 299 {
		return newRequestFailed(r.status, r.body, "")
	}
	if out == nil || len(bytes.TrimSpace(r.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.body, out); err != nil {
		return fmt.Errorf("[apiclient decode] %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req Request, accessToken string) (*response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if accessToken != "" {
		(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	requestID := httpReq.Header.Get(headerRequestID)
	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Str("method", httpReq.Method).Str("path", req.Path).Msg("request failed")
		return nil, &NetworkError{Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	log.Debug().
		Str("request_id", requestID).
		Str("method", httpReq.Method).
		Str("path", req.Path).
		Int("status", httpResp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api call")

	return &response{status: httpResp.StatusCode, body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("[apiclient newRequest] encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("[apiclient newRequest] %w", err)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(headerRequestID, uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}
	return httpReq, nil
}

// expire tears the session down and reports the failure to subscribers.
func (c *Client) expire(cause error) error {
	c.sessions.Logout()
	err := &AuthExpiredError{Cause: cause}
	log.Warn().Err(cause).Msg("authentication expired")

	c.subscribersLock.RLock()
	subscribers := make([]func(error), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.subscribersLock.RUnlock()

	for _, fn := range subscribers {
		fn(err)
	}
	return err
}
