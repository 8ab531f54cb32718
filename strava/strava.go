// Package strava binds the Strava v3 REST API.
//
// An API holds the application credentials and serves the endpoints that
// authenticate with them: the OAuth token endpoint and push subscriptions.
// Athlete data is read through a Client, obtained from API.Authenticated with
// an oauth2.TokenSource for the athlete.
package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const (
	baseURL  = "https://www.strava.com/api/v3"
	oauthURL = "https://www.strava.com/oauth"
)

// Logger receives error and diagnostic lines.
type Logger interface {
	Printf(format string, args ...any)
}

type API struct {
	client       *http.Client
	baseURL      string
	oauthURL     string
	clientID     int
	clientSecret string
	logger       Logger
	limits       *RateLimit
}

type Option func(*API)

// WithHTTPClient sets the HTTP client requests are sent with. Its transport is
// wrapped to record rate limit usage.
func WithHTTPClient(client *http.Client) Option {
	return func(a *API) {
		a.client = client
	}
}

// WithBaseURL overrides the REST API root, https://www.strava.com/api/v3.
func WithBaseURL(u string) Option {
	return func(a *API) {
		a.baseURL = strings.TrimRight(u, "/")
	}
}

// WithOAuthURL overrides the OAuth root, https://www.strava.com/oauth.
func WithOAuthURL(u string) Option {
	return func(a *API) {
		a.oauthURL = strings.TrimRight(u, "/")
	}
}

func WithLogger(logger Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

func NewAPI(clientID int, clientSecret string, opts ...Option) *API {
	a := &API{
		client:       &http.Client{},
		baseURL:      baseURL,
		oauthURL:     oauthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       log.Default(),
		limits:       &RateLimit{},
	}
	for _, opt := range opts {
		opt(a)
	}

	client := *a.client
	client.Transport = &rateLimitTransport{
		base:   client.Transport,
		limits: a.limits,
		logger: a.logger,
	}
	a.client = &client
	return a
}

func (s *API) ClientID() int {
	return s.clientID
}

// OAuthURL is the root of the authorize, token and deauthorize endpoints.
func (s *API) OAuthURL() string {
	return s.oauthURL
}

// RateLimit reports the usage Strava returned with the most recent response.
func (s *API) RateLimit() RateUsage {
	return s.limits.Usage()
}

// Client calls the API on behalf of one athlete.
type Client struct {
	api    *API
	client *http.Client
}

// Authenticated returns a Client that sends every request with the token
// from ts in the Authorization header.
func (s *API) Authenticated(ts oauth2.TokenSource) *Client {
	client := *s.client
	client.Transport = &oauth2.Transport{
		Source: tokenSource{ts},
		Base:   s.client.Transport,
	}
	return &Client{
		api:    s,
		client: &client,
	}
}

// Raw sends a request to any endpoint under the API root and returns the
// undecoded response body.
func (c *Client) Raw(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	return c.api.send(ctx, c.client, method, c.api.baseURL+path, query, nil)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	respBody, err := c.api.send(ctx, c.client, method, c.api.baseURL+path, query, body)
	if err != nil {
		return err
	}
	return decode(respBody, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	err := json.Unmarshal(body, out)
	if err != nil {
		return errors.Wrap(err, "strava: error decoding response")
	}
	return nil
}

// send performs one request. A url.Values body is form encoded, anything else
// is sent as JSON. Responses outside 2xx are returned as *APIError.
func (s *API) send(ctx context.Context, client *http.Client, method, rawURL string, query url.Values, body any) ([]byte, error) {
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case url.Values:
		reader = strings.NewReader(b.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		reqBody, err := json.Marshal(b)
		if err != nil {
			return nil, errors.Wrap(err, "strava: error encoding request")
		}
		reader = bytes.NewReader(reqBody)
		contentType = "application/json"
	}

	request, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, errors.Wrap(err, "strava: error building request")
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	request.Header.Set("Accept", "application/json")

	resp, err := client.Do(request)
	if err != nil {
		return nil, s.transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, s.transportError(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := errorFromResponse(resp.StatusCode, resp.Status, respBody)
		s.logger.Printf("strava: %s %s: %s", method, request.URL.Path, apiErr.Error())
		return nil, apiErr
	}
	return respBody, nil
}

func (s *API) transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.Wrap(ctxErr, "strava: request abandoned")
	}
	var tokenErr *tokenError
	if errors.As(err, &tokenErr) {
		// A rejected refresh token comes back as an API error of its own.
		var apiErr *APIError
		if errors.As(tokenErr.err, &apiErr) {
			return apiErr
		}
		return errors.Wrap(tokenErr.err, "strava: error obtaining token")
	}
	return &APIError{Kind: ErrNetwork, Err: err}
}

// tokenSource marks failures to obtain a token so they are not mistaken for
// network failures once the http.Client has wrapped them.
type tokenSource struct {
	src oauth2.TokenSource
}

func (ts tokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.src.Token()
	if err != nil {
		return nil, &tokenError{err: err}
	}
	return token, nil
}

type tokenError struct {
	err error
}

func (e *tokenError) Error() string {
	return e.err.Error()
}

func (e *tokenError) Unwrap() error {
	return e.err
}
