package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jamesprial/marketplace-mcp/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 30 * time.Second
	// maxErrorBody caps how much of a failed response body ends up in errors.
	maxErrorBody = 4 << 10
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type bearerKey struct{}

// WithBearerToken returns a context whose GraphQL requests authenticate with
// the given JWT instead of the client's default token. An empty jwt leaves
// ctx unchanged.
func WithBearerToken(ctx context.Context, jwt string) context.Context {
	if jwt == "" {
		return ctx
	}
	return context.WithValue(ctx, bearerKey{}, jwt)
}

// BearerToken returns the JWT stored by WithBearerToken, if any.
func BearerToken(ctx context.Context) (string, bool) {
	jwt, ok := ctx.Value(bearerKey{}).(string)
	return jwt, ok && jwt != ""
}

// HTTPClient is a concrete implementation of the Client interface that sends
// GraphQL requests over HTTP using the standard library net/http package.
type HTTPClient struct {
	httpClient *http.Client
	graphqlURL string
	token      string
	log        logrus.FieldLogger
}

// NewHTTPClient constructs an HTTPClient from the provided BackendConfig.
// It returns an error if cfg.URL is empty. When cfg.Timeout is zero or
// negative, a default timeout of 30 seconds is used. An empty token is
// accepted: requests without a bearer override are then sent anonymously.
func NewHTTPClient(cfg config.BackendConfig, logger logrus.FieldLogger) (*HTTPClient, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("graphql: URL is required")
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = defaultTimeout
	}

	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
		graphqlURL: normalizeURL(cfg.URL),
		token:      cfg.Token,
		log:        logger,
	}, nil
}

// Endpoint returns the resolved GraphQL URL.
func (c *HTTPClient) Endpoint() string {
	return c.graphqlURL
}

// normalizeURL trims any trailing slash from rawURL and appends /graphql if
// the path does not already end with that suffix.
func normalizeURL(rawURL string) string {
	u := strings.TrimRight(rawURL, "/")
	if !strings.HasSuffix(u, "/graphql") {
		u += "/graphql"
	}
	return u
}

// graphqlRequest is the JSON body shape for a GraphQL HTTP request.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphqlResponse is the JSON body shape for a GraphQL HTTP response.
type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Execute sends a GraphQL operation to the configured endpoint and returns
// the raw JSON bytes of the "data" field on success. Variables may be nil, in
// which case the "variables" key is omitted from the request body.
//
// The Authorization header carries the context's bearer override when set,
// otherwise the configured default token, otherwise nothing.
//
// Execute returns an error if:
//   - the HTTP request cannot be created or sent
//   - the server responds with a non-2xx status code (*StatusError)
//   - the response body cannot be decoded as JSON
//   - the GraphQL response contains one or more errors (*ResponseError)
func (c *HTTPClient) Execute(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	reqBody := graphqlRequest{
		Query:     query,
		Variables: variables,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("graphql: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("graphql: create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	token := c.token
	if jwt, ok := BearerToken(ctx); ok {
		token = jwt
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.WithField("request_id", requestID)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return nil, fmt.Errorf("graphql: decode response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, &ResponseError{Errors: gqlResp.Errors}
	}

	log.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("graphql request completed")
	return []byte(gqlResp.Data), nil
}
