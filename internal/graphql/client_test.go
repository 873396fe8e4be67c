package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jamesprial/marketplace-mcp/internal/config"
)

// ---------------------------------------------------------------------------
// Compile-time interface satisfaction check
// ---------------------------------------------------------------------------

var _ Client = (*HTTPClient)(nil)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newTestClient returns an HTTPClient pointed at url with the given default
// token and a short timeout.
func newTestClient(t *testing.T, url, token string) *HTTPClient {
	t.Helper()
	client, err := NewHTTPClient(config.BackendConfig{URL: url, Token: token, Timeout: 5}, nil)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	return client
}

// graphqlRequestBody is the expected shape of a GraphQL HTTP request body.
type graphqlRequestBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// capture records what the test server received.
type capture struct {
	mu      sync.Mutex
	headers http.Header
	body    graphqlRequestBody
	method  string
	path    string
}

// newCapturingServer answers every request with status and response after
// recording it into c.
func newCapturingServer(t *testing.T, c *capture, status int, response string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.headers = r.Header.Clone()
		c.method = r.Method
		c.path = r.URL.Path
		_ = json.Unmarshal(raw, &c.body)
		c.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ---------------------------------------------------------------------------
// normalizeURL tests
// ---------------------------------------------------------------------------

func Test_normalizeURL_Cases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare host", input: "https://api.example.com", want: "https://api.example.com/graphql"},
		{name: "trailing slash", input: "https://api.example.com/", want: "https://api.example.com/graphql"},
		{name: "already has suffix", input: "https://api.example.com/graphql", want: "https://api.example.com/graphql"},
		{name: "suffix with trailing slash", input: "https://api.example.com/graphql/", want: "https://api.example.com/graphql"},
		{name: "private railway host", input: "http://backend.railway.internal:8080///", want: "http://backend.railway.internal:8080/graphql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeURL(tt.input); got != tt.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// NewHTTPClient tests
// ---------------------------------------------------------------------------

func Test_NewHTTPClient_Cases(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.BackendConfig
		wantErr bool
	}{
		{name: "valid config", cfg: config.BackendConfig{URL: "https://api.example.com", Token: "jwt", Timeout: 30}},
		{name: "empty token is accepted", cfg: config.BackendConfig{URL: "https://api.example.com"}},
		{name: "negative timeout uses default", cfg: config.BackendConfig{URL: "https://api.example.com", Timeout: -1}},
		{name: "empty URL returns error", cfg: config.BackendConfig{Token: "jwt"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewHTTPClient(tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), "URL is required") {
					t.Errorf("error = %q, want it to contain 'URL is required'", err.Error())
				}
				if client != nil {
					t.Error("expected nil client on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.httpClient.Timeout <= 0 {
				t.Errorf("timeout = %v, want positive", client.httpClient.Timeout)
			}
			if !strings.HasSuffix(client.Endpoint(), "/graphql") {
				t.Errorf("Endpoint() = %q, want /graphql suffix", client.Endpoint())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// HTTPClient.Execute tests
// ---------------------------------------------------------------------------

func Test_Execute_HappyPath(t *testing.T) {
	var c capture
	srv := newCapturingServer(t, &c, http.StatusOK, `{"data":{"business":{"id":"b1","name":"Tacos"}}}`)
	client := newTestClient(t, srv.URL, "")

	query := `query GetBusiness($id: String!, $jwt: String) { business(id: $id, jwt: $jwt) { id name } }`
	result, err := client.Execute(context.Background(), query, map[string]any{"id": "b1"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if string(result) != `{"business":{"id":"b1","name":"Tacos"}}` {
		t.Errorf("result = %s, want the data object only", result)
	}
	if c.method != http.MethodPost {
		t.Errorf("method = %s, want POST", c.method)
	}
	if c.path != "/graphql" {
		t.Errorf("path = %s, want /graphql", c.path)
	}
	if c.body.Query != query {
		t.Errorf("request query = %q, want %q", c.body.Query, query)
	}
	if c.body.Variables["id"] != "b1" {
		t.Errorf("variables[id] = %v, want b1", c.body.Variables["id"])
	}
	if ct := c.headers.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func Test_Execute_RequestIDHeader(t *testing.T) {
	var c capture
	srv := newCapturingServer(t, &c, http.StatusOK, `{"data":{}}`)
	client := newTestClient(t, srv.URL, "")

	if _, err := client.Execute(context.Background(), `query { categories { id } }`, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := uuid.Parse(c.headers.Get(RequestIDHeader)); err != nil {
		t.Errorf("%s = %q is not a UUID: %v", RequestIDHeader, c.headers.Get(RequestIDHeader), err)
	}
}

func Test_Execute_AuthorizationHeader_Cases(t *testing.T) {
	tests := []struct {
		name         string
		defaultToken string
		override     string
		want         string
	}{
		{name: "anonymous when no token at all", want: ""},
		{name: "default token used", defaultToken: "service-jwt", want: "Bearer service-jwt"},
		{name: "override wins over default", defaultToken: "service-jwt", override: "user-jwt", want: "Bearer user-jwt"},
		{name: "override without default", override: "user-jwt", want: "Bearer user-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c capture
			srv := newCapturingServer(t, &c, http.StatusOK, `{"data":{}}`)
			client := newTestClient(t, srv.URL, tt.defaultToken)

			ctx := WithBearerToken(context.Background(), tt.override)
			if _, err := client.Execute(ctx, `query { tutorials { id } }`, nil); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if got := c.headers.Get("Authorization"); got != tt.want {
				t.Errorf("Authorization = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_Execute_NilVariablesOmitted(t *testing.T) {
	var raw []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, "")
	if _, err := client.Execute(context.Background(), `query { categories { id } }`, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Contains(string(raw), `"variables"`) {
		t.Errorf("request body %s should omit variables", raw)
	}
}

func Test_Execute_HTTPErrors_Cases(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "401", status: http.StatusUnauthorized, body: `{"error":"unauthorized"}`, wantStatus: 401, wantMsg: "authentication failed"},
		{name: "500 with body", status: http.StatusInternalServerError, body: "boom", wantStatus: 500, wantMsg: "unexpected HTTP status 500: boom"},
		{name: "502 empty body", status: http.StatusBadGateway, wantStatus: 502, wantMsg: "unexpected HTTP status 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c capture
			srv := newCapturingServer(t, &c, tt.status, tt.body)
			client := newTestClient(t, srv.URL, "")

			_, err := client.Execute(context.Background(), `query { categories { id } }`, nil)
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("error = %v, want *StatusError", err)
			}
			if se.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func Test_Execute_GraphQLErrors(t *testing.T) {
	var c capture
	srv := newCapturingServer(t, &c, http.StatusOK,
		`{"data":null,"errors":[{"message":"Business not found","path":["business"]},{"message":"second error"}]}`)
	client := newTestClient(t, srv.URL, "")

	_, err := client.Execute(context.Background(), `query { business(id: "x") { id } }`, nil)
	var re *ResponseError
	if !errors.As(err, &re) {
		t.Fatalf("error = %v, want *ResponseError", err)
	}
	if len(re.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2", len(re.Errors))
	}
	if want := "graphql: Business not found; second error"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func Test_Execute_MalformedJSONResponse(t *testing.T) {
	var c capture
	srv := newCapturingServer(t, &c, http.StatusOK, `not json`)
	client := newTestClient(t, srv.URL, "")

	_, err := client.Execute(context.Background(), `query { categories { id } }`, nil)
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Errorf("error = %v, want it to contain 'decode response'", err)
	}
}

func Test_Execute_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closedURL := srv.URL
	srv.Close()

	client := newTestClient(t, closedURL, "")
	_, err := client.Execute(context.Background(), `query { categories { id } }`, nil)
	if err == nil || !strings.Contains(err.Error(), "request failed") {
		t.Errorf("error = %v, want it to contain 'request failed'", err)
	}
}

func Test_Execute_ContextCancelled(t *testing.T) {
	var c capture
	srv := newCapturingServer(t, &c, http.StatusOK, `{"data":{}}`)
	client := newTestClient(t, srv.URL, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Execute(ctx, `query { categories { id } }`, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled in chain", err)
	}
}

func Test_Execute_ConcurrentRequests(t *testing.T) {
	var c capture
	srv := newCapturingServer(t, &c, http.StatusOK, `{"data":{"ok":true}}`)
	client := newTestClient(t, srv.URL, "")

	const goroutines = 10
	var wg sync.WaitGroup
	errs := make([]error, goroutines)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(idx int) {
			defer wg.Done()
			ctx := WithBearerToken(context.Background(), "jwt")
			_, errs[idx] = client.Execute(ctx, `query { ok }`, nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d error: %v", i, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Bearer context helpers
// ---------------------------------------------------------------------------

func Test_WithBearerToken_EmptyLeavesContextUnchanged(t *testing.T) {
	ctx := context.Background()
	if got := WithBearerToken(ctx, ""); got != ctx {
		t.Error("WithBearerToken with empty jwt should return the same context")
	}
	if _, ok := BearerToken(ctx); ok {
		t.Error("BearerToken reported a token on a bare context")
	}
	if jwt, ok := BearerToken(WithBearerToken(ctx, "abc")); !ok || jwt != "abc" {
		t.Errorf("BearerToken = %q, %v; want abc, true", jwt, ok)
	}
}
