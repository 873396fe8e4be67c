package graphql

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/mark3labs/mcp-go/mcp"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// newCallToolRequest builds an mcp.CallToolRequest with the given arguments map.
func newCallToolRequest(t *testing.T, args map[string]any) mcp.CallToolRequest {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// extractResultText extracts the text string from a CallToolResult, assuming
// the first content entry is TextContent.
func extractResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("result is nil")
	}
	if len(result.Content) == 0 {
		t.Fatal("result has no content entries")
	}
	tc, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("first content entry is not TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func newToolRunner(fn func(ctx context.Context, query string, variables map[string]any) ([]byte, error)) *Runner {
	return NewRunner(&mockClient{executeFunc: fn}, nil)
}

func okExecute(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	return []byte(`{}`), nil
}

// ---------------------------------------------------------------------------
// GraphQLTools registration tests
// ---------------------------------------------------------------------------

func Test_GraphQLTools_Registration(t *testing.T) {
	regs := GraphQLTools(newToolRunner(okExecute), nil)
	if len(regs) != 1 {
		t.Fatalf("GraphQLTools() returned %d registrations, want 1", len(regs))
	}

	tool := regs[0].Tool
	if tool.Name != "graphql_query" {
		t.Errorf("tool name = %q, want %q", tool.Name, "graphql_query")
	}
	if regs[0].Handler == nil {
		t.Error("tool handler is nil")
	}

	for _, prop := range []string{"query", "variables", "jwt"} {
		p, ok := tool.InputSchema.Properties[prop]
		if !ok {
			t.Errorf("tool input schema is missing %q property", prop)
			continue
		}
		propMap, ok := p.(map[string]any)
		if !ok {
			t.Fatalf("%s property is %T, want map[string]any", prop, p)
		}
		if propMap["type"] != "string" {
			t.Errorf("%s property type = %v, want %q", prop, propMap["type"], "string")
		}
	}

	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "query" {
		t.Errorf("required = %v, want [query]", tool.InputSchema.Required)
	}
}

func Test_IsMutation_Cases(t *testing.T) {
	tests := []struct {
		doc  string
		want bool
	}{
		{doc: "mutation DeleteProduct($id: ID!) { deleteProduct(id: $id) { success } }", want: true},
		{doc: "\n\tmutation { toggleTutorialActive(id: \"1\") { id } }", want: true},
		{doc: "query GetProducts { products { edges { node { id } } } }", want: false},
		{doc: "{ categories { id } }", want: false},
		{doc: "mutations", want: false},
	}
	for _, tt := range tests {
		if got := IsMutation(tt.doc); got != tt.want {
			t.Errorf("IsMutation(%q) = %v, want %v", tt.doc, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// graphql_query handler tests
// ---------------------------------------------------------------------------

func Test_GraphQLQueryHandler_Cases(t *testing.T) {
	tests := []struct {
		name          string
		args          map[string]any
		executeFunc   func(ctx context.Context, query string, variables map[string]any) ([]byte, error)
		wantResultErr bool
		wantContains  string
	}{
		{
			name: "valid query with no variables returns JSON result",
			args: map[string]any{"query": "{ categories { id name } }"},
			executeFunc: func(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
				if variables != nil {
					return nil, errors.New("expected nil variables when key absent")
				}
				return []byte(`{"categories":[{"id":"1","name":"Postres"}]}`), nil
			},
			wantContains: "Postres",
		},
		{
			name: "valid query with valid variables JSON",
			args: map[string]any{
				"query":     `query GetProduct($id: ID!) { product(id: $id) { name } }`,
				"variables": `{"id":"abc"}`,
			},
			executeFunc: func(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
				if variables["id"] != "abc" {
					return nil, errors.New("expected id=abc in variables")
				}
				return []byte(`{"product":{"name":"Pan dulce"}}`), nil
			},
			wantContains: "Pan dulce",
		},
		{
			name: "jwt is forwarded as bearer override",
			args: map[string]any{"query": "{ myBusinesses { id } }", "jwt": "user-jwt"},
			executeFunc: func(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
				tok, ok := BearerToken(ctx)
				if !ok || tok != "user-jwt" {
					return nil, errors.New("jwt not forwarded")
				}
				return []byte(`{"myBusinesses":[]}`), nil
			},
			wantContains: "myBusinesses",
		},
		{
			name: "invalid variables JSON returns error result",
			args: map[string]any{"query": "{ categories { id } }", "variables": "not json"},
			executeFunc: func(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
				t.Error("Execute should not be called when variables JSON is invalid")
				return nil, nil
			},
			wantResultErr: true,
			wantContains:  "parse variables JSON",
		},
		{
			name: "client error produces error result",
			args: map[string]any{"query": "{ categories { id } }"},
			executeFunc: func(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
				return nil, &StatusError{StatusCode: 401}
			},
			wantResultErr: true,
			wantContains:  "authentication failed",
		},
		{
			name: "client returns invalid JSON bytes produces error result",
			args: map[string]any{"query": "{ categories }"},
			executeFunc: func(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
				return []byte("not valid json"), nil
			},
			wantResultErr: true,
			wantContains:  "parse response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			audit := safety.NewAuditLogger(&buf)

			regs := GraphQLTools(newToolRunner(tt.executeFunc), audit)
			result, err := regs[0].Handler(context.Background(), newCallToolRequest(t, tt.args))
			if err != nil {
				t.Fatalf("handler returned non-nil error: %v, want nil", err)
			}

			text := extractResultText(t, result)
			if tt.wantResultErr && !strings.HasPrefix(text, "error: ") {
				t.Errorf("result text = %q, want error prefix", text)
			}
			if !strings.Contains(text, tt.wantContains) {
				t.Errorf("result text = %q, want it to contain %q", text, tt.wantContains)
			}
			if buf.Len() == 0 {
				t.Error("expected an audit entry to be written")
			}
			if jwt, ok := tt.args["jwt"].(string); ok && strings.Contains(buf.String(), jwt) {
				t.Errorf("audit log leaked jwt: %s", buf.String())
			}
		})
	}
}

func Test_GraphQLQueryHandler_NilAuditLogger_NoPanic(t *testing.T) {
	regs := GraphQLTools(newToolRunner(okExecute), nil)
	result, err := regs[0].Handler(context.Background(), newCallToolRequest(t, map[string]any{
		"query": "{ categories { id } }",
	}))
	if err != nil {
		t.Fatalf("handler returned non-nil error: %v", err)
	}
	if result == nil {
		t.Fatal("handler returned nil result")
	}
}
