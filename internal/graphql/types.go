// Package graphql provides the GraphQL HTTP client shared by every
// marketplace domain package.
package graphql

import (
	"context"
	"fmt"
	"strings"
)

// GraphQLError represents a single error returned in a GraphQL response.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Client defines the interface for executing GraphQL operations. Execute
// returns the raw JSON of the response "data" object.
type Client interface {
	Execute(ctx context.Context, query string, variables map[string]any) ([]byte, error)
}

// ResponseError is returned when the backend answers with a non-empty
// "errors" array.
type ResponseError struct {
	Errors []GraphQLError
}

func (e *ResponseError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ge := range e.Errors {
		msgs[i] = ge.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// StatusError is returned when the GraphQL endpoint answers with a non-2xx
// HTTP status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.StatusCode == 401 {
		return "graphql: authentication failed (HTTP 401)"
	}
	if e.Body == "" {
		return fmt.Sprintf("graphql: unexpected HTTP status %d", e.StatusCode)
	}
	return fmt.Sprintf("graphql: unexpected HTTP status %d: %s", e.StatusCode, e.Body)
}
