package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/sirupsen/logrus"
)

// Operation kinds used in log fields.
const (
	KindQuery    = "query"
	KindMutation = "mutation"
)

var operationNamePattern = regexp.MustCompile(`^\s*(?:query|mutation|subscription)\s+([_A-Za-z][_0-9A-Za-z]*)`)

// OperationName extracts the operation name from a GraphQL document, or
// returns "anonymous" when the document has none.
func OperationName(document string) string {
	m := operationNamePattern.FindStringSubmatch(document)
	if len(m) < 2 {
		return "anonymous"
	}
	return m[1]
}

// Runner wraps a Client with the query/mutation helpers used by the domain
// packages. Both helpers accept an optional JWT that overrides the client's
// default bearer token for that single call; failures are logged and returned
// unchanged.
type Runner struct {
	client Client
	log    logrus.FieldLogger
}

// NewRunner returns a Runner around client. A nil logger discards output.
func NewRunner(client Client, logger logrus.FieldLogger) *Runner {
	if client == nil {
		panic("graphql client must not be nil")
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Runner{client: client, log: logger}
}

// Query executes a read operation.
func (r *Runner) Query(ctx context.Context, query string, variables map[string]any, jwt string) ([]byte, error) {
	return r.run(ctx, KindQuery, query, variables, jwt)
}

// Mutate executes a write operation.
func (r *Runner) Mutate(ctx context.Context, mutation string, variables map[string]any, jwt string) ([]byte, error) {
	return r.run(ctx, KindMutation, mutation, variables, jwt)
}

func (r *Runner) run(ctx context.Context, kind, document string, variables map[string]any, jwt string) ([]byte, error) {
	data, err := r.client.Execute(WithBearerToken(ctx, jwt), document, variables)
	if err != nil {
		fields := logrus.Fields{
			"kind":      kind,
			"operation": OperationName(document),
		}
		var se *StatusError
		if errors.As(err, &se) {
			fields["status"] = se.StatusCode
		}
		r.log.WithFields(fields).WithError(err).Errorf("graphql %s failed", kind)
		return nil, err
	}
	return data, nil
}

// Decode unmarshals a GraphQL data payload into T.
func Decode[T any](data []byte) (T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse response: %w", err)
	}
	return out, nil
}
