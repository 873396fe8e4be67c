// Package tools provides shared helper utilities for MCP tool handlers.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/mark3labs/mcp-go/mcp"
)

// JWTParam is the optional argument every marketplace tool accepts to act on
// behalf of a signed-in user.
const JWTParam = "jwt"

// ConfirmParam carries the token returned by a confirmation prompt.
const ConfirmParam = "confirmation_token"

// ErrMissingArgument is returned by BindObject when the argument is absent.
var ErrMissingArgument = errors.New("missing argument")

// JSONResult marshals v to indented JSON and returns an mcp.CallToolResult.
func JSONResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("error marshaling result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// ErrorResult returns an mcp.CallToolResult that describes an error condition.
func ErrorResult(msg string) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf("error: %s", msg))
}

// LogAudit logs a tool invocation to the audit logger, silently ignoring a nil logger.
func LogAudit(audit *safety.AuditLogger, toolName string, params map[string]any, result string, start time.Time) {
	if audit == nil {
		return
	}
	_ = audit.Log(safety.AuditEntry{
		Timestamp: start,
		Tool:      toolName,
		Params:    params,
		Result:    result,
		Duration:  time.Since(start),
	})
}

// ConfirmPrompt issues a confirmation request bound to toolName and resource
// and returns the prompt result.
func ConfirmPrompt(confirm *safety.ConfirmationTracker, toolName, resource, description string) *mcp.CallToolResult {
	token := confirm.RequestConfirmation(toolName, resource)
	return mcp.NewToolResultText(fmt.Sprintf(
		"Confirmation required for %s on %q.\n\n%s\n\nTo proceed, call %s again with %s=%q.",
		toolName, resource, description, toolName, ConfirmParam, token,
	))
}

// WithJWT declares the optional jwt argument.
func WithJWT() mcp.ToolOption {
	return mcp.WithString(JWTParam,
		mcp.Description("Access token of the signed-in user. Falls back to the server's backend token when omitted."),
	)
}

// WithConfirmation declares the confirmation_token argument of destructive tools.
func WithConfirmation() mcp.ToolOption {
	return mcp.WithString(ConfirmParam,
		mcp.Description("Confirmation token returned by a prior call to this tool"),
	)
}

// JWT returns the jwt argument of req, or "" when absent.
func JWT(req mcp.CallToolRequest) string {
	return req.GetString(JWTParam, "")
}

// BindObject decodes the named object argument of req into dst. The argument
// may be sent either as a JSON object or as a string holding JSON.
func BindObject(req mcp.CallToolRequest, name string, dst any) error {
	raw, ok := req.GetArguments()[name]
	if !ok || raw == nil {
		return fmt.Errorf("%w %q", ErrMissingArgument, name)
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode argument %q: %w", name, err)
		}
		data = b
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode argument %q: %w", name, err)
	}
	return nil
}

// OptionalString returns a pointer to the named string argument, or nil when
// the caller did not send it.
func OptionalString(req mcp.CallToolRequest, name string) *string {
	v, ok := req.GetArguments()[name].(string)
	if !ok {
		return nil
	}
	return &v
}
