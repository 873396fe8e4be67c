package auth

import (
	"context"
	"time"

	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/jamesprial/marketplace-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// AuthTools returns the social login and token inspection tool registrations.
func AuthTools(mgr AuthManager, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		toolLoginGoogle(mgr, audit),
		toolLoginApple(mgr, audit),
		toolTokenInfo(audit),
	}
}

func toolLoginGoogle(mgr AuthManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "auth_login_google"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Sign in with a Google ID token and return a marketplace access token."),
		mcp.WithString("idToken", mcp.Required(), mcp.Description("Google ID token")),
		mcp.WithString("authorizationCode", mcp.Description("Optional OAuth authorization code")),
		mcp.WithString("nonce", mcp.Description("Optional nonce used when requesting the ID token")),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		input := SocialLoginInput{
			IDToken:           req.GetString("idToken", ""),
			AuthorizationCode: tools.OptionalString(req, "authorizationCode"),
			Nonce:             tools.OptionalString(req, "nonce"),
		}
		params := map[string]any{"idToken": input.IDToken}

		resp, err := mgr.LoginWithGoogle(ctx, input)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(resp), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolLoginApple(mgr AuthManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "auth_login_apple"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Sign in with an Apple identity token and return a marketplace access token."),
		mcp.WithString("identityToken", mcp.Required(), mcp.Description("Apple identity token")),
		mcp.WithString("authorizationCode", mcp.Description("Optional authorization code")),
		mcp.WithString("nonce", mcp.Description("Optional nonce used when requesting the identity token")),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		input := AppleLoginInput{
			IdentityToken:     req.GetString("identityToken", ""),
			AuthorizationCode: tools.OptionalString(req, "authorizationCode"),
			Nonce:             tools.OptionalString(req, "nonce"),
		}
		params := map[string]any{"identityToken": input.IdentityToken}

		resp, err := mgr.LoginWithApple(ctx, input)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(resp), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func toolTokenInfo(audit *safety.AuditLogger) tools.Registration {
	const toolName = "auth_token_info"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Decode a marketplace access token (without verifying it) and show its subject, role and expiry."),
		mcp.WithString("jwt", mcp.Required(), mcp.Description("Access token to inspect")),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		token := tools.JWT(req)
		params := map[string]any{"jwt": token}

		claims, err := ParseAccessToken(token)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(claims), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
