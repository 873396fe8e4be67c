package businesstype

import (
	"context"
	"fmt"
	"time"

	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/jamesprial/marketplace-mcp/internal/tools"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DestructiveTools lists the tools of this package that require confirmation.
var DestructiveTools = []string{"business_type_deactivate", "business_type_delete"}

// BusinessTypeTools returns the business-type config tool registrations.
func BusinessTypeTools(mgr Manager, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		businessTypeList(mgr, audit),
		businessTypeCreate(mgr, audit),
		businessTypeUpdate(mgr, audit),
		businessTypeDeactivate(mgr, confirm, audit),
		businessTypeDelete(mgr, confirm, audit),
		upload.FileTool("business_type_upload_model", "Upload a 3D model for a business type (.usdz or .glb, up to 50MB).", audit, mgr.UploadModel3D),
	}
}

func businessTypeList(mgr Manager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_type_list"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List business-type configs, optionally only those changed since a point in time."),
		mcp.WithString("lastSyncAt", mcp.Description("RFC 3339 timestamp; only configs updated after it are returned")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		raw := req.GetString("lastSyncAt", "")
		jwt := tools.JWT(req)
		params := map[string]any{"lastSyncAt": raw, "jwt": jwt}

		var since *time.Time
		if raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				msg := fmt.Sprintf("invalid lastSyncAt %q: %v", raw, err)
				tools.LogAudit(audit, toolName, params, "error: "+msg, start)
				return tools.ErrorResult(msg), nil
			}
			since = &ts
		}

		list, err := mgr.ListConfigs(ctx, since, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessTypeCreate(mgr Manager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_type_create"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Create a business-type config."),
		mcp.WithObject("input", mcp.Required(), mcp.Description("Config: key, name, description, icon, model3dFileName, gradient, camera, glowColor, features, sortOrder, pushTitle, pushBody")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		params := map[string]any{"jwt": jwt}

		var input CreateInput
		if err := tools.BindObject(req, "input", &input); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		params["key"] = input.Key

		cfg, err := mgr.CreateConfig(ctx, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(cfg), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessTypeUpdate(mgr Manager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_type_update"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Update the given fields of a business-type config."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Config id")),
		mcp.WithObject("input", mcp.Required(), mcp.Description("Fields to change")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		var input UpdateInput
		if err := tools.BindObject(req, "input", &input); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		cfg, err := mgr.UpdateConfig(ctx, id, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(cfg), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessTypeDeactivate(mgr Manager, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_type_deactivate"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Deactivate (soft delete) a business-type config. Requires confirmation."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Config id")),
		tools.WithConfirmation(),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		token := req.GetString(tools.ConfirmParam, "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		if confirm.NeedsConfirmation(toolName) && !confirm.Confirm(token, toolName, id) {
			desc := fmt.Sprintf("This will deactivate business type %q. Apps stop offering it until it is reactivated.", id)
			return tools.ConfirmPrompt(confirm, toolName, id, desc), nil
		}

		cfg, err := mgr.DeactivateConfig(ctx, id, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(cfg), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessTypeDelete(mgr Manager, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_type_delete"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Permanently delete a business-type config. Requires confirmation."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Config id")),
		tools.WithConfirmation(),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		token := req.GetString(tools.ConfirmParam, "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		if confirm.NeedsConfirmation(toolName) && !confirm.Confirm(token, toolName, id) {
			desc := fmt.Sprintf("This will permanently delete business type %q. This cannot be undone.", id)
			return tools.ConfirmPrompt(confirm, toolName, id, desc), nil
		}

		deleted, err := mgr.DeleteConfig(ctx, id, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		if !deleted {
			tools.LogAudit(audit, toolName, params, "not deleted", start)
			return tools.ErrorResult(fmt.Sprintf("business type %q was not deleted", id)), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return mcp.NewToolResultText(fmt.Sprintf("business type %q deleted successfully", id)), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
