package tutorial

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
var DestructiveTools = []string{"tutorial_delete"}

// TutorialTools returns the tutorial tool registrations.
func TutorialTools(mgr TutorialManager, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		tutorialList(mgr, audit),
		tutorialGet(mgr, audit),
		tutorialSearch(mgr, audit),
		tutorialCreate(mgr, audit),
		tutorialUpdate(mgr, audit),
		tutorialDelete(mgr, confirm, audit),
		tutorialToggleActive(mgr, audit),
		upload.FileTool("tutorial_upload_video", "Upload a tutorial video (.mp4, .mov or .webm). Use the returned video_path as videoUrl.", audit, mgr.UploadVideo),
		upload.FileTool("tutorial_upload_thumbnail", "Upload a tutorial thumbnail image. Use the returned thumbnail_path as thumbnailUrl.", audit, mgr.UploadThumbnail),
	}
}

func tutorialList(mgr TutorialManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "tutorial_list"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List tutorials. Filters are exclusive: appTarget, then tags, then activeOnly."),
		mcp.WithBoolean("activeOnly", mcp.Description("Only active tutorials")),
		mcp.WithString("appTarget", mcp.Description("Only tutorials for this app"), mcp.Enum("CUSTOMER", "MERCHANT", "BOTH")),
		mcp.WithArray("tags", mcp.Description("Only tutorials with any of these tags"), mcp.WithStringItems()),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		rawTarget := req.GetString("appTarget", "")
		tags := req.GetStringSlice("tags", nil)
		activeOnly := req.GetBool("activeOnly", false)
		params := map[string]any{"appTarget": rawTarget, "tags": tags, "activeOnly": activeOnly, "jwt": jwt}

		var (
			list []Tutorial
			err  error
		)
		switch {
		case rawTarget != "":
			var target AppTarget
			target, err = ParseAppTarget(rawTarget)
			if err == nil {
				list, err = mgr.ListByApp(ctx, target, jwt)
			}
		case len(tags) > 0:
			list, err = mgr.ListByTags(ctx, tags, jwt)
		case activeOnly:
			list, err = mgr.ListActive(ctx, jwt)
		default:
			list, err = mgr.List(ctx, jwt)
		}
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func tutorialGet(mgr TutorialManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "tutorial_get"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Get a tutorial by id, with signed video and thumbnail URLs."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Tutorial id")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		tut, err := mgr.Get(ctx, id, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(tut), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func tutorialSearch(mgr TutorialManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "tutorial_search"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Search tutorials by title, description or tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		query := req.GetString("query", "")
		jwt := tools.JWT(req)
		params := map[string]any{"query": query, "jwt": jwt}

		list, err := mgr.Search(ctx, query, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func tutorialCreate(mgr TutorialManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "tutorial_create"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Create a tutorial from an uploaded video."),
		mcp.WithObject("input", mcp.Required(), mcp.Description("CreateTutorialInput: title, description, videoUrl, duration (seconds), appTarget, thumbnailUrl, order, tags")),
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
		params["title"] = input.Title

		tut, err := mgr.Create(ctx, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(tut), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func tutorialUpdate(mgr TutorialManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "tutorial_update"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Update the given fields of a tutorial."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Tutorial id")),
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

		tut, err := mgr.Update(ctx, id, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(tut), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func tutorialDelete(mgr TutorialManager, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) tools.Registration {
	const toolName = "tutorial_delete"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Delete a tutorial. Requires confirmation."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Tutorial id")),
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
			desc := fmt.Sprintf("This will permanently delete tutorial %q. Use tutorial_toggle_active to hide it instead.", id)
			return tools.ConfirmPrompt(confirm, toolName, id, desc), nil
		}

		res, err := mgr.Delete(ctx, id, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		if !res.Success {
			tools.LogAudit(audit, toolName, params, "not deleted: "+res.Message, start)
			return tools.ErrorResult(res.Message), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(res), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func tutorialToggleActive(mgr TutorialManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "tutorial_toggle_active"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Activate an inactive tutorial or deactivate an active one."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Tutorial id")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		tut, err := mgr.ToggleActive(ctx, id, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(tut), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
