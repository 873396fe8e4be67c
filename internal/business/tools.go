package business

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

// BusinessTools returns the business and branch tool registrations, wired to
// mgr and audit.
func BusinessTools(mgr BusinessManager, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		businessList(mgr, audit),
		businessGet(mgr, audit),
		businessListMine(mgr, audit),
		businessRegister(mgr, audit),
		businessUpdate(mgr, audit),
		businessCategories(audit),
		branchList(mgr, audit),
		branchGet(mgr, audit),
		branchListMine(mgr, audit),
		branchCreate(mgr, audit),
		branchUpdate(mgr, audit),
		branchAssign(audit, "branch_add_user", "Grant a user access to a branch.", mgr.AddBranchToUser),
		branchAssign(audit, "branch_remove_user", "Revoke a user's access to a branch.", mgr.RemoveBranchFromUser),
		branchTipos(audit),
		upload.FileTool("business_upload_avatar", "Upload a business avatar image (jpg, png or webp, up to 5MB).", audit, mgr.UploadBusinessAvatar),
		upload.FileTool("business_upload_cover", "Upload a business cover image (jpg, png or webp, up to 5MB).", audit, mgr.UploadBusinessCover),
		upload.FileTool("branch_upload_avatar", "Upload a branch avatar image (jpg, png or webp, up to 5MB).", audit, mgr.UploadBranchAvatar),
		upload.FileTool("branch_upload_cover", "Upload a branch cover image (jpg, png or webp, up to 5MB).", audit, mgr.UploadBranchCover),
	}
}

// pageOptions declares the cursor arguments of list tools.
func pageOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("first", mcp.Description(fmt.Sprintf("Page size (default %d)", DefaultPageSize))),
		mcp.WithString("after", mcp.Description("Cursor returned as pageInfo.endCursor by the previous page")),
	}
}

func pageFromRequest(req mcp.CallToolRequest) Page {
	return Page{First: req.GetInt("first", 0), After: req.GetString("after", "")}
}

// ---------------------------------------------------------------------------
// Business tools
// ---------------------------------------------------------------------------

func businessList(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_list"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List marketplace businesses."),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		params := map[string]any{"jwt": jwt}

		list, err := mgr.ListBusinesses(ctx, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessGet(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_get"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Get a business by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Business id")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		b, err := mgr.GetBusiness(ctx, id, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(b), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessListMine(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_list_mine"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List the businesses owned by the signed-in user."),
		mcp.WithString(tools.JWTParam, mcp.Required(), mcp.Description("Access token of the signed-in user")),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		params := map[string]any{"jwt": jwt}

		list, err := mgr.ListMyBusinesses(ctx, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessRegister(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_register"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Register a new business together with its first branches."),
		mcp.WithObject("business", mcp.Required(), mcp.Description("CreateBusinessInput: name, avatar, description, socialMedia, tags")),
		mcp.WithArray("branches", mcp.Description("RegisterBranchInput list: name, tipos, coordinates{lat,lng}, phone, schedule, address, ...")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		params := map[string]any{"jwt": jwt}

		var business CreateBusinessInput
		if err := tools.BindObject(req, "business", &business); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		var branches []RegisterBranchInput
		if _, ok := req.GetArguments()["branches"]; ok {
			if err := tools.BindObject(req, "branches", &branches); err != nil {
				tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
				return tools.ErrorResult(err.Error()), nil
			}
		}
		params["name"] = business.Name
		params["branches"] = len(branches)

		b, err := mgr.RegisterBusiness(ctx, business, branches, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(b), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessUpdate(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_update"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Update the given fields of a business."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Business id")),
		mcp.WithObject("input", mcp.Required(), mcp.Description("UpdateBusinessInput: name, description, socialMedia, tags, isActive, avatar")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		var input UpdateBusinessInput
		if err := tools.BindObject(req, "input", &input); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		b, err := mgr.UpdateBusiness(ctx, id, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(b), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func businessCategories(audit *safety.AuditLogger) tools.Registration {
	const toolName = "business_categories"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List the business categories offered when registering a business."),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tools.LogAudit(audit, toolName, map[string]any{}, "ok", time.Now())
		return tools.JSONResult(Categories), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// ---------------------------------------------------------------------------
// Branch tools
// ---------------------------------------------------------------------------

func branchList(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "branch_list"

	opts := []mcp.ToolOption{
		mcp.WithDescription("List branches, optionally filtered by business, type or active state."),
		mcp.WithString("businessId", mcp.Description("Only branches of this business")),
		mcp.WithBoolean("onlyActive", mcp.Description("Only active branches")),
		mcp.WithString("tipo", mcp.Description("Branch type"), mcp.Enum("RESTAURANTE", "DULCERIA", "TIENDA")),
		tools.WithJWT(),
	}
	tool := mcp.NewTool(toolName, append(opts, pageOptions()...)...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		filter := BranchFilter{
			Page:       pageFromRequest(req),
			BusinessID: req.GetString("businessId", ""),
		}
		params := map[string]any{"businessId": filter.BusinessID, "first": filter.First, "after": filter.After, "jwt": jwt}

		if v, ok := req.GetArguments()["onlyActive"].(bool); ok {
			filter.OnlyActive = &v
			params["onlyActive"] = v
		}
		if raw := req.GetString("tipo", ""); raw != "" {
			tipo, err := ParseBranchTipo(raw)
			if err != nil {
				tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
				return tools.ErrorResult(err.Error()), nil
			}
			filter.Tipo = tipo
			params["tipo"] = tipo
		}

		conn, err := mgr.ListBranches(ctx, filter, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(conn), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func branchGet(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "branch_get"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Get a branch by id, including its schedule and coordinates."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Branch id")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		b, err := mgr.GetBranch(ctx, id, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(b), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func branchListMine(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "branch_list_mine"

	opts := []mcp.ToolOption{
		mcp.WithDescription("List the signed-in user's branches of one business."),
		mcp.WithString("businessId", mcp.Required(), mcp.Description("Business id")),
		mcp.WithString(tools.JWTParam, mcp.Required(), mcp.Description("Access token of the signed-in user")),
	}
	tool := mcp.NewTool(toolName, append(opts, pageOptions()...)...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		businessID := req.GetString("businessId", "")
		page := pageFromRequest(req)
		jwt := tools.JWT(req)
		params := map[string]any{"businessId": businessID, "first": page.First, "after": page.After, "jwt": jwt}

		conn, err := mgr.ListMyBranches(ctx, businessID, page, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(conn), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func branchCreate(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "branch_create"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Add a branch to an existing business."),
		mcp.WithObject("input", mcp.Required(), mcp.Description("CreateBranchInput: businessId, name, tipos, coordinates{lat,lng}, phone, schedule, ...")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		params := map[string]any{"jwt": jwt}

		var input CreateBranchInput
		if err := tools.BindObject(req, "input", &input); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		params["businessId"] = input.BusinessID
		params["name"] = input.Name

		b, err := mgr.CreateBranch(ctx, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(b), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func branchUpdate(mgr BusinessManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "branch_update"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Update the given fields of a branch."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Branch id")),
		mcp.WithObject("input", mcp.Required(), mcp.Description("UpdateBranchInput: name, tipos, address, phone, schedule, status, ...")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		var input UpdateBranchInput
		if err := tools.BindObject(req, "input", &input); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		b, err := mgr.UpdateBranch(ctx, id, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(b), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// assignFunc is AddBranchToUser or RemoveBranchFromUser.
type assignFunc func(ctx context.Context, input BranchAssignment, jwt string) (*UserBranches, error)

func branchAssign(audit *safety.AuditLogger, toolName, description string, fn assignFunc) tools.Registration {
	tool := mcp.NewTool(toolName,
		mcp.WithDescription(description),
		mcp.WithString("branchId", mcp.Required(), mcp.Description("Branch id")),
		mcp.WithString("userId", mcp.Description("User id (default: the signed-in user)")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		input := BranchAssignment{
			BranchID: req.GetString("branchId", ""),
			UserID:   req.GetString("userId", ""),
		}
		jwt := tools.JWT(req)
		params := map[string]any{"branchId": input.BranchID, "userId": input.UserID, "jwt": jwt}

		res, err := fn(ctx, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(res), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func branchTipos(audit *safety.AuditLogger) tools.Registration {
	const toolName = "branch_tipos"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List the branch types with their display labels."),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tools.LogAudit(audit, toolName, map[string]any{}, "ok", time.Now())
		return tools.JSONResult(BranchTipoOptions()), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
