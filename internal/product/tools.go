package product

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
var DestructiveTools = []string{"product_delete"}

// ProductTools returns the product tool registrations.
func ProductTools(mgr ProductManager, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		productList(mgr, audit),
		productGet(mgr, audit),
		productCategories(mgr, audit),
		productSearch(mgr, audit),
		productCreate(mgr, audit),
		productUpdate(mgr, audit),
		productDelete(mgr, confirm, audit),
		productUpdateStock(mgr, audit),
		upload.FileTool("product_upload_image", "Upload a product image (jpg, png or webp, up to 5MB). Use the returned image_path as the product image.", audit, mgr.UploadImage),
	}
}

// optionalFloat returns a pointer to the named number argument, or nil when
// the caller did not send it.
func optionalFloat(req mcp.CallToolRequest, name string) *float64 {
	v, ok := req.GetArguments()[name].(float64)
	if !ok {
		return nil
	}
	return &v
}

func productList(mgr ProductManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "product_list"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List products, optionally filtered by branch, category, branch type or distance."),
		mcp.WithNumber("first", mcp.Description(fmt.Sprintf("Page size (default %d)", DefaultPageSize))),
		mcp.WithString("after", mcp.Description("Cursor returned as pageInfo.endCursor by the previous page")),
		mcp.WithArray("ids", mcp.Description("Only these product ids"), mcp.WithStringItems()),
		mcp.WithString("branchId", mcp.Description("Only products of this branch")),
		mcp.WithString("categoryId", mcp.Description("Only products of this category")),
		mcp.WithBoolean("availableOnly", mcp.Description("Only available products (default false)")),
		mcp.WithString("branchTipo", mcp.Description("Only products of branches of this type"), mcp.Enum("RESTAURANTE", "DULCERIA", "TIENDA")),
		mcp.WithNumber("radiusKm", mcp.Description("Only products within this distance of the user")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		filters := Filters{
			IDs:           req.GetStringSlice("ids", nil),
			BranchID:      req.GetString("branchId", ""),
			CategoryID:    req.GetString("categoryId", ""),
			AvailableOnly: req.GetBool("availableOnly", false),
			BranchTipo:    req.GetString("branchTipo", ""),
			RadiusKm:      optionalFloat(req, "radiusKm"),
		}
		page := Page{First: req.GetInt("first", 0), After: req.GetString("after", "")}
		params := map[string]any{
			"branchId":      filters.BranchID,
			"categoryId":    filters.CategoryID,
			"availableOnly": filters.AvailableOnly,
			"first":         page.First,
			"after":         page.After,
			"jwt":           jwt,
		}

		conn, err := mgr.ListProducts(ctx, filters, page, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(conn), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func productGet(mgr ProductManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "product_get"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Get a product by id, including its category and stock."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Product id")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		p, err := mgr.GetProduct(ctx, id, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(p), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func productCategories(mgr ProductManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "product_categories"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List product categories."),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		params := map[string]any{"jwt": jwt}

		cats, err := mgr.ListCategories(ctx, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(cats), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func productSearch(mgr ProductManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "product_search"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Search products by text, or semantically with vector search."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		mcp.WithNumber("first", mcp.Description(fmt.Sprintf("Page size (default %d)", DefaultSearchSize))),
		mcp.WithString("after", mcp.Description("Cursor of the previous page")),
		mcp.WithBoolean("useVectorSearch", mcp.Description("Use semantic vector search (default false)")),
		mcp.WithString("branchTipo", mcp.Description("Only products of branches of this type"), mcp.Enum("RESTAURANTE", "DULCERIA", "TIENDA")),
		mcp.WithNumber("radiusKm", mcp.Description("Only products within this distance of the user")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		sp := SearchParams{
			Query:           req.GetString("query", ""),
			First:           req.GetInt("first", 0),
			After:           req.GetString("after", ""),
			UseVectorSearch: req.GetBool("useVectorSearch", false),
			BranchTipo:      req.GetString("branchTipo", ""),
			RadiusKm:        optionalFloat(req, "radiusKm"),
		}
		params := map[string]any{"query": sp.Query, "useVectorSearch": sp.UseVectorSearch, "first": sp.First, "jwt": jwt}

		conn, err := mgr.SearchProducts(ctx, sp, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(conn), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func productCreate(mgr ProductManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "product_create"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Create a product in a branch or business."),
		mcp.WithObject("input", mcp.Required(), mcp.Description("CreateProductInput: name, description, price, image, branchId or businessId, currency, weight, categoryId")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		params := map[string]any{"jwt": jwt}

		var input CreateProductInput
		if err := tools.BindObject(req, "input", &input); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		params["name"] = input.Name
		params["branchId"] = input.BranchID

		p, err := mgr.CreateProduct(ctx, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(p), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func productUpdate(mgr ProductManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "product_update"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Update the given fields of a product."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Product id")),
		mcp.WithObject("input", mcp.Required(), mcp.Description("Fields to change: name, description, price, currency, weight, availability, categoryId, image")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		params := map[string]any{"id": id, "jwt": jwt}

		var input UpdateProductInput
		if err := tools.BindObject(req, "input", &input); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		p, err := mgr.UpdateProduct(ctx, id, input, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(p), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

func productDelete(mgr ProductManager, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) tools.Registration {
	const toolName = "product_delete"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Delete a product. Requires confirmation."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Product id")),
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
			desc := fmt.Sprintf("This will permanently delete product %q from its branch.", id)
			return tools.ConfirmPrompt(confirm, toolName, id, desc), nil
		}

		res, err := mgr.DeleteProduct(ctx, id, jwt)
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

func productUpdateStock(mgr ProductManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "product_update_stock"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Set the stock count of a product."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Product id")),
		mcp.WithNumber("stock", mcp.Required(), mcp.Description("New stock count")),
		tools.WithJWT(),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		id := req.GetString("id", "")
		jwt := tools.JWT(req)
		stock, err := req.RequireInt("stock")
		if err != nil {
			params := map[string]any{"id": id, "jwt": jwt}
			tools.LogAudit(audit, toolName, params, "error: invalid stock", start)
			return tools.ErrorResult("invalid stock: " + err.Error()), nil
		}
		params := map[string]any{"id": id, "stock": stock, "jwt": jwt}

		p, err := mgr.UpdateStock(ctx, id, stock, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(p), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
