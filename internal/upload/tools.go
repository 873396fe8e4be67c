package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/jamesprial/marketplace-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// UploadFunc uploads one file on behalf of jwt.
type UploadFunc func(ctx context.Context, file File, jwt string) (*Result, error)

var (
	// ErrNoFile is returned when a tool call names neither a path nor inline content.
	ErrNoFile = errors.New("either path or content_base64 is required")
	// ErrPathDisabled is returned for a path argument when no upload root is set.
	ErrPathDisabled = errors.New("path uploads are disabled; send content_base64 instead")
	// ErrOutsideRoot is returned for a path that leaves the upload root.
	ErrOutsideRoot = errors.New("path is outside the upload root")
)

type rootKey struct{}

// WithRoot returns a context in which tool path arguments may name files
// under root. An empty root leaves path arguments disabled.
func WithRoot(ctx context.Context, root string) context.Context {
	return context.WithValue(ctx, rootKey{}, root)
}

// RootMiddleware applies WithRoot to every tool call of an MCP server.
func RootMiddleware(root string) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return next(WithRoot(ctx, root), req)
		}
	}
}

// openUnderRoot opens name inside the upload root carried by ctx. Absolute
// names must lie under the root; symlinks may not escape it.
func openUnderRoot(ctx context.Context, name string) (File, io.Closer, error) {
	root, _ := ctx.Value(rootKey{}).(string)
	if root == "" {
		return File{}, nil, ErrPathDisabled
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return File{}, nil, fmt.Errorf("resolve upload root: %w", err)
	}

	rel := name
	if filepath.IsAbs(name) {
		rel, err = filepath.Rel(absRoot, filepath.Clean(name))
		if err != nil {
			return File{}, nil, ErrOutsideRoot
		}
	}
	if !filepath.IsLocal(rel) {
		return File{}, nil, ErrOutsideRoot
	}

	dir, err := os.OpenRoot(absRoot)
	if err != nil {
		return File{}, nil, fmt.Errorf("open upload root: %w", err)
	}
	defer dir.Close()

	f, err := dir.Open(rel)
	if err != nil {
		return File{}, nil, fmt.Errorf("open upload file: %w", err)
	}
	return File{Name: filepath.Base(rel), Content: f}, f, nil
}

// fileOptions declares the file arguments shared by every upload tool.
func fileOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("path", mcp.Description("Path of a file inside the server's upload root (disabled when no root is configured)")),
		mcp.WithString("content_base64", mcp.Description("Base64-encoded file content, used when path is not given")),
		mcp.WithString("filename", mcp.Description("File name sent with content_base64 (default: upload)")),
		mcp.WithString("content_type", mcp.Description("Optional MIME type; sniffed from the content when omitted")),
		tools.WithJWT(),
	}
}

// FileFromRequest builds a File from the path or content_base64 arguments of
// req. Paths resolve inside the upload root set with WithRoot. The returned
// closer is never nil.
func FileFromRequest(ctx context.Context, req mcp.CallToolRequest) (File, io.Closer, error) {
	contentType := req.GetString("content_type", "")

	if path := req.GetString("path", ""); path != "" {
		f, closer, err := openUnderRoot(ctx, path)
		if err != nil {
			return File{}, io.NopCloser(nil), err
		}
		f.ContentType = contentType
		return f, closer, nil
	}

	encoded := req.GetString("content_base64", "")
	if encoded == "" {
		return File{}, io.NopCloser(nil), ErrNoFile
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return File{}, io.NopCloser(nil), fmt.Errorf("decode content_base64: %w", err)
	}
	return File{
		Name:        req.GetString("filename", "upload"),
		ContentType: contentType,
		Content:     bytes.NewReader(data),
	}, io.NopCloser(nil), nil
}

// FileTool builds a registration for a tool that uploads one file with fn.
func FileTool(name, description string, audit *safety.AuditLogger, fn UploadFunc) tools.Registration {
	tool := mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(description)}, fileOptions()...)...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		jwt := tools.JWT(req)
		params := map[string]any{
			"path":     req.GetString("path", ""),
			"filename": req.GetString("filename", ""),
			"jwt":      jwt,
		}

		file, closer, err := FileFromRequest(ctx, req)
		if err != nil {
			tools.LogAudit(audit, name, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		defer func() { _ = closer.Close() }()

		res, err := fn(ctx, file, jwt)
		if err != nil {
			tools.LogAudit(audit, name, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, name, params, "ok", start)
		return tools.JSONResult(res), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// UploadTools returns the generic upload_file tool, which can post to any
// known upload endpoint.
func UploadTools(uploader Uploader, audit *safety.AuditLogger) []tools.Registration {
	const toolName = "upload_file"

	opts := []mcp.ToolOption{
		mcp.WithDescription("Upload a file to one of the backend's upload endpoints and return its stored path and URL."),
		mcp.WithString("target",
			mcp.Required(),
			mcp.Description("Upload endpoint"),
			mcp.Enum(TargetPaths()...),
		),
	}
	tool := mcp.NewTool(toolName, append(opts, fileOptions()...)...)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		targetPath := req.GetString("target", "")
		jwt := tools.JWT(req)
		params := map[string]any{"target": targetPath, "path": req.GetString("path", ""), "jwt": jwt}

		target, ok := TargetByPath(targetPath)
		if !ok {
			msg := fmt.Sprintf("unknown upload target %q", targetPath)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		file, closer, err := FileFromRequest(ctx, req)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		defer func() { _ = closer.Close() }()

		res, err := uploader.Upload(ctx, target, file, jwt)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(res), nil
	}

	return []tools.Registration{{Tool: tool, Handler: server.ToolHandlerFunc(handler)}}
}
