package product

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/jamesprial/marketplace-mcp/internal/graphql"
	"github.com/jamesprial/marketplace-mcp/internal/safety"
	"github.com/jamesprial/marketplace-mcp/internal/tools"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
	"github.com/mark3labs/mcp-go/mcp"
)

// mockClient implements graphql.Client for testing.
type mockClient struct {
	executeFunc func(ctx context.Context, query string, variables map[string]any) ([]byte, error)
}

func (m *mockClient) Execute(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	return m.executeFunc(ctx, query, variables)
}

// mockUploader implements upload.Uploader for testing.
type mockUploader struct {
	target upload.Target
}

func (m *mockUploader) Upload(ctx context.Context, target upload.Target, file upload.File, jwt string) (*upload.Result, error) {
	m.target = target
	return &upload.Result{Key: target.Key, Path: "products/p.png", URL: "https://cdn/p.png"}, nil
}

type recorded struct {
	calls int
	query string
	vars  map[string]any
	jwt   string
}

func newManager(response string, err error) (*GraphQLProductManager, *recorded) {
	rec := &recorded{}
	client := &mockClient{executeFunc: func(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
		rec.calls++
		rec.query, rec.vars = query, variables
		rec.jwt, _ = graphql.BearerToken(ctx)
		if err != nil {
			return nil, err
		}
		return []byte(response), nil
	}}
	return NewGraphQLProductManager(graphql.NewRunner(client, nil), &mockUploader{}), rec
}

const emptyConnection = `{"edges":[],"pageInfo":{"hasNextPage":false,"hasPreviousPage":false,"startCursor":null,"endCursor":null,"totalCount":0}}`

func Test_ListProducts_Variables(t *testing.T) {
	radius := 2.5
	tests := []struct {
		name    string
		filters Filters
		page    Page
		jwt     string
		want    map[string]any
		absent  []string
	}{
		{
			name:   "defaults",
			want:   map[string]any{"first": DefaultPageSize, "availableOnly": false},
			absent: []string{"after", "ids", "branchId", "categoryId", "branchTipo", "radiusKm", "jwt"},
		},
		{
			name:    "all filters",
			filters: Filters{BranchID: "br1", CategoryID: "c1", AvailableOnly: true, BranchTipo: "TIENDA", RadiusKm: &radius},
			page:    Page{First: 50, After: "cur"},
			jwt:     "tok",
			want: map[string]any{
				"first": 50, "after": "cur", "branchId": "br1", "categoryId": "c1",
				"availableOnly": true, "branchTipo": "TIENDA", "radiusKm": 2.5, "jwt": "tok",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, rec := newManager(`{"products":`+emptyConnection+`}`, nil)
			conn, err := mgr.ListProducts(context.Background(), tt.filters, tt.page, tt.jwt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if conn.Edges == nil {
				t.Error("Edges should decode to an empty slice")
			}
			for k, v := range tt.want {
				if rec.vars[k] != v {
					t.Errorf("vars[%q] = %v, want %v", k, rec.vars[k], v)
				}
			}
			for _, k := range tt.absent {
				if _, ok := rec.vars[k]; ok {
					t.Errorf("vars[%q] should not be sent", k)
				}
			}
		})
	}
}

func Test_GetProduct_DecodesCategoryAndStock(t *testing.T) {
	mgr, rec := newManager(`{"product":{"id":"p1","name":"Concha","price":12.5,"stock":0,"category":{"id":"c1","name":"Pan dulce"}}}`, nil)

	p, err := mgr.GetProduct(context.Background(), "p1", "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Price != 12.5 || p.Category == nil || p.Category.Name != "Pan dulce" {
		t.Errorf("product = %+v", p)
	}
	if p.Stock == nil || *p.Stock != 0 {
		t.Errorf("Stock = %v, want pointer to 0", p.Stock)
	}
	if _, ok := rec.vars["jwt"]; ok {
		t.Error("GetProduct must not send a jwt variable")
	}
	if rec.jwt != "tok" {
		t.Errorf("bearer override = %q, want tok", rec.jwt)
	}
}

func Test_SearchProducts_Cases(t *testing.T) {
	mgr, rec := newManager(`{"searchProducts":`+emptyConnection+`}`, nil)

	if _, err := mgr.SearchProducts(context.Background(), SearchParams{}, ""); err == nil {
		t.Fatal("expected error for empty query")
	}
	if rec.calls != 0 {
		t.Fatal("no request should be sent for an empty query")
	}

	if _, err := mgr.SearchProducts(context.Background(), SearchParams{Query: "pan", UseVectorSearch: true}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.vars["query"] != "pan" || rec.vars["first"] != DefaultSearchSize || rec.vars["useVectorSearch"] != true {
		t.Errorf("vars = %v", rec.vars)
	}
}

func Test_CreateProductInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateProductInput
		wantErr string
	}{
		{name: "branch id", input: CreateProductInput{Name: "Flan", Price: 30, BranchID: "br1"}},
		{name: "business id", input: CreateProductInput{Name: "Flan", Price: 30, BusinessID: "b1"}},
		{name: "neither id", input: CreateProductInput{Name: "Flan", Price: 30}, wantErr: "branchId or businessId is required"},
		{name: "missing name", input: CreateProductInput{Price: 30, BranchID: "br1"}, wantErr: "name"},
		{name: "price left to backend", input: CreateProductInput{Name: "Flan", Price: -1, BranchID: "br1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func Test_CreateProduct_PriceSentUnchanged(t *testing.T) {
	mgr, rec := newManager(`{"createProduct":{"id":"p1","name":"Flan","price":0}}`, nil)
	_, err := mgr.CreateProduct(context.Background(), CreateProductInput{Name: "Flan", Price: -2.5, BranchID: "br1"}, "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	in, ok := rec.vars["input"].(CreateProductInput)
	if rec.calls != 1 || !ok || in.Price != -2.5 {
		t.Errorf("calls = %d, input = %#v", rec.calls, rec.vars["input"])
	}
}

func Test_CreateProduct_InvalidInputSendsNothing(t *testing.T) {
	mgr, rec := newManager(`{}`, nil)
	_, err := mgr.CreateProduct(context.Background(), CreateProductInput{Name: "Flan"}, "tok")
	if err == nil || !strings.HasPrefix(err.Error(), "product create:") {
		t.Fatalf("error = %v", err)
	}
	if rec.calls != 0 {
		t.Error("no request should be sent")
	}
}

func Test_UpdateStock_Cases(t *testing.T) {
	mgr, rec := newManager(`{"updateProductStock":{"id":"p1","stock":7}}`, nil)

	if _, err := mgr.UpdateStock(context.Background(), "p1", -3, ""); err != nil {
		t.Errorf("stock rules belong to the backend, got %v", err)
	}
	if rec.vars["stock"] != -3 {
		t.Errorf("stock sent = %v, want -3", rec.vars["stock"])
	}
	p, err := mgr.UpdateStock(context.Background(), "p1", 7, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Stock == nil || *p.Stock != 7 {
		t.Errorf("Stock = %v", p.Stock)
	}
	if rec.vars["stock"] != 7 || !strings.Contains(rec.query, "mutation UpdateProductStock") {
		t.Errorf("vars = %v, query = %q", rec.vars, rec.query)
	}
}

func Test_DeleteProduct_FailureIsNotError(t *testing.T) {
	mgr, _ := newManager(`{"deleteProduct":{"success":false,"message":"Producto no encontrado"}}`, nil)
	res, err := mgr.DeleteProduct(context.Background(), "p1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || res.Message != "Producto no encontrado" {
		t.Errorf("result = %+v", res)
	}
}

func Test_UploadImage_Target(t *testing.T) {
	up := &mockUploader{}
	mgr := NewGraphQLProductManager(graphql.NewRunner(&mockClient{}, nil), up)
	if _, err := mgr.UploadImage(context.Background(), upload.File{Name: "p.png"}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if up.target.Path != upload.ProductImage.Path {
		t.Errorf("target = %q", up.target.Path)
	}
}

// ---------------------------------------------------------------------------
// Tools
// ---------------------------------------------------------------------------

var tokenPattern = regexp.MustCompile(`confirmation_token="([a-f0-9]+)"`)

func callTool(t *testing.T, regs []tools.Registration, name string, args map[string]any) string {
	t.Helper()
	for _, reg := range regs {
		if reg.Tool.Name != name {
			continue
		}
		req := mcp.CallToolRequest{}
		req.Params.Arguments = args
		res, err := reg.Handler(context.Background(), req)
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return res.Content[0].(mcp.TextContent).Text
	}
	t.Fatalf("tool %q not registered", name)
	return ""
}

func Test_ProductDelete_ConfirmationFlow(t *testing.T) {
	mgr, rec := newManager(`{"deleteProduct":{"success":true,"message":"ok"}}`, nil)
	regs := ProductTools(mgr, safety.NewConfirmationTracker(DestructiveTools), nil)

	prompt := callTool(t, regs, "product_delete", map[string]any{"id": "p1"})
	m := tokenPattern.FindStringSubmatch(prompt)
	if len(m) < 2 || rec.calls != 0 {
		t.Fatalf("expected a confirmation prompt, got %q", prompt)
	}

	text := callTool(t, regs, "product_delete", map[string]any{"id": "p1", "confirmation_token": m[1]})
	if rec.calls != 1 || !strings.Contains(text, `"success": true`) {
		t.Errorf("result = %q", text)
	}

	replay := callTool(t, regs, "product_delete", map[string]any{"id": "p1", "confirmation_token": m[1]})
	if rec.calls != 1 || !strings.Contains(replay, "Confirmation required") {
		t.Errorf("replayed token must not delete again: %q", replay)
	}
}

func Test_ProductList_Tool_ParsesFilters(t *testing.T) {
	mgr, rec := newManager(`{"products":`+emptyConnection+`}`, nil)
	regs := ProductTools(mgr, safety.NewConfirmationTracker(DestructiveTools), nil)

	callTool(t, regs, "product_list", map[string]any{
		"ids":           []any{"p1", "p2"},
		"availableOnly": true,
		"radiusKm":      float64(3),
		"first":         float64(5),
	})
	ids, _ := rec.vars["ids"].([]string)
	if len(ids) != 2 || rec.vars["availableOnly"] != true || rec.vars["radiusKm"] != 3.0 || rec.vars["first"] != 5 {
		t.Errorf("vars = %v", rec.vars)
	}
}

func Test_ProductUpdateStock_Tool_MissingStock(t *testing.T) {
	mgr, rec := newManager(`{}`, nil)
	regs := ProductTools(mgr, safety.NewConfirmationTracker(DestructiveTools), nil)

	text := callTool(t, regs, "product_update_stock", map[string]any{"id": "p1"})
	if !strings.Contains(text, "invalid stock") || rec.calls != 0 {
		t.Errorf("result = %q", text)
	}
}
