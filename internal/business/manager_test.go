package business

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jamesprial/marketplace-mcp/internal/graphql"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
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
	uploadFunc func(ctx context.Context, target upload.Target, file upload.File, jwt string) (*upload.Result, error)
}

func (m *mockUploader) Upload(ctx context.Context, target upload.Target, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploadFunc(ctx, target, file, jwt)
}

// call records one Execute invocation.
type call struct {
	query string
	vars  map[string]any
	jwt   string
}

// newRecordingManager returns a manager whose client records the last call
// and answers with response.
func newRecordingManager(response string, err error) (*GraphQLBusinessManager, *call) {
	last := &call{}
	client := &mockClient{executeFunc: func(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
		last.query = query
		last.vars = variables
		last.jwt, _ = graphql.BearerToken(ctx)
		if err != nil {
			return nil, err
		}
		return []byte(response), nil
	}}
	up := &mockUploader{uploadFunc: func(ctx context.Context, target upload.Target, file upload.File, jwt string) (*upload.Result, error) {
		return &upload.Result{Key: target.Key, Path: "p", URL: "u"}, nil
	}}
	return NewGraphQLBusinessManager(graphql.NewRunner(client, nil), up), last
}

func Test_NewGraphQLBusinessManager_PanicsOnNil(t *testing.T) {
	runner := graphql.NewRunner(&mockClient{}, nil)
	up := &mockUploader{}

	tests := []struct {
		name   string
		runner *graphql.Runner
		up     upload.Uploader
	}{
		{name: "nil runner", runner: nil, up: up},
		{name: "nil uploader", runner: runner, up: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			NewGraphQLBusinessManager(tt.runner, tt.up)
		})
	}
}

// ---------------------------------------------------------------------------
// Businesses
// ---------------------------------------------------------------------------

func Test_ListBusinesses_Cases(t *testing.T) {
	tests := []struct {
		name    string
		jwt     string
		wantJWT bool
	}{
		{name: "anonymous omits jwt variable", jwt: "", wantJWT: false},
		{name: "signed in sends jwt variable", jwt: "tok", wantJWT: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, last := newRecordingManager(`{"businesses":[{"id":"b1","name":"Tacos Don Pepe","isActive":true,"tags":["mexicana"]}]}`, nil)

			list, err := mgr.ListBusinesses(context.Background(), tt.jwt)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(list) != 1 || list[0].ID != "b1" || !list[0].IsActive {
				t.Errorf("ListBusinesses() = %+v", list)
			}
			if !strings.Contains(last.query, "query GetBusinesses") {
				t.Errorf("query = %q, want GetBusinesses", last.query)
			}
			_, has := last.vars["jwt"]
			if has != tt.wantJWT {
				t.Errorf("jwt variable present = %v, want %v", has, tt.wantJWT)
			}
			if last.jwt != tt.jwt {
				t.Errorf("bearer override = %q, want %q", last.jwt, tt.jwt)
			}
		})
	}
}

func Test_GetBusiness_EmptyID(t *testing.T) {
	mgr, last := newRecordingManager(`{}`, nil)
	if _, err := mgr.GetBusiness(context.Background(), "", ""); err == nil {
		t.Fatal("expected error for empty id")
	}
	if last.query != "" {
		t.Error("no request should be sent for an empty id")
	}
}

func Test_GetBusiness_NotFound(t *testing.T) {
	mgr, last := newRecordingManager(`{"business":null}`, nil)
	b, err := mgr.GetBusiness(context.Background(), "b9", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b != nil {
		t.Errorf("GetBusiness() = %+v, want nil", b)
	}
	if last.vars["id"] != "b9" {
		t.Errorf("id variable = %v, want b9", last.vars["id"])
	}
}

func Test_ListMyBusinesses_RequiresJWT(t *testing.T) {
	mgr, _ := newRecordingManager(`{"businesses":[]}`, nil)
	_, err := mgr.ListMyBusinesses(context.Background(), "")
	if !errors.Is(err, ErrJWTRequired) {
		t.Fatalf("error = %v, want ErrJWTRequired", err)
	}

	list, err := mgr.ListMyBusinesses(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("ListMyBusinesses() = %v, want empty list", list)
	}
}

func Test_RegisterBusiness_Variables(t *testing.T) {
	mgr, last := newRecordingManager(`{"registerBusiness":{"id":"b1","name":"Dulces Lupita","isActive":true}}`, nil)

	b, err := mgr.RegisterBusiness(context.Background(), CreateBusinessInput{Name: "Dulces Lupita"}, nil, "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID != "b1" {
		t.Errorf("ID = %q, want b1", b.ID)
	}
	if !strings.HasPrefix(strings.TrimSpace(last.query), "mutation RegisterBusiness") {
		t.Errorf("query = %q", last.query)
	}
	raw, _ := json.Marshal(last.vars["branchesInput"])
	if string(raw) != "[]" {
		t.Errorf("branchesInput = %s, want []", raw)
	}
	if last.vars["jwt"] != "tok" {
		t.Errorf("jwt variable = %v, want tok", last.vars["jwt"])
	}
}

func Test_UpdateBusiness_SendsOnlySetFields(t *testing.T) {
	mgr, last := newRecordingManager(`{"updateBusiness":{"id":"b1","name":"Nuevo"}}`, nil)
	name := "Nuevo"

	if _, err := mgr.UpdateBusiness(context.Background(), "b1", UpdateBusinessInput{Name: &name}, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, _ := json.Marshal(last.vars["input"])
	if string(raw) != `{"name":"Nuevo"}` {
		t.Errorf("input = %s", raw)
	}
	if last.vars["businessId"] != "b1" {
		t.Errorf("businessId = %v", last.vars["businessId"])
	}
}

func Test_Business_ErrorIsWrapped(t *testing.T) {
	backendErr := &graphql.StatusError{StatusCode: 500}
	mgr, _ := newRecordingManager("", backendErr)

	_, err := mgr.ListBusinesses(context.Background(), "")
	var se *graphql.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want wrapped StatusError", err)
	}
	if !strings.HasPrefix(err.Error(), "business list:") {
		t.Errorf("error = %q, want business list prefix", err.Error())
	}
}

func Test_Business_MalformedResponse(t *testing.T) {
	mgr, _ := newRecordingManager(`{"businesses":"nope"}`, nil)
	_, err := mgr.ListBusinesses(context.Background(), "")
	if err == nil || !strings.Contains(err.Error(), "parse response") {
		t.Errorf("error = %v, want parse response error", err)
	}
}

// ---------------------------------------------------------------------------
// Branches
// ---------------------------------------------------------------------------

func Test_ListBranches_FilterVariables(t *testing.T) {
	active := false
	tests := []struct {
		name   string
		filter BranchFilter
		want   map[string]any
		absent []string
	}{
		{
			name:   "defaults",
			filter: BranchFilter{},
			want:   map[string]any{"first": DefaultPageSize},
			absent: []string{"after", "businessId", "onlyActive", "tipo", "jwt"},
		},
		{
			name: "all filters",
			filter: BranchFilter{
				Page:       Page{First: 5, After: "c1"},
				BusinessID: "b1",
				OnlyActive: &active,
				Tipo:       BranchTipoDulceria,
			},
			want: map[string]any{"first": 5, "after": "c1", "businessId": "b1", "onlyActive": false, "tipo": BranchTipoDulceria},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, last := newRecordingManager(`{"branches":{"edges":[],"pageInfo":{"hasNextPage":false,"totalCount":0}}}`, nil)
			if _, err := mgr.ListBranches(context.Background(), tt.filter, ""); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for k, v := range tt.want {
				if last.vars[k] != v {
					t.Errorf("vars[%q] = %v, want %v", k, last.vars[k], v)
				}
			}
			for _, k := range tt.absent {
				if _, ok := last.vars[k]; ok {
					t.Errorf("vars[%q] should not be sent", k)
				}
			}
		})
	}
}

func Test_ListBranches_DecodesConnection(t *testing.T) {
	resp := `{"branches":{"edges":[{"node":{"id":"br1","name":"Centro","tipos":["TIENDA"],
		"schedule":{"monday":"9:00-18:00","tuesday":["9:00-13:00","15:00-19:00"],"sunday":null},
		"coordinates":{"coordinates":[-99.13,19.43]}},"cursor":"c1"}],
		"pageInfo":{"hasNextPage":true,"endCursor":"c1","totalCount":7}}}`
	mgr, _ := newRecordingManager(resp, nil)

	conn, err := mgr.ListBranches(context.Background(), BranchFilter{}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conn.Edges) != 1 || !conn.PageInfo.HasNextPage || conn.PageInfo.TotalCount != 7 {
		t.Fatalf("connection = %+v", conn)
	}
	br := conn.Edges[0].Node
	if got := br.Schedule["monday"]; len(got) != 1 || got[0] != "9:00-18:00" {
		t.Errorf("monday = %v", got)
	}
	if got := br.Schedule["tuesday"]; len(got) != 2 {
		t.Errorf("tuesday = %v", got)
	}
	if got := br.Schedule["sunday"]; len(got) != 0 {
		t.Errorf("sunday = %v, want empty", got)
	}
	ll, ok := br.Coordinates.LatLng()
	if !ok || ll.Lat != 19.43 || ll.Lng != -99.13 {
		t.Errorf("LatLng() = %+v, %v", ll, ok)
	}
}

func Test_ListMyBranches_Validation(t *testing.T) {
	mgr, last := newRecordingManager(`{"branches":{"edges":[],"pageInfo":{}}}`, nil)

	if _, err := mgr.ListMyBranches(context.Background(), "b1", Page{}, ""); !errors.Is(err, ErrJWTRequired) {
		t.Errorf("error = %v, want ErrJWTRequired", err)
	}
	if _, err := mgr.ListMyBranches(context.Background(), "", Page{}, "tok"); err == nil {
		t.Error("expected error for empty business id")
	}
	if last.query != "" {
		t.Fatal("no request should be sent for invalid input")
	}

	if _, err := mgr.ListMyBranches(context.Background(), "b1", Page{First: 3}, "tok"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last.vars["businessId"] != "b1" || last.vars["first"] != 3 || last.vars["jwt"] != "tok" {
		t.Errorf("vars = %v", last.vars)
	}
}

func Test_BranchMutations(t *testing.T) {
	tests := []struct {
		name     string
		response string
		run      func(m *GraphQLBusinessManager) error
		wantOp   string
	}{
		{
			name:     "create",
			response: `{"createBranch":{"id":"br1","name":"Norte","tipos":["RESTAURANTE"]}}`,
			run: func(m *GraphQLBusinessManager) error {
				_, err := m.CreateBranch(context.Background(), CreateBranchInput{BusinessID: "b1", Name: "Norte"}, "tok")
				return err
			},
			wantOp: "mutation CreateBranch",
		},
		{
			name:     "update",
			response: `{"updateBranch":{"id":"br1","name":"Norte"}}`,
			run: func(m *GraphQLBusinessManager) error {
				_, err := m.UpdateBranch(context.Background(), "br1", UpdateBranchInput{}, "tok")
				return err
			},
			wantOp: "mutation UpdateBranch",
		},
		{
			name:     "add to user",
			response: `{"addBranchToUser":{"id":"u1","branchIds":["br1"]}}`,
			run: func(m *GraphQLBusinessManager) error {
				_, err := m.AddBranchToUser(context.Background(), BranchAssignment{BranchID: "br1"}, "tok")
				return err
			},
			wantOp: "mutation AddBranchToUser",
		},
		{
			name:     "remove from user",
			response: `{"removeBranchFromUser":{"id":"u1","branchIds":[]}}`,
			run: func(m *GraphQLBusinessManager) error {
				_, err := m.RemoveBranchFromUser(context.Background(), BranchAssignment{BranchID: "br1"}, "tok")
				return err
			},
			wantOp: "mutation RemoveBranchFromUser",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, last := newRecordingManager(tt.response, nil)
			if err := tt.run(mgr); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(last.query, tt.wantOp) {
				t.Errorf("query = %q, want %q", last.query, tt.wantOp)
			}
			if last.jwt != "tok" {
				t.Errorf("bearer override = %q, want tok", last.jwt)
			}
		})
	}
}

func Test_UpdateBranch_EmptyID(t *testing.T) {
	mgr, _ := newRecordingManager(`{}`, nil)
	if _, err := mgr.UpdateBranch(context.Background(), "", UpdateBranchInput{}, ""); err == nil {
		t.Error("expected error for empty id")
	}
}

// ---------------------------------------------------------------------------
// Uploads and enums
// ---------------------------------------------------------------------------

func Test_Uploads_UseTargets(t *testing.T) {
	var got []string
	up := &mockUploader{uploadFunc: func(ctx context.Context, target upload.Target, file upload.File, jwt string) (*upload.Result, error) {
		got = append(got, target.Path)
		return &upload.Result{Key: target.Key}, nil
	}}
	mgr := NewGraphQLBusinessManager(graphql.NewRunner(&mockClient{}, nil), up)
	ctx := context.Background()
	f := upload.File{Name: "a.png", Content: strings.NewReader("x")}

	_, _ = mgr.UploadBusinessAvatar(ctx, f, "")
	_, _ = mgr.UploadBusinessCover(ctx, f, "")
	_, _ = mgr.UploadBranchAvatar(ctx, f, "")
	_, _ = mgr.UploadBranchCover(ctx, f, "")

	want := []string{upload.BusinessAvatar.Path, upload.BusinessCover.Path, upload.BranchAvatar.Path, upload.BranchCover.Path}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("targets = %v, want %v", got, want)
	}
}

func Test_ParseBranchTipo_Cases(t *testing.T) {
	tests := []struct {
		in      string
		want    BranchTipo
		wantErr bool
	}{
		{in: "TIENDA", want: BranchTipoTienda},
		{in: " dulceria ", want: BranchTipoDulceria},
		{in: "Restaurante", want: BranchTipoRestaurante},
		{in: "CAFE", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseBranchTipo(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBranchTipo(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBranchTipo(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if BranchTipoDulceria.Label() != "Dulcería" {
		t.Errorf("Label() = %q", BranchTipoDulceria.Label())
	}
	if BranchTipo("OTRO").Label() != "OTRO" {
		t.Error("unknown tipo should label as its raw value")
	}
}
