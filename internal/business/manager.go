package business

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jamesprial/marketplace-mcp/internal/graphql"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
)

// DefaultPageSize is used when a Page asks for zero items.
const DefaultPageSize = 20

// ErrJWTRequired is returned by operations that only make sense for a
// signed-in user.
var ErrJWTRequired = errors.New("jwt is required")

// Compile-time interface check.
var _ BusinessManager = (*GraphQLBusinessManager)(nil)

// GraphQLBusinessManager implements BusinessManager over the backend GraphQL
// API and its upload endpoints.
type GraphQLBusinessManager struct {
	runner   *graphql.Runner
	uploader upload.Uploader
}

// NewGraphQLBusinessManager returns a GraphQLBusinessManager backed by runner
// and uploader.
func NewGraphQLBusinessManager(runner *graphql.Runner, uploader upload.Uploader) *GraphQLBusinessManager {
	if runner == nil {
		panic("graphql runner must not be nil")
	}
	if uploader == nil {
		panic("uploader must not be nil")
	}
	return &GraphQLBusinessManager{runner: runner, uploader: uploader}
}

// validateID rejects empty ids before a request is built.
func validateID(name, id string) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	return nil
}

// withJWT adds the caller's jwt to vars as the $jwt argument when present.
func withJWT(vars map[string]any, jwt string) map[string]any {
	if jwt != "" {
		vars["jwt"] = jwt
	}
	return vars
}

// pageVars converts a Page into first/after variables.
func pageVars(p Page) map[string]any {
	first := p.First
	if first <= 0 {
		first = DefaultPageSize
	}
	vars := map[string]any{"first": first}
	if p.After != "" {
		vars["after"] = p.After
	}
	return vars
}

// ListBusinesses returns every business visible to jwt.
func (m *GraphQLBusinessManager) ListBusinesses(ctx context.Context, jwt string) ([]Business, error) {
	data, err := m.runner.Query(ctx, getBusinessesQuery, withJWT(map[string]any{}, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("business list: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Businesses []Business `json:"businesses"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business list: %w", err)
	}
	return resp.Businesses, nil
}

// GetBusiness returns one business by id.
func (m *GraphQLBusinessManager) GetBusiness(ctx context.Context, id, jwt string) (*Business, error) {
	if err := validateID("business id", id); err != nil {
		return nil, fmt.Errorf("business get: %w", err)
	}
	data, err := m.runner.Query(ctx, getBusinessQuery, withJWT(map[string]any{"id": id}, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("business get: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Business *Business `json:"business"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business get: %w", err)
	}
	return resp.Business, nil
}

// ListMyBusinesses returns the businesses owned by the user behind jwt.
func (m *GraphQLBusinessManager) ListMyBusinesses(ctx context.Context, jwt string) ([]Business, error) {
	if jwt == "" {
		return nil, fmt.Errorf("business list mine: %w", ErrJWTRequired)
	}
	data, err := m.runner.Query(ctx, getMyBusinessesQuery, map[string]any{"jwt": jwt}, jwt)
	if err != nil {
		return nil, fmt.Errorf("business list mine: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Businesses []Business `json:"businesses"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business list mine: %w", err)
	}
	return resp.Businesses, nil
}

// RegisterBusiness creates a business together with its initial branches.
func (m *GraphQLBusinessManager) RegisterBusiness(ctx context.Context, business CreateBusinessInput, branches []RegisterBranchInput, jwt string) (*Business, error) {
	if branches == nil {
		branches = []RegisterBranchInput{}
	}
	vars := withJWT(map[string]any{
		"businessInput": business,
		"branchesInput": branches,
	}, jwt)
	data, err := m.runner.Mutate(ctx, registerBusinessMutation, vars, jwt)
	if err != nil {
		return nil, fmt.Errorf("business register: %w", err)
	}
	resp, err := graphql.Decode[struct {
		RegisterBusiness Business `json:"registerBusiness"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business register: %w", err)
	}
	return &resp.RegisterBusiness, nil
}

// UpdateBusiness changes the fields set in input.
func (m *GraphQLBusinessManager) UpdateBusiness(ctx context.Context, id string, input UpdateBusinessInput, jwt string) (*Business, error) {
	if err := validateID("business id", id); err != nil {
		return nil, fmt.Errorf("business update: %w", err)
	}
	vars := withJWT(map[string]any{"businessId": id, "input": input}, jwt)
	data, err := m.runner.Mutate(ctx, updateBusinessMutation, vars, jwt)
	if err != nil {
		return nil, fmt.Errorf("business update: %w", err)
	}
	resp, err := graphql.Decode[struct {
		UpdateBusiness Business `json:"updateBusiness"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business update: %w", err)
	}
	return &resp.UpdateBusiness, nil
}

// ListBranches returns a page of branches matching filter.
func (m *GraphQLBusinessManager) ListBranches(ctx context.Context, filter BranchFilter, jwt string) (*BranchConnection, error) {
	vars := pageVars(filter.Page)
	if filter.BusinessID != "" {
		vars["businessId"] = filter.BusinessID
	}
	if filter.OnlyActive != nil {
		vars["onlyActive"] = *filter.OnlyActive
	}
	if filter.Tipo != "" {
		vars["tipo"] = filter.Tipo
	}
	data, err := m.runner.Query(ctx, getBranchesQuery, withJWT(vars, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("branch list: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Branches BranchConnection `json:"branches"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("branch list: %w", err)
	}
	return &resp.Branches, nil
}

// GetBranch returns one branch by id.
func (m *GraphQLBusinessManager) GetBranch(ctx context.Context, id, jwt string) (*Branch, error) {
	if err := validateID("branch id", id); err != nil {
		return nil, fmt.Errorf("branch get: %w", err)
	}
	data, err := m.runner.Query(ctx, getBranchQuery, withJWT(map[string]any{"id": id}, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("branch get: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Branch *Branch `json:"branch"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("branch get: %w", err)
	}
	return resp.Branch, nil
}

// ListMyBranches returns a page of the caller's branches of one business.
func (m *GraphQLBusinessManager) ListMyBranches(ctx context.Context, businessID string, page Page, jwt string) (*BranchConnection, error) {
	if jwt == "" {
		return nil, fmt.Errorf("branch list mine: %w", ErrJWTRequired)
	}
	if err := validateID("business id", businessID); err != nil {
		return nil, fmt.Errorf("branch list mine: %w", err)
	}
	vars := pageVars(page)
	vars["businessId"] = businessID
	vars["jwt"] = jwt
	data, err := m.runner.Query(ctx, getMyBranchesQuery, vars, jwt)
	if err != nil {
		return nil, fmt.Errorf("branch list mine: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Branches BranchConnection `json:"branches"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("branch list mine: %w", err)
	}
	return &resp.Branches, nil
}

// CreateBranch adds a branch to an existing business.
func (m *GraphQLBusinessManager) CreateBranch(ctx context.Context, input CreateBranchInput, jwt string) (*Branch, error) {
	data, err := m.runner.Mutate(ctx, createBranchMutation, withJWT(map[string]any{"input": input}, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("branch create: %w", err)
	}
	resp, err := graphql.Decode[struct {
		CreateBranch Branch `json:"createBranch"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("branch create: %w", err)
	}
	return &resp.CreateBranch, nil
}

// UpdateBranch changes the fields set in input.
func (m *GraphQLBusinessManager) UpdateBranch(ctx context.Context, id string, input UpdateBranchInput, jwt string) (*Branch, error) {
	if err := validateID("branch id", id); err != nil {
		return nil, fmt.Errorf("branch update: %w", err)
	}
	vars := withJWT(map[string]any{"branchId": id, "input": input}, jwt)
	data, err := m.runner.Mutate(ctx, updateBranchMutation, vars, jwt)
	if err != nil {
		return nil, fmt.Errorf("branch update: %w", err)
	}
	resp, err := graphql.Decode[struct {
		UpdateBranch Branch `json:"updateBranch"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("branch update: %w", err)
	}
	return &resp.UpdateBranch, nil
}

// AddBranchToUser grants a user access to a branch.
func (m *GraphQLBusinessManager) AddBranchToUser(ctx context.Context, input BranchAssignment, jwt string) (*UserBranches, error) {
	if err := validateID("branch id", input.BranchID); err != nil {
		return nil, fmt.Errorf("branch add to user: %w", err)
	}
	data, err := m.runner.Mutate(ctx, addBranchToUserMutation, withJWT(map[string]any{"input": input}, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("branch add to user: %w", err)
	}
	resp, err := graphql.Decode[struct {
		AddBranchToUser UserBranches `json:"addBranchToUser"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("branch add to user: %w", err)
	}
	return &resp.AddBranchToUser, nil
}

// RemoveBranchFromUser revokes a user's access to a branch.
func (m *GraphQLBusinessManager) RemoveBranchFromUser(ctx context.Context, input BranchAssignment, jwt string) (*UserBranches, error) {
	if err := validateID("branch id", input.BranchID); err != nil {
		return nil, fmt.Errorf("branch remove from user: %w", err)
	}
	data, err := m.runner.Mutate(ctx, removeBranchFromUserMutation, withJWT(map[string]any{"input": input}, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("branch remove from user: %w", err)
	}
	resp, err := graphql.Decode[struct {
		RemoveBranchFromUser UserBranches `json:"removeBranchFromUser"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("branch remove from user: %w", err)
	}
	return &resp.RemoveBranchFromUser, nil
}

// UploadBusinessAvatar uploads a business avatar image.
func (m *GraphQLBusinessManager) UploadBusinessAvatar(ctx context.Context, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploader.Upload(ctx, upload.BusinessAvatar, file, jwt)
}

// UploadBusinessCover uploads a business cover image.
func (m *GraphQLBusinessManager) UploadBusinessCover(ctx context.Context, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploader.Upload(ctx, upload.BusinessCover, file, jwt)
}

// UploadBranchAvatar uploads a branch avatar image.
func (m *GraphQLBusinessManager) UploadBranchAvatar(ctx context.Context, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploader.Upload(ctx, upload.BranchAvatar, file, jwt)
}

// UploadBranchCover uploads a branch cover image.
func (m *GraphQLBusinessManager) UploadBranchCover(ctx context.Context, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploader.Upload(ctx, upload.BranchCover, file, jwt)
}
