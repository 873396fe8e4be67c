package businesstype

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jamesprial/marketplace-mcp/internal/graphql"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
)

// ErrJWTRequired is returned by mutations called without a jwt.
var ErrJWTRequired = errors.New("jwt is required")

// Compile-time interface check.
var _ Manager = (*GraphQLManager)(nil)

// GraphQLManager implements Manager over the backend GraphQL API.
type GraphQLManager struct {
	runner   *graphql.Runner
	uploader upload.Uploader
}

// NewGraphQLManager returns a GraphQLManager backed by runner and uploader.
func NewGraphQLManager(runner *graphql.Runner, uploader upload.Uploader) *GraphQLManager {
	if runner == nil {
		panic("graphql runner must not be nil")
	}
	if uploader == nil {
		panic("uploader must not be nil")
	}
	return &GraphQLManager{runner: runner, uploader: uploader}
}

// Validate checks the fields the backend cannot default.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Key, validation.Required),
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Model3DFileName, validation.Required),
	)
}

func requireJWT(jwt string) error {
	if jwt == "" {
		return ErrJWTRequired
	}
	return nil
}

func validateID(id string) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return fmt.Errorf("invalid config id: %w", err)
	}
	return nil
}

// ListConfigs returns the business-type configs.
func (m *GraphQLManager) ListConfigs(ctx context.Context, lastSyncAt *time.Time, jwt string) ([]TypeConfig, error) {
	vars := map[string]any{}
	if lastSyncAt != nil {
		vars["lastSyncAt"] = lastSyncAt.UTC().Format(time.RFC3339)
	}
	data, err := m.runner.Query(ctx, getConfigsQuery, vars, jwt)
	if err != nil {
		return nil, fmt.Errorf("business type list: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Configs []TypeConfig `json:"businessTypeConfigs"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business type list: %w", err)
	}
	return resp.Configs, nil
}

// CreateConfig creates a business-type config.
func (m *GraphQLManager) CreateConfig(ctx context.Context, input CreateInput, jwt string) (*TypeConfig, error) {
	if err := requireJWT(jwt); err != nil {
		return nil, fmt.Errorf("business type create: %w", err)
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("business type create: %w", err)
	}
	if input.Features == nil {
		input.Features = []Feature{}
	}
	data, err := m.runner.Mutate(ctx, createConfigMutation, map[string]any{"input": input, "jwt": jwt}, jwt)
	if err != nil {
		return nil, fmt.Errorf("business type create: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Config TypeConfig `json:"createBusinessTypeConfig"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business type create: %w", err)
	}
	return &resp.Config, nil
}

// UpdateConfig changes the fields set in input.
func (m *GraphQLManager) UpdateConfig(ctx context.Context, id string, input UpdateInput, jwt string) (*TypeConfig, error) {
	if err := requireJWT(jwt); err != nil {
		return nil, fmt.Errorf("business type update: %w", err)
	}
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("business type update: %w", err)
	}
	data, err := m.runner.Mutate(ctx, updateConfigMutation, map[string]any{"id": id, "input": input, "jwt": jwt}, jwt)
	if err != nil {
		return nil, fmt.Errorf("business type update: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Config TypeConfig `json:"updateBusinessTypeConfig"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business type update: %w", err)
	}
	return &resp.Config, nil
}

// DeactivateConfig soft-deletes a config. The returned value only carries
// id and isActive.
func (m *GraphQLManager) DeactivateConfig(ctx context.Context, id, jwt string) (*TypeConfig, error) {
	if err := requireJWT(jwt); err != nil {
		return nil, fmt.Errorf("business type deactivate: %w", err)
	}
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("business type deactivate: %w", err)
	}
	data, err := m.runner.Mutate(ctx, deactivateConfigMutation, map[string]any{"id": id, "jwt": jwt}, jwt)
	if err != nil {
		return nil, fmt.Errorf("business type deactivate: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Config TypeConfig `json:"deactivateBusinessTypeConfig"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("business type deactivate: %w", err)
	}
	return &resp.Config, nil
}

// DeleteConfig hard-deletes a config and reports whether the backend removed it.
func (m *GraphQLManager) DeleteConfig(ctx context.Context, id, jwt string) (bool, error) {
	if err := requireJWT(jwt); err != nil {
		return false, fmt.Errorf("business type delete: %w", err)
	}
	if err := validateID(id); err != nil {
		return false, fmt.Errorf("business type delete: %w", err)
	}
	data, err := m.runner.Mutate(ctx, deleteConfigMutation, map[string]any{"id": id, "jwt": jwt}, jwt)
	if err != nil {
		return false, fmt.Errorf("business type delete: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Deleted bool `json:"deleteBusinessTypeConfig"`
	}](data)
	if err != nil {
		return false, fmt.Errorf("business type delete: %w", err)
	}
	return resp.Deleted, nil
}

// UploadModel3D uploads a .usdz or .glb model.
func (m *GraphQLManager) UploadModel3D(ctx context.Context, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploader.Upload(ctx, upload.BusinessTypeModel, file, jwt)
}
