package tutorial

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jamesprial/marketplace-mcp/internal/graphql"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
)

// ErrJWTRequired is returned by mutations called without a jwt.
var ErrJWTRequired = errors.New("jwt is required")

// Compile-time interface check.
var _ TutorialManager = (*GraphQLTutorialManager)(nil)

// GraphQLTutorialManager implements TutorialManager over the backend GraphQL API.
type GraphQLTutorialManager struct {
	runner   *graphql.Runner
	uploader upload.Uploader
}

// NewGraphQLTutorialManager returns a GraphQLTutorialManager backed by runner
// and uploader.
func NewGraphQLTutorialManager(runner *graphql.Runner, uploader upload.Uploader) *GraphQLTutorialManager {
	if runner == nil {
		panic("graphql runner must not be nil")
	}
	if uploader == nil {
		panic("uploader must not be nil")
	}
	return &GraphQLTutorialManager{runner: runner, uploader: uploader}
}

// Validate checks the tutorial shape before it is sent.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required),
		validation.Field(&in.VideoURL, validation.Required),
		validation.Field(&in.AppTarget, validation.Required, validation.In(AppCustomer, AppMerchant, AppBoth)),
	)
}

func validateID(id string) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return fmt.Errorf("invalid tutorial id: %w", err)
	}
	return nil
}

// list runs one of the list queries and decodes the field named key.
func (m *GraphQLTutorialManager) list(ctx context.Context, op, doc, key string, vars map[string]any, jwt string) ([]Tutorial, error) {
	data, err := m.runner.Query(ctx, doc, vars, jwt)
	if err != nil {
		return nil, fmt.Errorf("tutorial %s: %w", op, err)
	}
	resp, err := graphql.Decode[map[string][]Tutorial](data)
	if err != nil {
		return nil, fmt.Errorf("tutorial %s: %w", op, err)
	}
	return resp[key], nil
}

// List returns every tutorial.
func (m *GraphQLTutorialManager) List(ctx context.Context, jwt string) ([]Tutorial, error) {
	return m.list(ctx, "list", getTutorialsQuery, "tutorials", map[string]any{}, jwt)
}

// ListActive returns the active tutorials.
func (m *GraphQLTutorialManager) ListActive(ctx context.Context, jwt string) ([]Tutorial, error) {
	return m.list(ctx, "list active", getActiveTutorialsQuery, "activeTutorials", map[string]any{}, jwt)
}

// ListByApp returns the tutorials shown by one app.
func (m *GraphQLTutorialManager) ListByApp(ctx context.Context, target AppTarget, jwt string) ([]Tutorial, error) {
	if _, err := ParseAppTarget(string(target)); err != nil {
		return nil, fmt.Errorf("tutorial list by app: %w", err)
	}
	return m.list(ctx, "list by app", getTutorialsByAppQuery, "tutorialsByApp", map[string]any{"appTarget": target}, jwt)
}

// Search matches tutorials by title, description or tags.
func (m *GraphQLTutorialManager) Search(ctx context.Context, query, jwt string) ([]Tutorial, error) {
	if err := validation.Validate(query, validation.Required); err != nil {
		return nil, fmt.Errorf("tutorial search: invalid query: %w", err)
	}
	return m.list(ctx, "search", searchTutorialsQuery, "searchTutorials", map[string]any{"query": query}, jwt)
}

// ListByTags returns the tutorials carrying any of tags.
func (m *GraphQLTutorialManager) ListByTags(ctx context.Context, tags []string, jwt string) ([]Tutorial, error) {
	if err := validation.Validate(tags, validation.Required); err != nil {
		return nil, fmt.Errorf("tutorial list by tags: invalid tags: %w", err)
	}
	return m.list(ctx, "list by tags", getTutorialsByTagsQuery, "tutorialsByTags", map[string]any{"tags": tags}, jwt)
}

// Get returns one tutorial, or nil when it does not exist.
func (m *GraphQLTutorialManager) Get(ctx context.Context, id, jwt string) (*Tutorial, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("tutorial get: %w", err)
	}
	data, err := m.runner.Query(ctx, getTutorialQuery, map[string]any{"id": id}, jwt)
	if err != nil {
		return nil, fmt.Errorf("tutorial get: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Tutorial *Tutorial `json:"tutorial"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("tutorial get: %w", err)
	}
	return resp.Tutorial, nil
}

// Create creates a tutorial.
func (m *GraphQLTutorialManager) Create(ctx context.Context, input CreateInput, jwt string) (*Tutorial, error) {
	if jwt == "" {
		return nil, fmt.Errorf("tutorial create: %w", ErrJWTRequired)
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("tutorial create: %w", err)
	}
	data, err := m.runner.Mutate(ctx, createTutorialMutation, map[string]any{"input": input, "jwt": jwt}, jwt)
	if err != nil {
		return nil, fmt.Errorf("tutorial create: %w", err)
	}
	resp, err := graphql.Decode[struct {
		CreateTutorial Tutorial `json:"createTutorial"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("tutorial create: %w", err)
	}
	return &resp.CreateTutorial, nil
}

// Update changes the fields set in input.
func (m *GraphQLTutorialManager) Update(ctx context.Context, id string, input UpdateInput, jwt string) (*Tutorial, error) {
	if jwt == "" {
		return nil, fmt.Errorf("tutorial update: %w", ErrJWTRequired)
	}
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("tutorial update: %w", err)
	}
	vars := map[string]any{"tutorialId": id, "input": input, "jwt": jwt}
	data, err := m.runner.Mutate(ctx, updateTutorialMutation, vars, jwt)
	if err != nil {
		return nil, fmt.Errorf("tutorial update: %w", err)
	}
	resp, err := graphql.Decode[struct {
		UpdateTutorial Tutorial `json:"updateTutorial"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("tutorial update: %w", err)
	}
	return &resp.UpdateTutorial, nil
}

// Delete removes a tutorial. A result with Success false is not an error.
func (m *GraphQLTutorialManager) Delete(ctx context.Context, id, jwt string) (*DeleteResult, error) {
	if jwt == "" {
		return nil, fmt.Errorf("tutorial delete: %w", ErrJWTRequired)
	}
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("tutorial delete: %w", err)
	}
	data, err := m.runner.Mutate(ctx, deleteTutorialMutation, map[string]any{"tutorialId": id, "jwt": jwt}, jwt)
	if err != nil {
		return nil, fmt.Errorf("tutorial delete: %w", err)
	}
	resp, err := graphql.Decode[struct {
		DeleteTutorial DeleteResult `json:"deleteTutorial"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("tutorial delete: %w", err)
	}
	return &resp.DeleteTutorial, nil
}

// ToggleActive flips the active flag of a tutorial.
func (m *GraphQLTutorialManager) ToggleActive(ctx context.Context, id, jwt string) (*Tutorial, error) {
	if jwt == "" {
		return nil, fmt.Errorf("tutorial toggle active: %w", ErrJWTRequired)
	}
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("tutorial toggle active: %w", err)
	}
	data, err := m.runner.Mutate(ctx, toggleTutorialActiveMutation, map[string]any{"tutorialId": id, "jwt": jwt}, jwt)
	if err != nil {
		return nil, fmt.Errorf("tutorial toggle active: %w", err)
	}
	resp, err := graphql.Decode[struct {
		ToggleTutorialActive Tutorial `json:"toggleTutorialActive"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("tutorial toggle active: %w", err)
	}
	return &resp.ToggleTutorialActive, nil
}

// UploadVideo uploads a tutorial video (.mp4, .mov or .webm).
func (m *GraphQLTutorialManager) UploadVideo(ctx context.Context, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploader.Upload(ctx, upload.TutorialVideo, file, jwt)
}

// UploadThumbnail uploads a tutorial thumbnail image.
func (m *GraphQLTutorialManager) UploadThumbnail(ctx context.Context, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploader.Upload(ctx, upload.TutorialThumbnail, file, jwt)
}
