package product

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/jamesprial/marketplace-mcp/internal/graphql"
	"github.com/jamesprial/marketplace-mcp/internal/upload"
)

const (
	// DefaultPageSize is used by ListProducts when Page.First is zero.
	DefaultPageSize = 20
	// DefaultSearchSize is used by SearchProducts when First is zero.
	DefaultSearchSize = 10
)

// Compile-time interface check.
var _ ProductManager = (*GraphQLProductManager)(nil)

// GraphQLProductManager implements ProductManager over the backend GraphQL API.
type GraphQLProductManager struct {
	runner   *graphql.Runner
	uploader upload.Uploader
}

// NewGraphQLProductManager returns a GraphQLProductManager backed by runner
// and uploader.
func NewGraphQLProductManager(runner *graphql.Runner, uploader upload.Uploader) *GraphQLProductManager {
	if runner == nil {
		panic("graphql runner must not be nil")
	}
	if uploader == nil {
		panic("uploader must not be nil")
	}
	return &GraphQLProductManager{runner: runner, uploader: uploader}
}

// Validate checks the product shape before it is sent.
func (in CreateProductInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.BranchID,
			validation.Required.When(in.BusinessID == "").Error("branchId or businessId is required"),
		),
	)
}

func validateID(id string) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	return nil
}

func withJWT(vars map[string]any, jwt string) map[string]any {
	if jwt != "" {
		vars["jwt"] = jwt
	}
	return vars
}

// ListProducts returns a page of products matching filters.
func (m *GraphQLProductManager) ListProducts(ctx context.Context, filters Filters, page Page, jwt string) (*Connection, error) {
	first := page.First
	if first <= 0 {
		first = DefaultPageSize
	}
	vars := map[string]any{
		"first":         first,
		"availableOnly": filters.AvailableOnly,
	}
	if page.After != "" {
		vars["after"] = page.After
	}
	if len(filters.IDs) > 0 {
		vars["ids"] = filters.IDs
	}
	if filters.BranchID != "" {
		vars["branchId"] = filters.BranchID
	}
	if filters.CategoryID != "" {
		vars["categoryId"] = filters.CategoryID
	}
	if filters.BranchTipo != "" {
		vars["branchTipo"] = filters.BranchTipo
	}
	if filters.RadiusKm != nil {
		vars["radiusKm"] = *filters.RadiusKm
	}

	data, err := m.runner.Query(ctx, getProductsQuery, withJWT(vars, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("product list: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Products Connection `json:"products"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("product list: %w", err)
	}
	return &resp.Products, nil
}

// GetProduct returns one product with its category and stock.
func (m *GraphQLProductManager) GetProduct(ctx context.Context, id, jwt string) (*Product, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("product get: %w", err)
	}
	data, err := m.runner.Query(ctx, getProductQuery, map[string]any{"id": id}, jwt)
	if err != nil {
		return nil, fmt.Errorf("product get: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Product *Product `json:"product"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("product get: %w", err)
	}
	return resp.Product, nil
}

// ListCategories returns every product category.
func (m *GraphQLProductManager) ListCategories(ctx context.Context, jwt string) ([]Category, error) {
	data, err := m.runner.Query(ctx, getCategoriesQuery, map[string]any{}, jwt)
	if err != nil {
		return nil, fmt.Errorf("product categories: %w", err)
	}
	resp, err := graphql.Decode[struct {
		Categories []Category `json:"categories"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("product categories: %w", err)
	}
	return resp.Categories, nil
}

// SearchProducts runs a text or vector search.
func (m *GraphQLProductManager) SearchProducts(ctx context.Context, params SearchParams, jwt string) (*Connection, error) {
	if err := validation.Validate(params.Query, validation.Required); err != nil {
		return nil, fmt.Errorf("product search: invalid query: %w", err)
	}
	first := params.First
	if first <= 0 {
		first = DefaultSearchSize
	}
	vars := map[string]any{
		"query":           params.Query,
		"first":           first,
		"useVectorSearch": params.UseVectorSearch,
	}
	if params.After != "" {
		vars["after"] = params.After
	}
	if params.BranchTipo != "" {
		vars["branchTipo"] = params.BranchTipo
	}
	if params.RadiusKm != nil {
		vars["radiusKm"] = *params.RadiusKm
	}

	data, err := m.runner.Query(ctx, searchProductsQuery, withJWT(vars, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("product search: %w", err)
	}
	resp, err := graphql.Decode[struct {
		SearchProducts Connection `json:"searchProducts"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("product search: %w", err)
	}
	return &resp.SearchProducts, nil
}

// CreateProduct creates a product.
func (m *GraphQLProductManager) CreateProduct(ctx context.Context, input CreateProductInput, jwt string) (*Product, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("product create: %w", err)
	}
	data, err := m.runner.Mutate(ctx, createProductMutation, withJWT(map[string]any{"input": input}, jwt), jwt)
	if err != nil {
		return nil, fmt.Errorf("product create: %w", err)
	}
	resp, err := graphql.Decode[struct {
		CreateProduct Product `json:"createProduct"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("product create: %w", err)
	}
	return &resp.CreateProduct, nil
}

// UpdateProduct changes the fields set in input.
func (m *GraphQLProductManager) UpdateProduct(ctx context.Context, id string, input UpdateProductInput, jwt string) (*Product, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("product update: %w", err)
	}
	data, err := m.runner.Mutate(ctx, updateProductMutation, map[string]any{"id": id, "input": input}, jwt)
	if err != nil {
		return nil, fmt.Errorf("product update: %w", err)
	}
	resp, err := graphql.Decode[struct {
		UpdateProduct Product `json:"updateProduct"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("product update: %w", err)
	}
	return &resp.UpdateProduct, nil
}

// DeleteProduct deletes a product. A result with Success false is returned
// as is; it is not an error.
func (m *GraphQLProductManager) DeleteProduct(ctx context.Context, id, jwt string) (*DeleteResult, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("product delete: %w", err)
	}
	data, err := m.runner.Mutate(ctx, deleteProductMutation, map[string]any{"id": id}, jwt)
	if err != nil {
		return nil, fmt.Errorf("product delete: %w", err)
	}
	resp, err := graphql.Decode[struct {
		DeleteProduct DeleteResult `json:"deleteProduct"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("product delete: %w", err)
	}
	return &resp.DeleteProduct, nil
}

// UpdateStock sets the stock count of a product.
func (m *GraphQLProductManager) UpdateStock(ctx context.Context, id string, stock int, jwt string) (*Product, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("product update stock: %w", err)
	}
	data, err := m.runner.Mutate(ctx, updateStockMutation, map[string]any{"id": id, "stock": stock}, jwt)
	if err != nil {
		return nil, fmt.Errorf("product update stock: %w", err)
	}
	resp, err := graphql.Decode[struct {
		UpdateProductStock Product `json:"updateProductStock"`
	}](data)
	if err != nil {
		return nil, fmt.Errorf("product update stock: %w", err)
	}
	return &resp.UpdateProductStock, nil
}

// UploadImage uploads a product image.
func (m *GraphQLProductManager) UploadImage(ctx context.Context, file upload.File, jwt string) (*upload.Result, error) {
	return m.uploader.Upload(ctx, upload.ProductImage, file, jwt)
}
