// Package product provides marketplace products, their categories and
// product search via the backend GraphQL API.
package product

import (
	"context"

	"github.com/jamesprial/marketplace-mcp/internal/upload"
)

// Product is a product sold by a branch.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Description  string    `json:"description,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Image        string    `json:"image,omitempty"`
	Category     *Category `json:"category,omitempty"`
	CategoryID   string    `json:"categoryId,omitempty"`
	Stock        *int      `json:"stock,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	Weight       string    `json:"weight,omitempty"`
	Availability *bool     `json:"availability,omitempty"`
	BranchID     string    `json:"branchId,omitempty"`
	CreatedAt    string    `json:"createdAt,omitempty"`
	UpdatedAt    string    `json:"updatedAt,omitempty"`
}

// Category is a product category.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Gradient string `json:"gradient,omitempty"`
}

// PageInfo describes a cursor page.
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
	TotalCount      int     `json:"totalCount"`
}

// Edge is one product in a connection.
type Edge struct {
	Node   Product `json:"node"`
	Cursor string  `json:"cursor"`
}

// Connection is a page of products.
type Connection struct {
	Edges    []Edge   `json:"edges"`
	PageInfo PageInfo `json:"pageInfo"`
}

// Filters narrows ListProducts. Zero values are not sent, except
// AvailableOnly which the backend requires and defaults to false.
type Filters struct {
	IDs           []string
	BranchID      string
	CategoryID    string
	AvailableOnly bool
	BranchTipo    string
	RadiusKm      *float64
}

// Page selects a cursor page. First defaults to DefaultPageSize when zero.
type Page struct {
	First int
	After string
}

// SearchParams drives SearchProducts. First defaults to DefaultSearchSize.
type SearchParams struct {
	Query           string
	First           int
	After           string
	UseVectorSearch bool
	BranchTipo      string
	RadiusKm        *float64
}

// CreateProductInput creates a product. One of BranchID or BusinessID is
// required; Image is the path returned by UploadImage.
type CreateProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	BranchID    string  `json:"branchId,omitempty"`
	BusinessID  string  `json:"businessId,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	Weight      string  `json:"weight,omitempty"`
	CategoryID  string  `json:"categoryId,omitempty"`
}

// UpdateProductInput changes the given product fields.
type UpdateProductInput struct {
	Name         *string  `json:"name,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Currency     *string  `json:"currency,omitempty"`
	Weight       *string  `json:"weight,omitempty"`
	Availability *bool    `json:"availability,omitempty"`
	CategoryID   *string  `json:"categoryId,omitempty"`
	Image        *string  `json:"image,omitempty"`
}

// DeleteResult is the backend's answer to a delete.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProductManager defines the product operations.
type ProductManager interface {
	ListProducts(ctx context.Context, filters Filters, page Page, jwt string) (*Connection, error)
	GetProduct(ctx context.Context, id, jwt string) (*Product, error)
	ListCategories(ctx context.Context, jwt string) ([]Category, error)
	SearchProducts(ctx context.Context, params SearchParams, jwt string) (*Connection, error)
	CreateProduct(ctx context.Context, input CreateProductInput, jwt string) (*Product, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput, jwt string) (*Product, error)
	DeleteProduct(ctx context.Context, id, jwt string) (*DeleteResult, error)
	UpdateStock(ctx context.Context, id string, stock int, jwt string) (*Product, error)
	UploadImage(ctx context.Context, file upload.File, jwt string) (*upload.Result, error)
}
