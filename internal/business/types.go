// Package business provides businesses and branches of the marketplace via
// the backend GraphQL API, plus their avatar and cover uploads.
package business

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jamesprial/marketplace-mcp/internal/upload"
)

// BranchTipo classifies a branch.
type BranchTipo string

const (
	BranchTipoRestaurante BranchTipo = "RESTAURANTE"
	BranchTipoDulceria    BranchTipo = "DULCERIA"
	BranchTipoTienda      BranchTipo = "TIENDA"
)

// BranchTipoLabels holds the Spanish display label of every branch type.
var BranchTipoLabels = map[BranchTipo]string{
	BranchTipoRestaurante: "Restaurante",
	BranchTipoDulceria:    "Dulcería",
	BranchTipoTienda:      "Tienda",
}

// BranchTipos lists every branch type in display order.
var BranchTipos = []BranchTipo{BranchTipoRestaurante, BranchTipoDulceria, BranchTipoTienda}

// BranchTipoOption pairs a branch type with its display label.
type BranchTipoOption struct {
	Value BranchTipo `json:"value"`
	Label string     `json:"label"`
}

// BranchTipoOptions returns BranchTipos with their labels.
func BranchTipoOptions() []BranchTipoOption {
	out := make([]BranchTipoOption, 0, len(BranchTipos))
	for _, t := range BranchTipos {
		out = append(out, BranchTipoOption{Value: t, Label: t.Label()})
	}
	return out
}

// Label returns the Spanish display label, or the raw value when unknown.
func (t BranchTipo) Label() string {
	if l, ok := BranchTipoLabels[t]; ok {
		return l
	}
	return string(t)
}

// ParseBranchTipo accepts a branch type case-insensitively.
func ParseBranchTipo(s string) (BranchTipo, error) {
	t := BranchTipo(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := BranchTipoLabels[t]; !ok {
		return "", fmt.Errorf("invalid branch tipo %q: must be RESTAURANTE, DULCERIA, or TIENDA", s)
	}
	return t, nil
}

// BranchStatus is the lifecycle state of a branch.
type BranchStatus string

const (
	BranchStatusActive   BranchStatus = "active"
	BranchStatusInactive BranchStatus = "inactive"
	BranchStatusPending  BranchStatus = "pending"
)

// Coordinates is a latitude/longitude pair as sent in inputs.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// GeoPoint is the GeoJSON point returned by the backend. Coordinates holds
// [lng, lat].
type GeoPoint struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

// LatLng converts the point back to Coordinates. ok is false when the point
// has fewer than two values.
func (p GeoPoint) LatLng() (Coordinates, bool) {
	if len(p.Coordinates) < 2 {
		return Coordinates{}, false
	}
	return Coordinates{Lat: p.Coordinates[1], Lng: p.Coordinates[0]}, true
}

// Hours lists the time ranges of one schedule day. The backend returns a day
// either as a single string or as a list of strings; both decode to a list.
type Hours []string

// UnmarshalJSON accepts a string, a list of strings or null.
func (h *Hours) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*h = Hours{}
		} else {
			*h = Hours{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("schedule hours: %w", err)
	}
	*h = many
	return nil
}

// Schedule maps a day name to its opening hours.
type Schedule map[string]Hours

// Business is a marketplace business.
type Business struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Type         string            `json:"type,omitempty"`
	OwnerID      string            `json:"ownerId,omitempty"`
	GlobalRating *float64          `json:"globalRating,omitempty"`
	Avatar       string            `json:"avatar,omitempty"`
	CoverImage   string            `json:"coverImage,omitempty"`
	Description  string            `json:"description,omitempty"`
	SocialMedia  map[string]string `json:"socialMedia,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	IsActive     bool              `json:"isActive"`
	CreatedAt    string            `json:"createdAt,omitempty"`
	AvatarURL    string            `json:"avatarUrl,omitempty"`
	CoverURL     string            `json:"coverUrl,omitempty"`
}

// Branch is a physical location of a business.
type Branch struct {
	ID             string       `json:"id"`
	BusinessID     string       `json:"businessId,omitempty"`
	Name           string       `json:"name"`
	Tipos          []BranchTipo `json:"tipos"`
	Address        string       `json:"address,omitempty"`
	Coordinates    *GeoPoint    `json:"coordinates,omitempty"`
	Phone          string       `json:"phone,omitempty"`
	Schedule       Schedule     `json:"schedule,omitempty"`
	ManagerIDs     []string     `json:"managerIds,omitempty"`
	Status         BranchStatus `json:"status,omitempty"`
	Avatar         string       `json:"avatar,omitempty"`
	CoverImage     string       `json:"coverImage,omitempty"`
	DeliveryRadius *float64     `json:"deliveryRadius,omitempty"`
	Facilities     []string     `json:"facilities,omitempty"`
	CreatedAt      string       `json:"createdAt,omitempty"`
	AvatarURL      string       `json:"avatarUrl,omitempty"`
	CoverURL       string       `json:"coverUrl,omitempty"`
}

// PageInfo describes a cursor page.
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
	TotalCount      int     `json:"totalCount"`
}

// BranchEdge is one branch in a connection.
type BranchEdge struct {
	Node   Branch `json:"node"`
	Cursor string `json:"cursor"`
}

// BranchConnection is a page of branches.
type BranchConnection struct {
	Edges    []BranchEdge `json:"edges"`
	PageInfo PageInfo     `json:"pageInfo"`
}

// Page selects a cursor page. First defaults to DefaultPageSize when zero.
type Page struct {
	First int
	After string
}

// BranchFilter narrows ListBranches. Zero values are not sent.
type BranchFilter struct {
	Page
	BusinessID string
	OnlyActive *bool
	Tipo       BranchTipo
}

// CreateBusinessInput registers a new business.
type CreateBusinessInput struct {
	Name        string            `json:"name"`
	Avatar      string            `json:"avatar,omitempty"`
	Description string            `json:"description,omitempty"`
	SocialMedia map[string]string `json:"socialMedia,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

// RegisterBranchInput is a branch created together with its business.
type RegisterBranchInput struct {
	Name           string              `json:"name"`
	Tipos          []BranchTipo        `json:"tipos"`
	Coordinates    Coordinates         `json:"coordinates"`
	Phone          string              `json:"phone"`
	Schedule       map[string][]string `json:"schedule"`
	Address        string              `json:"address,omitempty"`
	Avatar         string              `json:"avatar,omitempty"`
	CoverImage     string              `json:"coverImage,omitempty"`
	DeliveryRadius *float64            `json:"deliveryRadius,omitempty"`
	Facilities     []string            `json:"facilities,omitempty"`
}

// CreateBranchInput adds a branch to an existing business.
type CreateBranchInput struct {
	BusinessID     string              `json:"businessId"`
	Name           string              `json:"name"`
	Tipos          []BranchTipo        `json:"tipos"`
	Coordinates    Coordinates         `json:"coordinates"`
	Phone          string              `json:"phone"`
	Schedule       map[string][]string `json:"schedule"`
	Address        string              `json:"address,omitempty"`
	ManagerIDs     []string            `json:"managerIds,omitempty"`
	Avatar         string              `json:"avatar,omitempty"`
	CoverImage     string              `json:"coverImage,omitempty"`
	DeliveryRadius *float64            `json:"deliveryRadius,omitempty"`
	Facilities     []string            `json:"facilities,omitempty"`
}

// UpdateBusinessInput changes the given business fields.
type UpdateBusinessInput struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	SocialMedia map[string]string `json:"socialMedia,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	IsActive    *bool             `json:"isActive,omitempty"`
	Avatar      *string           `json:"avatar,omitempty"`
}

// UpdateBranchInput changes the given branch fields.
type UpdateBranchInput struct {
	Name           *string             `json:"name,omitempty"`
	Tipos          []BranchTipo        `json:"tipos,omitempty"`
	Address        *string             `json:"address,omitempty"`
	Phone          *string             `json:"phone,omitempty"`
	Schedule       map[string][]string `json:"schedule,omitempty"`
	Status         *BranchStatus       `json:"status,omitempty"`
	DeliveryRadius *float64            `json:"deliveryRadius,omitempty"`
	Facilities     []string            `json:"facilities,omitempty"`
	ManagerIDs     []string            `json:"managerIds,omitempty"`
	Avatar         *string             `json:"avatar,omitempty"`
	CoverImage     *string             `json:"coverImage,omitempty"`
}

// BranchAssignment links or unlinks a branch and a user.
type BranchAssignment struct {
	UserID   string `json:"userId,omitempty"`
	BranchID string `json:"branchId"`
}

// UserBranches is the set of branches a user manages after an assignment
// change.
type UserBranches struct {
	ID        string   `json:"id"`
	BranchIDs []string `json:"branchIds"`
}

// Category is an entry of the business category catalogue.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Categories is the catalogue of business kinds offered when registering.
var Categories = []Category{
	{ID: "restaurant", Label: "Restaurante"},
	{ID: "store", Label: "Tienda"},
	{ID: "supermarket", Label: "Supermercado"},
	{ID: "pharmacy", Label: "Farmacia"},
	{ID: "bakery", Label: "Panadería"},
	{ID: "cafe", Label: "Cafetería"},
	{ID: "electronics", Label: "Electrónica"},
	{ID: "clothing", Label: "Ropa"},
	{ID: "services", Label: "Servicios"},
	{ID: "other", Label: "Otro"},
}

// BusinessManager defines the business and branch operations. jwt is the
// caller's access token; it may be empty unless the method says otherwise.
type BusinessManager interface {
	ListBusinesses(ctx context.Context, jwt string) ([]Business, error)
	GetBusiness(ctx context.Context, id, jwt string) (*Business, error)
	ListMyBusinesses(ctx context.Context, jwt string) ([]Business, error)
	RegisterBusiness(ctx context.Context, business CreateBusinessInput, branches []RegisterBranchInput, jwt string) (*Business, error)
	UpdateBusiness(ctx context.Context, id string, input UpdateBusinessInput, jwt string) (*Business, error)

	ListBranches(ctx context.Context, filter BranchFilter, jwt string) (*BranchConnection, error)
	GetBranch(ctx context.Context, id, jwt string) (*Branch, error)
	ListMyBranches(ctx context.Context, businessID string, page Page, jwt string) (*BranchConnection, error)
	CreateBranch(ctx context.Context, input CreateBranchInput, jwt string) (*Branch, error)
	UpdateBranch(ctx context.Context, id string, input UpdateBranchInput, jwt string) (*Branch, error)
	AddBranchToUser(ctx context.Context, input BranchAssignment, jwt string) (*UserBranches, error)
	RemoveBranchFromUser(ctx context.Context, input BranchAssignment, jwt string) (*UserBranches, error)

	UploadBusinessAvatar(ctx context.Context, file upload.File, jwt string) (*upload.Result, error)
	UploadBusinessCover(ctx context.Context, file upload.File, jwt string) (*upload.Result, error)
	UploadBranchAvatar(ctx context.Context, file upload.File, jwt string) (*upload.Result, error)
	UploadBranchCover(ctx context.Context, file upload.File, jwt string) (*upload.Result, error)
}
