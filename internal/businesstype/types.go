// Package businesstype manages the business-type configurations (3D model,
// colours and feature list shown for each kind of business) via the backend
// GraphQL API.
package businesstype

import (
	"context"
	"time"

	"github.com/jamesprial/marketplace-mcp/internal/upload"
)

// Gradient holds the colour ramp of a business type.
type Gradient struct {
	DarkColor      string `json:"darkColor"`
	MediumColor    string `json:"mediumColor"`
	LightColor     string `json:"lightColor"`
	VeryLightColor string `json:"veryLightColor"`
	OverlayColor   string `json:"overlayColor"`
}

// Camera positions the 3D model viewer.
type Camera struct {
	PositionX float64  `json:"positionX"`
	PositionY float64  `json:"positionY"`
	PositionZ float64  `json:"positionZ"`
	EulerX    *float64 `json:"eulerX,omitempty"`
	EulerY    *float64 `json:"eulerY,omitempty"`
	EulerZ    *float64 `json:"eulerZ,omitempty"`
}

// Feature is one highlighted feature of a business type.
type Feature struct {
	Icon      string `json:"icon"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	SortOrder int    `json:"sortOrder"`
}

// TypeConfig is the presentation config of one business type.
type TypeConfig struct {
	ID                  string    `json:"id"`
	Key                 string    `json:"key"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Icon                string    `json:"icon"`
	Model3DFileName     string    `json:"model3dFileName"`
	Model3DURL          string    `json:"model3dUrl,omitempty"`
	Model3DPresignedURL string    `json:"model3dPresignedUrl,omitempty"`
	Model3DVersion      int       `json:"model3dVersion"`
	Gradient            Gradient  `json:"gradient"`
	Camera              Camera    `json:"camera"`
	GlowColor           string    `json:"glowColor"`
	Features            []Feature `json:"features"`
	SortOrder           int       `json:"sortOrder"`
	IsActive            bool      `json:"isActive"`
	CreatedAt           string    `json:"createdAt,omitempty"`
	UpdatedAt           string    `json:"updatedAt,omitempty"`
}

// CreateInput creates a business-type config. PushTitle and PushBody, when
// set, are sent as a push notification announcing the new type.
type CreateInput struct {
	Key             string    `json:"key"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	Model3DFileName string    `json:"model3dFileName"`
	Model3DURL      string    `json:"model3dUrl,omitempty"`
	Gradient        Gradient  `json:"gradient"`
	Camera          Camera    `json:"camera"`
	GlowColor       string    `json:"glowColor"`
	Features        []Feature `json:"features"`
	SortOrder       int       `json:"sortOrder"`
	PushTitle       string    `json:"pushTitle,omitempty"`
	PushBody        string    `json:"pushBody,omitempty"`
}

// UpdateInput changes the given fields of a business-type config.
type UpdateInput struct {
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Icon            *string   `json:"icon,omitempty"`
	Model3DFileName *string   `json:"model3dFileName,omitempty"`
	Model3DURL      *string   `json:"model3dUrl,omitempty"`
	Model3DVersion  *int      `json:"model3dVersion,omitempty"`
	Gradient        *Gradient `json:"gradient,omitempty"`
	Camera          *Camera   `json:"camera,omitempty"`
	GlowColor       *string   `json:"glowColor,omitempty"`
	Features        []Feature `json:"features,omitempty"`
	SortOrder       *int      `json:"sortOrder,omitempty"`
	IsActive        *bool     `json:"isActive,omitempty"`
}

// Manager defines the business-type config operations. Every mutation
// requires the caller's jwt.
type Manager interface {
	// ListConfigs returns every config, or only those changed after
	// lastSyncAt when it is non-nil.
	ListConfigs(ctx context.Context, lastSyncAt *time.Time, jwt string) ([]TypeConfig, error)
	CreateConfig(ctx context.Context, input CreateInput, jwt string) (*TypeConfig, error)
	UpdateConfig(ctx context.Context, id string, input UpdateInput, jwt string) (*TypeConfig, error)
	// DeactivateConfig hides a config without deleting it.
	DeactivateConfig(ctx context.Context, id, jwt string) (*TypeConfig, error)
	// DeleteConfig removes a config permanently.
	DeleteConfig(ctx context.Context, id, jwt string) (bool, error)
	UploadModel3D(ctx context.Context, file upload.File, jwt string) (*upload.Result, error)
}
