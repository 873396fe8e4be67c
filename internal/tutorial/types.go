// Package tutorial manages the in-app video tutorials via the backend GraphQL
// API and the video and thumbnail upload endpoints.
package tutorial

import (
	"context"
	"fmt"
	"strings"

	"github.com/jamesprial/marketplace-mcp/internal/upload"
)

// AppTarget selects which app shows a tutorial.
type AppTarget string

const (
	AppCustomer AppTarget = "CUSTOMER"
	AppMerchant AppTarget = "MERCHANT"
	AppBoth     AppTarget = "BOTH"
)

// ParseAppTarget accepts an app target case-insensitively.
func ParseAppTarget(s string) (AppTarget, error) {
	t := AppTarget(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case AppCustomer, AppMerchant, AppBoth:
		return t, nil
	}
	return "", fmt.Errorf("invalid app target %q: must be CUSTOMER, MERCHANT, or BOTH", s)
}

// Tutorial is a video tutorial. VideoURL and ThumbnailURL are storage paths;
// the *Signed fields are viewable URLs.
type Tutorial struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	VideoURL           string    `json:"videoUrl"`
	VideoURLSigned     string    `json:"videoUrlSigned,omitempty"`
	Duration           int       `json:"duration"`
	AppTarget          AppTarget `json:"appTarget"`
	ThumbnailURL       string    `json:"thumbnailUrl,omitempty"`
	ThumbnailURLSigned string    `json:"thumbnailUrlSigned,omitempty"`
	Order              int       `json:"order"`
	IsActive           bool      `json:"isActive"`
	Tags               []string  `json:"tags"`
	CreatedAt          string    `json:"createdAt,omitempty"`
	UpdatedAt          string    `json:"updatedAt,omitempty"`
}

// CreateInput creates a tutorial. Duration is in seconds.
type CreateInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoUrl"`
	Duration     int       `json:"duration"`
	AppTarget    AppTarget `json:"appTarget"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Order        *int      `json:"order,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
}

// UpdateInput changes the given tutorial fields.
type UpdateInput struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	VideoURL     *string    `json:"videoUrl,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	AppTarget    *AppTarget `json:"appTarget,omitempty"`
	ThumbnailURL *string    `json:"thumbnailUrl,omitempty"`
	Order        *int       `json:"order,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
}

// DeleteResult is the backend's answer to a delete.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TutorialManager defines the tutorial operations. Mutations require the
// caller's jwt.
type TutorialManager interface {
	List(ctx context.Context, jwt string) ([]Tutorial, error)
	ListActive(ctx context.Context, jwt string) ([]Tutorial, error)
	ListByApp(ctx context.Context, target AppTarget, jwt string) ([]Tutorial, error)
	Get(ctx context.Context, id, jwt string) (*Tutorial, error)
	Search(ctx context.Context, query, jwt string) ([]Tutorial, error)
	ListByTags(ctx context.Context, tags []string, jwt string) ([]Tutorial, error)

	Create(ctx context.Context, input CreateInput, jwt string) (*Tutorial, error)
	Update(ctx context.Context, id string, input UpdateInput, jwt string) (*Tutorial, error)
	Delete(ctx context.Context, id, jwt string) (*DeleteResult, error)
	ToggleActive(ctx context.Context, id, jwt string) (*Tutorial, error)

	UploadVideo(ctx context.Context, file upload.File, jwt string) (*upload.Result, error)
	UploadThumbnail(ctx context.Context, file upload.File, jwt string) (*upload.Result, error)
}
