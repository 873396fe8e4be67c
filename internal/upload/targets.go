// Package upload sends files to the marketplace backend's REST upload
// endpoints as multipart form data.
package upload

import (
	"sort"
)

// Target describes one upload endpoint: where it lives, which multipart field
// carries the file and which keys the backend answers with.
type Target struct {
	// Path is appended to "<backend>/upload/".
	Path string
	// Field is the multipart form field holding the file.
	Field string
	// Key prefixes the response keys: "<Key>_path" and "<Key>_url".
	Key string
	// Noun names the uploaded thing in error messages.
	Noun string
	// MaxSize and Allowed describe the backend limits for the 413/415 messages.
	MaxSize string
	Allowed string
}

const (
	imageMaxSize   = "5MB"
	imageAllowed   = "solo .jpg, .jpeg, .png, .webp"
	videoMaxSize   = "100MB"
	videoAllowed   = "solo .mp4, .mov, .webm"
	model3DMaxSize = "50MB"
	model3DAllowed = "solo .usdz, .glb"
)

// Upload endpoints exposed by the backend.
var (
	BusinessAvatar    = Target{Path: "business/avatar", Field: "image", Key: "image", Noun: "imagen", MaxSize: imageMaxSize, Allowed: imageAllowed}
	BusinessCover     = Target{Path: "business/cover", Field: "image", Key: "image", Noun: "imagen", MaxSize: imageMaxSize, Allowed: imageAllowed}
	BranchAvatar      = Target{Path: "branch/avatar", Field: "image", Key: "image", Noun: "imagen", MaxSize: imageMaxSize, Allowed: imageAllowed}
	BranchCover       = Target{Path: "branch/cover", Field: "image", Key: "image", Noun: "imagen", MaxSize: imageMaxSize, Allowed: imageAllowed}
	ProductImage      = Target{Path: "product/image", Field: "image", Key: "image", Noun: "imagen", MaxSize: imageMaxSize, Allowed: imageAllowed}
	TutorialVideo     = Target{Path: "tutorial/video", Field: "video", Key: "video", Noun: "video", MaxSize: videoMaxSize, Allowed: videoAllowed}
	TutorialThumbnail = Target{Path: "tutorial/thumbnail", Field: "thumbnail", Key: "thumbnail", Noun: "miniatura", MaxSize: imageMaxSize, Allowed: imageAllowed}
	BusinessTypeModel = Target{Path: "business-type/model3d", Field: "model", Key: "model", Noun: "modelo 3D", MaxSize: model3DMaxSize, Allowed: model3DAllowed}
)

var targets = map[string]Target{
	BusinessAvatar.Path:    BusinessAvatar,
	BusinessCover.Path:     BusinessCover,
	BranchAvatar.Path:      BranchAvatar,
	BranchCover.Path:       BranchCover,
	ProductImage.Path:      ProductImage,
	TutorialVideo.Path:     TutorialVideo,
	TutorialThumbnail.Path: TutorialThumbnail,
	BusinessTypeModel.Path: BusinessTypeModel,
}

// TargetByPath looks up a target by its endpoint path, e.g. "branch/cover".
func TargetByPath(path string) (Target, bool) {
	t, ok := targets[path]
	return t, ok
}

// TargetPaths returns every known endpoint path, sorted.
func TargetPaths() []string {
	paths := make([]string, 0, len(targets))
	for p := range targets {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
