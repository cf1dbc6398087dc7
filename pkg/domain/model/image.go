package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

var ErrNoImages = NewError(KindValidation, "at least one image is required")

// ImageFile is an image received from a client and staged on local disk.
type ImageFile struct {
	Path string
	Name string
}

type UploadResult struct {
	URLs     []string `json:"urls"`
	Failures []string `json:"failed"`
}

func (r UploadResult) Partial() bool {
	return len(r.Failures) > 0
}

type ImageUploader interface {
	// Upload stores the local file and returns its public URL.
	Upload(ctx context.Context, path, name string) (string, error)
}

type UploadFailure struct {
	ID        uuid.UUID
	FileName  string
	LocalPath string
	Reason    string
	CreatedAt time.Time
}

type UploadFailureRepository interface {
	NextID() (uuid.UUID, error)
	Create(ctx context.Context, failure *UploadFailure) error
}
