package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"restro/pkg/domain/model"
)

// NewLocalUploader copies images into dir. Uploaded files are served by the
// HTTP layer under baseURL.
func NewLocalUploader(dir, baseURL string) (model.ImageUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create image directory %s", dir)
	}
	return &localUploader{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

type localUploader struct {
	dir     string
	baseURL string
}

func (u *localUploader) Upload(ctx context.Context, path, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := os.Open(path)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer src.Close()

	stored := uuid.NewString() + strings.ToLower(filepath.Ext(name))
	dst, err := os.OpenFile(filepath.Join(u.dir, stored), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", errors.Wrapf(err, "failed to store %s", name)
	}
	if err = dst.Close(); err != nil {
		return "", errors.WithStack(err)
	}
	return u.baseURL + "/" + stored, nil
}
