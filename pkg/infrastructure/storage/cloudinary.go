package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"restro/pkg/domain/model"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func NewCloudinaryUploader(config CloudinaryConfig) (model.ImageUploader, error) {
	cld, err := cloudinary.NewFromParams(config.CloudName, config.APIKey, config.APISecret)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure cloudinary")
	}
	return &cloudinaryUploader{cld: cld, folder: config.Folder}, nil
}

type cloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func (u *cloudinaryUploader) Upload(ctx context.Context, path, name string) (string, error) {
	result, err := u.cld.Upload.Upload(ctx, path, uploader.UploadParams{
		PublicID: publicID(name),
		Folder:   u.folder,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to upload %s", name)
	}
	if result.Error.Message != "" {
		return "", errors.Errorf("failed to upload %s: %s", name, result.Error.Message)
	}
	return result.SecureURL, nil
}

// publicID keeps the readable part of the file name and makes it unique.
func publicID(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return base + "-" + uuid.NewString()
}
