package transport

import (
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

const (
	imagesField          = "images"
	defaultMaxUploadSize = 32 << 20
)

// stageImages parses the multipart form and copies every file of the images
// field into the upload directory. The image service removes staged files
// once they are uploaded; failed ones stay for a later retry.
func (s *server) stageImages(w http.ResponseWriter, r *http.Request) ([]model.ImageFile, error) {
	maxSize := s.config.MaxUploadSize
	if maxSize <= 0 {
		maxSize = defaultMaxUploadSize
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return nil, model.WrapError(model.KindValidation, "malformed multipart form", err)
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.WithError(err).Warn("failed to remove multipart temp files")
		}
	}()

	headers := r.MultipartForm.File[imagesField]
	files := make([]model.ImageFile, 0, len(headers))
	for _, header := range headers {
		path, err := s.stage(header)
		if err != nil {
			for _, staged := range files {
				_ = os.Remove(staged.Path)
			}
			return nil, err
		}
		files = append(files, model.ImageFile{Path: path, Name: filepath.Base(header.Filename)})
	}
	return files, nil
}

func (s *server) stage(header *multipart.FileHeader) (string, error) {
	src, err := header.Open()
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	dst, err := os.CreateTemp(s.config.UploadDir, "image-*"+ext)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if _, err = io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", errors.Wrapf(err, "failed to stage %s", header.Filename)
	}
	return dst.Name(), errors.WithStack(dst.Close())
}

type uploadResponse struct {
	Data   any      `json:"data"`
	Failed []string `json:"failed"`
}

// writeUpload answers 207 when some images could not be uploaded.
func writeUpload(w http.ResponseWriter, status int, data any, result model.UploadResult) {
	if result.Partial() {
		status = http.StatusMultiStatus
	}
	failed := result.Failures
	if failed == nil {
		failed = []string{}
	}
	writeJSON(w, status, uploadResponse{Data: data, Failed: failed})
}
