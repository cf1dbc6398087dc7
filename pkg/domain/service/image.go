package service

import (
	"context"
	"os"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"restro/pkg/domain/model"
)

type UploadPolicy struct {
	Attempts    int
	Interval    time.Duration
	Concurrency int
}

type ImageService interface {
	// UploadImages uploads every file it can. Files that fail after all
	// attempts are reported in the result rather than as an error.
	UploadImages(ctx context.Context, files []model.ImageFile) (model.UploadResult, error)
}

func NewImageService(uploader model.ImageUploader, failures model.UploadFailureRepository, dispatcher EventDispatcher, policy UploadPolicy) ImageService {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if policy.Concurrency < 1 {
		policy.Concurrency = 1
	}
	return &imageService{uploader: uploader, failures: failures, dispatcher: dispatcher, policy: policy}
}

type imageService struct {
	uploader   model.ImageUploader
	failures   model.UploadFailureRepository
	dispatcher EventDispatcher
	policy     UploadPolicy
}

func (s *imageService) UploadImages(ctx context.Context, files []model.ImageFile) (model.UploadResult, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(s.policy.Concurrency)
	for i, file := range files {
		g.Go(func() error {
			urls[i], errs[i] = s.upload(ctx, file)
			return nil
		})
	}
	_ = g.Wait()

	result := model.UploadResult{URLs: []string{}, Failures: []string{}}
	for i, file := range files {
		if errs[i] == nil {
			result.URLs = append(result.URLs, urls[i])
			continue
		}
		result.Failures = append(result.Failures, file.Name)
		s.recordFailure(ctx, file, errs[i])
	}
	return result, nil
}

func (s *imageService) upload(ctx context.Context, file model.ImageFile) (string, error) {
	if _, err := os.Stat(file.Path); err != nil {
		return "", errors.Wrapf(err, "image %s is not available locally", file.Name)
	}

	var url string
	operation := func() error {
		var err error
		url, err = s.uploader.Upload(ctx, file.Path, file.Name)
		if err != nil {
			log.WithError(err).WithField("file", file.Name).Warn("image upload attempt failed")
		}
		return err
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{interval: s.policy.Interval}, uint64(s.policy.Attempts-1)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}

	if err := os.Remove(file.Path); err != nil {
		log.WithError(err).WithField("path", file.Path).Warn("failed to remove uploaded image")
	}
	return url, nil
}

func (s *imageService) recordFailure(ctx context.Context, file model.ImageFile, cause error) {
	log.WithError(cause).WithField("file", file.Name).Error("image upload failed")
	dispatch(s.dispatcher, model.ImageUploadFailed{FileName: file.Name, Reason: cause.Error()})

	id, err := s.failures.NextID()
	if err != nil {
		log.WithError(err).Error("failed to record upload failure")
		return
	}
	failure := &model.UploadFailure{
		ID:        id,
		FileName:  file.Name,
		LocalPath: file.Path,
		Reason:    cause.Error(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.failures.Create(ctx, failure); err != nil {
		log.WithError(err).Error("failed to record upload failure")
	}
}

// linearBackOff waits attempt * interval before each retry.
type linearBackOff struct {
	interval time.Duration
	attempt  int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return time.Duration(b.attempt) * b.interval
}

func (b *linearBackOff) Reset() {
	b.attempt = 0
}
