package mysql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"restro/pkg/domain/model"
)

func NewUploadFailureRepository(client sqlx.ExtContext) model.UploadFailureRepository {
	return &uploadFailureRepository{client: client}
}

type uploadFailureRepository struct {
	client sqlx.ExtContext
}

func (r *uploadFailureRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *uploadFailureRepository) Create(ctx context.Context, failure *model.UploadFailure) error {
	_, err := r.client.ExecContext(ctx, `
		INSERT INTO upload_failure (upload_failure_id, file_name, local_path, reason, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		failure.ID, failure.FileName, failure.LocalPath, failure.Reason, failure.CreatedAt,
	)
	return errors.WithStack(err)
}
