package mysql

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"restro/pkg/domain/model"
)

// NewOTPStore keeps pending codes in the otp_code table. It satisfies the same
// contract as the in-memory store and is shared by every service replica.
func NewOTPStore(client sqlx.ExtContext) model.OTPStore {
	return &otpStore{client: client}
}

type otpStore struct {
	client sqlx.ExtContext
}

func (s *otpStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	_, err := s.client.ExecContext(ctx, `
		INSERT INTO otp_code (phone, code, expires_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE code = VALUES(code), expires_at = VALUES(expires_at)`,
		phone, code, time.Now().UTC().Add(ttl),
	)
	return errors.WithStack(err)
}

func (s *otpStore) Consume(ctx context.Context, phone, code string) error {
	result, err := s.client.ExecContext(ctx, `
		DELETE FROM otp_code WHERE phone = ? AND code = ? AND expires_at > ?`,
		phone, code, time.Now().UTC(),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	consumed, err := affected(result)
	if err != nil || consumed {
		return err
	}

	var pending bool
	err = sqlx.GetContext(ctx, s.client, &pending,
		`SELECT EXISTS(SELECT 1 FROM otp_code WHERE phone = ? AND expires_at > ?)`,
		phone, time.Now().UTC(),
	)
	if err != nil {
		return errors.WithStack(err)
	}
	if pending {
		return model.ErrOTPMismatch
	}
	return model.ErrOTPNotFound
}
