package otp

import (
	"context"
	"sync"
	"time"

	"restro/pkg/domain/model"
)

type pendingCode struct {
	code      string
	expiresAt time.Time
}

// NewMemoryStore keeps codes in process memory. Use it for single-replica deployments.
func NewMemoryStore() model.OTPStore {
	return &memoryStore{
		codes: make(map[string]pendingCode),
		now:   time.Now,
	}
}

type memoryStore struct {
	mu    sync.Mutex
	codes map[string]pendingCode
	now   func() time.Time
}

func (s *memoryStore) Save(_ context.Context, phone, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[phone] = pendingCode{code: code, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *memoryStore) Consume(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.codes[phone]
	if !ok {
		return model.ErrOTPNotFound
	}
	if !s.now().Before(pending.expiresAt) {
		delete(s.codes, phone)
		return model.ErrOTPNotFound
	}
	if pending.code != code {
		return model.ErrOTPMismatch
	}
	delete(s.codes, phone)
	return nil
}
