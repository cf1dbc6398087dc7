package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

const (
	otpLength      = 6
	minPhoneLength = 10
	otpSubject     = "Your verification code"
)

type OTPService interface {
	Send(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

func NewOTPService(store model.OTPStore, sender model.NotificationSender, ttl time.Duration) OTPService {
	return &otpService{store: store, sender: sender, ttl: ttl}
}

type otpService struct {
	store  model.OTPStore
	sender model.NotificationSender
	ttl    time.Duration
}

func (s *otpService) Send(ctx context.Context, phone string) error {
	if len(phone) < minPhoneLength {
		return model.ErrInvalidPhone
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, phone, code, s.ttl); err != nil {
		return err
	}

	body := fmt.Sprintf("Your OTP is %s. It expires in %d minutes.", code, int(s.ttl.Minutes()))
	if err := s.sender.Send(phone, otpSubject, body); err != nil {
		log.WithError(err).WithField("phone", maskPhone(phone)).Error("failed to deliver otp")
		return model.WrapError(model.KindUpstreamFailure, model.ErrOTPDelivery.Message, err)
	}
	return nil
}

func (s *otpService) Verify(ctx context.Context, phone, code string) error {
	if len(code) != otpLength {
		return model.ErrInvalidOTP
	}
	return s.store.Consume(ctx, phone, code)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", errors.Wrap(err, "failed to generate otp")
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return "******" + phone[len(phone)-4:]
}
