package model

import (
	"context"
	"time"
)

var (
	ErrOTPNotFound  = NewError(KindNotFound, "otp not found or expired")
	ErrOTPMismatch  = NewError(KindValidation, "invalid otp")
	ErrInvalidPhone = NewError(KindValidation, "phone number must have at least 10 digits")
	ErrInvalidOTP   = NewError(KindValidation, "otp must have 6 digits")
	ErrOTPDelivery  = NewError(KindUpstreamFailure, "failed to deliver otp")
)

// OTPStore keeps one pending code per phone.
type OTPStore interface {
	// Save replaces any pending code for phone.
	Save(ctx context.Context, phone, code string, ttl time.Duration) error
	// Consume deletes the code when it matches. A pending code that does not
	// match is kept and ErrOTPMismatch is returned; ErrOTPNotFound is returned
	// when nothing is pending or the code has expired.
	Consume(ctx context.Context, phone, code string) error
}

type NotificationSender interface {
	Send(recipient, subject, body string) error
}
