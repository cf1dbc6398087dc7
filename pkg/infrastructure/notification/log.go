package notification

import (
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/model"
)

// NewLogSender writes notifications to the service log instead of an SMS gateway.
func NewLogSender() model.NotificationSender {
	return &logSender{}
}

type logSender struct{}

func (s *logSender) Send(recipient, subject, body string) error {
	log.WithFields(log.Fields{
		"recipient": recipient,
		"subject":   subject,
	}).Info(body)
	return nil
}
