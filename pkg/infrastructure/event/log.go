package event

import (
	log "github.com/sirupsen/logrus"

	"restro/pkg/domain/service"
)

// NewLogDispatcher is used when no broker is configured.
func NewLogDispatcher() service.EventDispatcher {
	return &logDispatcher{}
}

type logDispatcher struct{}

func (d *logDispatcher) Dispatch(event service.Event) error {
	log.WithFields(log.Fields{
		"event":   event.Type(),
		"payload": event,
	}).Info("event dispatched")
	return nil
}
