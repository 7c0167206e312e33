// Package pubsub publishes user lifecycle events.
package pubsub

import (
	"encoding/json"

	"authgate/internal/domain/constants"
	"authgate/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	attrEventType = "event_type"
	attrUserID    = "user_id"
	attrRequestID = "request_id"
)

// encodeUserRegistered returns the message payload and the attributes used
// for subscription filtering and tracing.
func encodeUserRegistered(event *service.UserRegisteredEvent) ([]byte, map[string]string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	attributes := map[string]string{
		attrEventType: constants.EventTypeUserRegistered,
		attrUserID:    event.UserID,
	}
	if event.RequestID != "" {
		attributes[attrRequestID] = event.RequestID
	}

	return data, attributes, nil
}
