package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authgate/config"
	"authgate/internal/domain/constants"
	"authgate/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPublisherParams(t *testing.T, cfg *config.PubSubConfig) PublisherParams {
	t.Helper()

	return PublisherParams{
		Lc:     fxtest.NewLifecycle(t),
		Ctx:    context.Background(),
		Config: &config.Config{PubSub: cfg},
		Logger: discardLogger(),
	}
}

func testEvent() *service.UserRegisteredEvent {
	return &service.UserRegisteredEvent{
		RequestID:    "req-1",
		UserID:       "user-1",
		Email:        "a@x.com",
		RegisteredAt: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func TestNewEventPublisher_DefaultsToNoop(t *testing.T) {
	publisher, err := NewEventPublisher(newPublisherParams(t, nil))
	require.NoError(t, err)

	assert.IsType(t, &noopPublisher{}, publisher)
	assert.NoError(t, publisher.PublishUserRegistered(context.Background(), testEvent()))
	assert.NoError(t, publisher.Close())
}

func TestNewEventPublisher_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr string
	}{
		{
			name:    "local without endpoint",
			cfg:     &config.PubSubConfig{Provider: constants.PubSubProviderLocal},
			wantErr: "local endpoint is required",
		},
		{
			name:    "google without project",
			cfg:     &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, TopicID: "t"},
			wantErr: "project ID is required",
		},
		{
			name:    "google without topic",
			cfg:     &config.PubSubConfig{Provider: constants.PubSubProviderGoogle, ProjectID: "p"},
			wantErr: "topic ID is required",
		},
		{
			name:    "unknown provider",
			cfg:     &config.PubSubConfig{Provider: "kafka"},
			wantErr: "unknown pubsub provider: kafka",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEventPublisher(newPublisherParams(t, tt.cfg))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocalHTTPPublisher_PublishUserRegistered(t *testing.T) {
	var (
		got       PushMessage
		requestID string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher, err := NewEventPublisher(newPublisherParams(t, &config.PubSubConfig{
		Provider:      constants.PubSubProviderLocal,
		LocalEndpoint: server.URL,
	}))
	require.NoError(t, err)

	require.NoError(t, publisher.PublishUserRegistered(context.Background(), testEvent()))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, localSubscription, got.Subscription)
	assert.NotEmpty(t, got.Message.MessageID)
	assert.Equal(t, map[string]string{
		attrEventType: constants.EventTypeUserRegistered,
		attrUserID:    "user-1",
		attrRequestID: "req-1",
	}, got.Message.Attributes)

	data, err := base64.StdEncoding.DecodeString(got.Message.Data)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "user-1", payload["user_id"])
	assert.Equal(t, "a@x.com", payload["email"])
	assert.Equal(t, "2024-05-06T07:08:09Z", payload["registered_at"])
	assert.NotContains(t, payload, "password")
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, discardLogger())

	err := publisher.PublishUserRegistered(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestEncodeUserRegistered_NoRequestID(t *testing.T) {
	event := testEvent()
	event.RequestID = ""

	data, attributes, err := encodeUserRegistered(event)
	require.NoError(t, err)

	assert.NotContains(t, attributes, attrRequestID)
	assert.NotContains(t, string(data), "request_id")
}
