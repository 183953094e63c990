package live_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"parceltrack/internal/adapters/out/live"
	"parceltrack/internal/core/domain/event"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNATSPublisher struct {
	mock.Mock
}

func (m *MockNATSPublisher) Publish(subject string, data []byte) error {
	return m.Called(subject, data).Error(0)
}

func TestNATSMirror_PublishesUnderEventSubject(t *testing.T) {
	conn := new(MockNATSPublisher)
	parcelID := kernel.NewUUID()
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

	var captured []byte
	conn.On("Publish", "parcels.events.status-changed", mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).([]byte) }).
		Return(nil).Once()

	live.NewNATSMirror(conn, discardLogger()).Mirror(context.Background(),
		event.OnParcel(parcelID, event.StatusChanged, event.StatusChangedPayload{
			ParcelID: parcelID.String(),
			Status:   "delivered",
		}, at))

	conn.AssertExpectations(t)

	var body map[string]any
	require.NoError(t, json.Unmarshal(captured, &body))
	assert.Equal(t, "status-changed", body["event"])
	assert.Equal(t, "parcel", body["scope"])
	assert.Equal(t, event.ParcelChannel(parcelID), body["target"])
	assert.Equal(t, "delivered", body["data"].(map[string]any)["status"])
}

func TestNATSMirror_FailureIsSwallowed(t *testing.T) {
	conn := new(MockNATSPublisher)
	conn.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats: connection closed")).Once()

	assert.NotPanics(t, func() {
		live.NewNATSMirror(conn, discardLogger()).Mirror(context.Background(),
			event.Global(event.ParcelBooked, nil, time.Now()))
	})
	conn.AssertExpectations(t)
}
