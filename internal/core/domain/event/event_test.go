package event_test

import (
	"testing"
	"time"

	"parceltrack/internal/core/domain/event"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
)

func TestEventAddressing(t *testing.T) {
	parcelID := kernel.NewUUID()
	userID := kernel.NewUUID()
	at := time.Now()

	onParcel := event.OnParcel(parcelID, event.StatusChanged, nil, at)
	assert.Equal(t, event.ScopeParcel, onParcel.Scope)
	assert.Equal(t, "parcel-"+parcelID.String(), onParcel.Target)
	assert.Equal(t, event.ParcelChannel(parcelID), onParcel.Target)

	global := event.Global(event.ParcelBooked, nil, at)
	assert.Equal(t, event.ScopeGlobal, global.Scope)
	assert.Empty(t, global.Target)

	toUser := event.ToUser(userID, event.AssignmentReceived, nil, at)
	assert.Equal(t, event.ScopeUser, toUser.Scope)
	assert.Equal(t, userID.String(), toUser.Target)
	assert.Equal(t, "user", toUser.Scope.String())
}
