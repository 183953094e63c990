package live_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"parceltrack/internal/adapters/out/live"
	"parceltrack/internal/core/domain/event"
	"parceltrack/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// drain returns everything queued on s without blocking.
func drain(s *live.Session) []live.Message {
	var out []live.Message
	for {
		select {
		case m, ok := <-s.Outbox():
			if !ok {
				return out
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

func TestHub_ParcelChannelIsolation(t *testing.T) {
	hub := live.NewHub(discardLogger())
	parcelA, parcelB := kernel.NewUUID(), kernel.NewUUID()

	followerA := hub.Connect()
	followerB := hub.Connect()
	bystander := hub.Connect()
	hub.Join(followerA, event.ParcelChannel(parcelA))
	hub.Join(followerB, event.ParcelChannel(parcelB))

	now := time.Now()
	hub.Publish(context.Background(), event.OnParcel(parcelA, event.StatusChanged,
		event.StatusChangedPayload{ParcelID: parcelA.String(), Status: "picked-up"}, now))

	got := drain(followerA)
	require.Len(t, got, 1)
	assert.Equal(t, event.StatusChanged, got[0].Event)
	assert.True(t, now.Equal(got[0].Timestamp))

	assert.Empty(t, drain(followerB))
	assert.Empty(t, drain(bystander))
}

func TestHub_GlobalReachesEverySession(t *testing.T) {
	hub := live.NewHub(discardLogger())
	sessions := []*live.Session{hub.Connect(), hub.Connect(), hub.Connect()}

	hub.Publish(context.Background(), event.Global(event.ParcelBooked, event.ParcelBookedPayload{}, time.Now()))

	for _, s := range sessions {
		assert.Len(t, drain(s), 1)
	}
}

func TestHub_UserTargetedFollowsLatestLogin(t *testing.T) {
	hub := live.NewHub(discardLogger())
	agent := kernel.NewUUID()

	old := hub.Connect()
	hub.Login(old, agent.String())
	current := hub.Connect()
	hub.Login(current, agent.String())

	// the superseded connection going away must not unbind the new one
	hub.Disconnect(old)

	hub.Publish(context.Background(), event.ToUser(agent, event.AssignmentReceived,
		event.AgentAssignedPayload{AgentID: agent.String()}, time.Now()))

	assert.Len(t, drain(current), 1)

	hub.Disconnect(current)
	_, ok := hub.Registry().Resolve(agent.String())
	assert.False(t, ok)

	// nobody online: publishing is a no-op
	hub.Publish(context.Background(), event.ToUser(agent, event.AssignmentReceived, nil, time.Now()))
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := live.NewHub(discardLogger())
	parcelID := kernel.NewUUID()
	channel := event.ParcelChannel(parcelID)

	s := hub.Connect()
	hub.Join(s, channel)
	hub.Leave(s, channel)

	hub.Publish(context.Background(), event.OnParcel(parcelID, event.LocationUpdated, nil, time.Now()))
	assert.Empty(t, drain(s))
}

func TestHub_FullBufferDropsWithoutBlocking(t *testing.T) {
	hub := live.NewHub(discardLogger(), live.WithSessionBuffer(2))
	slow := hub.Connect()
	fast := hub.Connect()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 5 {
			hub.Publish(context.Background(), event.Global(event.StatusUpdated, nil, time.Now()))
			drain(fast)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a saturated session")
	}

	assert.Len(t, drain(slow), 2)
}

func TestHub_DisconnectClosesOutboxOnce(t *testing.T) {
	hub := live.NewHub(discardLogger())
	s := hub.Connect()
	require.Equal(t, 1, hub.SessionCount())

	hub.Disconnect(s)
	hub.Disconnect(s)

	_, open := <-s.Outbox()
	assert.False(t, open)
	assert.Equal(t, 0, hub.SessionCount())
	assert.False(t, hub.Send(s, "tracking-joined", nil))

	// publishing after close must not panic
	hub.Publish(context.Background(), event.Global(event.ParcelBooked, nil, time.Now()))
}

func TestHub_ConcurrentPublishAndDisconnect(t *testing.T) {
	hub := live.NewHub(discardLogger())
	parcelID := kernel.NewUUID()

	var wg sync.WaitGroup
	for range 20 {
		s := hub.Connect()
		hub.Join(s, event.ParcelChannel(parcelID))

		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Publish(context.Background(), event.OnParcel(parcelID, event.StatusChanged, nil, time.Now()))
		}()
		go func() {
			defer wg.Done()
			hub.Disconnect(s)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, hub.SessionCount())
}

func TestHub_SweepDisconnectsIdleAndPingsTheRest(t *testing.T) {
	clock := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	hub := live.NewHub(discardLogger(), live.WithClock(func() time.Time { return clock }))

	idle := hub.Connect()
	active := hub.Connect()

	clock = clock.Add(2 * time.Minute)
	active.Touch(clock)

	swept := hub.Sweep(time.Minute)

	assert.Equal(t, 1, swept)
	assert.Equal(t, 1, hub.SessionCount())

	_, open := <-idle.Outbox()
	assert.False(t, open)

	select {
	case <-active.Pings():
	default:
		t.Fatal("active session was not asked to ping")
	}
}

type MockMirror struct {
	mock.Mock
}

func (m *MockMirror) Mirror(ctx context.Context, e event.Event) {
	m.Called(ctx, e)
}

func TestHub_MirrorsEveryPublishedEvent(t *testing.T) {
	mirror := new(MockMirror)
	hub := live.NewHub(discardLogger(), live.WithMirror(mirror))

	e := event.Global(event.DeliveryCompleted, event.DeliveryCompletedPayload{TrackingNumber: "COURIER-1-1"}, time.Now())
	mirror.On("Mirror", mock.Anything, e).Once()

	hub.Publish(context.Background(), e)
	mirror.AssertExpectations(t)
}
