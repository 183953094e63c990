package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"parceltrack/internal/core/domain/event"

	"github.com/nats-io/nats.go"
)

// SubjectPrefix is prepended to the event name to form the NATS subject.
const SubjectPrefix = "parcels.events."

// NATSPublisher is the part of *nats.Conn the mirror needs.
type NATSPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSMirror copies published events to NATS. Failures are logged and
// counted; they never reach the publisher.
type NATSMirror struct {
	conn   NATSPublisher
	logger *slog.Logger
}

type mirroredEvent struct {
	Event      string    `json:"event"`
	Scope      string    `json:"scope"`
	Target     string    `json:"target,omitempty"`
	Data       any       `json:"data,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewNATSMirror(conn NATSPublisher, logger *slog.Logger) *NATSMirror {
	return &NATSMirror{conn: conn, logger: logger.With("component", "NATSMirror")}
}

func (m *NATSMirror) Mirror(ctx context.Context, e event.Event) {
	data, err := json.Marshal(mirroredEvent{
		Event:      e.Name,
		Scope:      e.Scope.String(),
		Target:     e.Target,
		Data:       e.Payload,
		OccurredAt: e.OccurredAt,
	})
	if err != nil {
		mirrorFailures.Inc()
		m.logger.ErrorContext(ctx, "failed to marshal mirrored event", "event", e.Name, "error", err)
		return
	}

	subject := SubjectPrefix + e.Name
	if err = m.conn.Publish(subject, data); err != nil {
		mirrorFailures.Inc()
		m.logger.ErrorContext(ctx, "failed to mirror event to NATS", "subject", subject, "error", err)
	}
}

// ConnectNATS dials url with reconnects enabled for the life of the process.
func ConnectNATS(url, name string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.PingInterval(20*time.Second),
		nats.MaxPingsOutstanding(3),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed", "error", nc.LastError())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return nc, nil
}
