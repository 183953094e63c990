package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"parceltrack/internal/adapters/out/live"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/event"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Client and server event names on the live socket.
const (
	clientUserLogin      = "user-login"
	clientJoinTracking   = "join-tracking"
	clientLeaveTracking  = "leave-tracking"
	clientLocationUpdate = "location-update"
	clientAnnouncement   = "announcement"

	serverConnectionConfirmed = "connection-confirmed"
	serverTrackingJoined      = "tracking-joined"
	serverTrackingLeft        = "tracking-left"
	serverError               = "error"
)

const (
	liveWriteWait      = 10 * time.Second
	liveMaxMessageSize = 4096
)

var errUnknownLiveEvent = errors.New("unknown event")

type clientMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type trackingData struct {
	ParcelID string `json:"parcelId"`
}

type locationData struct {
	ParcelID  string  `json:"parcelId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type announcementData struct {
	Message string `json:"message"`
}

// Live handles GET /api/live. The caller authenticates with the token query
// parameter; the connection then carries JSON {event, data} frames both ways.
func (s *Server) Live(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return s.fail(c, err, "Authentication required")
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already answered the client
		s.logger.WarnContext(c.Request().Context(), "websocket upgrade failed", "error", err)
		return nil
	}

	session := s.hub.Connect()
	logger := s.logger.With("session", session.ID(), "userId", actor.ID.String())
	logger.DebugContext(c.Request().Context(), "live session opened")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLive(conn, session)
	}()

	s.readLive(c.Request().Context(), conn, session, actor)

	s.hub.Disconnect(session)
	<-writerDone
	_ = conn.Close()
	logger.DebugContext(c.Request().Context(), "live session closed")
	return nil
}

// writeLive is the only goroutine writing to conn. It stops when the hub
// closes the session outbox or a write fails.
func (s *Server) writeLive(conn *websocket.Conn, session *live.Session) {
	for {
		select {
		case msg, ok := <-session.Outbox():
			_ = conn.SetWriteDeadline(s.now().Add(liveWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				_ = conn.Close()
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				_ = conn.Close()
				s.hub.Disconnect(session)
				drain(session)
				return
			}
		case <-session.Pings():
			_ = conn.SetWriteDeadline(s.now().Add(liveWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				s.hub.Disconnect(session)
				drain(session)
				return
			}
		}
	}
}

func drain(session *live.Session) {
	for range session.Outbox() {
	}
}

func (s *Server) readLive(ctx context.Context, conn *websocket.Conn, session *live.Session, actor user.Actor) {
	conn.SetReadLimit(liveMaxMessageSize)
	conn.SetPongHandler(func(string) error {
		session.Touch(s.now())
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.WarnContext(ctx, "live read failed", "session", session.ID(), "error", err)
			}
			return
		}
		session.Touch(s.now())

		var msg clientMessage
		if err = json.Unmarshal(data, &msg); err != nil {
			s.hub.Send(session, serverError, ErrorResponse{Message: "Invalid message"})
			continue
		}
		if err = s.handleLive(ctx, session, actor, msg); err != nil {
			s.hub.Send(session, serverError, ErrorResponse{Message: err.Error()})
		}
	}
}

func (s *Server) handleLive(ctx context.Context, session *live.Session, actor user.Actor, msg clientMessage) error {
	switch msg.Event {
	case clientUserLogin:
		// the identity comes from the token, whatever the client claims
		s.hub.Login(session, actor.ID.String())
		s.hub.Send(session, serverConnectionConfirmed, map[string]string{
			"sessionId": session.ID(),
			"userId":    actor.ID.String(),
		})
		return nil

	case clientJoinTracking, clientLeaveTracking:
		parcelID, err := decodeParcelID(msg.Data)
		if err != nil {
			return err
		}
		if msg.Event == clientJoinTracking {
			s.hub.Join(session, event.ParcelChannel(parcelID))
			s.hub.Send(session, serverTrackingJoined, map[string]string{
				"parcelId": parcelID.String(),
				"message":  "Connected to tracking updates",
			})
			return nil
		}
		s.hub.Leave(session, event.ParcelChannel(parcelID))
		s.hub.Send(session, serverTrackingLeft, map[string]string{"parcelId": parcelID.String()})
		return nil

	case clientLocationUpdate:
		return s.liveLocationUpdate(ctx, actor, msg.Data)

	case clientAnnouncement:
		return s.liveAnnouncement(ctx, actor, msg.Data)
	}

	return errUnknownLiveEvent
}

func (s *Server) liveLocationUpdate(ctx context.Context, actor user.Actor, raw json.RawMessage) error {
	if err := actor.Require(user.Agent); err != nil {
		return err
	}

	var data locationData
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	parcelID, err := kernel.UUIDFromString(data.ParcelID)
	if err != nil {
		return err
	}
	point, err := kernel.NewGeoPoint(data.Latitude, data.Longitude)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateLocationCommand(actor, parcelID, point)
	if err != nil {
		return err
	}
	_, err = s.handlers.UpdateLocation.Handle(ctx, cmd)
	return err
}

func (s *Server) liveAnnouncement(ctx context.Context, actor user.Actor, raw json.RawMessage) error {
	if err := actor.Require(user.Admin); err != nil {
		return err
	}

	var data announcementData
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	text := strings.TrimSpace(data.Message)
	if text == "" {
		return errors.New("announcement message is required")
	}

	now := s.now()
	s.hub.Publish(ctx, event.Global(event.AnnouncementPosted, event.AnnouncementPayload{
		Message: text,
		From:    actor.ID.String(),
		SentAt:  now,
	}, now))
	return nil
}

// decodeParcelID accepts either {"parcelId": "..."} or a bare JSON string.
func decodeParcelID(raw json.RawMessage) (kernel.UUID, error) {
	var bare string
	if err := json.Unmarshal(raw, &bare); err == nil {
		return kernel.UUIDFromString(bare)
	}

	var data trackingData
	if err := json.Unmarshal(raw, &data); err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(data.ParcelID)
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	origins := s.allowedOrigins()
	return slices.Contains(origins, "*") || slices.Contains(origins, origin)
}
