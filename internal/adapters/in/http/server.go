// Package http is the REST and websocket surface of the parcel backend.
// Handlers translate requests into commands and queries, run them, and map
// results and typed errors onto JSON responses.
package http

import (
	"context"
	"log/slog"
	"time"

	"parceltrack/internal/adapters/out/live"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"

	"github.com/gorilla/websocket"
)

// CommandHandler is any lifecycle handler taking command C.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) (commands.Result, error)
}

// QueryHandler is any read-side handler answering query Q with R.
type QueryHandler[Q, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Handlers groups the use cases the server exposes.
type Handlers struct {
	BookParcel       CommandHandler[commands.BookParcelCommand]
	AssignAgent      CommandHandler[commands.AssignAgentCommand]
	ScanForPickup    CommandHandler[commands.ScanParcelCommand]
	ScanForDelivery  CommandHandler[commands.ScanParcelCommand]
	UpdateLocation   CommandHandler[commands.UpdateLocationCommand]
	CompleteDelivery CommandHandler[commands.CompleteDeliveryCommand]
	UpdateStatus     CommandHandler[commands.UpdateStatusCommand]

	GetParcel           QueryHandler[queries.GetParcelQuery, queries.ParcelView]
	TrackParcel         QueryHandler[queries.TrackParcelQuery, queries.ParcelView]
	ListCustomerParcels QueryHandler[queries.ListCustomerParcelsQuery, []queries.ParcelView]
	ListAgentParcels    QueryHandler[queries.ListAgentParcelsQuery, []queries.ParcelView]
	GetParcelQRCode     QueryHandler[queries.GetParcelQRCodeQuery, queries.GetParcelQRCodeQueryResponse]
}

// Options configure the transport concerns of the server.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	hub      *live.Hub
	opts     Options
	logger   *slog.Logger
	upgrader websocket.Upgrader
	now      func() time.Time
}

func NewServer(handlers Handlers, hub *live.Hub, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		handlers: handlers,
		hub:      hub,
		opts:     opts,
		logger:   logger.With("component", "http"),
		now:      time.Now,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}
