package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apihttp "parceltrack/internal/adapters/in/http"
	"parceltrack/internal/adapters/out/live"
	"parceltrack/internal/adapters/out/notify"
	"parceltrack/internal/adapters/out/postgres"
	"parceltrack/internal/adapters/out/qrcode"
	"parceltrack/internal/core/application/effects"
	"parceltrack/internal/core/application/notification"
	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/application/usecases/queries"
	"parceltrack/internal/jobs"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/nats-io/nats.go"
	"gorm.io/gorm"
)

// CompositionRoot owns the process-wide dependencies and builds handlers on demand.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	hub        *live.Hub
	effects    *effects.Runner
	natsConn   *nats.Conn
	clock      commands.Clock
}

func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      func() time.Time { return time.Now().UTC() },
	}

	hubOpts := []live.Option{live.WithSessionBuffer(cfg.LiveSessionBuffer)}
	if cfg.NATSURL != "" {
		conn, err := live.ConnectNATS(cfg.NATSURL, "parceltrack", logger)
		if err != nil {
			return nil, err
		}
		c.natsConn = conn
		hubOpts = append(hubOpts, live.WithMirror(live.NewNATSMirror(conn, logger)))
	}
	c.hub = live.NewHub(logger, hubOpts...)

	dispatcher, err := c.createDispatcher(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.effects = effects.NewRunner(dispatcher, c.hub, logger)

	return c, nil
}

func (c *CompositionRoot) createDispatcher(ctx context.Context) (*notification.Dispatcher, error) {
	var channels []notification.Channel

	if c.cfg.EmailFrom != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		channels = append(channels, notify.NewEmailChannel(sesv2.NewFromConfig(awsCfg), c.cfg.EmailFrom, c.logger))
	} else {
		c.logger.Warn("EMAIL_FROM is not set, email notifications are disabled")
	}

	channels = append(channels,
		notify.NewSMSChannel(c.cfg.SMSGatewayURL, c.cfg.SMSGatewayToken, &http.Client{Timeout: 10 * time.Second}, c.logger))

	return notification.NewDispatcher(c.logger, channels...), nil
}

func (c *CompositionRoot) Hub() *live.Hub { return c.hub }

func (c *CompositionRoot) CreateBookParcelCommandHandler() commands.BookParcelCommandHandler {
	return commands.NewBookParcelCommandHandler(c.uowFactory, qrcode.NewEncoder(), c.effects, c.clock)
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.uowFactory, c.effects, c.clock)
}

func (c *CompositionRoot) CreateScanForPickupCommandHandler() commands.ScanForPickupCommandHandler {
	return commands.NewScanForPickupCommandHandler(c.uowFactory, c.effects, c.clock)
}

func (c *CompositionRoot) CreateScanForDeliveryCommandHandler() commands.ScanForDeliveryCommandHandler {
	return commands.NewScanForDeliveryCommandHandler(c.uowFactory, c.effects, c.clock)
}

func (c *CompositionRoot) CreateUpdateLocationCommandHandler() commands.UpdateLocationCommandHandler {
	return commands.NewUpdateLocationCommandHandler(c.uowFactory, c.effects, c.clock)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.uowFactory, c.effects, c.clock)
}

func (c *CompositionRoot) CreateUpdateStatusCommandHandler() commands.UpdateStatusCommandHandler {
	return commands.NewUpdateStatusCommandHandler(c.uowFactory, c.effects, c.clock)
}

func (c *CompositionRoot) CreateGetParcelQueryHandler() queries.GetParcelQueryHandler {
	return queries.NewGetParcelQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateTrackParcelQueryHandler() queries.TrackParcelQueryHandler {
	return queries.NewTrackParcelQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListCustomerParcelsQueryHandler() queries.ListCustomerParcelsQueryHandler {
	return queries.NewListCustomerParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAgentParcelsQueryHandler() queries.ListAgentParcelsQueryHandler {
	return queries.NewListAgentParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetParcelQRCodeQueryHandler() queries.GetParcelQRCodeQueryHandler {
	return queries.NewGetParcelQRCodeQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every use case into the REST and websocket server.
func (c *CompositionRoot) CreateHTTPServer() *apihttp.Server {
	return apihttp.NewServer(apihttp.Handlers{
		BookParcel:       c.CreateBookParcelCommandHandler(),
		AssignAgent:      c.CreateAssignAgentCommandHandler(),
		ScanForPickup:    c.CreateScanForPickupCommandHandler(),
		ScanForDelivery:  c.CreateScanForDeliveryCommandHandler(),
		UpdateLocation:   c.CreateUpdateLocationCommandHandler(),
		CompleteDelivery: c.CreateCompleteDeliveryCommandHandler(),
		UpdateStatus:     c.CreateUpdateStatusCommandHandler(),

		GetParcel:           c.CreateGetParcelQueryHandler(),
		TrackParcel:         c.CreateTrackParcelQueryHandler(),
		ListCustomerParcels: c.CreateListCustomerParcelsQueryHandler(),
		ListAgentParcels:    c.CreateListAgentParcelsQueryHandler(),
		GetParcelQRCode:     c.CreateGetParcelQRCodeQueryHandler(),
	}, c.hub, apihttp.Options{
		JWTSecret:      c.cfg.JWTSecret,
		AllowedOrigins: c.cfg.AllowedOrigins,
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.hub, c.cfg.SessionSweepSchedule, c.cfg.LiveIdleTimeout, c.logger)
}

// Close waits for detached notifications and releases the NATS connection.
func (c *CompositionRoot) Close() {
	if c.effects != nil {
		c.effects.Wait()
	}
	if c.natsConn != nil {
		if err := c.natsConn.Drain(); err != nil {
			c.logger.Warn("NATS drain failed", "error", err)
		}
	}
}
