package container

import (
	"context"
	"fmt"
	"time"

	"goincome/adapters/excel"
	"goincome/adapters/fmp"
	"goincome/app"
	"goincome/internal"
	"goincome/internal/api"
	"goincome/internal/config"
	"goincome/internal/session"
	"goincome/ports"

	"golang.org/x/sync/errgroup"
)

// janitorInterval is how often expired sessions are pruned
const janitorInterval = time.Minute

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Source    ports.StatementSource
	Sessions  *session.MemoryStore
	Dashboard *app.DashboardService
	SSEHub    *api.SSEHub
	API       *api.Handler
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}
	c.Source = NewSource(cfg.Source, logger)
	c.Sessions = session.NewMemoryStore(cfg.Session.TTL, logger)
	c.Dashboard = app.NewDashboardService(c.Source, c.Sessions, app.DashboardConfig{
		Symbol:            cfg.Source.Symbol,
		SurfaceLoadErrors: cfg.Dashboard.SurfaceLoadErrors,
	}, logger)
	c.SSEHub = api.NewSSEHub(logger)
	c.API = api.NewHandler(c.Dashboard, logger)
	return c, nil
}

// NewSource picks the workbook reader when a statements file is configured,
// otherwise the Financial Modeling Prep client.
func NewSource(cfg config.SourceConfig, logger *internal.Logger) ports.StatementSource {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.StatementsFile != "" {
		logger.Info("using statements file %s", cfg.StatementsFile)
		return excel.NewDataReader(cfg.StatementsFile, logger)
	}
	return fmp.NewClient(fmp.Config{
		BaseURL: cfg.BaseURL,
		Symbol:  cfg.Symbol,
		APIKey:  cfg.APIKey,
		Timeout: cfg.FetchTimeout,
	}, logger)
}

// Start launches the background work on g: the event hub, the session
// janitor and the one-shot load. A failed load is not fatal; it is logged by
// the dashboard service and announced to connected browsers.
func (c *Container) Start(ctx context.Context, g *errgroup.Group) {
	g.Go(func() error {
		c.SSEHub.Run(ctx)
		return nil
	})
	g.Go(func() error {
		c.Sessions.RunJanitor(ctx, janitorInterval)
		return nil
	})
	g.Go(func() error {
		err := c.Dashboard.Load(ctx)
		st := c.Dashboard.Status()
		c.SSEHub.Broadcast(api.DatasetEvent{
			Records:   st.Records,
			Error:     st.Error,
			Timestamp: time.Now(),
		})
		if err != nil {
			c.Logger.Warn("dashboard is serving an empty dataset")
		}
		return nil
	})
}
