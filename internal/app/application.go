package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"k8s.io/utils/clock"

	"stoplens.dev/internal/appconf"
	"stoplens.dev/internal/arrival"
	"stoplens.dev/internal/fleet"
	"stoplens.dev/internal/logging"
	"stoplens.dev/internal/metrics"
	"stoplens.dev/internal/models"
	"stoplens.dev/internal/poller"
	"stoplens.dev/internal/session"
	"stoplens.dev/internal/stops"
	"stoplens.dev/internal/transit"
	"stoplens.dev/internal/viewmodel"
)

// Application holds the dependencies shared by the HTTP handlers and the
// CLI commands.
type Application struct {
	Config   appconf.Config
	Logger   *slog.Logger
	Clock    clock.WithTicker
	Location *time.Location
	Metrics  *metrics.Metrics
	Client   transit.Client
	Stops    *stops.Table
	Fleet    *fleet.Registry
	Builder  *viewmodel.Builder

	// StopSessions and RouteSessions hold one polling session per open
	// stop screen and route-detail screen.
	StopSessions  *session.Manager[models.StopView]
	RouteSessions *session.Manager[models.ViewModel]
}

// Deps lets callers, mostly tests, replace collaborators New would build.
type Deps struct {
	Client  transit.Client
	Clock   clock.WithTicker
	Metrics *metrics.Metrics
}

// New wires an Application from a validated config.
func New(cfg appconf.Config, logger *slog.Logger, deps Deps) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Clock:   deps.Clock,
		Metrics: deps.Metrics,
		Client:  deps.Client,
	}
	if app.Clock == nil {
		app.Clock = clock.RealClock{}
	}
	if app.Metrics == nil {
		app.Metrics = metrics.New()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	app.Location = loc

	if app.Client == nil {
		client, err := transit.New(transit.Options{
			BaseURL:   cfg.Transit.BaseURL,
			Timeout:   cfg.Transit.Timeout,
			UserAgent: cfg.Transit.UserAgent,
			Logger:    logger,
			Metrics:   app.Metrics,
		})
		if err != nil {
			return nil, err
		}
		app.Client = client
	}

	app.Fleet, err = fleet.Load(cfg.Data.FleetPath)
	if err != nil {
		return nil, fmt.Errorf("loading fleet table: %w", err)
	}

	app.Stops = stops.NewTable(nil)
	if cfg.Data.StopsPath != "" {
		app.Stops, err = stops.Load(cfg.Data.StopsPath, logger)
		if err != nil {
			return nil, fmt.Errorf("loading stop table: %w", err)
		}
	}

	app.Builder = viewmodel.NewBuilder(viewmodel.Options{
		Client:          app.Client,
		Stops:           app.Stops,
		Fleet:           app.Fleet,
		Formatter:       arrival.NewFormatter(app.Clock, loc),
		Clock:           app.Clock,
		Logger:          logger,
		InfoConcurrency: cfg.Transit.InfoConcurrency,
	})

	sessionOpts := session.ManagerOptions{
		IdleTimeout: cfg.Polling.SessionIdle,
		Clock:       app.Clock,
		Logger:      logger,
		Metrics:     app.Metrics,
	}
	app.StopSessions = session.NewManager(func(stopID string) *poller.Controller[models.StopView] {
		return app.NewStopController(stopID, nil)
	}, sessionOpts)
	app.RouteSessions = session.NewManager(func(key string) *poller.Controller[models.ViewModel] {
		stopID, route := splitRouteKey(key)
		return app.NewRouteController(stopID, route, nil)
	}, sessionOpts)

	logging.LogOperation(logger, "application_ready",
		slog.String("env", cfg.Env.String()),
		slog.Int("stops", app.Stops.Len()),
		slog.Int("fleet_ranges", app.Fleet.Len()),
		slog.Duration("poll_interval", cfg.Polling.Interval))
	return app, nil
}

// NewStopController returns an unstarted controller polling the stop screen
// of stopID. onUpdate, when set, sees every applied view.
func (app *Application) NewStopController(stopID string, onUpdate func(models.StopView)) *poller.Controller[models.StopView] {
	return poller.New(func(ctx context.Context) (models.StopView, error) {
		return app.Builder.BuildStop(ctx, stopID)
	}, poller.Options[models.StopView]{
		Name:            "stop:" + stopID,
		Interval:        app.Config.Polling.Interval,
		FetchTimeout:    app.Config.Polling.FetchTimeout,
		LastResolveWins: app.Config.Polling.LastResolveWins,
		Clock:           app.Clock,
		Logger:          app.Logger,
		Metrics:         app.Metrics,
		OnUpdate:        onUpdate,
	})
}

// NewRouteController returns an unstarted controller polling the
// route-detail screen of route at stopID.
func (app *Application) NewRouteController(stopID, route string, onUpdate func(models.ViewModel)) *poller.Controller[models.ViewModel] {
	return poller.New(func(ctx context.Context) (models.ViewModel, error) {
		return app.Builder.BuildRoute(ctx, stopID, route)
	}, poller.Options[models.ViewModel]{
		Name:            "route:" + RouteSessionKey(stopID, route),
		Interval:        app.Config.Polling.Interval,
		FetchTimeout:    app.Config.Polling.FetchTimeout,
		LastResolveWins: app.Config.Polling.LastResolveWins,
		Clock:           app.Clock,
		Logger:          app.Logger,
		Metrics:         app.Metrics,
		OnUpdate:        onUpdate,
	})
}

// RouteSessionKey is the session key of a route-detail screen.
func RouteSessionKey(stopID, route string) string {
	return stopID + "/" + route
}

func splitRouteKey(key string) (string, string) {
	stopID, route, _ := strings.Cut(key, "/")
	return stopID, route
}

// RunSessions reaps idle sessions until ctx is done, then stops them all.
func (app *Application) RunSessions(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		app.RouteSessions.Run(ctx)
		close(done)
	}()
	app.StopSessions.Run(ctx)
	<-done
}

// Shutdown stops every open session.
func (app *Application) Shutdown() {
	app.StopSessions.CloseAll()
	app.RouteSessions.CloseAll()
}
