package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"diskmanager/internal/config"
	"diskmanager/internal/controllers"
	"diskmanager/internal/logging"
	"diskmanager/internal/models"
	"diskmanager/internal/routes"
	"diskmanager/internal/services"
	"diskmanager/internal/ui"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type RunCommand struct {
	Headless bool   `long:"headless" description:"Do not start the terminal dashboard"`
	Mode     string `short:"m" long:"mode" description:"Access indicator mode, overrides poll.mode" choice:"change" choice:"simulated"`
	Listen   string `short:"l" long:"listen" description:"Serve the HTTP API on this address, implies http.enabled" env:"DISKMANAGER_LISTEN"`
	NoAuth   bool   `long:"no-auth" description:"Disable API authentication"`
}

var runCommand = &RunCommand{}

func (c *RunCommand) config() (config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if len(c.Mode) > 0 {
		cfg.Poll.Mode = models.Mode(c.Mode)
	}
	if len(c.Listen) > 0 {
		cfg.HTTP.Enabled = true
		cfg.HTTP.Listen = c.Listen
	}
	if c.NoAuth {
		cfg.HTTP.Auth = false
	}
	return cfg, cfg.Validate()
}

func pollerConfig(cfg config.PollConfig) services.PollerConfig {
	return services.PollerConfig{
		Mode:            cfg.Mode,
		RefreshInterval: cfg.RefreshInterval,
		AccessInterval:  cfg.AccessInterval,
		AccessDuration:  cfg.AccessDuration,
		EvictAbsent:     cfg.EvictAbsent,
	}
}

func volumeFilter(cfg config.VolumesConfig) services.VolumeFilter {
	return services.VolumeFilter{
		IncludeFstypes:     cfg.IncludeFstypes,
		ExcludeMountpoints: cfg.ExcludeMountpoints,
	}
}

// pollerViews lists the views the poller feeds. The hub is only drained by
// its Run loop, which is started with the HTTP API.
func pollerViews(httpEnabled bool, state *services.StateCache, history *services.HistoryCollector, hub *services.WebSocketHub) services.Views {
	views := services.Views{state, history}
	if httpEnabled {
		views = append(views, hub)
	}
	return views
}

func (c *RunCommand) Execute(args []string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	// the dashboard owns the terminal
	logFile := cfg.Logging.File
	if c.Headless == false && len(logFile) == 0 {
		logFile = config.DefaultLogFile()
	}
	closer, err := setUpLogger(cfg, logFile)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger := logging.NewLogger("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := services.NewStateCache()
	history := services.NewHistoryCollector(cfg.History.MaxPoints)
	hub := services.NewWebSocketHub()
	views := pollerViews(cfg.HTTP.Enabled, state, history, hub)

	var dashboard *ui.Dashboard
	if c.Headless == false {
		dashboard = ui.NewDashboard(cfg.Poll.Mode)
		views = append(views, dashboard)
	}

	poller := services.NewPoller(pollerConfig(cfg.Poll), services.NewSystemVolumes(volumeFilter(cfg.Volumes)), views)

	var auth *services.AuthService
	if cfg.HTTP.Enabled && cfg.HTTP.Auth {
		auth, err = services.NewAuthService(cfg.HTTP.Secret, config.DefaultKeyFile(), cfg.HTTP.TokenExpiry)
		if err != nil {
			return fmt.Errorf("could not set up API authentication: %w", err)
		}
	}

	grp, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	grp.Go(func() error {
		return poller.Run(ctx)
	})

	if cfg.HTTP.Enabled {
		gin.SetMode(gin.ReleaseMode)
		engine := routes.NewEngine(cfg.HTTP, controllers.NewHandlers(poller, state, history, hub), auth)
		grp.Go(func() error {
			hub.Run(ctx)
			return nil
		})
		grp.Go(func() error {
			if err := routes.Serve(ctx, cfg.HTTP.Listen, engine); err != nil {
				return fmt.Errorf("could not serve API on %s: %w", cfg.HTTP.Listen, err)
			}
			return nil
		})
	}

	if dashboard != nil {
		grp.Go(func() error {
			// quitting the dashboard stops everything else
			defer cancel()
			return dashboard.Run(ctx, poller)
		})
	}

	logger.WithField("mode", cfg.Poll.Mode).Info("diskmanager started")
	err = grp.Wait()
	logger.Info("diskmanager stopped")
	return err
}

func init() {
	_, err := parser.AddCommand("run", "polls mounted volumes", "Polls mounted volumes, shows them in the terminal dashboard and optionally serves them over HTTP", runCommand)
	if err != nil {
		panic(err.Error())
	}
}
