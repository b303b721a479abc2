package daemon

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	memorystorage "github.com/gofiber/storage/memory/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tenderdesk/tenderdesk/internal/backend"
	"github.com/tenderdesk/tenderdesk/internal/config"
	"github.com/tenderdesk/tenderdesk/internal/db/models"
	"github.com/tenderdesk/tenderdesk/internal/web"
	"github.com/tenderdesk/tenderdesk/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service has shut down.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(sqlite.Open(cfg.DB.Path), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.Setting{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	// Initialize the procurement API client from the stored settings. On a
	// fresh install with no stored settings the client points at the config
	// defaults until the admin saves the API server screen.
	if err = backend.Open(db); err != nil {
		log.Warn().Err(err).Msg("no stored API server settings, using config defaults")

		backend.Engine.Client = backend.New(cfg.Backend.URL, time.Duration(cfg.Backend.Timeout)*time.Second)
	}

	// Test the API connection (non-blocking, log-only)
	if err = backend.Engine.Test(); err != nil {
		log.Warn().Err(err).Msg("procurement API not reachable at startup")
	}

	// Initialize fiber session store
	session.Init(memorystorage.New())

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db, backend.Engine.Client),
	}
}
