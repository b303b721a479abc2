package backend

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tenderdesk/tenderdesk/internal/db/controller/apiserver"
)

const testTimeout = 10 * time.Second

type engine struct {
	*Client
}

// Engine is the process wide client for the procurement API, configured
// from the settings store.
var Engine engine //nolint:gochecknoglobals

// Test checks the API connection by hitting its health endpoint.
func (e engine) Test() error {
	if e.Client == nil {
		return ErrClientNotInitialized
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	if err := e.Ping(ctx); err != nil {
		return err
	}

	log.Info().Msg("procurement API connection test successful")

	return nil
}

// Ping performs an unauthenticated health check call.
func (c *Client) Ping(ctx context.Context) error {
	return c.Get(ctx, "", "/healthz", nil)
}

// Open initializes the API client using settings from the database.
func Open(db *gorm.DB) error {
	settings := &apiserver.Settings{}
	if err := settings.Load(db); err != nil {
		return err
	}

	Engine.Client = New(settings.APIServerURL, time.Duration(settings.Timeout)*time.Second)

	return nil
}
