package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tenderdesk/tenderdesk/internal/config"
	controller "github.com/tenderdesk/tenderdesk/internal/db/controller/apiserver"
	"github.com/tenderdesk/tenderdesk/internal/db/controller/setting"
)

// seed stores the API server connection from the config file on first
// start. Stored settings always win over the config defaults afterwards.
func seed(cfg *config.Config, db *gorm.DB) {
	settings := &controller.Settings{}

	err := settings.Load(db)
	if err == nil {
		return
	}

	if !errors.Is(err, setting.ErrSettingNotFound) {
		log.Error().Err(err).Msg("failed to read API server settings")
		return
	}

	if cfg.Backend.URL == "" {
		log.Warn().Msg("no API server configured, set it on the settings screen")
		return
	}

	settings.APIServerURL = cfg.Backend.URL
	settings.Timeout = cfg.Backend.Timeout

	if err := settings.Save(db); err != nil {
		log.Error().Err(err).Msg("failed to seed API server settings")
		return
	}

	log.Info().Str("api_server_url", settings.APIServerURL).Msg("seeded API server settings from config")
}
