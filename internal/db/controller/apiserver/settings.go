// Package apiserver persists the procurement API connection settings in the
// settings store.
package apiserver

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/tenderdesk/tenderdesk/internal/db/controller/setting"
)

const (
	// SettingKeyAPIServer is the key used to store API server settings in the database.
	SettingKeyAPIServer = "api_server"
)

type (
	// Settings represents the procurement API connection configuration.
	Settings struct {
		APIServerURL string `form:"api_server_url" json:"apiServerUrl" validate:"required,url"`
		Timeout      int    `form:"timeout"        json:"timeout"      validate:"required,min=1,max=300"`
	}
)

// Load loads the API server settings from the database.
func (p *Settings) Load(db *gorm.DB) error {
	// Retrieve the setting from the database
	s, err := setting.Get(db, SettingKeyAPIServer)
	if err != nil {
		return err
	}

	// Unmarshal the JSON blob into the struct
	return json.Unmarshal(s.Value, p)
}

// Save saves the API server settings to the database.
func (p *Settings) Save(db *gorm.DB) error {
	// Marshal the struct to JSON
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	// Save or update the setting in the database
	_, err = setting.Set(db, SettingKeyAPIServer, data)

	return err
}
