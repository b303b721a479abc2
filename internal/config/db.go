package config

// DB holds the settings database configuration. Only application settings
// are stored locally; business data stays in the procurement API.
type DB struct {
	Path string // path to the sqlite settings database file
}
