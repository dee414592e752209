package ingest

import "time"

// Config contains configuration options that allow
// customization of how Reel detects files to auto-import.
type Config struct {
	// Whether the watch folder is enabled at all. When disabled,
	// media is only imported via explicit requests.
	Enabled bool `yaml:"enabled" env:"INGEST_ENABLED" env-default:"false"`

	// The IngestService uses a directory watcher, but a
	// 'force' sync can be performed on a regular interval
	// to protect against the watcher failing.
	ForceSyncSeconds int `yaml:"force_sync_seconds" env:"INGEST_FORCE_SYNC_SECONDS" env-default:"3600"`

	// The path to the directory the service should monitor
	// for new files
	IngestPath string `yaml:"ingest_path" env:"INGEST_PATH"`

	// An array of regular expressions that can be used to RESTRICT
	// the files processed by this service. If any expression match
	// the name of the file, it is ignored.
	Blacklist []string `yaml:"blacklist" env:"INGEST_BLACKLIST"`

	// When a new file is detected, it's likely to be an in-progress
	// copy from an external source. As we cannot KNOW when the
	// copy is complete, we instead wait for the 'modtime' of
	// the item to be at least this long in the past before importing
	RequiredModTimeAgeSeconds int `yaml:"required_modtime_age_seconds" env:"INGEST_MODTIME_THRESHOLD_SECONDS" env-default:"120"`
}

func (config *Config) RequiredModTimeAgeDuration() time.Duration {
	return time.Duration(config.RequiredModTimeAgeSeconds) * time.Second
}

func (config *Config) ForceSyncDuration() time.Duration {
	return time.Duration(config.ForceSyncSeconds) * time.Second
}
