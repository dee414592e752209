package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hbomb79/Reel/internal/api"
	"github.com/hbomb79/Reel/internal/database"
	"github.com/hbomb79/Reel/internal/ffmpeg"
	"github.com/hbomb79/Reel/internal/importer"
	"github.com/hbomb79/Reel/internal/ingest"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/ilyakaznacheev/cleanenv"
)

const REEL_USER_DIR_SUFFIX = "/reel/"

type (
	// ReelConfig is the struct used to contain the
	// various user config supplied by file, or
	// by environment variables.
	ReelConfig struct {
		Ffmpeg        ffmpeg.Config           `yaml:"ffmpeg"`
		Importer      importer.Config         `yaml:"importer"`
		ProxyDefaults ProxySettingsConfig     `yaml:"proxy_defaults"`
		Ingest        ingest.Config           `yaml:"ingest"`
		Database      database.DatabaseConfig `yaml:"database"`
		RestConfig    api.RestConfig          `yaml:"api"`
		LogLevel      string                  `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
		CacheDirPath  string                  `yaml:"cache_dir" env:"CACHE_DIR"`
	}

	// ProxySettingsConfig describes the proxy settings used when none
	// have been persisted (or persistence is disabled).
	ProxySettingsConfig struct {
		Resolution string `yaml:"resolution" env:"PROXY_RESOLUTION" env-default:"half"`
		Width      int    `yaml:"width" env:"PROXY_WIDTH"`
		Height     int    `yaml:"height" env:"PROXY_HEIGHT"`
		Codec      string `yaml:"codec" env:"PROXY_CODEC" env-default:"h264"`
		Quality    uint32 `yaml:"quality" env:"PROXY_QUALITY" env-default:"23"`
	}
)

// LoadFromFile loads a configuration file formatted in YAML in to a
// ReelConfig, with environment variables taking precedence. If no path
// is provided, the config is read from the environment alone.
func (config *ReelConfig) LoadFromFile(configPath string) error {
	var err error
	if configPath == "" {
		err = cleanenv.ReadEnv(config)
	} else {
		err = cleanenv.ReadConfig(configPath, config)
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	return config.applyDefaults()
}

// applyDefaults fills in the directories which have no static default, deriving
// them from the cache directory.
func (config *ReelConfig) applyDefaults() error {
	cacheDir, err := config.getCacheDir()
	if err != nil {
		return err
	}

	if config.Importer.ProxyDirectory == "" {
		config.Importer.ProxyDirectory = filepath.Join(cacheDir, "proxies")
	}
	if config.Ingest.IngestPath == "" {
		config.Ingest.IngestPath = filepath.Join(cacheDir, "ingest")
	}

	return nil
}

// getCacheDir will return the directory path used for storing cache information. It will first look
// in the config for a value, but if none is found, a default value will be derived.
func (config *ReelConfig) getCacheDir() (string, error) {
	if config.CacheDirPath != "" {
		return filepath.Join(config.CacheDirPath, REEL_USER_DIR_SUFFIX), nil
	}

	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to derive user cache dir: %w", err)
	}

	return filepath.Join(dir, REEL_USER_DIR_SUFFIX), nil
}

func (config ProxySettingsConfig) ProxySettings() (media.ProxySettings, error) {
	resolution, err := media.ParseResolution(config.Resolution, config.Width, config.Height)
	if err != nil {
		return media.ProxySettings{}, err
	}

	settings := media.ProxySettings{Resolution: resolution, Codec: config.Codec, Quality: config.Quality}
	if err := settings.Validate(); err != nil {
		return media.ProxySettings{}, err
	}

	return settings, nil
}
