package importer

import (
	"fmt"
	"strings"
)

type SaturationPolicy string

const (
	// PolicyBlock causes Import to wait (honouring its context) for a free
	// slot when the registry is saturated.
	PolicyBlock SaturationPolicy = "block"

	// PolicyReject causes Import to fail immediately with ErrRegistrySaturated
	// when the registry is saturated.
	PolicyReject SaturationPolicy = "reject"
)

type Config struct {
	// The directory generated proxies are written to. Each proxy is
	// named after the ID of the media it belongs to.
	ProxyDirectory string `yaml:"proxy_directory" env:"IMPORTER_PROXY_DIRECTORY"`

	// File extensions (without the leading dot) used for proxies of video and
	// still-image sources, and for audio-only renditions.
	VideoProxyExtension string `yaml:"video_proxy_extension" env:"IMPORTER_VIDEO_PROXY_EXTENSION" env-default:"mp4"`
	ImageProxyExtension string `yaml:"image_proxy_extension" env:"IMPORTER_IMAGE_PROXY_EXTENSION" env-default:"jpg"`
	AudioProxyExtension string `yaml:"audio_proxy_extension" env:"IMPORTER_AUDIO_PROXY_EXTENSION" env-default:"m4a"`

	// The maximum number of imports which may be in-flight at any one time. Zero
	// means unbounded.
	MaxConcurrentImports int              `yaml:"max_concurrent_imports" env:"IMPORTER_MAX_CONCURRENT_IMPORTS" env-default:"4"`
	SaturationPolicy     SaturationPolicy `yaml:"saturation_policy" env:"IMPORTER_SATURATION_POLICY" env-default:"block"`

	// Arguments appended verbatim to every proxy transcode
	ExtraFfmpegArgs []string `yaml:"extra_ffmpeg_args" env:"IMPORTER_EXTRA_FFMPEG_ARGS" env-separator:" "`
}

func (config *Config) validate() error {
	if strings.TrimSpace(config.ProxyDirectory) == "" {
		return fmt.Errorf("proxy directory must be provided")
	}
	if config.MaxConcurrentImports < 0 {
		return fmt.Errorf("max concurrent imports must not be negative (got %d)", config.MaxConcurrentImports)
	}

	switch config.SaturationPolicy {
	case PolicyBlock, PolicyReject:
	case "":
		config.SaturationPolicy = PolicyBlock
	default:
		return fmt.Errorf("saturation policy %q is not recognised", config.SaturationPolicy)
	}

	for _, ext := range []*string{&config.VideoProxyExtension, &config.ImageProxyExtension, &config.AudioProxyExtension} {
		*ext = strings.TrimPrefix(strings.TrimSpace(*ext), ".")
		if *ext == "" {
			return fmt.Errorf("proxy extensions must not be empty")
		}
	}

	return nil
}
