package ffmpeg

import "time"

type Config struct {
	FfmpegBinaryPath  string `yaml:"ffmpeg_binary_path" env:"FFMPEG_BINARY_PATH" env-default:"/usr/bin/ffmpeg"`
	FfprobeBinaryPath string `yaml:"ffprobe_binary_path" env:"FFPROBE_BINARY_PATH" env-default:"/usr/bin/ffprobe"`

	// Upper bound on how long a single ffprobe/ffmpeg process may run before
	// it is killed. Zero disables the limit for that operation.
	ProbeTimeoutSeconds     int `yaml:"probe_timeout_seconds" env:"FFMPEG_PROBE_TIMEOUT_SECONDS" env-default:"30"`
	TranscodeTimeoutSeconds int `yaml:"transcode_timeout_seconds" env:"FFMPEG_TRANSCODE_TIMEOUT_SECONDS" env-default:"3600"`
}

func (config *Config) ProbeTimeout() time.Duration {
	return time.Duration(config.ProbeTimeoutSeconds) * time.Second
}

func (config *Config) TranscodeTimeout() time.Duration {
	return time.Duration(config.TranscodeTimeoutSeconds) * time.Second
}
