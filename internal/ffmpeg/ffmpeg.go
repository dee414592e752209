package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/floostack/transcoder"
	"github.com/hbomb79/Reel/pkg/logger"
)

var log = logger.Get("FFmpeg")

// Gateway is a stateless facade over the ffprobe and ffmpeg binaries. Each call
// spawns (and reaps) exactly one external process; the Gateway performs no
// pooling or admission control of its own.
type Gateway struct {
	config Config
}

// New constructs a Gateway, ensuring both the configured binaries can be
// resolved on the host.
func New(config Config) (*Gateway, error) {
	for _, bin := range []string{config.FfprobeBinaryPath, config.FfmpegBinaryPath} {
		if _, err := exec.LookPath(bin); err != nil {
			return nil, fmt.Errorf("ffmpeg binary %s cannot be used: %w", bin, err)
		}
	}

	return &Gateway{config: config}, nil
}

// Probe runs ffprobe against the path provided and parses the result. A
// *ProbeError is returned if ffprobe exits non-zero (or does not finish within
// the configured timeout), or if its output is not valid JSON.
func (gateway *Gateway) Probe(ctx context.Context, path string) (*Metadata, error) {
	args := []string{"-v", "quiet", "-print_format", "json", "-show_format", "-show_streams", "-show_error", path}
	res, err := execute(ctx, gateway.config.ProbeTimeout(), gateway.config.FfprobeBinaryPath, args)
	if err != nil {
		probeErr := &ProbeError{Path: path, ExitCode: res.exitCode, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			probeErr.Message = summariseOutput(res.stdout, res.stderr)
		}

		return nil, probeErr
	}

	meta, err := ParseProbeOutput(res.stdout)
	if err != nil {
		return nil, &ProbeError{Path: path, Err: err}
	}

	log.Emit(logger.DEBUG, "Probed %s: video=%v audio=%v\n", path, meta.HasVideo, meta.HasAudio)
	return meta, nil
}

// GenerateProxy runs ffmpeg to transcode the input to the output path using the
// arguments supplied by the options. Any existing file at the output path is
// overwritten. If ffmpeg fails, any partial output it left behind is removed
// and a *ProxyError is returned.
func (gateway *Gateway) GenerateProxy(ctx context.Context, input string, output string, opts transcoder.Options) error {
	if err := os.MkdirAll(filepath.Dir(output), os.ModePerm); err != nil {
		return &ProxyError{Input: input, Output: output, ExitCode: -1, Err: err}
	}

	args := append([]string{"-hide_banner", "-i", input}, opts.GetStrArguments()...)
	args = append(args, output)

	res, err := execute(ctx, gateway.config.TranscodeTimeout(), gateway.config.FfmpegBinaryPath, args)
	if err != nil {
		if rmErr := os.Remove(output); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			log.Emit(logger.WARNING, "Failed to remove partial proxy output %s: %v\n", output, rmErr)
		}

		proxyErr := &ProxyError{Input: input, Output: output, ExitCode: res.exitCode, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			proxyErr.Message = summariseOutput(nil, res.stderr)
		}

		return proxyErr
	}

	log.Emit(logger.DEBUG, "Generated proxy %s from %s\n", output, input)
	return nil
}
