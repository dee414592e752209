package importer

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/ffmpeg"
	"github.com/hbomb79/Reel/internal/media"
	"github.com/hbomb79/Reel/pkg/logger"
)

var errImportDiscarded = errors.New("import discarded as media was removed")

// runPipeline drives the import of a single record from Importing through to
// Ready or Error. The record provided is owned exclusively by the pipeline; the
// registry only ever sees clones of it, committed after each state change.
func (registry *Registry) runPipeline(record *media.Record, generation uint64, settings media.ProxySettings) {
	err := registry.process(record, generation, settings)
	if errors.Is(err, errImportDiscarded) {
		return
	}

	if err != nil {
		log.Emit(logger.ERROR, "Import of %s (%s) failed: %v\n", record.ID, record.OriginalPath, err)
		if failErr := record.MarkFailed(err.Error()); failErr != nil {
			log.Emit(logger.ERROR, "Failed to mark %s as failed: %v\n", record, failErr)
		}
	} else {
		log.Emit(logger.SUCCESS, "Import of %s (%s) complete, proxy at %s\n", record.ID, record.OriginalPath, *record.ProxyPath)
	}

	if !registry.commit(record.Clone(), generation) && record.ProxyPath != nil {
		// The media was removed while the proxy was being generated, so nothing
		// else will ever clean the proxy up.
		if err := os.Remove(*record.ProxyPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Emit(logger.WARNING, "Failed to remove proxy %s of discarded import: %v\n", *record.ProxyPath, err)
		}
	}
}

func (registry *Registry) process(record *media.Record, generation uint64, settings media.ProxySettings) error {
	ctx := registry.ctx

	mediaType := media.Classify(record.OriginalPath)
	probed, err := registry.gateway.Probe(ctx, record.OriginalPath)
	if err != nil {
		return fmt.Errorf("metadata probe failed: %w", err)
	}

	if mediaType != media.Audio && !probed.HasVideo && probed.HasAudio {
		mediaType = media.Audio
	}
	if err := record.SetType(mediaType); err != nil {
		return err
	}
	if err := record.ApplyMetadata(toMediaMetadata(probed)); err != nil {
		return err
	}
	if !registry.commit(record.Clone(), generation) {
		return errImportDiscarded
	}

	opts, ext, err := registry.proxyOptions(record, settings)
	if err != nil {
		return err
	}

	if err := record.BeginProxy(); err != nil {
		return err
	}
	if !registry.commit(record.Clone(), generation) {
		return errImportDiscarded
	}

	output := registry.proxyOutputPath(record.ID, ext)
	log.Emit(logger.DEBUG, "Generating proxy for %s at %s with options %s\n", record.ID, output, opts)
	if err := registry.gateway.GenerateProxy(ctx, record.OriginalPath, output, opts); err != nil {
		return fmt.Errorf("proxy generation failed: %w", err)
	}

	if _, err := os.Stat(output); err != nil {
		return fmt.Errorf("proxy generation produced no output: %w", err)
	}

	return record.MarkReady(output)
}

// proxyOptions builds the transcode options (and proxy file extension) for the
// record provided, using the settings snapshot taken when the import started.
func (registry *Registry) proxyOptions(record *media.Record, settings media.ProxySettings) (*ffmpeg.ProxyOptions, string, error) {
	if record.Type == media.Audio {
		return &ffmpeg.ProxyOptions{Mode: ffmpeg.ModeAudio, ExtraArgs: registry.config.ExtraFfmpegArgs}, registry.config.AudioProxyExtension, nil
	}

	width, height, err := settings.Resolution.Dimensions(record.Metadata.Width, record.Metadata.Height)
	if err != nil {
		return nil, "", err
	}

	opts := &ffmpeg.ProxyOptions{
		Mode:      ffmpeg.ModeVideo,
		Width:     width,
		Height:    height,
		Codec:     settings.Codec,
		Quality:   settings.Quality,
		ExtraArgs: registry.config.ExtraFfmpegArgs,
	}

	if record.Type == media.Image {
		opts.Mode = ffmpeg.ModeStill
		return opts, registry.config.ImageProxyExtension, nil
	}

	return opts, registry.config.VideoProxyExtension, nil
}

// proxyOutputPath is where the proxy for the media is written, named after its ID.
func (registry *Registry) proxyOutputPath(id uuid.UUID, ext string) string {
	return filepath.Join(registry.config.ProxyDirectory, fmt.Sprintf("%s.%s", id, ext))
}

// removePartialProxies deletes any proxy output for the media which an import
// interrupted by a crash may have left behind.
func (registry *Registry) removePartialProxies(id uuid.UUID) {
	for _, ext := range []string{registry.config.VideoProxyExtension, registry.config.ImageProxyExtension, registry.config.AudioProxyExtension} {
		path := registry.proxyOutputPath(id, ext)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Emit(logger.WARNING, "Failed to remove partial proxy %s: %v\n", path, err)
		}
	}
}

func toMediaMetadata(probed *ffmpeg.Metadata) media.Metadata {
	meta := media.Metadata{
		Width:     probed.Width,
		Height:    probed.Height,
		FrameRate: probed.FrameRate,
		Codec:     probed.Codec,
	}

	if probed.Duration != nil {
		ms := int64(math.Round(*probed.Duration * 1000))
		meta.DurationMs = &ms
	}

	return meta
}
