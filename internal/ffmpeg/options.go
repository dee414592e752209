package ffmpeg

import (
	"fmt"

	"github.com/floostack/transcoder"
)

type ProxyMode int

const (
	// ModeVideo scales and re-encodes the video stream with the
	// configured codec and quality.
	ModeVideo ProxyMode = iota

	// ModeStill scales a single frame, writing an image.
	ModeStill

	// ModeAudio drops any video and re-encodes the audio to AAC.
	ModeAudio
)

const audioProxyBitrate = "128k"

// ProxyOptions describes a proxy transcode: the frame size to scale to, the
// video encoder to use and the encoder quality (a constant-rate-factor for
// the x264/x265 family). ExtraArgs are appended verbatim after the standard
// arguments.
type ProxyOptions struct {
	Mode      ProxyMode
	Width     int
	Height    int
	Codec     string
	Quality   uint32
	ExtraArgs []string
}

var _ transcoder.Options = (*ProxyOptions)(nil)

// ScaleFilter returns the '{width}:{height}' scale expression for these options.
func (opts *ProxyOptions) ScaleFilter() string {
	return fmt.Sprintf("%d:%d", opts.Width, opts.Height)
}

// GetStrArguments returns the ffmpeg arguments (excluding input and output)
// which produce the proxy described by these options. The output is always
// overwritten.
func (opts *ProxyOptions) GetStrArguments() []string {
	var args []string
	switch opts.Mode {
	case ModeStill:
		args = []string{"-vf", "scale=" + opts.ScaleFilter(), "-frames:v", "1", "-q:v", "3"}
	case ModeAudio:
		args = []string{"-vn", "-c:a", "aac", "-b:a", audioProxyBitrate}
	default:
		args = []string{
			"-vf", "scale=" + opts.ScaleFilter(),
			"-c:v", opts.Codec,
			"-crf", fmt.Sprint(opts.Quality),
		}
	}

	args = append(args, opts.ExtraArgs...)
	return append(args, "-y")
}

func (opts *ProxyOptions) String() string {
	switch opts.Mode {
	case ModeAudio:
		return "{audio aac}"
	case ModeStill:
		return fmt.Sprintf("{still scale=%s}", opts.ScaleFilter())
	default:
		return fmt.Sprintf("{scale=%s codec=%s quality=%d}", opts.ScaleFilter(), opts.Codec, opts.Quality)
	}
}
