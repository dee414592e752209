package helpers

import (
	"testing"

	"github.com/hbomb79/Reel/internal/ffmpeg"
)

// The fake ffprobe decides what to report based on the name of the file
// being probed:
//   - '*corrupt*' exits non-zero with a JSON error document
//   - '*garbage*' exits zero but prints something which is not JSON
//   - '*slow*' sleeps long enough to trip any sensible probe timeout
//   - '*audio*' reports a single audio stream
//   - '*still*' reports a single-frame image
//   - anything else reports a 10 second 1920x1080 h264 video with audio
const fakeFfprobe = `
for last; do :; done
case "$last" in
	*corrupt*)
		printf '{"error":{"code":-1094995529,"string":"Invalid data found when processing input"}}'
		exit 1;;
	*garbage*)
		printf 'this is not json';;
	*slow*)
		exec sleep 30;;
	*audio*)
		printf '{"format":{"duration":"5.500000"},"streams":[{"codec_type":"audio","codec_name":"aac"}]}';;
	*still*)
		printf '{"format":{},"streams":[{"codec_type":"video","codec_name":"png","width":640,"height":480,"r_frame_rate":"0/0"}]}';;
	*)
		printf '{"format":{"duration":"10.000000"},"streams":[{"codec_type":"audio","codec_name":"aac"},{"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"r_frame_rate":"30000/1001"}]}';;
esac
`

// The fake ffmpeg writes the scale filter it was given to the output path
// (the final argument). An input path containing 'failtranscode' leaves a
// partial output behind and exits non-zero.
const fakeFfmpeg = `
input=""
scale=""
prev=""
for arg; do
	[ "$prev" = "-i" ] && input="$arg"
	[ "$prev" = "-vf" ] && scale="$arg"
	prev="$arg"
	output="$arg"
done
case "$input" in
	*failtranscode*)
		echo "partial" > "$output"
		echo "frame=    0 fps=0.0 q=0.0 size=       0kB" >&2
		echo "Conversion failed!" >&2
		exit 1;;
esac
echo "$scale" > "$output"
`

// FakeFfmpegConfig writes fake ffmpeg and ffprobe binaries to a temporary
// directory and returns an ffmpeg.Config which points at them.
func FakeFfmpegConfig(t *testing.T) ffmpeg.Config {
	dir := t.TempDir()
	return ffmpeg.Config{
		FfmpegBinaryPath:        WriteExecutable(t, dir, "ffmpeg", fakeFfmpeg),
		FfprobeBinaryPath:       WriteExecutable(t, dir, "ffprobe", fakeFfprobe),
		ProbeTimeoutSeconds:     5,
		TranscodeTimeoutSeconds: 5,
	}
}
