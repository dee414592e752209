package ffmpeg

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Metadata is the subset of ffprobe output Reel is interested in. Any field
// ffprobe did not report (or reported in a form we could not parse) is nil.
type Metadata struct {
	// Container duration in seconds
	Duration  *float64
	Width     *int
	Height    *int
	FrameRate *float64
	Codec     *string

	HasVideo bool
	HasAudio bool
}

type (
	probeOutput struct {
		Format  probeFormat   `json:"format"`
		Streams []probeStream `json:"streams"`
		Error   *probeError   `json:"error"`
	}

	probeFormat struct {
		Duration string `json:"duration"`
	}

	probeStream struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		Width      *int   `json:"width"`
		Height     *int   `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
	}

	probeError struct {
		Code    int    `json:"code"`
		Message string `json:"string"`
	}
)

// ParseProbeOutput converts the JSON document printed by ffprobe in to Metadata.
// Width, height, frame rate and codec are taken from the first video stream.
// Only a document which is not valid JSON is an error; missing fields are
// simply left unset.
func ParseProbeOutput(data []byte) (*Metadata, error) {
	var raw probeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ffprobe output is not valid JSON: %w", err)
	}

	meta := &Metadata{Duration: parseFloat(raw.Format.Duration)}
	for _, stream := range raw.Streams {
		switch stream.CodecType {
		case "video":
			if meta.HasVideo {
				continue
			}

			meta.HasVideo = true
			meta.Width = stream.Width
			meta.Height = stream.Height
			meta.FrameRate = parseFrameRate(stream.RFrameRate)
			if stream.CodecName != "" {
				codec := stream.CodecName
				meta.Codec = &codec
			}
		case "audio":
			meta.HasAudio = true
		}
	}

	return meta, nil
}

// parseFrameRate parses ffprobe's rational "num/den" frame rate. A malformed
// rational, or one with a zero denominator (ffprobe reports "0/0" when the
// rate is unknown), yields nil.
func parseFrameRate(rational string) *float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(rational), "/")
	if !ok {
		return nil
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return nil
	}

	rate := n / d
	return &rate
}

func parseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}

	return &f
}
