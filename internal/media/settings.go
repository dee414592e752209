package media

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidResolution = errors.New("invalid proxy resolution")

// maxQuality is the upper bound of the constant-rate-factor scale
// accepted by the x264/x265 family of encoders.
const maxQuality = 51

type (
	ResolutionKind string

	// Resolution describes the frame size of a proxy. Width and Height are
	// only meaningful (and required) for ResolutionCustom; the other kinds
	// are derived from the dimensions of the source.
	Resolution struct {
		Kind   ResolutionKind
		Width  int
		Height int
	}

	// ProxySettings are the parameters used when generating the proxy for
	// an import. They are copied by value in to each import when it is
	// started.
	ProxySettings struct {
		Resolution Resolution
		Codec      string
		Quality    uint32
	}
)

const (
	ResolutionHalf    ResolutionKind = "half"
	ResolutionQuarter ResolutionKind = "quarter"
	ResolutionCustom  ResolutionKind = "custom"
)

func DefaultProxySettings() ProxySettings {
	return ProxySettings{
		Resolution: Resolution{Kind: ResolutionHalf},
		Codec:      "h264",
		Quality:    23,
	}
}

// ParseResolution converts a resolution token ("half", "quarter" or "custom")
// in to a Resolution. The width and height are only used for "custom", and must
// both be positive and even in that case. Unknown tokens yield ErrInvalidResolution.
func ParseResolution(token string, width int, height int) (Resolution, error) {
	switch kind := ResolutionKind(strings.ToLower(strings.TrimSpace(token))); kind {
	case ResolutionHalf, ResolutionQuarter:
		return Resolution{Kind: kind}, nil
	case ResolutionCustom:
		if width <= 0 || height <= 0 {
			return Resolution{}, fmt.Errorf("%w: custom resolution requires a positive width and height (got %dx%d)", ErrInvalidResolution, width, height)
		}
		if width%2 != 0 || height%2 != 0 {
			return Resolution{}, fmt.Errorf("%w: custom resolution must have an even width and height (got %dx%d)", ErrInvalidResolution, width, height)
		}

		return Resolution{Kind: kind, Width: width, Height: height}, nil
	default:
		return Resolution{}, fmt.Errorf("%w: unrecognised resolution %q", ErrInvalidResolution, token)
	}
}

// Dimensions calculates the proxy frame size for a source of the dimensions
// given. Half and Quarter scale each side down and round to the nearest even
// number below (never less than 2), as most encoders reject odd frame sizes.
// An error is returned if the source dimensions are required but unknown.
func (res Resolution) Dimensions(srcWidth *int, srcHeight *int) (int, int, error) {
	var divisor int
	switch res.Kind {
	case ResolutionCustom:
		return res.Width, res.Height, nil
	case ResolutionHalf:
		divisor = 2
	case ResolutionQuarter:
		divisor = 4
	default:
		return 0, 0, fmt.Errorf("%w: unrecognised resolution %q", ErrInvalidResolution, res.Kind)
	}

	if srcWidth == nil || srcHeight == nil || *srcWidth <= 0 || *srcHeight <= 0 {
		return 0, 0, fmt.Errorf("cannot calculate %s resolution proxy size: source dimensions unknown", res.Kind)
	}

	return evenFloor(*srcWidth / divisor), evenFloor(*srcHeight / divisor), nil
}

func (res Resolution) String() string {
	if res.Kind == ResolutionCustom {
		return fmt.Sprintf("%s(%dx%d)", res.Kind, res.Width, res.Height)
	}

	return string(res.Kind)
}

// Validate ensures the settings could be used to generate a proxy.
func (settings ProxySettings) Validate() error {
	if _, err := ParseResolution(string(settings.Resolution.Kind), settings.Resolution.Width, settings.Resolution.Height); err != nil {
		return err
	}
	if strings.TrimSpace(settings.Codec) == "" {
		return errors.New("proxy codec must not be empty")
	}
	if settings.Quality > maxQuality {
		return fmt.Errorf("proxy quality %d is out of range (0-%d)", settings.Quality, maxQuality)
	}

	return nil
}

func evenFloor(n int) int {
	n -= n % 2
	if n < 2 {
		return 2
	}

	return n
}
