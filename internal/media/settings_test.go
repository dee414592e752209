package media_test

import (
	"testing"

	"github.com/hbomb79/Reel/internal/media"
	"github.com/stretchr/testify/assert"
)

func Test_ParseResolution(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token    string
		w, h     int
		expected media.Resolution
		wantErr  bool
	}{
		{token: "half", expected: media.Resolution{Kind: media.ResolutionHalf}},
		{token: "QUARTER", expected: media.Resolution{Kind: media.ResolutionQuarter}},
		{token: "custom", w: 1280, h: 720, expected: media.Resolution{Kind: media.ResolutionCustom, Width: 1280, Height: 720}},
		{token: "custom", w: 0, h: 720, wantErr: true},
		{token: "custom", w: 641, h: 360, wantErr: true},
		{token: "custom", w: 640, h: 361, wantErr: true},
		{token: "bogus", wantErr: true},
		{token: "", wantErr: true},
	}

	for _, test := range tests {
		res, err := media.ParseResolution(test.token, test.w, test.h)
		if test.wantErr {
			assert.ErrorIs(t, err, media.ErrInvalidResolution, "token %q", test.token)
			continue
		}

		assert.Nil(t, err, "token %q", test.token)
		assert.Equal(t, test.expected, res)
	}
}

func Test_Resolution_Dimensions(t *testing.T) {
	t.Parallel()

	intPtr := func(i int) *int { return &i }
	tests := []struct {
		name       string
		res        media.Resolution
		srcW, srcH *int
		w, h       int
		wantErr    bool
	}{
		{"Half1080p", media.Resolution{Kind: media.ResolutionHalf}, intPtr(1920), intPtr(1080), 960, 540, false},
		{"Quarter1080p", media.Resolution{Kind: media.ResolutionQuarter}, intPtr(1920), intPtr(1080), 480, 270, false},
		{"HalfOddRoundsToEven", media.Resolution{Kind: media.ResolutionHalf}, intPtr(1366), intPtr(767), 682, 382, false},
		{"TinySourceClamped", media.Resolution{Kind: media.ResolutionQuarter}, intPtr(4), intPtr(3), 2, 2, false},
		{"CustomIgnoresSource", media.Resolution{Kind: media.ResolutionCustom, Width: 1280, Height: 720}, nil, nil, 1280, 720, false},
		{"HalfUnknownSource", media.Resolution{Kind: media.ResolutionHalf}, nil, intPtr(1080), 0, 0, true},
		{"UnknownKind", media.Resolution{Kind: "double"}, intPtr(1920), intPtr(1080), 0, 0, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, h, err := test.res.Dimensions(test.srcW, test.srcH)
			if test.wantErr {
				assert.NotNil(t, err)
				return
			}

			assert.Nil(t, err)
			assert.Equal(t, test.w, w)
			assert.Equal(t, test.h, h)
		})
	}
}

func Test_ProxySettings_Validate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, media.DefaultProxySettings().Validate())

	noCodec := media.DefaultProxySettings()
	noCodec.Codec = " "
	assert.NotNil(t, noCodec.Validate())

	badQuality := media.DefaultProxySettings()
	badQuality.Quality = 99
	assert.NotNil(t, badQuality.Validate())

	badResolution := media.DefaultProxySettings()
	badResolution.Resolution = media.Resolution{Kind: media.ResolutionCustom}
	assert.ErrorIs(t, badResolution.Validate(), media.ErrInvalidResolution)
}
