package media

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var extensionTypes = map[string]Type{
	".mp3": Audio, ".wav": Audio, ".flac": Audio, ".aac": Audio, ".m4a": Audio, ".ogg": Audio, ".opus": Audio,
	".png": Image, ".jpg": Image, ".jpeg": Image, ".gif": Image, ".bmp": Image, ".tiff": Image, ".webp": Image,
}

// Classify determines the media type of the file at the path provided by
// sniffing its content. If the content cannot be read or is not recognisably
// audio or an image, the file extension is consulted before defaulting to Video.
func Classify(path string) Type {
	if mtype, err := mimetype.DetectFile(path); err == nil {
		for m := mtype; m != nil; m = m.Parent() {
			switch {
			case strings.HasPrefix(m.String(), "video/"):
				return Video
			case strings.HasPrefix(m.String(), "audio/"):
				return Audio
			case strings.HasPrefix(m.String(), "image/"):
				return Image
			}
		}
	}

	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}

	return Video
}
