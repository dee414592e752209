package medias

import (
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Reel/internal/media"
)

type (
	ImportRequest struct {
		Path string `json:"path" validate:"required"`
	}

	ImportResponse struct {
		ID uuid.UUID `json:"id"`
	}

	MetadataDto struct {
		DurationMs *int64   `json:"duration_ms"`
		Width      *int     `json:"width"`
		Height     *int     `json:"height"`
		FrameRate  *float64 `json:"frame_rate"`
		Codec      *string  `json:"codec"`
	}

	StatusDto struct {
		Phase  media.Phase `json:"phase"`
		Reason *string     `json:"reason,omitempty"`
	}

	// MediaDto is the response used by endpoints that return
	// media records (e.g., list, get). It is also the payload of
	// media updates pushed over the activity socket.
	MediaDto struct {
		ID           uuid.UUID   `json:"id"`
		OriginalPath string      `json:"original_path"`
		ProxyPath    *string     `json:"proxy_path"`
		Type         media.Type  `json:"media_type"`
		Metadata     MetadataDto `json:"metadata"`
		Status       StatusDto   `json:"status"`
		CreatedAt    time.Time   `json:"created_at"`
		UpdatedAt    time.Time   `json:"updated_at"`
	}
)

func NewDto(record *media.Record) *MediaDto {
	status := StatusDto{Phase: record.Status.Phase}
	if record.Status.Phase == media.PhaseError {
		reason := record.Status.Reason
		status.Reason = &reason
	}

	return &MediaDto{
		ID:           record.ID,
		OriginalPath: record.OriginalPath,
		ProxyPath:    record.ProxyPath,
		Type:         record.Type,
		Metadata: MetadataDto{
			DurationMs: record.Metadata.DurationMs,
			Width:      record.Metadata.Width,
			Height:     record.Metadata.Height,
			FrameRate:  record.Metadata.FrameRate,
			Codec:      record.Metadata.Codec,
		},
		Status:    status,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
