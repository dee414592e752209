package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var ErrIllegalTransition = errors.New("illegal media status transition")

type (
	Type  string
	Phase string

	// Status is the lifecycle state of a Record. Reason is only
	// populated (and always non-empty) when the Phase is PhaseError.
	Status struct {
		Phase  Phase
		Reason string
	}

	// Metadata holds the technical attributes of a media file as reported
	// by a probe. Any attribute not reported is nil.
	Metadata struct {
		DurationMs *int64
		Width      *int
		Height     *int
		FrameRate  *float64
		Codec      *string
	}

	// Record represents a single imported media file and where it is in
	// the import pipeline. A Record carries no synchronisation of its own:
	// it must only be mutated by whoever exclusively owns it, and copies
	// handed to other goroutines should be made using Clone.
	Record struct {
		ID           uuid.UUID
		OriginalPath string
		ProxyPath    *string
		Type         Type
		Metadata     Metadata
		Status       Status
		CreatedAt    time.Time
		UpdatedAt    time.Time
	}
)

const (
	Video Type = "video"
	Audio Type = "audio"
	Image Type = "image"

	PhaseImporting       Phase = "importing"
	PhaseGeneratingProxy Phase = "generating_proxy"
	PhaseReady           Phase = "ready"
	PhaseError           Phase = "error"
)

func (t Type) IsValid() bool {
	return t == Video || t == Audio || t == Image
}

func (p Phase) IsTerminal() bool {
	return p == PhaseReady || p == PhaseError
}

func (s Status) String() string {
	if s.Phase == PhaseError {
		return fmt.Sprintf("%s(%s)", s.Phase, s.Reason)
	}

	return string(s.Phase)
}

// NewRecord constructs a Record for the file at the path given, in the
// Importing phase with a freshly generated ID. Relative paths are made
// absolute against the current working directory.
func NewRecord(path string) (*Record, error) {
	if path == "" {
		return nil, errors.New("media path must not be empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", path, err)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate media ID: %w", err)
	}

	now := time.Now()
	return &Record{
		ID:           id,
		OriginalPath: abs,
		Type:         Video,
		Status:       Status{Phase: PhaseImporting},
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Clone returns a deep copy of the record, such that no pointer
// fields are shared with the receiver.
func (record *Record) Clone() *Record {
	clone := *record
	clone.ProxyPath = clonePtr(record.ProxyPath)
	clone.Metadata = Metadata{
		DurationMs: clonePtr(record.Metadata.DurationMs),
		Width:      clonePtr(record.Metadata.Width),
		Height:     clonePtr(record.Metadata.Height),
		FrameRate:  clonePtr(record.Metadata.FrameRate),
		Codec:      clonePtr(record.Metadata.Codec),
	}

	return &clone
}

// ApplyMetadata stores the metadata from a successful probe. The record
// must still be Importing.
func (record *Record) ApplyMetadata(meta Metadata) error {
	if record.Status.Phase != PhaseImporting {
		return record.illegal("apply metadata")
	}

	record.Metadata = meta
	record.touch()
	return nil
}

// SetType changes the classification of the record. The record
// must still be Importing.
func (record *Record) SetType(t Type) error {
	if record.Status.Phase != PhaseImporting {
		return record.illegal("set type")
	} else if !t.IsValid() {
		return fmt.Errorf("media type %q is not valid", t)
	}

	record.Type = t
	record.touch()
	return nil
}

// BeginProxy moves an Importing record to GeneratingProxy.
func (record *Record) BeginProxy() error {
	if record.Status.Phase != PhaseImporting {
		return record.illegal("begin proxy generation")
	}

	record.Status = Status{Phase: PhaseGeneratingProxy}
	record.touch()
	return nil
}

// MarkReady completes the record, storing the path of the generated proxy.
func (record *Record) MarkReady(proxyPath string) error {
	if record.Status.Phase != PhaseGeneratingProxy {
		return record.illegal("mark ready")
	} else if proxyPath == "" {
		return fmt.Errorf("%w: proxy path must not be empty", ErrIllegalTransition)
	}

	record.ProxyPath = &proxyPath
	record.Status = Status{Phase: PhaseReady}
	record.touch()
	return nil
}

// MarkFailed moves a non-terminal record to the Error phase with the
// reason provided. Any proxy path is cleared.
func (record *Record) MarkFailed(reason string) error {
	if record.Status.Phase.IsTerminal() {
		return record.illegal("mark failed")
	}

	if reason == "" {
		reason = "unknown failure"
	}

	record.ProxyPath = nil
	record.Status = Status{Phase: PhaseError, Reason: reason}
	record.touch()
	return nil
}

// Validate checks the invariants which must hold for every record: a
// proxy path is present exactly when the record is Ready, and a reason
// is present exactly when the record has failed.
func (record *Record) Validate() error {
	switch {
	case record.ID == uuid.Nil:
		return errors.New("record has no ID")
	case !filepath.IsAbs(record.OriginalPath):
		return fmt.Errorf("record %s original path %q is not absolute", record.ID, record.OriginalPath)
	case !record.Type.IsValid():
		return fmt.Errorf("record %s has invalid type %q", record.ID, record.Type)
	case (record.ProxyPath != nil) != (record.Status.Phase == PhaseReady):
		return fmt.Errorf("record %s in phase %s has inconsistent proxy path", record.ID, record.Status.Phase)
	case (record.Status.Reason != "") != (record.Status.Phase == PhaseError):
		return fmt.Errorf("record %s in phase %s has inconsistent status reason", record.ID, record.Status.Phase)
	}

	switch record.Status.Phase {
	case PhaseImporting, PhaseGeneratingProxy, PhaseReady, PhaseError:
		return nil
	default:
		return fmt.Errorf("record %s has unknown phase %q", record.ID, record.Status.Phase)
	}
}

func (record *Record) String() string {
	return fmt.Sprintf("Media{ID=%s Path=%s Type=%s Status=%s}", record.ID, record.OriginalPath, record.Type, record.Status)
}

func (record *Record) illegal(action string) error {
	return fmt.Errorf("%w: cannot %s for media %s in phase %s", ErrIllegalTransition, action, record.ID, record.Status.Phase)
}

func (record *Record) touch() { record.UpdatedAt = time.Now() }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}

	v := *p
	return &v
}
