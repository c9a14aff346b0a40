package manifest

import (
	"time"

	"butler/internal/media"
)

// Status represents the lifecycle of an asset record.
type Status string

const (
	// StatusActive marks assets that exist in the remote store.
	StatusActive Status = "active"
	// StatusArchived marks assets whose remote object was rotated away;
	// the record remains as manifest history.
	StatusArchived Status = "archived"
)

// Project holds per-namespace configuration: the short code used in
// generated filenames and one monotonic counter per media kind.
type Project struct {
	Name         string
	ShortCode    string
	VideoCounter int64
	AudioCounter int64
	CreatedAt    time.Time
}

// Counter returns the current counter value for the given kind.
func (p *Project) Counter(kind media.Kind) int64 {
	if kind == media.KindAudio {
		return p.AudioCounter
	}
	return p.VideoCounter
}

// Asset is one successfully ingested file.
type Asset struct {
	ID               int64
	Project          string
	Kind             media.Kind
	SystemFilename   string
	OriginalFilename string
	ContentHash      string
	RemoteKey        string
	SizeBytes        int64
	SequenceNumber   int64
	UploadedAt       time.Time
	Status           Status
	DeletedAt        *time.Time
}

// Active reports whether the asset still exists remotely.
func (a *Asset) Active() bool {
	return a.Status == StatusActive
}

// ProjectStats aggregates manifest state for status output.
type ProjectStats struct {
	Project       string
	ShortCode     string
	ActiveCount   int
	ArchivedCount int
	ActiveBytes   int64
}
