// Package media classifies local files into the media kinds butler ingests
// and centralizes the per-kind constants used for naming and upload.
package media

import (
	"path/filepath"
	"strings"
)

// Kind is the media category of an asset. Each kind owns an independent
// naming counter per project.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".avi": {},
	".mkv": {},
}

var audioExtensions = map[string]struct{}{
	".mp3": {},
	".wav": {},
	".m4a": {},
	".aac": {},
	".ogg": {},
}

// KindForPath classifies a filename by extension, case-insensitively.
// The second return is false for files butler does not ingest.
func KindForPath(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo, true
	}
	if _, ok := audioExtensions[ext]; ok {
		return KindAudio, true
	}
	return "", false
}

// Valid reports whether k is a known media kind.
func (k Kind) Valid() bool {
	return k == KindVideo || k == KindAudio
}

// Code returns the three-letter identifier embedded in system filenames.
func (k Kind) Code() string {
	if k == KindAudio {
		return "AUD"
	}
	return "VID"
}

// TargetExt returns the canonical extension the transcoder produces for k.
func (k Kind) TargetExt() string {
	if k == KindAudio {
		return ".m4a"
	}
	return ".mp4"
}

// RemoteFolder returns the per-kind folder segment of remote keys.
func (k Kind) RemoteFolder() string {
	if k == KindAudio {
		return "audio"
	}
	return "videos"
}

// ContentType returns the MIME type sent with uploads of this kind.
func (k Kind) ContentType() string {
	if k == KindAudio {
		return "audio/mp4"
	}
	return "video/mp4"
}
