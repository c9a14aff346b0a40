// Package naming derives system filenames for ingested assets.
//
// The allocator is a pure function of the project short code, the media
// kind, and the sequence number the manifest store is about to assign; it
// never increments state itself. ManifestStore.NextSequence supplies the
// post-increment value, and RecordAsset later verifies the same number was
// committed.
package naming

import (
	"fmt"
	"strings"

	"butler/internal/media"
)

// ShortCodeMaxLen bounds project short codes; they are 1-4 characters,
// stored uppercase.
const ShortCodeMaxLen = 4

// SystemFilename returns the canonical filename for an asset, e.g.
// AB_VID_0007.mp4. Sequence numbers beyond 9999 widen naturally.
func SystemFilename(shortCode string, kind media.Kind, sequence int64) string {
	return fmt.Sprintf("%s_%s_%04d%s", shortCode, kind.Code(), sequence, kind.TargetExt())
}

// RemoteKey returns the object-store key an asset uploads under.
func RemoteKey(project string, kind media.Kind, systemFilename string) string {
	return fmt.Sprintf("%s/%s/%s", project, kind.RemoteFolder(), systemFilename)
}

// NormalizeShortCode uppercases and trims a proposed short code.
func NormalizeShortCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidShortCode reports whether code satisfies the 1-4 uppercase-character
// constraint after normalization.
func ValidShortCode(code string) bool {
	code = NormalizeShortCode(code)
	if len(code) < 1 || len(code) > ShortCodeMaxLen {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
