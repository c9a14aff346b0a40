package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks missing or invalid settings; fatal before any work starts.
	ErrConfiguration = errors.New("configuration error")
	// ErrIO marks local filesystem faults (open, read, delete).
	ErrIO = errors.New("io error")
	// ErrTranscode marks external transcoder faults and carries the tool's diagnostics.
	ErrTranscode = errors.New("transcode error")
	// ErrRemote marks object-store faults (upload, delete, head).
	ErrRemote = errors.New("remote store error")
	// ErrManifest marks corrupt persisted state or an invariant violation.
	ErrManifest = errors.New("manifest error")
	// ErrInvalidArgument marks bad caller input, such as a non-numeric retention window.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error should abort the whole invocation rather
// than just the file or asset being processed.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrManifest)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
