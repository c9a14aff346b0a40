// Package services defines the shared error taxonomy and context plumbing
// used by every pipeline component and external collaborator client.
//
// Errors are tagged with sentinel markers (configuration, io, transcode,
// remote, manifest, invalid argument) via Wrap so callers can classify a
// failure without parsing message text: configuration and manifest faults
// abort the invocation, while per-file faults are reported and skipped.
package services
