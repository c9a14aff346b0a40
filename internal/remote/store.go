package remote

import (
	"context"
	"time"
)

// UploadInfo is the transfer confirmation returned by a successful upload.
type UploadInfo struct {
	Key  string
	ETag string
	Size int64
}

// ObjectInfo is the metadata returned by an existence probe.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// Store describes the object-store operations the core depends on.
type Store interface {
	// Upload streams the local file to key and returns a transfer
	// confirmation. Implementations must not load the file into memory
	// whole.
	Upload(ctx context.Context, localPath, key, contentType string) (UploadInfo, error)
	// Delete removes the object at key. Deleting a nonexistent key is not
	// an error.
	Delete(ctx context.Context, key string) error
	// Head probes for the object at key. Absent objects return (nil, nil);
	// other faults propagate.
	Head(ctx context.Context, key string) (*ObjectInfo, error)
}
