// Package remote abstracts the S3-compatible object store butler uploads
// into.
//
// The Store interface is what the pipeline and rotation engine depend on;
// the minio-backed implementation streams uploads from disk (the client
// handles chunked/multipart transfer internally), maps 404s on Head to an
// absent result, and treats delete as idempotent. Timeouts belong to the
// collaborator; callers treat any fault here as an ordinary failure of
// that step.
package remote
