// Package ingest orchestrates the per-file pipeline: size policy, hashing,
// dedup lookup, transcode, upload, manifest record, and local cleanup.
//
// Files are processed strictly one at a time because each file's manifest
// record depends on the counter state committed by the previous one. A
// failure in any step aborts that file only and leaves the original source
// in place, so an interrupted run is safe to retry; the batch always
// continues to the next file. The manifest commit in RecordAsset is the
// durability point: before it, a crash can orphan a temp file or an
// uploaded object (the next sync reprocesses the still-present source),
// and after it the asset is ingested and the local copies are deleted.
package ingest
