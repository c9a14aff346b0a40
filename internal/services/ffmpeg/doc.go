// Package ffmpeg wraps the external ffmpeg/ffprobe binaries behind the
// Transcoder contract the ingestion pipeline depends on.
//
// The option set is fixed: video becomes H.264/AAC scaled down (never up)
// to fit within 1920x1080 with even dimensions, constant quality CRF 24;
// audio becomes AAC at 128k. Failures carry the tool's trailing stderr so
// per-file error reports are actionable.
package ffmpeg
