package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"butler/internal/config"
	"butler/internal/fileutil"
	"butler/internal/logging"
	"butler/internal/manifest"
	"butler/internal/media"
	"butler/internal/naming"
	"butler/internal/remote"
	"butler/internal/services"
	"butler/internal/services/ffmpeg"
)

// State is the terminal disposition of one file's pipeline run.
type State string

const (
	// StateIngested marks the full path: transcoded, uploaded, recorded,
	// and local copies removed.
	StateIngested State = "ingested"
	// StateDuplicate marks files whose content already exists as an active
	// asset; the redundant local copy was deleted.
	StateDuplicate State = "duplicate"
	// StateSkipped marks files the operator declined at the size prompt.
	StateSkipped State = "skipped"
	// StateRecorded marks assets that committed to the manifest but whose
	// local cleanup failed; the asset is ingested, the leftovers are
	// reported.
	StateRecorded State = "recorded"
	// StateFailed marks files that aborted mid-pipeline; the original
	// source is left in place for retry.
	StateFailed State = "failed"
)

// Confirmer asks the operator to approve a file exceeding its size limit.
type Confirmer interface {
	ConfirmOversize(file string, sizeBytes, limitBytes int64) (bool, error)
}

// Result reports the outcome of one file.
type Result struct {
	File            string
	Kind            media.Kind
	State           State
	SizeBytes       int64
	DurationSeconds float64
	Asset           *manifest.Asset
	Duplicate       *manifest.Asset
	Err             error
}

// Options adjust a single pipeline run.
type Options struct {
	// SkipSizeCheck bypasses the oversize confirmation prompt.
	SkipSizeCheck bool
	// Reporter, when set, receives each Result as soon as the file
	// finishes.
	Reporter func(Result)
}

// Pipeline ingests local media files into the remote store and manifest.
type Pipeline struct {
	cfg        *config.Config
	store      *manifest.Store
	transcoder ffmpeg.Client
	prober     ffmpeg.Prober
	remote     remote.Store
	confirm    Confirmer
	logger     *slog.Logger
}

// New constructs a pipeline. The prober is optional; everything else is
// required.
func New(cfg *config.Config, store *manifest.Store, transcoder ffmpeg.Client, remoteStore remote.Store, confirm Confirmer, prober ffmpeg.Prober, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		store:      store,
		transcoder: transcoder,
		prober:     prober,
		remote:     remoteStore,
		confirm:    confirm,
		logger:     logging.NewComponentLogger(logger, "ingest"),
	}
}

// Run processes files sequentially for the given project. Per-file failures
// are captured in their Result; the returned error is reserved for faults
// that invalidate the whole run, such as a missing project config.
func (p *Pipeline) Run(ctx context.Context, project string, files []string, opts Options) ([]Result, error) {
	cfg, err := p.store.GetProject(ctx, project)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, services.Wrap(services.ErrManifest, "ingest", "run", fmt.Sprintf("project %q is not configured", project), nil)
	}

	results := make([]Result, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result := p.processFile(ctx, cfg, file, opts)
		results = append(results, result)
		if opts.Reporter != nil {
			opts.Reporter(result)
		}
		// A manifest or configuration fault poisons every later file too;
		// stop instead of repeating it per file.
		if result.Err != nil && services.IsFatal(result.Err) {
			return results, result.Err
		}
	}
	return results, nil
}

func (p *Pipeline) processFile(ctx context.Context, project *manifest.Project, path string, opts Options) Result {
	name := filepath.Base(path)
	ctx = services.WithFile(ctx, name)
	logger := logging.WithContext(ctx, p.logger)

	result := Result{File: path, State: StateFailed}

	kind, ok := media.KindForPath(path)
	if !ok {
		result.Err = services.Wrap(services.ErrInvalidArgument, "ingest", "classify", fmt.Sprintf("%s is not a known media type", name), nil)
		return result
	}
	result.Kind = kind

	size, err := fileutil.FileSize(path)
	if err != nil {
		result.Err = services.Wrap(services.ErrIO, "ingest", "stat", name, err)
		return result
	}
	result.SizeBytes = size

	if !opts.SkipSizeCheck {
		limit := p.cfg.VideoLimitBytes()
		if kind == media.KindAudio {
			limit = p.cfg.AudioLimitBytes()
		}
		if size > limit {
			approved, err := p.confirm.ConfirmOversize(name, size, limit)
			if err != nil {
				result.Err = services.Wrap(services.ErrIO, "ingest", "confirm size", name, err)
				return result
			}
			if !approved {
				logger.Info("skipping oversized file", logging.Int64("size_bytes", size), logging.Int64("limit_bytes", limit))
				result.State = StateSkipped
				return result
			}
		}
	}

	logger.Info("hashing", logging.Int64("size_bytes", size))
	hash, err := fileutil.HashFile(path)
	if err != nil {
		result.Err = services.Wrap(services.ErrIO, "ingest", "hash", name, err)
		return result
	}

	existing, err := p.store.FindActiveAssetByHash(ctx, project.Name, hash)
	if err != nil {
		result.Err = err
		return result
	}
	if existing != nil {
		// The content is already ingested; the local copy is redundant.
		if err := fileutil.RemoveIfExists(path); err != nil {
			result.Err = services.Wrap(services.ErrIO, "ingest", "remove duplicate", name, err)
			return result
		}
		logger.Info("duplicate content removed", logging.String("existing", existing.SystemFilename))
		result.State = StateDuplicate
		result.Duplicate = existing
		return result
	}

	if p.prober != nil {
		if probed, err := p.prober.Probe(ctx, path); err == nil {
			result.DurationSeconds = probed.DurationSeconds
		} else {
			logger.Debug("probe failed", logging.Error(err))
		}
	}

	// The counter is read just before use so the window between naming and
	// the atomic increment in RecordAsset stays minimal.
	sequence, err := p.store.NextSequence(ctx, project.Name, kind)
	if err != nil {
		result.Err = err
		return result
	}
	systemFilename := naming.SystemFilename(project.ShortCode, kind, sequence)
	remoteKey := naming.RemoteKey(project.Name, kind, systemFilename)
	tempPath := filepath.Join(p.cfg.Paths.StagingDir, fmt.Sprintf("%s_%s", hash, systemFilename))

	logger.Info("transcoding", logging.String("target", systemFilename))
	switch kind {
	case media.KindAudio:
		err = p.transcoder.TranscodeAudio(ctx, path, tempPath)
	default:
		err = p.transcoder.TranscodeVideo(ctx, path, tempPath)
	}
	if err != nil {
		_ = fileutil.RemoveIfExists(tempPath)
		result.Err = err
		return result
	}

	uploadSize, err := fileutil.FileSize(tempPath)
	if err != nil {
		_ = fileutil.RemoveIfExists(tempPath)
		result.Err = services.Wrap(services.ErrIO, "ingest", "stat transcoded", systemFilename, err)
		return result
	}

	logger.Info("uploading", logging.String("key", remoteKey), logging.Int64("size_bytes", uploadSize))
	info, err := p.remote.Upload(ctx, tempPath, remoteKey, kind.ContentType())
	if err != nil {
		_ = fileutil.RemoveIfExists(tempPath)
		result.Err = err
		return result
	}
	if err := p.verifyUpload(ctx, remoteKey, uploadSize); err != nil {
		_ = fileutil.RemoveIfExists(tempPath)
		result.Err = err
		return result
	}

	asset, err := p.store.RecordAsset(ctx, manifest.RecordAssetParams{
		Project:          project.Name,
		Kind:             kind,
		SystemFilename:   systemFilename,
		OriginalFilename: name,
		ContentHash:      hash,
		RemoteKey:        remoteKey,
		SizeBytes:        uploadSize,
		SequenceNumber:   sequence,
	})
	if err != nil {
		// The upload already happened; rollback is not attempted. The next
		// sync reprocesses the still-present source file.
		_ = fileutil.RemoveIfExists(tempPath)
		result.Err = err
		return result
	}
	result.Asset = asset
	logger.Info("recorded",
		logging.String("system_filename", asset.SystemFilename),
		logging.Int64("sequence", asset.SequenceNumber),
		logging.String("etag", info.ETag),
	)

	result.State = StateRecorded
	if err := fileutil.RemoveIfExists(tempPath); err != nil {
		result.Err = services.Wrap(services.ErrIO, "ingest", "remove temp", tempPath, err)
		return result
	}
	if err := fileutil.RemoveIfExists(path); err != nil {
		result.Err = services.Wrap(services.ErrIO, "ingest", "remove original", name, err)
		return result
	}
	result.State = StateIngested
	return result
}

// verifyUpload probes the uploaded object and compares sizes when the store
// returns metadata. A missing object after a confirmed upload is a fault.
func (p *Pipeline) verifyUpload(ctx context.Context, key string, wantSize int64) error {
	info, err := p.remote.Head(ctx, key)
	if err != nil {
		return err
	}
	if info == nil {
		return services.Wrap(services.ErrRemote, "ingest", "verify upload", fmt.Sprintf("%s absent after upload", key), nil)
	}
	if info.Size != wantSize {
		return services.Wrap(
			services.ErrRemote,
			"ingest",
			"verify upload",
			fmt.Sprintf("%s size mismatch: uploaded %d, remote reports %d", key, wantSize, info.Size),
			nil,
		)
	}
	return nil
}

// EnsureStagingDir creates the staging directory the pipeline transcodes
// into.
func EnsureStagingDir(cfg *config.Config) error {
	return os.MkdirAll(cfg.Paths.StagingDir, 0o755)
}
