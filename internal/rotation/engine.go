package rotation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"butler/internal/logging"
	"butler/internal/manifest"
	"butler/internal/remote"
	"butler/internal/services"
)

// Failure pairs a rotation candidate with the error that kept it active.
type Failure struct {
	Asset *manifest.Asset
	Err   error
}

// Outcome reports what a rotation pass did (or, for dry runs, would do).
type Outcome struct {
	// Affected lists assets archived in this pass, or selected in dry-run
	// mode, in manifest order.
	Affected []*manifest.Asset
	// Failures lists candidates whose remote deletion failed; they remain
	// active.
	Failures []Failure
	DryRun   bool
}

// Engine deletes aged remote assets and archives their manifest records.
type Engine struct {
	store  *manifest.Store
	remote remote.Store
	logger *slog.Logger
	now    func() time.Time
}

// New constructs a rotation engine.
func New(store *manifest.Store, remoteStore remote.Store, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		remote: remoteStore,
		logger: logging.NewComponentLogger(logger, "rotation"),
		now:    time.Now,
	}
}

// Rotate archives the project's active assets uploaded more than maxAgeDays
// ago. Per-asset deletion failures are collected in the outcome, not
// returned as errors.
func (e *Engine) Rotate(ctx context.Context, project string, maxAgeDays int, dryRun bool) (Outcome, error) {
	if maxAgeDays <= 0 {
		return Outcome{}, services.Wrap(
			services.ErrInvalidArgument,
			"rotation",
			"rotate",
			fmt.Sprintf("retention window must be positive, got %d", maxAgeDays),
			nil,
		)
	}

	cfg, err := e.store.GetProject(ctx, project)
	if err != nil {
		return Outcome{}, err
	}
	if cfg == nil {
		return Outcome{}, services.Wrap(services.ErrManifest, "rotation", "rotate", fmt.Sprintf("project %q is not configured", project), nil)
	}

	now := e.now().UTC()
	cutoff := now.AddDate(0, 0, -maxAgeDays)
	candidates, err := e.store.ActiveAssetsOlderThan(ctx, project, cutoff)
	if err != nil {
		return Outcome{}, err
	}

	logger := logging.WithContext(services.WithProject(ctx, project), e.logger)
	outcome := Outcome{DryRun: dryRun}

	for _, asset := range candidates {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}
		if dryRun {
			outcome.Affected = append(outcome.Affected, asset)
			continue
		}

		if err := e.remote.Delete(ctx, asset.RemoteKey); err != nil {
			logger.Warn("remote deletion failed; asset stays active",
				logging.String("key", asset.RemoteKey),
				logging.Error(err),
			)
			outcome.Failures = append(outcome.Failures, Failure{Asset: asset, Err: err})
			continue
		}
		if err := e.store.MarkArchived(ctx, asset.ID, now); err != nil {
			// The remote object is gone but the manifest still says active;
			// surface this louder than an ordinary per-asset failure.
			logger.Error("remote object deleted but archive failed",
				logging.String("key", asset.RemoteKey),
				logging.Error(err),
			)
			outcome.Failures = append(outcome.Failures, Failure{Asset: asset, Err: err})
			continue
		}

		archived, err := e.store.GetAssetByID(ctx, asset.ID)
		if err != nil {
			return outcome, err
		}
		logger.Info("archived",
			logging.String("system_filename", archived.SystemFilename),
			logging.String("key", archived.RemoteKey),
		)
		outcome.Affected = append(outcome.Affected, archived)
	}
	return outcome, nil
}
