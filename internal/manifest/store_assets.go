package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"butler/internal/media"
	"butler/internal/services"
)

const assetColumns = "id, project, kind, system_filename, original_filename, content_hash, remote_key, size_bytes, sequence_number, uploaded_at, status, deleted_at"

// RecordAssetParams carries the fields of a new asset record. The caller
// names the file with NextSequence's value before transcoding; RecordAsset
// verifies the committed sequence still matches.
type RecordAssetParams struct {
	Project          string
	Kind             media.Kind
	SystemFilename   string
	OriginalFilename string
	ContentHash      string
	RemoteKey        string
	SizeBytes        int64
	SequenceNumber   int64
	// UploadedAt defaults to the current time when zero.
	UploadedAt time.Time
}

// RecordAsset atomically increments the (project, kind) counter, appends an
// active asset record carrying the resulting sequence number, and commits.
// The transaction is the durability point of the ingestion pipeline.
func (s *Store) RecordAsset(ctx context.Context, params RecordAssetParams) (*Asset, error) {
	if !params.Kind.Valid() {
		return nil, services.Wrap(services.ErrInvalidArgument, "manifest", "record asset", fmt.Sprintf("unknown kind %q", params.Kind), nil)
	}

	uploadedAt := params.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	column := counterColumn(params.Kind)
	var assigned int64
	err = tx.QueryRowContext(
		ctx,
		`UPDATE projects SET `+column+` = `+column+` + 1 WHERE name = ? RETURNING `+column,
		params.Project,
	).Scan(&assigned)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrManifest, "manifest", "record asset", fmt.Sprintf("project %q is not configured", params.Project), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("increment counter: %w", err)
	}

	if params.SequenceNumber != 0 && params.SequenceNumber != assigned {
		// The file was named with a stale counter; committing would let the
		// stored sequence diverge from the uploaded filename.
		return nil, services.Wrap(
			services.ErrManifest,
			"manifest",
			"record asset",
			fmt.Sprintf("counter moved between naming and commit: named %d, assigned %d", params.SequenceNumber, assigned),
			nil,
		)
	}

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO assets (
            project, kind, system_filename, original_filename, content_hash,
            remote_key, size_bytes, sequence_number, uploaded_at, status, deleted_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		params.Project,
		string(params.Kind),
		params.SystemFilename,
		params.OriginalFilename,
		params.ContentHash,
		params.RemoteKey,
		params.SizeBytes,
		assigned,
		uploadedAt.UTC().Format(time.RFC3339Nano),
		string(StatusActive),
		nil,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrManifest, "manifest", "record asset", "insert asset", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, services.Wrap(services.ErrManifest, "manifest", "record asset", "commit", err)
	}
	return s.GetAssetByID(ctx, id)
}

// GetAssetByID fetches an asset record by identifier.
func (s *Store) GetAssetByID(ctx context.Context, id int64) (*Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = ?`, id)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return asset, nil
}

// FindActiveAssetByHash returns the first active record (by creation order)
// whose content hash matches, or nil. Archived records never match: content
// rotated away has to be re-ingested.
func (s *Store) FindActiveAssetByHash(ctx context.Context, project, hash string) (*Asset, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+assetColumns+` FROM assets WHERE project = ? AND content_hash = ? AND status = ? ORDER BY id LIMIT 1`,
		project,
		hash,
		string(StatusActive),
	)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find asset by hash: %w", err)
	}
	return asset, nil
}

// ListAssets returns a project's asset records in creation order.
func (s *Store) ListAssets(ctx context.Context, project string) ([]*Asset, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE project = ? ORDER BY id`, project)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

// ActiveAssetsOlderThan returns the project's active assets uploaded before
// cutoff, in creation order. This is the rotation candidate set.
func (s *Store) ActiveAssetsOlderThan(ctx context.Context, project string, cutoff time.Time) ([]*Asset, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+assetColumns+` FROM assets WHERE project = ? AND status = ? AND uploaded_at < ? ORDER BY id`,
		project,
		string(StatusActive),
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("select rotation candidates: %w", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

// MarkArchived flips an asset to archived and stamps deleted_at. Each call
// commits on its own so a crash mid-rotation never loses an archive whose
// remote object is already gone.
func (s *Store) MarkArchived(ctx context.Context, id int64, deletedAt time.Time) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE assets SET status = ?, deleted_at = ? WHERE id = ? AND status = ?`,
		string(StatusArchived),
		deletedAt.UTC().Format(time.RFC3339Nano),
		id,
		string(StatusActive),
	)
	if err != nil {
		return services.Wrap(services.ErrManifest, "manifest", "mark archived", "", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrManifest, "manifest", "mark archived", fmt.Sprintf("asset %d is not active", id), nil)
	}
	return nil
}

// Stats aggregates per-project asset counts and active sizes.
func (s *Store) Stats(ctx context.Context) ([]ProjectStats, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT p.name, p.short_code,
               COALESCE(SUM(CASE WHEN a.status = 'active' THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN a.status = 'archived' THEN 1 ELSE 0 END), 0),
               COALESCE(SUM(CASE WHEN a.status = 'active' THEN a.size_bytes ELSE 0 END), 0)
        FROM projects p
        LEFT JOIN assets a ON a.project = p.name
        GROUP BY p.name, p.short_code
        ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("manifest stats: %w", err)
	}
	defer rows.Close()

	var stats []ProjectStats
	for rows.Next() {
		var st ProjectStats
		if err := rows.Scan(&st.Project, &st.ShortCode, &st.ActiveCount, &st.ArchivedCount, &st.ActiveBytes); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

func collectAssets(rows *sql.Rows) ([]*Asset, error) {
	var assets []*Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func scanAsset(scanner interface{ Scan(dest ...any) error }) (*Asset, error) {
	var (
		id             int64
		project        string
		kindStr        string
		systemFilename string
		originalName   string
		contentHash    string
		remoteKey      string
		sizeBytes      int64
		sequenceNumber int64
		uploadedRaw    string
		statusStr      string
		deletedRaw     sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&project,
		&kindStr,
		&systemFilename,
		&originalName,
		&contentHash,
		&remoteKey,
		&sizeBytes,
		&sequenceNumber,
		&uploadedRaw,
		&statusStr,
		&deletedRaw,
	); err != nil {
		return nil, err
	}

	asset := &Asset{
		ID:               id,
		Project:          project,
		Kind:             media.Kind(kindStr),
		SystemFilename:   systemFilename,
		OriginalFilename: originalName,
		ContentHash:      contentHash,
		RemoteKey:        remoteKey,
		SizeBytes:        sizeBytes,
		SequenceNumber:   sequenceNumber,
		Status:           Status(statusStr),
	}
	if uploaded, err := parseTimeString(uploadedRaw); err == nil {
		asset.UploadedAt = uploaded
	}
	if deletedRaw.Valid {
		if deleted, err := parseTimeString(deletedRaw.String); err == nil {
			asset.DeletedAt = &deleted
		}
	}
	return asset, nil
}
