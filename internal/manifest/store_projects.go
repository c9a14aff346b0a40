package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"butler/internal/media"
	"butler/internal/naming"
	"butler/internal/services"
)

const projectColumns = "name, short_code, video_counter, audio_counter, created_at"

// GetProject fetches a project configuration by name, or nil when the
// project has never been configured.
func (s *Store) GetProject(ctx context.Context, name string) (*Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE name = ?`, name)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// CreateProject configures a new project with the given short code and
// zeroed counters. Re-configuring an existing project is rejected so an
// assigned short code can never be silently overwritten.
func (s *Store) CreateProject(ctx context.Context, name, shortCode string) (*Project, error) {
	if name == "" {
		return nil, services.Wrap(services.ErrInvalidArgument, "manifest", "create project", "project name required", nil)
	}
	if !naming.ValidShortCode(shortCode) {
		return nil, services.Wrap(
			services.ErrInvalidArgument,
			"manifest",
			"create project",
			fmt.Sprintf("short code %q must be 1-%d letters or digits", shortCode, naming.ShortCodeMaxLen),
			nil,
		)
	}

	existing, err := s.GetProject(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, services.Wrap(
			services.ErrInvalidArgument,
			"manifest",
			"create project",
			fmt.Sprintf("project %q already configured with short code %s", name, existing.ShortCode),
			nil,
		)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO projects (name, short_code, video_counter, audio_counter, created_at) VALUES (?, ?, 0, 0, ?)`,
		name,
		naming.NormalizeShortCode(shortCode),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	return s.GetProject(ctx, name)
}

// ListProjects returns all configured projects ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// NextSequence returns the sequence number RecordAsset will assign for the
// next asset of the given kind. It reads the current counter without
// mutating it; the increment happens inside RecordAsset's transaction.
func (s *Store) NextSequence(ctx context.Context, project string, kind media.Kind) (int64, error) {
	cfg, err := s.GetProject(ctx, project)
	if err != nil {
		return 0, err
	}
	if cfg == nil {
		return 0, services.Wrap(
			services.ErrManifest,
			"manifest",
			"next sequence",
			fmt.Sprintf("project %q is not configured", project),
			nil,
		)
	}
	return cfg.Counter(kind) + 1, nil
}

func counterColumn(kind media.Kind) string {
	if kind == media.KindAudio {
		return "audio_counter"
	}
	return "video_counter"
}

func scanProject(scanner interface{ Scan(dest ...any) error }) (*Project, error) {
	var (
		name         string
		shortCode    string
		videoCounter int64
		audioCounter int64
		createdRaw   string
	)
	if err := scanner.Scan(&name, &shortCode, &videoCounter, &audioCounter, &createdRaw); err != nil {
		return nil, err
	}
	project := &Project{
		Name:         name,
		ShortCode:    shortCode,
		VideoCounter: videoCounter,
		AudioCounter: audioCounter,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		project.CreatedAt = created
	}
	return project, nil
}
