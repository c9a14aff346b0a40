package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"butler/internal/config"
	"butler/internal/deps"
	"butler/internal/ingest"
	"butler/internal/manifest"
	"butler/internal/naming"
	"butler/internal/services"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var projectFlag string
	var dirFlag string
	var skipSizeCheck bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Ingest media files from a directory into the remote store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			project := strings.TrimSpace(projectFlag)
			if project == "" {
				answer, err := prompt.ask("Project name?")
				if err != nil {
					return err
				}
				project = answer
			}
			if project == "" {
				return services.Wrap(services.ErrInvalidArgument, "sync", "args", "project name is required", nil)
			}

			dir := strings.TrimSpace(dirFlag)
			if dir == "" {
				answer, err := prompt.ask("Directory to sync?")
				if err != nil {
					return err
				}
				dir = answer
			}
			expandedDir, err := config.ExpandPath(dir)
			if err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *manifest.Store) error {
				if missing := deps.MissingRequired(ctx.checkTools(cfg)); len(missing) > 0 {
					return services.Wrap(
						services.ErrConfiguration,
						"sync",
						"preflight",
						fmt.Sprintf("%s unavailable: %s", missing[0].Name, missing[0].Detail),
						nil,
					)
				}

				runCtx := services.WithRunID(cmd.Context(), uuid.NewString())
				runCtx = services.WithProject(runCtx, project)

				if err := ensureProject(runCtx, cmd, store, prompt, project); err != nil {
					return err
				}

				files, err := ingest.DiscoverMediaFiles(expandedDir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No media files found in %s\n", expandedDir)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Found %d media file(s) in %s\n", len(files), expandedDir)

				if err := ingest.EnsureStagingDir(cfg); err != nil {
					return err
				}

				remoteStore, err := ctx.newRemote(cfg.Remote)
				if err != nil {
					return err
				}

				pipeline := ingest.New(cfg, store, ctx.newTranscoder(cfg), remoteStore, prompt, ctx.newProber(cfg), logger)

				started := time.Now()
				results, err := pipeline.Run(runCtx, project, files, ingest.Options{
					SkipSizeCheck: skipSizeCheck,
					Reporter: func(result ingest.Result) {
						fmt.Fprintln(cmd.OutOrStdout(), formatResultLine(result))
					},
				})
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), renderSyncSummary(results, time.Since(started)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "Project namespace to ingest into")
	cmd.Flags().StringVarP(&dirFlag, "dir", "d", "", "Directory to scan for media files")
	cmd.Flags().BoolVar(&skipSizeCheck, "skip-size-check", false, "Ingest oversized files without confirmation")

	return cmd
}

// ensureProject creates the project config on first use, prompting for a
// short code when none exists yet.
func ensureProject(ctx context.Context, cmd *cobra.Command, store *manifest.Store, prompt *prompter, project string) error {
	existing, err := store.GetProject(ctx, project)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	answer, err := prompt.ask(fmt.Sprintf("New project %q. Short code (1-%d chars, e.g. DM)?", project, naming.ShortCodeMaxLen))
	if err != nil {
		return err
	}
	created, err := store.CreateProject(ctx, project, answer)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Configured project %s with short code %s\n", created.Name, created.ShortCode)
	return nil
}

func formatResultLine(result ingest.Result) string {
	base := result.File
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}

	switch result.State {
	case ingest.StateIngested, ingest.StateRecorded:
		line := fmt.Sprintf("  ✓ %s → %s (%s", base, result.Asset.SystemFilename, humanize.IBytes(uint64(result.Asset.SizeBytes)))
		if result.DurationSeconds > 0 {
			line += fmt.Sprintf(", %s", formatDuration(result.DurationSeconds))
		}
		line += ")"
		if result.State == ingest.StateRecorded {
			line += " [local cleanup incomplete]"
		}
		return line
	case ingest.StateDuplicate:
		return fmt.Sprintf("  = %s duplicates %s; local copy removed", base, result.Duplicate.SystemFilename)
	case ingest.StateSkipped:
		return fmt.Sprintf("  - %s skipped", base)
	default:
		return fmt.Sprintf("  ✗ %s failed: %v", base, result.Err)
	}
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	return d.Truncate(time.Second).String()
}

func renderSyncSummary(results []ingest.Result, elapsed time.Duration) string {
	var ingested, duplicates, skipped, failed int
	var bytes int64
	for _, result := range results {
		switch result.State {
		case ingest.StateIngested, ingest.StateRecorded:
			ingested++
			bytes += result.Asset.SizeBytes
		case ingest.StateDuplicate:
			duplicates++
		case ingest.StateSkipped:
			skipped++
		default:
			failed++
		}
	}

	rows := [][]string{{
		fmt.Sprintf("%d", ingested),
		fmt.Sprintf("%d", duplicates),
		fmt.Sprintf("%d", skipped),
		fmt.Sprintf("%d", failed),
		humanize.IBytes(uint64(bytes)),
		elapsed.Truncate(time.Millisecond).String(),
	}}
	return renderTable([]string{"Ingested", "Duplicates", "Skipped", "Failed", "Uploaded", "Elapsed"}, rows, 1, 2, 3, 4, 5)
}
