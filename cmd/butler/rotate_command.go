package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"butler/internal/config"
	"butler/internal/manifest"
	"butler/internal/rotation"
	"butler/internal/services"
)

func newRotateCommand(ctx *commandContext) *cobra.Command {
	var projectFlag string
	var olderThan int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Archive remote assets older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			project := strings.TrimSpace(projectFlag)
			if project == "" {
				return services.Wrap(services.ErrInvalidArgument, "rotate", "args", "--project is required", nil)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			return ctx.withStore(func(cfg *config.Config, store *manifest.Store) error {
				remoteStore, err := ctx.newRemote(cfg.Remote)
				if err != nil {
					return err
				}

				engine := rotation.New(store, remoteStore, logger)
				outcome, err := engine.Rotate(services.WithProject(cmd.Context(), project), project, olderThan, dryRun)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				verb := "Archived"
				if outcome.DryRun {
					verb = "Would archive"
				}
				if len(outcome.Affected) == 0 && len(outcome.Failures) == 0 {
					fmt.Fprintf(out, "No assets older than %d day(s) in %s\n", olderThan, project)
					return nil
				}

				for _, asset := range outcome.Affected {
					fmt.Fprintf(out, "  %s %s (%s)\n", verb, asset.SystemFilename, asset.RemoteKey)
				}
				for _, failure := range outcome.Failures {
					fmt.Fprintf(out, "  ✗ %s still active: %v\n", failure.Asset.SystemFilename, failure.Err)
				}
				fmt.Fprintf(out, "%s %d asset(s), %d failure(s)\n", verb, len(outcome.Affected), len(outcome.Failures))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "Project namespace to rotate")
	cmd.Flags().IntVar(&olderThan, "older-than", 90, "Retention window in days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report candidates without deleting anything")

	return cmd
}
