package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"butler/internal/config"
	"butler/internal/manifest"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var projectFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show manifest contents per project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, store *manifest.Store) error {
				out := cmd.OutOrStdout()
				project := strings.TrimSpace(projectFlag)

				if project != "" {
					assets, err := store.ListAssets(cmd.Context(), project)
					if err != nil {
						return err
					}
					if len(assets) == 0 {
						fmt.Fprintf(out, "No assets recorded for %s\n", project)
						return nil
					}
					rows := make([][]string, 0, len(assets))
					for _, asset := range assets {
						rows = append(rows, []string{
							asset.SystemFilename,
							asset.OriginalFilename,
							string(asset.Status),
							humanize.IBytes(uint64(asset.SizeBytes)),
							asset.UploadedAt.Format("2006-01-02"),
						})
					}
					fmt.Fprintln(out, renderTable([]string{"Name", "Original", "Status", "Size", "Uploaded"}, rows, 4))
					return nil
				}

				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintf(out, "Manifest at %s has no projects yet\n", store.Path())
				} else {
					rows := make([][]string, 0, len(stats))
					for _, stat := range stats {
						rows = append(rows, []string{
							stat.Project,
							stat.ShortCode,
							fmt.Sprintf("%d", stat.ActiveCount),
							fmt.Sprintf("%d", stat.ArchivedCount),
							humanize.IBytes(uint64(stat.ActiveBytes)),
						})
					}
					fmt.Fprintln(out, renderTable([]string{"Project", "Code", "Active", "Archived", "Active Size"}, rows, 3, 4, 5))
				}

				toolRows := make([][]string, 0, 2)
				for _, status := range ctx.checkTools(cfg) {
					availability := "available"
					if !status.Available {
						availability = status.Detail
					}
					toolRows = append(toolRows, []string{status.Name, status.Command, availability})
				}
				if len(toolRows) > 0 {
					fmt.Fprintln(out, renderTable([]string{"Tool", "Command", "Status"}, toolRows))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&projectFlag, "project", "p", "", "Limit output to one project's assets")

	return cmd
}
