package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/app"
	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/media"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the slide catalog",
	}
	cmd.AddCommand(newCatalogListCommand(ctx))
	cmd.AddCommand(newCatalogValidateCommand(ctx))
	return cmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List slides in rotation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, cat.Len())
			for i, s := range cat.Slides() {
				rows = append(rows, []string{
					strconv.Itoa(i),
					s.ID,
					s.Title,
					string(s.Style),
					formatOffset(s),
					s.MediaSource,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "ID", "Title", "Style", "Start", "Media"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newCatalogValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every slide's media is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := app.LoadCatalog(cfg)
			if err != nil {
				return err
			}
			prober, err := app.NewProber(cfg)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "probe tool %s unavailable, checking files only: %v\n", cfg.Probe, err)
			}

			results, probeErr := media.Probe(cmd.Context(), cat.Sources(), prober)
			rows := make([][]string, 0, len(results))
			for _, res := range results {
				status, detail := "ok", ""
				if res.Duration > 0 {
					detail = res.Duration.Round(100 * time.Millisecond).String()
				}
				if res.Err != nil {
					status, detail = "unavailable", res.Err.Error()
				}
				s, _ := cat.Slide(res.Index)
				rows = append(rows, []string{strconv.Itoa(res.Index), s.ID, status, detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "ID", "Status", "Detail"},
				rows,
				[]columnAlignment{alignRight},
			))
			if probeErr != nil {
				return errors.New("catalog has unavailable media")
			}
			return nil
		},
	}
}

func loadCatalog(ctx *commandContext) (*catalog.Catalog, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return app.LoadCatalog(cfg)
}

func formatOffset(s catalog.Slide) string {
	if s.StartOffset == nil {
		return "-"
	}
	return s.StartOffset.String()
}
