package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/logtail"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var transitionID string
	var grep string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent banner log lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var terms []string
			if transitionID != "" {
				terms = append(terms, "transition_id="+transitionID)
			}
			terms = append(terms, grep)

			out, err := logtail.Read(cfg.LogPath(), lines, logtail.Contains(terms...))
			if err != nil {
				return err
			}
			if len(out) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No log entries available")
				return nil
			}
			for _, line := range out {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&transitionID, "transition", "", "Only lines from this transition")
	cmd.Flags().StringVar(&grep, "grep", "", "Only lines containing this text")
	return cmd
}
