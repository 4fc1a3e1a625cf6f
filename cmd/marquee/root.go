package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/marquee/internal/app"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var catalogFlag string
	var prefsFlag string
	var headless bool
	var interval time.Duration

	ctx := newCommandContext(&configFlag, &catalogFlag)

	rootCmd := &cobra.Command{
		Use:           "marquee",
		Short:         "Rotating media hero banner for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load the catalog before app.Run takes over the terminal so a bad
			// --catalog is reported on a normal screen.
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if _, err := app.LoadCatalog(cfg); err != nil {
				return err
			}
			return app.Run(cmd.Context(), app.Options{
				ConfigPath: ctx.configPath(),
				PrefsPath:  prefsFlag,
				Catalog:    cfg.Catalog,
				Interval:   interval,
				Headless:   headless,
				LogWriter:  cmd.ErrOrStderr(),
			})
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Slide catalog file (TOML or YAML)")
	rootCmd.Flags().StringVar(&prefsFlag, "prefs", "", "Preferences file path")
	rootCmd.Flags().BoolVar(&headless, "headless", false, "Log frames instead of drawing the banner")
	rootCmd.Flags().DurationVar(&interval, "interval", 0, "Autoplay interval (overrides config)")

	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
