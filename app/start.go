package app

import (
	"github.com/spf13/cobra"

	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/daemon"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	startCmd.Flags().BoolVar(
		&browseStatic,
		"browse",
		false,
		"Enable static file browsing (for development purposes only)",
	)

	rootCmd.AddCommand(startCmd)
}

var (
	cfg config.Config

	devMode      bool
	browseStatic bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GoCurtain web service",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			if cfg, err = loadConfig(); err != nil {
				return err
			}

			if devMode {
				cfg.DevMode = true
			}

			if browseStatic {
				cfg.Webserver.BrowseStatic = true
			}

			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			d, err := daemon.New(&cfg)
			if err != nil {
				return err
			}

			return d.Start()
		},
	}
)
