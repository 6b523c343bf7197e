// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/GoCurtain/GoCurtain/internal/config"
	"github.com/GoCurtain/GoCurtain/internal/logger"
)

const (
	flagConfig = "config"
	envConfig  = "CURTAIN_CONFIG"
)

var rootCmd = &cobra.Command{
	Use:   "gocurtain",
	Short: "GoCurtain hides a site behind a maintenance page",
	Long: `GoCurtain puts a site into maintenance mode. Anonymous visitors get a
503 notice page while logged-in users keep browsing and administering it.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().String(flagConfig, config.DefaultPath, "Directory holding main.toml")

	_ = viper.BindPFlag(flagConfig, rootCmd.PersistentFlags().Lookup(flagConfig))
	_ = viper.BindEnv(flagConfig, envConfig)
}

// loadConfig reads the configuration and sets up logging.
func loadConfig() (config.Config, error) {
	c, err := config.ReadConfig(viper.GetString(flagConfig))
	if err != nil {
		return config.Config{}, err
	}

	if err = logger.Init(c.Log); err != nil {
		return config.Config{}, err
	}

	return c, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
