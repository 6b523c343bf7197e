package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoCurtain/GoCurtain/internal/auth"
	"github.com/GoCurtain/GoCurtain/internal/capability"
	"github.com/GoCurtain/GoCurtain/internal/curtain"
	"github.com/GoCurtain/GoCurtain/internal/daemon"
	"github.com/GoCurtain/GoCurtain/internal/options"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(activateCmd, deactivateCmd, modeCmd, statusCmd, passwdCmd)
}

// openPlugin connects to the database without starting the web service.
func openPlugin() (*curtain.Plugin, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := daemon.OpenDB(&c)
	if err != nil {
		return nil, err
	}

	return curtain.New(db, c.Curtain.ThemeBackground), nil
}

func modeName(mode int) string {
	if mode == options.ModeOn {
		return "on"
	}

	return "off"
}

var (
	activateCmd = &cobra.Command{
		Use:   "activate",
		Short: "Store the default options and grant manage_curtain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := openPlugin()
			if err != nil {
				return err
			}

			if err = p.Activate(); err != nil {
				return err
			}

			cmd.Println("curtain activated")

			return nil
		},
	}

	deactivateCmd = &cobra.Command{
		Use:   "deactivate",
		Short: "Remove the options and revoke manage_curtain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := openPlugin()
			if err != nil {
				return err
			}

			if err = p.Deactivate(); err != nil {
				return err
			}

			cmd.Println("curtain deactivated")

			return nil
		},
	}

	modeCmd = &cobra.Command{
		Use:       "mode on|off",
		Short:     "Hide (on) or show (off) the site",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := options.ModeOff
			if args[0] == "on" {
				mode = options.ModeOn
			}

			p, err := openPlugin()
			if err != nil {
				return err
			}

			changed, err := p.SetMode(mode)
			if err != nil {
				return err
			}

			if !changed {
				cmd.Printf("curtain already %s\n", modeName(mode))
				return nil
			}

			cmd.Printf("curtain %s\n", modeName(mode))

			return nil
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show the mode and the roles that may toggle it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := openPlugin()
			if err != nil {
				return err
			}

			mode, err := p.Mode()
			if err != nil {
				return err
			}

			roles, err := capability.Granted(p.DB())
			if err != nil {
				return err
			}

			needReset, err := p.NeedReset()
			if err != nil {
				return err
			}

			cmd.Printf("mode:     %s\n", modeName(mode))
			cmd.Printf("managers: %s\n", strings.Join(roles, ", "))
			cmd.Printf("defaults: %t\n", !needReset)

			return nil
		},
	}

	passwdCmd = &cobra.Command{
		Use:   "passwd <username> <password>",
		Short: "Set a user's password",
		Args:  cobra.ExactArgs(2), //nolint: mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openPlugin()
			if err != nil {
				return err
			}

			if err = auth.NewLocalProvider(p.DB()).ResetPassword(args[0], args[1]); err != nil {
				return fmt.Errorf("reset password for %s: %w", args[0], err)
			}

			cmd.Printf("password updated for %s\n", args[0])

			return nil
		},
	}
)
