package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUpdateCmd(a *app) *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Check for and install the latest version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Update.Validate(); err != nil {
				return fmt.Errorf("invalid update configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			svc := a.factories.updater(a.cfg, a.logger)

			status, err := svc.Check(cmd.Context())
			if err != nil {
				return err
			}
			if status.UpToDate {
				fmt.Fprintf(out, "\n✅ Already up to date: v%s\n", status.CurrentVersion)
				return nil
			}

			fmt.Fprintf(out, "New version available: v%s (current: v%s)\n", status.LatestVersion, status.CurrentVersion)
			if checkOnly {
				return nil
			}

			fmt.Fprintf(out, "Downloading %s...\n", status.Asset.Name)
			status, err = svc.Update(cmd.Context())
			if err != nil {
				a.logger.Debug("Update failed", zap.Error(err))
				return err
			}

			if status.Installed {
				fmt.Fprintf(out, "✅ Updated to version: v%s\n", status.LatestVersion)
			} else {
				fmt.Fprintf(out, "\n✅ Already up to date: v%s\n", status.CurrentVersion)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether a newer version exists")
	return cmd
}
