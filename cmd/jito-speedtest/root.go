package main

import (
	"fmt"

	"jito-speedtest/internal/adapter/release"
	"jito-speedtest/internal/adapter/rpc"
	"jito-speedtest/internal/adapter/storage/registry"
	"jito-speedtest/internal/application"
	"jito-speedtest/internal/application/port"
	"jito-speedtest/internal/config"
	"jito-speedtest/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// factories build the services behind each command.
type factories struct {
	speedTest func(log *zap.Logger) (port.SpeedTestService, error)
	updater   func(cfg *config.Config, log *zap.Logger) port.UpdateService
}

func defaultFactories() factories {
	return factories{
		speedTest: func(log *zap.Logger) (port.SpeedTestService, error) {
			endpointRepo, err := registry.NewRepository(log)
			if err != nil {
				return nil, err
			}
			return application.NewSpeedTestService(endpointRepo, rpc.NewProber(log), log), nil
		},
		updater: func(cfg *config.Config, log *zap.Logger) port.UpdateService {
			return application.NewUpdateService(
				release.NewGitHubRepository(cfg.Update, log),
				release.NewSelfInstaller(cfg.Update.BinName, log),
				cfg.App.Version,
				cfg.Update.BinName,
				application.CurrentPlatform(),
				log,
			)
		},
	}
}

// app carries what every command needs once flags and config are resolved.
type app struct {
	version   string
	cfg       *config.Config
	logger    *zap.Logger
	factories factories
}

func newRootCmd(version string, f factories) *cobra.Command {
	var (
		configDir string
		logLevel  string
	)
	a := &app{version: version, factories: f}

	root := &cobra.Command{
		Use:          "jito-speedtest",
		Short:        "Jito block engine connection speed test",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if logLevel != "" {
				cfg.Logger.Level = logLevel
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			cfg.App.Version = version

			log, err := logger.NewLogger(cfg.Logger)
			if err != nil {
				return fmt.Errorf("failed to set up logger: %w", err)
			}
			log.Debug("Logger initialized", zap.Any("config", cfg.Logger))

			a.cfg = cfg
			a.logger = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSpeedTest(cmd, false)
		},
	}

	root.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newRunCmd(a),
		newVersionCmd(a),
		newUpdateCmd(a),
	)
	return root
}
