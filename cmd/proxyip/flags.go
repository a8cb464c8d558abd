package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/proxyip/internal/config"
	"github.com/nao1215/proxyip/internal/log"
)

// addCacheFlags registers the flags shared by every command that opens the cache.
func addCacheFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .proxyip in current or home directory)")
	cmd.Flags().String("cache", "",
		"Cache connection string: memory://, sqlite://<dir> or redis://[user:pass@]host:port/db")
}

// addPortsFlag registers --ports.
func addPortsFlag(cmd *cobra.Command) {
	cmd.Flags().IntSliceP("ports", "p", nil,
		"Comma separated TCP ports to probe (default: built-in list)")
}

// getVerboseFlag reads --verbose from the command or the root's persistent flags.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger builds the process logger and installs it as the slog default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	slog.SetDefault(logger)
	return logger
}

// loadBaseConfig returns defaults merged with the configuration file and
// the --cache and --ports flags. Flags only override when set explicitly.
// An explicit --config path that does not exist is an error; a missing
// default file is not.
func loadBaseConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cmd.Flags().Lookup("config") != nil {
		cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
		if err != nil {
			return nil, err
		}
	}

	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		file, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		file.Apply(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if flagChanged(cmd, "cache") {
		if cfg.CacheURL, err = cmd.Flags().GetString("cache"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "ports") {
		if cfg.Ports, err = cmd.Flags().GetIntSlice("ports"); err != nil {
			return nil, err
		}
		if len(cfg.Ports) == 0 {
			return nil, errors.New("--ports needs at least one port")
		}
	}

	return cfg, nil
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}
