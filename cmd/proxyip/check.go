package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/proxyip/internal/classifier"
	"github.com/nao1215/proxyip/internal/config"
	"github.com/nao1215/proxyip/internal/report"
	"github.com/nao1215/proxyip/internal/tor"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [ip...]",
		Short: "Check whether IP addresses are proxies",
		Long: `Check classifies each IPv4 address in three steps and stops at the first hit:

  1. the address is already in the proxy cache
  2. the address is a Tor exit relay (DNS exit list)
  3. one of the configured TCP ports accepts a connection

Addresses found by step 2 or 3 are appended to the cache.

Examples:
  # Check one address
  proxyip check 203.0.113.7

  # Check a file of addresses, 20 at a time, using a shared Redis cache
  proxyip check --list ips.txt --batch 20 --cache redis://localhost:6379/0

  # Probe only a few ports and print JSON
  proxyip check --ports 1080,3128,8080 --json 198.51.100.4`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	addCacheFlags(cmd)
	addPortsFlag(cmd)

	cmd.Flags().StringP("list", "l", "",
		"File with one IP address per line ('#' starts a comment)")
	cmd.Flags().DurationP("probe-timeout", "t", config.DefaultProbeTimeout,
		"Connect plus write timeout for each port probe")
	cmd.Flags().Duration("lookup-timeout", config.DefaultLookupTimeout,
		"Timeout for each Tor exit-list lookup")
	cmd.Flags().String("zone", config.DefaultExitListZone,
		"DNS zone of the Tor exit list")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of addresses checked concurrently")
	cmd.Flags().Duration("negative-ttl", 0,
		"Remember negative verdicts in memory for this long (0 disables)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("proxies-only", false,
		"Only list proxies in the text report")

	return cmd
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCheckConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.ValidateTargets(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proxiesOnly, err := cmd.Flags().GetBool("proxies-only")
	if err != nil {
		return err
	}

	results, err := runCheck(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return outputReport(cfg, results, cmd.OutOrStdout(), proxiesOnly)
}

// buildCheckConfig merges the config file and the check flags into a Config.
func buildCheckConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return nil, err
	}

	durations := []struct {
		flag string
		dst  *time.Duration
	}{
		{"probe-timeout", &cfg.ProbeTimeout},
		{"lookup-timeout", &cfg.LookupTimeout},
		{"negative-ttl", &cfg.NegativeCacheTTL},
	}
	for _, d := range durations {
		if !flagChanged(cmd, d.flag) {
			continue
		}
		if *d.dst, err = cmd.Flags().GetDuration(d.flag); err != nil {
			return nil, err
		}
	}

	if flagChanged(cmd, "zone") {
		if cfg.ExitListZone, err = cmd.Flags().GetString("zone"); err != nil {
			return nil, err
		}
	}
	if flagChanged(cmd, "batch") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	cfg.Targets = append(cfg.Targets, args...)

	list, err := cmd.Flags().GetString("list")
	if err != nil {
		return nil, err
	}
	if list != "" {
		fromFile, err := config.LoadTargets(list)
		if err != nil {
			return nil, err
		}
		cfg.Targets = append(cfg.Targets, fromFile...)
	}

	return cfg, nil
}

// classifierOptions translates cfg into classifier options.
func classifierOptions(cfg *config.Config, logger *slog.Logger) []classifier.Option {
	oracle := tor.NewOracle(
		tor.WithExitListZone(cfg.ExitListZone),
		tor.WithLookupTimeout(cfg.LookupTimeout),
		tor.WithLogger(logger),
	)
	return []classifier.Option{
		classifier.WithLogger(logger),
		classifier.WithOracle(oracle),
		classifier.WithProbeTimeout(cfg.ProbeTimeout),
		classifier.WithNegativeCacheTTL(cfg.NegativeCacheTTL),
	}
}

// runCheck classifies cfg.Targets. A single target reports infrastructure
// failures as an error; several targets are checked as a batch where each
// failure is recorded on its Result. extra options are applied last.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger, extra ...classifier.Option) ([]classifier.Result, error) {
	logger.Debug("starting check",
		"targets", len(cfg.Targets),
		"ports", len(cfg.EffectivePorts()),
		"cache", cfg.CacheURL,
		"batch", cfg.BatchSize,
	)

	opts := append(classifierOptions(cfg, logger), extra...)
	c, err := classifier.NewWithConnection(ctx, cfg.EffectivePorts(), cfg.CacheURL, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close cache", "error", err)
		}
	}()

	if len(cfg.Targets) == 1 {
		res, err := c.Check(ctx, cfg.Targets[0])
		if err != nil {
			return nil, err
		}
		return []classifier.Result{res}, nil
	}

	return c.CheckBatch(ctx, cfg.Targets, cfg.BatchSize)
}

// outputReport writes results in the configured format to stdout or cfg.ReportFile.
func outputReport(cfg *config.Config, results []classifier.Result, stdout io.Writer, proxiesOnly bool) error {
	output := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output,
			report.WithProxiesOnly(proxiesOnly),
			report.WithVerbose(cfg.Verbose),
		)
	}

	_, err := w.Write(results)
	return err
}
