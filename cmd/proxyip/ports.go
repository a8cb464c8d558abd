package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/proxyip/internal/cache"
	"github.com/nao1215/proxyip/internal/ports"
)

// NewPortsCmd creates the ports command.
func NewPortsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ports",
		Short: "Print the ports that check probes",
		Long: `Ports prints the effective port list, one per line, after applying the
configuration file and --ports. With --cached it prints the ports set last
published to the cache instead.`,
		Args: cobra.NoArgs,
		RunE: runPortsCmd,
	}

	addCacheFlags(cmd)
	addPortsFlag(cmd)
	cmd.Flags().Bool("cached", false, "Read the ports set stored in the cache")

	return cmd
}

func runPortsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return err
	}
	cached, err := cmd.Flags().GetBool("cached")
	if err != nil {
		return err
	}

	var list []int
	if cached {
		list, err = cachedPorts(cmd, cfg.CacheURL)
		if err != nil {
			return err
		}
	} else {
		registry, err := ports.New(cfg.EffectivePorts())
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		list = registry.Get()
	}

	out := cmd.OutOrStdout()
	for _, p := range list {
		fmt.Fprintln(out, p)
	}
	return nil
}

func cachedPorts(cmd *cobra.Command, connInfo string) ([]int, error) {
	ctx := cmd.Context()
	store, err := cache.Open(ctx, connInfo)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	lister, ok := store.(cache.PortLister)
	if !ok {
		return nil, errors.New("cache backend cannot list ports")
	}
	return lister.ListPorts(ctx)
}
