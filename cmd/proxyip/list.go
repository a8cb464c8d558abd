package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/proxyip/internal/cache"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the cached proxy addresses",
		Long: `List prints every address in the proxy cache in the order it was added.
An address may appear more than once when it was first checked by several
processes at the same time.`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	addCacheFlags(cmd)
	cmd.Flags().BoolP("json", "j", false, "Print a JSON array")
	cmd.Flags().BoolP("unique", "u", false, "Drop repeated addresses")

	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadBaseConfig(cmd)
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	unique, err := cmd.Flags().GetBool("unique")
	if err != nil {
		return err
	}

	logger := setupLogger(cmd)
	logger.Debug("listing proxy cache", "cache", cfg.CacheURL)

	ctx := cmd.Context()
	store, err := cache.Open(ctx, cfg.CacheURL)
	if err != nil {
		return err
	}
	defer store.Close()

	ips, err := store.ListProxyIPs(ctx)
	if err != nil {
		return err
	}
	if unique {
		ips = dedupe(ips)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if ips == nil {
			ips = []string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ips)
	}
	for _, ip := range ips {
		fmt.Fprintln(out, ip)
	}
	return nil
}

// dedupe keeps the first occurrence of each address.
func dedupe(ips []string) []string {
	seen := make(map[string]struct{}, len(ips))
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		if _, ok := seen[ip]; ok {
			continue
		}
		seen[ip] = struct{}{}
		out = append(out, ip)
	}
	return out
}
