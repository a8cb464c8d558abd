package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for proxyip.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proxyip",
		Short: "Detect proxy IP addresses",
		Long: `proxyip classifies IPv4 addresses as proxies or not.

An address is a proxy when it is already in the proxy cache, when it is
listed as a Tor exit relay, or when any of the configured TCP ports accepts
a connection. Positive verdicts are appended to the cache.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewPortsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
