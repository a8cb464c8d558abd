// Package main provides the entry point for the proxyip CLI.
//
// proxyip reports whether IPv4 addresses look like proxies: Tor exit relays
// or hosts with typical proxy ports open. Positive verdicts are cached so
// repeated checks are cheap.
//
// Usage:
//
//	proxyip check <ip> [ip...]
//	proxyip check --list <file>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
