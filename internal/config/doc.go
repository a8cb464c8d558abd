// Package config provides configuration structures and utilities for proxyip.
// It defines the ports to probe, the cache connection, timeouts, and report
// output preferences.
package config
