// Package ports holds the validated, immutable list of TCP ports that the
// classifier probes on every candidate IP address.
package ports
