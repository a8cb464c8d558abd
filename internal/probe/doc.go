// Package probe checks whether a TCP port accepts connections.
//
// A probe dials a literal IP address (never a hostname, so no DNS lookup can
// stall it), writes a short payload on success, and closes the connection.
// Every probe is bounded by its timeout and always releases its socket, even
// when the caller has stopped waiting for the result.
//
// Closed and Error outcomes are both negative signals. They are kept apart
// only for logging.
package probe
