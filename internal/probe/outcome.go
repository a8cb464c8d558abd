package probe

import (
	"fmt"
	"time"
)

// Status is the result class of one probe.
type Status int

const (
	// StatusClosed means the target actively refused the connection.
	StatusClosed Status = iota

	// StatusOpen means the TCP handshake completed.
	StatusOpen

	// StatusError means the probe timed out or failed for another reason.
	StatusError
)

// String returns a human-readable description of the status.
func (s Status) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusClosed:
		return "closed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the transient result of probing one (ip, port) pair.
type Outcome struct {
	IP     string
	Port   int
	Status Status

	// Reason holds the dial error for Closed/Error outcomes, or a write
	// error for an Open outcome whose payload could not be sent.
	Reason string

	// Elapsed is the wall time spent on the probe.
	Elapsed time.Duration
}

// Open reports whether the port accepted the connection.
func (o Outcome) Open() bool {
	return o.Status == StatusOpen
}

// String formats the outcome as "ip:port status (reason)".
func (o Outcome) String() string {
	if o.Reason == "" {
		return fmt.Sprintf("%s:%d %s", o.IP, o.Port, o.Status)
	}
	return fmt.Sprintf("%s:%d %s (%s)", o.IP, o.Port, o.Status, o.Reason)
}
