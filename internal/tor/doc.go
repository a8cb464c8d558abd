// Package tor answers whether an IPv4 address is a known Tor exit relay.
//
// The check uses the Tor Project's DNS exit list (dnsel.torproject.org). The
// four octets of the address are reversed and prefixed to the zone; an A record
// of 127.0.0.1 or 127.0.0.2 means "yes, this is an exit". NXDOMAIN or any other
// lookup failure means the address is not listed, which is the common case and
// is never reported as an error.
//
// The Oracle is designed to be used with dependency injection: tests pass a
// fake Resolver instead of touching the network.
package tor
