// Package classifier decides whether an IP address is acting as a proxy.
//
// A check walks through four states in a fixed order, cheapest and most
// certain first:
//
//  1. CacheCheck: the address is already in the store's proxy list.
//  2. OracleCheck: the address is a listed Tor exit relay.
//  3. ConcurrentPortProbe: any registered port accepts a TCP connection.
//     All ports are probed at once and the first open port ends the wait.
//     The remaining probes keep running on their own until their timeout
//     and close their sockets; their results are discarded.
//  4. Decide: the boolean verdict.
//
// Positive verdicts from steps 2 and 3 are appended to the store. Negative
// verdicts are not persisted, so every later check of the same address probes
// again (an in-process negative cache can be enabled with WithNegativeCacheTTL).
//
// Two concurrent first-time checks of the same proxy may both append it; the
// list tolerates duplicates.
package classifier
