// Package driver runs the host side of the panel protocol.
//
// A Driver exclusively owns the bus transport. Its poll loop wakes every
// Interval, writes queued commands, requests a reading and publishes the
// decoded reply to a lock-free snapshot. Consumers only enqueue commands
// and read snapshots, they never touch the bus.
//
// I/O failures never stop the loop. They are reported once per episode:
// when the link goes down and when it comes back.
package driver
