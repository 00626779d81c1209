// Package progress carries fractional completion from workers to the single
// readout the user sees.
//
// A Sink accepts values in [0,1]. Forwarder relays values to a callback,
// Merger combines any number of weighted sources into their weighted mean and
// reports it upstream, and Bar renders the latest value on a terminal from its
// own goroutine.
package progress
