// Package memimage provides the byte-addressable memory arena that scan-cycle
// programs read inputs from and write outputs to.
//
// The arena is split into three regions: inputs (I), outputs (Q) and internal
// markers (M). Signals bind to bits ("I0.3", "M106.1") and registers bind to
// bytes ("QB0", "MB30"). Reads and writes take effect immediately; any
// buffering between cycles belongs to the I/O driver, which uses Region and
// Load to move snapshots across the cycle boundary.
package memimage
