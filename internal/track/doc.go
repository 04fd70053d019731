// Package track loads reference tracks and scores telemetry against them.
//
// A reference track carries a centreline, a corridor radius and start/end
// anchors. Align crops a raw session to the lap between the anchors and
// re-zeroes its timebase; Validate counts how many sampled points fall
// outside the corridor.
package track
