// Package stats holds the running counters for the reassembly engine,
// exposed both through a periodic CSV dump (csv.go) and through a
// Prometheus registry (prometheus.go).
package stats

import (
	"strconv"
	"sync/atomic"
)

// Counter is a simple lock-free running total.
type Counter struct{ v int64 }

// Add increments the counter by delta.
func (c *Counter) Add(delta int64) { atomic.AddInt64(&c.v, delta) }

// Value returns the current total.
func (c *Counter) Value() int64 { return atomic.LoadInt64(&c.v) }

// Counters is the full set of engine-observable counters: completed
// frames, restarts, per-decode-path block counts, dropped packets, and
// CRC mismatches.
type Counters struct {
	FramesCompleted  Counter
	Restarts         Counter
	BlocksFastPath   Counter
	BlocksFECDecoded Counter
	PacketsDropped   Counter
	CRCMismatches    Counter
}

// New returns a zeroed counter set.
func New() *Counters { return &Counters{} }

// Header returns the CSV column names in the same order as ToSlice, for
// the csv logger's header row.
func (c *Counters) Header() []string {
	return []string{
		"FramesCompleted", "Restarts", "BlocksFastPath", "BlocksFECDecoded",
		"PacketsDropped", "CRCMismatches",
	}
}

// ToSlice renders every counter as a string, same order as Header.
func (c *Counters) ToSlice() []string {
	return []string{
		strconv.FormatInt(c.FramesCompleted.Value(), 10),
		strconv.FormatInt(c.Restarts.Value(), 10),
		strconv.FormatInt(c.BlocksFastPath.Value(), 10),
		strconv.FormatInt(c.BlocksFECDecoded.Value(), 10),
		strconv.FormatInt(c.PacketsDropped.Value(), 10),
		strconv.FormatInt(c.CRCMismatches.Value(), 10),
	}
}
