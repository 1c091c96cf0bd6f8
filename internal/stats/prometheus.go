package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry exposes the engine's Counters as Prometheus gauges: a handful
// of collectors registered with a private registry and served over
// /metrics by the caller's http.Handler (cmd/groundstation wires this to
// the control port).
type Registry struct {
	reg *prometheus.Registry

	framesCompleted  prometheus.GaugeFunc
	restarts         prometheus.GaugeFunc
	blocksFastPath   prometheus.GaugeFunc
	blocksFECDecoded prometheus.GaugeFunc
	packetsDropped   prometheus.GaugeFunc
	crcMismatches    prometheus.GaugeFunc
}

// NewRegistry builds a Prometheus registry wired to counters.
func NewRegistry(counters *Counters) *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}

	mk := func(name, help string, get func() int64) prometheus.GaugeFunc {
		gf := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "vtxgs",
			Name:      name,
			Help:      help,
		}, func() float64 { return float64(get()) })
		r.reg.MustRegister(gf)
		return gf
	}

	r.framesCompleted = mk("frames_completed_total", "JPEG frames handed to the downstream sink.", counters.FramesCompleted.Value)
	r.restarts = mk("source_restarts_total", "Producer-restart resets detected by the reassembler.", counters.Restarts.Value)
	r.blocksFastPath = mk("blocks_fast_path_total", "Blocks decoded via direct systematic concatenation.", counters.BlocksFastPath.Value)
	r.blocksFECDecoded = mk("blocks_fec_decoded_total", "Blocks decoded via the Reed-Solomon FEC path.", counters.BlocksFECDecoded.Value)
	r.packetsDropped = mk("packets_dropped_total", "VTX packets dropped for packet_index >= FEC_N.", counters.PacketsDropped.Value)
	r.crcMismatches = mk("crc_mismatches_total", "Frame-part headers whose CRC-8/SMBus didn't recompute.", counters.CRCMismatches.Value)

	return r
}

// Gatherer exposes the underlying prometheus.Gatherer for an HTTP handler.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }
