package capture

import (
	"github.com/ncer/vtxgs/internal/frame"
	"github.com/ncer/vtxgs/internal/stats"
	"github.com/ncer/vtxgs/internal/vtx"
)

// Engine is the capture handler state: blocks, frames, the
// FEC-sized store/decoder pair, and the optional completion sink. It is
// single-threaded and non-suspending -- callers own all
// synchronization.
type Engine struct {
	FECK, FECN int

	store      *vtx.Store
	decoder    *vtx.Decoder
	reasm      *frame.Reassembler
	Stats      *stats.Counters
	OnFrame    func(*frame.Frame)
}

// NewEngine builds an engine for the given systematic/total shard counts.
func NewEngine(fecK, fecN int) (*Engine, error) {
	fec, err := vtx.NewFECGateway(fecK, fecN)
	if err != nil {
		return nil, err
	}
	store := vtx.NewStore(fecK, fecN)
	e := &Engine{
		FECK:    fecK,
		FECN:    fecN,
		store:   store,
		decoder: vtx.NewDecoder(store, fec, fecK),
		reasm:   frame.NewReassembler(),
		Stats:   stats.New(),
	}
	e.reasm.OnComplete = func(f *frame.Frame) {
		e.Stats.FramesCompleted.Add(1)
		if e.OnFrame != nil {
			e.OnFrame(f)
		}
	}
	return e, nil
}

// Ingest runs Parse over a raw captured frame and inserts the result into
// the block store: packets with packet_index >= FEC_N are dropped
// silently, everything else goes into the block store.
func (e *Engine) Ingest(raw []byte) error {
	pkt, err := Parse(raw)
	if err != nil {
		return err
	}
	if int(pkt.PacketIndex) >= e.FECN {
		e.Stats.PacketsDropped.Add(1)
		return nil
	}
	e.store.Insert(pkt.BlockIndex, pkt.PacketIndex, pkt.Payload)
	return nil
}

// ProcessReady enumerates buffered blocks newest-first, tries to decode
// each with the sliding-window GC applied, and feeds every decoded block's
// bytes through the frame reassembler -- the capture thread's per-frame
// driver loop.
func (e *Engine) ProcessReady() error {
	for _, blockIndex := range e.store.KeysDescending() {
		b := e.store.Get(blockIndex)
		fastPath := b != nil && len(b.Systematic) == e.FECK
		out, err := e.decoder.TryDecodeWithWindow(blockIndex)
		if err != nil {
			return err
		}
		if out == nil {
			continue
		}
		if fastPath {
			e.Stats.BlocksFastPath.Add(1)
		} else {
			e.Stats.BlocksFECDecoded.Add(1)
		}
		for off := 0; off+vtx.ShardSize <= len(out); off += vtx.ShardSize {
			if !frame.CRCValid(out[off : off+frame.HeaderSize]) {
				e.Stats.CRCMismatches.Add(1)
			}
		}
		e.reasm.ConsumeBytes(out, func() {
			e.store.Delete(blockIndex)
			// a source restart clears ALL pending blocks, not just
			// the one being processed right now.
			for _, idx := range e.store.KeysDescending() {
				e.store.Delete(idx)
			}
			e.Stats.Restarts.Add(1)
		})
	}
	return nil
}

// PendingBlocks reports how many blocks are currently buffered (used by
// tests and by stats reporting).
func (e *Engine) PendingBlocks() int { return e.store.Len() }

// HasBlock reports whether a block index is still buffered -- used by
// tests asserting the sliding-window GC and retire invariants.
func (e *Engine) HasBlock(index uint32) bool { return e.store.Get(index) != nil }

// BlockShardCounts returns the systematic and parity shard counts buffered
// for a block, for test assertions. ok is false if the block is absent.
func (e *Engine) BlockShardCounts(index uint32) (systematic, parity int, ok bool) {
	b := e.store.Get(index)
	if b == nil {
		return 0, 0, false
	}
	return len(b.Systematic), len(b.Parity), true
}

// CurrentProcessBlockIndex mirrors the capture handler state field of the
// same name.
func (e *Engine) CurrentProcessBlockIndex() uint32 { return e.decoder.CurrentProcessBlockIndex }

// FinishFrameIndex mirrors the capture handler state field of the same
// name.
func (e *Engine) FinishFrameIndex() uint32 { return e.reasm.FinishFrameIndex }

// SetCRCPolicy configures how the reassembler reacts to a frame-part
// header CRC mismatch.
func (e *Engine) SetCRCPolicy(p frame.CRCPolicy) { e.reasm.CRCPolicy = p }
