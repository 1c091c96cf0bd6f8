package frame

import (
	"log"
	"sort"
)

// Frame is one in-progress or completed application-layer frame: an ordered
// mapping from part index to payload, with PartsCount == 0 meaning the last
// part hasn't been seen yet.
type Frame struct {
	Index      uint32
	Parts      map[uint8][]byte
	PartsCount int
}

func newFrame(index uint32) *Frame {
	return &Frame{Index: index, Parts: make(map[uint8][]byte)}
}

// Complete reports whether every part up to PartsCount has arrived.
func (f *Frame) Complete() bool {
	return f.PartsCount != 0 && len(f.Parts) == f.PartsCount
}

// Bytes concatenates parts 0..PartsCount in ascending order into the
// reassembled JPEG byte stream.
func (f *Frame) Bytes() []byte {
	out := make([]byte, 0, f.PartsCount*PayloadSize)
	for i := 0; i < f.PartsCount; i++ {
		out = append(out, f.Parts[uint8(i)]...)
	}
	return out
}

// CRCPolicy controls what happens when a frame-part header's CRC-8/SMBus
// doesn't recompute: warn and keep the payload, or drop the part outright.
// Kept configurable instead of hardcoding one behavior.
type CRCPolicy int

const (
	// CRCWarn logs a mismatch but keeps the payload.
	CRCWarn CRCPolicy = iota
	// CRCDrop discards parts whose header CRC doesn't verify.
	CRCDrop
)

// CompletionFunc is handed a completed frame. When set, the reassembler
// clears its frame map after every completion; when unset, frames
// accumulate for polling (test-only).
type CompletionFunc func(f *Frame)

// Reassembler groups air-to-ground frame parts by frame index, in order,
// and detects completion.
type Reassembler struct {
	Frames           map[uint32]*Frame
	FinishFrameIndex uint32
	CRCPolicy        CRCPolicy
	OnComplete       CompletionFunc
}

// NewReassembler builds an empty reassembler with the warn-on-CRC-mismatch
// default policy.
func NewReassembler() *Reassembler {
	return &Reassembler{Frames: make(map[uint32]*Frame), CRCPolicy: CRCWarn}
}

// ConsumeBytes splits buf, a whole number of 1470-byte shards, into a
// 12-byte header and 1458-byte payload per shard and folds each into the
// frame map. A frame_index regression is treated as a source restart: all
// pending frames are dropped and onRestart fires so the caller can clear
// its own block store too.
func (r *Reassembler) ConsumeBytes(buf []byte, onRestart func()) {
	if len(buf)%1470 != 0 {
		panic("frame: ConsumeBytes requires a multiple of 1470 bytes")
	}

	for offset := 0; offset+1470 <= len(buf); offset += 1470 {
		shard := buf[offset : offset+1470]
		raw := shard[:HeaderSize]
		payload := shard[HeaderSize:]

		if !CRCValid(raw) {
			log.Printf("frame: header CRC mismatch on shard at offset %d", offset)
			if r.CRCPolicy == CRCDrop {
				continue
			}
		}

		h := DecodeHeader(raw)

		if h.FrameIndex < r.FinishFrameIndex {
			r.Frames = make(map[uint32]*Frame)
			r.FinishFrameIndex = 0
			if onRestart != nil {
				onRestart()
			}
			return
		}

		f, ok := r.Frames[h.FrameIndex]
		if !ok {
			f = newFrame(h.FrameIndex)
			r.Frames[h.FrameIndex] = f
		}

		realPart := h.RealPart()
		data := make([]byte, len(payload))
		copy(data, payload)
		f.Parts[realPart] = data

		if h.IsLast() {
			f.PartsCount = int(realPart) + 1
		}

		if f.Complete() {
			r.FinishFrameIndex = h.FrameIndex
			if r.OnComplete != nil {
				r.OnComplete(f)
				r.Frames = make(map[uint32]*Frame)
			}
		}
	}
}

// PendingIndices returns the currently buffered frame indices in ascending
// order, for polling callers (tests, or no-sink deployments).
func (r *Reassembler) PendingIndices() []uint32 {
	idx := make([]uint32, 0, len(r.Frames))
	for k := range r.Frames {
		idx = append(idx, k)
	}
	sort.Slice(idx, func(i, j int) bool { return idx[i] < idx[j] })
	return idx
}
