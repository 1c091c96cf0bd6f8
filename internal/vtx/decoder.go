package vtx

// Decoder owns the block store and the FEC gateway and implements the
// retire/GC policy.
type Decoder struct {
	Store *Store
	fec   *FECGateway
	fecK  int

	// CurrentProcessBlockIndex is the index most recently handed back by
	// TryDecode, per the "current_process_block_index" field of the
	// capture handler state.
	CurrentProcessBlockIndex uint32
	haveProcessed            bool
}

// NewDecoder builds a decoder around a store and FEC gateway sized for the
// same (k, n).
func NewDecoder(store *Store, fec *FECGateway, fecK int) *Decoder {
	return &Decoder{Store: store, fec: fec, fecK: fecK}
}

// TryDecode returns the reassembled block: fast-path concatenation when
// every systematic shard has arrived, FEC reconstruction when enough
// shards (systematic + parity) have arrived, or nil if the block isn't
// decodable yet. On success the block is retired (removed from the store).
func (d *Decoder) TryDecode(blockIndex uint32) ([]byte, error) {
	b := d.Store.Get(blockIndex)
	if b == nil {
		return nil, nil
	}

	if len(b.Systematic) == d.fecK {
		out := make([]byte, 0, d.fecK*ShardSize)
		for i := 0; i < d.fecK; i++ {
			out = append(out, b.Systematic[uint8(i)]...)
		}
		d.retire(blockIndex)
		return out, nil
	}

	if b.decodable(d.fecK) {
		out, err := d.fec.Decode(b.Systematic, b.Parity)
		if err != nil {
			return nil, err
		}
		d.retire(blockIndex)
		return out, nil
	}

	return nil, nil
}

func (d *Decoder) retire(blockIndex uint32) {
	d.Store.Delete(blockIndex)
	d.CurrentProcessBlockIndex = blockIndex
	d.haveProcessed = true
}

// TryDecodeWithWindow decodes blockIndex, then evicts every buffered
// block with index <= blockIndex-2 (no eviction when blockIndex < 2),
// bounding the store to at most two trailing blocks.
func (d *Decoder) TryDecodeWithWindow(blockIndex uint32) ([]byte, error) {
	out, err := d.TryDecode(blockIndex)
	if err != nil {
		return nil, err
	}
	if blockIndex >= 2 {
		d.Store.EvictBelow(blockIndex - 2)
	}
	return out, nil
}
