package vtx

import "sort"

// ParityPacket is one received parity shard: its original packet_index and
// payload, kept as a set keyed implicitly by PacketIndex (no duplicates).
type ParityPacket struct {
	PacketIndex uint8
	Payload     []byte
}

// Block is a group of FEC_N wire packets sharing a block index: up to FEC_K
// systematic shards keyed by packet_index, plus the parity shards received
// so far.
type Block struct {
	Index      uint32
	Systematic map[uint8][]byte
	Parity     []ParityPacket
}

func newBlock(index uint32) *Block {
	return &Block{
		Index:      index,
		Systematic: make(map[uint8][]byte),
	}
}

func (b *Block) hasParity(packetIndex uint8) bool {
	for _, p := range b.Parity {
		if p.PacketIndex == packetIndex {
			return true
		}
	}
	return false
}

// decodable reports whether the block has received enough shards (any
// combination of systematic and parity summing to at least fecK) to attempt
// decoding.
func (b *Block) decodable(fecK int) bool {
	return len(b.Systematic)+len(b.Parity) >= fecK
}

// Store is the ordered map from block index to a partially-filled block,
// with at-most-once insertion of any (block_index, packet_index) pair.
type Store struct {
	blocks map[uint32]*Block
	fecK   int
	fecN   int
}

// NewStore builds an empty block store for the given systematic/total shard
// counts.
func NewStore(fecK, fecN int) *Store {
	return &Store{blocks: make(map[uint32]*Block), fecK: fecK, fecN: fecN}
}

// Insert records one VTX packet's payload into its block, creating the block
// on first touch. Duplicate packet_index values within a block are
// discarded silently (4.2).
func (s *Store) Insert(blockIndex uint32, packetIndex uint8, payload []byte) {
	b, ok := s.blocks[blockIndex]
	if !ok {
		b = newBlock(blockIndex)
		s.blocks[blockIndex] = b
	}

	if int(packetIndex) < s.fecK {
		if _, exists := b.Systematic[packetIndex]; !exists {
			b.Systematic[packetIndex] = payload
		}
		return
	}

	if !b.hasParity(packetIndex) {
		b.Parity = append(b.Parity, ParityPacket{PacketIndex: packetIndex, Payload: payload})
	}
}

// Get returns the block for index, or nil if absent.
func (s *Store) Get(index uint32) *Block {
	return s.blocks[index]
}

// Delete removes a block from the store (used by the decoder on retire and
// by the sliding-window GC on eviction).
func (s *Store) Delete(index uint32) {
	delete(s.blocks, index)
}

// Len reports how many blocks are currently buffered.
func (s *Store) Len() int {
	return len(s.blocks)
}

// KeysDescending returns all buffered block indices, highest first, so the
// driver loop can process the newest block first.
func (s *Store) KeysDescending() []uint32 {
	keys := make([]uint32, 0, len(s.blocks))
	for k := range s.blocks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })
	return keys
}

// EvictBelow removes every block with index <= threshold.
func (s *Store) EvictBelow(threshold uint32) {
	for idx := range s.blocks {
		if idx <= threshold {
			delete(s.blocks, idx)
		}
	}
}
