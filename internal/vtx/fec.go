package vtx

import (
	"github.com/klauspost/reedsolomon"
	"github.com/pkg/errors"
)

// ShardSize is the fixed FEC codec MTU: Decode pads every systematic/parity
// shard to exactly this many bytes before the external codec sees it.
const ShardSize = 1470

// FECGateway is a thin adapter over klauspost/reedsolomon's systematic
// (k, n) erasure codec. Decode pads every shard to ShardSize before
// handing it to the codec; Encode passes shards through at the size the
// caller gives them.
type FECGateway struct {
	k, n int
	enc  reedsolomon.Encoder
}

// NewFECGateway builds a codec handle for the given systematic/total shard
// counts. k must be >= 1 and n must be > k.
func NewFECGateway(k, n int) (*FECGateway, error) {
	enc, err := reedsolomon.New(k, n-k)
	if err != nil {
		return nil, errors.Wrap(err, "vtx: construct reed-solomon codec")
	}
	return &FECGateway{k: k, n: n, enc: enc}, nil
}

// Decode reconstructs the FEC_K systematic shards from any k-of-n subset and
// returns their concatenation (FEC_K * ShardSize bytes). present holds the
// systematic payloads keyed by packet_index (0..k), parity holds whatever
// parity shards were received, keyed by their original packet_index
// (k..n). Every payload is right-padded to ShardSize before reconstruction.
func (g *FECGateway) Decode(present map[uint8][]byte, parity []ParityPacket) ([]byte, error) {
	shards := make([][]byte, g.n)
	for idx, payload := range present {
		shards[idx] = padShard(payload)
	}
	for _, p := range parity {
		shards[p.PacketIndex] = padShard(p.Payload)
	}

	if err := g.enc.ReconstructData(shards); err != nil {
		return nil, errors.Wrap(err, "vtx: reed-solomon reconstruct")
	}

	out := make([]byte, 0, g.k*ShardSize)
	for i := 0; i < g.k; i++ {
		out = append(out, shards[i]...)
	}
	return out, nil
}

// Encode fills the parity shards (indices k..n) of shards in place given
// the k systematic shards already populated at indices 0..k.
func (g *FECGateway) Encode(shards [][]byte) error {
	if err := g.enc.Encode(shards); err != nil {
		return errors.Wrap(err, "vtx: reed-solomon encode")
	}
	return nil
}

// K reports the systematic shard count.
func (g *FECGateway) K() int { return g.k }

// N reports the total (systematic + parity) shard count.
func (g *FECGateway) N() int { return g.n }

func padShard(payload []byte) []byte {
	if len(payload) == ShardSize {
		return payload
	}
	padded := make([]byte, ShardSize)
	copy(padded, payload)
	return padded
}
