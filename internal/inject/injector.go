// Package inject implements the outbound configuration injector: the
// reverse of the capture/vtx pipeline, fragmenting a ground-to-air payload
// into the same block/packet/FEC layout the air side expects.
package inject

import (
	"github.com/pkg/errors"

	"github.com/ncer/vtxgs/internal/vtx"
)

// Packet is one fragment ready to be wrapped in wire framing and
// transmitted (see wire.go).
type Packet struct {
	BlockIndex  uint32
	PacketIndex uint8
	Payload     []byte
}

// Injector buffers systematic shards for the current block and emits FEC
// parity once FEC_K shards have been staged.
type Injector struct {
	fec  *vtx.FECGateway
	fecK int
	fecN int

	curBlock  uint32
	packetCnt int
	shardLen  int
	staged    [][]byte
}

// New builds an injector for the given systematic/total shard counts.
func New(fecK, fecN int) (*Injector, error) {
	fec, err := vtx.NewFECGateway(fecK, fecN)
	if err != nil {
		return nil, err
	}
	return &Injector{fec: fec, fecK: fecK, fecN: fecN}, nil
}

// Push stages one systematic shard of payload for the current block.
// Successive calls within a block must use identical-sized payloads
// (enforced below). It returns the wire packets to transmit immediately.
func (inj *Injector) Push(payload []byte) ([]Packet, error) {
	if inj.packetCnt == 0 {
		inj.shardLen = len(payload)
	} else if len(payload) != inj.shardLen {
		return nil, errors.Errorf("inject: payload size changed mid-block: have %d, want %d", len(payload), inj.shardLen)
	}

	inj.staged = append(inj.staged, payload)

	if inj.packetCnt < inj.fecK-1 {
		pkt := Packet{
			BlockIndex:  inj.curBlock,
			PacketIndex: uint8(inj.packetCnt),
			Payload:     payload,
		}
		inj.packetCnt++
		return []Packet{pkt}, nil
	}

	// packetCnt == fecK-1: the block is fully staged, run the FEC encoder
	// and emit the last systematic shard plus every parity shard.
	shards := make([][]byte, inj.fecN)
	for i, p := range inj.staged {
		shards[i] = p
	}
	for i := inj.fecK; i < inj.fecN; i++ {
		shards[i] = make([]byte, inj.shardLen)
	}
	if err := inj.fec.Encode(shards); err != nil {
		return nil, err
	}

	out := make([]Packet, 0, inj.fecN-inj.fecK+1)
	for i := inj.fecK - 1; i < inj.fecN; i++ {
		out = append(out, Packet{
			BlockIndex:  inj.curBlock,
			PacketIndex: uint8(i),
			Payload:     shards[i],
		})
	}

	inj.curBlock++
	inj.packetCnt = 0
	inj.staged = nil

	return out, nil
}
