package vtx

import "testing"

func shardOf(b byte) []byte {
	s := make([]byte, ShardSize)
	for i := range s {
		s[i] = b
	}
	return s
}

func TestFECGatewayEncodeDecodeRoundTrip(t *testing.T) {
	g, err := NewFECGateway(2, 3)
	if err != nil {
		t.Fatalf("NewFECGateway: %v", err)
	}

	shards := [][]byte{shardOf(0x11), shardOf(0x22), make([]byte, ShardSize)}
	if err := g.Encode(shards); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// simulate losing systematic shard 0, keep shard 1 and the parity shard.
	present := map[uint8][]byte{1: shards[1]}
	parity := []ParityPacket{{PacketIndex: 2, Payload: shards[2]}}

	out, err := g.Decode(present, parity)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := append(shardOf(0x11), shardOf(0x22)...)
	if len(out) != len(want) {
		t.Fatalf("decoded length = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("decoded byte %d = %x, want %x", i, out[i], want[i])
		}
	}
}

func TestFECGatewayKN(t *testing.T) {
	g, err := NewFECGateway(4, 7)
	if err != nil {
		t.Fatalf("NewFECGateway: %v", err)
	}
	if g.K() != 4 || g.N() != 7 {
		t.Fatalf("K/N = %d/%d, want 4/7", g.K(), g.N())
	}
}

func TestPadShard(t *testing.T) {
	short := []byte{1, 2, 3}
	padded := padShard(short)
	if len(padded) != ShardSize {
		t.Fatalf("padded length = %d, want %d", len(padded), ShardSize)
	}
	for i, b := range short {
		if padded[i] != b {
			t.Fatalf("padded byte %d = %x, want %x", i, padded[i], b)
		}
	}
	for i := len(short); i < ShardSize; i++ {
		if padded[i] != 0 {
			t.Fatalf("padded byte %d = %x, want 0", i, padded[i])
		}
	}
}
