package vtx

import "testing"

func newTestDecoder(t *testing.T, k, n int) (*Store, *Decoder) {
	t.Helper()
	store := NewStore(k, n)
	fec, err := NewFECGateway(k, n)
	if err != nil {
		t.Fatalf("NewFECGateway: %v", err)
	}
	return store, NewDecoder(store, fec, k)
}

func TestDecoderFastPath(t *testing.T) {
	store, dec := newTestDecoder(t, 2, 3)
	store.Insert(0, 0, shardOf(0xaa))
	store.Insert(0, 1, shardOf(0xbb))

	out, err := dec.TryDecode(0)
	if err != nil {
		t.Fatalf("TryDecode: %v", err)
	}
	if len(out) != 2*ShardSize {
		t.Fatalf("decoded length = %d, want %d", len(out), 2*ShardSize)
	}
	if store.Get(0) != nil {
		t.Fatal("expected block retired from the store after decode")
	}
}

func TestDecoderInsufficientShards(t *testing.T) {
	store, dec := newTestDecoder(t, 2, 3)
	store.Insert(0, 0, shardOf(0xaa))

	out, err := dec.TryDecode(0)
	if err != nil {
		t.Fatalf("TryDecode: %v", err)
	}
	if out != nil {
		t.Fatal("expected nil result with only 1 of 2 systematic shards present")
	}
	if store.Get(0) == nil {
		t.Fatal("expected the partial block to remain buffered")
	}
}

func TestDecoderFECPath(t *testing.T) {
	store, dec := newTestDecoder(t, 2, 3)
	fec, err := NewFECGateway(2, 3)
	if err != nil {
		t.Fatalf("NewFECGateway: %v", err)
	}
	shards := [][]byte{shardOf(0x01), shardOf(0x02), make([]byte, ShardSize)}
	if err := fec.Encode(shards); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	store.Insert(0, 1, shards[1])
	store.Insert(0, 2, shards[2])

	out, err := dec.TryDecode(0)
	if err != nil {
		t.Fatalf("TryDecode: %v", err)
	}
	want := append(shardOf(0x01), shardOf(0x02)...)
	if len(out) != len(want) {
		t.Fatalf("decoded length = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("decoded byte %d mismatch", i)
		}
	}
}

func TestDecoderSlidingWindowEviction(t *testing.T) {
	store, dec := newTestDecoder(t, 2, 3)
	store.Insert(0, 0, shardOf(1))
	store.Insert(1, 0, shardOf(2))
	store.Insert(2, 0, shardOf(3))
	store.Insert(3, 0, shardOf(4))

	// none of these are decodable (only 1 of 2 systematic shards each), so
	// TryDecodeWithWindow should return nil but still evict old blocks.
	if _, err := dec.TryDecodeWithWindow(3); err != nil {
		t.Fatalf("TryDecodeWithWindow: %v", err)
	}

	if store.Get(0) != nil || store.Get(1) != nil {
		t.Fatalf("expected blocks <= 1 evicted by window around block 3, store has %d blocks", store.Len())
	}
	if store.Get(2) == nil || store.Get(3) == nil {
		t.Fatal("expected blocks 2 and 3 to survive the window")
	}
}

func TestDecoderSlidingWindowNoEvictionBelowTwo(t *testing.T) {
	store, dec := newTestDecoder(t, 2, 3)
	store.Insert(0, 0, shardOf(1))

	if _, err := dec.TryDecodeWithWindow(0); err != nil {
		t.Fatalf("TryDecodeWithWindow: %v", err)
	}
	if store.Get(0) == nil {
		t.Fatal("expected no eviction when blockIndex < 2")
	}
}
