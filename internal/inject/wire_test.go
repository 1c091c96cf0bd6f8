package inject

import (
	"testing"

	"github.com/ncer/vtxgs/internal/vtx"
)

func TestBuildFrameLayout(t *testing.T) {
	pkt := Packet{BlockIndex: 3, PacketIndex: 1, Payload: []byte{0xde, 0xad, 0xbe, 0xef}}
	out := BuildFrame(pkt)

	wantLen := 10 + capture24 + vtx.HeaderSize + len(pkt.Payload)
	if len(out) != wantLen {
		t.Fatalf("frame length = %d, want %d", len(out), wantLen)
	}

	vtxHeaderStart := 10 + capture24
	h := vtx.DecodeHeader(out[vtxHeaderStart : vtxHeaderStart+vtx.HeaderSize])
	if h.BlockIndex != pkt.BlockIndex || h.PacketIndex != pkt.PacketIndex {
		t.Fatalf("decoded header = %+v, want block %d packet %d", h, pkt.BlockIndex, pkt.PacketIndex)
	}
	if int(h.Size) != len(pkt.Payload)+vtx.HeaderSize {
		t.Fatalf("header.Size = %d, want %d", h.Size, len(pkt.Payload)+vtx.HeaderSize)
	}

	gotPayload := out[vtxHeaderStart+vtx.HeaderSize:]
	if len(gotPayload) != len(pkt.Payload) {
		t.Fatalf("payload length = %d, want %d", len(gotPayload), len(pkt.Payload))
	}
	for i := range pkt.Payload {
		if gotPayload[i] != pkt.Payload[i] {
			t.Fatalf("payload byte %d mismatch", i)
		}
	}
}

func TestLinkLayerHeaderFingerprintSwapped(t *testing.T) {
	hdr := linkLayerHeader()
	if hdr[0x0a] != 0x44 || hdr[0x0b] != 0x33 || hdr[0x0c] != 0x22 || hdr[0x0d] != 0x11 {
		t.Fatalf("unexpected address-swapped fingerprint bytes: %x", hdr[0x0a:0x0e])
	}
	if hdr[0x0e] != 0x66 || hdr[0x0f] != 0x55 {
		t.Fatalf("unexpected swapped tail fingerprint bytes: %x", hdr[0x0e:0x10])
	}
}
