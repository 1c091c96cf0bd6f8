package inject

import "github.com/ncer/vtxgs/internal/vtx"

// radiotapTxFlagNoACK mirrors IEEE80211_RADIOTAP_F_TX_NOACK (0x08): the
// air side should not expect nor send a link-layer ACK for injected
// frames.
const radiotapTxFlagNoACK = 0x08

// txRadiotapHeader is the minimal radiotap header this injector prepends:
// version/pad/length + present bitmap (TX flags field present) + the
// TX_FLAGS value itself, with DATA_RETRIES implicitly 0 (the field is
// simply absent from the present bitmap).
func txRadiotapHeader() []byte {
	const present = 1 << 15 // bit 15: IEEE80211_RADIOTAP_TX_FLAGS present
	hdr := make([]byte, 10)
	hdr[0] = 0 // version
	hdr[1] = 0 // pad
	hdr[2] = byte(len(hdr))
	hdr[3] = byte(len(hdr) >> 8)
	hdr[4] = byte(present)
	hdr[5] = byte(present >> 8)
	hdr[6] = byte(present >> 16)
	hdr[7] = byte(present >> 24)
	hdr[8] = radiotapTxFlagNoACK
	hdr[9] = 0
	return hdr
}

// linkLayerHeader builds the fixed 24-byte IEEE 802.11 ad-hoc data header
// for an outbound frame, with the fingerprint bytes address-swapped
// relative to the inbound frame. The fingerprint bytes sit at the same
// 0x0a/0x0e offsets the capture front-end filters on.
func linkLayerHeader() []byte {
	hdr := make([]byte, capture24)
	// address-swapped fingerprint: inbound filters on 11 22 33 44 / 55 66
	// at the receiver's frame; outbound carries the same bytes reversed
	// at the byte level so the air-side capture filter (the mirror of
	// this ground station) recognizes it as a ground-to-air frame.
	hdr[0x0a], hdr[0x0b], hdr[0x0c], hdr[0x0d] = 0x44, 0x33, 0x22, 0x11
	hdr[0x0e], hdr[0x0f] = 0x66, 0x55
	return hdr
}

const capture24 = 24

// BuildFrame assembles one fully wire-ready outbound frame: radiotap + the
// 24-byte link-layer header + the VTX header + the shard payload.
func BuildFrame(pkt Packet) []byte {
	header := vtx.Header{
		BlockIndex:  pkt.BlockIndex,
		PacketIndex: pkt.PacketIndex,
		// size counts the VTX header itself plus the shard payload,
		// matching the injector's header construction.
		Size: uint16(len(pkt.Payload) + vtx.HeaderSize),
	}

	out := make([]byte, 0, 10+capture24+vtx.HeaderSize+len(pkt.Payload))
	out = append(out, txRadiotapHeader()...)
	out = append(out, linkLayerHeader()...)
	out = append(out, header.Encode()...)
	out = append(out, pkt.Payload...)
	return out
}
