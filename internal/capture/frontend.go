// Package capture implements the front-end that strips radiotap and
// link-layer headers off a captured monitor-mode radio frame, validates
// FCS, and hands the resulting VTX packet to the reassembly engine.
// Parsing the capture driver's own framing (libpcap, AF_PACKET, ...) is
// out of scope here; that lives behind the Source interface in device.go.
package capture

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
)

// LinkLayerHeaderLen is the fixed 24-byte IEEE 802.11 ad-hoc data-frame
// header this link always uses.
const LinkLayerHeaderLen = 24

// fcsTrailerLen is the trailing FCS length trimmed from the payload when
// the radiotap flags report FCS-at-end.
const fcsTrailerLen = 4

// radiotap flag bits (IEEE80211_RADIOTAP_F_*), tested directly on the
// decoded layer's Flags field rather than through helper methods so the
// exact bit semantics stay visible at the call site.
const (
	radiotapFlagFCS    = 0x10 // FCS is present at the end of the frame
	radiotapFlagBadFCS = 0x40 // the PHY reported a bad checksum
)

// ErrBadFCS is returned when the capture driver reports a corrupt frame.
// This is fatal: the ground station must never hand a known-corrupt
// frame to the reassembly engine.
var ErrBadFCS = errors.New("capture: radiotap reports bad FCS")

// ParsedPacket is one VTX packet recovered from a captured radio frame,
// ready for insertion into the block store.
type ParsedPacket struct {
	BlockIndex  uint32
	PacketIndex uint8
	Payload     []byte
}

// Parse decodes the radiotap prefix, rejects bad-FCS frames, strips the
// radiotap and link-layer framing, and splits the VTX header from its
// payload. It does not apply the FEC_N bound or the wire fingerprint
// filter -- those are the caller's job (Engine.Ingest and the capture
// driver's BPF filter, respectively).
func Parse(raw []byte) (ParsedPacket, error) {
	rt := &layers.RadioTap{}
	if err := rt.DecodeFromBytes(raw, gopacket.NilDecodeFeedback); err != nil {
		return ParsedPacket{}, errors.Wrap(err, "capture: decode radiotap")
	}

	flags := uint8(rt.Flags)
	if flags&radiotapFlagBadFCS != 0 {
		return ParsedPacket{}, ErrBadFCS
	}

	headerLen := len(rt.BaseLayer.Contents)
	skip := headerLen + LinkLayerHeaderLen
	if skip+vtxHeaderSize > len(raw) {
		return ParsedPacket{}, errors.New("capture: frame too short for VTX header")
	}

	rest := raw[skip:]
	size := len(rest)
	if flags&radiotapFlagFCS != 0 {
		size -= fcsTrailerLen
	}
	if size < vtxHeaderSize || size > len(rest) {
		return ParsedPacket{}, errors.New("capture: frame too short after FCS trim")
	}

	header := rest[:vtxHeaderSize]
	payload := rest[vtxHeaderSize:size]

	return ParsedPacket{
		BlockIndex:  uint32(header[0]) | uint32(header[1])<<8 | uint32(header[2])<<16,
		PacketIndex: header[3],
		Payload:     payload,
	}, nil
}

const vtxHeaderSize = 6

// MatchesFingerprint reports whether linkLayer carries this link's wire
// fingerprint: the first 4 bytes at offset 0x0a must equal 11 22 33 44
// and the 2 bytes at offset 0x0e must equal 55 66. OpenDevice installs
// this rule as a BPF filter on the capture handle; it is exposed here too
// so software-only callers (tests, non-BPF drivers) can apply the same
// rule.
func MatchesFingerprint(linkLayer []byte) bool {
	if len(linkLayer) < 0x10 {
		return false
	}
	return linkLayer[0x0a] == 0x11 && linkLayer[0x0b] == 0x22 &&
		linkLayer[0x0c] == 0x33 && linkLayer[0x0d] == 0x44 &&
		linkLayer[0x0e] == 0x55 && linkLayer[0x0f] == 0x66
}
