// Package frame implements the air-to-ground frame-part header and the
// reassembler that groups frame parts by frame index into completed JPEG
// byte streams.
package frame

import (
	"github.com/sigurn/crc8"
)

// HeaderSize is the packed wire size of an air-to-ground frame-part header.
// header(12B) + payload(1458B) == vtx.ShardSize (1470B); frame_index is
// carried in 24 bits (offsets 9..11) rather than the full 32 to keep the
// packed header within 12 bytes, the same way the VTX header keeps
// block_index in 24 bits.
const HeaderSize = 12

// PayloadSize is the number of frame-part data bytes following the header
// inside one 1470-byte shard slot.
const PayloadSize = 1470 - HeaderSize

// PacketType distinguishes the two air-to-ground payload kinds.
type PacketType uint8

const (
	PacketTypeVideo PacketType = iota
	PacketTypeTelemetry
)

// Resolution mirrors the camera resolution enum carried in the header and
// in the ground-to-air config record.
type Resolution uint8

const (
	ResolutionQVGA Resolution = iota // 320x240
	ResolutionCIF                    // 400x296
	ResolutionHVGA                   // 480x320
	ResolutionVGA                    // 640x480
	ResolutionSVGA                   // 800x600
	ResolutionXGA                    // 1024x768
	ResolutionSXGA                   // 1280x1024
	ResolutionUXGA                   // 1600x1200
)

// smbusParams is CRC-8/SMBus: poly 0x07, init 0x00, no input/output
// reflection, no final xor, defined explicitly rather
// than relying on a library preset name.
var smbusParams = crc8.Params{
	Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00,
	Check: 0xf4, Name: "CRC-8/SMBUS",
}

var smbusTable = crc8.MakeTable(smbusParams)

// Header is the 12-byte air-to-ground frame-part header.
type Header struct {
	PacketType PacketType
	Size       uint32
	Pong       uint8
	CRC        uint8
	Resolution Resolution
	PartIndex  uint8 // bit7 = last part, bits0-6 = sequence
	FrameIndex uint32
}

// RealPart returns the 7-bit part sequence number.
func (h Header) RealPart() uint8 { return h.PartIndex & 0x7f }

// IsLast reports whether this part is the last of its frame.
func (h Header) IsLast() bool { return h.PartIndex&0x80 != 0 }

// DecodeHeader parses the leading HeaderSize bytes of b.
func DecodeHeader(b []byte) Header {
	_ = b[HeaderSize-1]
	return Header{
		PacketType: PacketType(b[0]),
		Size:       uint32(b[1]) | uint32(b[2])<<8 | uint32(b[3])<<16 | uint32(b[4])<<24,
		Pong:       b[5],
		CRC:        b[6],
		Resolution: Resolution(b[7]),
		PartIndex:  b[8],
		FrameIndex: uint32(b[9]) | uint32(b[10])<<8 | uint32(b[11])<<16,
	}
}

// Encode serialises the header into a fresh HeaderSize-byte buffer with crc
// computed and filled in.
func (h Header) Encode() []byte {
	buf := h.encodeRaw(0)
	buf[6] = crc8.Checksum(buf, smbusTable)
	return buf
}

func (h Header) encodeRaw(crc uint8) []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(h.PacketType)
	buf[1] = byte(h.Size)
	buf[2] = byte(h.Size >> 8)
	buf[3] = byte(h.Size >> 16)
	buf[4] = byte(h.Size >> 24)
	buf[5] = h.Pong
	buf[6] = crc
	buf[7] = byte(h.Resolution)
	buf[8] = h.PartIndex
	buf[9] = byte(h.FrameIndex)
	buf[10] = byte(h.FrameIndex >> 8)
	buf[11] = byte(h.FrameIndex >> 16)
	return buf
}

// CRCValid recomputes CRC-8/SMBus over the raw header bytes with the crc
// byte zeroed and compares against the header's carried CRC.
func CRCValid(raw []byte) bool {
	_ = raw[HeaderSize-1]
	zeroed := make([]byte, HeaderSize)
	copy(zeroed, raw[:HeaderSize])
	carried := zeroed[6]
	zeroed[6] = 0
	return crc8.Checksum(zeroed, smbusTable) == carried
}
