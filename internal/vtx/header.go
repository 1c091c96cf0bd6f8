// Package vtx implements the wire format and reassembly state machine for
// the VTX link layer: the 48-bit packet header, the block store, the FEC
// gateway, and the block decoder that the capture front-end feeds.
package vtx

// HeaderSize is the wire size of a VTX packet header in bytes.
const HeaderSize = 6

// Header is the 48-bit VTX packet header, decoded without relying on host
// endianness: block_index[0..23] | packet_index[24..31] | size[32..47],
// little-endian bit order over the 6 wire bytes.
type Header struct {
	BlockIndex  uint32
	PacketIndex uint8
	Size        uint16
}

// DecodeHeader parses the first HeaderSize bytes of b as a VTX header.
// It panics if b is shorter than HeaderSize; callers must slice first.
func DecodeHeader(b []byte) Header {
	_ = b[5]
	blockIndex := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	packetIndex := b[3]
	size := uint16(b[4]) | uint16(b[5])<<8
	return Header{BlockIndex: blockIndex, PacketIndex: packetIndex, Size: size}
}

// Encode writes the header into a fresh HeaderSize-byte slice.
func (h Header) Encode() []byte {
	buf := make([]byte, HeaderSize)
	buf[0] = byte(h.BlockIndex)
	buf[1] = byte(h.BlockIndex >> 8)
	buf[2] = byte(h.BlockIndex >> 16)
	buf[3] = h.PacketIndex
	buf[4] = byte(h.Size)
	buf[5] = byte(h.Size >> 8)
	return buf
}
