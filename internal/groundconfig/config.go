// Package groundconfig builds the fixed 64-byte ground-to-air
// configuration record that the injector fragments and
// transmits back to the air side.
package groundconfig

import "github.com/sigurn/crc8"

// RecordSize is the fixed, zero-padded wire size of a config record.
const RecordSize = 64

// WifiRate mirrors the air side's rate enum; only the default is named
// here since the rest are opaque to the ground station.
type WifiRate uint8

const WifiRateG48MOFDM WifiRate = 0

// HeaderType distinguishes config records from other ground-to-air
// records; this system only ever emits Config.
type HeaderType uint8

const HeaderTypeConfig HeaderType = 0

var smbusParams = crc8.Params{
	Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00,
	Check: 0xf4, Name: "CRC-8/SMBUS",
}

var smbusTable = crc8.MakeTable(smbusParams)

// Camera mirrors the air side's camera configuration substructure,
// including its exact default literals.
type Camera struct {
	Resolution    uint8
	FPSLimit      uint8
	Quality       uint8
	Brightness    int8
	Contrast      int8
	Saturation    int8
	Sharpness     int8
	Denoise       uint8
	SpecialEffect uint8
	AWB           bool
	AWBGain       bool
	WBMode        uint8
	AEC           bool
	AEC2          bool
	AELevel       int8
	AECValue      uint16
	AGC           bool
	AGCGain       uint8
	GainCeiling   uint8
	BPC           bool
	WPC           bool
	RawGMA        bool
	LENC          bool
	HMirror       bool
	VFlip         bool
	DCW           bool
}

// DefaultCamera returns the air side's documented camera defaults.
func DefaultCamera() Camera {
	return Camera{
		Resolution: 0, // QVGA
		Quality:    8,
		Sharpness:  -1,
		AWB:        true,
		AWBGain:    true,
		AEC:        true,
		AEC2:       true,
		AGC:        true,
		BPC:        true,
		WPC:        true,
		LENC:       true,
		DCW:        true,
	}
}

// Record is the ground-to-air configuration record sent from the ground
// station back to the air side: wifi power/rate, FEC shard layout, DVR
// toggle, and the camera substructure.
type Record struct {
	Type HeaderType
	Ping uint8

	WifiPower   int8
	WifiRate    WifiRate
	FECCodecK   uint8
	FECCodecN   uint8
	FECCodecMTU uint16
	DVRRecord   bool

	Camera Camera
}

// Default returns a Record with every documented default value applied.
func Default() Record {
	return Record{
		Type:        HeaderTypeConfig,
		WifiPower:   20,
		WifiRate:    WifiRateG48MOFDM,
		FECCodecK:   2,
		FECCodecN:   3,
		FECCodecMTU: 1470,
		Camera:      DefaultCamera(),
	}
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// bodyLen is the number of meaningful bytes before zero-padding to
// RecordSize: 3-byte common header + ping + wifi_power + wifi_rate +
// fec_codec_k + fec_codec_n + fec_codec_mtu(2) + dvr_record + 27-byte
// camera substructure.
const bodyLen = 3 + 1 + 1 + 1 + 1 + 1 + 2 + 1 + 27

// Encode serialises r into a zero-padded RecordSize-byte buffer with the
// CRC-8/SMBus computed over the whole record (crc byte zeroed first).
func (r Record) Encode() []byte {
	buf := make([]byte, RecordSize)

	buf[0] = byte(r.Type)
	buf[1] = byte(bodyLen)
	// buf[2] is the crc byte, filled in last.
	buf[3] = r.Ping
	buf[4] = byte(r.WifiPower)
	buf[5] = byte(r.WifiRate)
	buf[6] = r.FECCodecK
	buf[7] = r.FECCodecN
	buf[8] = byte(r.FECCodecMTU)
	buf[9] = byte(r.FECCodecMTU >> 8)
	buf[10] = boolByte(r.DVRRecord)

	c := r.Camera
	cam := buf[11:bodyLen]
	cam[0] = c.Resolution
	cam[1] = c.FPSLimit
	cam[2] = c.Quality
	cam[3] = byte(c.Brightness)
	cam[4] = byte(c.Contrast)
	cam[5] = byte(c.Saturation)
	cam[6] = byte(c.Sharpness)
	cam[7] = c.Denoise
	cam[8] = c.SpecialEffect
	cam[9] = boolByte(c.AWB)
	cam[10] = boolByte(c.AWBGain)
	cam[11] = c.WBMode
	cam[12] = boolByte(c.AEC)
	cam[13] = boolByte(c.AEC2)
	cam[14] = byte(c.AELevel)
	cam[15] = byte(c.AECValue)
	cam[16] = byte(c.AECValue >> 8)
	cam[17] = boolByte(c.AGC)
	cam[18] = c.AGCGain
	cam[19] = c.GainCeiling
	cam[20] = boolByte(c.BPC)
	cam[21] = boolByte(c.WPC)
	cam[22] = boolByte(c.RawGMA)
	cam[23] = boolByte(c.LENC)
	cam[24] = boolByte(c.HMirror)
	cam[25] = boolByte(c.VFlip)
	cam[26] = boolByte(c.DCW)

	buf[2] = crc8.Checksum(buf, smbusTable)
	return buf
}

// CRCValid recomputes CRC-8/SMBus over a RecordSize-byte record with its
// crc byte (offset 2) zeroed and compares against the carried value.
func CRCValid(raw []byte) bool {
	if len(raw) != RecordSize {
		return false
	}
	zeroed := make([]byte, RecordSize)
	copy(zeroed, raw)
	carried := zeroed[2]
	zeroed[2] = 0
	return crc8.Checksum(zeroed, smbusTable) == carried
}
