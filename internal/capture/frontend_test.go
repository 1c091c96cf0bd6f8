package capture

import "testing"

func TestMatchesFingerprint(t *testing.T) {
	linkLayer := make([]byte, 24)
	linkLayer[0x0a], linkLayer[0x0b], linkLayer[0x0c], linkLayer[0x0d] = 0x11, 0x22, 0x33, 0x44
	linkLayer[0x0e], linkLayer[0x0f] = 0x55, 0x66

	if !MatchesFingerprint(linkLayer) {
		t.Fatal("expected a correctly fingerprinted link-layer header to match")
	}

	linkLayer[0x0a] = 0x00
	if MatchesFingerprint(linkLayer) {
		t.Fatal("expected a corrupted fingerprint to not match")
	}
}

func TestMatchesFingerprintTooShort(t *testing.T) {
	if MatchesFingerprint(make([]byte, 4)) {
		t.Fatal("expected a too-short buffer to not match")
	}
}
