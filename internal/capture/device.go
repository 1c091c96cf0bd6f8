package capture

import (
	"github.com/google/gopacket/pcap"
	"github.com/pkg/errors"
)

// Source is the capture driver interface, deliberately out of scope of the
// reassembly engine itself. Production wiring is PcapSource below; tests
// can supply anything satisfying this.
type Source interface {
	// ReadPacketData blocks for the next captured frame's raw bytes
	// (radiotap header included). This is the driver's only blocking
	// point.
	ReadPacketData() ([]byte, error)
	Close()
}

// PcapSource opens a monitor-mode interface via libpcap: snaplen 1800,
// promiscuous, rfmon, immediate mode, no read timeout, a 16MB capture
// buffer, and a BPF filter on the link-layer wire fingerprint.
type PcapSource struct {
	handle *pcap.Handle
}

// OpenDevice finds dev among the system's capture devices and activates
// it in monitor mode. Failing to find or open the device is fatal at init.
func OpenDevice(dev string) (*PcapSource, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, errors.Wrap(err, "capture: list devices")
	}

	found := false
	for _, d := range devices {
		if d.Name == dev {
			found = true
			break
		}
	}
	if !found {
		return nil, errors.Errorf("capture: device %q not found", dev)
	}

	inactive, err := pcap.NewInactiveHandle(dev)
	if err != nil {
		return nil, errors.Wrapf(err, "capture: open %q", dev)
	}
	defer inactive.CleanUp()

	if err := inactive.SetSnapLen(1800); err != nil {
		return nil, errors.Wrap(err, "capture: set snaplen")
	}
	if err := inactive.SetPromisc(true); err != nil {
		return nil, errors.Wrap(err, "capture: set promisc")
	}
	if err := inactive.SetRFMon(true); err != nil {
		return nil, errors.Wrapf(err, "capture: enable monitor mode on %q", dev)
	}
	if err := inactive.SetTimeout(-1); err != nil {
		return nil, errors.Wrap(err, "capture: set timeout")
	}
	if err := inactive.SetImmediateMode(true); err != nil {
		return nil, errors.Wrap(err, "capture: set immediate mode")
	}
	if err := inactive.SetBufferSize(16_000_000); err != nil {
		return nil, errors.Wrap(err, "capture: set buffer size")
	}

	handle, err := inactive.Activate()
	if err != nil {
		return nil, errors.Wrapf(err, "capture: activate %q", dev)
	}

	// the wire fingerprint, the same rule MatchesFingerprint checks.
	if err := handle.SetBPFFilter("ether[0x0a:4] == 0x11223344 && ether[0x0e:2] == 0x5566"); err != nil {
		handle.Close()
		return nil, errors.Wrap(err, "capture: set fingerprint filter")
	}

	return &PcapSource{handle: handle}, nil
}

// ReadPacketData implements Source.
func (s *PcapSource) ReadPacketData() ([]byte, error) {
	data, _, err := s.handle.ReadPacketData()
	return data, err
}

// Close releases the underlying pcap handle.
func (s *PcapSource) Close() { s.handle.Close() }

// WritePacketData transmits a fully-framed packet on the same handle used
// for capture, used by the injector thread.
func (s *PcapSource) WritePacketData(data []byte) error {
	return s.handle.WritePacketData(data)
}
