// Package sink implements the downstream delivery path: a bounded queue
// fed by the reassembler's completion callback, drained to a UDP
// datagram socket in frame-completion order.
package sink

import (
	"net"

	"github.com/pkg/errors"
)

// Sink is a bounded FIFO of completed JPEG byte streams, drained to a UDP
// socket by Run. Frames are enqueued in the order the reassembler
// completes them and sent in that same order.
type Sink struct {
	queue chan []byte
	conn  *net.UDPConn
}

// New dials a UDP socket toward target:port and returns a Sink with the
// given queue depth.
func New(targetIP string, port int, queueDepth int) (*Sink, error) {
	addr := &net.UDPAddr{IP: net.ParseIP(targetIP), Port: port}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, errors.Wrapf(err, "sink: dial %s:%d", targetIP, port)
	}
	return &Sink{queue: make(chan []byte, queueDepth), conn: conn}, nil
}

// Enqueue is the reassembler's completion callback: it never blocks the
// capture thread for long -- a full queue drops the oldest frame to keep
// up with the link, since a stale frame is worse than no frame for live
// video.
func (s *Sink) Enqueue(data []byte) {
	select {
	case s.queue <- data:
	default:
		select {
		case <-s.queue:
		default:
		}
		select {
		case s.queue <- data:
		default:
		}
	}
}

// Run drains the queue to the downstream UDP socket until stop is closed.
// This is the sender thread loop.
func (s *Sink) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case data := <-s.queue:
			if _, err := s.conn.Write(data); err != nil {
				// best-effort: a dropped UDP datagram to a local media
				// pipeline is not a reason to abort the ground station.
				continue
			}
		}
	}
}

// Close releases the underlying socket.
func (s *Sink) Close() error {
	return s.conn.Close()
}
