package sink

import (
	"net"
	"testing"
	"time"
)

func listenUDP(t *testing.T) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	if err != nil {
		t.Fatalf("ListenUDP: %v", err)
	}
	return conn
}

func TestSinkDeliversEnqueuedFrame(t *testing.T) {
	listener := listenUDP(t)
	defer listener.Close()

	port := listener.LocalAddr().(*net.UDPAddr).Port
	s, err := New("127.0.0.1", port, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	stop := make(chan struct{})
	go s.Run(stop)
	defer close(stop)

	s.Enqueue([]byte("hello"))

	listener.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 16)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("ReadFromUDP: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("received %q, want %q", buf[:n], "hello")
	}
}

func TestSinkEnqueueDropsOldestWhenFull(t *testing.T) {
	s := &Sink{queue: make(chan []byte, 1)}
	s.Enqueue([]byte("first"))
	s.Enqueue([]byte("second"))

	got := <-s.queue
	if string(got) != "second" {
		t.Fatalf("expected the newest frame to survive a full queue, got %q", got)
	}
}
