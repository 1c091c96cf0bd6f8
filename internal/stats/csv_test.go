package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCSVLoggerWritesHeaderAndRow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stats.csv")

	c := New()
	c.FramesCompleted.Add(42)

	stop := make(chan struct{})
	go CSVLogger(path, 1, c, stop)

	time.Sleep(1200 * time.Millisecond)
	close(stop)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected the csv logger to have written at least one row")
	}
}

func TestCSVLoggerDisabledWithoutPathOrInterval(t *testing.T) {
	stop := make(chan struct{})
	close(stop)
	// should return immediately without panicking when disabled.
	CSVLogger("", 0, New(), stop)
}
