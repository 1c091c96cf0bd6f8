//go:build linux || darwin || freebsd

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ncer/vtxgs/internal/stats"
)

// startSignalHandler dumps the engine's running counters to the log on
// SIGUSR1.
func startSignalHandler(counters *stats.Counters) {
	go sigHandler(counters)
}

func sigHandler(counters *stats.Counters) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	signal.Ignore(syscall.SIGPIPE)

	for range ch {
		log.Printf("vtxgs stats: %+v", counters)
	}
}
