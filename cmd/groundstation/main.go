// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli"

	"github.com/ncer/vtxgs/internal/capture"
	"github.com/ncer/vtxgs/internal/frame"
	"github.com/ncer/vtxgs/internal/groundconfig"
	"github.com/ncer/vtxgs/internal/inject"
	"github.com/ncer/vtxgs/internal/sink"
	"github.com/ncer/vtxgs/internal/stats"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		// add timestamps + file:line to simplify debugging self-built binaries
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "groundstation"
	myApp.Usage = "wireless video link ground-station receiver"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "dev,d",
			Usage: "monitor-mode capture interface",
		},
		cli.StringFlag{
			Name:  "config,c",
			Usage: "path to a JSON config file; its values override the flags",
		},
		cli.IntFlag{
			Name:  "port,p",
			Value: 12345,
			Usage: "downstream UDP port carrying completed JPEG frames",
		},
		cli.IntFlag{
			Name:  "ctrlport",
			Value: 0,
			Usage: "optional control port serving /metrics, 0 to disable",
		},
		cli.StringFlag{
			Name:  "target,t",
			Value: "127.0.0.1",
			Usage: "downstream UDP target IP",
		},
		cli.IntFlag{
			Name:  "fec-k",
			Value: 2,
			Usage: "FEC systematic shard count",
		},
		cli.IntFlag{
			Name:  "fec-n",
			Value: 3,
			Usage: "FEC total shard count",
		},
		cli.StringFlag{
			Name:  "snmplog",
			Usage: "periodic CSV stats log path (time.Format pattern), empty to disable",
		},
		cli.IntFlag{
			Name:  "snmpperiod",
			Value: 0,
			Usage: "seconds between snmplog writes, 0 to disable",
		},
		cli.BoolFlag{
			Name:  "pprof",
			Usage: "enable net/http/pprof on the control port",
		},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := Config{
		Device:     c.String("dev"),
		Port:       c.Int("port"),
		CtrlPort:   c.Int("ctrlport"),
		Target:     c.String("target"),
		FECK:       c.Int("fec-k"),
		FECN:       c.Int("fec-n"),
		SnmpLog:    c.String("snmplog"),
		SnmpPeriod: c.Int("snmpperiod"),
		Pprof:      c.Bool("pprof"),
	}
	if path := c.String("config"); path != "" {
		if err := parseJSONConfig(&cfg, path); err != nil {
			return err
		}
	}
	if cfg.Device == "" {
		color.Red("WARNING: no --dev given, nothing to capture")
		return cli.NewExitError("device required", 1)
	}

	color.Green("groundstation %s starting on %s (fec %d/%d) -> %s:%d",
		VERSION, cfg.Device, cfg.FECK, cfg.FECN, cfg.Target, cfg.Port)

	engine, err := capture.NewEngine(cfg.FECK, cfg.FECN)
	if err != nil {
		return err
	}

	udpSink, err := sink.New(cfg.Target, cfg.Port, 64)
	if err != nil {
		return err
	}
	defer udpSink.Close()
	engine.OnFrame = func(f *frame.Frame) {
		udpSink.Enqueue(f.Bytes())
	}

	source, err := capture.OpenDevice(cfg.Device)
	if err != nil {
		return err
	}
	defer source.Close()

	injector, err := inject.New(cfg.FECK, cfg.FECN)
	if err != nil {
		return err
	}

	// the capture device handle is the only resource shared between the
	// capture thread and the injector thread; the engine itself is owned
	// exclusively by the capture thread.
	var deviceLock sync.RWMutex

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		udpSink.Run(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		captureLoop(engine, source, &deviceLock, stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		injectorLoop(injector, source, &deviceLock, stop)
	}()

	startSignalHandler(engine.Stats)

	if cfg.SnmpLog != "" && cfg.SnmpPeriod > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stats.CSVLogger(cfg.SnmpLog, cfg.SnmpPeriod, engine.Stats, stop)
		}()
	}

	if cfg.CtrlPort > 0 {
		serveControlPort(cfg.CtrlPort, cfg.Pprof, engine.Stats)
	}

	wg.Wait()
	return nil
}

// captureLoop is the capture thread: pull one frame under the device read
// lock, ingest it, then decode+reassemble every ready block newest-first.
func captureLoop(engine *capture.Engine, source *capture.PcapSource, lock *sync.RWMutex, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		lock.RLock()
		raw, err := source.ReadPacketData()
		lock.RUnlock()
		if err != nil {
			log.Printf("groundstation: capture read error: %v", err)
			continue
		}

		if err := engine.Ingest(raw); err != nil {
			if err == capture.ErrBadFCS {
				log.Fatalf("groundstation: %v", err)
			}
			log.Printf("groundstation: ingest error: %v", err)
			continue
		}

		if err := engine.ProcessReady(); err != nil {
			log.Printf("groundstation: decode error: %v", err)
		}
	}
}

// injectorLoop is the injector thread: on a fixed ~500ms interval,
// acquire the device write lock and push the current ground-to-air config.
// run always starts it; there is no option to disable it.
func injectorLoop(injector *inject.Injector, source *capture.PcapSource, lock *sync.RWMutex, stop <-chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	cfg := groundconfig.Default()
	payload := cfg.Encode()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			packets, err := injector.Push(payload)
			if err != nil {
				log.Printf("groundstation: injector: %v", err)
				continue
			}
			lock.Lock()
			for _, pkt := range packets {
				if err := source.WritePacketData(inject.BuildFrame(pkt)); err != nil {
					log.Printf("groundstation: injector write: %v", err)
				}
			}
			lock.Unlock()
		}
	}
}

func serveControlPort(port int, pprofEnabled bool, counters *stats.Counters) {
	reg := stats.NewRegistry(counters)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{}))
	if pprofEnabled {
		mux.Handle("/debug/pprof/", http.DefaultServeMux)
	}
	go func() {
		addr := ":" + strconv.Itoa(port)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("groundstation: control port: %v", err)
		}
	}()
}
