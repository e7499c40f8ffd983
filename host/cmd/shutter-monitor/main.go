package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shutterctl/host/monitor"
	"shutterctl/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud    = flag.Int("baud", 115200, "Baud rate (ignored for USB CDC)")
	asJSON  = flag.Bool("json", false, "Print one JSON object per status frame")
	verbose = flag.Bool("verbose", false, "Print link statistics on exit")
)

func main() {
	flag.Parse()

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud

	fmt.Fprintf(os.Stderr, "Connecting to controller on %s...\n", *device)
	mon, err := monitor.Connect(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer mon.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	err = mon.Run(ctx, func(s monitor.Status) {
		if *asJSON {
			if err := enc.Encode(s); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			return
		}
		fmt.Printf("%s [%X] %s\n", s.Received.Format("15:04:05"), s.Sequence, monitor.Format(s))
	})

	if *verbose {
		st := mon.Stats()
		fmt.Fprintf(os.Stderr, "frames=%d lost=%d decode_errors=%d bad_crc=%d resyncs=%d\n",
			st.Frames, st.Lost, st.DecodeErrors, st.Scanner.BadCRC, st.Scanner.Resyncs)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
