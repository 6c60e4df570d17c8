// Command remwire is an interactive console for a remote board.
//
// It connects over a serial port or TCP socket, runs capability
// discovery, and exposes Arduino-style pin operations as interactive
// commands.
//
// Usage:
//
//	remwire [flags]
//
// Flags:
//
//	-config string    Configuration file path (YAML)
//	-transport string Transport kind: serial or tcp (default "serial")
//	-device string    Serial device path (e.g. /dev/ttyACM0)
//	-baud int         Serial baud rate (default 57600)
//	-address string   TCP address (host:port) for network boards
//	-trace string     Write a CBOR session trace to this file
//	-discover         Browse mDNS for network boards and exit
//
// Examples:
//
//	# Connect to a USB board
//	remwire -device /dev/ttyACM0
//
//	# Connect to a WiFi board
//	remwire -transport tcp -address 192.168.4.1:3030
//
//	# Record a session trace
//	remwire -device /dev/ttyACM0 -trace session.cbor
//
// Interactive Commands:
//
//	pins                 - Show the capability summary
//	mode <pin> <mode>    - Set a pin mode (input/output/analog/pwm/servo)
//	read <pin>           - Read a digital pin
//	write <pin> <0|1>    - Write a digital pin
//	aread <pin|A0>       - Read an analog pin
//	awrite <pin> <value> - Write a PWM value
//	status               - Show connection state and session ID
//	quit                 - Exit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/remote-wiring/remote-wiring-go/cmd/remwire/interactive"
	"github.com/remote-wiring/remote-wiring-go/pkg/discovery"
	"github.com/remote-wiring/remote-wiring-go/pkg/firmata"
	"github.com/remote-wiring/remote-wiring-go/pkg/remote"
	"github.com/remote-wiring/remote-wiring-go/pkg/stream"
	"github.com/remote-wiring/remote-wiring-go/pkg/trace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "remwire:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "", "configuration file path (YAML)")
		transport  = flag.String("transport", "", "transport kind: serial or tcp")
		device     = flag.String("device", "", "serial device path")
		baud       = flag.Int("baud", 0, "serial baud rate")
		address    = flag.String("address", "", "tcp address (host:port)")
		traceFile  = flag.String("trace", "", "write a CBOR session trace to this file")
		discover   = flag.Bool("discover", false, "browse mDNS for network boards and exit")
	)
	flag.Parse()

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}

	// Flags override the config file
	if *transport != "" {
		cfg.Transport = *transport
	}
	if *device != "" {
		cfg.Device = *device
	}
	if *baud != 0 {
		cfg.Baud = *baud
	}
	if *address != "" {
		cfg.Address = *address
	}
	if *traceFile != "" {
		cfg.TraceFile = *traceFile
	}

	if *discover {
		return runDiscovery(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	var tracer trace.Logger = trace.NoopLogger{}
	if cfg.TraceFile != "" {
		fileLogger, err := trace.NewFileLogger(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to open trace file: %w", err)
		}
		defer fileLogger.Close()
		tracer = fileLogger
	}

	var s stream.Stream
	switch cfg.Transport {
	case "serial":
		s = stream.NewSerialStream(stream.SerialConfig{
			Device:      cfg.Device,
			Baud:        cfg.Baud,
			ReadTimeout: time.Duration(cfg.ReadTimeout),
		})
	case "tcp":
		s = stream.NewTCPStream(stream.TCPConfig{Address: cfg.Address})
	}

	client := firmata.NewClient(s, firmata.WithTracer(tracer))
	dev := remote.New(client, remote.WithTracer(tracer))

	ready := make(chan struct{})
	dev.OnDeviceReady(func() {
		close(ready)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := dev.Connect(ctx); err != nil {
		return fmt.Errorf("connect failed: %w", err)
	}
	defer dev.Close()

	fmt.Println("Connected, waiting for capability discovery...")
	select {
	case <-ready:
	case <-ctx.Done():
		return fmt.Errorf("board did not answer capability query")
	}

	caps := dev.Capabilities()
	fmt.Printf("Board ready: %d pins, %d analog channels (offset %d), session %s\n",
		caps.TotalPins, caps.NumAnalogPins, caps.AnalogOffset, dev.SessionID())

	shell, err := interactive.New(dev)
	if err != nil {
		return err
	}
	return shell.Run(context.Background())
}

// runDiscovery browses for network boards and prints what it finds.
func runDiscovery(cfg Config) error {
	browser := discovery.NewMDNSBrowser(discovery.BrowserConfig{Interface: cfg.Interface})

	ctx, cancel := context.WithTimeout(context.Background(), discovery.BrowseTimeout)
	defer cancel()

	boards, err := browser.Browse(ctx)
	if err != nil {
		return err
	}

	found := 0
	for svc := range boards {
		found++
		fmt.Printf("%-24s %s\n", svc.InstanceName, svc.Address())
		for key, value := range svc.TXT {
			fmt.Printf("    %s=%s\n", key, value)
		}
	}
	if found == 0 {
		fmt.Println("No boards found.")
	}
	return nil
}
