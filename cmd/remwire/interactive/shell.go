// Package interactive provides the interactive command-line interface
// for remwire.
package interactive

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/remote-wiring/remote-wiring-go/pkg/remote"
)

// Shell handles interactive mode for remwire.
type Shell struct {
	dev *remote.Device
	rl  *readline.Instance
}

// New creates a new interactive shell over a ready device. Pin change
// events are printed through the readline-coordinated writer so they do
// not mangle the prompt.
func New(dev *remote.Device) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "remwire> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := &Shell{dev: dev, rl: rl}

	dev.OnDigitalPinChanged(func(pin uint8, state remote.PinState) {
		fmt.Fprintf(rl.Stdout(), "pin %d -> %s\n", pin, state)
	})
	dev.OnAnalogPinChanged(func(channel uint8, value uint16) {
		fmt.Fprintf(rl.Stdout(), "A%d -> %d\n", channel, value)
	})
	dev.OnStringReceived(func(message string) {
		fmt.Fprintf(rl.Stdout(), "board: %s\n", message)
	})
	dev.OnConnectionLost(func(message string) {
		fmt.Fprintf(rl.Stdout(), "connection lost: %s\n", message)
	})

	return s, nil
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			s.printHelp()

		case "pins", "p":
			s.cmdPins()

		case "mode", "m":
			s.cmdMode(args)

		case "read", "r":
			s.cmdRead(args)

		case "write", "w":
			s.cmdWrite(args)

		case "aread", "ar":
			s.cmdAnalogRead(args)

		case "awrite", "aw":
			s.cmdAnalogWrite(args)

		case "status":
			s.cmdStatus()

		case "quit", "exit", "q":
			return nil

		default:
			fmt.Fprintf(s.rl.Stdout(), "unknown command %q (try help)\n", cmd)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.rl.Stdout(), `Commands:
  pins                 show capability summary
  mode <pin> <mode>    set pin mode (input/output/analog/pwm/servo)
  read <pin>           read a digital pin
  write <pin> <0|1>    write a digital pin
  aread <pin|A0>       read an analog pin
  awrite <pin> <value> write a PWM value
  status               show connection state
  quit                 exit
`)
}

func (s *Shell) cmdPins() {
	caps := s.dev.Capabilities()
	fmt.Fprintf(s.rl.Stdout(), "%d pins, %d analog channels starting at pin %d\n",
		caps.TotalPins, caps.NumAnalogPins, caps.AnalogOffset)
	for pin := 0; pin < caps.TotalPins; pin++ {
		fmt.Fprintf(s.rl.Stdout(), "  pin %2d: %s\n", pin, s.dev.GetPinMode(uint8(pin)))
	}
}

func (s *Shell) cmdMode(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: mode <pin> <mode>")
		return
	}

	mode, ok := parseMode(args[1])
	if !ok {
		fmt.Fprintf(s.rl.Stdout(), "unknown mode %q\n", args[1])
		return
	}

	if pin, ok := parsePin(args[0]); ok {
		s.dev.SetPinMode(pin, mode)
	} else {
		s.dev.SetPinModeNamed(args[0], mode)
	}
}

func (s *Shell) cmdRead(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "usage: read <pin>")
		return
	}

	var state remote.PinState
	if pin, ok := parsePin(args[0]); ok {
		state = s.dev.DigitalRead(pin)
	} else {
		state = s.dev.DigitalReadNamed(args[0])
	}
	fmt.Fprintln(s.rl.Stdout(), state)
}

func (s *Shell) cmdWrite(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: write <pin> <0|1>")
		return
	}

	state := remote.Low
	if args[1] == "1" || strings.EqualFold(args[1], "high") {
		state = remote.High
	}

	if pin, ok := parsePin(args[0]); ok {
		s.dev.DigitalWrite(pin, state)
	} else {
		s.dev.DigitalWriteNamed(args[0], state)
	}
}

func (s *Shell) cmdAnalogRead(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.rl.Stdout(), "usage: aread <pin|A0>")
		return
	}

	var value uint16
	if pin, ok := parsePin(args[0]); ok {
		value = s.dev.AnalogRead(pin)
	} else {
		value = s.dev.AnalogReadNamed(args[0])
	}

	if value == remote.NoAnalogValue {
		fmt.Fprintln(s.rl.Stdout(), "no value")
		return
	}
	fmt.Fprintln(s.rl.Stdout(), value)
}

func (s *Shell) cmdAnalogWrite(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(s.rl.Stdout(), "usage: awrite <pin> <value>")
		return
	}

	value, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		fmt.Fprintf(s.rl.Stdout(), "bad value %q\n", args[1])
		return
	}

	if pin, ok := parsePin(args[0]); ok {
		s.dev.AnalogWrite(pin, uint16(value))
	} else {
		s.dev.AnalogWriteNamed(args[0], uint16(value))
	}
}

func (s *Shell) cmdStatus() {
	fmt.Fprintf(s.rl.Stdout(), "state: %s, session: %s\n", s.dev.State(), s.dev.SessionID())
}

// parsePin parses a numeric pin index. Symbolic names ("A0") fail here
// and fall through to the Named operations.
func parsePin(arg string) (uint8, bool) {
	pin, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(pin), true
}

// parseMode maps a mode word to a PinMode.
func parseMode(arg string) (remote.PinMode, bool) {
	switch strings.ToLower(arg) {
	case "input", "in":
		return remote.PinModeInput, true
	case "output", "out":
		return remote.PinModeOutput, true
	case "analog":
		return remote.PinModeAnalog, true
	case "pwm":
		return remote.PinModePWM, true
	case "servo":
		return remote.PinModeServo, true
	case "i2c":
		return remote.PinModeI2C, true
	case "ignore", "ignored":
		return remote.PinModeIgnored, true
	default:
		return 0, false
	}
}
