package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/gpiotool/internal/gpio"
	"github.com/sweeney/gpiotool/internal/pinmap"
)

func cmdMap(args []string) error {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	fs.Parse(args)

	fmt.Println("\nRaspberry Pi 40-pin Header Map")
	fmt.Println()
	fmt.Println("Phys | Label              | BCM")
	fmt.Println("-----+--------------------+-----")
	for phys := 1; phys <= 40; phys++ {
		e, ok := pinmap.Lookup(phys)
		if !ok {
			continue
		}
		bcm := "-"
		if e.BCM >= 0 {
			bcm = fmt.Sprintf("%d", e.BCM)
		}
		fmt.Printf("%4d | %-18s | %3s\n", phys, e.Label, bcm)
	}
	fmt.Println()
	return nil
}

func cmdSetup(args []string) error {
	fs := flag.NewFlagSet("setup", flag.ExitOnError)
	pin := fs.Int("pin", -1, "Pin to configure")
	modeFlag := fs.String("mode", "BCM", "Numbering mode: BCM or BOARD")
	device := fs.String("device", gpio.DefaultDevice, "GPIO character device")
	dirFlag := fs.String("direction", "", "IN or OUT")
	pullFlag := fs.String("pull", "NONE", "Input pull: UP, DOWN or NONE")
	initial := fs.String("initial", "", "Initial level for OUT: HIGH/LOW/1/0/ON/OFF")
	fs.Parse(args)

	if *pin < 0 {
		return errors.New("-pin is required")
	}
	mode, err := pinmap.ParseMode(*modeFlag)
	if err != nil {
		return err
	}
	dir, err := gpio.ParseDirection(*dirFlag)
	if err != nil {
		return err
	}
	pull, err := gpio.ParsePull(*pullFlag)
	if err != nil {
		return err
	}
	spec, err := singleSpec(*pin, mode, dir, pull)
	if err != nil {
		return err
	}

	src, err := gpio.NewChardev(*device)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := src.Configure(spec); err != nil {
		return err
	}
	if dir == gpio.Out {
		if *initial != "" {
			level, err := parseLevel(*initial)
			if err != nil {
				return err
			}
			if err := src.Write(*pin, level); err != nil {
				return err
			}
			fmt.Printf("Configured %s as OUTPUT (initial %s)\n", pinmap.Label(*pin, mode), *initial)
		} else {
			fmt.Printf("Configured %s as OUTPUT\n", pinmap.Label(*pin, mode))
		}
		return nil
	}
	fmt.Printf("Configured %s as INPUT (pull %s)\n", pinmap.Label(*pin, mode), pull)
	return nil
}

func cmdRead(args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	pin := fs.Int("pin", -1, "Pin to read")
	modeFlag := fs.String("mode", "BCM", "Numbering mode: BCM or BOARD")
	device := fs.String("device", gpio.DefaultDevice, "GPIO character device")
	pullFlag := fs.String("pull", "NONE", "Input pull: UP, DOWN or NONE")
	fs.Parse(args)

	if *pin < 0 {
		return errors.New("-pin is required")
	}
	mode, err := pinmap.ParseMode(*modeFlag)
	if err != nil {
		return err
	}
	pull, err := gpio.ParsePull(*pullFlag)
	if err != nil {
		return err
	}
	spec, err := singleSpec(*pin, mode, gpio.In, pull)
	if err != nil {
		return err
	}

	src, err := gpio.NewChardev(*device)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := src.Configure(spec); err != nil {
		return err
	}
	level, err := src.Read(*pin)
	if err != nil {
		return err
	}
	state := 0
	if level {
		state = 1
	}
	fmt.Printf("%s = %s\n", pinmap.Label(*pin, mode), levelWord(state))
	return nil
}

func cmdWrite(args []string) error {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	pin := fs.Int("pin", -1, "Pin to write")
	modeFlag := fs.String("mode", "BCM", "Numbering mode: BCM or BOARD")
	device := fs.String("device", gpio.DefaultDevice, "GPIO character device")
	value := fs.String("value", "", "Level to write: HIGH/LOW/1/0/ON/OFF")
	fs.Parse(args)

	if *pin < 0 {
		return errors.New("-pin is required")
	}
	if *value == "" {
		return errors.New("-value is required")
	}
	mode, err := pinmap.ParseMode(*modeFlag)
	if err != nil {
		return err
	}
	level, err := parseLevel(*value)
	if err != nil {
		return err
	}
	spec, err := singleSpec(*pin, mode, gpio.Out, gpio.PullNone)
	if err != nil {
		return err
	}

	src, err := gpio.NewChardev(*device)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := src.Configure(spec); err != nil {
		return err
	}
	if err := src.Write(*pin, level); err != nil {
		return err
	}
	fmt.Printf("Wrote %s to %s\n", *value, pinmap.Label(*pin, mode))
	return nil
}

func cmdPulse(args []string) error {
	fs := flag.NewFlagSet("pulse", flag.ExitOnError)
	pin := fs.Int("pin", -1, "Pin to pulse")
	modeFlag := fs.String("mode", "BCM", "Numbering mode: BCM or BOARD")
	device := fs.String("device", gpio.DefaultDevice, "GPIO character device")
	width := fs.Duration("width", 500*time.Millisecond, "Pulse width")
	repeat := fs.Int("repeat", 1, "Number of pulses")
	gap := fs.Duration("gap", 500*time.Millisecond, "Gap between pulses")
	fs.Parse(args)

	if *pin < 0 {
		return errors.New("-pin is required")
	}
	if *repeat < 1 {
		return errors.New("-repeat must be at least 1")
	}
	mode, err := pinmap.ParseMode(*modeFlag)
	if err != nil {
		return err
	}
	spec, err := singleSpec(*pin, mode, gpio.Out, gpio.PullNone)
	if err != nil {
		return err
	}

	src, err := gpio.NewChardev(*device)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := src.Configure(spec); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Pulsing %s: width=%v repeat=%d gap=%v\n", pinmap.Label(*pin, mode), *width, *repeat, *gap)
	for i := 0; i < *repeat; i++ {
		if err := src.Write(*pin, true); err != nil {
			return err
		}
		if err := sleep(ctx, *width); err != nil {
			src.Write(*pin, false)
			return nil
		}
		if err := src.Write(*pin, false); err != nil {
			return err
		}
		if i < *repeat-1 {
			if err := sleep(ctx, *gap); err != nil {
				return nil
			}
		}
	}
	return nil
}

// sleep waits for d or until the context is cancelled, whichever is first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
