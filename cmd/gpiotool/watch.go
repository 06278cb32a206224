package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/gpiotool/internal/gpio"
	"github.com/sweeney/gpiotool/internal/logic"
	"github.com/sweeney/gpiotool/internal/monitor"
	"github.com/sweeney/gpiotool/internal/pinmap"
	"github.com/sweeney/gpiotool/internal/profile"
	"github.com/sweeney/gpiotool/internal/sink"
	"github.com/sweeney/gpiotool/internal/tui"
	"github.com/sweeney/gpiotool/internal/view"
)

// resolveWatch turns the shared flags into a mode and pin list, using the
// profile where flags are absent.
func resolveWatch(modeFlag, profPath, pinsFlag, setName string) (pinmap.Mode, []int, error) {
	prof, err := loadProfile(profPath)
	if err != nil {
		return "", nil, err
	}
	mode, err := profile.ResolveMode(modeFlag, prof)
	if err != nil {
		return "", nil, err
	}
	explicit, err := parsePins(pinsFlag)
	if err != nil {
		return "", nil, err
	}
	pins, err := profile.ResolvePins(explicit, setName, prof, mode)
	if err != nil {
		return "", nil, err
	}
	return mode, pins, nil
}

func cmdMonitor(args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	pinsFlag := fs.String("pins", "", "Comma-separated pins to monitor (default from profile or mode default)")
	setName := fs.String("set", "", "Named pin set from the profile")
	profPath := fs.String("profile", "", "JSON or YAML profile file")
	modeFlag := fs.String("mode", "", "Numbering mode: BCM or BOARD (default from profile, else BCM)")
	device := fs.String("device", gpio.DefaultDevice, "GPIO character device")
	edgeFlag := fs.String("edge", "BOTH", "Edges to report: RISING, FALLING or BOTH")
	pullFlag := fs.String("pull", "DOWN", "Input pull: UP, DOWN or NONE")
	bounce := fs.Duration("bounce", 200*time.Millisecond, "Debounce window")
	poll := fs.Duration("poll", 10*time.Millisecond, "Polling interval")
	csvPath := fs.String("log-csv", "", "Append events to this CSV file")
	jsonPath := fs.String("log-json", "", "Append events to this JSONL file")
	broker := fs.String("broker", "", "Publish events to this MQTT broker (e.g. tcp://host:1883)")
	topic := fs.String("topic", sink.DefaultTopic, "MQTT topic for events")
	count := fs.Int("count", 0, "Stop after this many polls (0 = run until interrupted)")
	deadline := fs.Duration("tick-deadline", 0, "Per-poll read budget, overrun is fatal (0 = no limit)")
	fs.Parse(args)

	mode, pins, err := resolveWatch(*modeFlag, *profPath, *pinsFlag, *setName)
	if err != nil {
		return err
	}
	edge, err := logic.ParseEdge(*edgeFlag)
	if err != nil {
		return err
	}
	pull, err := gpio.ParsePull(*pullFlag)
	if err != nil {
		return err
	}
	specs, na := buildSpecs(pins, mode, pull)
	if len(specs) == 0 {
		return errors.New("no monitorable pins")
	}
	if len(na) > 0 {
		log.Printf("skipping non-GPIO positions: %v", na)
	}

	src, err := gpio.NewChardev(*device)
	if err != nil {
		return err
	}
	defer src.Close()

	var writers []*sink.Writer
	if *csvPath != "" {
		cs, err := sink.NewCSV(*csvPath)
		if err != nil {
			return err
		}
		writers = append(writers, sink.NewWriter("csv", cs, sink.DefaultQueueSize))
		log.Printf("logging CSV to %s", *csvPath)
	}
	if *jsonPath != "" {
		js, err := sink.NewJSONL(*jsonPath)
		if err != nil {
			return err
		}
		writers = append(writers, sink.NewWriter("jsonl", js, sink.DefaultQueueSize))
		log.Printf("logging JSONL to %s", *jsonPath)
	}
	if *broker != "" {
		ms, err := sink.NewMQTT(*broker, "gpiotool", *topic)
		if err != nil {
			return err
		}
		writers = append(writers, sink.NewWriter("mqtt", ms, sink.DefaultQueueSize))
		log.Printf("publishing events to %s topic %s", *broker, *topic)
	}

	ses, err := monitor.NewSession(src, monitor.Config{
		Specs:        specs,
		NAPins:       na,
		Edge:         edge,
		Debounce:     *bounce,
		Poll:         *poll,
		Iterations:   *count,
		TickDeadline: *deadline,
		OnEvent: func(e logic.Event) {
			log.Printf("%s -> %s", pinmap.Label(e.Pin, mode), levelWord(e.Level))
		},
	}, writers...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("monitoring pins %v (mode %s, edge %s, pull %s, debounce %v, poll %v)",
		pins, mode, edge, pull, *bounce, *poll)

	runErr := ses.Run(ctx)
	closeErr := ses.Close()

	sum := ses.Summary()
	log.Printf("session: ticks=%d events=%d", sum.Ticks, sum.Events)
	for _, st := range sum.Sinks {
		log.Printf("sink %s: written=%d dropped=%d disabled=%v", st.Name, st.Written, st.Dropped, st.Disabled)
	}

	if runErr != nil {
		return runErr
	}
	return closeErr
}

func cmdStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	pinsFlag := fs.String("pins", "", "Comma-separated pins to show (default from profile or mode default)")
	setName := fs.String("set", "", "Named pin set from the profile")
	profPath := fs.String("profile", "", "JSON or YAML profile file")
	modeFlag := fs.String("mode", "", "Numbering mode: BCM or BOARD (default from profile, else BCM)")
	device := fs.String("device", gpio.DefaultDevice, "GPIO character device")
	interval := fs.Duration("interval", time.Second, "Refresh interval")
	poll := fs.Duration("poll", 100*time.Millisecond, "Pin sampling interval")
	count := fs.Int("count", 0, "Stop after this many polls (0 = run until interrupted)")
	fs.Parse(args)

	mode, pins, err := resolveWatch(*modeFlag, *profPath, *pinsFlag, *setName)
	if err != nil {
		return err
	}
	specs, na := buildSpecs(pins, mode, gpio.PullDown)
	if len(specs) == 0 {
		return errors.New("no readable pins")
	}

	src, err := gpio.NewChardev(*device)
	if err != nil {
		return err
	}
	defer src.Close()

	// No debounce for the status view: it shows raw current levels.
	ses, err := monitor.NewSession(src, monitor.Config{
		Specs:      specs,
		NAPins:     na,
		Edge:       logic.EdgeBoth,
		Poll:       *poll,
		Iterations: *count,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- ses.Run(ctx)
		cancel()
	}()

	tbl := view.NewTable(os.Stdout, mode, pins, subtitle(*profPath, *setName), true)
	tbl.Run(viewCtx, *interval, ses.Snapshot)

	if err := <-errc; err != nil {
		tbl.RenderError(err)
		return err
	}
	return nil
}

func cmdTUI(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	pinsFlag := fs.String("pins", "", "Comma-separated pins to show (default from profile or mode default)")
	setName := fs.String("set", "", "Named pin set from the profile")
	profPath := fs.String("profile", "", "JSON or YAML profile file")
	modeFlag := fs.String("mode", "", "Numbering mode: BCM or BOARD (default from profile, else BCM)")
	device := fs.String("device", gpio.DefaultDevice, "GPIO character device")
	interval := fs.Duration("interval", 500*time.Millisecond, "UI refresh interval")
	poll := fs.Duration("poll", 100*time.Millisecond, "Pin sampling interval")
	fs.Parse(args)

	mode, pins, err := resolveWatch(*modeFlag, *profPath, *pinsFlag, *setName)
	if err != nil {
		return err
	}
	specs, na := buildSpecs(pins, mode, gpio.PullDown)
	if len(specs) == 0 {
		return errors.New("no readable pins")
	}

	src, err := gpio.NewChardev(*device)
	if err != nil {
		return err
	}
	defer src.Close()

	ses, err := monitor.NewSession(src, monitor.Config{
		Specs:  specs,
		NAPins: na,
		Edge:   logic.EdgeBoth,
		Poll:   *poll,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- ses.Run(sctx)
	}()

	m := tui.New(mode, pins, *interval, subtitle(*profPath, *setName), ses.Snapshot)
	return tui.Run(ctx, m, errc)
}
