package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/redaphid/fidget-toy-midi-twister/config"
	"github.com/redaphid/fidget-toy-midi-twister/debug"
	"github.com/redaphid/fidget-toy-midi-twister/engine"
	"github.com/redaphid/fidget-toy-midi-twister/midi"
	"github.com/redaphid/fidget-toy-midi-twister/tui"
	"github.com/redaphid/fidget-toy-midi-twister/upload"
)

func main() {
	root := &cobra.Command{
		Use:   "fidget-twister",
		Short: "Mode engine for a 16-control MIDI grid controller",
	}
	root.AddCommand(createRunCmd(), createListCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createRunCmd() *cobra.Command {
	var (
		portName  string
		modeName  string
		holdMs    int
		uploadURL string
		imagePath string
		headless  bool
		debugLog  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine, with a terminal simulator of the 4x4 grid",
		Run: func(_ *cobra.Command, _ []string) {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "config: %v\n", err)
				os.Exit(1)
			}
			if portName != "" {
				cfg.PortName = portName
			}
			if modeName != "" {
				cfg.DefaultMode = modeName
			}
			if holdMs > 0 {
				cfg.HoldMillis = holdMs
			}
			if uploadURL != "" {
				cfg.UploadURL = uploadURL
			}
			if imagePath != "" {
				cfg.ImagePath = imagePath
			}
			if debugLog {
				cfg.Debug = true
			}
			run(cfg, headless)
		},
	}

	cmd.Flags().StringVar(&portName, "port", "", "MIDI port name substring")
	cmd.Flags().StringVar(&modeName, "mode", "", "mode active at startup")
	cmd.Flags().IntVar(&holdMs, "hold-ms", 0, "long-press threshold in milliseconds")
	cmd.Flags().StringVar(&uploadURL, "upload-url", "", "base URL for snapshot uploads")
	cmd.Flags().StringVar(&imagePath, "image", "", "image file for snapshot uploads")
	cmd.Flags().BoolVar(&headless, "headless", false, "no terminal UI, hardware only")
	cmd.Flags().BoolVar(&debugLog, "debug", false, "write a debug log")

	return cmd
}

func createListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List MIDI ports",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("=== MIDI Input Ports ===")
			for i, p := range gomidi.GetInPorts() {
				fmt.Printf("  %d: %s\n", i, p.String())
			}
			fmt.Println("\n=== MIDI Output Ports ===")
			for i, p := range gomidi.GetOutPorts() {
				fmt.Printf("  %d: %s\n", i, p.String())
			}
		},
	}
}

func run(cfg *config.Config, headless bool) {
	if cfg.Debug {
		if err := debug.Enable(""); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sim := tui.NewSimulator()
	hw := &hardwareSink{}

	sched := engine.NewScheduler(engine.SystemClock())
	eng := engine.New(sched, sim, hw)
	eng.SetHoldDuration(cfg.HoldDuration())

	registerModes(eng, cfg)

	// Merge simulator and hardware events into the engine's single stream.
	events := make(chan midi.Event, 64)
	go forward(ctx, sim.Events(), events)

	deviceMgr := midi.NewDeviceManager(cfg.Channels, cfg.PortName)
	go deviceMgr.Run(ctx)

	hwStatus := make(chan string, 4)
	go func() {
		for devEv := range deviceMgr.Events() {
			switch devEv.Type {
			case midi.DeviceConnected:
				debug.Log("main", "connected %s", devEv.ID)
				hw.set(devEv.Controller)
				go forward(ctx, devEv.Controller.Events(), events)
				hwStatus <- devEv.ID
			case midi.DeviceDisconnected:
				debug.Log("main", "disconnected %s", devEv.ID)
				hw.set(nil)
				hwStatus <- ""
			}
		}
	}()

	if !eng.SwitchTo(cfg.DefaultMode, engine.NoTrigger) {
		eng.SwitchTo("idle", engine.NoTrigger)
	}
	go eng.Run(ctx, events)

	if headless {
		fmt.Println("fidget-twister running headless, ctrl+c to exit")
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		return
	}

	m := tui.NewModel(eng, sim)
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		for id := range hwStatus {
			p.Send(tui.HardwareMsg(id))
		}
	}()
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func registerModes(eng *engine.Engine, cfg *config.Config) {
	deps := engine.Deps{
		LEDs:  eng.LEDs(),
		Sched: eng.Scheduler(),
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	eng.Register(engine.NewIdleMode(deps))
	eng.Register(engine.NewMirrorMode(deps))
	eng.Register(engine.NewChaseMode(deps))
	eng.Register(engine.NewRainbowMode(deps))
	eng.Register(engine.NewWaveMode(deps))
	eng.Register(engine.NewRandomMode(deps))
	eng.Register(engine.NewBinaryCountMode(deps))
	eng.Register(engine.NewFibonacciMode(deps))
	eng.Register(engine.NewPulseMode(deps))
	eng.Register(engine.NewRippleMode(deps))
	eng.Register(engine.NewMemoryMode(deps))
	eng.Register(engine.NewBinaryGameMode(deps))
	eng.Register(engine.NewMixerMode(deps))

	var uploader engine.Uploader
	if cfg.UploadURL != "" {
		uploader = upload.New(cfg.UploadURL, cfg.ImagePath)
	}
	eng.Register(engine.NewSnapshotMode(deps, uploader, eng.Post))

	eng.Register(engine.NewSelectMode(eng))
}

func forward(ctx context.Context, in <-chan midi.Event, out chan<- midi.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in:
			if !ok {
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// hardwareSink forwards LED writes to the currently connected controller,
// if any. Hot-plug swaps the target under a lock.
type hardwareSink struct {
	mu sync.Mutex
	tc *midi.TwisterController
}

func (h *hardwareSink) set(tc *midi.TwisterController) {
	h.mu.Lock()
	h.tc = tc
	h.mu.Unlock()
}

func (h *hardwareSink) SetLED(control int, value uint8) error {
	h.mu.Lock()
	tc := h.tc
	h.mu.Unlock()
	if tc == nil {
		return nil
	}
	return tc.SetLED(control, value)
}
