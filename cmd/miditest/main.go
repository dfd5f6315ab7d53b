package main

import (
	"fmt"
	"os"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	twister "github.com/redaphid/fidget-toy-midi-twister/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectTwister()
	case "leds":
		testLEDs()
	case "monitor":
		monitor()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  detect   - Find a Twister")
	fmt.Println("  leds     - Sweep the indicator rings")
	fmt.Println("  monitor  - Print decoded control events")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	for i, p := range midi.GetInPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range midi.GetOutPorts() {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func findPorts() (drivers.In, drivers.Out) {
	var in drivers.In
	var out drivers.Out
	for i, p := range midi.GetInPorts() {
		if twister.IsTwisterPort(p.String()) {
			in = midi.GetInPorts()[i]
			break
		}
	}
	for i, p := range midi.GetOutPorts() {
		if twister.IsTwisterPort(p.String()) {
			out = midi.GetOutPorts()[i]
			break
		}
	}
	return in, out
}

func detectTwister() {
	in, out := findPorts()
	if in != nil {
		fmt.Printf("Found input: %s\n", in.String())
	}
	if out != nil {
		fmt.Printf("Found output: %s\n", out.String())
	}
	if in != nil && out != nil {
		fmt.Println("\nTwister detected!")
	} else {
		fmt.Println("\nTwister not found")
	}
}

func testLEDs() {
	_, out := findPorts()
	if out == nil {
		fmt.Println("No Twister found")
		return
	}

	send, err := midi.SendTo(out)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	ch := twister.DefaultChannels()
	fmt.Println("Sweeping rings...")
	for c := 0; c < twister.NumControls; c++ {
		send(midi.ControlChange(ch.LED, uint8(c), 127))
		time.Sleep(80 * time.Millisecond)
		send(midi.ControlChange(ch.LED, uint8(c), 0))
	}
	fmt.Println("Done!")
}

func monitor() {
	in, out := findPorts()
	if in == nil {
		fmt.Println("No Twister found")
		return
	}

	tc, err := twister.NewTwisterController(in.String(), in, out, twister.DefaultChannels())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer tc.Close()

	fmt.Println("Monitoring control events, Ctrl+C to exit...")
	for ev := range tc.Events() {
		fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), ev)
	}
}
