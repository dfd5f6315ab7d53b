package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultMode != "idle" {
		t.Fatalf("DefaultMode = %q, want idle", cfg.DefaultMode)
	}
	if cfg.Channels.Knob != 0 || cfg.Channels.Button != 1 {
		t.Fatalf("channels = %+v", cfg.Channels)
	}
	if cfg.HoldDuration() != 1500*time.Millisecond {
		t.Fatalf("HoldDuration = %v", cfg.HoldDuration())
	}
}

func TestHoldDurationFallsBack(t *testing.T) {
	cfg := &Config{HoldMillis: 0}
	if cfg.HoldDuration() != 1500*time.Millisecond {
		t.Fatalf("HoldDuration = %v with zero millis", cfg.HoldDuration())
	}
	cfg.HoldMillis = 800
	if cfg.HoldDuration() != 800*time.Millisecond {
		t.Fatalf("HoldDuration = %v, want 800ms", cfg.HoldDuration())
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.PortName = "Twister"
	cfg.DefaultMode = "memory"
	cfg.HoldMillis = 900
	cfg.Channels.Button = 3
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.PortName != "Twister" || got.DefaultMode != "memory" || got.HoldMillis != 900 {
		t.Fatalf("round trip = %+v", got)
	}
	if got.Channels.Button != 3 {
		t.Fatalf("channels = %+v", got.Channels)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DefaultMode != "idle" {
		t.Fatalf("missing file gave %+v, want defaults", got)
	}
}
