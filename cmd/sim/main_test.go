package main

import (
	"testing"

	"github.com/1siamBot/geojump/engine/core"
)

func TestResolveSeed(t *testing.T) {
	tests := []struct {
		name    string
		o       options
		cfgSeed int64
		want    int64
	}{
		{"config seed kept", options{seed: 1}, 42, 42},
		{"flag default fills an empty config", options{seed: 1}, 0, 1},
		{"explicit flag wins", options{seed: 9, seedSet: true}, 42, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.resolveSeed(tt.cfgSeed); got != tt.want {
				t.Errorf("resolveSeed(%d) = %d, want %d", tt.cfgSeed, got, tt.want)
			}
		})
	}
}

func TestAutopilotFlipsOnSchedule(t *testing.T) {
	sc := autopilot(10, 4, 800)
	for i := 0; i < 12; i++ {
		f := sc.Poll()
		wantTap := i == 4 || i == 8
		if f.Tapped != wantTap {
			t.Errorf("tick %d tapped = %v, want %v", i, f.Tapped, wantTap)
		}
		if !f.Right || !f.Fire {
			t.Errorf("tick %d dropped run or fire: %+v", i, f)
		}
		if f.Tapped && f.TapSide(800) != core.SideLeft {
			t.Errorf("tick %d tap on the wrong side", i)
		}
	}
}

func TestAutopilotWithoutFlips(t *testing.T) {
	sc := autopilot(10, 0, 800)
	if len(sc.Frames) != 0 || sc.Poll() != (core.InputFrame{Right: true, Fire: true}) {
		t.Error("autopilot without flips should only hold run and fire")
	}
}
