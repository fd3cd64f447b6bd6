package pool

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func stockSpec() EmitterSpec {
	return EmitterSpec{
		Slots:      5,
		Capacity:   20,
		BurstCount: 10,
		Lifespan:   1000 * ms,
		ResetDelay: 200 * ms,
		Spread:     150,
	}
}

func newEmitters(seed int64) *EmitterPool {
	return NewEmitterPool(stockSpec(), rand.New(rand.NewSource(seed)))
}

func TestTriggerDropsWhenEverySlotIsBusy(t *testing.T) {
	p := newEmitters(1)
	for i := 0; i < 5; i++ {
		slot, ok := p.Trigger(0, float64(i), 0)
		if !ok || slot != i {
			t.Fatalf("trigger %d = (%d, %v), want (%d, true)", i, slot, ok, i)
		}
	}
	slot, ok := p.Trigger(0, 99, 99)
	if ok || slot != -1 {
		t.Errorf("sixth trigger = (%d, %v), want (-1, false)", slot, ok)
	}
	for _, s := range p.Slots() {
		if s.X == 99 {
			t.Error("dropped trigger moved a slot")
		}
	}
}

func TestSlotIsReleasedAfterResetDelay(t *testing.T) {
	p := newEmitters(1)
	p.Trigger(0, 10, 10)
	if p.Slots()[0].State != SlotActive {
		t.Fatalf("state = %v, want active", p.Slots()[0].State)
	}

	p.Maintain(0, 0.1)
	if p.Slots()[0].State != SlotPendingReset {
		t.Errorf("state after first maintain = %v, want pending_reset", p.Slots()[0].State)
	}
	p.Maintain(199*ms, 0.1)
	if p.Available() != 4 {
		t.Errorf("slot released early: %d available", p.Available())
	}
	p.Maintain(200*ms, 0.1)
	if p.Slots()[0].State != SlotIdle || p.Available() != 5 {
		t.Errorf("slot not released at 200ms: %v", p.Slots()[0].State)
	}
}

func TestParticlesLiveForTheirLifespan(t *testing.T) {
	p := newEmitters(7)
	p.Trigger(0, 100, 100)
	if got := p.Slots()[0].Running(); got != 10 {
		t.Fatalf("running = %d, want a burst of 10", got)
	}

	now := time.Duration(0)
	for i := 0; i < 7; i++ {
		now += 125 * ms
		p.Maintain(now, 0.125)
	}
	if got := p.Slots()[0].Running(); got != 10 {
		t.Errorf("running at 875ms = %d, want 10", got)
	}
	p.Maintain(now+125*ms, 0.125)
	if got := p.Slots()[0].Running(); got != 0 {
		t.Errorf("running at 1000ms = %d, want 0", got)
	}
}

func TestBurstVelocityWithinSpread(t *testing.T) {
	p := newEmitters(3)
	p.Trigger(0, 0, 0)
	for _, pt := range p.Slots()[0].Particles[:10] {
		if math.Abs(pt.VX) > 150 || math.Abs(pt.VY) > 150 {
			t.Errorf("particle velocity (%v, %v) outside spread", pt.VX, pt.VY)
		}
	}
}

func TestTriggerAtOriginIsOrdinary(t *testing.T) {
	p := newEmitters(1)
	slot, ok := p.Trigger(0, 0, 0)
	if !ok || slot != 0 {
		t.Fatalf("trigger at origin = (%d, %v)", slot, ok)
	}
	if p.Slots()[0].State == SlotIdle || p.Available() != 4 {
		t.Error("a burst at (0, 0) left its slot idle")
	}
}

func TestSameSeedSameBurst(t *testing.T) {
	a, b := newEmitters(42), newEmitters(42)
	a.Trigger(0, 5, 5)
	b.Trigger(0, 5, 5)
	pa, pb := a.Slots()[0].Particles, b.Slots()[0].Particles
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, pa[i], pb[i])
		}
	}
}

func TestBurstsPerWindowBoundedBySlots(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := newEmitters(rapid.Int64().Draw(t, "seed"))
		attempts := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 120).Draw(t, "attempts")

		const dt = 0.0625
		step := 62500 * time.Microsecond
		var started []time.Duration
		now := time.Duration(0)
		for _, n := range attempts {
			for i := 0; i < n; i++ {
				if _, ok := p.Trigger(now, 1, 1); ok {
					started = append(started, now)
				}
			}
			p.Maintain(now, dt)
			now += step
		}

		for i, at := range started {
			inWindow := 0
			for _, other := range started[:i+1] {
				if at-other < 200*ms {
					inWindow++
				}
			}
			if inWindow > 5 {
				t.Fatalf("%d bursts started within 200ms ending at %v", inWindow, at)
			}
		}
	})
}

func TestEmitterReset(t *testing.T) {
	p := newEmitters(1)
	for i := 0; i < 5; i++ {
		p.Trigger(0, 1, 1)
	}
	p.Reset()
	if p.Available() != p.Size() {
		t.Errorf("Available = %d after Reset", p.Available())
	}
	for _, s := range p.Slots() {
		if s.Running() != 0 {
			t.Error("particles still running after Reset")
		}
	}
}
