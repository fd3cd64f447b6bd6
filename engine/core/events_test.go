package core

import "testing"

func TestDispatchKeepsEmissionOrder(t *testing.T) {
	eb := NewEventBus()
	var got []EventType
	eb.OnAll(func(e Event) { got = append(got, e.Type) })

	want := []EventType{EvtBulletFired, EvtEnemyKilled, EvtBurstStarted, EvtBulletFired}
	for _, typ := range want {
		eb.Emit(Event{Type: typ})
	}
	if len(got) != 0 {
		t.Fatalf("handlers ran before Dispatch: %v", got)
	}
	if eb.Pending() != len(want) {
		t.Errorf("Pending = %d, want %d", eb.Pending(), len(want))
	}

	eb.Dispatch()
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
	if eb.Pending() != 0 {
		t.Errorf("queue not drained: %d", eb.Pending())
	}
}

func TestOnFiltersByType(t *testing.T) {
	eb := NewEventBus()
	kills := 0
	eb.On(EvtEnemyKilled, func(Event) { kills++ })
	eb.Emit(Event{Type: EvtBulletFired})
	eb.Emit(Event{Type: EvtEnemyKilled})
	eb.Emit(Event{Type: EvtHitVetoed})
	eb.Dispatch()
	if kills != 1 {
		t.Errorf("kills = %d, want 1", kills)
	}
}

func TestEventNames(t *testing.T) {
	for typ := EventType(0); typ < evtMax; typ++ {
		if typ.String() == "" || typ.String() == "unknown" {
			t.Errorf("event type %d has no name", typ)
		}
	}
	if CauseOutOfWorld.String() == CauseEnemy.String() {
		t.Error("death causes share a name")
	}
}
