package core

import "time"

// Event represents a game event
type Event struct {
	Type    EventType
	Tick    uint64
	Time    time.Duration // simulation time the event was raised at
	Payload interface{}
}

type EventType uint16

const (
	EvtBulletFired EventType = iota
	EvtShotDropped           // weapon was ready but the pool was exhausted
	EvtEnemyKilled
	EvtHitVetoed // bullet touched an enemy outside its base frame
	EvtBurstStarted
	EvtBurstDropped // every emitter slot was busy
	EvtPlayerDied
	EvtGravityFlipped
	EvtWarpStarted
	EvtGameOver
	evtMax
)

var eventNames = [evtMax]string{
	EvtBulletFired:    "bullet_fired",
	EvtShotDropped:    "shot_dropped",
	EvtEnemyKilled:    "enemy_killed",
	EvtHitVetoed:      "hit_vetoed",
	EvtBurstStarted:   "burst_started",
	EvtBurstDropped:   "burst_dropped",
	EvtPlayerDied:     "player_died",
	EvtGravityFlipped: "gravity_flipped",
	EvtWarpStarted:    "warp_started",
	EvtGameOver:       "game_over",
}

func (t EventType) String() string {
	if t < evtMax {
		return eventNames[t]
	}
	return "unknown"
}

// ---- Payloads ----

// PointPayload carries a world position
type PointPayload struct {
	X, Y float64
}

// HitPayload describes a bullet/enemy contact
type HitPayload struct {
	Bullet EntityID
	Enemy  EntityID
	Frame  int
	X, Y   float64
}

// BurstPayload describes a particle burst
type BurstPayload struct {
	Slot int
	X, Y float64
}

// DeathCause tells why the player died
type DeathCause uint8

const (
	CauseEnemy DeathCause = iota
	CauseOutOfWorld
)

func (c DeathCause) String() string {
	if c == CauseOutOfWorld {
		return "out_of_world"
	}
	return "enemy"
}

// DeathPayload describes the player's death
type DeathPayload struct {
	Cause DeathCause
	X, Y  float64
}

// WarpPayload describes a warp trigger
type WarpPayload struct {
	TileX, TileY int
	FromX, FromY float64
	ToX, ToY     float64
}

// EventBus dispatches events to listeners
type EventBus struct {
	listeners map[EventType][]EventHandler
	queue     []Event
}

type EventHandler func(e Event)

func NewEventBus() *EventBus {
	return &EventBus{
		listeners: make(map[EventType][]EventHandler),
	}
}

// On registers a handler for an event type
func (eb *EventBus) On(t EventType, h EventHandler) {
	eb.listeners[t] = append(eb.listeners[t], h)
}

// OnAll registers a handler for every event type
func (eb *EventBus) OnAll(h EventHandler) {
	for t := EventType(0); t < evtMax; t++ {
		eb.On(t, h)
	}
}

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Pending returns the number of queued events
func (eb *EventBus) Pending() int {
	return len(eb.queue)
}

// Dispatch processes all queued events in emission order
func (eb *EventBus) Dispatch() {
	for _, e := range eb.queue {
		if handlers, ok := eb.listeners[e.Type]; ok {
			for _, h := range handlers {
				h(e)
			}
		}
	}
	eb.queue = eb.queue[:0]
}
