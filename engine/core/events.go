package core

// Event is something the HUD or log should hear about
type Event struct {
	Type    EventType
	Tick    uint64
	Payload any
}

type EventType uint16

const (
	EvtPresetApplied EventType = iota
	EvtAutoRotateToggled
	EvtPauseToggled
	EvtShaderFallback
	EvtPropSkipped
	EvtSceneBuilt
)

func (t EventType) String() string {
	switch t {
	case EvtPresetApplied:
		return "preset_applied"
	case EvtAutoRotateToggled:
		return "auto_rotate_toggled"
	case EvtPauseToggled:
		return "pause_toggled"
	case EvtShaderFallback:
		return "shader_fallback"
	case EvtPropSkipped:
		return "prop_skipped"
	case EvtSceneBuilt:
		return "scene_built"
	}
	return "unknown"
}

// EventBus queues events and dispatches them to listeners
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

// Emit queues an event for dispatch
func (eb *EventBus) Emit(e Event) {
	eb.queue = append(eb.queue, e)
}

// Dispatch processes all queued events. Handlers may emit; those events
// wait for the next Dispatch.
func (eb *EventBus) Dispatch() {
	pending := eb.queue
	eb.queue = nil
	for _, e := range pending {
		for _, h := range eb.listeners[e.Type] {
			h(e)
		}
	}
}
