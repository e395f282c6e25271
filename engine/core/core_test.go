package core

import (
	"math"
	"testing"
	"time"
)

type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time          { return f.t }
func (f *fakeTime) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestClockAdvance(t *testing.T) {
	ft := &fakeTime{t: time.Unix(1000, 0)}
	c := NewClockAt(ft.now)

	ft.advance(16 * time.Millisecond)
	f := c.Advance()
	if math.Abs(f.Delta-0.016) > 1e-9 || f.Tick != 1 {
		t.Fatalf("frame = %+v", f)
	}

	ft.advance(2 * time.Second) // stall
	f = c.Advance()
	if f.Delta != MaxFrameTime {
		t.Fatalf("delta = %v, want capped %v", f.Delta, MaxFrameTime)
	}
	if math.Abs(f.Elapsed-0.266) > 1e-9 || math.Abs(f.Millis-266) > 1e-6 {
		t.Fatalf("elapsed = %v / %v ms", f.Elapsed, f.Millis)
	}
}

func TestClockPause(t *testing.T) {
	ft := &fakeTime{t: time.Unix(0, 0)}
	c := NewClockAt(ft.now)
	if !c.TogglePause() {
		t.Fatal("TogglePause should report paused")
	}
	ft.advance(100 * time.Millisecond)
	if f := c.Advance(); f.Elapsed != 0 || f.Delta != 0 {
		t.Fatalf("paused frame = %+v", f)
	}
	c.TogglePause()
	ft.advance(100 * time.Millisecond)
	if f := c.Advance(); math.Abs(f.Elapsed-0.1) > 1e-9 {
		t.Fatalf("elapsed after resume = %v", f.Elapsed)
	}
}

type recordSystem struct {
	name  string
	prio  int
	trace *[]string
}

func (r recordSystem) Update(Frame)  { *r.trace = append(*r.trace, r.name) }
func (r recordSystem) Priority() int { return r.prio }

func TestSchedulerPriorityOrder(t *testing.T) {
	var trace []string
	s := NewScheduler()
	s.AddSystem(recordSystem{"clouds", 30, &trace})
	s.AddSystem(recordSystem{"birds", 10, &trace})
	s.AddSystem(recordSystem{"dust", 30, &trace})
	s.AddSystem(recordSystem{"sun", 0, &trace})
	s.Tick(Frame{})

	want := []string{"sun", "birds", "clouds", "dust"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v", trace)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Fatalf("trace = %v, want %v", trace, want)
		}
	}
	if s.TickCount != 1 || s.Len() != 4 {
		t.Fatalf("TickCount=%d Len=%d", s.TickCount, s.Len())
	}
}

func TestEventBusDispatch(t *testing.T) {
	eb := NewEventBus()
	var got []any
	eb.On(EvtPresetApplied, func(e Event) {
		got = append(got, e.Payload)
		eb.Emit(Event{Type: EvtPresetApplied, Payload: "again"})
	})
	eb.Emit(Event{Type: EvtPresetApplied, Payload: 3})
	eb.Emit(Event{Type: EvtPropSkipped, Payload: "fern"})

	eb.Dispatch()
	if len(got) != 1 || got[0] != 3 {
		t.Fatalf("first dispatch = %v", got)
	}
	eb.Dispatch()
	if len(got) != 2 || got[1] != "again" {
		t.Fatalf("second dispatch = %v", got)
	}
}
