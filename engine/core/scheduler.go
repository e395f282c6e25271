package core

// System advances one group of animated things each frame
type System interface {
	Update(f Frame)
	Priority() int
}

// Scheduler runs systems in ascending priority order
type Scheduler struct {
	systems   []System
	TickCount uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// AddSystem registers a system. Systems with equal priority keep their
// registration order.
func (s *Scheduler) AddSystem(sys System) {
	s.systems = append(s.systems, sys)
	// Sort by priority (simple insertion)
	for i := len(s.systems) - 1; i > 0; i-- {
		if s.systems[i].Priority() < s.systems[i-1].Priority() {
			s.systems[i], s.systems[i-1] = s.systems[i-1], s.systems[i]
		}
	}
}

// Tick runs all systems once
func (s *Scheduler) Tick(f Frame) {
	for _, sys := range s.systems {
		sys.Update(f)
	}
	s.TickCount++
}

// Len returns the number of registered systems
func (s *Scheduler) Len() int {
	return len(s.systems)
}
