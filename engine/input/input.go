package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Intent is what the viewer asked for this frame, independent of key layout.
type Intent struct {
	Forward float64 // +1 forward (W/Up), -1 back
	Strafe  float64 // +1 right (D/Right), -1 left
	Lift    float64 // +1 up (E), -1 down (Q)

	Preset       int // 1-5, 0 when none
	ToggleRotate bool
	TogglePause  bool
	ToggleHUD    bool

	// Orbit is the mouse drag in pixels, Zoom the wheel delta.
	OrbitDX, OrbitDY float64
	Zoom             float64
}

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY   int
	MouseDX, MouseDY int // delta since last frame
	prevMouseX       int
	prevMouseY       int
	LeftPressed      bool
	LeftJustPressed  bool
	ScrollY          float64

	// Drag
	DragStartX, DragStartY int
	Dragging               bool
	DragThreshold          int

	// Keyboard
	KeysPressed map[ebiten.Key]bool
	justPressed map[ebiten.Key]bool
}

var movementKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeyQ, ebiten.KeyE,
}

var actionKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.KeyR, ebiten.KeyP, ebiten.KeyH,
}

func NewInputState() *InputState {
	return &InputState{
		DragThreshold: 5,
		KeysPressed:   make(map[ebiten.Key]bool),
		justPressed:   make(map[ebiten.Key]bool),
	}
}

// Update should be called every frame
func (s *InputState) Update() {
	s.prevMouseX = s.MouseX
	s.prevMouseY = s.MouseY
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY

	leftDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.LeftPressed = leftDown

	_, scrollY := ebiten.Wheel()
	s.ScrollY = scrollY

	// Drag tracking
	if s.LeftJustPressed {
		s.DragStartX = s.MouseX
		s.DragStartY = s.MouseY
		s.Dragging = false
	}
	if leftDown && !s.Dragging {
		dx := s.MouseX - s.DragStartX
		dy := s.MouseY - s.DragStartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			s.Dragging = true
		}
	}
	if !leftDown {
		s.Dragging = false
	}

	for _, k := range movementKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
	}
	for _, k := range actionKeys {
		s.justPressed[k] = inpututil.IsKeyJustPressed(k)
	}
}

// IsKeyJustPressed returns true if key was just pressed this frame
func (s *InputState) IsKeyJustPressed(key ebiten.Key) bool {
	if v, ok := s.justPressed[key]; ok {
		return v
	}
	return inpututil.IsKeyJustPressed(key)
}

func (s *InputState) axis(pos, alt, neg, altNeg ebiten.Key) float64 {
	v := 0.0
	if s.KeysPressed[pos] || s.KeysPressed[alt] {
		v++
	}
	if s.KeysPressed[neg] || s.KeysPressed[altNeg] {
		v--
	}
	return v
}

// Intent maps the current key and mouse state onto viewer actions.
func (s *InputState) Intent() Intent {
	in := Intent{
		Forward: s.axis(ebiten.KeyW, ebiten.KeyUp, ebiten.KeyS, ebiten.KeyDown),
		Strafe:  s.axis(ebiten.KeyD, ebiten.KeyRight, ebiten.KeyA, ebiten.KeyLeft),
		Lift:    s.axis(ebiten.KeyE, ebiten.KeyE, ebiten.KeyQ, ebiten.KeyQ),

		ToggleRotate: s.IsKeyJustPressed(ebiten.KeyR),
		TogglePause:  s.IsKeyJustPressed(ebiten.KeyP),
		ToggleHUD:    s.IsKeyJustPressed(ebiten.KeyH),
		Zoom:         s.ScrollY,
	}
	for i, k := range actionKeys[:5] {
		if s.IsKeyJustPressed(k) {
			in.Preset = i + 1
		}
	}
	if s.Dragging {
		in.OrbitDX = float64(s.MouseDX)
		in.OrbitDY = float64(s.MouseDY)
	}
	return in
}
