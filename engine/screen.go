package engine

import (
	"slices"
	"strings"
	"time"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/Zyko0/go-sdl3/ttf"
	"github.com/rotisserie/eris"
)

var ErrWindowClosed = eris.New("window closed")

// Layout in normalized units: the window spans -1..1 on both axes with +y up.
const (
	cityNudgeX    = 0.5
	keyLegendY    = 0.5
	hurryY        = 0.8
	startY        = -0.5
	startSize     = 0.2
	cityBoxWidth  = 0.5
	cityBoxHeight = 0.2
	boxLineWidth  = 10
)

// Screen is the SDL window of a session. It is the Display, Input and
// Clock handed to the Runner.
type Screen struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texts    *TextCache
	palette  Palette
	w, h     float32

	pointer PointerState
	presses []KeyPress
	resetAt uint64
	closed  bool
	hidden  bool
}

func OpenScreen(cfg *Config, font *ttf.Font) (*Screen, error) {
	windowFlags := sdl.WINDOW_FULLSCREEN
	if !cfg.Window.Fullscreen {
		windowFlags = 0
	}

	window, renderer, err := sdl.CreateWindowAndRenderer("citycompare", cfg.Window.Width, cfg.Window.Height, windowFlags)
	if err != nil {
		return nil, eris.Wrap(err, "screen: create window")
	}

	if cfg.Window.VSync {
		renderer.SetVSync(1)
	} else {
		renderer.SetVSync(0)
	}

	// Fullscreen windows take the display's size, not the configured one.
	w, h, err := window.Size()
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, eris.Wrap(err, "screen: window size")
	}
	if err := renderer.SetLogicalPresentation(w, h, sdl.LOGICAL_PRESENTATION_STRETCH); err != nil {
		renderer.Destroy()
		window.Destroy()
		return nil, eris.Wrap(err, "screen: logical presentation")
	}

	return &Screen{
		window:   window,
		renderer: renderer,
		texts:    NewTextCache(renderer, font),
		palette:  cfg.Colors.Palette(),
		w:        float32(w),
		h:        float32(h),
	}, nil
}

func (s *Screen) Close() {
	s.texts.Destroy()
	s.renderer.Destroy()
	s.window.Destroy()
}

func (s *Screen) toPixels(x, y float32) (float32, float32) {
	return s.w/2 + x*s.w/2, s.h/2 - y*s.h/2
}

func (s *Screen) region(cx, cy, w, h float32) Region {
	px, py := s.toPixels(cx, cy)
	pw, ph := w*s.w/2, h*s.h/2
	return Region{X: px - pw/2, Y: py - ph/2, W: pw, H: ph}
}

// showCursor toggles the pointer; it is only visible on the instructions.
func (s *Screen) showCursor(visible bool) {
	if s.hidden != visible {
		return
	}
	if visible {
		sdl.ShowCursor()
	} else {
		sdl.HideCursor()
	}
	s.hidden = !visible
}

func (s *Screen) clear() {
	bg := s.palette.Background
	s.renderer.SetDrawColor(bg.R, bg.G, bg.B, bg.A)
	s.renderer.Clear()
}

// drawText centers every line of text on the normalized point (x, y).
func (s *Screen) drawText(text string, color sdl.Color, x, y float32) error {
	lines := strings.Split(text, "\n")
	entries := make([]textTexture, len(lines))
	var lineH, total float32
	for i, line := range lines {
		if line == "" {
			continue
		}
		e, err := s.texts.Get(line, color)
		if err != nil {
			return err
		}
		entries[i] = e
		lineH = max(lineH, e.h)
	}
	total = lineH * float32(len(lines))

	cx, cy := s.toPixels(x, y)
	top := cy - total/2
	for i, e := range entries {
		if e.tex == nil {
			continue
		}
		dst := sdl.FRect{X: cx - e.w/2, Y: top + float32(i)*lineH, W: e.w, H: e.h}
		s.renderer.RenderTexture(e.tex, nil, &dst)
	}
	return nil
}

func (s *Screen) drawBox(r Region, color sdl.Color) {
	s.renderer.SetDrawColor(color.R, color.G, color.B, color.A)
	for _, edge := range []sdl.FRect{
		{X: r.X, Y: r.Y, W: r.W, H: boxLineWidth},
		{X: r.X, Y: r.Y + r.H - boxLineWidth, W: r.W, H: boxLineWidth},
		{X: r.X, Y: r.Y, W: boxLineWidth, H: r.H},
		{X: r.X + r.W - boxLineWidth, Y: r.Y, W: boxLineWidth, H: r.H},
	} {
		s.renderer.RenderFillRect(&edge)
	}
}

func (s *Screen) StartRegion() Region {
	return s.region(0, startY, startSize, startSize)
}

func (s *Screen) Instructions(hover bool) error {
	color := s.palette.Text
	if hover {
		color = s.palette.Highlight
	}

	s.showCursor(true)
	s.clear()
	if err := s.drawText(InstructionText, s.palette.Text, 0, 0.2); err != nil {
		return err
	}
	s.drawBox(s.StartRegion(), color)
	if err := s.drawText(StartText, color, 0, startY); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

func (s *Screen) Message(text string) error {
	s.showCursor(false)
	s.clear()
	if err := s.drawText(text, s.palette.Text, 0, 0); err != nil {
		return err
	}
	s.renderer.Present()
	return nil
}

func (s *Screen) Stimulus(f Frame) error {
	s.showCursor(false)
	s.clear()

	leftColor, rightColor := s.palette.Text, s.palette.Text
	switch f.Chosen {
	case SlotLeft:
		leftColor = s.palette.Highlight
		s.drawBox(s.region(-cityNudgeX, 0, cityBoxWidth, cityBoxHeight), s.palette.Highlight)
	case SlotRight:
		rightColor = s.palette.Highlight
		s.drawBox(s.region(cityNudgeX, 0, cityBoxWidth, cityBoxHeight), s.palette.Highlight)
	}

	for _, t := range []struct {
		text  string
		color sdl.Color
		x, y  float32
	}{
		{f.Left, leftColor, -cityNudgeX, 0},
		{f.Right, rightColor, cityNudgeX, 0},
		{f.LeftKey, s.palette.Text, -cityNudgeX, keyLegendY},
		{f.RightKey, s.palette.Text, cityNudgeX, keyLegendY},
	} {
		if err := s.drawText(t.text, t.color, t.x, t.y); err != nil {
			return err
		}
	}
	if f.Hurry {
		if err := s.drawText(HurryText, s.palette.Highlight, 0, hurryY); err != nil {
			return err
		}
	}

	s.renderer.Present()
	return nil
}

// pump drains the SDL event queue into the pointer and key state.
func (s *Screen) pump() {
	for {
		var ev sdl.Event
		if !sdl.PollEvent(&ev) {
			break
		}
		s.renderer.ConvertEventToRenderCoordinates(&ev)
		switch ev.Type {
		case sdl.EVENT_QUIT:
			s.closed = true
		case sdl.EVENT_MOUSE_MOTION:
			me := ev.MouseMotionEvent()
			s.pointer.X, s.pointer.Y = me.X, me.Y
		case sdl.EVENT_MOUSE_BUTTON_DOWN:
			me := ev.MouseButtonEvent()
			s.pointer.X, s.pointer.Y = me.X, me.Y
			s.pointer.Clicked = true
		case sdl.EVENT_KEY_DOWN:
			ke := ev.KeyboardEvent()
			if p, ok := pressSince(keyEvent{
				Name:      ke.Key.KeyName(),
				Timestamp: ke.Timestamp,
				Repeat:    ke.Repeat,
			}, s.resetAt); ok {
				s.presses = append(s.presses, p)
			}
		}
	}
}

func (s *Screen) Pointer() (PointerState, error) {
	s.pump()
	if s.closed {
		return PointerState{}, ErrWindowClosed
	}
	p := s.pointer
	s.pointer.Clicked = false
	return p, nil
}

func (s *Screen) ResetKeys() error {
	s.pump()
	if s.closed {
		return ErrWindowClosed
	}
	s.presses = nil
	s.resetAt = sdl.TicksNS()
	return nil
}

func (s *Screen) PollKeys(keys ...string) ([]KeyPress, error) {
	s.pump()
	if s.closed {
		return nil, ErrWindowClosed
	}
	matched, rest := splitPresses(s.presses, keys)
	s.presses = rest
	return matched, nil
}

type keyEvent struct {
	Name      string
	Timestamp uint64
	Repeat    bool
}

// pressSince turns a key-down event into a press timed from resetAt.
// Events older than resetAt and auto-repeats of a held key are dropped.
func pressSince(ev keyEvent, resetAt uint64) (KeyPress, bool) {
	if ev.Repeat || ev.Timestamp < resetAt {
		return KeyPress{}, false
	}
	return KeyPress{
		Key: strings.ToLower(ev.Name),
		RT:  time.Duration(ev.Timestamp - resetAt),
	}, true
}

// splitPresses separates presses of the given keys from all others, keeping
// order. rest reuses the backing array of presses.
func splitPresses(presses []KeyPress, keys []string) (matched, rest []KeyPress) {
	rest = presses[:0]
	for _, p := range presses {
		if slices.Contains(keys, p.Key) {
			matched = append(matched, p)
		} else {
			rest = append(rest, p)
		}
	}
	return matched, rest
}

func (s *Screen) Now() time.Duration {
	return time.Duration(sdl.TicksNS())
}

// Sleep holds the current frame for d while keeping the event queue
// drained so the window stays responsive.
func (s *Screen) Sleep(d time.Duration) {
	deadline := s.Now() + d
	for s.Now() < deadline {
		s.pump()
		time.Sleep(time.Millisecond)
	}
}
