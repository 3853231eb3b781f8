package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/Zyko0/go-sdl3/sdl"
	"github.com/rotisserie/eris"
)

const (
	dialogWidth  = 600
	dialogHeight = 320
	dialogFont   = 18
)

// ValidateParticipant trims the dialog input and rejects subject ids that
// cannot be used in a file name.
func ValidateParticipant(p Participant) (Participant, error) {
	p.SubjectID = strings.TrimSpace(p.SubjectID)
	p.Note = strings.TrimSpace(p.Note)
	if p.SubjectID == "" {
		return p, eris.New("Subject ID is required")
	}
	if strings.ContainsAny(p.SubjectID, `/\:*?"<>|`) {
		return p, eris.New("Subject ID contains invalid characters")
	}
	return p, nil
}

// RunParticipantDialog asks the operator for the subject id and a free
// note. It returns ok=false when the dialog is cancelled or closed; nothing
// must be written in that case.
func RunParticipantDialog(fontFile string) (Participant, bool, error) {
	window, renderer, err := sdl.CreateWindowAndRenderer("citycompare: participant", dialogWidth, dialogHeight, 0)
	if err != nil {
		return Participant{}, false, eris.Wrap(err, "dialog: create window")
	}
	defer window.Destroy()
	defer renderer.Destroy()

	font, err := OpenFont(fontFile, dialogFont)
	if err != nil {
		return Participant{}, false, err
	}
	defer font.Close()

	d := &participantDialog{renderer: renderer, texts: NewTextCache(renderer, font)}
	defer d.texts.Destroy()

	window.StartTextInput()
	defer window.StopTextInput()

	for {
		var e sdl.Event
		for sdl.PollEvent(&e) {
			switch e.Type {
			case sdl.EVENT_QUIT:
				return Participant{}, false, nil
			case sdl.EVENT_MOUSE_BUTTON_DOWN:
				me := e.MouseButtonEvent()
				switch d.hit(me.X, me.Y) {
				case hitSubject:
					d.focus = 0
				case hitNote:
					d.focus = 1
				case hitOK:
					if p, ok := d.submit(); ok {
						return p, true, nil
					}
				case hitCancel:
					return Participant{}, false, nil
				}
			case sdl.EVENT_TEXT_INPUT:
				*d.field() += e.TextInputEvent().Text
			case sdl.EVENT_KEY_DOWN:
				switch e.KeyboardEvent().Key {
				case sdl.K_BACKSPACE:
					f := d.field()
					if _, size := utf8.DecodeLastRuneInString(*f); size > 0 {
						*f = (*f)[:len(*f)-size]
					}
				case sdl.K_TAB:
					d.focus = 1 - d.focus
				case sdl.K_RETURN:
					if p, ok := d.submit(); ok {
						return p, true, nil
					}
				case sdl.K_ESCAPE:
					return Participant{}, false, nil
				}
			}
		}

		if err := d.draw(); err != nil {
			return Participant{}, false, err
		}
		sdl.Delay(10)
	}
}

type dialogHit int

const (
	hitNothing dialogHit = iota
	hitSubject
	hitNote
	hitOK
	hitCancel
)

var (
	subjectBox = Region{X: 40, Y: 60, W: 520, H: 30}
	noteBox    = Region{X: 40, Y: 140, W: 520, H: 30}
	okButton   = Region{X: 340, Y: 240, W: 100, H: 40}
	cancelBtn  = Region{X: 460, Y: 240, W: 100, H: 40}
)

type participantDialog struct {
	renderer *sdl.Renderer
	texts    *TextCache
	input    Participant
	focus    int
	problem  string
}

func (d *participantDialog) hit(x, y float32) dialogHit {
	switch {
	case subjectBox.Contains(x, y):
		return hitSubject
	case noteBox.Contains(x, y):
		return hitNote
	case okButton.Contains(x, y):
		return hitOK
	case cancelBtn.Contains(x, y):
		return hitCancel
	}
	return hitNothing
}

func (d *participantDialog) field() *string {
	if d.focus == 0 {
		return &d.input.SubjectID
	}
	return &d.input.Note
}

func (d *participantDialog) submit() (Participant, bool) {
	p, err := ValidateParticipant(d.input)
	if err != nil {
		d.problem = err.Error()
		return Participant{}, false
	}
	return p, true
}

func (d *participantDialog) label(text string, color sdl.Color, x, y float32) error {
	if text == "" {
		return nil
	}
	e, err := d.texts.Get(text, color)
	if err != nil {
		return err
	}
	dst := sdl.FRect{X: x, Y: y, W: e.w, H: e.h}
	d.renderer.RenderTexture(e.tex, nil, &dst)
	return nil
}

func (d *participantDialog) draw() error {
	black := sdl.Color{R: 0, G: 0, B: 0, A: 255}
	white := sdl.Color{R: 255, G: 255, B: 255, A: 255}
	red := sdl.Color{R: 200, G: 0, B: 0, A: 255}

	d.renderer.SetDrawColor(240, 240, 240, 255)
	d.renderer.Clear()

	fields := []struct {
		label string
		value string
		box   Region
	}{
		{"subj_id", d.input.SubjectID, subjectBox},
		{"add_here_what_you_want", d.input.Note, noteBox},
	}
	for i, f := range fields {
		if err := d.label(f.label, black, f.box.X, f.box.Y-30); err != nil {
			return err
		}
		box := sdl.FRect{X: f.box.X, Y: f.box.Y, W: f.box.W, H: f.box.H}
		d.renderer.SetDrawColor(255, 255, 255, 255)
		d.renderer.RenderFillRect(&box)
		if d.focus == i {
			d.renderer.SetDrawColor(0, 120, 255, 255)
		} else {
			d.renderer.SetDrawColor(180, 180, 180, 255)
		}
		d.renderer.RenderRect(&box)
		if err := d.label(f.value, black, f.box.X+5, f.box.Y+5); err != nil {
			return err
		}
	}

	if err := d.label(d.problem, red, 40, 195); err != nil {
		return err
	}

	for _, b := range []struct {
		text string
		r    Region
		fill sdl.Color
	}{
		{"OK", okButton, sdl.Color{R: 0, G: 150, B: 0, A: 255}},
		{"Cancel", cancelBtn, sdl.Color{R: 150, G: 150, B: 150, A: 255}},
	} {
		rect := sdl.FRect{X: b.r.X, Y: b.r.Y, W: b.r.W, H: b.r.H}
		d.renderer.SetDrawColor(b.fill.R, b.fill.G, b.fill.B, b.fill.A)
		d.renderer.RenderFillRect(&rect)
		if err := d.label(b.text, white, b.r.X+20, b.r.Y+10); err != nil {
			return err
		}
	}

	d.renderer.Present()
	return nil
}
