package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	InstructionText = "Which city has a larger population?\n" +
		"Select the city by pressing the F or J of the keyboard.\n" +
		"\n" +
		"Click \"Start\" and work on the task."
	StartText   = "Start"
	HurryText   = "Hurry up!"
	CorrectText = "Correct!"
	WrongText   = "Wrong..."
	FinishText  = "Finish! Thanks!"
)

type Timing struct {
	ITI          time.Duration
	Confirmation time.Duration
	Feedback     time.Duration
	HurryAfter   time.Duration
	Closing      time.Duration
}

var DefaultTiming = Timing{
	ITI:          2 * time.Second,
	Confirmation: 1 * time.Second,
	Feedback:     1 * time.Second,
	HurryAfter:   5 * time.Second,
	Closing:      3 * time.Second,
}

// Keys names the two response keys as reported by the Input.
type Keys struct {
	Left  string
	Right string
}

// Frame is everything drawn on a stimulus screen.
type Frame struct {
	Left     string
	Right    string
	LeftKey  string
	RightKey string
	Chosen   Slot
	Hurry    bool
}

type Region struct {
	X, Y, W, H float32
}

func (r Region) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

type PointerState struct {
	X, Y    float32
	Clicked bool
}

type KeyPress struct {
	Key string
	RT  time.Duration
}

type Display interface {
	Instructions(hover bool) error
	StartRegion() Region
	Message(text string) error
	Stimulus(f Frame) error
}

type Input interface {
	// Pointer reports the pointer position and whether a click happened
	// since the previous call.
	Pointer() (PointerState, error)
	// ResetKeys discards pending presses and restarts the key clock.
	ResetKeys() error
	// PollKeys returns presses of the named keys since the last reset,
	// oldest first, with RT measured from the reset.
	PollKeys(keys ...string) ([]KeyPress, error)
}

type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

type Sink interface {
	Header() error
	Append(rec Record) error
}

type RunnerConfig struct {
	Subject  string
	Catalog  *Catalog
	Schedule Schedule
	Keys     Keys
	Timing   Timing
	Display  Display
	Input    Input
	Clock    Clock
	Sink     Sink
	Trigger  Trigger
	Logger   *zap.Logger
}

// Runner drives a session through the instruction gate, every trial slot
// of its schedule and the closing screen.
type Runner struct {
	RunnerConfig
}

func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if cfg.Catalog == nil || cfg.Catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	if cfg.Schedule.Len() != cfg.Catalog.Len() || len(cfg.Schedule.Positions) != cfg.Catalog.Len() {
		return nil, eris.Errorf("runner: schedule covers %d trials, catalog has %d", cfg.Schedule.Len(), cfg.Catalog.Len())
	}
	if cfg.Display == nil || cfg.Input == nil || cfg.Clock == nil || cfg.Sink == nil {
		return nil, eris.New("runner: display, input, clock and sink are required")
	}
	if cfg.Keys.Left == "" || cfg.Keys.Right == "" || cfg.Keys.Left == cfg.Keys.Right {
		return nil, eris.Errorf("runner: need two distinct response keys, got %q and %q", cfg.Keys.Left, cfg.Keys.Right)
	}
	if cfg.Timing == (Timing{}) {
		cfg.Timing = DefaultTiming
	}
	if cfg.Trigger == nil {
		cfg.Trigger = NopTrigger{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runner{RunnerConfig: cfg}, nil
}

func (r *Runner) Run() error {
	if err := r.Sink.Header(); err != nil {
		return eris.Wrap(err, "runner: write header")
	}
	if err := r.waitForStart(); err != nil {
		return err
	}
	r.Logger.Info("session started", zap.Int("trials", r.Schedule.Len()))

	for i := range r.Schedule.Len() {
		if _, err := r.runTrial(i); err != nil {
			return eris.Wrapf(err, "runner: trial %d", i)
		}
	}

	if err := r.Display.Message(FinishText); err != nil {
		return eris.Wrap(err, "runner: closing screen")
	}
	r.Clock.Sleep(r.Timing.Closing)
	r.Logger.Info("session finished")
	return nil
}

func (r *Runner) waitForStart() error {
	start := r.Display.StartRegion()
	for {
		p, err := r.Input.Pointer()
		if err != nil {
			return eris.Wrap(err, "runner: instructions")
		}
		over := start.Contains(p.X, p.Y)
		if err := r.Display.Instructions(over); err != nil {
			return eris.Wrap(err, "runner: instructions")
		}
		if p.Clicked && over {
			return nil
		}
	}
}

func (r *Runner) runTrial(i int) (Record, error) {
	item := r.Schedule.Order[i]
	trial := r.Catalog.Trials[item]
	pos := r.Schedule.Positions[i]
	log := r.Logger.With(zap.Int("trial", i), zap.Int("item", item), zap.Stringer("pos", pos))

	if err := r.Display.Message(fmt.Sprintf("%d/%d", i+1, r.Schedule.Len())); err != nil {
		return Record{}, err
	}
	r.Clock.Sleep(r.Timing.ITI)

	frame := r.frame(trial, pos)
	if err := r.Display.Stimulus(frame); err != nil {
		return Record{}, err
	}
	r.Trigger.Onset()
	log.Debug("stimulus onset", zap.String("left", frame.Left), zap.String("right", frame.Right))

	resp, err := r.awaitResponse(frame, pos)
	if err != nil {
		return Record{}, err
	}
	r.Trigger.Response()

	frame.Chosen = resp.Slot
	if err := r.Display.Stimulus(frame); err != nil {
		return Record{}, err
	}
	r.Clock.Sleep(r.Timing.Confirmation)

	rec := Record{
		SubjectID:   r.Subject,
		Trial:       i,
		City1:       trial.City1,
		City2:       trial.City2,
		Population1: trial.Population1,
		Population2: trial.Population2,
		Choice:      resp.Chosen,
		Answer:      trial.CorrectSide(),
		RT:          resp.RT,
		Key:         resp.Key,
		Position:    pos,
	}

	feedback := WrongText
	if rec.Correct() {
		feedback = CorrectText
	}
	if err := r.Display.Message(feedback); err != nil {
		return Record{}, err
	}
	r.Clock.Sleep(r.Timing.Feedback)

	if err := r.Sink.Append(rec); err != nil {
		return Record{}, eris.Wrap(err, "append record")
	}
	log.Info("trial complete",
		zap.String("key", rec.Key),
		zap.Duration("rt", rec.RT),
		zap.Stringer("choice", rec.Choice),
		zap.Stringer("answer", rec.Answer),
		zap.String("result", rec.Result()),
	)
	_ = r.Logger.Sync()

	return rec, nil
}

// awaitResponse blocks until one of the two response keys is pressed.
// Past the hurry threshold every poll redraws the stimulus with the prompt;
// the prompt never ends the trial.
func (r *Runner) awaitResponse(frame Frame, pos Position) (Response, error) {
	if err := r.Input.ResetKeys(); err != nil {
		return Response{}, err
	}
	opened := r.Clock.Now()
	hurry := frame
	hurry.Hurry = true

	for {
		presses, err := r.Input.PollKeys(r.Keys.Left, r.Keys.Right)
		if err != nil {
			return Response{}, err
		}
		if len(presses) > 0 {
			p := presses[0]
			slot := SlotRight
			if p.Key == r.Keys.Left {
				slot = SlotLeft
			}
			return Response{Key: p.Key, Slot: slot, RT: p.RT, Chosen: ChosenSide(pos, slot)}, nil
		}
		if r.Clock.Now()-opened > r.Timing.HurryAfter {
			if err := r.Display.Stimulus(hurry); err != nil {
				return Response{}, err
			}
		}
	}
}

func (r *Runner) frame(t Trial, pos Position) Frame {
	left, right := t.Layout(pos)
	return Frame{
		Left:     left,
		Right:    right,
		LeftKey:  strings.ToUpper(r.Keys.Left),
		RightKey: strings.ToUpper(r.Keys.Right),
	}
}
