package engine

import "time"

type fakeClock struct {
	now    time.Duration
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now += d
}

type screenEvent struct {
	kind  string // "instructions", "message", "stimulus"
	at    time.Duration
	text  string
	hover bool
	frame Frame
}

// press scripts the response of one trial: key is pressed once the
// response window has been open for after.
type press struct {
	key   string
	after time.Duration
}

// fakeDevice is a scripted Display and Input driven by a fakeClock.
type fakeDevice struct {
	clock    *fakeClock
	start    Region
	pointer  []PointerState
	presses  []press
	pollStep time.Duration
	onPoll   func(elapsed time.Duration)

	events  []screenEvent
	resetAt time.Duration
	resets  int
	polls   int
}

func newFakeDevice(clock *fakeClock, presses ...press) *fakeDevice {
	return &fakeDevice{
		clock:    clock,
		start:    Region{X: 100, Y: 100, W: 50, H: 50},
		pointer:  []PointerState{{X: 120, Y: 120, Clicked: true}},
		presses:  presses,
		pollStep: 10 * time.Millisecond,
	}
}

func (d *fakeDevice) Instructions(hover bool) error {
	d.events = append(d.events, screenEvent{kind: "instructions", at: d.clock.now, hover: hover})
	return nil
}

func (d *fakeDevice) StartRegion() Region { return d.start }

func (d *fakeDevice) Message(text string) error {
	d.events = append(d.events, screenEvent{kind: "message", at: d.clock.now, text: text})
	return nil
}

func (d *fakeDevice) Stimulus(f Frame) error {
	d.events = append(d.events, screenEvent{kind: "stimulus", at: d.clock.now, frame: f})
	return nil
}

func (d *fakeDevice) Pointer() (PointerState, error) {
	p := d.pointer[0]
	if len(d.pointer) > 1 {
		d.pointer = d.pointer[1:]
	}
	return p, nil
}

func (d *fakeDevice) ResetKeys() error {
	d.resetAt = d.clock.now
	d.resets++
	return nil
}

func (d *fakeDevice) PollKeys(keys ...string) ([]KeyPress, error) {
	d.polls++
	d.clock.now += d.pollStep
	elapsed := d.clock.now - d.resetAt
	if d.onPoll != nil {
		d.onPoll(elapsed)
	}
	p := d.presses[d.resets-1]
	if elapsed < p.after {
		return nil, nil
	}
	for _, k := range keys {
		if k == p.key {
			return []KeyPress{{Key: p.key, RT: elapsed}}, nil
		}
	}
	return nil, nil
}

func (d *fakeDevice) eventsOf(kind string) []screenEvent {
	var out []screenEvent
	for _, e := range d.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

type memorySink struct {
	headers int
	records []Record
	err     error
}

func (s *memorySink) Header() error {
	s.headers++
	return s.err
}

func (s *memorySink) Append(rec Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

// scriptedShuffler returns its permutations in order.
type scriptedShuffler struct {
	perms [][]int
}

func (s *scriptedShuffler) Perm(n int) []int {
	p := s.perms[0]
	s.perms = s.perms[1:]
	return append([]int(nil), p...)
}

type countingTrigger struct {
	onsets, responses int
}

func (t *countingTrigger) Onset()    { t.onsets++ }
func (t *countingTrigger) Response() { t.responses++ }

func testCatalog() *Catalog {
	return &Catalog{Trials: []Trial{
		{City1: "Tokyo", City2: "Osaka", Population1: 9000000, Population2: 2700000},
		{City1: "A", City2: "B", Population1: 100, Population2: 200},
		{City1: "X", City2: "Y", Population1: 50, Population2: 50},
		{City1: "P", City2: "Q", Population1: 300, Population2: 10},
	}}
}
