package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressSince(t *testing.T) {
	const reset = uint64(10 * time.Second)

	tests := []struct {
		name string
		ev   keyEvent
		want KeyPress
		ok   bool
	}{
		{"fresh press", keyEvent{Name: "F", Timestamp: reset + uint64(450*time.Millisecond)}, KeyPress{Key: "f", RT: 450 * time.Millisecond}, true},
		{"at reset", keyEvent{Name: "J", Timestamp: reset}, KeyPress{Key: "j"}, true},
		{"before reset", keyEvent{Name: "F", Timestamp: reset - 1}, KeyPress{}, false},
		{"held key repeating", keyEvent{Name: "F", Timestamp: reset + uint64(30*time.Millisecond), Repeat: true}, KeyPress{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pressSince(tt.ev, reset)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A key held through the previous trial keeps auto-repeating; only a new
// press after release may end the next trial.
func TestPressSinceIgnoresHeldKeyAcrossReset(t *testing.T) {
	const reset = uint64(4 * time.Second)

	var presses []KeyPress
	for _, ev := range []keyEvent{
		{Name: "F", Timestamp: uint64(500 * time.Millisecond)},
		{Name: "F", Timestamp: uint64(time.Second), Repeat: true},
		{Name: "F", Timestamp: reset + uint64(10*time.Millisecond), Repeat: true},
		{Name: "F", Timestamp: reset + uint64(40*time.Millisecond), Repeat: true},
		{Name: "F", Timestamp: reset + uint64(800*time.Millisecond)},
	} {
		if p, ok := pressSince(ev, reset); ok {
			presses = append(presses, p)
		}
	}

	require.Len(t, presses, 1)
	assert.Equal(t, 800*time.Millisecond, presses[0].RT)
}

func TestSplitPressesIgnoresOtherKeys(t *testing.T) {
	presses := []KeyPress{
		{Key: "space", RT: 100 * time.Millisecond},
		{Key: "k", RT: 200 * time.Millisecond},
		{Key: "j", RT: 300 * time.Millisecond},
		{Key: "escape", RT: 400 * time.Millisecond},
		{Key: "f", RT: 500 * time.Millisecond},
	}

	matched, rest := splitPresses(presses, []string{"f", "j"})
	assert.Equal(t, []KeyPress{
		{Key: "j", RT: 300 * time.Millisecond},
		{Key: "f", RT: 500 * time.Millisecond},
	}, matched)
	assert.Len(t, rest, 3)

	matched, rest = splitPresses(rest, []string{"f", "j"})
	assert.Empty(t, matched)
	assert.Len(t, rest, 3)
}

func TestScreenLayoutFollowsWindowSize(t *testing.T) {
	for _, size := range [][2]float32{{1200, 900}, {1920, 1080}, {2560, 1440}} {
		s := &Screen{w: size[0], h: size[1]}

		x, y := s.toPixels(0, 0)
		assert.Equal(t, size[0]/2, x)
		assert.Equal(t, size[1]/2, y)

		start := s.StartRegion()
		assert.InDelta(t, size[0]/2, start.X+start.W/2, 0.01)
		assert.InDelta(t, size[1]*0.75, start.Y+start.H/2, 0.01)
	}
}
