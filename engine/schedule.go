package engine

import "github.com/rotisserie/eris"

// Shuffler draws uniform random permutations. *rand.Rand from math/rand/v2
// satisfies it.
type Shuffler interface {
	Perm(n int) []int
}

// counterbalance is the base placement pattern, cycled to the trial count
// before shuffling.
var counterbalance = []Position{PositionOneTwo, PositionOneTwo, PositionTwoOne, PositionTwoOne}

// Schedule fixes the presentation order and the placement of every trial
// slot for one session. It is read-only once built.
type Schedule struct {
	Order     []int
	Positions []Position
}

func NewSchedule(n int, s Shuffler) (Schedule, error) {
	if n <= 0 {
		return Schedule{}, eris.Errorf("schedule: trial count must be positive, got %d", n)
	}

	order := s.Perm(n)

	base := make([]Position, n)
	for i := range base {
		base[i] = counterbalance[i%len(counterbalance)]
	}
	positions := make([]Position, n)
	for i, j := range s.Perm(n) {
		positions[i] = base[j]
	}

	return Schedule{Order: order, Positions: positions}, nil
}

func (s Schedule) Len() int {
	return len(s.Order)
}
