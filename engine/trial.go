package engine

import (
	"strconv"
	"time"
)

type Side int

const (
	SideCity1 Side = iota
	SideCity2
)

func (s Side) String() string {
	if s == SideCity1 {
		return "city_1"
	}
	return "city_2"
}

// Position is the left/right placement of the two cities on screen.
type Position int

const (
	PositionOneTwo Position = iota // city 1 left, city 2 right
	PositionTwoOne                 // city 2 left, city 1 right
)

func (p Position) String() string {
	if p == PositionOneTwo {
		return "one_two"
	}
	return "two_one"
}

// Slot is a physical screen location, as opposed to a Side.
type Slot int

const (
	SlotNone Slot = iota
	SlotLeft
	SlotRight
)

type Trial struct {
	City1       string `csv:"city_1"`
	City2       string `csv:"city_2"`
	Population1 int64  `csv:"population_1"`
	Population2 int64  `csv:"population_2"`
}

// CorrectSide reports which city has the strictly larger population.
// Equal populations resolve to city 2.
func (t Trial) CorrectSide() Side {
	if t.Population1 > t.Population2 {
		return SideCity1
	}
	return SideCity2
}

// Layout returns the city names in left, right order.
func (t Trial) Layout(p Position) (left, right string) {
	if p == PositionOneTwo {
		return t.City1, t.City2
	}
	return t.City2, t.City1
}

// ChosenSide maps the slot of the pressed key onto a city for the given layout.
func ChosenSide(p Position, slot Slot) Side {
	switch {
	case p == PositionOneTwo && slot == SlotLeft:
		return SideCity1
	case p == PositionOneTwo:
		return SideCity2
	case slot == SlotLeft:
		return SideCity2
	default:
		return SideCity1
	}
}

type Response struct {
	Key    string
	Slot   Slot
	RT     time.Duration
	Chosen Side
}

const (
	ResultCorrect = "correct"
	ResultWrong   = "wrong"
)

// Record is one persisted outcome row. It is written once and never mutated.
type Record struct {
	SubjectID   string
	Trial       int
	City1       string
	City2       string
	Population1 int64
	Population2 int64
	Choice      Side
	Answer      Side
	RT          time.Duration
	Key         string
	Position    Position
}

func (r Record) Correct() bool {
	return r.Choice == r.Answer
}

func (r Record) Result() string {
	if r.Correct() {
		return ResultCorrect
	}
	return ResultWrong
}

var RecordHeader = []string{
	"subj_id", "trial", "city_1", "city_2",
	"population_1", "population_2", "choice",
	"correct_answer", "result", "rt", "key", "pos",
}

// Fields renders the record in RecordHeader column order.
func (r Record) Fields() []string {
	return []string{
		r.SubjectID,
		strconv.Itoa(r.Trial),
		r.City1,
		r.City2,
		strconv.FormatInt(r.Population1, 10),
		strconv.FormatInt(r.Population2, 10),
		r.Choice.String(),
		r.Answer.String(),
		r.Result(),
		strconv.FormatFloat(r.RT.Seconds(), 'f', 6, 64),
		r.Key,
		r.Position.String(),
	}
}
