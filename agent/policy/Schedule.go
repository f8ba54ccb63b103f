package policy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/gotabular/utils/floatutils"
)

// Decay names an exploration schedule
type Decay string

const (
	NoDecay         Decay = ""
	InverseDecay    Decay = "inverse"
	LogInverseDecay Decay = "log-inverse"
	LinearDecay     Decay = "linear"
)

// Schedule determines the exploration rate to use on each episode
type Schedule interface {
	// At returns the exploration rate of episode k, counting from 0
	At(k int) float64
}

// NewSchedule returns the Schedule named by decay, starting at the
// exploration rate e. Linear schedules decay to 0 over episodes
// episodes, all other schedules ignore episodes.
func NewSchedule(decay Decay, e float64, episodes int) (Schedule, error) {
	if err := checkEpsilon(e); err != nil {
		return nil, fmt.Errorf("newSchedule: %w", err)
	}

	switch decay {
	case NoDecay:
		return Constant(e), nil

	case InverseDecay:
		return Inverse{Max: e}, nil

	case LogInverseDecay:
		return LogInverse{Max: e}, nil

	case LinearDecay:
		if episodes <= 0 {
			return nil, fmt.Errorf("newSchedule: linear decay needs a "+
				"positive number of episodes, got %d", episodes)
		}
		return Linear{Start: e, End: 0, Episodes: episodes}, nil
	}

	return nil, fmt.Errorf("newSchedule: no such decay %q", decay)
}

// Constant never decays
type Constant float64

// At returns the constant exploration rate
func (c Constant) At(int) float64 {
	return float64(c)
}

// Inverse decays as 1 / (1 + k), never exceeding Max
type Inverse struct {
	Max float64
}

// At returns the exploration rate of episode k
func (i Inverse) At(k int) float64 {
	return floatutils.ClipInterval(1.0/(1.0+float64(k)),
		r1.Interval{Min: 0, Max: i.Max})
}

// LogInverse decays as 1 / (1 + 4 log10(1 + k)), never exceeding Max
type LogInverse struct {
	Max float64
}

// At returns the exploration rate of episode k
func (l LogInverse) At(k int) float64 {
	e := 1.0 / (1.0 + 4*math.Log10(1+float64(k)))
	return floatutils.ClipInterval(e, r1.Interval{Min: 0, Max: l.Max})
}

// Linear decays linearly from Start to End over Episodes episodes and
// stays at End afterwards
type Linear struct {
	Start, End float64
	Episodes   int
}

// At returns the exploration rate of episode k
func (l Linear) At(k int) float64 {
	frac := floatutils.Clip(float64(k)/float64(l.Episodes), 0, 1)
	return l.Start + frac*(l.End-l.Start)
}
