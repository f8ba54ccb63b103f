package policy

import "fmt"

// Scheduled is an EGreedy policy whose exploration rate follows a
// Schedule, advanced once per episode
type Scheduled struct {
	*EGreedy
	schedule Schedule
	episode  int
}

// NewScheduled returns a new Scheduled policy, setting the exploration
// rate of p to that of the first episode of the schedule
func NewScheduled(p *EGreedy, s Schedule) (*Scheduled, error) {
	if err := p.SetEpsilon(s.At(0)); err != nil {
		return nil, fmt.Errorf("newScheduled: %w", err)
	}
	return &Scheduled{EGreedy: p, schedule: s}, nil
}

// NextEpisode advances the schedule by one episode
func (s *Scheduled) NextEpisode() error {
	s.episode++
	if err := s.SetEpsilon(s.schedule.At(s.episode)); err != nil {
		return fmt.Errorf("nextEpisode: %w", err)
	}
	return nil
}

// Episode returns the number of episodes the schedule has advanced
func (s *Scheduled) Episode() int {
	return s.episode
}

// Restart returns the schedule to its first episode
func (s *Scheduled) Restart() error {
	s.episode = 0
	return s.SetEpsilon(s.schedule.At(0))
}
