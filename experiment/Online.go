package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/gotabular/agent"
	env "github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/experiment/checkpointer"
	"github.com/samuelfneumann/gotabular/experiment/tracker"
	"github.com/samuelfneumann/gotabular/expreplay"
	ts "github.com/samuelfneumann/gotabular/timestep"
)

var log = logrus.WithField("component", "experiment")

// Phase is the phase of an episode within an Online experiment
type Phase int

const (
	Idle Phase = iota
	Running
	Terminal
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "Running"
	case Terminal:
		return "Terminal"
	}
	return "Idle"
}

// EpisodeStats summarizes a finished episode
type EpisodeStats struct {
	Episode  int     // counting from 1
	Steps    int
	Return   float64
	Epsilon  float64 // exploration rate used during the episode
	TimedOut bool
	Replayed int // transitions replayed after the episode
}

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed. If the agent is in evaluation mode, it acts
// but does not learn.
type Online struct {
	env.Environment
	agent         agent.Agent
	maxEpisodes   uint
	episodes      uint
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	memory        *expreplay.Memory
	replayer      agent.Replayer
	batches       int
	replayed      int
	phase         Phase
	notify        func(EpisodeStats)
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The maxEpisodes parameter determines
// how many episodes the experiment is run for, where 0 runs until the
// context passed to Run is cancelled. The t parameter is a slice of
// tracker.Tracker which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent, maxEpisodes uint,
	t []tracker.Tracker, c []checkpointer.Checkpointer) *Online {
	return &Online{
		Environment:   e,
		agent:         a,
		maxEpisodes:   maxEpisodes,
		trackers:      t,
		checkpointers: c,
	}
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// AddCheckpointer adds a checkpointer.Checkpointer which is passed the
// last TimeStep of every episode
func (o *Online) AddCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// Remember records every transition of the experiment in m
func (o *Online) Remember(m *expreplay.Memory) {
	o.memory = m
}

// Replay replays batches batches sampled from the memory set by
// Remember after every episode in which the agent learns. The agent
// must be able to learn from stored transitions.
func (o *Online) Replay(batches int) error {
	if batches < 0 {
		return fmt.Errorf("replay: negative number of batches %d", batches)
	}
	if o.memory == nil {
		return fmt.Errorf("replay: no memory to replay from")
	}
	r, ok := agent.AsReplayer(o.agent)
	if !ok {
		return fmt.Errorf("replay: agent %T cannot learn from stored "+
			"transitions", o.agent)
	}
	o.replayer = r
	o.batches = batches
	return nil
}

// Notify sets a function to be called with the statistics of every
// finished episode
func (o *Online) Notify(f func(EpisodeStats)) {
	o.notify = f
}

// Agent returns the agent of the experiment
func (o *Online) Agent() agent.Agent {
	return o.agent
}

// Phase returns the phase of the current episode
func (o *Online) Phase() Phase {
	return o.phase
}

// Replayed returns the number of transitions replayed so far
func (o *Online) Replayed() int {
	return o.replayed
}

// Episodes returns the number of episodes which have finished
func (o *Online) Episodes() int {
	return int(o.episodes)
}

// RunEpisode runs a single episode of the experiment. Any error from
// the environment or the agent aborts the episode and is returned.
func (o *Online) RunEpisode(ctx context.Context) (EpisodeStats, error) {
	if err := ctx.Err(); err != nil {
		return EpisodeStats{}, err
	}

	stats := EpisodeStats{Episode: int(o.episodes) + 1}
	if t, ok := agent.AsTabular(o.agent); ok {
		stats.Epsilon = t.Epsilon()
	}
	learn := !o.agent.IsEval()

	o.phase = Running
	step, err := o.Environment.Reset()
	if err != nil {
		o.phase = Idle
		return stats, fmt.Errorf("runEpisode: reset: %w", err)
	}
	if learn {
		if err := o.agent.ObserveFirst(step); err != nil {
			o.phase = Idle
			return stats, fmt.Errorf("runEpisode: %w", err)
		}
	}
	o.track(step)

	for !step.Last() {
		action := o.agent.SelectAction(step)
		next, _, err := o.Environment.Step(action)
		if err != nil {
			o.phase = Idle
			return stats, fmt.Errorf("runEpisode: step %d: %w",
				step.Number, err)
		}

		if o.memory != nil {
			o.memory.Add(env.NewTransition(step, action, next))
		}
		o.track(next)

		if learn {
			if err := o.agent.Observe(action, next); err != nil {
				o.phase = Idle
				return stats, fmt.Errorf("runEpisode: %w", err)
			}
			if err := o.agent.Step(); err != nil {
				o.phase = Idle
				return stats, fmt.Errorf("runEpisode: %w", err)
			}
		}

		stats.Return += next.Reward
		step = next
	}

	if learn {
		if err := o.agent.EndEpisode(); err != nil {
			o.phase = Idle
			return stats, fmt.Errorf("runEpisode: %w", err)
		}
		stats.Replayed, err = o.replay()
		o.replayed += stats.Replayed
		if err != nil {
			o.phase = Idle
			return stats, fmt.Errorf("runEpisode: %w", err)
		}
	}
	o.phase = Terminal
	o.episodes++

	stats.Steps = step.Number
	stats.TimedOut = step.TimedOut()
	if err := o.checkpoint(step); err != nil {
		return stats, fmt.Errorf("runEpisode: %w", err)
	}

	log.WithFields(logrus.Fields{
		"episode":  stats.Episode,
		"steps":    stats.Steps,
		"return":   stats.Return,
		"epsilon":  stats.Epsilon,
		"replayed": stats.Replayed,
	}).Trace("episode finished")
	if o.notify != nil {
		o.notify(stats)
	}
	return stats, nil
}

// Run runs the experiment until the maximum number of episodes have
// finished. The context is checked between episodes.
func (o *Online) Run(ctx context.Context) error {
	for o.maxEpisodes == 0 || o.episodes < o.maxEpisodes {
		if _, err := o.RunEpisode(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// replay replays the configured number of batches and returns the
// number of transitions replayed. Nothing is replayed until the memory
// holds a full batch.
func (o *Online) replay() (int, error) {
	if o.replayer == nil {
		return 0, nil
	}
	n := 0
	for i := 0; i < o.batches; i++ {
		batch, err := o.memory.Sample()
		if errors.Is(err, expreplay.ErrInsufficientSamples) {
			log.WithError(err).Debug("skipping replay")
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("replay: %w", err)
		}

		for _, t := range batch {
			if err := o.replayer.Replay(t); err != nil {
				return n, fmt.Errorf("replay: %w", err)
			}
		}
		n += len(batch)
	}
	return n, nil
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

// checkpoint passes the current timestep to each Checkpointer
func (o *Online) checkpoint(t ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}
