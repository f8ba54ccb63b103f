// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/montecarlo"
	"github.com/samuelfneumann/gotabular/environment/blackjack"
	"github.com/samuelfneumann/gotabular/environment/envconfig"
	"github.com/samuelfneumann/gotabular/experiment/checkpointer"
	"github.com/samuelfneumann/gotabular/experiment/tracker"
	"github.com/samuelfneumann/gotabular/utils/seeds"
)

// Experiment outlines structs that can run experiments. The Run()
// method runs episodes until the maximum number of episodes is
// reached or the context is cancelled. The RunEpisode() method runs a
// single episode.
//
// Data is tracked with Trackers. Experiments send each TimeStep to
// Trackers using the Tracker's Track() method, and the Tracker decides
// which data it caches and saves. New Trackers can be registered with
// an Experiment through the constructor or through Register().
type Experiment interface {
	Run(ctx context.Context) error
	RunEpisode(ctx context.Context) (EpisodeStats, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)

	// Agent returns the agent being trained
	Agent() agent.Agent
}

// Type is the type of an Experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment.
type Config struct {
	Type
	MaxEpisodes uint
	EnvConf     envconfig.Config
	AgentConf   agent.TypedConfigList
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Type != OnlineExp {
		return fmt.Errorf("no such experiment type %q", c.Type)
	}
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if c.AgentConf.ConfigList == nil || c.AgentConf.Len() == 0 {
		return fmt.Errorf("no agent configurations")
	}
	if c.AgentConf.Type == agent.EGreedyMonteCarloTabular &&
		!c.EnvConf.RewardsAtEnd() {
		return fmt.Errorf("%v cannot learn %v: %w", c.AgentConf.Type,
			c.EnvConf.Environment, montecarlo.ErrIntermediateReward)
	}
	for i, config := range agent.Configs(c.AgentConf.ConfigList) {
		if err := config.Validate(); err != nil {
			return fmt.Errorf("agent config %d: %w", i, err)
		}
	}
	return nil
}

// CreateExp creates the experiment which trains the i'th agent
// configuration. Agents playing blackjack are wrapped so that they
// take the forced actions of the game.
func (c Config) CreateExp(i int, seed uint64, t []tracker.Tracker,
	check []checkpointer.Checkpointer) (Experiment, error) {
	env, err := c.EnvConf.Create(seeds.Derive(seed, seeds.Environment))
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create "+
			"environment: %w", err)
	}

	a, err := c.AgentConf.At(i).CreateAgent(env,
		seeds.Derive(seed, seeds.Agent))
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create agent: %w", err)
	}
	if c.EnvConf.Environment == envconfig.Blackjack {
		a = blackjack.NewPlayer(a)
	}

	switch c.Type {
	case OnlineExp:
		return NewOnline(env, a, c.MaxEpisodes, t, check), nil
	}

	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}
