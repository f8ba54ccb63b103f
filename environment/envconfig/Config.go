// Package envconfig provides configuration structs for configuring
// environments with their default layouts and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/environment/blackjack"
	"github.com/samuelfneumann/gotabular/environment/gridworld"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	WindyGridWorld EnvName = "WindyGridWorld"
	CliffWalk      EnvName = "CliffWalk"
	Blackjack      EnvName = "Blackjack"
)

// Config implements a specific configuration of a specific environment.
//
// EpisodeCutoff and RandomStart are ignored by Blackjack, whose games
// always end, and ResetOnCliff is only used by CliffWalk. If
// RandomStart is set, gridworld episodes start in a uniformly random
// open cell rather than the start of the layout.
type Config struct {
	Environment   EnvName
	EpisodeCutoff uint
	Discount      float64
	ResetOnCliff  bool
	RandomStart   bool `json:",omitempty"`
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, episodeCutoff uint, discount float64,
	resetOnCliff bool) Config {
	return Config{
		Environment:   envName,
		EpisodeCutoff: episodeCutoff,
		Discount:      discount,
		ResetOnCliff:  resetOnCliff,
	}
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	switch c.Environment {
	case WindyGridWorld, CliffWalk, Blackjack:
	default:
		return fmt.Errorf("no such environment %q", c.Environment)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount %v not in [0, 1]", c.Discount)
	}
	if c.Environment == Blackjack && c.Discount != 1 {
		return fmt.Errorf("blackjack is undiscounted, got discount %v",
			c.Discount)
	}
	return nil
}

// RewardsAtEnd returns whether the environment only gives a reward on
// the last step of each episode
func (c Config) RewardsAtEnd() bool {
	return c.Environment == Blackjack
}

// Create returns the environment described by the Config. The seed is
// only used by stochastic environments and random starts.
func (c Config) Create(seed uint64) (env.Environment, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	var (
		g   *gridworld.GridWorld
		err error
	)
	switch c.Environment {
	case WindyGridWorld:
		g, err = gridworld.NewWindy(c.Discount,
			gridworld.WithStepLimit(int(c.EpisodeCutoff)))

	case CliffWalk:
		g, err = gridworld.NewCliffWalk(c.Discount, c.ResetOnCliff,
			gridworld.WithStepLimit(int(c.EpisodeCutoff)))

	case Blackjack:
		return blackjack.New(seed), nil

	default:
		panic(fmt.Sprintf("create: cannot create environment %v, no such "+
			"environment", c.Environment))
	}

	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	if c.RandomStart {
		g.StartAnywhere(seed)
	}
	return g, nil
}
