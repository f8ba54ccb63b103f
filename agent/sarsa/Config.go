package sarsa

import (
	"fmt"
	"reflect"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/environment"
)

func init() {
	// Register ConfigList type so that it can be typed using
	// agent.TypedConfigList to help with serialization/deserialization.
	agent.Register(agent.EGreedySarsaTabular, ConfigList{})
}

// ConfigList implements functionality for storing a number of Config's
// in a simple manner. Instead of storing a slice of Configs, the
// ConfigList stores each field's values and constructs the list by
// every combination of field values.
type ConfigList struct {
	Epsilon       []float64
	LearningRate  []float64
	Decay         []policy.Decay
	DecayEpisodes []int
}

// NewConfigList returns a new ConfigList as an agent.TypedConfigList
// so that it can easily be JSON serialized/deserialized without
// knowing the underlying concrete type.
func NewConfigList(ɛ, learningRate []float64, decay []policy.Decay,
	decayEpisodes []int) agent.TypedConfigList {
	config := ConfigList{
		Epsilon:       ɛ,
		LearningRate:  learningRate,
		Decay:         decay,
		DecayEpisodes: decayEpisodes,
	}
	return agent.NewTypedConfigList(config)
}

// Config returns an empty Config that is of the type stored by
// ConfigList
func (c ConfigList) Config() agent.Config {
	return Config{}
}

// Type returns the type of agent that can be constructed by Config's
// stored by the list
func (c ConfigList) Type() agent.Type {
	return c.Config().Type()
}

// NumFields returns the number of settable fields for the ConfigList
func (c ConfigList) NumFields() int {
	rValue := reflect.ValueOf(c)
	return rValue.NumField()
}

// Len returns the number of Configs stored by the list
func (c ConfigList) Len() int {
	return len(c.Epsilon) * len(c.LearningRate) * len(c.Decay) *
		len(c.DecayEpisodes)
}

// Config represents a configuration for the Sarsa agent
type Config struct {
	Epsilon       float64 // initial epsilon of the ε-greedy policy
	LearningRate  float64
	Decay         policy.Decay // how epsilon decays over episodes
	DecayEpisodes int          // only used by linear decay
}

// CreateAgent creates the agent from the Config. Action values are
// always initialized to zero.
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, c, seed)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*Sarsa)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("epsilon must be in [0, 1]")
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return fmt.Errorf("learning rate must be in (0, 1]")
	}
	if _, err := c.Schedule(); err != nil {
		return err
	}
	return nil
}

// Schedule returns the exploration schedule described by the Config
func (c Config) Schedule() (policy.Schedule, error) {
	return policy.NewSchedule(c.Decay, c.Epsilon, c.DecayEpisodes)
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.EGreedySarsaTabular
}
