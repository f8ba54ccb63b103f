package agent

import (
	"github.com/samuelfneumann/gotabular/environment"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment, seed uint64) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}

// ConfigList is a list of Configs. Instead of storing a slice of
// Configs, a ConfigList stores a slice of values for each field and
// describes every combination of field values.
type ConfigList interface {
	// Config returns an empty Config of the type stored by the list
	Config() Config

	// Type returns the type of agent created by Configs in the list
	Type() Type

	// NumFields returns the number of settable fields
	NumFields() int

	// Len returns the number of Configs in the list
	Len() int
}

// PolicyType represents a type of distribution that a policy could be
type PolicyType string

const (
	EGreedy PolicyType = "EGreedy"
	Greedy  PolicyType = "Greedy"
)
