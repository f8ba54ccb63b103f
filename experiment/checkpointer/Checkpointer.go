// Package checkpointer implements checkpointing of learned tables
// during an experiment
package checkpointer

import (
	ts "github.com/samuelfneumann/gotabular/timestep"
)

// Saver is an object that can be saved under a name
type Saver interface {
	Save(name string) error
}

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
