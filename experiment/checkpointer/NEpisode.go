package checkpointer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	ts "github.com/samuelfneumann/gotabular/timestep"
)

var log = logrus.WithField("component", "checkpointer")

// nEpisode implements checkpointing every N episodes
type nEpisode struct {
	interval int
	episodes int
	object   Saver // Object to save

	// filename returns the name to save the object under.
	//
	// If each checkpoint should be saved separately with an
	// incremented number as a suffix (e.g. q1.bin, q2.bin, ...,
	// qK.bin), then use FilenameEnumerator. If the name does not
	// matter beyond being unique, use FileTimer:
	//
	// n := NewNEpisode(10, q, FileTimer("q", ".bin"))
	filename func() string
}

// NewNEpisode returns a checkpointer that saves object at the end of
// every n'th episode
func NewNEpisode(n int, object Saver, filename func() string) Checkpointer {
	if n <= 0 {
		panic(fmt.Sprintf("newNEpisode: interval must be positive, got %d", n))
	}
	return &nEpisode{
		interval: n,
		object:   object,
		filename: filename,
	}
}

// Checkpoint counts finished episodes and saves the tracked object at
// the end of every n'th episode
func (n *nEpisode) Checkpoint(t ts.TimeStep) error {
	if !t.Last() {
		return nil
	}

	n.episodes++
	if n.episodes%n.interval != 0 {
		return nil
	}

	name := n.filename()
	if err := n.object.Save(name); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	log.WithFields(logrus.Fields{
		"episode": n.episodes,
		"name":    name,
	}).Debug("checkpoint saved")
	return nil
}
