package experiment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/table"
)

// Parallel trains independent copies of an agent concurrently. Each
// worker owns its environment, agent, and table, and seeds them with
// its own seed. Tables are merged only once every worker is done.
type Parallel struct {
	config  Config
	index   int
	seeds   []uint64
	outputs []*Output
	results []*table.ActionValues
}

// NewParallel returns a Parallel which trains len(seeds) copies of the
// agent described by the i'th configuration of c
func NewParallel(c Config, i int, seeds ...uint64) *Parallel {
	if len(seeds) == 0 {
		panic("newParallel: at least one worker is needed")
	}
	return &Parallel{
		config:  c,
		index:   i,
		seeds:   seeds,
		results: make([]*table.ActionValues, len(seeds)),
	}
}

// Workers returns the number of workers
func (p *Parallel) Workers() int {
	return len(p.seeds)
}

// Report sends the status of each worker to the outputs of printer
func (p *Parallel) Report(printer *Printer) {
	p.outputs = make([]*Output, len(p.seeds))
	for i := range p.outputs {
		p.outputs[i] = printer.NewOutput()
	}
}

// Run runs every worker to completion and returns the merged table.
// The first error of any worker cancels the others and is returned.
func (p *Parallel) Run(ctx context.Context) (*table.ActionValues, error) {
	g, ctx := errgroup.WithContext(ctx)

	for w, seed := range p.seeds {
		w, seed := w, seed
		g.Go(func() error {
			q, err := p.work(ctx, w, seed)
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			p.results[w] = q
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"workers": len(p.seeds),
	}).Debug("merging tables")
	return table.Merge(p.results...), nil
}

// Tables returns the table trained by each worker after Run
func (p *Parallel) Tables() []*table.ActionValues {
	return p.results
}

func (p *Parallel) work(ctx context.Context, w int,
	seed uint64) (*table.ActionValues, error) {
	exp, err := p.config.CreateExp(p.index, seed, nil, nil)
	if err != nil {
		return nil, err
	}
	tab, ok := agent.AsTabular(exp.Agent())
	if !ok {
		return nil, fmt.Errorf("agent %T has no table", exp.Agent())
	}

	if p.outputs != nil {
		if online, ok := exp.(*Online); ok {
			out := p.outputs[w]
			max := p.config.MaxEpisodes
			online.Notify(func(s EpisodeStats) {
				out.TrySet(fmt.Sprintf("worker %d (seed %d): episode %d/%d "+
					"return %.2f ɛ %.3f", w, seed, s.Episode, max, s.Return,
					s.Epsilon))
			})
		}
	}

	if err := exp.Run(ctx); err != nil {
		return nil, err
	}
	if p.outputs != nil {
		p.outputs[w].Set(fmt.Sprintf("worker %d (seed %d): done, %d states",
			w, seed, len(tab.Table().States())))
	}
	return tab.Table(), nil
}
