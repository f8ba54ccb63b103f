package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/environment/envconfig"
	"github.com/samuelfneumann/gotabular/environment/gridworld"
	"github.com/samuelfneumann/gotabular/experiment"
	"github.com/samuelfneumann/gotabular/experiment/checkpointer"
	"github.com/samuelfneumann/gotabular/experiment/tracker"
	"github.com/samuelfneumann/gotabular/expreplay"
	"github.com/samuelfneumann/gotabular/store"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/utils/progressbar"
	"github.com/samuelfneumann/gotabular/utils/seeds"
)

var (
	seedKey       = "seed"
	workersKey    = "workers"
	indexKey      = "index"
	storeKey      = "store"
	nameKey       = "name"
	checkpointKey = "checkpoint"
	dataDirKey    = "data-dir"
	progressKey   = "progress"

	replayKey         = "replay"
	replayMethodKey   = "replay-method"
	replayBatchKey    = "replay-batch"
	replayCapacityKey = "replay-capacity"
)

var trainViper *viper.Viper

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a tabular agent on a gridworld or blackjack",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfigFile(trainViper); err != nil {
			return err
		}
		c, err := experimentConfig(trainViper)
		if err != nil {
			return err
		}

		if trainViper.GetInt(workersKey) > 1 {
			if trainViper.GetInt(replayKey) > 0 {
				return fmt.Errorf("cannot replay with parallel workers")
			}
			return trainParallel(cmd, trainViper, c)
		}
		return train(cmd, trainViper, c)
	},
}

func init() {
	addExperimentFlags(trainCmd)
	addRunFlags(trainCmd)
	trainCmd.Flags().Int(workersKey, 1, "Number of independent agents "+
		"trained in parallel and merged")
	trainCmd.Flags().Int(indexKey, 0, "Index of the agent configuration "+
		"to train in an experiment file")
	trainCmd.Flags().String(dataDirKey, "", "Directory to save the "+
		"returns and episode lengths to")
	addReplayFlags(trainCmd)
	trainViper = newCommandViper(trainCmd)
}

// addReplayFlags adds the flags which configure experience replay
func addReplayFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Int(replayKey, 0, "Batches of stored transitions replayed "+
		"after each episode, q-learning only")
	flags.String(replayMethodKey, string(expreplay.Uniform), fmt.Sprintf(
		"How replayed transitions are sampled as one of %v",
		[]expreplay.SelectorType{expreplay.Uniform,
			expreplay.UniformWithoutReplacement, expreplay.Fifo}))
	flags.Int(replayBatchKey, 8, "Transitions per replayed batch")
	flags.Int(replayCapacityKey, 100_000, "Transitions stored for replay")
}

// addRunFlags adds the flags which control how training is run and
// where its results are stored
func addRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Uint64(seedKey, 1, "Seed of the agent and environment")
	flags.String(storeKey, "", "Database to save the learned table to")
	flags.String(nameKey, "", "Name of the saved table, defaults to "+
		"the agent and environment")
	flags.Int(checkpointKey, 0, "Save the table every n episodes, 0 to "+
		"save only when training ends")
	flags.Bool(progressKey, true, "Display a progress bar")
}

// tableName returns the name under which a table is saved
func tableName(v *viper.Viper, c experiment.Config) string {
	if name := v.GetString(nameKey); name != "" {
		return name
	}
	return fmt.Sprintf("%v/%v", c.AgentConf.Type, c.EnvConf.Environment)
}

// train trains a single agent online
func train(cmd *cobra.Command, v *viper.Viper, c experiment.Config) error {
	out := cmd.OutOrStdout()
	seed := v.GetUint64(seedKey)

	returns := tracker.NewReturn(dataFile(v, "returns.bin"))
	lengths := tracker.NewEpisodeLength(dataFile(v, "lengths.bin"))
	trackers := []tracker.Tracker{returns, lengths}
	var outcomes *tracker.Outcome
	if c.EnvConf.Environment == envconfig.Blackjack {
		outcomes = tracker.NewOutcome(dataFile(v, "outcomes.bin"))
		trackers = append(trackers, outcomes)
	}

	exp, err := c.CreateExp(v.GetInt(indexKey), seed, trackers, nil)
	if err != nil {
		return err
	}
	online := exp.(*experiment.Online)

	tab, ok := agent.AsTabular(exp.Agent())
	if !ok {
		return fmt.Errorf("agent %T has no table", exp.Agent())
	}

	db, err := openStore(v)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	meta := func() store.Metadata {
		return store.Metadata{
			Agent:       string(c.AgentConf.Type),
			Environment: string(c.EnvConf.Environment),
			Episodes:    online.Episodes(),
			Seed:        seed,
		}
	}
	if db != nil && v.GetInt(checkpointKey) > 0 {
		name := tableName(v, c)
		online.AddCheckpointer(checkpointer.NewNEpisode(
			v.GetInt(checkpointKey),
			db.Saver(tab.Table(), meta),
			func() string { return name },
		))
	}

	memory, err := expreplay.Config{
		SampleMethod: expreplay.SelectorType(v.GetString(replayMethodKey)),
		SampleSize:   v.GetInt(replayBatchKey),
		MaxCapacity:  v.GetInt(replayCapacityKey),
	}.Create(seeds.Derive(seed, seeds.Replay))
	if err != nil {
		return err
	}
	online.Remember(memory)
	if n := v.GetInt(replayKey); n > 0 {
		if err := online.Replay(n); err != nil {
			return err
		}
	}

	if v.GetBool(progressKey) && c.MaxEpisodes > 0 {
		bar := progressbar.NewManualProgressBar(cmd.ErrOrStderr(), 40,
			int(c.MaxEpisodes), "episodes")
		online.Notify(func(experiment.EpisodeStats) {
			bar.Increment()
			bar.Display()
		})
		defer bar.Close()
	}

	start := time.Now()
	if err := exp.Run(cmd.Context()); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"episodes": online.Episodes(),
		"elapsed":  time.Since(start).Truncate(time.Millisecond),
	}).Info("training finished")

	if v.GetString(dataDirKey) != "" {
		if err := exp.Save(); err != nil {
			return err
		}
	}

	writeSummary(out, map[string][]float64{
		"Return":         returns.Data(),
		"Episode length": lengths.Data(),
	})
	if outcomes != nil {
		fmt.Fprintln(out, outcomes)
	}

	if n := online.Replayed(); n > 0 {
		fmt.Fprintf(out, "Replayed %v transitions\n", humanize.Comma(int64(n)))
	}

	last := memory.LastEpisode()
	fmt.Fprintf(out, "Last episode: %v steps, %v\n",
		humanize.Comma(int64(len(last))), describeEpisode(last))
	render(out, online.Environment, tab.Table())

	if db != nil {
		return save(db, tableName(v, c), tab.Table(), meta())
	}
	return nil
}

// trainParallel trains independent agents concurrently and merges their
// tables
func trainParallel(cmd *cobra.Command, v *viper.Viper,
	c experiment.Config) error {
	out := cmd.OutOrStdout()
	seed := v.GetUint64(seedKey)

	p := experiment.NewParallel(c, v.GetInt(indexKey),
		seeds.Workers(seed, v.GetInt(workersKey))...)

	if v.GetBool(progressKey) {
		printer := experiment.NewPrinter(cmd.ErrOrStderr(),
			100*time.Millisecond)
		p.Report(printer)
		printer.Start(cmd.Context())
		defer printer.Stop()
	}

	merged, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	e, err := c.EnvConf.Create(seed)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Merged %v tables into %v entries\n", p.Workers(),
		humanize.Comma(int64(merged.Len())))
	render(out, e, merged)

	db, err := openStore(v)
	if err != nil || db == nil {
		return err
	}
	defer db.Close()
	return save(db, tableName(v, c), merged, store.Metadata{
		Agent:       string(c.AgentConf.Type),
		Environment: string(c.EnvConf.Environment),
		Episodes:    int(c.MaxEpisodes) * p.Workers(),
		Seed:        seed,
	})
}

func dataFile(v *viper.Viper, name string) string {
	dir := v.GetString(dataDirKey)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, name)
}

// openStore opens the database named by --store, returning nil if
// there is none
func openStore(v *viper.Viper) (*store.DB, error) {
	path := v.GetString(storeKey)
	if path == "" {
		return nil, nil
	}
	return store.Open(path)
}

func save(db *store.DB, name string, q *table.ActionValues,
	meta store.Metadata) error {
	if err := db.Put(name, q, meta); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"name":  name,
		"store": db.Path(),
	}).Info("saved table")
	return nil
}

// writeSummary writes a table summarizing each named series of data
func writeSummary(w io.Writer, data map[string][]float64) {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Metric", "Episodes", "Mean", "Std", "Min", "Max",
		"Last"})
	for _, name := range names {
		s := tracker.Summarize(data[name])
		last := 0.0
		if n := len(data[name]); n > 0 {
			last = data[name][n-1]
		}
		t.Append([]string{
			name,
			humanize.Comma(int64(s.N)),
			humanize.FtoaWithDigits(s.Mean, 2),
			humanize.FtoaWithDigits(s.Std, 2),
			humanize.FtoaWithDigits(s.Min, 2),
			humanize.FtoaWithDigits(s.Max, 2),
			humanize.FtoaWithDigits(last, 2),
		})
	}
	t.Render()
}

// describeEpisode lists the states visited in an episode
func describeEpisode(transitions []environment.Transition) string {
	if len(transitions) == 0 {
		return "no transitions"
	}
	states := make([]string, 0, len(transitions)+1)
	states = append(states, string(transitions[0].State.Key()))
	for _, t := range transitions {
		states = append(states, string(t.NextState.Key()))
	}
	return strings.Join(states, " -> ")
}

// render prints the greedy policy of q on e when e can be drawn
func render(w io.Writer, e environment.Environment, q *table.ActionValues) {
	switch e := e.(type) {
	case *gridworld.GridWorld:
		fmt.Fprintf(w, "Greedy policy:\n%v", e.RenderPolicy(q))
	default:
		if isBlackjack(e) {
			renderBlackjack(w, q)
		}
	}
}
