package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/montecarlo"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/agent/qlearning"
	"github.com/samuelfneumann/gotabular/agent/sarsa"
	"github.com/samuelfneumann/gotabular/agent/sarsalambda"
	"github.com/samuelfneumann/gotabular/environment/envconfig"
	"github.com/samuelfneumann/gotabular/experiment"
)

var (
	agentKey         = "agent"
	envKey           = "env"
	episodesKey      = "episodes"
	epsilonKey       = "epsilon"
	alphaKey         = "alpha"
	lambdaKey        = "lambda"
	replacingKey     = "replacing"
	gammaKey         = "gamma"
	decayKey         = "decay"
	decayEpisodesKey = "decay-episodes"
	cutoffKey        = "cutoff"
	resetOnCliffKey  = "reset-on-cliff"
	startKey         = "start"
	experimentKey    = "experiment"
)

// Gridworld starts accepted by --start
const (
	fixedStart  = "fixed"
	randomStart = "random"
)

// agentTypes maps the agent names accepted on the command line to the
// agent types they create
var agentTypes = map[string]agent.Type{
	"sarsa":        agent.EGreedySarsaTabular,
	"sarsa-lambda": agent.EGreedySarsaLambdaTabular,
	"q-learning":   agent.EGreedyQLearningTabular,
	"monte-carlo":  agent.EGreedyMonteCarloTabular,
}

func agentNames() []string {
	names := make([]string, 0, len(agentTypes))
	for name := range agentTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// addExperimentFlags adds the flags which describe an experiment
func addExperimentFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String(experimentKey, "", "Experiment file (YAML or JSON); "+
		"replaces all other experiment flags")
	flags.String(agentKey, "sarsa", fmt.Sprintf("Agent as one of %v",
		agentNames()))
	flags.String(envKey, string(envconfig.WindyGridWorld), fmt.Sprintf(
		"Environment as one of %v", []envconfig.EnvName{
			envconfig.WindyGridWorld, envconfig.CliffWalk,
			envconfig.Blackjack}))
	flags.Uint(episodesKey, 500, "Number of episodes to train for")
	flags.Float64(epsilonKey, 0.1, "Initial exploration rate")
	flags.Float64(alphaKey, 0.5, "Learning rate")
	flags.Float64(lambdaKey, 0.9, "Trace decay rate of sarsa-lambda")
	flags.Bool(replacingKey, false, "Use replacing traces in sarsa-lambda")
	flags.Float64(gammaKey, 1.0, "Discount factor")
	flags.String(decayKey, string(policy.NoDecay), fmt.Sprintf(
		"Exploration decay as one of %q", []policy.Decay{policy.NoDecay,
			policy.InverseDecay, policy.LogInverseDecay, policy.LinearDecay}))
	flags.Int(decayEpisodesKey, 0, "Episodes over which linear decay "+
		"reaches 0")
	flags.Uint(cutoffKey, 0, "Maximum steps per episode, 0 for no limit")
	flags.Bool(resetOnCliffKey, false, "Send the agent back to the start "+
		"instead of ending the episode when it falls off the cliff")
	flags.String(startKey, fixedStart, fmt.Sprintf("Start of gridworld "+
		"episodes as one of %v", []string{fixedStart, randomStart}))
	flags.SortFlags = false
}

// agentConfig returns the agent configuration described by v
func agentConfig(v *viper.Viper) (agent.TypedConfigList, error) {
	ɛ := []float64{v.GetFloat64(epsilonKey)}
	alpha := []float64{v.GetFloat64(alphaKey)}
	decay := []policy.Decay{policy.Decay(v.GetString(decayKey))}
	decayEpisodes := []int{v.GetInt(decayEpisodesKey)}

	name := v.GetString(agentKey)
	switch agentTypes[name] {
	case agent.EGreedySarsaTabular:
		return sarsa.NewConfigList(ɛ, alpha, decay, decayEpisodes), nil

	case agent.EGreedySarsaLambdaTabular:
		return sarsalambda.NewConfigList(ɛ, alpha,
			[]float64{v.GetFloat64(lambdaKey)},
			[]bool{v.GetBool(replacingKey)}, decay, decayEpisodes), nil

	case agent.EGreedyQLearningTabular:
		return qlearning.NewConfigList(ɛ, alpha, decay, decayEpisodes), nil

	case agent.EGreedyMonteCarloTabular:
		return montecarlo.NewConfigList(ɛ, decay, decayEpisodes), nil
	}

	return agent.TypedConfigList{}, fmt.Errorf("no such agent %q expecting "+
		"one of %v", name, agentNames())
}

// experimentConfig returns the validated experiment configuration
// described by v
func experimentConfig(v *viper.Viper) (experiment.Config, error) {
	if path := v.GetString(experimentKey); path != "" {
		return loadExperiment(path)
	}

	agentConf, err := agentConfig(v)
	if err != nil {
		return experiment.Config{}, err
	}

	var random bool
	switch start := v.GetString(startKey); start {
	case fixedStart:
	case randomStart:
		random = true
	default:
		return experiment.Config{}, fmt.Errorf("no such start %q "+
			"expecting one of %v", start, []string{fixedStart, randomStart})
	}

	c := experiment.Config{
		Type:        experiment.OnlineExp,
		MaxEpisodes: v.GetUint(episodesKey),
		EnvConf: envconfig.NewConfig(
			envconfig.EnvName(v.GetString(envKey)),
			v.GetUint(cutoffKey),
			v.GetFloat64(gammaKey),
			v.GetBool(resetOnCliffKey),
		),
		AgentConf: agentConf,
	}
	c.EnvConf.RandomStart = random
	if err := c.Validate(); err != nil {
		return experiment.Config{}, fmt.Errorf("invalid experiment: %w", err)
	}
	return c, nil
}

// loadExperiment loads an experiment configuration from a YAML or JSON
// file. Since JSON is valid YAML, the file is read as YAML and then
// decoded through JSON so that agent configurations are restored to
// their registered types.
func loadExperiment(path string) (experiment.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("loadExperiment: %w", err)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return experiment.Config{}, fmt.Errorf("loadExperiment: %v: %w",
			path, err)
	}
	js, err := json.Marshal(raw)
	if err != nil {
		return experiment.Config{}, fmt.Errorf("loadExperiment: %w", err)
	}

	var c experiment.Config
	if err := json.Unmarshal(js, &c); err != nil {
		return experiment.Config{}, fmt.Errorf("loadExperiment: %v: %w",
			path, err)
	}
	if err := c.Validate(); err != nil {
		return experiment.Config{}, fmt.Errorf("loadExperiment: %v: %w",
			path, err)
	}
	return c, nil
}

// writeExperiment writes c to w as YAML, or as JSON if asJSON is set
func writeExperiment(w io.Writer, c experiment.Config, asJSON bool) error {
	js, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if asJSON {
		_, err = fmt.Fprintln(w, string(js))
		return err
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(js, &raw); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(raw); err != nil {
		return err
	}
	return enc.Close()
}
