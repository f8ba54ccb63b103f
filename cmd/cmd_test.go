package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/gotabular/agent"
	"github.com/samuelfneumann/gotabular/agent/montecarlo"
	"github.com/samuelfneumann/gotabular/agent/sarsalambda"
	"github.com/samuelfneumann/gotabular/environment/envconfig"
	"github.com/samuelfneumann/gotabular/experiment"
)

// resetFlags restores every flag of c and its subcommands to its
// default so that commands run by different tests do not interfere
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--log_level", "off"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTrainAndInspect(t *testing.T) {
	db := filepath.Join(t.TempDir(), "tables.db")
	data := t.TempDir()

	out, err := run(t, "train", "--agent", "q-learning", "--env", "CliffWalk",
		"--episodes", "30", "--cutoff", "500", "--seed", "3",
		"--progress=false", "--store", db, "--checkpoint", "10",
		"--data-dir", data)
	require.NoError(t, err)
	assert.Contains(t, out, "Greedy policy")
	assert.Contains(t, out, "Episode length")
	assert.Contains(t, out, "Last episode")
	assert.FileExists(t, filepath.Join(data, "returns.bin"))
	assert.FileExists(t, filepath.Join(data, "lengths.bin"))

	out, err = run(t, "inspect", db)
	require.NoError(t, err)
	assert.Contains(t, out, "EGreedyQLearning-Tabular/CliffWalk")

	out, err = run(t, "inspect", db, "EGreedyQLearning-Tabular/CliffWalk")
	require.NoError(t, err)
	assert.Contains(t, out, "30 episodes")
	assert.Contains(t, out, "Greedy policy")

	_, err = run(t, "inspect", db, "missing")
	assert.Error(t, err)
}

func TestTrainParallel(t *testing.T) {
	out, err := run(t, "train", "--agent", "sarsa-lambda", "--episodes",
		"10", "--workers", "2", "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Merged 2 tables")
	assert.Contains(t, out, "Greedy policy")
}

func TestTrainInvalid(t *testing.T) {
	_, err := run(t, "train", "--agent", "dqn")
	assert.ErrorContains(t, err, "no such agent")

	_, err = run(t, "train", "--env", "Blackjack", "--gamma", "0.9")
	assert.Error(t, err)

	_, err = run(t, "train", "--start", "middle")
	assert.ErrorContains(t, err, "no such start")

	_, err = run(t, "train", "--agent", "monte-carlo", "--env", "CliffWalk")
	assert.ErrorIs(t, err, montecarlo.ErrIntermediateReward)

	_, err = run(t, "train", "--log_format", "xml")
	assert.ErrorContains(t, err, "invalid log format")
}

func TestTrainReplay(t *testing.T) {
	out, err := run(t, "train", "--agent", "q-learning", "--env", "CliffWalk",
		"--reset-on-cliff", "--episodes", "20", "--cutoff", "500",
		"--start", "random", "--replay", "2", "--replay-batch", "4",
		"--replay-method", "UniformWithoutReplacement", "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Replayed ")
	assert.Contains(t, out, "Greedy policy")

	_, err = run(t, "train", "--agent", "sarsa", "--episodes", "1",
		"--replay", "1")
	assert.ErrorContains(t, err, "cannot learn from stored transitions")

	_, err = run(t, "train", "--agent", "q-learning", "--episodes", "1",
		"--replay", "1", "--workers", "2")
	assert.ErrorContains(t, err, "parallel")

	_, err = run(t, "train", "--agent", "q-learning", "--episodes", "1",
		"--replay", "1", "--replay-method", "Prioritized")
	assert.ErrorContains(t, err, "no such selector")
}

func TestBlackjack(t *testing.T) {
	out, err := run(t, "blackjack", "--games", "300", "--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Greedy policy, usable ace: true")
	assert.Contains(t, out, "Greedy policy, usable ace: false")

	out, err = run(t, "blackjack", "--games", "300", "--predict",
		"--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "State values, usable ace: false")
}

func TestDP(t *testing.T) {
	out, err := run(t, "dp", "--method", "value", "--sweeps", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "State 01: w (1.00)")
	assert.Contains(t, out, "State 05: n (0.50) w (0.50)")

	out, err = run(t, "dp", "--method", "evaluate", "--sweeps", "1")
	require.NoError(t, err)
	assert.Contains(t, out, " -1.00")

	_, err = run(t, "dp", "--method", "guess")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte(
		"agent: sarsa-lambda\nlambda: 0.5\nreplacing: true\nepisodes: 20\n"),
		0600))

	out, err := run(t, "config", "--config", settings, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Type": "EGreedySarsaLambda-Tabular"`)

	experimentFile := filepath.Join(dir, "experiment.yaml")
	out, err = run(t, "config", "--config", settings)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(experimentFile, []byte(out), 0600))

	c, err := loadExperiment(experimentFile)
	require.NoError(t, err)
	assert.Equal(t, experiment.OnlineExp, c.Type)
	assert.Equal(t, uint(20), c.MaxEpisodes)
	assert.Equal(t, envconfig.WindyGridWorld, c.EnvConf.Environment)
	assert.Equal(t, agent.EGreedySarsaLambdaTabular, c.AgentConf.Type)

	config := c.AgentConf.At(0).(sarsalambda.Config)
	assert.Equal(t, 0.5, config.Lambda)
	assert.True(t, config.Replacing)

	out, err = run(t, "train", "--experiment", experimentFile,
		"--progress=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Greedy policy")
}

func TestAgentConfig(t *testing.T) {
	for _, name := range agentNames() {
		v := viper.New()
		v.Set(agentKey, name)
		v.Set(epsilonKey, 0.1)
		v.Set(alphaKey, 0.5)
		v.Set(lambdaKey, 0.9)

		c, err := agentConfig(v)
		require.NoError(t, err, name)
		assert.Equal(t, agentTypes[name], c.Type)
		assert.NoError(t, c.At(0).Validate(), name)
	}
}
