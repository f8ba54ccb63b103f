package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/gotabular/agent/montecarlo"
	"github.com/samuelfneumann/gotabular/agent/policy"
	"github.com/samuelfneumann/gotabular/environment"
	"github.com/samuelfneumann/gotabular/environment/blackjack"
	"github.com/samuelfneumann/gotabular/environment/envconfig"
	"github.com/samuelfneumann/gotabular/experiment"
	"github.com/samuelfneumann/gotabular/experiment/tracker"
	"github.com/samuelfneumann/gotabular/table"
	"github.com/samuelfneumann/gotabular/utils/progressbar"
)

var (
	gamesKey   = "games"
	predictKey = "predict"
)

var blackjackViper *viper.Viper

var blackjackCmd = &cobra.Command{
	Use:   "blackjack",
	Short: "Learn to play blackjack by Monte Carlo control",
	Long: "Learn to play blackjack by Monte Carlo control, or with " +
		"--predict estimate the state values of the player which bids " +
		"below 20 points",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfigFile(blackjackViper); err != nil {
			return err
		}
		if blackjackViper.GetBool(predictKey) {
			return predictBlackjack(cmd, blackjackViper)
		}

		v := blackjackViper
		c := experiment.Config{
			Type:        experiment.OnlineExp,
			MaxEpisodes: v.GetUint(gamesKey),
			EnvConf:     envconfig.NewConfig(envconfig.Blackjack, 0, 1, false),
			AgentConf: montecarlo.NewConfigList(
				[]float64{v.GetFloat64(epsilonKey)},
				[]policy.Decay{policy.Decay(v.GetString(decayKey))},
				[]int{v.GetInt(decayEpisodesKey)},
			),
		}
		if err := c.Validate(); err != nil {
			return err
		}
		return train(cmd, v, c)
	},
}

func init() {
	flags := blackjackCmd.Flags()
	flags.Uint(gamesKey, 100_000, "Number of games to play")
	flags.Float64(epsilonKey, 1.0, "Initial exploration rate")
	flags.String(decayKey, string(policy.LogInverseDecay), "Exploration decay")
	flags.Int(decayEpisodesKey, 0, "Games over which linear decay reaches 0")
	flags.Bool(predictKey, false, "Estimate state values of the fixed "+
		"player instead of learning")
	addRunFlags(blackjackCmd)
	blackjackViper = newCommandViper(blackjackCmd)
}

// predictBlackjack estimates the state values of the fixed player
func predictBlackjack(cmd *cobra.Command, v *viper.Viper) error {
	out := cmd.OutOrStdout()
	games := v.GetUint(gamesKey)

	outcomes := tracker.NewOutcome("")
	p := montecarlo.NewPrediction(blackjack.FixedPlayer{})
	exp := experiment.NewOnline(blackjack.New(v.GetUint64(seedKey)), p,
		games, []tracker.Tracker{outcomes}, nil)

	if v.GetBool(progressKey) && games > 0 {
		bar := progressbar.NewManualProgressBar(cmd.ErrOrStderr(), 40,
			int(games), "games")
		exp.Notify(func(experiment.EpisodeStats) {
			bar.Increment()
			bar.Display()
		})
		defer bar.Close()
	}

	if err := exp.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintln(out, outcomes)
	for _, ace := range []bool{true, false} {
		fmt.Fprintf(out, "State values, usable ace: %v\n", ace)
		fmt.Fprint(out, blackjack.RenderValues(p.Values(), ace))
	}
	return nil
}

func isBlackjack(e environment.Environment) bool {
	_, ok := e.(*blackjack.Blackjack)
	return ok
}

// renderBlackjack prints the greedy policy of q with and without a
// usable ace
func renderBlackjack(w io.Writer, q *table.ActionValues) {
	for _, ace := range []bool{true, false} {
		fmt.Fprintf(w, "Greedy policy, usable ace: %v\n", ace)
		fmt.Fprint(w, blackjack.RenderPolicy(q, ace))
	}
}
