package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/gotabular/dp"
)

var (
	methodKey     = "method"
	sweepsKey     = "sweeps"
	evalSweepsKey = "eval-sweeps"
)

var dpViper *viper.Viper

var dpCmd = &cobra.Command{
	Use:   "dp",
	Short: "Solve the 4x4 gridworld by dynamic programming",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := dpViper
		if err := readConfigFile(v); err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		m, err := dp.NewGrid(v.GetFloat64(gammaKey))
		if err != nil {
			return err
		}

		sweeps := v.GetInt(sweepsKey)
		var (
			values *mat.VecDense
			pi     *mat.Dense
		)
		switch method := v.GetString(methodKey); method {
		case "evaluate":
			pi = m.Uniform()
			values = m.EvaluateN(m.Zeros(), pi, sweeps)

		case "policy":
			values, pi = m.PolicyIterate(v.GetInt(evalSweepsKey), sweeps)

		case "value":
			values = m.ValueIterate(sweeps)
			pi = m.Improve(values)

		default:
			return fmt.Errorf("no such method %q expecting one of %v",
				method, []string{"evaluate", "policy", "value"})
		}

		fmt.Fprintf(out, "Values:\n%v\n", dp.RenderValues(values, dp.GridSize))
		fmt.Fprintf(out, "Policy:\n%v", m.RenderPolicy(pi))
		return nil
	},
}

func init() {
	flags := dpCmd.Flags()
	flags.String(methodKey, "policy", "One of evaluate (uniform random "+
		"policy), policy (policy iteration) or value (value iteration)")
	flags.Float64(gammaKey, 1.0, "Discount factor")
	flags.Int(sweepsKey, 100, "Number of sweeps, or of iterations for "+
		"policy iteration")
	flags.Int(evalSweepsKey, 1, "Evaluation sweeps per policy iteration")
	dpViper = newCommandViper(dpCmd)
}
