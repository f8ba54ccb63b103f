package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var formatKey = "format"

var configViper *viper.Viper

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the experiment described by the flags",
	Long: "Print the experiment described by the flags. The output can " +
		"be edited and passed to train with --experiment.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfigFile(configViper); err != nil {
			return err
		}
		c, err := experimentConfig(configViper)
		if err != nil {
			return err
		}
		return writeExperiment(cmd.OutOrStdout(), c,
			configViper.GetString(formatKey) == "json")
	},
}

func init() {
	addExperimentFlags(configCmd)
	configCmd.Flags().String(formatKey, "yaml", "Output format, yaml or json")
	configViper = newCommandViper(configCmd)
}
