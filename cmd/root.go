// Package cmd implements the gotabular command line interface
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix prefixes the environment variables which can set any flag,
// e.g. GOTABULAR_EPISODES sets --episodes
const envPrefix = "GOTABULAR"

var rootViper = viper.New()

var (
	configKey    = "config"
	logLevelKey  = "log_level"
	logFormatKey = "log_format"
	verboseKey   = "verbose"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gotabular",
	Short: "Tabular reinforcement learning experiments",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureLog(rootViper, cmd.ErrOrStderr())
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. An interrupt cancels the running command between
// episodes.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(configKey, "", "Configuration file setting any flag "+
		"(YAML, JSON or TOML)")
	flags.String(logLevelKey, "info", fmt.Sprintf("Minimum logging level "+
		"as one of %v", expectedLogLevels))
	flags.String(logFormatKey, string(logText), fmt.Sprintf("Log format as "+
		"one of %v", expectedLogFormats))
	flags.BoolP(verboseKey, "v", false, "Log at debug level")
	flags.SortFlags = false
	bindEnv(rootViper)
	_ = rootViper.BindPFlags(flags)

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(blackjackCmd)
	rootCmd.AddCommand(dpCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(configCmd)
}

// bindEnv lets environment variables set any key of v
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// newCommandViper returns a viper bound to the local flags of cmd. It
// must be called after the flags of cmd are defined.
func newCommandViper(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	bindEnv(v)
	_ = v.BindPFlags(cmd.Flags())
	return v
}

// readConfigFile reads the configuration file named by --config, if
// any, into v
func readConfigFile(v *viper.Viper) error {
	path := rootViper.GetString(configKey)
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read configuration file %q: %w", path,
			err)
	}
	return nil
}
