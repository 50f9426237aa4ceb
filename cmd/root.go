// Package cmd contains the bano CLI commands
package cmd

import (
	"io"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kyrias/bano/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd runs a single pass when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "bano",
	Short: "Republish search results as per-language Atom feeds",
	Long: `bano searches the Twitter API for every output configured in config.ini
and writes one Atom feed per output to {output_dir}/{short}.atom.xml.

Outputs with a langs list get one search per language, merged into a single feed.

Example usage:
  bano                         # one pass with ./config.ini
  bano --config /etc/bano.ini  # one pass with another config
  bano watch                   # run a pass on the configured schedule
  bano history                 # list recent runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPass(cmd.Context(), false)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.ini", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig wires the environment: .env, then BANO_* variables.
func initConfig() error {
	// A missing .env is normal.
	_ = godotenv.Load()

	viper.SetEnvPrefix("bano")
	viper.AutomaticEnv()

	cfgFile = viper.GetString("config")
	verbose = viper.GetBool("verbose")
	return nil
}

// openStore opens the config file with any credential overrides from the environment
func openStore() (*config.Store, error) {
	return config.Open(cfgFile, config.WithCredentialOverride(
		viper.GetString("consumer_key"),
		viper.GetString("consumer_secret"),
	))
}

// quietLog silences the standard logger for commands that print to stdout
func quietLog() {
	if !verbose {
		log.SetOutput(io.Discard)
	}
}
