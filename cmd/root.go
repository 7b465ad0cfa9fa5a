// Package cmd provides the root command and CLI setup for leaky.
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var verboseFlag bool

// logger is the process-wide CLI logger. It stays disabled unless the
// --verbose flag raises it to debug level.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger().
	Level(zerolog.Disabled)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaky",
		Short: "Monte-Carlo Clifford simulator with incoherent leakage",
		Long: `Leaky is a Monte-Carlo simulator for Clifford circuits extended with an
incoherent leakage model. Qubits may escape the computational subspace
through user-defined leaky Pauli channels bound to circuit instructions
via I[leaky<N>] tags; leaked qubits suppress gates, taint measurements
and return to the subspace on reset.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verboseFlag {
				logger = logger.Level(zerolog.DebugLevel)
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
