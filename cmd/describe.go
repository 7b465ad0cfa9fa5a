package cmd

import (
	"github.com/spf13/cobra"

	"github.com/inmzhang/leaky/internal/controller"
)

var describeChannelFlags []string

// describeCmd represents the describe command.
var describeCmd = newDescribeCmd()

func newDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe CIRCUIT_FILE",
		Short: "Show a parsed circuit and its bound channel tables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			circuit, channels, err := loadCircuitAndChannels(args[0], describeChannelFlags)
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd)
			ui.DisplayCircuitInfo(circuit.NumQubits(), circuit.NumInstructions(), circuit.NumMeasurements())

			descriptions := make([]string, len(channels))
			for i, channel := range channels {
				descriptions[i] = channel.String()
			}

			ui.DisplayChannels(descriptions)

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&describeChannelFlags, "channel", "c", nil, "leaky channel definition file, bound in order (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
