package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inmzhang/leaky/internal/adapter"
	"github.com/inmzhang/leaky/internal/controller"
	"github.com/inmzhang/leaky/internal/domain"
	m "github.com/inmzhang/leaky/internal/model"
)

var sampleShotsFlag int
var sampleSeedFlag int64
var sampleStrategyFlag string
var sampleParallelFlag int
var sampleChannelFlags []string
var sampleOutFlag string

// sampleCmd represents the sample command.
var sampleCmd = newSampleCmd()

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample CIRCUIT_FILE",
		Short: "Run a circuit for many shots and summarise the records",
		Long: `Sample executes a circuit file repeatedly, projecting each shot's dual
(classical bit, leakage mask) record with the selected readout strategy.
Channels referenced by I[leaky<N>] tags are bound in the order the
--channel flags are given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			circuit, channels, err := loadCircuitAndChannels(args[0], sampleChannelFlags)
			if err != nil {
				return err
			}

			strategy, err := m.ParseReadoutStrategy(sampleStrategyFlag)
			if err != nil {
				return err
			}

			opts := []domain.SamplerOption{domain.WithLogger(logger)}
			if sampleSeedFlag >= 0 {
				opts = append(opts, domain.WithSamplerSeed(uint64(sampleSeedFlag)))
			}

			sampler := domain.NewSampler(circuit, channels, opts...)

			ui := controller.NewUI(cmd, controller.IsTTY(cmd.OutOrStdout()))
			ui.DisplayCircuitInfo(circuit.NumQubits(), circuit.NumInstructions(), circuit.NumMeasurements())
			ui.DisplayRunInfo(sampleShotsFlag, sampleParallelFlag, strategy)

			if err := ui.Start(); err != nil {
				return err
			}

			records, err := sampler.Sample(sampleShotsFlag, strategy, sampleParallelFlag, func(completed int) {
				ui.DisplayProgress(completed, sampleShotsFlag)
			})

			ui.Close()

			if err != nil {
				return err
			}

			if err := ui.DisplaySummary(records); err != nil {
				return err
			}

			if sampleOutFlag == "" {
				return nil
			}

			return saveRecords(sampler, records, strategy)
		},
	}

	cmd.Flags().IntVarP(&sampleShotsFlag, "shots", "n", 1000, "number of shots to sample")
	cmd.Flags().Int64VarP(&sampleSeedFlag, "seed", "s", -1, "random seed; negative means seed from entropy")
	cmd.Flags().StringVarP(&sampleStrategyFlag, "strategy", "r", "deterministic", "readout strategy: raw, random or deterministic")
	cmd.Flags().IntVarP(&sampleParallelFlag, "parallel", "p", 1, "number of parallel sampling workers")
	cmd.Flags().StringArrayVarP(&sampleChannelFlags, "channel", "c", nil, "leaky channel definition file, bound in order (can be repeated)")
	cmd.Flags().StringVarP(&sampleOutFlag, "out", "o", "", "write the sampled records to this file")

	return cmd
}

func loadCircuitAndChannels(circuitPath string, channelPaths []string) (m.Circuit, []*domain.LeakyPauliChannel, error) {
	src, err := os.ReadFile(circuitPath)
	if err != nil {
		return m.Circuit{}, nil, fmt.Errorf("failed to read circuit: %w", err)
	}

	circuit, err := adapter.ParseCircuit(string(src))
	if err != nil {
		return m.Circuit{}, nil, err
	}

	channels := make([]*domain.LeakyPauliChannel, 0, len(channelPaths))

	for _, path := range channelPaths {
		def, err := os.ReadFile(path)
		if err != nil {
			return m.Circuit{}, nil, fmt.Errorf("failed to read channel: %w", err)
		}

		channel, err := domain.ParseChannel(string(def))
		if err != nil {
			return m.Circuit{}, nil, fmt.Errorf("channel %s: %w", path, err)
		}

		channels = append(channels, channel)
	}

	return circuit, channels, nil
}

func saveRecords(sampler *domain.Sampler, records [][]uint8, strategy m.ReadoutStrategy) error {
	manifest := adapter.NewRunManifest(sampler.Seed(), len(records), sampler.NumMeasurements(), strategy.String())
	logger.Debug().Str("run", manifest.ID).Str("path", sampleOutFlag).Msg("saving records")

	store := adapter.NewShotStore()

	return store.SaveShots(sampleOutFlag, adapter.ShotFile{Manifest: manifest, Records: records})
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}
