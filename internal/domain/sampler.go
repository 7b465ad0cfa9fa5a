package domain

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	m "github.com/inmzhang/leaky/internal/model"
)

// Sampler runs a reference circuit for many shots and collects the
// projected measurement records into a dense byte matrix.
type Sampler struct {
	circuit  m.Circuit
	channels []*LeakyPauliChannel
	seed     *uint64
	logger   zerolog.Logger
}

// SamplerOption configures a Sampler at construction.
type SamplerOption func(*Sampler)

// WithSamplerSeed makes sampling deterministic: shot i derives its seed as
// seed*(i+1), independent of the worker that runs it.
func WithSamplerSeed(seed uint64) SamplerOption {
	return func(s *Sampler) {
		s.seed = &seed
	}
}

// WithLogger attaches a logger for per-shot debug events.
func WithLogger(logger zerolog.Logger) SamplerOption {
	return func(s *Sampler) {
		s.logger = logger
	}
}

// NewSampler constructs a sampler over a reference circuit and an ordered
// channel list.
func NewSampler(circuit m.Circuit, channels []*LeakyPauliChannel, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		circuit:  circuit,
		channels: channels,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Seed returns the configured seed, or nil when sampling from entropy.
func (s *Sampler) Seed() *uint64 {
	return s.seed
}

// NumMeasurements returns the record width of one shot.
func (s *Sampler) NumMeasurements() int {
	return s.circuit.NumMeasurements()
}

// Sample runs the circuit for the given number of shots and returns a
// shots x numMeasurements matrix of projected records. Work is spread
// over threads workers, each owning its own simulator and random source.
// The progress callback, if non-nil, receives the completed-shot count.
func (s *Sampler) Sample(shots int, strategy m.ReadoutStrategy, threads int, progress func(completed int)) ([][]uint8, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("shots must be positive, got %d: %w", shots, m.ErrInvalidArgument)
	}

	if threads <= 0 {
		threads = 1
	}

	numQubits := s.circuit.NumQubits()
	numMeasurements := s.circuit.NumMeasurements()

	buffer := make([]uint8, shots*numMeasurements)
	records := make([][]uint8, shots)
	for i := range records {
		records[i] = buffer[i*numMeasurements : (i+1)*numMeasurements]
	}

	jobs := make(chan int, shots)
	for i := 0; i < shots; i++ {
		jobs <- i
	}

	close(jobs)

	var completed atomic.Int64

	var group errgroup.Group
	for worker := 0; worker < threads; worker++ {
		worker := worker

		group.Go(func() error {
			for shot := range jobs {
				if err := s.runShot(shot, numQubits, strategy, records[shot]); err != nil {
					return err
				}

				done := completed.Add(1)
				s.logger.Debug().Int("worker", worker).Int("shot", shot).Msg("shot completed")

				if progress != nil {
					progress(int(done))
				}
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *Sampler) runShot(shot, numQubits int, strategy m.ReadoutStrategy, row []uint8) error {
	var opts []SimulatorOption
	if s.seed != nil {
		opts = append(opts, WithSeed(*s.seed*uint64(shot+1)))
	}

	sim := NewSimulator(numQubits, s.channels, opts...)

	if err := sim.DoCircuit(s.circuit); err != nil {
		return err
	}

	record, err := sim.MeasurementRecord(strategy)
	if err != nil {
		return err
	}

	if len(record) != len(row) {
		return fmt.Errorf("shot %d produced %d measurements, expected %d: %w",
			shot, len(record), len(row), m.ErrInvariantViolation)
	}

	copy(row, record)

	return nil
}
