package domain

import (
	"fmt"

	"github.com/inmzhang/leaky/internal/adapter"
	m "github.com/inmzhang/leaky/internal/model"
	"github.com/inmzhang/leaky/internal/rng"
)

// Simulator interleaves a stabilizer evolution of the non-leaked qubits
// with a per-qubit leakage status driven by leaky Pauli channels. Gates
// are suppressed on leaked qubits, measurements record a leakage mask
// next to the classical outcome, and resets return leaked qubits to the
// computational subspace.
type Simulator struct {
	numQubits int
	status    m.LeakageStatus
	masks     []m.Level
	backend   adapter.StabilizerBackend
	channels  []*LeakyPauliChannel
	rand      *rng.Source
}

// SimulatorOption configures a Simulator at construction.
type SimulatorOption func(*simulatorConfig)

type simulatorConfig struct {
	rand    *rng.Source
	backend adapter.StabilizerBackend
}

// WithSeed seeds the simulator's random source.
func WithSeed(seed uint64) SimulatorOption {
	return func(cfg *simulatorConfig) {
		cfg.rand = rng.New(seed)
	}
}

// WithRand supplies an explicit random source.
func WithRand(src *rng.Source) SimulatorOption {
	return func(cfg *simulatorConfig) {
		cfg.rand = src
	}
}

// WithBackend supplies an explicit stabilizer backend. The default is the
// local tableau engine sharing the simulator's random source.
func WithBackend(backend adapter.StabilizerBackend) SimulatorOption {
	return func(cfg *simulatorConfig) {
		cfg.backend = backend
	}
}

// NewSimulator constructs a simulator over numQubits qubits with the given
// ordered channel list. Circuits reference channels by index through the
// I[leaky<N>] tag.
func NewSimulator(numQubits int, channels []*LeakyPauliChannel, opts ...SimulatorOption) *Simulator {
	cfg := simulatorConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.rand == nil {
		cfg.rand = rng.NewRandomized()
	}

	if cfg.backend == nil {
		cfg.backend = adapter.NewTableau(numQubits, cfg.rand)
	}

	return &Simulator{
		numQubits: numQubits,
		status:    m.NewLeakageStatus(numQubits),
		backend:   cfg.backend,
		channels:  channels,
		rand:      cfg.rand,
	}
}

// NumQubits returns the simulator capacity.
func (s *Simulator) NumQubits() int {
	return s.numQubits
}

// Status returns the current leakage level of a qubit.
func (s *Simulator) Status(qubit int) m.Level {
	return s.status.Get(qubit)
}

// LeakageMasks returns the per-measurement leakage mask record.
func (s *Simulator) LeakageMasks() []m.Level {
	return s.masks
}

// Channels returns the bound channel list.
func (s *Simulator) Channels() []*LeakyPauliChannel {
	return s.channels
}

// Clear resets the leakage status, empties the mask and measurement
// records and reinitialises the backend. The channel list is preserved.
func (s *Simulator) Clear() {
	s.status.Clear()
	s.masks = s.masks[:0]
	s.backend.Reinit(s.numQubits)
}

// DoCircuit executes a circuit, recursing into REPEAT blocks.
func (s *Simulator) DoCircuit(circuit m.Circuit) error {
	if n := circuit.NumQubits(); n > s.numQubits {
		return fmt.Errorf("circuit uses %d qubits but the simulator has %d: %w", n, s.numQubits, m.ErrInvalidArgument)
	}

	return s.doOps(circuit)
}

func (s *Simulator) doOps(circuit m.Circuit) error {
	for _, op := range circuit.Ops {
		if op.IsBlock() {
			for k := uint64(0); k < op.Repeat; k++ {
				if err := s.doOps(*op.Block); err != nil {
					return err
				}
			}

			continue
		}

		if err := s.DoGate(op.Inst); err != nil {
			return err
		}
	}

	return nil
}

// DoGate dispatches a single instruction.
func (s *Simulator) DoGate(inst m.Instruction) error {
	gate, ok := m.LookupGate(inst.Name)
	if !ok {
		return fmt.Errorf("unknown gate %q: %w", inst.Name, m.ErrInvalidArgument)
	}

	if gate.Name == "I" {
		index, isLeaky, err := inst.LeakyChannelIndex()
		if err != nil {
			return err
		}

		if isLeaky {
			if index >= len(s.channels) {
				return fmt.Errorf("instruction %q references channel %d but only %d are bound: %w",
					inst.String(), index, len(s.channels), m.ErrInvalidArgument)
			}

			return s.ApplyLeakyChannel(inst.QubitTargets(), s.channels[index])
		}
	}

	if gate.Flags&m.GateIsAnnotation != 0 {
		return nil
	}

	if gate.Flags&(m.GateProducesMeasurement|m.GateIsReset) != 0 {
		if gate.Basis != 'Z' {
			return fmt.Errorf("instruction %q: only Z basis measurements and resets are supported: %w",
				inst.String(), m.ErrInvalidArgument)
		}

		if gate.Flags&m.GateProducesMeasurement != 0 {
			for _, q := range inst.QubitTargets() {
				s.masks = append(s.masks, s.status.Get(q))
			}
		}

		if gate.Flags&m.GateIsReset != 0 {
			for _, q := range inst.QubitTargets() {
				s.status.Reset(q)
			}
		}

		return s.backend.Do(inst)
	}

	if gate.Flags&m.GateIsNoisy != 0 {
		return s.backend.Do(inst)
	}

	return s.doUnitary(gate, inst)
}

// doUnitary splits the targets into application groups and suppresses any
// group containing a leaked qubit.
func (s *Simulator) doUnitary(gate m.Gate, inst m.Instruction) error {
	targets := inst.QubitTargets()

	step := gate.GroupSize()
	if len(targets)%step != 0 {
		return fmt.Errorf("instruction %q needs targets in groups of %d: %w", inst.String(), step, m.ErrInvalidArgument)
	}

	for k := 0; k+step <= len(targets); k += step {
		group := targets[k : k+step]

		leaked := false
		for _, q := range group {
			if s.status.IsLeaked(q) {
				leaked = true

				break
			}
		}

		if leaked {
			continue
		}

		sub := m.NewInstruction(gate.Name, group...)
		sub.Args = inst.Args

		if err := s.backend.Do(sub); err != nil {
			return err
		}
	}

	return nil
}

// ApplyLeakyChannel applies a channel to the targets in contiguous groups
// of the channel arity.
func (s *Simulator) ApplyLeakyChannel(targets []int, channel *LeakyPauliChannel) error {
	arity := channel.NumQubits()
	if len(targets)%arity != 0 {
		return fmt.Errorf("%d targets cannot be grouped for a %d-qubit channel: %w",
			len(targets), arity, m.ErrInvalidArgument)
	}

	for k := 0; k+arity <= len(targets); k += arity {
		group := targets[k : k+arity]

		levels := make([]m.Level, arity)
		for i, q := range group {
			levels[i] = s.status.Get(q)
		}

		current := m.StatusOf(levels...)

		next, pauli, ok := channel.Sample(current, s.rand)
		if !ok {
			continue
		}

		for i, q := range group {
			if err := s.handleTransition(current.Get(i), next.Get(i), q, pauli[i]); err != nil {
				return err
			}
		}
	}

	return nil
}

// handleTransition commits a single-qubit transition. The leakage status
// is updated before any backend operation so later gates in the same
// instruction observe the new state.
func (s *Simulator) handleTransition(from, to m.Level, target int, pauli byte) error {
	s.status.Set(target, to)

	switch m.TransitionTypeOf(from, to) {
	case m.TransitionR:
		if pauli == 'I' {
			return nil
		}

		return s.backend.Do(m.NewInstruction(string(rune(pauli)), target))

	case m.TransitionU:
		// The stabilizer state decouples from the leaked qubit; leave its
		// marginal maximally mixed.
		return s.xError(target)

	case m.TransitionD:
		// The returning qubit enters the subspace as a uniformly random
		// classical bit.
		if err := s.backend.Do(m.NewInstruction("R", target)); err != nil {
			return err
		}

		return s.xError(target)

	case m.TransitionL:
		return nil
	}

	return nil
}

func (s *Simulator) xError(target int) error {
	inst := m.NewInstruction("X_ERROR", target)
	inst.Args = []float64{0.5}

	return s.backend.Do(inst)
}

// MeasurementRecord projects the dual (classical bit, leakage mask)
// record with the given readout strategy.
func (s *Simulator) MeasurementRecord(strategy m.ReadoutStrategy) ([]uint8, error) {
	return ProjectReadout(s.backend.MeasurementRecord(), s.masks, strategy, s.rand)
}
