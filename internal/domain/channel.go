// Package domain implements the leakage-aware simulation core: the leaky
// Pauli channel, the simulator, the readout projector and the batch
// sampler.
package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	m "github.com/inmzhang/leaky/internal/model"
	"github.com/inmzhang/leaky/internal/rng"
)

// probEps is the tolerance on cumulative probability normalisation.
const probEps = 1e-6

type outcome struct {
	to    m.LeakageStatus
	pauli string
}

// LeakyPauliChannel is a stochastic map from an initial joint leakage
// status over one or two qubits to a (final status, Pauli correction)
// pair. Initial statuses and their outcomes keep insertion order; each
// outcome list carries a parallel cumulative probability prefix used for
// sampling.
type LeakyPauliChannel struct {
	numQubits       int
	initialStatuses []m.LeakageStatus
	outcomes        [][]outcome
	cumulativeProbs [][]float64
}

// NewLeakyPauliChannel creates an empty channel fixed to the given arity.
func NewLeakyPauliChannel(numQubits int) (*LeakyPauliChannel, error) {
	if numQubits != 1 && numQubits != 2 {
		return nil, fmt.Errorf("channel arity must be 1 or 2, got %d: %w", numQubits, m.ErrInvalidArgument)
	}

	return &LeakyPauliChannel{numQubits: numQubits}, nil
}

// NumQubits returns the channel arity.
func (c *LeakyPauliChannel) NumQubits() int {
	return c.numQubits
}

// NumTransitions counts the registered outcomes across all initial
// statuses.
func (c *LeakyPauliChannel) NumTransitions() int {
	count := 0
	for _, outs := range c.outcomes {
		count += len(outs)
	}

	return count
}

// AddTransition registers an outcome for an initial status. Repeated
// (from, to, pauli) triples accumulate into the existing outcome so each
// triple appears at most once.
func (c *LeakyPauliChannel) AddTransition(from, to m.LeakageStatus, pauli string, probability float64) error {
	if from.Size() != c.numQubits || to.Size() != c.numQubits {
		return fmt.Errorf("status size must match channel arity %d, got %d -> %d: %w",
			c.numQubits, from.Size(), to.Size(), m.ErrInvalidArgument)
	}

	if len(pauli) != c.numQubits || !m.IsPauliString(pauli) {
		return fmt.Errorf("pauli %q must be a Pauli string of length %d: %w", pauli, c.numQubits, m.ErrInvalidArgument)
	}

	idx := c.statusIndex(from)
	if idx < 0 {
		if probability > 1+probEps {
			return fmt.Errorf("cumulative probability for %s exceeds 1: %w", from, m.ErrProbabilityOverflow)
		}

		c.initialStatuses = append(c.initialStatuses, from.Clone())
		c.outcomes = append(c.outcomes, []outcome{{to: to.Clone(), pauli: pauli}})
		c.cumulativeProbs = append(c.cumulativeProbs, []float64{probability})

		return nil
	}

	probs := c.cumulativeProbs[idx]
	if probs[len(probs)-1]+probability > 1+probEps {
		return fmt.Errorf("cumulative probability for %s exceeds 1: %w", from, m.ErrProbabilityOverflow)
	}

	if j := c.outcomeIndex(idx, to, pauli); j >= 0 {
		for k := j; k < len(probs); k++ {
			probs[k] += probability
		}

		return nil
	}

	c.outcomes[idx] = append(c.outcomes[idx], outcome{to: to.Clone(), pauli: pauli})
	c.cumulativeProbs[idx] = append(probs, probs[len(probs)-1]+probability)

	return nil
}

// ProbFromTo returns the registered probability of the exact (from, to,
// pauli) triple, or 0 if it is absent.
func (c *LeakyPauliChannel) ProbFromTo(from, to m.LeakageStatus, pauli string) float64 {
	idx := c.statusIndex(from)
	if idx < 0 {
		return 0
	}

	j := c.outcomeIndex(idx, to, pauli)
	if j < 0 {
		return 0
	}

	probs := c.cumulativeProbs[idx]
	if j == 0 {
		return probs[0]
	}

	return probs[j] - probs[j-1]
}

// Sample draws an outcome for the given initial status. The boolean is
// false when the status has no registered outcomes. Sampling draws from
// [0, back) of the cumulative prefix, so incomplete tables remain
// sampleable during construction.
func (c *LeakyPauliChannel) Sample(status m.LeakageStatus, src *rng.Source) (m.LeakageStatus, string, bool) {
	idx := c.statusIndex(status)
	if idx < 0 {
		return m.LeakageStatus{}, "", false
	}

	probs := c.cumulativeProbs[idx]
	r := src.Float(0, probs[len(probs)-1])

	j := len(probs) - 1
	for k, p := range probs {
		if p > r {
			j = k

			break
		}
	}

	out := c.outcomes[idx][j]

	return out.to.Clone(), out.pauli, true
}

// SafetyCheck verifies that every initial status is normalised and that
// Pauli corrections only act on slots whose transition stays in the
// computational subspace.
func (c *LeakyPauliChannel) SafetyCheck() error {
	for i, from := range c.initialStatuses {
		probs := c.cumulativeProbs[i]
		if math.Abs(probs[len(probs)-1]-1) > probEps {
			return fmt.Errorf("probabilities for %s sum to %v, want 1: %w", from, probs[len(probs)-1], m.ErrInvariantViolation)
		}

		for _, out := range c.outcomes[i] {
			for q := 0; q < c.numQubits; q++ {
				tt := m.TransitionTypeOf(from.Get(q), out.to.Get(q))
				if tt != m.TransitionR && out.pauli[q] != 'I' {
					return fmt.Errorf("transition %s -> %s carries Pauli %q on a non-R slot %d: %w",
						from, out.to, out.pauli, q, m.ErrInvariantViolation)
				}
			}
		}
	}

	return nil
}

// String renders the transition table in insertion order.
func (c *LeakyPauliChannel) String() string {
	var b strings.Builder

	b.WriteString("Transitions:\n")

	if len(c.initialStatuses) == 0 {
		b.WriteString("   None\n")

		return b.String()
	}

	for i, from := range c.initialStatuses {
		probs := c.cumulativeProbs[i]
		for j, out := range c.outcomes[i] {
			prob := probs[j]
			if j > 0 {
				prob -= probs[j-1]
			}

			fmt.Fprintf(&b, "    %s --%s--> %s: %v,\n", from, out.pauli, out.to, prob)
		}
	}

	return b.String()
}

func (c *LeakyPauliChannel) statusIndex(status m.LeakageStatus) int {
	for i, s := range c.initialStatuses {
		if s.Equal(status) {
			return i
		}
	}

	return -1
}

func (c *LeakyPauliChannel) outcomeIndex(idx int, to m.LeakageStatus, pauli string) int {
	for j, out := range c.outcomes[idx] {
		if out.pauli == pauli && out.to.Equal(to) {
			return j
		}
	}

	return -1
}

// ParseChannel parses a channel definition: a `qubits N` header followed
// by `FROM TO PAULI PROB` rows, with `#` comments. The parsed channel
// must pass its safety check.
func ParseChannel(src string) (*LeakyPauliChannel, error) {
	var channel *LeakyPauliChannel

	for i, line := range strings.Split(src, "\n") {
		if j := strings.IndexByte(line, '#'); j >= 0 {
			line = line[:j]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)

		if channel == nil {
			if len(fields) != 2 || fields[0] != "qubits" {
				return nil, fmt.Errorf("channel line %d: expected `qubits N` header: %w", i+1, m.ErrInvalidArgument)
			}

			arity, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("channel line %d: bad qubit count %q: %w", i+1, fields[1], m.ErrInvalidArgument)
			}

			channel, err = NewLeakyPauliChannel(arity)
			if err != nil {
				return nil, err
			}

			continue
		}

		if len(fields) != 4 {
			return nil, fmt.Errorf("channel line %d: expected `FROM TO PAULI PROB`: %w", i+1, m.ErrInvalidArgument)
		}

		prob, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("channel line %d: bad probability %q: %w", i+1, fields[3], m.ErrInvalidArgument)
		}

		if err := channel.AddTransition(m.ParseStatus(fields[0]), m.ParseStatus(fields[1]), fields[2], prob); err != nil {
			return nil, fmt.Errorf("channel line %d: %w", i+1, err)
		}
	}

	if channel == nil {
		return nil, fmt.Errorf("empty channel definition: %w", m.ErrInvalidArgument)
	}

	if err := channel.SafetyCheck(); err != nil {
		return nil, err
	}

	return channel, nil
}
