package domain

import (
	"fmt"

	m "github.com/inmzhang/leaky/internal/model"
	"github.com/inmzhang/leaky/internal/rng"
)

// ProjectReadout resolves the dual (classical bit, leakage mask) record
// into a byte row. Subspace slots pass the classical bit through; leaked
// slots are resolved by the strategy.
func ProjectReadout(bits []uint8, masks []m.Level, strategy m.ReadoutStrategy, src *rng.Source) ([]uint8, error) {
	if len(bits) != len(masks) {
		return nil, fmt.Errorf("classical record has %d entries but the mask record has %d: %w",
			len(bits), len(masks), m.ErrInvariantViolation)
	}

	out := make([]uint8, len(masks))

	switch strategy {
	case m.RawLabel:
		for i, mask := range masks {
			if mask == 0 {
				out[i] = bits[i]
			} else {
				out[i] = uint8(mask) + 1
			}
		}

	case m.RandomLeakageProjection:
		for i, mask := range masks {
			if mask == 0 {
				out[i] = bits[i]
			} else if src.Float(0, 1) < 0.5 {
				out[i] = 0
			} else {
				out[i] = 1
			}
		}

	case m.DeterministicLeakageProjection:
		for i, mask := range masks {
			if mask == 0 {
				out[i] = bits[i]
			} else {
				out[i] = 1
			}
		}

	default:
		return nil, fmt.Errorf("unknown readout strategy %d: %w", strategy, m.ErrInvalidArgument)
	}

	return out, nil
}
