package controller

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	m "github.com/inmzhang/leaky/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd          *cobra.Command
	mu           sync.Mutex
	lastReported int
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start() error {
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {

}

// DisplayRunInfo prints the sampling parameters.
func (s *SimpleUI) DisplayRunInfo(shots, threads int, strategy m.ReadoutStrategy) {
	s.printf("Sampling %d shot(s) with %d worker(s), readout strategy %s\n", shots, threads, strategy)
}

// DisplayProgress prints coarse progress milestones (every tenth).
func (s *SimpleUI) DisplayProgress(completed, total int) {
	if total <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	step := total / 10
	if step == 0 {
		step = 1
	}

	if completed != total && completed/step == s.lastReported {
		return
	}

	s.lastReported = completed / step
	s.printf("progress: %d/%d\n", completed, total)
}

// DisplaySummary prints the per-measurement outcome table.
func (s *SimpleUI) DisplaySummary(records [][]uint8) error {
	return renderSummary(s.cmd.OutOrStdout(), records)
}

// DisplayCircuitInfo prints the parsed circuit dimensions.
func (s *SimpleUI) DisplayCircuitInfo(numQubits, numInstructions, numMeasurements int) {
	s.printf("Circuit: %d qubit(s), %d instruction(s), %d measurement(s) per shot\n",
		numQubits, numInstructions, numMeasurements)
}

// DisplayChannels prints the bound channel tables in index order.
func (s *SimpleUI) DisplayChannels(descriptions []string) {
	for i, desc := range descriptions {
		s.printf("Channel %d:\n%s", i, desc)
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
