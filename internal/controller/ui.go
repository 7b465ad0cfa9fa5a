// Package controller provides output controllers for the leaky CLI.
package controller

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	m "github.com/inmzhang/leaky/internal/model"
)

// UI is the interface the CLI drives while sampling and describing.
// Implementations can use different output methods (plain text, TUI).
type UI interface {
	Start() error
	Close()
	DisplayRunInfo(shots, threads int, strategy m.ReadoutStrategy)
	DisplayProgress(completed, total int)
	DisplaySummary(records [][]uint8) error
	DisplayCircuitInfo(numQubits, numInstructions, numMeasurements int)
	DisplayChannels(descriptions []string)
}

// NewUI creates a UI based on whether TTY mode is enabled.
// When useTTY is true it returns the Bubble Tea TUI, otherwise the plain
// text implementation.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY checks if the given writer is an interactive terminal.
func IsTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
