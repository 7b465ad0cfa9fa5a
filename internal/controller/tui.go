package controller

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/inmzhang/leaky/internal/model"
)

// TUI implements UI using Bubble Tea: a live progress bar while sampling,
// followed by the same summary table as the plain UI.
type TUI struct {
	output  io.Writer
	program *tea.Program
	started bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

type progressMsg struct {
	completed int
	total     int
}

type finishedMsg struct{}

// Start launches the progress display.
func (t *TUI) Start() error {
	return t.startWithModel(newSampleProgressModel())
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithInput(nil))
	t.started = true

	t.wg.Add(1)

	go func() {
		defer t.wg.Done()

		_, _ = t.program.Run()
	}()

	return nil
}

// Close stops the progress display and waits for it to finish rendering.
func (t *TUI) Close() {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if !started {
		return
	}

	t.program.Send(finishedMsg{})
	t.wg.Wait()

	t.mu.Lock()
	t.started = false
	t.mu.Unlock()
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}

	t.program.Send(msg)
}

// DisplayRunInfo prints the sampling parameters above the progress bar.
func (t *TUI) DisplayRunInfo(shots, threads int, strategy m.ReadoutStrategy) {
	_, _ = fmt.Fprintf(t.output, "Sampling %d shot(s) with %d worker(s), readout strategy %s\n", shots, threads, strategy)
}

// DisplayProgress advances the progress bar.
func (t *TUI) DisplayProgress(completed, total int) {
	t.send(progressMsg{completed: completed, total: total})
}

// DisplaySummary prints the per-measurement outcome table.
func (t *TUI) DisplaySummary(records [][]uint8) error {
	return renderSummary(t.output, records)
}

// DisplayCircuitInfo prints the parsed circuit dimensions.
func (t *TUI) DisplayCircuitInfo(numQubits, numInstructions, numMeasurements int) {
	_, _ = fmt.Fprintf(t.output, "Circuit: %d qubit(s), %d instruction(s), %d measurement(s) per shot\n",
		numQubits, numInstructions, numMeasurements)
}

// DisplayChannels prints the bound channel tables in index order.
func (t *TUI) DisplayChannels(descriptions []string) {
	for i, desc := range descriptions {
		_, _ = fmt.Fprintf(t.output, "Channel %d:\n%s", i, desc)
	}
}

var sampleTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// sampleProgressModel renders the shot progress bar.
type sampleProgressModel struct {
	bar       progress.Model
	completed int
	total     int
	finished  bool
}

func newSampleProgressModel() sampleProgressModel {
	return sampleProgressModel{
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
		),
	}
}

func (pm sampleProgressModel) Init() tea.Cmd {
	return nil
}

func (pm sampleProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		pm.completed = msg.completed
		pm.total = msg.total

		return pm, nil

	case finishedMsg:
		pm.finished = true

		return pm, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return pm, tea.Quit
		}
	}

	return pm, nil
}

func (pm sampleProgressModel) View() string {
	if pm.finished {
		return ""
	}

	percent := 0.0
	if pm.total > 0 {
		percent = float64(pm.completed) / float64(pm.total)
	}

	return fmt.Sprintf("%s %s %d/%d\n",
		sampleTitleStyle.Render("sampling"),
		pm.bar.ViewAs(percent),
		pm.completed, pm.total,
	)
}
