package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/EmundoT/git-assess/internal/core"
)

var (
	progressStyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	progressStyleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	progressStyleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// NewProgressTracker picks the tracker for the output mode: bubbletea on an
// interactive terminal, plain text when stdout is redirected, and nothing in
// quiet or JSON mode.
func NewProgressTracker(mode core.OutputMode, total int, label string) core.ProgressTracker {
	if mode != core.OutputNormal {
		return NewNoOpProgressTracker()
	}
	if IsTerminal(os.Stdout) {
		return NewBubbletaeProgressTracker(total, label)
	}
	return NewTextProgressTracker(total, label)
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ========================================
// Bubbletea Progress Model
// ========================================

// progressModel is a bubbletea model for rendering progress
type progressModel struct {
	current int
	total   int
	label   string
	message string
	started time.Time
	done    bool
	failed  bool
	err     error
	width   int
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case progressIncrementMsg:
		m.current++
		m.message = msg.message
		// Finished indicators scroll above the bar.
		return m, tea.Println("    " + msg.message)
	case progressSetTotalMsg:
		m.total = msg.total
	case progressCompleteMsg:
		m.done = true
		return m, tea.Quit
	case progressFailMsg:
		m.failed = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return progressStyleSuccess.Render(fmt.Sprintf("✓ %s (completed: %d/%d)", m.label, m.current, m.total)) + "\n"
	}

	if m.failed {
		return progressStyleErr.Render(fmt.Sprintf("✗ %s (%v)", m.label, m.err)) + "\n"
	}

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}
	barWidth := 40
	if m.width < 80 {
		barWidth = 20
	}
	filled := min(int(percent*float64(barWidth)), barWidth)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	status := fmt.Sprintf("[%s] %d/%d", bar, m.current, m.total)
	if !m.started.IsZero() {
		status += fmt.Sprintf(" %s", time.Since(m.started).Truncate(time.Second))
	}

	return fmt.Sprintf("%s\n%s", progressStyleTitle.Render(m.label), status)
}

// ========================================
// Bubbletea Messages
// ========================================

type progressIncrementMsg struct {
	message string
}

type progressSetTotalMsg struct {
	total int
}

type progressCompleteMsg struct{}

type progressFailMsg struct {
	err error
}

// ========================================
// BubbletaeProgressTracker Implementation
// ========================================

// BubbletaeProgressTracker manages progress using bubbletea
type BubbletaeProgressTracker struct {
	program *tea.Program
	done    chan struct{}
}

// NewBubbletaeProgressTracker creates a new bubbletea progress tracker
func NewBubbletaeProgressTracker(total int, label string) *BubbletaeProgressTracker {
	m := progressModel{
		total:   total,
		label:   label,
		started: time.Now(),
		width:   80,
	}

	tracker := &BubbletaeProgressTracker{
		program: tea.NewProgram(m, tea.WithInput(nil)),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(tracker.done)
		_, _ = tracker.program.Run() //nolint:errcheck // cosmetic only
	}()

	return tracker
}

// Increment updates progress with a message.
func (t *BubbletaeProgressTracker) Increment(message string) {
	t.program.Send(progressIncrementMsg{message: message})
}

// SetTotal sets the total count for the progress tracker.
func (t *BubbletaeProgressTracker) SetTotal(total int) {
	t.program.Send(progressSetTotalMsg{total: total})
}

// Complete marks the operation as complete and waits for the final render.
func (t *BubbletaeProgressTracker) Complete() {
	t.program.Send(progressCompleteMsg{})
	t.wait()
}

// Fail marks the operation as failed and waits for the final render.
func (t *BubbletaeProgressTracker) Fail(err error) {
	t.program.Send(progressFailMsg{err: err})
	t.wait()
}

func (t *BubbletaeProgressTracker) wait() {
	select {
	case <-t.done:
	case <-time.After(time.Second):
		t.program.Kill()
	}
}

// ========================================
// Text Progress (Non-TTY)
// ========================================

// TextProgressTracker provides simple text-based progress
type TextProgressTracker struct {
	mu      sync.Mutex
	out     io.Writer
	current int
	total   int
	label   string
}

// NewTextProgressTracker creates a new text progress tracker writing to stdout
func NewTextProgressTracker(total int, label string) *TextProgressTracker {
	return NewTextProgressTrackerTo(os.Stdout, total, label)
}

// NewTextProgressTrackerTo creates a text progress tracker writing to w
func NewTextProgressTrackerTo(w io.Writer, total int, label string) *TextProgressTracker {
	fmt.Fprintf(w, "Starting: %s (0/%d)\n", label, total)
	return &TextProgressTracker{
		out:   w,
		total: total,
		label: label,
	}
}

// Increment updates progress with a message.
func (t *TextProgressTracker) Increment(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current++
	msg := fmt.Sprintf("  [%d/%d]", t.current, t.total)
	if message != "" {
		msg += " " + message
	}
	fmt.Fprintln(t.out, msg)
}

// SetTotal sets the total count for the progress tracker.
func (t *TextProgressTracker) SetTotal(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total = total
}

// Complete marks the operation as complete.
func (t *TextProgressTracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "✓ %s: Completed (%d/%d)\n", t.label, t.current, t.total)
}

// Fail marks the operation as failed with an error.
func (t *TextProgressTracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "✗ %s: Failed - %v\n", t.label, err)
}

// ========================================
// No-Op Progress (Quiet/JSON)
// ========================================

// NoOpProgressTracker does nothing (for quiet/JSON/testing modes)
type NoOpProgressTracker struct{}

// NewNoOpProgressTracker creates a new no-op progress tracker
func NewNoOpProgressTracker() *NoOpProgressTracker {
	return &NoOpProgressTracker{}
}

// Increment does nothing (no-op implementation).
func (t *NoOpProgressTracker) Increment(_ string) {}

// SetTotal does nothing (no-op implementation).
func (t *NoOpProgressTracker) SetTotal(_ int) {}

// Complete does nothing (no-op implementation).
func (t *NoOpProgressTracker) Complete() {}

// Fail does nothing (no-op implementation).
func (t *NoOpProgressTracker) Fail(_ error) {}
