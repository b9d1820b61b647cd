package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ifscloud/internal/chaos"
	"github.com/san-kum/ifscloud/internal/pointcloud"
	"github.com/san-kum/ifscloud/internal/viz"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const barWidth = 40

// Job produces a cloud and reports progress through report.
type Job func(ctx context.Context, report chaos.Progress) (*pointcloud.Cloud, error)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type progressMsg struct{ done, total int }

type doneMsg struct {
	cloud *pointcloud.Cloud
	err   error
}

type progressModel struct {
	title   string
	ctx     context.Context
	cancel  context.CancelFunc
	job     Job
	updates chan tea.Msg

	done, total int
	frame       int
	started     time.Time
	elapsed     time.Duration
	canceling   bool

	finished bool
	cloud    *pointcloud.Cloud
	err      error
}

func newProgressModel(ctx context.Context, title string, job Job) progressModel {
	ctx, cancel := context.WithCancel(ctx)
	return progressModel{
		title:   title,
		ctx:     ctx,
		cancel:  cancel,
		job:     job,
		updates: make(chan tea.Msg, 1),
		started: time.Now(),
	}
}

// run executes the job. Progress updates are dropped while the UI is
// behind; the final result always gets through.
func (m progressModel) run() tea.Msg {
	go func() {
		cloud, err := m.job(m.ctx, func(done, total int) {
			select {
			case m.updates <- progressMsg{done, total}:
			default:
			}
		})
		m.updates <- doneMsg{cloud, err}
	}()
	return waitFor(m.updates)()
}

func waitFor(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func (m progressModel) Init() tea.Cmd {
	return tea.Batch(m.run, tick())
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.canceling = true
			m.cancel()
		}
		return m, nil
	case progressMsg:
		m.done, m.total = msg.done, msg.total
		m.elapsed = time.Since(m.started)
		return m, waitFor(m.updates)
	case doneMsg:
		m.finished = true
		m.cloud, m.err = msg.cloud, msg.err
		m.elapsed = time.Since(m.started)
		if msg.err == nil && msg.cloud != nil {
			m.done = msg.cloud.Len()
			if m.total == 0 {
				m.total = m.done
			}
		}
		m.cancel()
		return m, tea.Quit
	case tickMsg:
		if m.finished {
			return m, nil
		}
		m.frame++
		m.elapsed = time.Since(m.started)
		return m, tick()
	}
	return m, nil
}

func (m progressModel) fraction() float64 {
	if m.total <= 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

func (m progressModel) View() string {
	var b strings.Builder
	b.WriteString("\n")

	status := cyan.Render(viz.AnimatedSpinner(m.frame))
	switch {
	case m.finished && m.err != nil:
		status = viz.Failure.Render("✗")
	case m.finished:
		status = viz.Success.Render("✓")
	case m.canceling:
		status = yellow.Render("…")
	}
	b.WriteString("  " + status + " " + white.Render(m.title) + "\n\n")

	b.WriteString("  " + viz.ProgressBar(m.fraction(), barWidth) + " " + dim.Render(fmt.Sprintf("%5.1f%%", m.fraction()*100)) + "\n")
	b.WriteString("  " + dim.Render(fmt.Sprintf("%d / %d points", m.done, m.total)))

	secs := m.elapsed.Seconds()
	if secs > 0 && m.done > 0 {
		b.WriteString(dimmer.Render(fmt.Sprintf("   %.0f pts/s", float64(m.done)/secs)))
	}
	b.WriteString(dimmer.Render(fmt.Sprintf("   %s", m.elapsed.Round(time.Millisecond))) + "\n")

	switch {
	case m.finished && m.err != nil:
		b.WriteString("\n  " + viz.Failure.Render(m.err.Error()) + "\n")
	case m.canceling:
		b.WriteString("\n  " + yellow.Render("canceling...") + "\n")
	case !m.finished:
		b.WriteString("\n  " + dim.Render("q cancel") + "\n")
	}
	return b.String()
}

// RunProgress runs job under a progress display. Pressing q or ctrl+c
// cancels the job's context; the job's own error is returned.
func RunProgress(ctx context.Context, title string, job Job, opts ...tea.ProgramOption) (*pointcloud.Cloud, error) {
	m := newProgressModel(ctx, title, job)
	defer m.cancel()
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return nil, err
	}
	fm := final.(progressModel)
	if !fm.finished {
		return nil, chaos.ErrCanceled
	}
	return fm.cloud, fm.err
}
