package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressMsg reports simulation progress to the bar.
type ProgressMsg struct {
	Completed int
	Total     int
}

type progressDoneMsg struct{}

type progressModel struct {
	title     string
	bar       progress.Model
	completed int
	total     int
	done      bool
}

func newProgressModel(title string) progressModel {
	return progressModel{
		title: title,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		m.completed = msg.Completed
		m.total = msg.Total
		if m.total == 0 {
			return m, nil
		}
		return m, m.bar.SetPercent(float64(m.completed) / float64(m.total))

	case progressDoneMsg:
		m.done = true
		return m, tea.Quit

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s\n%s %s\n",
		HeaderStyle.Render(m.title),
		m.bar.View(),
		LabelStyle.Render(fmt.Sprintf("%s / %s", formatInt(m.completed), formatInt(m.total))),
	)
}

// ProgressBar is an animated terminal progress display. Report is safe to
// call from the simulation goroutine while the program runs on its own.
type ProgressBar struct {
	program *tea.Program
	done    chan struct{}
}

// NewProgressBar starts the display, writing to w.
func NewProgressBar(title string, w io.Writer) *ProgressBar {
	p := &ProgressBar{
		program: tea.NewProgram(newProgressModel(title),
			tea.WithOutput(w),
			tea.WithoutSignalHandler(),
		),
		done: make(chan struct{}),
	}
	go func() {
		defer close(p.done)
		_, _ = p.program.Run()
	}()
	return p
}

// Report updates the bar.
func (p *ProgressBar) Report(completed, total int) {
	p.program.Send(ProgressMsg{Completed: completed, Total: total})
}

// Stop tears the display down and waits for the terminal to be restored.
func (p *ProgressBar) Stop() {
	p.program.Send(progressDoneMsg{})
	<-p.done
}
