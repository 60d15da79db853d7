package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todo/pkg/client"

	tea "github.com/charmbracelet/bubbletea"
)

type lister interface {
	List(ctx context.Context) ([]client.Task, error)
}

type tickMsg time.Time

type tasksMsg struct {
	tasks []client.Task
	err   error
	at    time.Time
}

// watchModel 周期性拉取任务列表并渲染
type watchModel struct {
	api      lister
	addr     string
	interval time.Duration
	timeout  time.Duration

	tasks   []client.Task
	err     error
	updated time.Time
}

func newWatchModel(api lister, addr string, interval, timeout time.Duration) *watchModel {
	return &watchModel{
		api:      api,
		addr:     addr,
		interval: interval,
		timeout:  timeout,
	}
}

func runWatch(ctx context.Context, m *watchModel) error {
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m *watchModel) Init() tea.Cmd {
	return m.fetch()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			return m, m.fetch()
		}
	case tickMsg:
		return m, m.fetch()
	case tasksMsg:
		m.err = msg.err
		if msg.err == nil {
			m.tasks = msg.tasks
		}
		m.updated = msg.at
		return m, tickCmd(m.interval)
	}
	return m, nil
}

func (m *watchModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "todo @ %s\n\n", m.addr)

	if m.err != nil {
		fmt.Fprintf(&b, "error: %v\n\n", m.err)
	}
	if m.updated.IsZero() {
		b.WriteString("Loading...\n")
	} else if len(m.tasks) == 0 {
		b.WriteString("(no tasks)\n")
	} else {
		writeTasks(&b, m.tasks)
	}

	fmt.Fprintf(&b, "\n%d task(s)", len(m.tasks))
	if !m.updated.IsZero() {
		fmt.Fprintf(&b, " | updated %s", m.updated.Format("15:04:05"))
	}
	fmt.Fprintf(&b, " | refresh %s | r: refresh  q: quit\n", m.interval)
	return b.String()
}

func (m *watchModel) fetch() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		tasks, err := m.api.List(ctx)
		return tasksMsg{tasks: tasks, err: err, at: time.Now()}
	}
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
