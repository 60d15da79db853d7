package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todo/pkg/client"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeLister struct {
	tasks []client.Task
	err   error
}

func (f *fakeLister) List(context.Context) ([]client.Task, error) {
	return f.tasks, f.err
}

func TestWatchModel_FetchAndRender(t *testing.T) {
	api := &fakeLister{tasks: []client.Task{{ID: 1, Task: "buy milk"}, {ID: 2, Task: "walk dog"}}}
	m := newWatchModel(api, "http://localhost:5000", time.Second, time.Second)

	if view := m.View(); !strings.Contains(view, "Loading...") {
		t.Errorf("initial view = %q", view)
	}

	msg := m.Init()()
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Error("expected tick command after fetch")
	}

	view := m.View()
	for _, want := range []string{"buy milk", "walk dog", "2 task(s)", "http://localhost:5000"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWatchModel_KeepsTasksOnError(t *testing.T) {
	api := &fakeLister{tasks: []client.Task{{ID: 1, Task: "a"}}}
	m := newWatchModel(api, "addr", time.Second, time.Second)
	m.Update(m.fetch()())

	api.err = errors.New("connection refused")
	m.Update(m.fetch()())

	view := m.View()
	if !strings.Contains(view, "connection refused") || !strings.Contains(view, "1 task(s)") {
		t.Errorf("view = %q", view)
	}
}

func TestWatchModel_Quit(t *testing.T) {
	m := newWatchModel(&fakeLister{}, "addr", time.Second, time.Second)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
