package todo

import (
	"errors"
	"math"
	"testing"

	"todo/domain/shared"
)

func TestListAddAssignsIncreasingIDs(t *testing.T) {
	l := NewList()

	seen := make(map[int64]bool)
	var prev int64
	for i := 0; i < 20; i++ {
		task, err := l.Add("task")
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}
		if seen[task.ID()] {
			t.Fatalf("duplicate id %d", task.ID())
		}
		if task.ID() <= prev {
			t.Fatalf("id %d not greater than previous %d", task.ID(), prev)
		}
		seen[task.ID()] = true
		prev = task.ID()
	}
}

func TestListIDsNotReusedAfterRemove(t *testing.T) {
	l := NewList()
	a, _ := l.Add("a")
	b, _ := l.Add("b")

	if err := l.Remove(b.ID()); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	c, err := l.Add("c")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if c.ID() <= b.ID() {
		t.Errorf("id reused: got %d after deleting %d", c.ID(), b.ID())
	}

	tasks := l.Tasks()
	if len(tasks) != 2 || tasks[0].ID() != a.ID() || tasks[1].ID() != c.ID() {
		t.Errorf("unexpected order: %+v", tasks)
	}
}

func TestListAddRejectsBlankText(t *testing.T) {
	l := NewList()
	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := l.Add(text); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("Add(%q) error = %v, want ErrInvalidInput", text, err)
		}
	}
	if l.LastID() != 0 {
		t.Errorf("LastID() = %d, rejected input must not consume an id", l.LastID())
	}
}

func TestListAddTrimsText(t *testing.T) {
	l := NewList()
	task, err := l.Add("  buy milk \n")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if task.Text() != "buy milk" {
		t.Errorf("Text() = %q", task.Text())
	}
}

func TestListUpdateKeepsID(t *testing.T) {
	l := NewList()
	task, _ := l.Add("buy milk")

	for i := 0; i < 2; i++ {
		updated, err := l.Update(task.ID(), "buy oat milk")
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.ID() != task.ID() || updated.Text() != "buy oat milk" {
			t.Errorf("Update() = %+v", updated)
		}
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestListNotFoundSymmetry(t *testing.T) {
	l := NewList()
	task, _ := l.Add("x")
	_ = l.Remove(task.ID())

	for _, id := range []int64{task.ID(), 999999} {
		if _, err := l.Update(id, "y"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Update(%d) error = %v, want ErrNotFound", id, err)
		}
		if err := l.Remove(id); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Remove(%d) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := NewList()
	task, _ := l.Add("a")

	c := l.Clone()
	if _, err := c.Update(task.ID(), "changed"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Add("b"); err != nil {
		t.Fatal(err)
	}

	got, _ := l.Find(task.ID())
	if got.Text() != "a" || l.Len() != 1 || l.LastID() != 1 {
		t.Errorf("original mutated through clone: %+v lastID=%d", l.Tasks(), l.LastID())
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name       string
		snapshot   *Snapshot
		wantLastID int64
		wantLen    int
		wantErr    bool
	}{
		{name: "nil", snapshot: nil, wantLastID: 0, wantLen: 0},
		{name: "empty", snapshot: EmptySnapshot(), wantLastID: 0, wantLen: 0},
		{
			name:       "counter derived from max id",
			snapshot:   &Snapshot{Todos: []Record{{ID: 3, Text: "a"}, {ID: 7, Text: "b"}}},
			wantLastID: 7,
			wantLen:    2,
		},
		{
			name:       "persisted counter wins when larger",
			snapshot:   &Snapshot{Todos: []Record{{ID: 2, Text: "a"}}, LastID: 9},
			wantLastID: 9,
			wantLen:    1,
		},
		{
			name:     "duplicate ids",
			snapshot: &Snapshot{Todos: []Record{{ID: 1, Text: "a"}, {ID: 1, Text: "b"}}},
			wantErr:  true,
		},
		{
			name:     "non positive id",
			snapshot: &Snapshot{Todos: []Record{{ID: 0, Text: "a"}}},
			wantErr:  true,
		},
		{
			name:     "empty text",
			snapshot: &Snapshot{Todos: []Record{{ID: 1, Text: " "}}},
			wantErr:  true,
		},
		{
			name:     "negative counter",
			snapshot: &Snapshot{Todos: []Record{}, LastID: -1},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Restore(tt.snapshot)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrStorageCorrupt) {
					t.Fatalf("Restore() error = %v, want ErrStorageCorrupt", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Restore() error = %v", err)
			}
			if l.LastID() != tt.wantLastID {
				t.Errorf("LastID() = %d, want %d", l.LastID(), tt.wantLastID)
			}
			if l.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", l.Len(), tt.wantLen)
			}

			next, err := l.Add("next")
			if err != nil {
				t.Fatal(err)
			}
			if next.ID() != tt.wantLastID+1 {
				t.Errorf("next id = %d, want %d", next.ID(), tt.wantLastID+1)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	l := NewList()
	_, _ = l.Add("a")
	b, _ := l.Add("b")
	_ = l.Remove(b.ID())

	restored, err := Restore(l.Snapshot())
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if restored.LastID() != 2 {
		t.Errorf("LastID() = %d, want 2", restored.LastID())
	}
	if restored.Len() != 1 {
		t.Errorf("Len() = %d, want 1", restored.Len())
	}
}

func TestListAddFailsWhenIDSpaceExhausted(t *testing.T) {
	l, err := Restore(&Snapshot{Todos: []Record{{ID: 5, Text: "a"}}, LastID: math.MaxInt64})
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	if _, err := l.Add("x"); !errors.Is(err, ErrIDExhausted) {
		t.Fatalf("Add() error = %v, want ErrIDExhausted", err)
	}
	if l.Len() != 1 || l.LastID() != math.MaxInt64 {
		t.Errorf("list changed by failed Add: len=%d lastID=%d", l.Len(), l.LastID())
	}
	for _, task := range l.Tasks() {
		if task.ID() < 1 {
			t.Errorf("non-positive id %d in list", task.ID())
		}
	}
}
