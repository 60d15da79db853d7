package memory

import (
	"context"
	"sync"

	"todo/domain/todo"
)

// SnapshotRepository 进程内快照仓储，不跨进程持久化。
type SnapshotRepository struct {
	mu       sync.RWMutex
	snapshot *todo.Snapshot
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

func (r *SnapshotRepository) Load(ctx context.Context) (*todo.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil, nil
	}
	return cloneSnapshot(r.snapshot), nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot *todo.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshot = cloneSnapshot(snapshot)
	return nil
}

func cloneSnapshot(s *todo.Snapshot) *todo.Snapshot {
	result := &todo.Snapshot{Todos: make([]todo.Record, len(s.Todos)), LastID: s.LastID}
	copy(result.Todos, s.Todos)
	return result
}

var _ todo.Repository = (*SnapshotRepository)(nil)
