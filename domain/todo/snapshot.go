package todo

import (
	"context"
	"fmt"

	"todo/domain/shared"
)

// Snapshot 任务清单的持久化形式：有序任务记录 + 最后分配的 id。
type Snapshot struct {
	Todos  []Record
	LastID int64
}

// Record 快照中的单条任务。
type Record struct {
	ID   int64
	Text string
}

// EmptySnapshot 返回空快照，序列化后为 {"todos": []}。
func EmptySnapshot() *Snapshot {
	return &Snapshot{Todos: []Record{}}
}

// Repository 快照仓储端口。
//
// Load 在快照不存在时返回 (nil, nil)；快照无法读取或格式错误时返回
// 包装 shared.ErrStorageCorrupt 的错误。Save 必须整体替换快照，
// 返回 nil 即代表该快照已持久化。
type Repository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
}

// Restore 从快照重建任务清单。重复 id、非正 id 或空文本均视为快照损坏。
func Restore(s *Snapshot) (*List, error) {
	l := NewList()
	if s == nil {
		return l, nil
	}

	seen := make(map[int64]struct{}, len(s.Todos))
	for i, rec := range s.Todos {
		if rec.ID < 1 {
			return nil, shared.NewStorageCorruptError(entityName, fmt.Errorf("todos[%d]: invalid id %d", i, rec.ID))
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, shared.NewStorageCorruptError(entityName, fmt.Errorf("todos[%d]: duplicate id %d", i, rec.ID))
		}
		seen[rec.ID] = struct{}{}

		task, err := NewTask(rec.ID, rec.Text)
		if err != nil {
			return nil, shared.NewStorageCorruptError(entityName, fmt.Errorf("todos[%d]: %w", i, err))
		}
		l.tasks = append(l.tasks, task)
		if rec.ID > l.lastID {
			l.lastID = rec.ID
		}
	}

	if s.LastID < 0 {
		return nil, shared.NewStorageCorruptError(entityName, fmt.Errorf("invalid last_id %d", s.LastID))
	}
	if s.LastID > l.lastID {
		l.lastID = s.LastID
	}
	return l, nil
}
