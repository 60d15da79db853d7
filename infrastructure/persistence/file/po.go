package file

import "todo/domain/todo"

// snapshotPO 快照文件格式: {"todos": [{"id": 1, "task": "..."}], "last_id": 1}
// last_id 为 0 时省略，空存储序列化为 {"todos": []}。
type snapshotPO struct {
	Todos  []todoPO `json:"todos"`
	LastID int64    `json:"last_id,omitempty"`
}

type todoPO struct {
	ID   int64  `json:"id"`
	Task string `json:"task"`
}

func fromSnapshotDomain(s *todo.Snapshot) *snapshotPO {
	po := &snapshotPO{Todos: make([]todoPO, len(s.Todos)), LastID: s.LastID}
	for i, rec := range s.Todos {
		po.Todos[i] = todoPO{ID: rec.ID, Task: rec.Text}
	}
	return po
}

func (po *snapshotPO) toDomain() *todo.Snapshot {
	s := &todo.Snapshot{Todos: make([]todo.Record, len(po.Todos)), LastID: po.LastID}
	for i, t := range po.Todos {
		s.Todos[i] = todo.Record{ID: t.ID, Text: t.Task}
	}
	return s
}
