package po

import "todo/domain/todo"

// MetaLastID todo_meta 中保存 id 计数器的键
const MetaLastID = "last_id"

// TodoPO 任务行。Position 保持插入顺序，与 id 解耦。
type TodoPO struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false"`
	Position int64  `gorm:"not null;index"`
	Task     string `gorm:"type:text;not null"`
}

func (TodoPO) TableName() string {
	return "todos"
}

// TodoMetaPO 快照元数据（计数器等）
type TodoMetaPO struct {
	Name  string `gorm:"primaryKey;size:64"`
	Value int64  `gorm:"not null"`
}

func (TodoMetaPO) TableName() string {
	return "todo_meta"
}

func FromSnapshot(s *todo.Snapshot) ([]TodoPO, []TodoMetaPO) {
	rows := make([]TodoPO, 0, len(s.Todos))
	for i, rec := range s.Todos {
		rows = append(rows, TodoPO{
			ID:       rec.ID,
			Position: int64(i),
			Task:     rec.Text,
		})
	}
	meta := []TodoMetaPO{{Name: MetaLastID, Value: s.LastID}}
	return rows, meta
}

// ToSnapshot 行需按 Position 排序传入
func ToSnapshot(rows []TodoPO, meta []TodoMetaPO) *todo.Snapshot {
	s := &todo.Snapshot{Todos: make([]todo.Record, 0, len(rows))}
	for _, row := range rows {
		s.Todos = append(s.Todos, todo.Record{ID: row.ID, Text: row.Task})
	}
	for _, m := range meta {
		if m.Name == MetaLastID {
			s.LastID = m.Value
		}
	}
	return s
}
