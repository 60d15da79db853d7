package todo

import "math"

// List 任务清单聚合：按插入顺序保存任务，并维护单调递增的 id 计数器。
// List 不是并发安全的，由应用层串行化访问。
type List struct {
	tasks  []Task
	lastID int64
}

func NewList() *List {
	return &List{tasks: make([]Task, 0)}
}

// Tasks 返回任务副本，调用方修改不影响聚合。
func (l *List) Tasks() []Task {
	result := make([]Task, len(l.tasks))
	copy(result, l.tasks)
	return result
}

func (l *List) Len() int {
	return len(l.tasks)
}

// LastID 返回最后分配的 id；从未分配过时为 0。
func (l *List) LastID() int64 {
	return l.lastID
}

// Find 按 id 精确查找任务。
func (l *List) Find(id int64) (Task, bool) {
	if i := l.indexOf(id); i >= 0 {
		return l.tasks[i], true
	}
	return Task{}, false
}

// Add 分配新 id 并追加任务。id 永不复用，即使对应任务已被删除。
func (l *List) Add(text string) (Task, error) {
	if l.lastID == math.MaxInt64 {
		return Task{}, NewIDExhaustedError()
	}
	task, err := NewTask(l.lastID+1, text)
	if err != nil {
		return Task{}, err
	}
	l.tasks = append(l.tasks, task)
	l.lastID = task.id
	return task, nil
}

// Update 替换任务文本，id 不变。
func (l *List) Update(id int64, text string) (Task, error) {
	i := l.indexOf(id)
	if i < 0 {
		return Task{}, NewTaskNotFoundError(id)
	}
	task, err := NewTask(id, text)
	if err != nil {
		return Task{}, err
	}
	l.tasks[i] = task
	return task, nil
}

// Remove 删除任务，保持其余任务的相对顺序。
func (l *List) Remove(id int64) error {
	i := l.indexOf(id)
	if i < 0 {
		return NewTaskNotFoundError(id)
	}
	l.tasks = append(l.tasks[:i], l.tasks[i+1:]...)
	return nil
}

// Clone 深拷贝聚合，用于先在副本上变更、持久化成功后再提交。
func (l *List) Clone() *List {
	return &List{tasks: l.Tasks(), lastID: l.lastID}
}

// Snapshot 导出持久化快照。
func (l *List) Snapshot() *Snapshot {
	s := &Snapshot{Todos: make([]Record, len(l.tasks)), LastID: l.lastID}
	for i, t := range l.tasks {
		s.Todos[i] = Record{ID: t.id, Text: t.text}
	}
	return s
}

func (l *List) indexOf(id int64) int {
	for i, t := range l.tasks {
		if t.id == id {
			return i
		}
	}
	return -1
}
