/*
Package todo 定义任务清单领域模型。
*/
package todo

import "strings"

// Task 任务实体。id 由 List 分配，创建后不可变。
type Task struct {
	id   int64
	text string
}

// NewTask 校验并构造任务。text 会去除首尾空白。
func NewTask(id int64, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, NewEmptyTextError()
	}
	return Task{id: id, text: text}, nil
}

func (t Task) ID() int64 {
	return t.id
}

func (t Task) Text() string {
	return t.text
}
