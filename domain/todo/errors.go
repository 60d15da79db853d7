package todo

import (
	"errors"
	"math"
	"strconv"

	"todo/domain/shared"
)

const entityName = "task"

// ErrIDExhausted 计数器已到达 int64 上限，无法再分配新 id
var ErrIDExhausted = errors.New("task id space exhausted")

func NewTaskNotFoundError(id int64) error {
	return &taskDomainError{
		sentinel: shared.ErrNotFound,
		message:  "task not found: " + strconv.FormatInt(id, 10),
		stack:    shared.CaptureStack(3),
	}
}

func NewEmptyTextError() error {
	return &taskDomainError{
		sentinel: shared.ErrInvalidInput,
		field:    "task",
		message:  "task text cannot be empty",
		stack:    shared.CaptureStack(3),
	}
}

func NewIDExhaustedError() error {
	return &taskDomainError{
		sentinel: ErrIDExhausted,
		message:  "task id space exhausted: last id is " + strconv.FormatInt(math.MaxInt64, 10),
		stack:    shared.CaptureStack(3),
	}
}

type taskDomainError struct {
	sentinel error
	field    string
	message  string
	stack    []uintptr
}

func (e *taskDomainError) Error() string   { return e.message }
func (e *taskDomainError) Unwrap() error   { return e.sentinel }
func (e *taskDomainError) Stack() []string { return shared.FormatStack(e.stack) }
