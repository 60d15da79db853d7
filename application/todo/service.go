/*
Package todo Application Layer - 任务存储

ApplicationService 是任务状态的唯一持有者，也是快照的唯一写入者:
1. 所有变更在写锁内串行执行，先在聚合副本上修改
2. 副本快照持久化成功后才提交为当前状态并返回成功
3. 持久化失败返回 shared.ErrPersistFailed，内存状态保持不变
4. 启动或重新加载时快照损坏则进入降级模式，拒绝所有任务操作直到 Reset 或 Reload 成功
*/
package todo

import (
	"context"
	"errors"
	"sync"

	"todo/domain/shared"
	"todo/domain/todo"
	"todo/pkg/logger"

	"go.uber.org/zap"
)

const entityName = "task"

// ApplicationService 任务存储应用服务
type ApplicationService struct {
	repo todo.Repository

	mu       sync.RWMutex
	list     *todo.List
	degraded error
}

// NewApplicationService 创建任务存储并从仓储加载快照。
// 快照损坏不会返回错误，服务以降级模式启动，由 Status 报告原因。
func NewApplicationService(ctx context.Context, repo todo.Repository) *ApplicationService {
	s := &ApplicationService{
		repo: repo,
		list: todo.NewList(),
	}
	if _, err := s.Reload(ctx); err != nil {
		logger.Error("Task store started in degraded mode", zap.Error(err))
	}
	return s
}

// ListTasks 返回全部任务（插入顺序）
func (s *ApplicationService) ListTasks(ctx context.Context) ([]*TaskResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.degraded != nil {
		return nil, s.degraded
	}
	return toTaskResponses(s.list.Tasks()), nil
}

// CreateTask 创建任务
func (s *ApplicationService) CreateTask(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	if req.Task == nil {
		return nil, shared.NewValidationError(entityName, "task", "task is required")
	}

	var created todo.Task
	err := s.mutate(ctx, func(l *todo.List) error {
		var err error
		created, err = l.Add(*req.Task)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Task created", zap.Int64("task_id", created.ID()))
	return toTaskResponse(created), nil
}

// UpdateTask 替换任务文本，id 不变
func (s *ApplicationService) UpdateTask(ctx context.Context, req UpdateTaskRequest) (*TaskResponse, error) {
	if req.Task == nil {
		return nil, shared.NewValidationError(entityName, "task", "task is required")
	}

	var updated todo.Task
	err := s.mutate(ctx, func(l *todo.List) error {
		var err error
		updated, err = l.Update(req.ID, *req.Task)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Task updated", zap.Int64("task_id", updated.ID()))
	return toTaskResponse(updated), nil
}

// DeleteTask 删除任务
func (s *ApplicationService) DeleteTask(ctx context.Context, id int64) (*DeleteTaskResponse, error) {
	err := s.mutate(ctx, func(l *todo.List) error {
		return l.Remove(id)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Task deleted", zap.Int64("task_id", id))
	return &DeleteTaskResponse{Message: "Task deleted"}, nil
}

// Reset 清空任务与计数器并持久化空快照。成功的 Reset 同时解除降级模式。
func (s *ApplicationService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, todo.EmptySnapshot()); err != nil {
		return shared.NewPersistError(entityName, err)
	}
	s.list = todo.NewList()
	if s.degraded != nil {
		logger.FromContext(ctx).Warn("Task store repaired by reset", zap.NamedError("previous", s.degraded))
	}
	s.degraded = nil

	logger.FromContext(ctx).Info("Task store reset")
	return nil
}

// Reload 从仓储重新读取快照，替换内存状态。
// 用于感知外部（如测试清理脚本）对快照的覆盖，或在修复快照文件后解除降级。
func (s *ApplicationService) Reload(ctx context.Context) (*StatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrStorageCorrupt) {
			err = shared.NewStorageCorruptError(entityName, err)
		}
		s.degraded = err
		return nil, err
	}

	list, err := todo.Restore(snapshot)
	if err != nil {
		s.degraded = err
		return nil, err
	}

	s.list = list
	s.degraded = nil

	logger.FromContext(ctx).Info("Task snapshot loaded",
		zap.Bool("found", snapshot != nil),
		zap.Int("task_count", list.Len()),
		zap.Int64("last_id", list.LastID()))
	return s.statusLocked(), nil
}

// Status 返回存储状态
func (s *ApplicationService) Status() *StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusLocked()
}

func (s *ApplicationService) statusLocked() *StatusResponse {
	status := &StatusResponse{
		Healthy:   s.degraded == nil,
		TaskCount: s.list.Len(),
		LastID:    s.list.LastID(),
	}
	if s.degraded != nil {
		status.DegradedReason = s.degraded.Error()
	}
	return status
}

// mutate 在写锁内对聚合副本执行 fn，持久化成功后提交。
func (s *ApplicationService) mutate(ctx context.Context, fn func(l *todo.List) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.degraded != nil {
		return s.degraded
	}

	next := s.list.Clone()
	if err := fn(next); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, next.Snapshot()); err != nil {
		logger.FromContext(ctx).Error("Failed to persist task snapshot", zap.Error(err))
		return shared.NewPersistError(entityName, err)
	}

	s.list = next
	return nil
}
