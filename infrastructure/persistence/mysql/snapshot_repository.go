package mysql

import (
	"context"
	"fmt"

	"todo/domain/shared"
	"todo/domain/todo"
	"todo/infrastructure/persistence"
	"todo/infrastructure/persistence/mysql/po"
	"todo/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// SnapshotRepository 将任务快照保存在 todos / todo_meta 两张表中。
// 每次 Save 在一个事务内整体替换快照。
type SnapshotRepository struct {
	db          *gorm.DB
	uow         shared.UnitOfWork
	retryConfig retry.Config
}

func NewSnapshotRepository(db *gorm.DB, retryConfig retry.Config) *SnapshotRepository {
	return &SnapshotRepository{
		db:          db,
		uow:         NewUnitOfWork(db, retryConfig),
		retryConfig: retryConfig,
	}
}

func (r *SnapshotRepository) getDB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

// Load 表为空且无计数器记录时视为快照不存在
func (r *SnapshotRepository) Load(ctx context.Context) (*todo.Snapshot, error) {
	var rows []po.TodoPO
	var meta []po.TodoMetaPO

	err := retry.ExecuteWithRetry(ctx, r.retryConfig, func(ctx context.Context) error {
		db := r.getDB(ctx)
		if err := db.Order("position ASC").Find(&rows).Error; err != nil {
			return err
		}
		return db.Find(&meta).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load task snapshot: %w", err)
	}

	if len(rows) == 0 && len(meta) == 0 {
		return nil, nil
	}
	return po.ToSnapshot(rows, meta), nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot *todo.Snapshot) error {
	rows, meta := po.FromSnapshot(snapshot)

	return r.uow.Execute(ctx, func(ctx context.Context) error {
		db := r.getDB(ctx)
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&po.TodoPO{}).Error; err != nil {
			return fmt.Errorf("failed to clear tasks: %w", err)
		}
		if len(rows) > 0 {
			if err := db.CreateInBatches(rows, 500).Error; err != nil {
				return fmt.Errorf("failed to insert tasks: %w", err)
			}
		}
		if err := db.Save(&meta).Error; err != nil {
			return fmt.Errorf("failed to save task counter: %w", err)
		}
		return nil
	})
}

// AutoMigrate 创建或更新快照表结构
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&po.TodoPO{}, &po.TodoMetaPO{}); err != nil {
		return fmt.Errorf("failed to migrate task tables: %w", err)
	}
	return nil
}

var _ todo.Repository = (*SnapshotRepository)(nil)
