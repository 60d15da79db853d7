/*
Package file 提供基于 JSON 文件的任务快照仓储。

每次 Save 整体重写快照：写入同目录临时文件、fsync、再 rename 覆盖，
保证读者只会看到旧快照或新快照之一。Load 对文件做 JSON Schema 校验，
任何无法读取或不合法的内容都视为存储损坏，不会被静默重置。
*/
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"todo/domain/shared"
	"todo/domain/todo"
	"todo/pkg/logger"

	"go.uber.org/zap"
)

const (
	entityName = "task"
	filePerm   = 0o644
)

// SnapshotRepository JSON 快照文件仓储
type SnapshotRepository struct {
	path string
}

func NewSnapshotRepository(path string) *SnapshotRepository {
	return &SnapshotRepository{path: path}
}

// Path 返回快照文件路径
func (r *SnapshotRepository) Path() string {
	return r.path
}

func (r *SnapshotRepository) Load(ctx context.Context) (*todo.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.FromContext(ctx).Info("Snapshot file not found, starting empty", zap.String("path", r.path))
			return nil, nil
		}
		return nil, shared.NewStorageCorruptError(entityName, fmt.Errorf("read %s: %w", r.path, err))
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		return nil, shared.NewStorageCorruptError(entityName, fmt.Errorf("parse %s: %w", r.path, err))
	}
	return snapshot, nil
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot *todo.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := writeFileAtomic(r.path, data, filePerm); err != nil {
		return fmt.Errorf("write snapshot %s: %w", r.path, err)
	}

	logger.FromContext(ctx).Debug("Snapshot written",
		zap.String("path", r.path),
		zap.Int("task_count", len(snapshot.Todos)))
	return nil
}

func decodeSnapshot(data []byte) (*todo.Snapshot, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: trailing data after snapshot")
	}
	if err := validateSnapshot(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var po snapshotPO
	if err := json.Unmarshal(data, &po); err != nil {
		return nil, err
	}
	return po.toDomain(), nil
}

func encodeSnapshot(snapshot *todo.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(fromSnapshotDomain(snapshot), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// writeFileAtomic 写入同目录临时文件后 rename 覆盖目标文件
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ todo.Repository = (*SnapshotRepository)(nil)
