package shared

import "context"

// UnitOfWork 管理事务边界：fn 内通过 ctx 传递的事务执行的写操作要么全部提交，要么全部回滚。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
