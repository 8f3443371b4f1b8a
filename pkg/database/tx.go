package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx 把事务句柄绑定到 ctx 上。
// post-save 信号的接收者拿到这个 ctx 后，通过仓库写入的数据会落在同一个事务里。
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// Conn 返回 ctx 上绑定的事务；没有事务时退回 fallback。
// 返回值已经带上 ctx，调用方可以直接链式查询。
func Conn(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}
