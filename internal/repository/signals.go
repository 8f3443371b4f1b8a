package repository

import (
	"context"
	"errors"

	"alertdesk_go/internal/model"
	"alertdesk_go/pkg/database"
	"alertdesk_go/pkg/event"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNilRecord 表示调用方传入了 nil 记录。
var ErrNilRecord = errors.New("record is nil")

// PostSave 汇总各类记录的 post-save 信号。
// 仓库在事务内完成写入后发送信号，接收者与写入处于同一事务。
type PostSave struct {
	Alert    *event.Signal[model.Alert]
	Analysis *event.Signal[model.Analysis]
	Comment  *event.Signal[model.Comment]
}

func NewPostSave() *PostSave {
	return &PostSave{
		Alert:    event.NewSignal[model.Alert](),
		Analysis: event.NewSignal[model.Analysis](),
		Comment:  event.NewSignal[model.Comment](),
	}
}

// saveAndNotify 是 Alert/Analysis/Comment 共用的保存流程：
//  1. 写入前根据主键是否为零判断是否新建
//  2. 在事务中 INSERT（不级联写关联对象）或执行 update
//  3. 把事务绑定到 ctx 后发送 post-save 信号
//
// update 返回 gorm.ErrRecordNotFound 时整个事务回滚，信号不会发出。
func saveAndNotify[T any](ctx context.Context, db *gorm.DB, record *T, id uint, signal *event.Signal[T], update func(tx *gorm.DB) error) error {
	if record == nil {
		return ErrNilRecord
	}
	created := id == 0

	return database.Conn(ctx, db).Transaction(func(tx *gorm.DB) error {
		if created {
			if err := tx.Omit(clause.Associations).Create(record).Error; err != nil {
				return err
			}
		} else if err := update(tx); err != nil {
			return err
		}

		signal.Send(database.WithTx(ctx, tx), record, created)
		return nil
	})
}

// affected 检查按主键 UPDATE 的结果。
// MySQL 默认只统计实际变更的行，内容未变时 RowsAffected 为 0，
// 此时再按主键确认记录是否存在，只有不存在才返回 gorm.ErrRecordNotFound。
func affected(tx *gorm.DB, table any, id uint, result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := tx.Session(&gorm.Session{NewDB: true}).Model(table).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
