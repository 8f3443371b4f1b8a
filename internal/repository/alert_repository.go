package repository

import (
	"context"

	"alertdesk_go/internal/model"
	"alertdesk_go/pkg/database"
	"alertdesk_go/pkg/event"

	"gorm.io/gorm"
)

// AlertRepository 定义告警的持久化操作。
type AlertRepository interface {
	// Save 新建或更新告警，并在同一事务内发送 post-save 信号。
	Save(ctx context.Context, alert *model.Alert) error
	FindByID(ctx context.Context, id uint) (*model.Alert, error)
	FindWithPagination(ctx context.Context, offset, limit int) ([]model.Alert, int64, error)
}

type alertRepository struct {
	db       *gorm.DB
	postSave *event.Signal[model.Alert]
}

func NewAlertRepository(db *gorm.DB, postSave *event.Signal[model.Alert]) AlertRepository {
	return &alertRepository{db: db, postSave: postSave}
}

func (r *alertRepository) Save(ctx context.Context, alert *model.Alert) error {
	if alert == nil {
		return ErrNilRecord
	}
	return saveAndNotify(ctx, r.db, alert, alert.ID, r.postSave, func(tx *gorm.DB) error {
		return affected(tx, &model.Alert{}, alert.ID, tx.Model(&model.Alert{}).
			Where("id = ?", alert.ID).
			Select("title", "level", "status", "outcome", "assigned_user_id", "incidents", "data", "updated_at").
			Updates(alert))
	})
}

func (r *alertRepository) FindByID(ctx context.Context, id uint) (*model.Alert, error) {
	var alert model.Alert
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) FindWithPagination(ctx context.Context, offset, limit int) ([]model.Alert, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	db := database.Conn(ctx, r.db)
	var total int64
	if err := db.Model(&model.Alert{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Alert{}, 0, nil
	}

	var alerts []model.Alert
	if err := db.Order("id DESC").Offset(offset).Limit(limit).Find(&alerts).Error; err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}
