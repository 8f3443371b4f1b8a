package repository

import (
	"context"

	"alertdesk_go/internal/model"
	"alertdesk_go/pkg/database"
	"alertdesk_go/pkg/event"

	"gorm.io/gorm"
)

// AnalysisRepository 定义告警分析记录的持久化操作。
type AnalysisRepository interface {
	Save(ctx context.Context, analysis *model.Analysis) error
	FindByID(ctx context.Context, id uint) (*model.Analysis, error)
	FindByAlert(ctx context.Context, alertID uint) (*model.Analysis, error)
}

type analysisRepository struct {
	db       *gorm.DB
	postSave *event.Signal[model.Analysis]
}

func NewAnalysisRepository(db *gorm.DB, postSave *event.Signal[model.Analysis]) AnalysisRepository {
	return &analysisRepository{db: db, postSave: postSave}
}

func (r *analysisRepository) Save(ctx context.Context, analysis *model.Analysis) error {
	if analysis == nil {
		return ErrNilRecord
	}
	return saveAndNotify(ctx, r.db, analysis, analysis.ID, r.postSave, func(tx *gorm.DB) error {
		return affected(tx, &model.Analysis{}, analysis.ID, tx.Model(&model.Analysis{}).
			Where("id = ?", analysis.ID).
			Select("analyst_id", "notes", "updated_at").
			Updates(analysis))
	})
}

func (r *analysisRepository) FindByID(ctx context.Context, id uint) (*model.Analysis, error) {
	var analysis model.Analysis
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&analysis).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (r *analysisRepository) FindByAlert(ctx context.Context, alertID uint) (*model.Analysis, error) {
	var analysis model.Analysis
	if err := database.Conn(ctx, r.db).Where("alert_id = ?", alertID).First(&analysis).Error; err != nil {
		return nil, err
	}
	return &analysis, nil
}
