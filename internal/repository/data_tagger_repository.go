package repository

import (
	"context"
	"fmt"
	"strings"

	"alertdesk_go/internal/model"
	"alertdesk_go/pkg/database"

	"gorm.io/gorm"
)

// DataTaggerRepository 定义告警数据打标规则的持久化操作。
type DataTaggerRepository interface {
	Create(ctx context.Context, tagger *model.DataTagger) error
	FindAll(ctx context.Context) ([]model.DataTagger, error)
}

type dataTaggerRepository struct {
	db *gorm.DB
}

func NewDataTaggerRepository(db *gorm.DB) DataTaggerRepository {
	return &dataTaggerRepository{db: db}
}

func (r *dataTaggerRepository) Create(ctx context.Context, tagger *model.DataTagger) error {
	if tagger == nil {
		return ErrNilRecord
	}
	if strings.TrimSpace(tagger.FieldName) == "" || strings.TrimSpace(tagger.Topic) == "" {
		return fmt.Errorf("data tagger requires field name and topic")
	}
	return database.Conn(ctx, r.db).Create(tagger).Error
}

func (r *dataTaggerRepository) FindAll(ctx context.Context) ([]model.DataTagger, error) {
	var taggers []model.DataTagger
	if err := database.Conn(ctx, r.db).Order("id ASC").Find(&taggers).Error; err != nil {
		return nil, err
	}
	return taggers, nil
}
