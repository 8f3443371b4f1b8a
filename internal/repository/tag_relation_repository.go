package repository

import (
	"context"
	"fmt"

	"alertdesk_go/internal/model"
	"alertdesk_go/pkg/database"

	"gorm.io/gorm"
)

// TagRelationRepository 定义标签关联的持久化操作。关联只增不删。
type TagRelationRepository interface {
	Create(ctx context.Context, relation *model.TagRelation) error
	// FindByObject 返回对象上的全部关联（预加载 Tag），按创建顺序排列
	FindByObject(ctx context.Context, contentType string, objectID uint) ([]model.TagRelation, error)
	CountByObject(ctx context.Context, contentType string, objectID uint) (int64, error)
}

type tagRelationRepository struct {
	db *gorm.DB
}

func NewTagRelationRepository(db *gorm.DB) TagRelationRepository {
	return &tagRelationRepository{db: db}
}

func (r *tagRelationRepository) Create(ctx context.Context, relation *model.TagRelation) error {
	if relation == nil {
		return ErrNilRecord
	}
	if relation.TagID == 0 || relation.ObjectID == 0 || relation.ContentType == "" {
		return fmt.Errorf("tag relation requires tag, content type and object id")
	}
	return database.Conn(ctx, r.db).Omit("Tag").Create(relation).Error
}

func (r *tagRelationRepository) FindByObject(ctx context.Context, contentType string, objectID uint) ([]model.TagRelation, error) {
	var relations []model.TagRelation
	if err := database.Conn(ctx, r.db).
		Preload("Tag").
		Where("content_type = ? AND object_id = ?", contentType, objectID).
		Order("id ASC").
		Find(&relations).Error; err != nil {
		return nil, err
	}
	return relations, nil
}

func (r *tagRelationRepository) CountByObject(ctx context.Context, contentType string, objectID uint) (int64, error) {
	var count int64
	if err := database.Conn(ctx, r.db).
		Model(&model.TagRelation{}).
		Where("content_type = ? AND object_id = ?", contentType, objectID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
