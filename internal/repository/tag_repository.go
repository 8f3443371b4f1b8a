package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alertdesk_go/internal/model"
	"alertdesk_go/pkg/database"

	"gorm.io/gorm"
)

// TagRepository 定义标签的持久化操作。
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	FindAll(ctx context.Context) ([]model.Tag, error)
	FindByName(ctx context.Context, name string) (*model.Tag, error)
	FindByTopic(ctx context.Context, topic string) ([]model.Tag, error)
	// FindOrCreate 按名称查找标签，不存在时以给定主题创建
	FindOrCreate(ctx context.Context, name, topic string) (*model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	if tag == nil {
		return ErrNilRecord
	}
	if strings.TrimSpace(tag.Name) == "" {
		return fmt.Errorf("tag name is required")
	}
	return database.Conn(ctx, r.db).Create(tag).Error
}

func (r *tagRepository) FindAll(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := database.Conn(ctx, r.db).Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := database.Conn(ctx, r.db).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByTopic(ctx context.Context, topic string) ([]model.Tag, error) {
	var tags []model.Tag
	if err := database.Conn(ctx, r.db).
		Where("topic = ?", topic).
		Order("id ASC").
		Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindOrCreate(ctx context.Context, name, topic string) (*model.Tag, error) {
	tag, err := r.FindByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = &model.Tag{Name: name, Topic: topic}
	if err := r.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}
