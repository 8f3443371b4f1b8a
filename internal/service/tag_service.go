package service

import (
	"context"
	"errors"
	"strings"

	"alertdesk_go/internal/model"
	"alertdesk_go/internal/repository"

	"gorm.io/gorm"
)

// TagService 管理标签字典和告警数据打标规则。
type TagService interface {
	CreateTag(ctx context.Context, name, topic string) (*model.Tag, error)
	ListTags(ctx context.Context) ([]model.Tag, error)
	ListRelations(ctx context.Context, contentType string, objectID uint) ([]model.TagRelation, error)
	CreateDataTagger(ctx context.Context, tagger *model.DataTagger) (*model.DataTagger, error)
	ListDataTaggers(ctx context.Context) ([]model.DataTagger, error)
}

type tagService struct {
	tags      repository.TagRepository
	relations repository.TagRelationRepository
	taggers   repository.DataTaggerRepository
}

func NewTagService(tags repository.TagRepository, relations repository.TagRelationRepository, taggers repository.DataTaggerRepository) TagService {
	return &tagService{tags: tags, relations: relations, taggers: taggers}
}

func (s *tagService) CreateTag(ctx context.Context, name, topic string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.tags.FindByName(ctx, name); err == nil {
		return nil, ErrTagAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := &model.Tag{Name: name, Topic: strings.TrimSpace(topic)}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]model.Tag, error) {
	return s.tags.FindAll(ctx)
}

func (s *tagService) ListRelations(ctx context.Context, contentType string, objectID uint) ([]model.TagRelation, error) {
	switch contentType {
	case model.ContentTypeAlert, model.ContentTypeAnalysis, model.ContentTypeComment:
	default:
		return nil, ErrInvalidInput
	}
	if objectID == 0 {
		return nil, ErrInvalidInput
	}
	return s.relations.FindByObject(ctx, contentType, objectID)
}

func (s *tagService) CreateDataTagger(ctx context.Context, tagger *model.DataTagger) (*model.DataTagger, error) {
	if tagger == nil {
		return nil, ErrInvalidInput
	}
	tagger.FieldName = strings.TrimSpace(tagger.FieldName)
	tagger.Topic = strings.TrimSpace(tagger.Topic)
	if tagger.FieldName == "" || tagger.Topic == "" {
		return nil, ErrInvalidInput
	}
	if err := s.taggers.Create(ctx, tagger); err != nil {
		return nil, err
	}
	return tagger, nil
}

func (s *tagService) ListDataTaggers(ctx context.Context) ([]model.DataTagger, error) {
	return s.taggers.FindAll(ctx)
}
