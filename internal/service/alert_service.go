package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"alertdesk_go/internal/model"
	"alertdesk_go/internal/repository"
	"alertdesk_go/pkg/log"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateAlertInput 是新建告警的参数。
type CreateAlertInput struct {
	Title          string
	Level          string
	AssignedUserID *uint
	Data           json.RawMessage
}

// UpdateAlertInput 是更新告警的参数，nil 字段表示不修改。
type UpdateAlertInput struct {
	Title          *string
	Level          *string
	Status         *string
	Outcome        *string
	AssignedUserID *uint
}

// AlertDetail 聚合告警详情页需要的全部数据。
type AlertDetail struct {
	Alert    *model.Alert    `json:"alert"`
	Tags     []model.Tag     `json:"tags"`
	Analysis *model.Analysis `json:"analysis"`
	Comments []model.Comment `json:"comments"`
}

// AlertService 封装告警、分析、评论的业务逻辑。
// 所有写操作都经由仓库的 Save 完成，post-save 接收者（通知、打标）因此总会被触发。
type AlertService interface {
	Create(ctx context.Context, input CreateAlertInput) (*model.Alert, error)
	Get(ctx context.Context, id uint) (*AlertDetail, error)
	List(ctx context.Context, page, size int) ([]model.Alert, int64, error)
	Update(ctx context.Context, id uint, input UpdateAlertInput) (*model.Alert, error)
	// SaveAnalysis 新建或覆盖告警的分析备注
	SaveAnalysis(ctx context.Context, alertID, analystID uint, notes string) (*model.Analysis, error)
	AddComment(ctx context.Context, alertID, userID uint, content string) (*model.Comment, error)
	// UpdateComment 只允许作者本人修改
	UpdateComment(ctx context.Context, commentID, userID uint, content string) (*model.Comment, error)
	// AssociatedTags 返回对象上的全部关联标签，按关联创建顺序，可能重复
	AssociatedTags(ctx context.Context, contentType string, objectID uint) ([]model.Tag, error)
}

type alertService struct {
	alerts    repository.AlertRepository
	analyses  repository.AnalysisRepository
	comments  repository.CommentRepository
	relations repository.TagRelationRepository
}

func NewAlertService(
	alerts repository.AlertRepository,
	analyses repository.AnalysisRepository,
	comments repository.CommentRepository,
	relations repository.TagRelationRepository,
) AlertService {
	return &alertService{
		alerts:    alerts,
		analyses:  analyses,
		comments:  comments,
		relations: relations,
	}
}

func (s *alertService) Create(ctx context.Context, input CreateAlertInput) (*model.Alert, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}
	level := strings.ToUpper(strings.TrimSpace(input.Level))
	if level == "" {
		level = model.LevelInfo
	}
	if !model.ValidLevel(level) {
		return nil, ErrInvalidInput
	}
	if len(input.Data) > 0 && !json.Valid(input.Data) {
		return nil, ErrInvalidInput
	}

	alert := &model.Alert{
		Title:          title,
		Level:          level,
		Status:         model.StatusNew,
		AssignedUserID: input.AssignedUserID,
		Incidents:      1,
		Data:           datatypes.JSON(input.Data),
	}
	if err := s.alerts.Save(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

func (s *alertService) Get(ctx context.Context, id uint) (*AlertDetail, error) {
	alert, err := s.findAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	tags, err := s.AssociatedTags(ctx, model.ContentTypeAlert, alert.ID)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyses.FindByAlert(ctx, alert.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		analysis = nil
	}

	comments, err := s.comments.FindByAlert(ctx, alert.ID)
	if err != nil {
		return nil, err
	}

	return &AlertDetail{Alert: alert, Tags: tags, Analysis: analysis, Comments: comments}, nil
}

func (s *alertService) List(ctx context.Context, page, size int) ([]model.Alert, int64, error) {
	if page <= 0 || size <= 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.alerts.FindWithPagination(ctx, (page-1)*size, size)
}

func (s *alertService) Update(ctx context.Context, id uint, input UpdateAlertInput) (*model.Alert, error) {
	alert, err := s.findAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		alert.Title = title
	}
	if input.Level != nil {
		level := strings.ToUpper(strings.TrimSpace(*input.Level))
		if !model.ValidLevel(level) {
			return nil, ErrInvalidInput
		}
		alert.Level = level
	}
	if input.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*input.Status))
		if !model.ValidStatus(status) {
			return nil, ErrInvalidInput
		}
		alert.Status = status
	}
	if input.Outcome != nil {
		alert.Outcome = strings.TrimSpace(*input.Outcome)
	}
	if input.AssignedUserID != nil {
		alert.AssignedUserID = input.AssignedUserID
	}

	if err := s.alerts.Save(ctx, alert); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return alert, nil
}

func (s *alertService) SaveAnalysis(ctx context.Context, alertID, analystID uint, notes string) (*model.Analysis, error) {
	if _, err := s.findAlert(ctx, alertID); err != nil {
		return nil, err
	}

	analysis, err := s.analyses.FindByAlert(ctx, alertID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		analysis = &model.Analysis{AlertID: alertID}
	}
	analysis.Notes = notes
	if analystID != 0 {
		analysis.AnalystID = &analystID
	}

	if err := s.analyses.Save(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *alertService) AddComment(ctx context.Context, alertID, userID uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || userID == 0 {
		return nil, ErrInvalidInput
	}
	if _, err := s.findAlert(ctx, alertID); err != nil {
		return nil, err
	}

	comment := &model.Comment{AlertID: alertID, UserID: userID, Content: content}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *alertService) UpdateComment(ctx context.Context, commentID, userID uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, ErrCommentNotOwned
	}

	comment.Content = content
	if err := s.comments.Save(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *alertService) AssociatedTags(ctx context.Context, contentType string, objectID uint) ([]model.Tag, error) {
	relations, err := s.relations.FindByObject(ctx, contentType, objectID)
	if err != nil {
		return nil, err
	}
	tags := make([]model.Tag, 0, len(relations))
	for _, relation := range relations {
		if relation.Tag == nil {
			log.Warnf("AssociatedTags: relation %d points to missing tag %d", relation.ID, relation.TagID)
			continue
		}
		tags = append(tags, *relation.Tag)
	}
	return tags, nil
}

func (s *alertService) findAlert(ctx context.Context, id uint) (*model.Alert, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	alert, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlertNotFound
		}
		return nil, err
	}
	return alert, nil
}
