package repository

import (
	"context"

	"alertdesk_go/internal/model"
	"alertdesk_go/pkg/database"
	"alertdesk_go/pkg/event"

	"gorm.io/gorm"
)

// CommentRepository 定义告警评论的持久化操作。
type CommentRepository interface {
	Save(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uint) (*model.Comment, error)
	// FindByAlert 按创建顺序返回告警下的全部评论
	FindByAlert(ctx context.Context, alertID uint) ([]model.Comment, error)
}

type commentRepository struct {
	db       *gorm.DB
	postSave *event.Signal[model.Comment]
}

func NewCommentRepository(db *gorm.DB, postSave *event.Signal[model.Comment]) CommentRepository {
	return &commentRepository{db: db, postSave: postSave}
}

// Save 只允许修改评论内容，作者和所属告警创建后不可变。
func (r *commentRepository) Save(ctx context.Context, comment *model.Comment) error {
	if comment == nil {
		return ErrNilRecord
	}
	return saveAndNotify(ctx, r.db, comment, comment.ID, r.postSave, func(tx *gorm.DB) error {
		return affected(tx, &model.Comment{}, comment.ID, tx.Model(&model.Comment{}).
			Where("id = ?", comment.ID).
			Select("content", "updated_at").
			Updates(comment))
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByAlert(ctx context.Context, alertID uint) ([]model.Comment, error) {
	var comments []model.Comment
	if err := database.Conn(ctx, r.db).
		Where("alert_id = ?", alertID).
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
