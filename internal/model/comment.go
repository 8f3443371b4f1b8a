package model

import "time"

// Comment 是用户在告警下的评论。UserID 指向评论作者。
type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AlertID   uint      `gorm:"not null;index" json:"alertId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定 GORM 使用的表名
func (Comment) TableName() string {
	return "comments"
}
