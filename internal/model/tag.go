package model

import "time"

// 可被打标的对象类型，写入 TagRelation.ContentType。
const (
	ContentTypeAlert    = "alert"
	ContentTypeAnalysis = "analysis"
	ContentTypeComment  = "comment"
)

// Tag 对应 tags 表。Name 在全表唯一（大小写不敏感，由 utf8mb4_general_ci 排序规则保证）。
type Tag struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Topic     string    `gorm:"type:varchar(100);index" json:"topic"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定 GORM 使用的表名
func (Tag) TableName() string {
	return "tags"
}

// TagRelation 把一个 Tag 关联到某个对象（ContentType + ObjectID）。
// 打标只追加记录，不去重也不撤销。
type TagRelation struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TagID       uint      `gorm:"not null;index" json:"tagId"`
	Tag         *Tag      `gorm:"foreignKey:TagID" json:"tag,omitempty"`
	ContentType string    `gorm:"type:varchar(30);not null;index:idx_tag_relation_object" json:"contentType"`
	ObjectID    uint      `gorm:"not null;index:idx_tag_relation_object" json:"objectId"`
	TaggedByID  *uint     `json:"taggedById"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定 GORM 使用的表名
func (TagRelation) TableName() string {
	return "tag_relations"
}
