package model

import "time"

// Analysis 是附着在告警上的分析记录，每个告警至多一条。Notes 会被扫描做自动打标。
type Analysis struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AlertID   uint      `gorm:"not null;uniqueIndex" json:"alertId"`
	AnalystID *uint     `gorm:"index" json:"analystId"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定 GORM 使用的表名
func (Analysis) TableName() string {
	return "analyses"
}
