package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 告警级别
const (
	LevelCritical = "CRITICAL"
	LevelHigh     = "HIGH"
	LevelMedium   = "MEDIUM"
	LevelLow      = "LOW"
	LevelInfo     = "INFO"
)

// 告警处理状态
const (
	StatusNew  = "NEW"
	StatusBusy = "BUSY"
	StatusDone = "DONE"
)

// Alert 对应 alerts 表，是安全事件调查的主记录。
// Data 保存触发告警的原始文档（JSON），DataTagger 从中按字段取值做自动打标。
type Alert struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID           string         `gorm:"type:char(36);uniqueIndex" json:"uuid"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Level          string         `gorm:"type:varchar(20);default:'INFO'" json:"level"`
	Status         string         `gorm:"type:varchar(20);default:'NEW'" json:"status"`
	Outcome        string         `gorm:"type:varchar(20)" json:"outcome"`
	AssignedUserID *uint          `gorm:"index" json:"assignedUserId"`
	Incidents      int            `gorm:"default:1" json:"incidents"`
	Data           datatypes.JSON `json:"data"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定 GORM 使用的表名
func (Alert) TableName() string {
	return "alerts"
}

// BeforeCreate 为新告警分配对外引用用的 UUID。
func (a *Alert) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == "" {
		a.UUID = uuid.New().String()
	}
	return nil
}

// ValidLevel 判断级别是否合法。
func ValidLevel(level string) bool {
	switch level {
	case LevelCritical, LevelHigh, LevelMedium, LevelLow, LevelInfo:
		return true
	}
	return false
}

// ValidStatus 判断状态是否合法。
func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusBusy, StatusDone:
		return true
	}
	return false
}
