// Package database 提供 MySQL 连接与 GORM 实例的初始化。
package database

import (
	"alertdesk_go/internal/model"
	"alertdesk_go/pkg/log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"moul.io/zapgorm2"
)

// DB 全局 GORM 数据库实例，在 InitMySQL 成功后可用。
var DB *gorm.DB

// InitMySQL 根据 DSN 连接 MySQL 并初始化全局 DB。
// gorm 的 SQL 日志通过 zapgorm2 接入 pkg/log 的 zap logger，只输出 warn 及以上（慢查询、错误）。
func InitMySQL(dsn string) {
	gormLogger := zapgorm2.New(log.GetLogger())
	gormLogger.LogLevel = logger.Warn
	gormLogger.SlowThreshold = 200 * time.Millisecond
	gormLogger.IgnoreRecordNotFoundError = true

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		log.Fatal("Failed to connect to MySQL", err)
	}
	log.Info("Connected to MySQL")

	// 获取底层 *sql.DB 以配置连接池
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get SQL DB", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info("MySQL initialized successfully")
}

func RunMigrate() error {
	log.Info("Running migrations...")

	if err := DB.AutoMigrate(
		&model.User{},
		&model.Alert{},
		&model.Analysis{},
		&model.Comment{},
		&model.Tag{},
		&model.TagRelation{},
		&model.DataTagger{},
	); err != nil {
		log.Errorf("Failed to run migrations: %v", err)
		return err
	}

	log.Info("Migrations completed successfully")
	return nil
}
