package database

import (
	"alertdesk_go/pkg/log"
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RDB 全局 Redis 客户端，用于 token 黑名单和运行期功能开关。
var RDB *redis.Client

func InitRedis(addr, password string, db int) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to redis", err)
	}

	log.Info("Redis client connected successfully")
}
