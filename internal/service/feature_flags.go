package service

import (
	"context"
	"errors"
	"strconv"

	"alertdesk_go/pkg/log"

	"github.com/go-redis/redis/v8"
)

const emailsEnabledKey = "feature:emails_enabled"

// FeatureFlags 提供运行期功能开关。
// Redis 中的值优先，未设置或 Redis 不可用时使用配置文件中的默认值。
type FeatureFlags interface {
	EmailsEnabled(ctx context.Context) bool
	SetEmailsEnabled(ctx context.Context, enabled bool) error
}

type featureFlags struct {
	rdb           *redis.Client
	emailsDefault bool
}

// NewFeatureFlags rdb 可以为 nil，此时只使用默认值。
func NewFeatureFlags(rdb *redis.Client, emailsDefault bool) FeatureFlags {
	return &featureFlags{rdb: rdb, emailsDefault: emailsDefault}
}

func (f *featureFlags) EmailsEnabled(ctx context.Context) bool {
	if f.rdb == nil {
		return f.emailsDefault
	}
	raw, err := f.rdb.Get(ctx, emailsEnabledKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnf("FeatureFlags: failed to read %s, using default: %v", emailsEnabledKey, err)
		}
		return f.emailsDefault
	}
	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warnf("FeatureFlags: invalid value %q for %s, using default", raw, emailsEnabledKey)
		return f.emailsDefault
	}
	return enabled
}

func (f *featureFlags) SetEmailsEnabled(ctx context.Context, enabled bool) error {
	if f.rdb == nil {
		return ErrFeatureStoreUnavailable
	}
	return f.rdb.Set(ctx, emailsEnabledKey, strconv.FormatBool(enabled), 0).Err()
}
