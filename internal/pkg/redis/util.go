package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// GetValue 获取字符串类型的值
func GetValue(ctx context.Context, key string) (string, error) {
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Publish 向指定频道发布消息
func Publish(ctx context.Context, channel string, payload interface{}) error {
	if Rdb == nil {
		return nil
	}
	return Rdb.Publish(ctx, channel, payload).Err()
}

// Subscribe 订阅一组频道
func Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return Rdb.Subscribe(ctx, channels...)
}
