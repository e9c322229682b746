package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"pomelo/internal/config"
	"pomelo/internal/pkg/kv"
)

// RedisStore Redis 键值存储
// maxmemory 触发的 OOM 响应映射为配额错误
type RedisStore struct {
	client *goredis.Client
}

// NewRedisStore 创建 Redis 存储客户端
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Get 读取键值，连接失败按键不存在处理
func (s *RedisStore) Get(key string) (string, bool) {
	value, err := s.client.Get(context.Background(), key).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("failed to read store entry")
		}
		return "", false
	}
	return value, true
}

// Set 写入键值，不设过期（缓存只按显式清理回收）
func (s *RedisStore) Set(key, value string) error {
	err := s.client.Set(context.Background(), key, value, 0).Err()
	if err == nil {
		return nil
	}
	// Redis maxmemory: "OOM command not allowed when used memory > 'maxmemory'"
	if strings.HasPrefix(err.Error(), "OOM") {
		return kv.ErrQuotaExceeded
	}
	return err
}

// Remove 删除键
func (s *RedisStore) Remove(key string) {
	if err := s.client.Del(context.Background(), key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to remove store entry")
	}
}

// Close 关闭连接
func (s *RedisStore) Close() error {
	return s.client.Close()
}
