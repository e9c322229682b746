package kvfactory

import (
	"fmt"

	"pomelo/internal/config"
	"pomelo/internal/pkg/kv"
	"pomelo/internal/pkg/kv/file"
	"pomelo/internal/pkg/kv/memory"
	"pomelo/internal/pkg/kv/redis"
)

// NewStore 根据配置创建持久化键值存储实例
func NewStore(cfg *config.StoreConfig) (kv.Store, error) {
	switch cfg.Type {
	case "memory":
		var quota int64
		if cfg.Memory != nil {
			quota = cfg.Memory.QuotaBytes
		}
		return memory.NewMemoryStore(quota), nil
	case "file":
		if cfg.File == nil {
			return nil, fmt.Errorf("file store config is required")
		}
		return file.NewFileStore(cfg.File.BasePath, cfg.File.QuotaBytes)
	case "redis":
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis store config is required")
		}
		return redis.NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
