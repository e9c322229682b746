package memory

import (
	"sync"

	"pomelo/internal/pkg/kv"
)

// MemoryStore 内存键值存储
// 按字节预算模拟配额限制，主要用于测试
type MemoryStore struct {
	mu         sync.RWMutex
	data       map[string]string
	quotaBytes int64 // 0 表示不限制
	usedBytes  int64
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(quotaBytes int64) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]string),
		quotaBytes: quotaBytes,
	}
}

// Get 读取键值
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok
}

// Set 写入键值；超出配额返回 kv.ErrQuotaExceeded，原条目保持不变
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldSize := int64(len(s.data[key]))
	newUsed := s.usedBytes - oldSize + int64(len(value))
	if s.quotaBytes > 0 && newUsed > s.quotaBytes {
		return kv.ErrQuotaExceeded
	}

	s.data[key] = value
	s.usedBytes = newUsed
	return nil
}

// Remove 删除键
func (s *MemoryStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.data[key]; ok {
		s.usedBytes -= int64(len(old))
		delete(s.data, key)
	}
}

// Close 关闭存储（内存实现为空操作）
func (s *MemoryStore) Close() error {
	return nil
}

// UsedBytes 当前占用字节数
func (s *MemoryStore) UsedBytes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usedBytes
}
