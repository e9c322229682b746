package file

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"pomelo/internal/pkg/kv"
)

// FileStore 本地文件系统键值存储
// 每个键对应一个文件（键名经 URL 转义后作为文件名）
// 配额按字节预算在进程内记账，启动时遍历目录恢复占用量
type FileStore struct {
	mu         sync.Mutex
	basePath   string
	quotaBytes int64 // 0 表示不限制
	usedBytes  int64
}

// NewFileStore 创建文件存储
func NewFileStore(basePath string, quotaBytes int64) (*FileStore, error) {
	// 确保基础路径存在
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	s := &FileStore{
		basePath:   basePath,
		quotaBytes: quotaBytes,
	}

	// 恢复已占用的字节数
	used, err := dirSize(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to scan base path: %w", err)
	}
	s.usedBytes = used

	return s, nil
}

// Get 读取键值，读失败按键不存在处理
func (s *FileStore) Get(key string) (string, bool) {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("key", key).Msg("failed to read store entry")
		}
		return "", false
	}
	return string(data), true
}

// Set 写入键值
// 先写临时文件再重命名，写入失败不会留下半条记录
// 超出配额或磁盘已满返回 kv.ErrQuotaExceeded
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.keyPath(key)

	var oldSize int64
	if info, err := os.Stat(path); err == nil {
		oldSize = info.Size()
	}

	newUsed := s.usedBytes - oldSize + int64(len(value))
	if s.quotaBytes > 0 && newUsed > s.quotaBytes {
		return kv.ErrQuotaExceeded
	}

	tmp, err := os.CreateTemp(s.basePath, ".tmp-*")
	if err != nil {
		return s.mapWriteError(err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return s.mapWriteError(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return s.mapWriteError(err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return s.mapWriteError(err)
	}

	s.usedBytes = newUsed
	return nil
}

// Remove 删除键
func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.keyPath(key)
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if err := os.Remove(path); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to remove store entry")
		return
	}
	s.usedBytes -= info.Size()
}

// Close 关闭存储（文件实现为空操作）
func (s *FileStore) Close() error {
	return nil
}

// keyPath 键到文件路径的映射
func (s *FileStore) keyPath(key string) string {
	return filepath.Join(s.basePath, url.QueryEscape(key))
}

// mapWriteError 磁盘已满等容量错误映射为配额错误
func (s *FileStore) mapWriteError(err error) error {
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return kv.ErrQuotaExceeded
	}
	return fmt.Errorf("failed to write store entry: %w", err)
}

// dirSize 统计目录下普通文件的总字节数
func dirSize(basePath string) (int64, error) {
	var total int64
	entries, err := os.ReadDir(basePath)
	if err != nil {
		return 0, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}
