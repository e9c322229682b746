package kv

import "errors"

// ErrQuotaExceeded 写入超出存储配额
// Set 的唯一预期失败；调用方视为本次写入被丢弃，不做重试
var ErrQuotaExceeded = errors.New("kv: quota exceeded")

// Store 持久化键值存储接口
// 同步调用，不挂起；键不存在不是错误
type Store interface {
	// Get 读取键值，第二个返回值表示键是否存在
	Get(key string) (string, bool)

	// Set 写入键值；超出配额返回 ErrQuotaExceeded，写入保证原子（不留半条记录）
	Set(key, value string) error

	// Remove 删除键，删除不存在的键为空操作
	Remove(key string)

	// Close 关闭存储
	Close() error
}

// StoreType 存储类型
type StoreType string

const (
	StoreTypeMemory StoreType = "memory" // 内存存储（测试默认）
	StoreTypeFile   StoreType = "file"   // 本地文件系统
	StoreTypeRedis  StoreType = "redis"  // Redis
)
