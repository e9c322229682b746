package config

import (
	"errors"
	"time"
)

// Config 应用配置根结构
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	AI     AIConfig     `mapstructure:"ai"`
	Image  ImageConfig  `mapstructure:"image"`
	Log    LogConfig    `mapstructure:"log"`
	Store  StoreConfig  `mapstructure:"store"`
	Reader ReaderConfig `mapstructure:"reader"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig 文本生成服务配置
type AIConfig struct {
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig AI 模型参数
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// ImageConfig 插图生成服务配置 (Ark)
type ImageConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Size    string `mapstructure:"size"`
}

// LogConfig 日志配置 (Zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// StoreConfig 持久化键值存储配置
type StoreConfig struct {
	Type   string        `mapstructure:"type"` // memory, file, redis
	File   *FileConfig   `mapstructure:"file,omitempty"`
	Redis  *RedisConfig  `mapstructure:"redis,omitempty"`
	Memory *MemoryConfig `mapstructure:"memory,omitempty"`
}

// FileConfig 文件存储配置
type FileConfig struct {
	BasePath   string `mapstructure:"base_path"`   // 基础路径
	QuotaBytes int64  `mapstructure:"quota_bytes"` // 存储配额（字节，0 表示不限制）
}

// RedisConfig Redis 存储配置
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MemoryConfig 内存存储配置
type MemoryConfig struct {
	QuotaBytes int64 `mapstructure:"quota_bytes"` // 存储配额（字节，0 表示不限制）
}

// ReaderConfig 阅读服务配置
type ReaderConfig struct {
	MinChapterChars int  `mapstructure:"min_chapter_chars"` // 章节文本最小可信长度
	StartOnline     bool `mapstructure:"start_online"`      // 启动时的联网状态
}

// Validate 验证配置有效性
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	validStores := map[string]bool{"memory": true, "file": true, "redis": true}
	if !validStores[c.Store.Type] {
		return errors.New("invalid store type, must be memory/file/redis")
	}

	if c.Reader.MinChapterChars < 0 {
		return errors.New("invalid reader.min_chapter_chars")
	}

	return nil
}
