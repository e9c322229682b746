package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误类别
// 同步层对外暴露的错误分类，表现层据此选择重试方式
type Kind string

const (
	KindCredentialMissing Kind = "credential_missing" // 未配置 API 凭证，需用户配置后才可重试
	KindProvider          Kind = "provider_error"     // 内容服务瞬时失败，可直接重试
	KindMalformed         Kind = "malformed_response" // 内容服务返回不可解析数据（按瞬时失败重试，单独记录日志）
	KindOffline           Kind = "offline"            // 操作需要联网，等网络恢复后重试
	KindOfflineMissing    Kind = "offline_missing"    // 离线且无缓存，内容当前不可读
	KindQuotaExceeded     Kind = "quota_exceeded"     // 本地存储已满，需用户清理空间
)

// Error 带类别的应用错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建应用错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 包装底层错误
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 提取错误类别，非应用错误返回空串
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind 判断错误是否属于指定类别
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Retryable 判断错误是否可通过重试同一操作恢复
// 凭证缺失和配额不足需要用户先行处理
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindProvider, KindMalformed, KindOffline:
		return true
	default:
		return false
	}
}
