// Package errors 定义跨层共享的错误分类。
//
// Service 层的业务哨兵错误通过 Wrap 归入以下四类之一，
// Handler 层既可以 errors.Is 精确匹配哨兵，也可以按类别兜底映射状态码。
package errors

import (
	"errors"
	"fmt"
)

// 错误类别
var (
	// ErrValidation 请求字段缺失或格式错误，未发生任何写入
	ErrValidation = errors.New("validation error")
	// ErrNotFound 引用的 plan_id / user_id 等不存在
	ErrNotFound = errors.New("not found")
	// ErrUpstream 外部 AI 服务返回空或非法结果
	ErrUpstream = errors.New("upstream error")
	// ErrStorage 持久化失败（连接丢失、约束冲突）
	ErrStorage = errors.New("storage error")
)

// ErrIDConflict 复合 ID 主键冲突
var ErrIDConflict = Wrap(ErrStorage, "复合 ID 冲突，请重试")

// kindError 将业务消息挂到某个类别之下
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// Wrap 创建归属于 kind 类别的业务哨兵错误
func Wrap(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Storage 将底层存储错误包装为 StorageError，保留原始错误链
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%s: %w", op, errors.Join(ErrStorage, err))
}

// Kind 返回错误所属类别，未分类时返回 nil
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrUpstream, ErrStorage} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
