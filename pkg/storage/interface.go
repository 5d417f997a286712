package storage

import (
	"context"
	"errors"

	"github.com/hewenyu/hiisi/pkg/model"
)

// NamespaceStorage 定义命名空间存储接口
type NamespaceStorage interface {
	// CreateNamespace 登记命名空间，名称已存在时返回ErrAlreadyExists
	CreateNamespace(ctx context.Context, namespace *model.Namespace) error

	// GetNamespace 获取命名空间，不存在时返回ErrNotFound
	GetNamespace(ctx context.Context, name string) (*model.Namespace, error)
}

// StorageError 定义存储操作可能返回的错误类型
type StorageError struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *StorageError) Error() string {
	return e.Message
}

// 定义错误代码
const (
	// ErrNotFound 资源不存在
	ErrNotFound = iota + 1
	// ErrAlreadyExists 资源已存在
	ErrAlreadyExists
	// ErrInvalidArgument 参数无效
	ErrInvalidArgument
	// ErrInternal 内部错误
	ErrInternal
)

// NewNotFoundError 创建资源不存在错误
func NewNotFoundError(message string) *StorageError {
	return &StorageError{
		Code:    ErrNotFound,
		Message: message,
	}
}

// NewAlreadyExistsError 创建资源已存在错误
func NewAlreadyExistsError(message string) *StorageError {
	return &StorageError{
		Code:    ErrAlreadyExists,
		Message: message,
	}
}

// NewInvalidArgumentError 创建参数无效错误
func NewInvalidArgumentError(message string) *StorageError {
	return &StorageError{
		Code:    ErrInvalidArgument,
		Message: message,
	}
}

// NewInternalError 创建内部错误
func NewInternalError(message string) *StorageError {
	return &StorageError{
		Code:    ErrInternal,
		Message: message,
	}
}

// CodeOf 返回err链中StorageError的错误码，不是StorageError时返回ErrInternal
func CodeOf(err error) int {
	var se *StorageError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrInternal
}
