package model

import (
	"time"

	"github.com/google/uuid"
)

// Namespace 表示一个命名空间，每个命名空间对应数据目录下的一个独立数据库
type Namespace struct {
	ID        string          `json:"id"`         // 命名空间唯一ID
	Name      string          `json:"name"`       // 命名空间名称，唯一标识
	Config    NamespaceConfig `json:"config"`     // 创建时提交的配置
	DataDir   string          `json:"data_dir"`   // 数据库所在目录
	CreatedAt time.Time       `json:"created_at"` // 创建时间
}

// NamespaceConfig 表示创建命名空间时的请求体，所有字段均可省略
type NamespaceConfig struct {
	Description string `json:"description,omitempty" validate:"max=256"`
}

// ApiResponse 管理API的统一响应结构
type ApiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// NewNamespace 创建一个新的命名空间
func NewNamespace(name string, cfg NamespaceConfig) *Namespace {
	return &Namespace{
		ID:        uuid.NewString(),
		Name:      name,
		Config:    cfg,
		CreatedAt: time.Now(),
	}
}
