package memory

import (
	"context"
	"sync"

	"github.com/hewenyu/hiisi/pkg/model"
	"github.com/hewenyu/hiisi/pkg/storage"
)

// NamespaceStorage 是基于内存的命名空间存储实现，进程退出后数据不保留
type NamespaceStorage struct {
	namespaces map[string]*model.Namespace
	mutex      sync.RWMutex
}

// NewNamespaceStorage 创建新的内存命名空间存储
func NewNamespaceStorage() *NamespaceStorage {
	return &NamespaceStorage{
		namespaces: make(map[string]*model.Namespace),
	}
}

// CreateNamespace 登记命名空间
func (m *NamespaceStorage) CreateNamespace(ctx context.Context, namespace *model.Namespace) error {
	if namespace == nil || namespace.Name == "" {
		return storage.NewInvalidArgumentError("命名空间名称不能为空")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.namespaces[namespace.Name]; exists {
		return storage.NewAlreadyExistsError("命名空间已存在: " + namespace.Name)
	}

	// 保存副本，避免调用方后续修改影响存储内容
	saved := *namespace
	m.namespaces[namespace.Name] = &saved
	return nil
}

// GetNamespace 获取命名空间
func (m *NamespaceStorage) GetNamespace(ctx context.Context, name string) (*model.Namespace, error) {
	if name == "" {
		return nil, storage.NewInvalidArgumentError("命名空间名称不能为空")
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()

	namespace, exists := m.namespaces[name]
	if !exists {
		return nil, storage.NewNotFoundError("命名空间不存在: " + name)
	}

	result := *namespace
	return &result, nil
}
