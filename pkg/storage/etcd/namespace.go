package etcd

import (
	"context"
	"encoding/json"
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/hewenyu/hiisi/pkg/model"
	"github.com/hewenyu/hiisi/pkg/storage"
)

// NamespaceStorage 实现基于etcd的命名空间存储
type NamespaceStorage struct {
	client *Client
}

// NewNamespaceStorage 创建etcd命名空间存储
func NewNamespaceStorage(client *Client) *NamespaceStorage {
	return &NamespaceStorage{
		client: client,
	}
}

// CreateNamespace 创建命名空间
func (s *NamespaceStorage) CreateNamespace(ctx context.Context, namespace *model.Namespace) error {
	if namespace == nil || namespace.Name == "" {
		return storage.NewInvalidArgumentError("命名空间名称不能为空")
	}

	data, err := json.Marshal(namespace)
	if err != nil {
		return storage.NewInternalError(fmt.Sprintf("序列化命名空间数据失败: %v", err))
	}

	ctx, cancel := s.client.withTimeout(ctx)
	defer cancel()

	// 只有键从未创建过时才写入，检查与写入在同一个事务中完成
	key := s.client.GetNamespaceKey(namespace.Name)
	resp, err := s.client.GetClient().Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(key), "=", 0)).
		Then(clientv3.OpPut(key, string(data))).
		Commit()
	if err != nil {
		return storage.NewInternalError(fmt.Sprintf("写入etcd失败: %v", err))
	}
	if !resp.Succeeded {
		return storage.NewAlreadyExistsError(fmt.Sprintf("命名空间已存在: %s", namespace.Name))
	}

	return nil
}

// GetNamespace 获取命名空间详情
func (s *NamespaceStorage) GetNamespace(ctx context.Context, name string) (*model.Namespace, error) {
	if name == "" {
		return nil, storage.NewInvalidArgumentError("命名空间名称不能为空")
	}

	ctx, cancel := s.client.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.GetClient().Get(ctx, s.client.GetNamespaceKey(name))
	if err != nil {
		return nil, storage.NewInternalError(fmt.Sprintf("从etcd读取失败: %v", err))
	}
	if len(resp.Kvs) == 0 {
		return nil, storage.NewNotFoundError(fmt.Sprintf("命名空间不存在: %s", name))
	}

	var namespace model.Namespace
	if err := json.Unmarshal(resp.Kvs[0].Value, &namespace); err != nil {
		return nil, storage.NewInternalError(fmt.Sprintf("解析命名空间数据失败: %v", err))
	}

	return &namespace, nil
}
