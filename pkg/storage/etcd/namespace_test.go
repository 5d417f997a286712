package etcd

import (
	"context"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hewenyu/hiisi/internal/config"
	"github.com/hewenyu/hiisi/pkg/model"
	"github.com/hewenyu/hiisi/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 这些测试需要一个正在运行的etcd实例
// 可以通过docker运行: docker run -d --name etcd-test -p 2379:2379 bitnami/etcd:3.5 --allow-none-authentication

func TestEtcdNamespaceStorage_Implements_NamespaceStorage(t *testing.T) {
	var _ storage.NamespaceStorage = (*NamespaceStorage)(nil)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()

	endpoints := os.Getenv("ETCD_ENDPOINTS")
	if endpoints == "" {
		t.Skip("跳过测试，ETCD_ENDPOINTS 未设置")
	}

	client, err := NewClient(&config.EtcdConfig{
		Endpoints:      strings.Split(endpoints, ","),
		DialTimeout:    5 * time.Second,
		RequestTimeout: 5 * time.Second,
		Prefix:         "/hiisi-test",
		Username:       os.Getenv("ETCD_USERNAME"),
		Password:       os.Getenv("ETCD_PASSWORD"),
	})
	if err != nil {
		t.Skip("跳过测试，无法连接到etcd: ", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

// deleteNamespace 删除测试写入的命名空间记录
func (s *NamespaceStorage) deleteNamespace(ctx context.Context, name string) error {
	ctx, cancel := s.client.withTimeout(ctx)
	defer cancel()

	_, err := s.client.GetClient().Delete(ctx, s.client.GetNamespaceKey(name))
	return err
}

func TestEtcdNamespaceStorage_CreateAndGet(t *testing.T) {
	s := NewNamespaceStorage(newTestClient(t))
	ctx := context.Background()

	name := "ns-" + uuid.NewString()[:8]
	t.Cleanup(func() { _ = s.deleteNamespace(context.Background(), name) })

	ns := model.NewNamespace(name, model.NamespaceConfig{Description: "etcd测试"})
	ns.DataDir = "/data/" + name
	require.NoError(t, s.CreateNamespace(ctx, ns))

	saved, err := s.GetNamespace(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, ns.ID, saved.ID)
	assert.Equal(t, ns.DataDir, saved.DataDir)
	assert.Equal(t, "etcd测试", saved.Config.Description)

	// 重复创建应返回已存在错误
	err = s.CreateNamespace(ctx, model.NewNamespace(name, model.NamespaceConfig{}))
	require.Error(t, err)
	assert.Equal(t, storage.ErrAlreadyExists, storage.CodeOf(err))
}

func TestEtcdNamespaceStorage_GetMissing(t *testing.T) {
	s := NewNamespaceStorage(newTestClient(t))

	_, err := s.GetNamespace(context.Background(), "missing-"+uuid.NewString()[:8])
	require.Error(t, err)
	assert.Equal(t, storage.ErrNotFound, storage.CodeOf(err))
}

func TestEtcdNamespaceStorage_ConcurrentCreate(t *testing.T) {
	s := NewNamespaceStorage(newTestClient(t))

	name := "race-" + uuid.NewString()[:8]
	t.Cleanup(func() { _ = s.deleteNamespace(context.Background(), name) })

	const workers = 8
	var (
		wg      sync.WaitGroup
		success atomic.Int32
		exists  atomic.Int32
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := s.CreateNamespace(context.Background(), model.NewNamespace(name, model.NamespaceConfig{}))
			switch {
			case err == nil:
				success.Add(1)
			case storage.CodeOf(err) == storage.ErrAlreadyExists:
				exists.Add(1)
			default:
				t.Errorf("意外错误: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), success.Load())
	assert.Equal(t, int32(workers-1), exists.Load())
}
