package etcd

import (
	"context"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/hewenyu/hiisi/internal/config"
)

// Client 封装etcd客户端
type Client struct {
	client         *clientv3.Client
	prefix         string
	requestTimeout time.Duration
}

// NewClient 创建新的etcd客户端并检查连接
func NewClient(cfg *config.EtcdConfig) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd端点不能为空")
	}
	if cfg.DialTimeout <= 0 {
		return nil, fmt.Errorf("etcd连接超时时间无效: %s", cfg.DialTimeout)
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("连接etcd失败: %w", err)
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if _, err := client.Status(ctx, cfg.Endpoints[0]); err != nil {
		client.Close()
		return nil, fmt.Errorf("etcd连接测试失败: %w", err)
	}

	return &Client{
		client:         client,
		prefix:         normalizePrefix(cfg.Prefix),
		requestTimeout: cfg.RequestTimeout,
	}, nil
}

// normalizePrefix 保证前缀以'/'开头且不以'/'结尾
func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

// Close 关闭etcd客户端连接
func (c *Client) Close() error {
	return c.client.Close()
}

// GetClient 获取原始etcd客户端
func (c *Client) GetClient() *clientv3.Client {
	return c.client
}

// GetNamespaceKey 获取命名空间的完整存储键
func (c *Client) GetNamespaceKey(name string) string {
	return c.GetNamespacesPrefix() + name
}

// GetNamespacesPrefix 获取命名空间的存储前缀
func (c *Client) GetNamespacesPrefix() string {
	return c.prefix + "/namespaces/"
}

// withTimeout 为单次请求设置超时，未配置时沿用调用方的上下文
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}
