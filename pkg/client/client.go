// Package client 提供hiisi管理API的Go客户端。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hewenyu/hiisi/pkg/model"
)

// DefaultAddr 管理API的默认地址
const DefaultAddr = "127.0.0.1:8081"

// Config 客户端配置
type Config struct {
	// 管理API地址，形如 127.0.0.1:8081 或 http://127.0.0.1:8081
	Addr string
	// 请求超时时间，0表示不设超时
	Timeout time.Duration
	// 日志，为nil时不输出
	Logger *zap.Logger
	// 自定义HTTP客户端，为nil时按Timeout创建
	HTTPClient *http.Client
}

// Client 管理API客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// UnexpectedStatusCodeError 响应状态码不是200时返回
type UnexpectedStatusCodeError struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Error 实现error接口，包含请求地址、响应头和响应体
func (e *UnexpectedStatusCodeError) Error() string {
	return fmt.Sprintf("Unexpected status code: %d. Request URL: %s. Response headers: %s. Response content: %s",
		e.StatusCode, e.URL, formatHeader(e.Header), string(e.Body))
}

// IsUnexpectedStatus 判断err是否为UnexpectedStatusCodeError
func IsUnexpectedStatus(err error) bool {
	var se *UnexpectedStatusCodeError
	return errors.As(err, &se)
}

// NewClient 创建客户端
func NewClient(cfg Config) (*Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		addr = DefaultAddr
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("管理API地址无效: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("管理API地址无效: %s", cfg.Addr)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CreateNamespaceURL 返回创建命名空间的请求地址
func (c *Client) CreateNamespaceURL(name string) string {
	return fmt.Sprintf("%s/v1/namespaces/%s/create", c.baseURL, url.PathEscape(name))
}

// CreateNamespace 创建命名空间，cfg为nil时发送空对象{}。
// 只发送一次请求，不做重试；状态码不是200时返回*UnexpectedStatusCodeError。
func (c *Client) CreateNamespace(ctx context.Context, name string, cfg *model.NamespaceConfig) error {
	if cfg == nil {
		cfg = &model.NamespaceConfig{}
	}
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化请求体失败: %w", err)
	}

	reqURL := c.CreateNamespaceURL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("发送HTTP请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应体失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("创建命名空间失败",
			zap.String("request_url", reqURL),
			zap.Int("status_code", resp.StatusCode),
			zap.Any("response_headers", resp.Header),
			zap.ByteString("response_body", respBody))
		return &UnexpectedStatusCodeError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       respBody,
		}
	}

	c.logger.Debug("命名空间创建成功", zap.String("namespace", name), zap.String("request_url", reqURL))
	return nil
}

// formatHeader 按键排序输出响应头，便于阅读和比较
func formatHeader(h http.Header) string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(h[k], ", ")))
	}
	return "{" + strings.Join(parts, "; ") + "}"
}
