package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hewenyu/hiisi/internal/config"
	"github.com/hewenyu/hiisi/pkg/manager"
	"github.com/hewenyu/hiisi/pkg/model"
	"github.com/hewenyu/hiisi/pkg/storage/memory"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *manager.ResourceManager) {
	t.Helper()
	m, err := manager.NewResourceManager(filepath.Join(t.TempDir(), "data"), memory.NewNamespaceStorage(), config.NewNopLogger())
	require.NoError(t, err)
	return NewServer("127.0.0.1:0", m, config.NewNopLogger()), m
}

func TestServerHandler(t *testing.T) {
	s, m := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/namespaces/foo/create", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID), "应生成请求ID")
	assert.FileExists(t, m.DatabasePath("foo"))
}

func TestServerStartAndShutdown(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.Start())
	assert.NotEqual(t, "127.0.0.1:0", s.Addr(), "启动后应返回实际端口")

	resp, err := http.Post("http://"+s.Addr()+"/v1/namespaces/foo/create", echo.MIMEApplicationJSON, strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body model.ApiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "命名空间创建成功", body.Message)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err, ok := <-s.Errors():
		assert.False(t, ok, "正常关闭不应产生错误: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("服务关闭超时")
	}
}

func TestServerStartAddressInUse(t *testing.T) {
	first, _ := newTestServer(t)
	require.NoError(t, first.Start())
	defer first.Shutdown(context.Background())

	second := NewServer(first.Addr(), nil, config.NewNopLogger())
	err := second.Start()
	assert.Error(t, err)
}
