package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// 工作目录下没有config.yaml，使用默认值
	config, err := LoadConfig("")
	require.NoError(t, err, "无法加载默认配置")
	require.NotNil(t, config, "配置不应为nil")

	assert.Equal(t, "127.0.0.1", config.Admin.ListenAddress)
	assert.Equal(t, 8081, config.Admin.Port, "管理API端口应为8081")
	assert.Equal(t, "127.0.0.1:8081", config.AdminAddr())
	assert.Equal(t, BackendMemory, config.Storage.Backend)
	assert.Equal(t, "data", config.Storage.DataDir)
	assert.Equal(t, []string{"localhost:2379"}, config.Etcd.Endpoints)
	assert.Equal(t, 5*time.Second, config.Etcd.DialTimeout)
	assert.Equal(t, "/hiisi", config.Etcd.Prefix)
	assert.Equal(t, "info", config.Log.Level)
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("HIISI_ADMIN_PORT", "9091")
	t.Setenv("HIISI_STORAGE_DATA_DIR", "/var/lib/hiisi")

	config, err := LoadConfig("")
	require.NoError(t, err, "无法加载配置")

	assert.Equal(t, 9091, config.Admin.Port, "环境变量应正确覆盖管理API端口")
	assert.Equal(t, "/var/lib/hiisi", config.Storage.DataDir)

	// 确认其他值不受影响
	assert.Equal(t, "127.0.0.1", config.Admin.ListenAddress)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hiisi.yaml")
	content := `
admin:
  listen_address: 0.0.0.0
  port: 18081
storage:
  backend: etcd
  data_dir: /tmp/hiisi
etcd:
  endpoints:
    - etcd-1:2379
    - etcd-2:2379
  request_timeout: 2s
log:
  development: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:18081", config.AdminAddr())
	assert.Equal(t, BackendEtcd, config.Storage.Backend)
	assert.Equal(t, []string{"etcd-1:2379", "etcd-2:2379"}, config.Etcd.Endpoints)
	assert.Equal(t, 2*time.Second, config.Etcd.RequestTimeout)
	assert.Equal(t, 5*time.Second, config.Etcd.DialTimeout)
	assert.False(t, config.Log.Development)
}

func TestLoadConfigWithMissingFile(t *testing.T) {
	config, err := LoadConfig("non_existent_file.yaml")
	assert.Error(t, err, "从不存在的文件加载配置应该失败")
	assert.Nil(t, config, "加载不存在的配置文件应该返回nil配置")
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"端口越界", map[string]string{"HIISI_ADMIN_PORT": "70000"}},
		{"未知后端", map[string]string{"HIISI_STORAGE_BACKEND": "sqlite"}},
		{"空数据目录", map[string]string{"HIISI_STORAGE_DATA_DIR": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			config, err := LoadConfig("")
			assert.Error(t, err)
			assert.Nil(t, config)
		})
	}
}
