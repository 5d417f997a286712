package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 存储后端类型
const (
	BackendMemory = "memory"
	BackendEtcd   = "etcd"
)

// Config 应用程序配置结构
type Config struct {
	// 管理API配置
	Admin struct {
		ListenAddress string `mapstructure:"listen_address"`
		Port          int    `mapstructure:"port"`
	} `mapstructure:"admin"`

	// 存储配置
	Storage struct {
		Backend string `mapstructure:"backend"` // "memory" 或 "etcd"
		DataDir string `mapstructure:"data_dir"`
	} `mapstructure:"storage"`

	// etcd配置
	Etcd EtcdConfig `mapstructure:"etcd"`

	// 日志配置
	Log struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"log"`
}

// EtcdConfig etcd连接配置
type EtcdConfig struct {
	Endpoints      []string      `mapstructure:"endpoints"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Prefix         string        `mapstructure:"prefix"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
}

// AdminAddr 返回管理API监听地址
func (c *Config) AdminAddr() string {
	return fmt.Sprintf("%s:%d", c.Admin.ListenAddress, c.Admin.Port)
}

// LoadConfig 从文件和环境变量加载配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/hiisi")
	}
	v.SetConfigType("yaml")

	// 找不到配置文件时使用默认值；其他错误则返回
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件错误: %w", err)
		}
	}

	// 绑定环境变量
	v.SetEnvPrefix("HIISI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置错误: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults 设置配置默认值
func setDefaults(v *viper.Viper) {
	// 管理API默认配置
	v.SetDefault("admin.listen_address", "127.0.0.1")
	v.SetDefault("admin.port", 8081)

	// 存储默认配置
	v.SetDefault("storage.backend", BackendMemory)
	v.SetDefault("storage.data_dir", "data")

	// etcd默认配置
	v.SetDefault("etcd.endpoints", []string{"localhost:2379"})
	v.SetDefault("etcd.dial_timeout", 5*time.Second)
	v.SetDefault("etcd.request_timeout", 5*time.Second)
	v.SetDefault("etcd.prefix", "/hiisi")
	v.SetDefault("etcd.username", "")
	v.SetDefault("etcd.password", "")

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", true)
}

// validateConfig 验证配置有效性
func validateConfig(config *Config) error {
	if config.Admin.Port <= 0 || config.Admin.Port > 65535 {
		return fmt.Errorf("管理API端口配置无效: %d", config.Admin.Port)
	}

	switch config.Storage.Backend {
	case BackendMemory:
	case BackendEtcd:
		if len(config.Etcd.Endpoints) == 0 {
			return fmt.Errorf("etcd端点不能为空")
		}
	default:
		return fmt.Errorf("存储后端配置无效: %s", config.Storage.Backend)
	}

	if strings.TrimSpace(config.Storage.DataDir) == "" {
		return fmt.Errorf("数据目录不能为空")
	}

	return nil
}
