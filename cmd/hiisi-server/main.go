package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hewenyu/hiisi/internal/admin"
	"github.com/hewenyu/hiisi/internal/config"
	"github.com/hewenyu/hiisi/pkg/manager"
	"github.com/hewenyu/hiisi/pkg/storage"
	"github.com/hewenyu/hiisi/pkg/storage/etcd"
	"github.com/hewenyu/hiisi/pkg/storage/memory"
)

const shutdownTimeout = 5 * time.Second

var configFile string

func init() {
	flag.StringVar(&configFile, "config", "", "配置文件路径")
}

func main() {
	flag.Parse()

	// 加载配置
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger, err := config.NewLogger(cfg.Log.Development, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger config.Logger) error {
	logger.Info("hiisi admin starting...",
		zap.String("admin_addr", cfg.AdminAddr()),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.String("data_dir", cfg.Storage.DataDir),
	)

	store, closeStore, err := newStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	mgr, err := manager.NewResourceManager(cfg.Storage.DataDir, store, logger)
	if err != nil {
		return err
	}

	server := admin.NewServer(cfg.AdminAddr(), mgr, logger)
	if err := server.Start(); err != nil {
		return err
	}

	// 等待信号以优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("接收到关闭信号，正在优雅关闭...", zap.String("signal", sig.String()))
	case err, ok := <-server.Errors():
		if ok {
			runErr = err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("关闭管理API服务失败", zap.Error(err))
	}

	logger.Info("服务已关闭")
	return runErr
}

// newStorage 按配置创建命名空间存储
func newStorage(cfg *config.Config, logger config.Logger) (storage.NamespaceStorage, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendEtcd:
		client, err := etcd.NewClient(&cfg.Etcd)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("etcd连接成功", zap.Strings("endpoints", cfg.Etcd.Endpoints))
		return etcd.NewNamespaceStorage(client), func() {
			if err := client.Close(); err != nil {
				logger.Warn("关闭etcd客户端失败", zap.Error(err))
			}
		}, nil
	default:
		return memory.NewNamespaceStorage(), func() {}, nil
	}
}
