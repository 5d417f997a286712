// Package manager 负责命名空间对应的数据库资源。
//
// 每个命名空间在数据目录下拥有独立的子目录 <data_dir>/<name>/，
// 其中的 <name>.db 为该命名空间的数据库文件。
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hewenyu/hiisi/internal/config"
	"github.com/hewenyu/hiisi/pkg/model"
	"github.com/hewenyu/hiisi/pkg/namespace"
	"github.com/hewenyu/hiisi/pkg/storage"
)

// ResourceManager 管理命名空间及其数据库文件
type ResourceManager struct {
	dataDir string
	store   storage.NamespaceStorage
	logger  config.Logger
}

// NewResourceManager 创建资源管理器，数据目录不存在时自动创建
func NewResourceManager(dataDir string, store storage.NamespaceStorage, logger config.Logger) (*ResourceManager, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("数据目录不能为空")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建数据目录失败: %w", err)
	}
	return &ResourceManager{
		dataDir: dataDir,
		store:   store,
		logger:  logger,
	}, nil
}

// DataDir 返回数据根目录
func (m *ResourceManager) DataDir() string {
	return m.dataDir
}

// DatabasePath 返回命名空间数据库文件路径，name须为规范化后的名称
func (m *ResourceManager) DatabasePath(name string) string {
	return filepath.Join(m.dataDir, name, name+".db")
}

// CreateNamespace 创建命名空间的数据库文件并登记到存储
func (m *ResourceManager) CreateNamespace(ctx context.Context, name string, cfg model.NamespaceConfig) (*model.Namespace, error) {
	normalized, err := namespace.Normalize(name)
	if err != nil {
		return nil, storage.NewInvalidArgumentError(err.Error())
	}

	// 已登记的命名空间不再触碰磁盘
	if _, err := m.store.GetNamespace(ctx, normalized); err == nil {
		return nil, storage.NewAlreadyExistsError("命名空间已存在: " + normalized)
	} else if storage.CodeOf(err) != storage.ErrNotFound {
		return nil, fmt.Errorf("检查命名空间是否存在失败: %w", err)
	}

	dbDir := filepath.Join(m.dataDir, normalized)
	_, statErr := os.Stat(dbDir)
	dirExisted := statErr == nil

	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, storage.NewInternalError(fmt.Sprintf("创建命名空间目录失败: %v", err))
	}

	// 空文件即为合法的空SQLite数据库；已存在的文件保持不变
	dbPath := m.DatabasePath(normalized)
	_, statErr = os.Stat(dbPath)
	fileExisted := statErr == nil
	undo := func() { m.cleanup(dbDir, dirExisted, dbPath, fileExisted) }

	f, err := os.OpenFile(dbPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		undo()
		return nil, storage.NewInternalError(fmt.Sprintf("创建数据库文件失败: %v", err))
	}
	if err := f.Close(); err != nil {
		undo()
		return nil, storage.NewInternalError(fmt.Sprintf("关闭数据库文件失败: %v", err))
	}

	ns := model.NewNamespace(normalized, cfg)
	ns.DataDir = dbDir

	if err := m.store.CreateNamespace(ctx, ns); err != nil {
		// 并发创建时另一方已登记，目录归对方所有
		if storage.CodeOf(err) != storage.ErrAlreadyExists {
			undo()
		}
		return nil, err
	}

	m.logger.Info("命名空间创建成功",
		zap.String("namespace", ns.Name),
		zap.String("id", ns.ID),
		zap.String("database", dbPath))

	return ns, nil
}

// GetNamespace 获取已登记的命名空间
func (m *ResourceManager) GetNamespace(ctx context.Context, name string) (*model.Namespace, error) {
	normalized, err := namespace.Normalize(name)
	if err != nil {
		return nil, storage.NewInvalidArgumentError(err.Error())
	}
	return m.store.GetNamespace(ctx, normalized)
}

// cleanup 删除本次创建的目录或数据库文件，创建前已存在的保留
func (m *ResourceManager) cleanup(dir string, dirExisted bool, dbPath string, fileExisted bool) {
	if !dirExisted {
		if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
			m.logger.Warn("清理命名空间目录失败", zap.String("dir", dir), zap.Error(err))
		}
		return
	}
	if fileExisted {
		return
	}
	if err := os.Remove(dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		m.logger.Warn("清理数据库文件失败", zap.String("database", dbPath), zap.Error(err))
	}
}
