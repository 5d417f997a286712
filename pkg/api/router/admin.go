package router

import (
	"github.com/hewenyu/hiisi/pkg/api/handler"
	"github.com/labstack/echo/v4"
)

// RegisterAdminRoutes 配置管理API相关路由
func RegisterAdminRoutes(e *echo.Echo, namespaceHandler *handler.NamespaceHandler) {
	// API分组，版本v1
	api := e.Group("/v1")

	// 命名空间相关路由
	namespaces := api.Group("/namespaces")
	namespaces.POST("/:name/create", namespaceHandler.CreateNamespace) // 创建命名空间
}
