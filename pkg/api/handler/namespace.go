package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/hewenyu/hiisi/pkg/model"
	"github.com/hewenyu/hiisi/pkg/storage"
)

// NamespaceCreator 创建命名空间的能力，由manager.ResourceManager实现
type NamespaceCreator interface {
	CreateNamespace(ctx context.Context, name string, cfg model.NamespaceConfig) (*model.Namespace, error)
}

// NamespaceHandler 处理命名空间相关API
type NamespaceHandler struct {
	creator NamespaceCreator
	binder  echo.DefaultBinder
}

// NewNamespaceHandler 创建命名空间处理器
func NewNamespaceHandler(creator NamespaceCreator) *NamespaceHandler {
	return &NamespaceHandler{
		creator: creator,
	}
}

// CreateNamespace 创建命名空间
// @Summary 创建命名空间
// @Accept json
// @Produce json
// @Param name path string true "命名空间名称"
// @Param config body model.NamespaceConfig false "命名空间配置"
// @Success 200 {object} model.ApiResponse{data=model.Namespace}
// @Failure 400 {object} model.ApiResponse
// @Failure 409 {object} model.ApiResponse
// @Failure 500 {object} model.ApiResponse
// @Router /v1/namespaces/{name}/create [post]
func (h *NamespaceHandler) CreateNamespace(c echo.Context) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return c.JSON(http.StatusBadRequest, model.ApiResponse{
			Code:    http.StatusBadRequest,
			Message: "命名空间名称无效: " + err.Error(),
		})
	}

	// 请求体可以为空，只绑定请求体而不绑定路径参数；
	// 分块传输的空请求体解码时得到io.EOF，同样视为空配置
	var cfg model.NamespaceConfig
	if err := h.binder.BindBody(c, &cfg); err != nil && !errors.Is(err, io.EOF) {
		return c.JSON(http.StatusBadRequest, model.ApiResponse{
			Code:    http.StatusBadRequest,
			Message: "请求参数无效: " + bindErrorMessage(err),
		})
	}

	if err := c.Validate(&cfg); err != nil {
		return c.JSON(http.StatusBadRequest, model.ApiResponse{
			Code:    http.StatusBadRequest,
			Message: "参数验证失败: " + err.Error(),
		})
	}

	namespace, err := h.creator.CreateNamespace(c.Request().Context(), name, cfg)
	if err != nil {
		switch storage.CodeOf(err) {
		case storage.ErrAlreadyExists:
			return c.JSON(http.StatusConflict, model.ApiResponse{
				Code:    http.StatusConflict,
				Message: err.Error(),
			})
		case storage.ErrInvalidArgument:
			return c.JSON(http.StatusBadRequest, model.ApiResponse{
				Code:    http.StatusBadRequest,
				Message: err.Error(),
			})
		default:
			return c.JSON(http.StatusInternalServerError, model.ApiResponse{
				Code:    http.StatusInternalServerError,
				Message: "命名空间创建失败: " + err.Error(),
			})
		}
	}

	return c.JSON(http.StatusOK, model.ApiResponse{
		Code:    http.StatusOK,
		Message: "命名空间创建成功",
		Data:    namespace,
	})
}

// pathParam 返回解码后的路径参数。
// echo仅在URL.RawPath非空时按原始路径路由，此时参数仍是转义形式；
// 否则参数取自已解码的URL.Path，不能再次解码
func pathParam(c echo.Context, name string) (string, error) {
	value := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

// bindErrorMessage 提取echo.HTTPError中的可读信息
func bindErrorMessage(err error) string {
	if he, ok := err.(*echo.HTTPError); ok {
		if he.Internal != nil {
			return he.Internal.Error()
		}
		if msg, ok := he.Message.(string); ok {
			return msg
		}
	}
	return err.Error()
}
