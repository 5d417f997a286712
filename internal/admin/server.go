package admin

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/hewenyu/hiisi/internal/config"
	"github.com/hewenyu/hiisi/pkg/api/handler"
	"github.com/hewenyu/hiisi/pkg/api/router"
	"github.com/hewenyu/hiisi/pkg/api/validate"
)

// Server 表示管理API服务
type Server struct {
	e        *echo.Echo
	addr     string
	logger   config.Logger
	listener net.Listener
	errChan  chan error
}

// NewServer 创建一个新的管理API服务
func NewServer(addr string, creator handler.NamespaceCreator, logger config.Logger) *Server {
	// 创建Echo实例
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validate.New()

	// 添加中间件
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(logger))

	// 注册路由
	router.RegisterAdminRoutes(e, handler.NewNamespaceHandler(creator))

	return &Server{
		e:       e,
		addr:    addr,
		logger:  logger,
		errChan: make(chan error, 1),
	}
}

// requestLogger 使用zap记录每个请求
func requestLogger(logger config.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				logger.Warn("管理API请求失败", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Debug("管理API请求", fields...)
			return nil
		},
	})
}

// Handler 返回底层的http.Handler
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start 以非阻塞方式启动服务
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("管理API监听失败 [%s]: %w", s.addr, err)
	}
	s.listener = ln
	s.e.Listener = ln

	s.logger.Info("管理API服务启动", zap.String("address", ln.Addr().String()))

	go func() {
		if err := s.e.Start(s.addr); err != nil && err != http.ErrServerClosed {
			s.logger.Error("管理API服务异常退出", zap.Error(err))
			s.errChan <- err
		}
		close(s.errChan)
	}()

	return nil
}

// Addr 返回实际监听的地址，未启动时返回配置地址
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Errors 返回服务运行期间的错误，服务停止后通道关闭
func (s *Server) Errors() <-chan error {
	return s.errChan
}

// Shutdown 关闭服务
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("正在关闭管理API服务")
	return s.e.Shutdown(ctx)
}
