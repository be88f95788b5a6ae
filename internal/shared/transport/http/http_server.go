package http

import (
	"context"
	nethttp "net/http"
	"time"

	"InjectContainer/internal/shared/transport/http/middleware"
	"InjectContainer/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine *gin.Engine
	srv    *nethttp.Server
}

func NewHttpServer(addr string, engine *gin.Engine, logger logx.Logger) *Server {
	if engine == nil {
		engine = gin.New()
		engine.Use(gin.Recovery())
	}
	engine.Use(middleware.AccessLog(logger))
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(nethttp.StatusOK, gin.H{"status": "ok"})
	})

	return &Server{
		engine: engine,
		srv: &nethttp.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start 启动 HTTP 服务（阻塞）。关闭时返回 net/http.ErrServerClosed。
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) Group(path string) *gin.RouterGroup {
	return s.engine.Group(path)
}

func (s *Server) Handler() nethttp.Handler {
	return s.engine
}
