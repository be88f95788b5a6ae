package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"InjectContainer/internal/assembler"
	"InjectContainer/internal/diagnostics"
	"InjectContainer/internal/shared/config"
	"InjectContainer/internal/shared/logs"
	transporthttp "InjectContainer/internal/shared/transport/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "", "path to conf.yml (default: search configs/conf.yml upward)")
	flag.Parse()

	config.Load(*cfgPath)
	conf := config.Current()
	if err := logs.Init("injectd", conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	config.SetLogger(logs.Logger())
	logs.Info("conf", zap.Any("conf", conf))

	holder, err := assembler.NewHolder(conf.Inject, logs.Logger())
	if err != nil {
		logs.Fatal("assemble container failed", zap.Error(err))
	}
	// 热更新：作用域变更后重建容器，失败时沿用旧容器
	unwatch := config.OnChange(func(c config.Config) {
		if err := holder.Reload(c.Inject); err != nil {
			logs.Warn("reload container failed, keep previous", zap.Error(err))
		}
	})
	defer unwatch()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := holder.Probe(ctx)
	if err != nil {
		logs.Error("initial probe failed", zap.Error(err))
	} else {
		logs.Info("initial probe", zap.Any("report", report))
	}

	if !conf.Log.Dev {
		gin.SetMode(gin.ReleaseMode)
	}
	addr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
	server := transporthttp.NewHttpServer(addr, nil, logs.Logger())
	diagnostics.NewHandler(holder, logs.Logger()).RegisterRoutes(server.Group(""))

	errCh := make(chan error, 1)
	go func() {
		logs.Info("diagnostics http server started", zap.String("addr", addr))
		if err := server.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http serve failed: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logs.Error("http shutdown failed", zap.Error(err))
	}
}
