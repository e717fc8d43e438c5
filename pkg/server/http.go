package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"csv2coam/internal/app"
	"csv2coam/internal/job"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HTTPServer 封装 HTTP 服务运行所需的依赖。
type HTTPServer struct {
	Engine  *gin.Engine
	Logger  *zap.Logger
	Config  app.Config
	Service *app.Service
	Job     *job.Scheduler
}

// NewHTTPServer 构建 HTTPServer。
func NewHTTPServer(engine *gin.Engine, logger *zap.Logger, cfg app.Config, svc *app.Service, scheduler *job.Scheduler) *HTTPServer {
	return &HTTPServer{
		Engine:  engine,
		Logger:  logger,
		Config:  cfg,
		Service: svc,
		Job:     scheduler,
	}
}

// Run 启动 HTTP 服务及收件箱扫描，ctx 结束时优雅退出。
func (s *HTTPServer) Run(ctx context.Context) error {
	listen := strings.TrimSpace(s.Config.HTTP.Listen)
	if listen == "" {
		listen = ":8080"
	}

	if s.Job != nil {
		cancelJob := s.Job.Start(ctx)
		defer cancelJob()
	} else if s.Logger != nil {
		s.Logger.Info("未配置收件箱，跳过定时扫描")
	}

	srv := &http.Server{Addr: listen, Handler: s.Engine}
	errCh := make(chan error, 1)
	go func() {
		if s.Logger != nil {
			s.Logger.Info("http server starting", zap.String("listen", listen))
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Shutdown 刷新日志缓冲，图库连接由 InitApp 返回的 cleanup 关闭。
func (s *HTTPServer) Shutdown() {
	if s.Logger != nil {
		_ = s.Logger.Sync()
	}
}
