package ioc

import (
	"csv2coam/internal/app"
	"csv2coam/internal/metrics"
	"csv2coam/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// InitConvertHandler 构建上传转换 HTTP 处理器。
func InitConvertHandler(cfg app.Config, svc *app.Service, logger *zap.Logger) *router.ConvertHandler {
	return router.NewConvertHandler(svc.Convert, cfg.HTTP.MaxUploadMB, logger)
}

// InitGinEngine 注册指标并构建 gin 引擎。
func InitGinEngine(handler *router.ConvertHandler) *gin.Engine {
	metrics.MustRegister(prometheus.DefaultRegisterer)
	return router.NewEngine(handler, prometheus.DefaultGatherer)
}
