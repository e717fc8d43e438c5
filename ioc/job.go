package ioc

import (
	"csv2coam/internal/app"
	"csv2coam/internal/job"
	"go.uber.org/zap"
)

// InitScheduler 构建收件箱扫描调度器，未配置收件箱时返回 nil。
func InitScheduler(cfg app.Config, svc *app.Service, logger *zap.Logger) *job.Scheduler {
	var convert job.ConvertFunc
	if svc != nil {
		convert = svc.Convert
	}
	return job.NewScheduler(cfg, convert, logger)
}
