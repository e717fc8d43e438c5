package ioc

import (
	"context"

	"csv2coam/internal/app"
	"go.uber.org/zap"
)

// InitAppService 构建转换服务，返回的 cleanup 关闭图库连接。
func InitAppService(ctx context.Context, cfg app.Config, logger *zap.Logger) (*app.Service, func(), error) {
	svc, err := app.NewService(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := svc.Close(context.Background()); err != nil {
			logger.Warn("关闭服务失败", zap.Error(err))
		}
	}
	return svc, cleanup, nil
}
