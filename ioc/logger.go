package ioc

import (
	"csv2coam/internal/app"
	"csv2coam/pkg/logging"
	"go.uber.org/zap"
)

// InitLogger 构建全局 logger。
func InitLogger(cfg app.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log.Level)
}
