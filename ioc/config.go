package ioc

import "csv2coam/internal/app"

const defaultConfigPath = "configs/config.yaml"

// InitConfig 读取应用配置，配置文件不存在时使用默认值。
func InitConfig() (app.Config, error) {
	return app.LoadConfigOrDefault(defaultConfigPath)
}
