package coam

import (
	"csv2coam/internal/normalize"
	"go.uber.org/zap"
)

// 推送文档中的固定取值。
const (
	StatusEnable      = "ENABLE"
	FlagYes           = "是"
	EquipStatusNormal = "equipStatus0"
	DataSourceImport  = "0"
	NotMaintained     = "0"
	ExamineApproved   = "3"
	NotSelfBuilt      = "0"
	RelationBound     = "1"
	RelationDescript  = "设备与点位绑定"
	DefaultCoupling   = "无"
)

// Builder 把原始行转换为推送文档，持有一次转换所需的全部参数。
type Builder struct {
	Settings Settings
	Clock    normalize.Clock
	Logger   *zap.Logger
}

// NewBuilder 创建 Builder，clock 与 logger 可为空。
func NewBuilder(settings Settings, clock normalize.Clock, logger *zap.Logger) *Builder {
	if clock == nil {
		clock = normalize.SystemClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{Settings: settings, Clock: clock, Logger: logger}
}

// phone 解析手机号，格式错误按 0 处理并记录告警。
func (b *Builder) phone(raw string, index int) int64 {
	v, err := normalize.ParsePhone(raw)
	if err != nil {
		b.Logger.Warn("手机号格式错误，按 0 处理", zap.Int("row", index), zap.String("value", raw), zap.Error(err))
		return 0
	}
	return v
}
