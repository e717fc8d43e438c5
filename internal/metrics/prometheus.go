package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultSuccess = "success"
	ResultEmpty   = "empty"
	ResultError   = "error"
)

var (
	ConvertTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coam_convert_total",
		Help: "按结果统计的转换次数",
	}, []string{"result"})

	ConvertDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coam_convert_duration_seconds",
		Help:    "单次转换耗时",
		Buckets: prometheus.DefBuckets,
	})

	RowsAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coam_rows_accepted_total",
		Help: "通过设备编号校验的行数",
	})

	RowsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coam_rows_dropped_total",
		Help: "缺少设备编号被丢弃的行数",
	})

	EncodingUsed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coam_source_encoding_total",
		Help: "成功解析所用的编码",
	}, []string{"encoding"})

	ExportErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coam_graph_export_errors_total",
		Help: "写图失败次数",
	})
)

var registerOnce sync.Once

// MustRegister 注册指标，重复调用只生效一次。
func MustRegister(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(ConvertTotal, ConvertDuration, RowsAccepted, RowsDropped, EncodingUsed, ExportErrors)
	})
}
