package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"csv2coam/internal/coam"
	"csv2coam/internal/domain"
	"csv2coam/internal/metrics"
	"csv2coam/internal/normalize"
	"csv2coam/internal/output"
	"csv2coam/internal/source"
	"go.uber.org/zap"
)

// ErrNoValidRows 表示输入为空、无法解码或过滤后没有有效行，本次转换不写出任何文件。
var ErrNoValidRows = errors.New("文件为空或格式错误，没有找到有效的设备数据")

// Request 描述一次转换。
type Request struct {
	Input  string
	Output string
	// Overrides 中的非空字段覆盖配置中的业务参数。
	Overrides coam.Settings
	// SkipWrite 为 true 时只生成文档不落盘。
	SkipWrite bool
}

// Report 汇总一次转换的结果。
type Report struct {
	Input      string
	Output     string
	Encoding   string
	Rows       int
	Dropped    int
	Objects    int
	Points     int
	Equipments int
	Relations  int
	Duration   time.Duration
	Document   domain.Document
}

// ConvertFlow 负责单次转换：读取 -> 组装文档 -> 写出。
type ConvertFlow struct {
	Settings coam.Settings
	CSV      *source.CSVReader
	Clock    normalize.Clock
	Logger   *zap.Logger
}

// Run 执行转换；没有有效行时返回包装了 ErrNoValidRows 的错误且不写文件。
func (f *ConvertFlow) Run(ctx context.Context, req Request) (Report, error) {
	if f == nil {
		return Report{}, fmt.Errorf("convert flow 未初始化")
	}
	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}
	start := time.Now()
	report, err := f.run(ctx, req)
	report.Duration = time.Since(start)
	metrics.ConvertDuration.Observe(report.Duration.Seconds())
	switch {
	case err == nil:
		metrics.ConvertTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	case errors.Is(err, ErrNoValidRows):
		metrics.ConvertTotal.WithLabelValues(metrics.ResultEmpty).Inc()
	default:
		metrics.ConvertTotal.WithLabelValues(metrics.ResultError).Inc()
	}
	return report, err
}

func (f *ConvertFlow) run(ctx context.Context, req Request) (Report, error) {
	report := Report{Input: req.Input}
	reader := source.ForPath(req.Input, f.csvReader())
	batch, err := reader.Read(ctx, req.Input)
	if err != nil {
		f.Logger.Error("读取输入失败", zap.String("input", req.Input), zap.Error(err))
		return report, fmt.Errorf("%w: %w", ErrNoValidRows, err)
	}
	report.Encoding = batch.Encoding
	report.Rows = len(batch.Rows)
	report.Dropped = batch.Dropped
	metrics.RowsAccepted.Add(float64(len(batch.Rows)))
	metrics.RowsDropped.Add(float64(batch.Dropped))
	if batch.Encoding != "" {
		metrics.EncodingUsed.WithLabelValues(batch.Encoding).Inc()
	}

	settings := f.Settings.Merge(req.Overrides)
	builder := coam.NewBuilder(settings, f.Clock, f.Logger)
	doc, err := builder.Document(batch.Rows)
	if err != nil {
		f.Logger.Error("没有有效的设备数据", zap.String("input", req.Input), zap.Int("dropped", batch.Dropped))
		return report, fmt.Errorf("%w: %w", ErrNoValidRows, err)
	}
	report.Document = doc
	report.Objects = len(doc.Objects)
	report.Points = len(doc.Points)
	report.Equipments = len(doc.Equipments)
	report.Relations = len(doc.Relations)

	if req.SkipWrite {
		return report, nil
	}
	report.Output = req.Output
	if report.Output == "" {
		report.Output = output.DefaultPath(req.Input)
	}
	if err := output.WriteDocument(report.Output, doc); err != nil {
		return report, err
	}
	f.Logger.Info("转换完成",
		zap.String("input", report.Input),
		zap.String("output", report.Output),
		zap.String("encoding", report.Encoding),
		zap.Int("rows", report.Rows),
		zap.Int("dropped", report.Dropped),
		zap.Int("objects", report.Objects),
		zap.Int("points", report.Points),
		zap.Int("equipments", report.Equipments),
		zap.Int("relations", report.Relations))
	return report, nil
}

func (f *ConvertFlow) csvReader() *source.CSVReader {
	if f.CSV != nil {
		return f.CSV
	}
	return &source.CSVReader{Logger: f.Logger}
}
