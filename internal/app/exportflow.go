package app

import (
	"context"
	"fmt"
	"time"

	"csv2coam/internal/coam"
	"csv2coam/internal/domain"
	"csv2coam/internal/loader"
	"csv2coam/internal/metrics"
	"csv2coam/internal/util"
	"go.uber.org/zap"
)

// ExportFlow 把推送文档写入图库：建约束 -> 写节点 -> 写绑定关系 -> 补 HAS_POINT 边。
type ExportFlow struct {
	Schema *loader.SchemaManager
	Nodes  *loader.NodeUpserter
	Rels   *loader.RelUpserter
	Fixer  *loader.EdgeFixer
	// Verify 非空时在写图完成后按标签统计节点数。
	Verify loader.Runner
	Retry  Retry
	Logger *zap.Logger
}

// Run 执行写图，每一步按配置重试。
func (f *ExportFlow) Run(ctx context.Context, doc domain.Document, runID string) error {
	if f == nil {
		return fmt.Errorf("export flow 未初始化")
	}
	if f.Nodes == nil || f.Rels == nil {
		return fmt.Errorf("export flow 依赖未注入完整")
	}
	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}
	nodes, rels := coam.BuildGraphRows(doc, runID)
	f.Logger.Info("开始写图", zap.String("run_id", runID), zap.Int("nodes", len(nodes)), zap.Int("rels", len(rels)))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"schema", func() error {
			if f.Schema == nil {
				return nil
			}
			return f.Schema.Ensure(ctx)
		}},
		{"nodes", func() error { return f.Nodes.UpsertNodes(ctx, nodes) }},
		{"rels", func() error { return f.Rels.UpsertRels(ctx, rels) }},
		{"fix_edges", func() error {
			if f.Fixer == nil {
				return nil
			}
			return f.Fixer.Run(ctx, runID)
		}},
	}
	backoff := time.Duration(f.Retry.BackoffSeconds) * time.Second
	for _, step := range steps {
		if err := util.Retry(ctx, f.Retry.Attempts, backoff, step.fn); err != nil {
			metrics.ExportErrors.Inc()
			return fmt.Errorf("写图步骤 %s 失败: %w", step.name, err)
		}
	}
	if f.Verify != nil {
		counts, err := loader.CountByLabel(ctx, f.Verify, runID)
		if err != nil {
			f.Logger.Warn("写图核对失败", zap.String("run_id", runID), zap.Error(err))
		} else {
			f.Logger.Info("写图核对", zap.String("run_id", runID), zap.Any("counts", counts))
		}
	}
	f.Logger.Info("写图完成", zap.String("run_id", runID))
	return nil
}
