package loader

import (
	"context"
	"fmt"

	"csv2coam/internal/cypher"
)

// EdgeFixer 根据节点属性补边：点位按 object_code 挂到监测对象下。
type EdgeFixer struct {
	client Runner
}

// NewEdgeFixer 创建 EdgeFixer。
func NewEdgeFixer(client Runner) *EdgeFixer {
	return &EdgeFixer{client: client}
}

// Run 对本次 runID 写入的点位补齐 HAS_POINT 边。
func (f *EdgeFixer) Run(ctx context.Context, runID string) error {
	params := map[string]any{"run_id": runID}
	for _, query := range cypher.Statements("fix_edges.cql") {
		if err := f.client.RunWrite(ctx, query, params); err != nil {
			return fmt.Errorf("补边失败: %w", err)
		}
	}
	return nil
}
