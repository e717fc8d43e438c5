package loader

import (
	"context"
	"fmt"

	"csv2coam/internal/cypher"
	"csv2coam/internal/domain"
	"csv2coam/pkg/util"
)

// NodeUpserter 负责批量写入节点。
type NodeUpserter struct {
	client    Runner
	batchSize int
}

// NewNodeUpserter 创建节点 upsert 器。
func NewNodeUpserter(client Runner, batchSize int) *NodeUpserter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &NodeUpserter{client: client, batchSize: batchSize}
}

// UpsertNodes 按标签组合分组、分批 MERGE 节点，已存在的节点以本次属性覆盖。
func (u *NodeUpserter) UpsertNodes(ctx context.Context, rows []domain.NodeRow) error {
	if len(rows) == 0 {
		return nil
	}
	grouped := groupByLabels(rows)
	for _, key := range sortedKeys(grouped) {
		group := grouped[key]
		query := cypher.MustTemplate("upsert_nodes.cql", map[string]string{"LabelPattern": domain.LabelPattern(group[0].Labels)})
		err := util.ForEachBatch(ctx, group, u.batchSize, func(chunk []domain.NodeRow) error {
			return u.client.RunWrite(ctx, query, map[string]any{"rows": toNodeParameters(chunk)})
		})
		if err != nil {
			return fmt.Errorf("写入节点失败 labels=%s: %w", key, err)
		}
	}
	return nil
}

func groupByLabels(rows []domain.NodeRow) map[string][]domain.NodeRow {
	grouped := make(map[string][]domain.NodeRow)
	for _, row := range rows {
		key := domain.JoinLabels(row.Labels)
		grouped[key] = append(grouped[key], row)
	}
	return grouped
}

func toNodeParameters(rows []domain.NodeRow) []map[string]any {
	res := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		res = append(res, map[string]any{
			"key":        row.Key,
			"properties": row.Properties,
			"run_id":     row.RunID,
			"updated_at": row.UpdatedAt,
		})
	}
	return res
}
