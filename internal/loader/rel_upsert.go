package loader

import (
	"context"
	"fmt"
	"sort"

	"csv2coam/internal/cypher"
	"csv2coam/internal/domain"
	retryutil "csv2coam/internal/util"
	"csv2coam/pkg/util"
)

// relEndpoints 记录每种关系两端节点的标签，用于限定 MATCH 范围。
var relEndpoints = map[string][2]string{
	domain.RelBoundTo:  {domain.LabelEquipment, domain.LabelPoint},
	domain.RelHasPoint: {domain.LabelObject, domain.LabelPoint},
}

// RelUpserter 负责关系批量写入。
type RelUpserter struct {
	client    Runner
	batchSize int
}

// NewRelUpserter 创建关系 upsert 器，batchSize 非正时使用 100。
func NewRelUpserter(client Runner, batchSize int) *RelUpserter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &RelUpserter{client: client, batchSize: batchSize}
}

// UpsertRels 按关系类型分组写入，两端节点需已存在。
func (u *RelUpserter) UpsertRels(ctx context.Context, rows []domain.RelRow) error {
	if len(rows) == 0 {
		return nil
	}
	grouped := make(map[string][]domain.RelRow)
	for _, row := range rows {
		grouped[row.Type] = append(grouped[row.Type], row)
	}

	for _, relType := range sortedKeys(grouped) {
		query, err := relQuery(relType)
		if err != nil {
			return err
		}
		err = util.ForEachBatch(ctx, grouped[relType], u.batchSize, func(chunk []domain.RelRow) error {
			return u.client.RunWrite(ctx, query, map[string]any{"rows": toRelParameters(chunk)})
		})
		if err != nil {
			return fmt.Errorf("写入关系失败 type=%s: %w", relType, err)
		}
	}
	return nil
}

func relQuery(relType string) (string, error) {
	ends, ok := relEndpoints[relType]
	if !ok {
		return "", retryutil.Permanent(fmt.Errorf("未知关系类型 %s", relType))
	}
	return cypher.MustTemplate("upsert_rels.cql", map[string]string{
		"StartLabel": domain.LabelPattern([]string{ends[0]}),
		"EndLabel":   domain.LabelPattern([]string{ends[1]}),
		"RelType":    ":" + relType,
	}), nil
}

func toRelParameters(rows []domain.RelRow) []map[string]any {
	res := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		res = append(res, map[string]any{
			"start_key":  row.StartKey,
			"end_key":    row.EndKey,
			"properties": row.Properties,
			"run_id":     row.RunID,
		})
	}
	return res
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
