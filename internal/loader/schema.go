package loader

import (
	"context"
	"fmt"

	"csv2coam/internal/cypher"
)

// SchemaManager 负责初始化约束和索引。
type SchemaManager struct {
	client Runner
}

// NewSchemaManager 创建 SchemaManager。
func NewSchemaManager(client Runner) *SchemaManager {
	return &SchemaManager{client: client}
}

// Ensure 以自动提交方式执行 init_schema.cql 中的语句，语句本身需幂等。
func (m *SchemaManager) Ensure(ctx context.Context) error {
	for _, query := range cypher.Statements("init_schema.cql") {
		if err := m.client.RunRaw(ctx, query, nil); err != nil {
			return fmt.Errorf("执行 schema 语句失败: %w", err)
		}
	}
	return nil
}
