package loader

import (
	"context"
	"fmt"
	"time"

	"csv2coam/internal/cypher"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config 控制 Neo4j 连接参数。
type Config struct {
	URI                  string
	Username             string
	Password             string
	Database             string
	MaxConnectionPool    int
	ConnectionTimeoutSec int
}

// Runner 是写图所需的最小接口，便于测试替换实现。
type Runner interface {
	RunWrite(ctx context.Context, query string, params map[string]any) error
	RunRaw(ctx context.Context, query string, params map[string]any) error
	RunRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Client 封装 Neo4j Driver。
type Client struct {
	driver   neo4j.DriverWithContext
	database string
}

var _ Runner = (*Client)(nil)

// NewClient 创建客户端并校验连通性。
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j uri 不能为空")
	}
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(config *neo4j.Config) {
		if cfg.MaxConnectionPool > 0 {
			config.MaxConnectionPoolSize = cfg.MaxConnectionPool
		}
		if cfg.ConnectionTimeoutSec > 0 {
			config.SocketConnectTimeout = time.Duration(cfg.ConnectionTimeoutSec) * time.Second
		}
	})
	if err != nil {
		return nil, fmt.Errorf("创建 neo4j driver 失败: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j 无法连通: %w", err)
	}
	return &Client{driver: driver, database: cfg.Database}, nil
}

// Close 关闭连接。
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// RunWrite 在写事务中执行语句并消费结果。
func (c *Client) RunWrite(ctx context.Context, query string, params map[string]any) error {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	defer sess.Close(ctx)
	_, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, runErr := tx.Run(ctx, query, params)
		if runErr != nil {
			return nil, runErr
		}
		return nil, consume(ctx, res)
	})
	if err != nil {
		return fmt.Errorf("执行写入失败: %w", err)
	}
	return nil
}

// RunRaw 以自动提交方式执行语句，schema 语句不能放在显式事务里。
func (c *Client) RunRaw(ctx context.Context, query string, params map[string]any) error {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	defer sess.Close(ctx)
	res, err := sess.Run(ctx, query, params)
	if err != nil {
		return fmt.Errorf("执行语句失败: %w", err)
	}
	return consume(ctx, res)
}

// RunRead 执行只读查询并返回记录集合。
func (c *Client) RunRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeRead})
	defer sess.Close(ctx)
	out, err := sess.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records := make([]map[string]any, 0)
		for res.Next(ctx) {
			records = append(records, res.Record().AsMap())
		}
		return records, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("执行查询失败: %w", err)
	}
	records, _ := out.([]map[string]any)
	return records, nil
}

func consume(ctx context.Context, result neo4j.ResultWithContext) error {
	for result.Next(ctx) {
		// 消费结果即可
	}
	return result.Err()
}

// CountByLabel 统计 runID 写入的节点数，按标签汇总，用于写图后的核对。
func CountByLabel(ctx context.Context, r Runner, runID string) (map[string]int64, error) {
	records, err := r.RunRead(ctx, cypher.MustAsset("count_by_label.cql"), map[string]any{"run_id": runID})
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(records))
	for _, rec := range records {
		label, _ := rec["label"].(string)
		total, _ := rec["total"].(int64)
		if label != "" {
			counts[label] = total
		}
	}
	return counts, nil
}
