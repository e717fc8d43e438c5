package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"csv2coam/internal/loader"
	"csv2coam/internal/normalize"
	"csv2coam/internal/source"
	"go.uber.org/zap"
)

// Service 负责装配各个 Flow 并提供统一入口。
type Service struct {
	cfg         Config
	neoClient   *loader.Client
	ConvertFlow *ConvertFlow
	ExportFlow  *ExportFlow
	logger      *zap.Logger
}

// NewService 根据配置构建 Service；仅在启用写图且配置了 neo4j.uri 时连接图库。
func NewService(ctx context.Context, cfg Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	convertFlow := &ConvertFlow{
		Settings: cfg.Convert.Defaults,
		CSV: &source.CSVReader{
			Fallback:   cfg.Convert.FallbackEncoding,
			Candidates: cfg.Convert.Encodings,
			Logger:     logger,
		},
		Clock:  normalize.SystemClock,
		Logger: logger,
	}
	svc := &Service{cfg: cfg, ConvertFlow: convertFlow, logger: logger}

	if !cfg.Export.Enabled {
		return svc, nil
	}
	if strings.TrimSpace(cfg.Neo4j.URI) == "" {
		return nil, fmt.Errorf("export.enabled 需要配置 neo4j.uri")
	}
	neoClient, err := loader.NewClient(ctx, loader.Config{
		URI:                  cfg.Neo4j.URI,
		Username:             cfg.Neo4j.Username,
		Password:             cfg.Neo4j.Password,
		Database:             cfg.Neo4j.Database,
		MaxConnectionPool:    cfg.Neo4j.MaxConnectionPool,
		ConnectionTimeoutSec: cfg.Neo4j.ConnectTimeoutSecond,
	})
	if err != nil {
		return nil, err
	}
	batchSize := cfg.Export.BatchSize
	svc.neoClient = neoClient
	svc.ExportFlow = &ExportFlow{
		Schema: loader.NewSchemaManager(neoClient),
		Nodes:  loader.NewNodeUpserter(neoClient, batchSize),
		Rels:   loader.NewRelUpserter(neoClient, batchSize),
		Fixer:  loader.NewEdgeFixer(neoClient),
		Verify: neoClient,
		Retry:  cfg.Export.Retry,
		Logger: logger,
	}
	return svc, nil
}

// Close 释放资源。
func (s *Service) Close(ctx context.Context) error {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	if s.neoClient != nil {
		return s.neoClient.Close(ctx)
	}
	return nil
}

// Convert 执行一次转换，启用写图时随后把文档写入图库。
func (s *Service) Convert(ctx context.Context, req Request) (Report, error) {
	if s.ConvertFlow == nil {
		return Report{}, fmt.Errorf("未初始化 convert flow")
	}
	report, err := s.ConvertFlow.Run(ctx, req)
	if err != nil {
		return report, err
	}
	if s.ExportFlow != nil {
		runID := time.Now().UTC().Format("20060102T150405Z")
		if err := s.ExportFlow.Run(ctx, report.Document, runID); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Config 返回服务使用的配置。
func (s *Service) Config() Config {
	return s.cfg
}
