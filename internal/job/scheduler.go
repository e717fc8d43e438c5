package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"csv2coam/internal/app"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultCronSpec = "@every 1m"

// ConvertFunc 执行一次转换，通常为 (*app.Service).Convert。
type ConvertFunc func(context.Context, app.Request) (app.Report, error)

// SweepResult 汇总一次收件箱扫描。
type SweepResult struct {
	Converted []string
	Failed    []string
}

// Scheduler 按 cron 表达式扫描收件箱并转换其中的表格文件。
type Scheduler struct {
	cronExpr string
	inbox    string
	outbox   string
	archive  string
	logger   *zap.Logger
	cron     *cron.Cron
	convert  ConvertFunc
	parent   context.Context
	mu       sync.Mutex
	running  bool
}

// NewScheduler 根据 watch 配置构建调度器；未配置收件箱时返回 nil。
func NewScheduler(cfg app.Config, convert ConvertFunc, logger *zap.Logger) *Scheduler {
	inbox := strings.TrimSpace(cfg.Watch.Inbox)
	if inbox == "" {
		return nil
	}
	spec := strings.TrimSpace(cfg.Watch.Cron)
	if spec == "" {
		spec = defaultCronSpec
	}
	outbox := strings.TrimSpace(cfg.Watch.Outbox)
	if outbox == "" {
		outbox = inbox
	}
	archive := strings.TrimSpace(cfg.Watch.Archive)
	if archive == "" {
		archive = filepath.Join(inbox, "archive")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cronExpr: spec,
		inbox:    inbox,
		outbox:   outbox,
		archive:  archive,
		logger:   logger,
		convert:  convert,
	}
}

// Start 启动调度器，返回用于停止任务的函数。
func (s *Scheduler) Start(parent context.Context) context.CancelFunc {
	if s == nil {
		return func() {}
	}
	s.parent = parent
	c := cron.New()
	id, err := c.AddFunc(s.cronExpr, s.runOnce)
	if err != nil {
		s.logger.Error("注册定时任务失败", zap.String("cron", s.cronExpr), zap.Error(err))
		return func() {}
	}
	s.cron = c
	c.Start()
	entry := c.Entry(id)
	s.logger.Info("收件箱扫描已启动", zap.String("cron", s.cronExpr), zap.String("inbox", s.inbox), zap.Time("next", entry.Next))

	var once sync.Once
	stop := func() {
		once.Do(func() {
			ctx := s.cron.Stop()
			<-ctx.Done()
			s.logger.Info("收件箱扫描已停止")
		})
	}

	go func() {
		<-parent.Done()
		stop()
	}()

	return stop
}

func (s *Scheduler) runOnce() {
	if s.convert == nil {
		s.logger.Warn("未配置转换函数")
		return
	}
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("上一次扫描仍在进行，跳过本次调度")
		return
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	runCtx := context.Background()
	if s.parent != nil {
		if s.parent.Err() != nil {
			s.logger.Info("调度上下文已取消，跳过扫描")
			return
		}
		runCtx = s.parent
	}
	start := time.Now()
	result, err := s.Sweep(runCtx)
	elapsed := time.Since(start)
	if err != nil {
		s.logger.Error("收件箱扫描失败", zap.Duration("duration", elapsed), zap.Error(err))
		return
	}
	s.logger.Info("收件箱扫描完成",
		zap.Duration("duration", elapsed),
		zap.Int("converted", len(result.Converted)),
		zap.Int("failed", len(result.Failed)))
}

// Sweep 转换收件箱中的每个 .csv/.xlsx 文件，成功的源文件移入归档目录，失败的留在原处。
func (s *Scheduler) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	inputs, err := s.pending()
	if err != nil {
		return result, err
	}
	if len(inputs) == 0 {
		return result, nil
	}
	if err := os.MkdirAll(s.outbox, 0o755); err != nil {
		return result, fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.MkdirAll(s.archive, 0o755); err != nil {
		return result, fmt.Errorf("创建归档目录失败: %w", err)
	}
	for _, input := range inputs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		name := filepath.Base(input)
		out := filepath.Join(s.outbox, strings.TrimSuffix(name, filepath.Ext(name))+".json")
		if _, err := s.convert(ctx, app.Request{Input: input, Output: out}); err != nil {
			s.logger.Warn("转换失败，源文件保留在收件箱", zap.String("input", input), zap.Error(err))
			result.Failed = append(result.Failed, input)
			continue
		}
		if err := os.Rename(input, filepath.Join(s.archive, name)); err != nil {
			s.logger.Warn("归档源文件失败", zap.String("input", input), zap.Error(err))
		}
		result.Converted = append(result.Converted, input)
	}
	return result, nil
}

func (s *Scheduler) pending() ([]string, error) {
	entries, err := os.ReadDir(s.inbox)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取收件箱失败: %w", err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			out = append(out, filepath.Join(s.inbox, entry.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}
