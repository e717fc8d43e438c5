package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// contextCheckInterval 控制解析时检查 ctx 的行间隔。
const contextCheckInterval = 100

// CSVReader 读取带表头的 CSV，按候选编码逐个试解码，第一个完整解析成功的编码胜出。
type CSVReader struct {
	// Fallback 在检测失败时作为首选编码，默认 DefaultFallback。
	Fallback string
	// Candidates 排在检测结果之后，默认 DefaultCandidates。
	Candidates []string
	// Detect 默认为 DetectCharset。
	Detect func([]byte) (string, error)
	Logger *zap.Logger
}

// Read 实现 Reader。
func (r *CSVReader) Read(ctx context.Context, path string) (Batch, error) {
	data, err := readFile(path)
	if err != nil {
		return Batch{}, err
	}
	return r.Parse(ctx, data)
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	return data, nil
}

// Parse 对内存中的字节执行编码检测与逐个候选解析。
func (r *CSVReader) Parse(ctx context.Context, data []byte) (Batch, error) {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	detect := r.Detect
	if detect == nil {
		detect = DetectCharset
	}
	fallback := strings.TrimSpace(r.Fallback)
	if fallback == "" {
		fallback = DefaultFallback
	}
	rest := r.Candidates
	if len(rest) == 0 {
		rest = DefaultCandidates
	}

	first, err := detect(data)
	detected := first
	if err != nil {
		first = fallback
		detected = ""
		logger.Warn("编码检测失败，使用默认编码", zap.String("encoding", first), zap.Error(err))
	} else {
		logger.Info("检测到文件编码", zap.String("encoding", first))
	}

	batch := Batch{Detected: detected}
	for _, name := range Candidates(first, rest) {
		if err := ctx.Err(); err != nil {
			return Batch{}, err
		}
		rows, dropped, err := parseWith(ctx, name, data)
		batch.Attempts = append(batch.Attempts, Attempt{Encoding: name, Err: err})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return Batch{}, err
			}
			logger.Warn("使用该编码解析失败", zap.String("encoding", name), zap.Error(err))
			continue
		}
		batch.Rows = rows
		batch.Dropped = dropped
		batch.Encoding = name
		logger.Info("成功读取文件", zap.String("encoding", name), zap.Int("rows", len(rows)), zap.Int("dropped", dropped))
		return batch, nil
	}

	errs := make([]error, 0, len(batch.Attempts))
	for _, a := range batch.Attempts {
		errs = append(errs, a.Err)
	}
	return batch, fmt.Errorf("%w: %v", ErrEncodingExhausted, errors.Join(errs...))
}

// parseWith 用一个候选编码完整解析；任何错误都丢弃已累积的行。
func parseWith(ctx context.Context, encodingName string, data []byte) ([]Row, int, error) {
	text, err := Decode(encodingName, data)
	if err != nil {
		return nil, 0, err
	}
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("读取表头失败: %w", err)
	}
	c := newCollector(header)
	for line := 1; ; line++ {
		if line%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("解析第 %d 行失败: %w", line+1, err)
		}
		c.add(record)
	}
	return c.rows, c.dropped, nil
}
