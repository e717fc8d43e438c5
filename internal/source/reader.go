// Package source 负责读取外业采集的设备台账，输出按表头映射的原始行。
package source

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// 台账中识别的列名。
const (
	ColEquipCode    = "设备编号"
	ColCompany      = "施工单位"
	ColArea         = "施工区域"
	ColPhone        = "手机号"
	ColLongitude    = "经度"
	ColLatitude     = "纬度"
	ColAltitude     = "海拔"
	ColDiameter     = "管径直径"
	ColCoupling     = "管箍"
	ColLocation     = "安装位置"
	ColCaptureTime  = "拍摄时间"
	primaryKeyField = ColEquipCode
)

// ErrEncodingExhausted 表示候选编码全部解码失败。
var ErrEncodingExhausted = errors.New("所有候选编码均无法解析文件")

// Row 是一行原始数据，key 为表头列名。
type Row map[string]string

// Get 返回列值，不存在时为空串。
func (r Row) Get(col string) string {
	return r[col]
}

// Attempt 记录一次候选编码尝试的结果。
type Attempt struct {
	Encoding string
	Err      error
}

// Batch 是一次读取的结果。
type Batch struct {
	Rows     []Row
	Encoding string
	Detected string
	Dropped  int
	Attempts []Attempt
}

// Reader 抽象台账数据源。
type Reader interface {
	Read(ctx context.Context, path string) (Batch, error)
}

// StaticReader 用于测试或已解析好的数据，直接返回预设批次。
type StaticReader struct {
	Batch Batch
}

// Read 返回预设批次。
func (r *StaticReader) Read(context.Context, string) (Batch, error) {
	return r.Batch, nil
}

// ForPath 按扩展名选择读取器，.xlsx/.xlsm 使用 XLSXReader，其余按 CSV 处理。
func ForPath(path string, csvReader *CSVReader) Reader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return &XLSXReader{}
	}
	if csvReader == nil {
		csvReader = &CSVReader{}
	}
	return csvReader
}

// collector 把表头之后的记录组装成 Row，并在同一遍扫描中过滤缺少主键的行。
type collector struct {
	header  []string
	rows    []Row
	dropped int
}

func newCollector(header []string) *collector {
	cleaned := make([]string, len(header))
	for i, h := range header {
		cleaned[i] = cleanHeader(h)
	}
	return &collector{header: cleaned}
}

func (c *collector) add(record []string) {
	row := make(Row, len(c.header))
	for i, name := range c.header {
		if i >= len(record) || name == "" {
			continue
		}
		row[name] = record[i]
	}
	if strings.TrimSpace(row[primaryKeyField]) == "" {
		c.dropped++
		return
	}
	c.rows = append(c.rows, row)
}

func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.TrimSpace(h)
}
