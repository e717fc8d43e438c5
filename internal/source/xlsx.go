package source

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXEncoding 标记来自工作簿的批次，工作簿内部恒为 UTF-8。
const XLSXEncoding = "xlsx"

// XLSXReader 读取工作簿的第一个工作表，首行为表头。
type XLSXReader struct {
	// Sheet 为空时使用第一个工作表。
	Sheet string
}

// Read 实现 Reader。
func (r *XLSXReader) Read(ctx context.Context, path string) (Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Batch{}, fmt.Errorf("打开工作簿失败: %w", err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return Batch{}, fmt.Errorf("读取工作表 %s 失败: %w", sheet, err)
	}
	batch := Batch{Encoding: XLSXEncoding, Detected: XLSXEncoding}
	if len(records) == 0 {
		return batch, nil
	}
	c := newCollector(records[0])
	for i, record := range records[1:] {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return Batch{}, err
			}
		}
		c.add(record)
	}
	batch.Rows = c.rows
	batch.Dropped = c.dropped
	return batch, nil
}
