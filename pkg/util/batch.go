package util

import "context"

// Batch 将切片按 size 切分为子切片，子切片与原切片共享底层数组；size 非正时整体作为一批。
func Batch[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size > len(items) {
		size = len(items)
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for len(items) > size {
		out = append(out, items[:size:size])
		items = items[size:]
	}
	return append(out, items)
}

// ForEachBatch 依次把每一批交给 fn，遇到错误或 ctx 结束立即返回。
func ForEachBatch[T any](ctx context.Context, items []T, size int, fn func([]T) error) error {
	for _, chunk := range Batch(items, size) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(chunk); err != nil {
			return err
		}
	}
	return nil
}
