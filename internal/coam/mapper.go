package coam

import (
	"errors"

	"csv2coam/internal/domain"
	"csv2coam/internal/normalize"
	"csv2coam/internal/source"
)

// ErrEmptyInput 表示过滤后没有任何有效行。
var ErrEmptyInput = errors.New("没有找到有效的设备数据")

// Document 组装四类记录，rows 为空时返回 ErrEmptyInput。
func (b *Builder) Document(rows []source.Row) (domain.Document, error) {
	if len(rows) == 0 {
		return domain.Document{}, ErrEmptyInput
	}
	ids := domain.NewIDGenerator(b.Clock)
	object := b.Object(rows, ids)
	points, equipments, relations := b.Expand(rows, object.Code, ids)
	return domain.Document{
		Objects:    []domain.Object{object},
		Points:     points,
		Equipments: equipments,
		Relations:  relations,
	}, nil
}

// BuildDocument 使用给定参数执行一次完整转换。
func BuildDocument(rows []source.Row, settings Settings, clock normalize.Clock) (domain.Document, error) {
	return NewBuilder(settings, clock, nil).Document(rows)
}
