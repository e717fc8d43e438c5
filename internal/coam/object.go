package coam

import (
	"fmt"

	"csv2coam/internal/domain"
	"csv2coam/internal/normalize"
	"csv2coam/internal/source"
)

// 没有任何有效坐标时使用的对象中心点。
const (
	DefaultLongitude = 116.0
	DefaultLatitude  = 40.0
)

// AverageCoordinate 对经纬度都非零的行分别求均值，没有这样的行时返回默认坐标。
func AverageCoordinate(rows []source.Row) (lon, lat float64) {
	var sumLon, sumLat float64
	n := 0
	for _, row := range rows {
		rowLon := normalize.SafeNumber(row.Get(source.ColLongitude), 0)
		rowLat := normalize.SafeNumber(row.Get(source.ColLatitude), 0)
		if rowLon == 0 || rowLat == 0 {
			continue
		}
		sumLon += rowLon
		sumLat += rowLat
		n++
	}
	if n == 0 {
		return DefaultLongitude, DefaultLatitude
	}
	return sumLon / float64(n), sumLat / float64(n)
}

// Object 生成本次转换唯一的监测对象，机构、位置和审计字段取自首行。
func (b *Builder) Object(rows []source.Row, ids *domain.IDGenerator) domain.Object {
	settings := b.Settings
	var first source.Row
	if len(rows) > 0 {
		first = rows[0]
	}
	code := domain.ObjectCode(settings.RegionCode, settings.SysFlag)
	lon, lat := AverageCoordinate(rows)
	at := normalize.Timestamp(first.Get(source.ColCaptureTime), b.Clock)

	return domain.Object{
		ID:          ids.Next(domain.PrefixObject),
		Code:        code,
		Name:        settings.ObjectName,
		Type:        settings.ObjectType,
		Mechanism:   normalize.SafeText(first.Get(source.ColCompany), settings.ManageCompany),
		Region:      settings.RegionCode,
		Project:     settings.ProjectID,
		Position:    normalize.SafeText(first.Get(source.ColArea), ""),
		Status:      StatusEnable,
		Usable:      0,
		SysFlag:     settings.SysFlag,
		SubjectType: settings.SubjectType,
		SubjectCode: code,
		Longitude:   fmt.Sprintf("%.6f", lon),
		Latitude:    fmt.Sprintf("%.6f", lat),
		Audit:       domain.NewAudit(b.phone(first.Get(source.ColPhone), 1), at),
	}
}
