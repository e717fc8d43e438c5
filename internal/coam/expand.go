package coam

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"csv2coam/internal/domain"
	"csv2coam/internal/normalize"
	"csv2coam/internal/source"
)

// pointExtra 是点位 extraField 的内容。
type pointExtra struct {
	Altitude         string `json:"altitude"`
	PipelineDiameter string `json:"pipelineDiameter"`
	Coupling         string `json:"coupling"`
}

// deviceDetail 与 pointExtra 内容相同，字段顺序不同，两处各自内嵌。
type deviceDetail struct {
	PipelineDiameter string `json:"pipelineDiameter"`
	Coupling         string `json:"coupling"`
	Altitude         string `json:"altitude"`
}

// rowFields 是一行规范化后的取值。
type rowFields struct {
	equipCode string
	pointCode string
	at        string
	phone     int64
	longitude string
	latitude  string
	altitude  string
	diameter  string
	coupling  string
	location  string
	company   string
}

func (b *Builder) fields(row source.Row, index int, objectCode string) rowFields {
	return rowFields{
		equipCode: normalize.SafeText(row.Get(source.ColEquipCode), domain.FallbackEquipCode(index)),
		pointCode: domain.PointCode(objectCode, index),
		at:        normalize.Timestamp(row.Get(source.ColCaptureTime), b.Clock),
		phone:     b.phone(row.Get(source.ColPhone), index),
		longitude: normalize.SafeText(row.Get(source.ColLongitude), "0"),
		latitude:  normalize.SafeText(row.Get(source.ColLatitude), "0"),
		altitude:  normalize.SafeText(row.Get(source.ColAltitude), "0"),
		diameter:  normalize.SafeText(row.Get(source.ColDiameter), ""),
		coupling:  normalize.SafeText(row.Get(source.ColCoupling), DefaultCoupling),
		location:  normalize.SafeText(row.Get(source.ColLocation), fmt.Sprintf("位置%d", index)),
		company:   normalize.SafeText(row.Get(source.ColCompany), b.Settings.ManageCompany),
	}
}

// Expand 为每一行生成一个点位、一台设备和一条绑定关系，序号从 1 开始。
func (b *Builder) Expand(rows []source.Row, objectCode string, ids *domain.IDGenerator) ([]domain.Point, []domain.Equipment, []domain.Relation) {
	points := make([]domain.Point, 0, len(rows))
	equipments := make([]domain.Equipment, 0, len(rows))
	relations := make([]domain.Relation, 0, len(rows))

	for i, row := range rows {
		f := b.fields(row, i+1, objectCode)
		audit := domain.NewAudit(f.phone, f.at)

		points = append(points, domain.Point{
			ID:         ids.Next(domain.PrefixPoint),
			Code:       f.pointCode,
			Name:       f.location + "监测点",
			Status:     StatusEnable,
			Alarm:      FlagYes,
			Threshold:  FlagYes,
			ObjectCode: objectCode,
			Region:     b.Settings.RegionCode,
			Position:   f.location,
			Longitude:  f.longitude,
			Latitude:   f.latitude,
			Type:       b.Settings.SubjectType,
			ExtraField: embedJSON(pointExtra{Altitude: f.altitude, PipelineDiameter: f.diameter, Coupling: f.coupling}),
			Audit:      audit,
		})

		equipments = append(equipments, domain.Equipment{
			ID:            ids.Next(domain.PrefixEquipment),
			Name:          f.location + "监测设备",
			Code:          f.equipCode,
			DynamicCode:   f.equipCode,
			Type:          b.Settings.EquipType,
			ManageCompany: f.company,
			SysFlag:       b.Settings.SysFlag,
			Location:      f.location,
			Status:        EquipStatusNormal,
			DataSource:    DataSourceImport,
			IsMaintain:    NotMaintained,
			ExamineStatus: ExamineApproved,
			ProjectID:     b.Settings.ProjectID,
			ObjectCode:    objectCode,
			PointCode:     f.pointCode,
			PointBindDate: f.at,
			DeviceDetail:  embedJSON(deviceDetail{PipelineDiameter: f.diameter, Coupling: f.coupling, Altitude: f.altitude}),
			ProductCode:   b.Settings.ProductCode,
			IMEI:          f.equipCode,
			IsSelfBuilt:   NotSelfBuilt,
			Audit:         audit,
		})

		relations = append(relations, domain.Relation{
			ID:        ids.Next(domain.PrefixRelation),
			EquipCode: f.equipCode,
			PointCode: f.pointCode,
			Status:    RelationBound,
			AddTime:   f.at,
			Descript:  RelationDescript,
			Audit:     audit,
		})
	}
	return points, equipments, relations
}

// embedJSON 把 v 编码为内嵌在字段中的 JSON 文本，非 ASCII 字符不转义。
func embedJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimRight(buf.String(), "\n")
}
