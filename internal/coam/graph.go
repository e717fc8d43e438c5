package coam

import (
	"time"

	"csv2coam/internal/domain"
)

// BuildGraphRows 把推送文档映射为写图所需的节点和关系。
// 对象与点位之间的 HAS_POINT 边由 loader.EdgeFixer 依据点位的 object_code 补齐。
func BuildGraphRows(doc domain.Document, runID string) ([]domain.NodeRow, []domain.RelRow) {
	now := time.Now().UTC()
	nodes := make([]domain.NodeRow, 0, len(doc.Objects)+len(doc.Points)+len(doc.Equipments))
	rels := make([]domain.RelRow, 0, len(doc.Relations))

	for _, obj := range doc.Objects {
		nodes = append(nodes, domain.NodeRow{
			Key:    obj.Code,
			Labels: []string{domain.LabelObject},
			Properties: map[string]any{
				"id":        obj.ID,
				"name":      obj.Name,
				"type":      obj.Type,
				"region":    obj.Region,
				"project":   obj.Project,
				"mechanism": obj.Mechanism,
				"position":  obj.Position,
				"sys_flag":  obj.SysFlag,
				"longitude": obj.Longitude,
				"latitude":  obj.Latitude,
			},
			RunID:     runID,
			UpdatedAt: now,
		})
	}

	for _, p := range doc.Points {
		nodes = append(nodes, domain.NodeRow{
			Key:    p.Code,
			Labels: []string{domain.LabelPoint},
			Properties: map[string]any{
				"id":          p.ID,
				"name":        p.Name,
				"object_code": p.ObjectCode,
				"position":    p.Position,
				"longitude":   p.Longitude,
				"latitude":    p.Latitude,
				"extra":       p.ExtraField,
			},
			RunID:     runID,
			UpdatedAt: now,
		})
	}

	for _, e := range doc.Equipments {
		nodes = append(nodes, domain.NodeRow{
			Key:    e.Code,
			Labels: []string{domain.LabelEquipment},
			Properties: map[string]any{
				"id":             e.ID,
				"name":           e.Name,
				"type":           e.Type,
				"manage_company": e.ManageCompany,
				"product_code":   e.ProductCode,
				"imei":           e.IMEI,
				"point_code":     e.PointCode,
				"detail":         e.DeviceDetail,
			},
			RunID:     runID,
			UpdatedAt: now,
		})
	}

	for _, r := range doc.Relations {
		rels = append(rels, domain.RelRow{
			StartKey: r.EquipCode,
			EndKey:   r.PointCode,
			Type:     domain.RelBoundTo,
			Properties: map[string]any{
				"id":       r.ID,
				"status":   r.Status,
				"add_time": r.AddTime,
			},
			RunID: runID,
		})
	}
	return nodes, rels
}
