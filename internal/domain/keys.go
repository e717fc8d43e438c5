package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	LabelObject    = "MonitorObject"
	LabelPoint     = "MonitorPoint"
	LabelEquipment = "Equipment"

	RelHasPoint = "HAS_POINT"
	RelBoundTo  = "BOUND_TO"
)

const (
	PrefixObject    = "OBJ"
	PrefixPoint     = "POINT"
	PrefixEquipment = "EQUIP"
	PrefixRelation  = "REL"
)

// FormatID 生成 {prefix}_{YYYYMMDD}_{index:03d} 形式的 ID。
func FormatID(prefix string, day time.Time, index int) string {
	return fmt.Sprintf("%s_%s_%03d", prefix, day.Format("20060102"), index)
}

// ObjectCode 由区域编码和专项类型拼出监测对象编码，单次转换只产生一个对象。
func ObjectCode(region, sysFlag string) string {
	return fmt.Sprintf("%s_%s_OBJ_001", region, sysFlag)
}

// PointCode 生成点位编码，由行序号决定。
func PointCode(objectCode string, index int) string {
	return fmt.Sprintf("%s_P%03d", objectCode, index)
}

// FallbackEquipCode 在源数据缺少设备编号时使用。
func FallbackEquipCode(index int) string {
	return fmt.Sprintf("EQUIP_%d", index)
}

// IDGenerator 为每类实体维护单调递增的序号，仅保证单次转换内唯一。
type IDGenerator struct {
	now      func() time.Time
	counters map[string]int
}

// NewIDGenerator 创建生成器，now 为空时使用系统时间。
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now, counters: make(map[string]int)}
}

// Next 推进 prefix 对应的计数器并返回新 ID。
func (g *IDGenerator) Next(prefix string) string {
	g.counters[prefix]++
	return FormatID(prefix, g.now(), g.counters[prefix])
}

// Count 返回 prefix 已分配的数量。
func (g *IDGenerator) Count(prefix string) int {
	return g.counters[prefix]
}

// LabelPattern 根据标签集合拼成 Cypher 模板所需的字符串，如 ":A:B"。
func LabelPattern(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return ":" + JoinLabels(labels)
}

// JoinLabels 简单拼接标签用于 map key（内部使用）。
func JoinLabels(labels []string) string {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return strings.Join(sorted, ":")
}
