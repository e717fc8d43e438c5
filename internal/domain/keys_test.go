package domain

import (
	"testing"
	"time"
)

func TestLabelPattern(t *testing.T) {
	pattern := LabelPattern([]string{"MonitorPoint", "Equipment"})
	if pattern != ":Equipment:MonitorPoint" {
		t.Fatalf("unexpected pattern %s", pattern)
	}
	if LabelPattern(nil) != "" {
		t.Fatalf("expect empty pattern for no labels")
	}
}

func TestCodes(t *testing.T) {
	obj := ObjectCode("110000", "gas")
	if obj != "110000_gas_OBJ_001" {
		t.Fatalf("unexpected object code %s", obj)
	}
	if got := PointCode(obj, 7); got != "110000_gas_OBJ_001_P007" {
		t.Fatalf("unexpected point code %s", got)
	}
	if got := FallbackEquipCode(12); got != "EQUIP_12" {
		t.Fatalf("unexpected fallback code %s", got)
	}
}

func TestIDGeneratorCountsPerKind(t *testing.T) {
	day := time.Date(2025, 9, 25, 10, 0, 0, 0, time.Local)
	gen := NewIDGenerator(func() time.Time { return day })

	if got := gen.Next(PrefixObject); got != "OBJ_20250925_001" {
		t.Fatalf("unexpected id %s", got)
	}
	gen.Next(PrefixPoint)
	if got := gen.Next(PrefixPoint); got != "POINT_20250925_002" {
		t.Fatalf("unexpected id %s", got)
	}
	if got := gen.Next(PrefixEquipment); got != "EQUIP_20250925_001" {
		t.Fatalf("counters must be scoped per kind, got %s", got)
	}
	if gen.Count(PrefixPoint) != 2 || gen.Count(PrefixRelation) != 0 {
		t.Fatalf("unexpected counts")
	}
	if got := FormatID("REL", day, 1234); got != "REL_20250925_1234" {
		t.Fatalf("index wider than three digits must not be truncated, got %s", got)
	}
}
