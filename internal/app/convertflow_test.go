package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"csv2coam/internal/coam"
	"csv2coam/internal/source"
)

const equipmentCSV = "设备编号,施工单位,施工区域,手机号,经度,纬度,海拔,管径直径,管箍,安装位置,拍摄时间\n" +
	"ZD-001,北京燃气,怀柔区,176****5751,116.63,40.32,85,DN200,有,青春路东口,2025/9/25 10:49\n" +
	"  ,北京燃气,怀柔区,,,,,,,,\n" +
	"ZD-002,北京燃气,怀柔区,138-1234-5678,116.65,40.34,86,DN100,,府前街,2025-9-25 11:02\n"

func newTestFlow() *ConvertFlow {
	return &ConvertFlow{
		Settings: coam.DefaultSettings(),
		CSV: &source.CSVReader{Detect: func([]byte) (string, error) {
			return "utf-8", nil
		}},
		Clock: func() time.Time { return time.Date(2025, 9, 26, 9, 0, 0, 0, time.Local) },
	}
}

func TestConvertFlowWritesDocument(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "equipment_data.csv")
	if err := os.WriteFile(input, []byte(equipmentCSV), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	report, err := newTestFlow().Run(context.Background(), Request{
		Input:     input,
		Overrides: coam.Settings{RegionCode: "110116"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Output != filepath.Join(dir, "equipment_data.json") {
		t.Fatalf("unexpected output path %s", report.Output)
	}
	if report.Rows != 2 || report.Dropped != 1 || report.Objects != 1 || report.Points != 2 || report.Equipments != 2 || report.Relations != 2 {
		t.Fatalf("unexpected report %+v", report)
	}

	data, err := os.ReadFile(report.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc map[string][]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	for _, key := range []string{"objectPushVoList", "pointPushVoList", "equipmentPushVoList", "equipRlPushVoList"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("missing collection %s", key)
		}
	}
	obj := doc["objectPushVoList"][0]
	if obj["coamObjectCode"] != "110116_gas_OBJ_001" {
		t.Fatalf("override not applied: %v", obj["coamObjectCode"])
	}
	if obj["coamLongitude"] != "116.640000" || obj["coamLatitude"] != "40.330000" {
		t.Fatalf("unexpected average coordinate %v,%v", obj["coamLongitude"], obj["coamLatitude"])
	}
	if doc["equipRlPushVoList"][1]["coamEquipCode"] != "ZD-002" {
		t.Fatalf("unexpected relation %v", doc["equipRlPushVoList"][1])
	}
}

func TestConvertFlowAbortsWithoutRows(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(input, []byte("设备编号,安装位置\n,西门\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	output := filepath.Join(dir, "out.json")

	_, err := newTestFlow().Run(context.Background(), Request{Input: input, Output: output})
	if !errors.Is(err, ErrNoValidRows) {
		t.Fatalf("expect ErrNoValidRows, got %v", err)
	}
	if !errors.Is(err, coam.ErrEmptyInput) {
		t.Fatalf("expect wrapped ErrEmptyInput, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("output must not be written on abort")
	}
}

func TestConvertFlowAbortsOnUndecodableInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.csv")
	if err := os.WriteFile(input, []byte{0xff, 0xfe, 0x00, 0xc3}, 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	flow := newTestFlow()
	flow.CSV.Candidates = []string{"utf-8-sig"}

	_, err := flow.Run(context.Background(), Request{Input: input})
	if !errors.Is(err, ErrNoValidRows) || !errors.Is(err, source.ErrEncodingExhausted) {
		t.Fatalf("expect exhausted encodings, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "broken.json")); !os.IsNotExist(statErr) {
		t.Fatalf("output must not be written on abort")
	}
}

func TestConvertFlowSkipWrite(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "equipment.csv")
	if err := os.WriteFile(input, []byte(equipmentCSV), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	report, err := newTestFlow().Run(context.Background(), Request{Input: input, SkipWrite: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Output != "" || len(report.Document.Points) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "equipment.json")); !os.IsNotExist(statErr) {
		t.Fatalf("SkipWrite must not create a file")
	}
}

func TestServiceWithoutExport(t *testing.T) {
	svc, err := NewService(context.Background(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close(context.Background())
	if svc.ExportFlow != nil {
		t.Fatalf("export flow must stay disabled by default")
	}

	cfg := DefaultConfig()
	cfg.Export.Enabled = true
	if _, err := NewService(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expect error when export enabled without neo4j uri")
	}
}
