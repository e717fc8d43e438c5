package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
convert:
  defaults:
    region_code: "110116"
    manage_company: "怀柔燃气"
  fallback_encoding: gb18030
neo4j:
  uri: bolt://localhost:7687
watch:
  inbox: /data/inbox
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	d := cfg.Convert.Defaults
	if d.RegionCode != "110116" || d.ManageCompany != "怀柔燃气" {
		t.Fatalf("file values not applied: %+v", d)
	}
	if d.SysFlag != "gas" || d.EquipType != "jcsb174" {
		t.Fatalf("defaults lost on partial override: %+v", d)
	}
	if cfg.Convert.FallbackEncoding != "gb18030" || len(cfg.Convert.Encodings) == 0 {
		t.Fatalf("unexpected encodings %+v", cfg.Convert)
	}
	if cfg.Neo4j.Database != "neo4j" || cfg.Watch.Cron != "@every 1m" || cfg.HTTP.Listen != ":8080" {
		t.Fatalf("section defaults lost: %+v", cfg)
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Convert.Defaults.SysFlag != "gas" {
		t.Fatalf("unexpected defaults %+v", cfg.Convert.Defaults)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("convert: [1,2"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfigOrDefault(bad); err == nil {
		t.Fatalf("expect parse error")
	}
}
