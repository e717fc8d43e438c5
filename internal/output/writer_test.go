package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csv2coam/internal/domain"
)

func TestDefaultPath(t *testing.T) {
	cases := map[string]string{
		"data/equipment_data.csv": "data/equipment_data.json",
		"设备.xlsx":                 "设备.json",
		"noext":                   "noext.json",
		"dir.v2/file":             "dir.v2/file.json",
	}
	for in, want := range cases {
		if got := DefaultPath(in); got != want {
			t.Fatalf("DefaultPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func sampleDocument() domain.Document {
	return domain.Document{
		Objects: []domain.Object{{ID: "OBJ_20250925_001", Name: "燃气管线 <A&B>"}},
		Points:  []domain.Point{{ID: "POINT_20250925_001", ExtraField: `{"coupling":"无"}`}},
	}
}

func TestEncodeKeepsNonASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleDocument()); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"燃气管线 <A&B>",
		"\n    \"objectPushVoList\": [",
		`"equipmentPushVoList": null`,
		`"extraField": "{\"coupling\":\"无\"}"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expect output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestWriteDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")
	if err := WriteDocument(path, sampleDocument()); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Contains(data, []byte("OBJ_20250925_001")) {
		t.Fatalf("unexpected content: %s", data)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expect only the output file, got %d entries", len(entries))
	}
}

func TestWriteDocumentMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	if err := WriteDocument(path, sampleDocument()); err == nil {
		t.Fatalf("expect error for missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("no output file should exist")
	}
}
