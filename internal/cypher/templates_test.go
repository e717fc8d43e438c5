package cypher

import (
	"strings"
	"testing"
)

func TestMustTemplateRendersLabels(t *testing.T) {
	query := MustTemplate("upsert_rels.cql", map[string]string{
		"StartLabel": ":Equipment",
		"EndLabel":   ":MonitorPoint",
		"RelType":    ":BOUND_TO",
	})
	for _, want := range []string{"(s:Equipment {key: row.start_key})", "(e:MonitorPoint {key: row.end_key})", "-[r:BOUND_TO]->"} {
		if !strings.Contains(query, want) {
			t.Fatalf("expect %q in rendered query:\n%s", want, query)
		}
	}
}

func TestMustAssetSchema(t *testing.T) {
	schema := MustAsset("init_schema.cql")
	if strings.Count(schema, "CREATE CONSTRAINT") != 3 {
		t.Fatalf("unexpected schema:\n%s", schema)
	}
}

func TestStatementsSplitsOnSemicolon(t *testing.T) {
	stmts := Statements("init_schema.cql")
	if len(stmts) != 4 {
		t.Fatalf("expect 4 statements, got %d: %v", len(stmts), stmts)
	}
	for _, s := range stmts {
		if strings.HasSuffix(s, ";") || s == "" {
			t.Fatalf("statement not trimmed: %q", s)
		}
	}
}

func TestMustTemplateMissingKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expect panic on missing template data")
		}
	}()
	MustTemplate("upsert_nodes.cql", map[string]string{})
}
