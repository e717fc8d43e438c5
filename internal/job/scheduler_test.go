package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"csv2coam/internal/app"
)

func newTestScheduler(t *testing.T, convert ConvertFunc) (*Scheduler, app.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := app.DefaultConfig()
	cfg.Watch.Inbox = filepath.Join(root, "inbox")
	cfg.Watch.Outbox = filepath.Join(root, "outbox")
	cfg.Watch.Archive = filepath.Join(root, "archive")
	if err := os.MkdirAll(cfg.Watch.Inbox, 0o755); err != nil {
		t.Fatalf("mkdir inbox: %v", err)
	}
	return NewScheduler(cfg, convert, nil), cfg
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("设备编号\nA1\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewSchedulerDisabledWithoutInbox(t *testing.T) {
	if s := NewScheduler(app.DefaultConfig(), nil, nil); s != nil {
		t.Fatalf("expect nil scheduler when inbox is empty")
	}
	var s *Scheduler
	s.Start(context.Background())()
}

func TestSweepArchivesSuccessAndKeepsFailures(t *testing.T) {
	var outputs []string
	convert := func(_ context.Context, req app.Request) (app.Report, error) {
		if filepath.Base(req.Input) == "bad.csv" {
			return app.Report{}, app.ErrNoValidRows
		}
		outputs = append(outputs, req.Output)
		return app.Report{Input: req.Input, Output: req.Output}, nil
	}
	s, cfg := newTestScheduler(t, convert)
	touch(t, filepath.Join(cfg.Watch.Inbox, "good.csv"))
	touch(t, filepath.Join(cfg.Watch.Inbox, "bad.csv"))
	touch(t, filepath.Join(cfg.Watch.Inbox, "notes.txt"))

	result, err := s.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(result.Converted) != 1 || len(result.Failed) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(outputs) != 1 || outputs[0] != filepath.Join(cfg.Watch.Outbox, "good.json") {
		t.Fatalf("unexpected outputs %v", outputs)
	}
	if _, err := os.Stat(filepath.Join(cfg.Watch.Archive, "good.csv")); err != nil {
		t.Fatalf("good.csv should be archived: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Watch.Inbox, "bad.csv")); err != nil {
		t.Fatalf("bad.csv should stay in inbox: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Watch.Inbox, "notes.txt")); err != nil {
		t.Fatalf("notes.txt should be ignored: %v", err)
	}
}

func TestSweepMissingInbox(t *testing.T) {
	s, cfg := newTestScheduler(t, func(context.Context, app.Request) (app.Report, error) {
		return app.Report{}, errors.New("unexpected call")
	})
	if err := os.RemoveAll(cfg.Watch.Inbox); err != nil {
		t.Fatalf("remove inbox: %v", err)
	}
	result, err := s.Sweep(context.Background())
	if err != nil || len(result.Converted)+len(result.Failed) != 0 {
		t.Fatalf("missing inbox should be a no-op, got %+v %v", result, err)
	}
}

func TestRunOnceSkipsWhileRunning(t *testing.T) {
	calls := 0
	s, cfg := newTestScheduler(t, func(context.Context, app.Request) (app.Report, error) {
		calls++
		return app.Report{}, nil
	})
	touch(t, filepath.Join(cfg.Watch.Inbox, "a.csv"))
	s.running = true
	s.runOnce()
	if calls != 0 {
		t.Fatalf("overlapping run should be skipped")
	}
	s.running = false
	s.runOnce()
	if calls != 1 {
		t.Fatalf("expect 1 conversion, got %d", calls)
	}
}
