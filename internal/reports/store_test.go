package reports

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"techsprint/internal/config"
	"techsprint/internal/qc"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = dir
	cfg.Paths.OutputDir = filepath.Join(dir, "output")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.ReportDB = ""
	store, err := Open(&cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleReport(mode string, failures []string) *qc.Report {
	return &qc.Report{
		Mode:          mode,
		AudioDuration: 9.0,
		CueCount:      3,
		SpanOK:        true,
		Passed:        len(failures) == 0,
		Failures:      failures,
	}
}

func TestStoreSaveAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, "run-1", "tiktok", sampleReport("strict", nil))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	entry, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.RunID != "run-1" || entry.Profile != "tiktok" || entry.Mode != "strict" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !entry.Passed {
		t.Fatal("report with no failures must be marked passed")
	}
	if entry.Report == nil || entry.Report.CueCount != 3 {
		t.Fatalf("payload not restored: %+v", entry.Report)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("created timestamp not recorded")
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "run-a", "tiktok", sampleReport("strict", nil)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(ctx, "run-b", "reels", sampleReport("broadcast", []string{"Subtitle coverage ends too early"})); err != nil {
		t.Fatalf("save: %v", err)
	}

	entries, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].RunID != "run-b" || entries[1].RunID != "run-a" {
		t.Fatalf("entries not newest first: %+v", entries)
	}
	if entries[0].Passed || entries[0].Failures != 1 {
		t.Fatalf("failed run not recorded: %+v", entries[0])
	}
	if entries[0].Report != nil {
		t.Fatal("list must not load payloads")
	}
}

func TestStoreListHonorsLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := store.Save(ctx, "run", "tiktok", sampleReport("warn", nil)); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("limit ignored, got %d entries", len(entries))
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := testStore(t)
	if _, err := store.Get(context.Background(), 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
