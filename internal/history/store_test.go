package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mediaconv/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleRecord(id string, outcome history.Outcome, finished time.Time) *history.Record {
	return &history.Record{
		ID:          id,
		SourcePath:  "/media/in/clip.mov",
		Destination: "/media/out/clip.mp4",
		Kind:        "video",
		Target:      "mp4",
		Backend:     "native",
		Outcome:     outcome,
		StartedAt:   finished.Add(-30 * time.Second),
		FinishedAt:  finished,
	}
}

func TestAddAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	record := sampleRecord("session-1", history.OutcomeSucceeded, now)
	if err := store.Add(ctx, record); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	got, err := store.Get(ctx, "session-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if got.Outcome != history.OutcomeSucceeded || got.Destination != record.Destination {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.FinishedAt.Equal(now) {
		t.Fatalf("finished_at mismatch: got %v want %v", got.FinishedAt, now)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	store := openStore(t)
	got, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing record, got %+v", got)
	}
}

func TestAddRequiresID(t *testing.T) {
	store := openStore(t)
	record := sampleRecord("", history.OutcomeFailed, time.Now())
	if err := store.Add(context.Background(), record); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"a", "b", "c"} {
		record := sampleRecord(id, history.OutcomeSucceeded, base.Add(time.Duration(i)*time.Minute))
		if err := store.Add(ctx, record); err != nil {
			t.Fatalf("Add %s returned error: %v", id, err)
		}
	}

	records, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "c" || records[1].ID != "b" {
		t.Fatalf("unexpected order: %s, %s", records[0].ID, records[1].ID)
	}

	all, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent(0) returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected all 3 records, got %d", len(all))
	}
}

func TestClear(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Add(ctx, sampleRecord("x", history.OutcomeCancelled, time.Now())); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed row, got %d", removed)
	}

	records, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d rows", len(records))
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := store.Add(context.Background(), sampleRecord("keep", history.OutcomeSucceeded, time.Now())); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(context.Background(), "keep")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got == nil {
		t.Fatal("record lost across reopen")
	}
}
