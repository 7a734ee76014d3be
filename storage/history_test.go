package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAssignsID(t *testing.T) {
	store, err := NewHistoryInMemory()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	err = store.Record(ctx, SummaryRecord{
		Model:        "gemini-2.0-flash",
		Provider:     "gemini",
		RequestChars: 1200,
		SummaryChars: 180,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID == "" {
		t.Error("expected an assigned ID")
	}
	if records[0].Model != "gemini-2.0-flash" || records[0].Provider != "gemini" {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	store, err := NewHistoryInMemory()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, model := range []string{"older", "newer"} {
		err := store.Record(ctx, SummaryRecord{
			Model:     model,
			Provider:  "gemini",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Model != "newer" {
		t.Errorf("expected newest first, got %+v", records)
	}
}

func TestRecentLimit(t *testing.T) {
	store, err := NewHistoryInMemory()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.Record(ctx, SummaryRecord{Model: "m", Provider: "gemini"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	records, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected limit of 3, got %d", len(records))
	}
}

func TestOpenHistoryCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := OpenHistory(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	if err := store.Record(context.Background(), SummaryRecord{Model: "m", Provider: "gemini"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
