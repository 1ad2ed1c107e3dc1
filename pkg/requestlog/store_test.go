package requestlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadAllAbsentFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "requests_log.json"))

	records, err := store.ReadAll()
	if err != nil {
		t.Fatalf("absent file must read as empty log: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}

func TestAppendAndReadBack(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "requests_log.json"))

	total, err := store.Append(Record{
		Date:         "2026-08-30",
		Subject:      "Physics",
		OriginalLink: "https://example.com/lectures",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}

	total, err = store.Append(Record{
		Date:         "2026-08-30",
		Subject:      "Computer Networks",
		OriginalLink: "https://example.com/tcp",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}

	records, err := store.ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	// Log order preserved.
	if records[0].Subject != "Physics" || records[1].Subject != "Computer Networks" {
		t.Errorf("order broken: %v", records)
	}
	// SavedAt stamped on append.
	if _, err := time.Parse(time.RFC3339, records[0].SavedAt); err != nil {
		t.Errorf("SavedAt %q is not RFC3339: %v", records[0].SavedAt, err)
	}
}

func TestReadSingleObjectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests_log.json")
	content := `{"date": "2026-08-30", "subject": "Physics", "original_link": "https://example.com", "saved_at": "2026-08-30T10:00:00Z"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path)
	records, err := store.ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(records) != 1 || records[0].Subject != "Physics" {
		t.Fatalf("got %v", records)
	}
}

func TestFilter(t *testing.T) {
	now := time.Now()
	day := func(ago int) string {
		return now.AddDate(0, 0, -ago).Format(time.RFC3339)
	}

	records := []Record{
		{Subject: "Physics", OriginalLink: "a", SavedAt: day(0)},
		{Subject: "Physics", OriginalLink: "b", SavedAt: day(10)},
		{Subject: "Physics", OriginalLink: "c", SavedAt: day(40)},
		{Subject: "Computer Networks", OriginalLink: "d", SavedAt: day(1)},
		{Subject: "Physics", OriginalLink: "e", SavedAt: "garbage"},
	}

	cutoff := now.AddDate(0, 0, -30)
	got := Filter(records, "Physics", cutoff)

	if len(got) != 3 {
		t.Fatalf("got %d records, want 3: %v", len(got), got)
	}
	// In-window records in log order, the unparseable one kept at the end.
	if got[0].OriginalLink != "a" || got[1].OriginalLink != "b" || got[2].OriginalLink != "e" {
		t.Errorf("unexpected selection/order: %v", got)
	}
}
