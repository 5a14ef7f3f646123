package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/uuidforge/internal/id"
)

func record(n int) Record {
	return Record{
		Identifier: fmt.Sprintf("id-%03d", n),
		Variant:    id.VariantRandom,
		CreatedAt:  time.UnixMilli(int64(n)),
	}
}

func TestAppendAndSnapshotOrder(t *testing.T) {
	log := NewLog(10)
	for i := 1; i <= 3; i++ {
		log.Append(record(i))
	}

	got := log.Snapshot(10)
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	for i, rec := range got {
		want := fmt.Sprintf("id-%03d", i+1)
		if rec.Identifier != want {
			t.Fatalf("expected record %d to be %q, got %q", i, want, rec.Identifier)
		}
	}
}

func TestAppendEvictsOldest(t *testing.T) {
	log := NewLog(100)
	for i := 1; i <= 150; i++ {
		log.Append(record(i))
	}

	if log.Len() != 100 {
		t.Fatalf("expected length capped at 100, got %d", log.Len())
	}

	got := log.Snapshot(20)
	if len(got) != 20 {
		t.Fatalf("expected 20 records, got %d", len(got))
	}
	for i, rec := range got {
		want := fmt.Sprintf("id-%03d", 131+i)
		if rec.Identifier != want {
			t.Fatalf("expected record %d to be %q, got %q", i, want, rec.Identifier)
		}
	}
}

func TestSnapshotLimits(t *testing.T) {
	log := NewLog(5)
	for i := 1; i <= 3; i++ {
		log.Append(record(i))
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "limit below length", limit: 2, want: 2},
		{name: "limit equals length", limit: 3, want: 3},
		{name: "limit beyond length", limit: 10, want: 3},
		{name: "zero limit", limit: 0, want: 0},
		{name: "negative limit", limit: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := log.Snapshot(tt.limit)
			if len(got) != tt.want {
				t.Fatalf("expected %d records, got %d", tt.want, len(got))
			}
		})
	}
}

func TestSnapshotReturnsMostRecentWindow(t *testing.T) {
	log := NewLog(5)
	for i := 1; i <= 3; i++ {
		log.Append(record(i))
	}

	got := log.Snapshot(2)
	if got[0].Identifier != "id-002" || got[1].Identifier != "id-003" {
		t.Fatalf("expected window [id-002 id-003], got [%s %s]", got[0].Identifier, got[1].Identifier)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	log := NewLog(5)
	log.Append(record(1))

	got := log.Snapshot(5)
	got[0].Identifier = "mutated"

	again := log.Snapshot(5)
	if again[0].Identifier != "id-001" {
		t.Fatalf("expected log to be unaffected by snapshot mutation, got %q", again[0].Identifier)
	}
}

func TestEmptyLog(t *testing.T) {
	log := NewLog(5)

	if log.Len() != 0 {
		t.Fatalf("expected empty log, got %d", log.Len())
	}
	if got := log.Snapshot(5); got != nil {
		t.Fatalf("expected nil snapshot, got %v", got)
	}
}

func TestNewLogDefaultCapacity(t *testing.T) {
	log := NewLog(0)
	for i := 1; i <= DefaultCapacity+10; i++ {
		log.Append(record(i))
	}
	if log.Len() != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, log.Len())
	}
}

func TestConcurrentAppends(t *testing.T) {
	log := NewLog(100)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				log.Append(record(n*50 + j))
			}
		}(i)
	}
	wg.Wait()

	if log.Len() != 100 {
		t.Fatalf("expected length capped at 100, got %d", log.Len())
	}
	if got := log.Snapshot(20); len(got) != 20 {
		t.Fatalf("expected 20 records, got %d", len(got))
	}
}
