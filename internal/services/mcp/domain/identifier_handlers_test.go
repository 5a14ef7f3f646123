package domain

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/uuidforge/internal/history"
	"github.com/louisbranch/uuidforge/internal/id"
	apperrors "github.com/louisbranch/uuidforge/internal/platform/errors"
	"github.com/louisbranch/uuidforge/internal/services/mcp/registry"
)

// seqReader yields an incrementing byte sequence so generated values are
// distinct and deterministic.
type seqReader struct{ next byte }

func (r *seqReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func testGenerator() *id.Generator {
	return id.NewGeneratorWithSource(&seqReader{}, func() time.Time {
		return time.UnixMilli(1700000000000).UTC()
	})
}

func TestGenerateUUIDHandler(t *testing.T) {
	t.Run("single value reported inline", func(t *testing.T) {
		log := history.NewLog(0)
		handler := GenerateUUIDHandler(testGenerator(), log, nil)
		result, err := handler(context.Background(), registry.Args{"version": "random", "count": 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Content) != 1 || result.Content[0].Type != "text" {
			t.Fatalf("expected one text content, got %+v", result.Content)
		}
		text := result.Content[0].Text
		if !strings.HasPrefix(text, "Generated random UUID: ") {
			t.Errorf("unexpected summary %q", text)
		}
		if strings.Contains(text, "\n1.") {
			t.Errorf("single value must not be index-prefixed, got %q", text)
		}
		value := strings.TrimPrefix(text, "Generated random UUID: ")
		if check := id.Validate(value); !check.Valid || check.Version != 4 {
			t.Errorf("expected valid version 4 value, got %q", value)
		}
		if log.Len() != 1 {
			t.Errorf("expected 1 history record, got %d", log.Len())
		}
	})

	t.Run("multiple values are numbered", func(t *testing.T) {
		log := history.NewLog(0)
		handler := GenerateUUIDHandler(testGenerator(), log, nil)
		result, err := handler(context.Background(), registry.Args{"version": "random", "count": 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := result.Content[0].Text
		if !strings.HasPrefix(text, "Generated 3 random UUIDs:") {
			t.Errorf("unexpected summary header %q", text)
		}
		for _, prefix := range []string{"\n1. ", "\n2. ", "\n3. "} {
			if !strings.Contains(text, prefix) {
				t.Errorf("expected %q in summary %q", prefix, text)
			}
		}
		if log.Len() != 3 {
			t.Errorf("expected 3 history records, got %d", log.Len())
		}
		records := log.Snapshot(3)
		for i, prefix := range []string{"1. ", "2. ", "3. "} {
			if !strings.Contains(text, "\n"+prefix+records[i].Identifier) {
				t.Errorf("expected record %d (%s) at position %s in summary %q", i, records[i].Identifier, prefix, text)
			}
		}
	})

	t.Run("time-ordered values carry version 7", func(t *testing.T) {
		log := history.NewLog(0)
		handler := GenerateUUIDHandler(testGenerator(), log, nil)
		_, err := handler(context.Background(), registry.Args{"version": "time-ordered", "count": 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, record := range log.Snapshot(2) {
			if record.Variant != id.VariantTimeOrdered {
				t.Errorf("expected time-ordered variant, got %q", record.Variant)
			}
			if check := id.Validate(record.Identifier); !check.Valid || check.Version != 7 {
				t.Errorf("expected valid version 7 value, got %q", record.Identifier)
			}
			if record.CreatedAt.IsZero() {
				t.Error("expected record timestamp to be set")
			}
		}
	})

	t.Run("notifies history update once", func(t *testing.T) {
		log := history.NewLog(0)
		var notified []string
		notify := func(_ context.Context, uri string) { notified = append(notified, uri) }
		handler := GenerateUUIDHandler(testGenerator(), log, notify)
		if _, err := handler(context.Background(), registry.Args{"version": "random", "count": 5}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(notified) != 1 {
			t.Fatalf("expected 1 notification, got %d", len(notified))
		}
		if notified[0] != HistoryResourceURI {
			t.Errorf("expected %q, got %q", HistoryResourceURI, notified[0])
		}
	})

	t.Run("entropy failure surfaces as error", func(t *testing.T) {
		log := history.NewLog(0)
		generator := id.NewGeneratorWithSource(errReader{}, time.Now)
		handler := GenerateUUIDHandler(generator, log, nil)
		_, err := handler(context.Background(), registry.Args{"version": "random", "count": 1})
		if err == nil {
			t.Fatal("expected error")
		}
		if code := apperrors.CodeOf(err); code != apperrors.CodeGenerationUnavailable {
			t.Errorf("expected GENERATION_UNAVAILABLE, got %s", code)
		}
		if log.Len() != 0 {
			t.Errorf("expected no history records, got %d", log.Len())
		}
	})
}

func TestValidateUUIDHandler(t *testing.T) {
	handler := ValidateUUIDHandler()

	tests := []struct {
		name       string
		identifier string
		want       string
	}{
		{
			name:       "valid version 4",
			identifier: "f47ac10b-58cc-4372-a567-0e02b2c3d479",
			want:       `"f47ac10b-58cc-4372-a567-0e02b2c3d479" is a valid version 4 UUID`,
		},
		{
			name:       "valid version 7",
			identifier: "01890a5d-ac96-774b-bcce-b302099a8057",
			want:       `"01890a5d-ac96-774b-bcce-b302099a8057" is a valid version 7 UUID`,
		},
		{
			name:       "uppercase accepted",
			identifier: "F47AC10B-58CC-4372-A567-0E02B2C3D479",
			want:       `"F47AC10B-58CC-4372-A567-0E02B2C3D479" is a valid version 4 UUID`,
		},
		{
			name:       "malformed input fails",
			identifier: "not-a-uuid",
			want:       `"not-a-uuid" is not a valid UUID`,
		},
		{
			name:       "nil uuid fails version check",
			identifier: "00000000-0000-0000-0000-000000000000",
			want:       `"00000000-0000-0000-0000-000000000000" is not a valid UUID`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := handler(context.Background(), registry.Args{"identifier": tc.identifier})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Content) != 1 {
				t.Fatalf("expected one content element, got %d", len(result.Content))
			}
			if result.Content[0].Text != tc.want {
				t.Errorf("expected %q, got %q", tc.want, result.Content[0].Text)
			}
		})
	}
}
