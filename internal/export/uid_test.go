package export

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"
)

func TestDeriveUIDMatchesHostCanonicalForm(t *testing.T) {
	start := At(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))

	sum := sha256.Sum256([]byte("e1" + "2024-01-01 09:00:00+00:00"))
	want := hex.EncodeToString(sum[:])

	if got := DeriveUID("e1", start); got != want {
		t.Fatalf("DeriveUID = %s, want %s", got, want)
	}
	if got := DeriveUID("e1", start.Time); got != want {
		t.Fatalf("DeriveUID with time.Time = %s, want %s", got, want)
	}
}

func TestDeriveUIDDeterministic(t *testing.T) {
	start := At(time.Date(2024, 3, 5, 14, 30, 0, 0, time.FixedZone("CET", 3600)))
	first := DeriveUID("event-42", start)
	second := DeriveUID("event-42", start)
	if first != second {
		t.Fatalf("expected identical digests, got %s and %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(first))
	}
}

func TestDeriveUIDChangesWithEitherInput(t *testing.T) {
	start := At(time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC))
	base := DeriveUID("event-42", start)

	if DeriveUID("event-43", start) == base {
		t.Error("changing the source id did not change the uid")
	}
	if DeriveUID("event-42", At(start.Time.Add(time.Hour))) == base {
		t.Error("changing the start did not change the uid")
	}
	if DeriveUID("event-42", OnDay(start.Time)) == base {
		t.Error("all-day start hashed like a date-time start")
	}
}

func TestInstantString(t *testing.T) {
	tests := []struct {
		name string
		in   Instant
		want string
	}{
		{"utc", At(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)), "2024-01-01 09:00:00+00:00"},
		{"offset", At(time.Date(2024, 6, 1, 18, 15, 0, 0, time.FixedZone("", -5*3600))), "2024-06-01 18:15:00-05:00"},
		{"micro", At(time.Date(2024, 1, 1, 9, 0, 0, 1500, time.UTC)), "2024-01-01 09:00:00.000001+00:00"},
		{"date", OnDay(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)), "2024-02-29"},
	}

	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
