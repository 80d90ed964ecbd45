package util

import (
	"strings"
	"testing"
	"time"
)

func TestIDGenerator_NextIsUniqueWithinSameMillisecond(t *testing.T) {
	clock := NewFixedClock(time.Date(2024, 1, 20, 8, 30, 0, 0, time.UTC))
	gen := NewIDGenerator(clock)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := gen.Next("MOV")
		if seen[id] {
			t.Fatalf("duplicate id %s after %d calls", id, i)
		}
		seen[id] = true
		if !strings.HasPrefix(id, "MOV") {
			t.Errorf("expected MOV prefix, got %s", id)
		}
	}
}

func TestIDGenerator_NextFragment(t *testing.T) {
	clock := NewFixedClock(time.UnixMilli(1705739400123))
	gen := NewIDGenerator(clock)

	got := gen.NextFragment("B", 6)
	if got != "B400123" {
		t.Errorf("NextFragment() = %s, want B400123", got)
	}

	next := gen.NextFragment("B", 6)
	if next != "B400124" {
		t.Errorf("NextFragment() second call = %s, want B400124", next)
	}
}

func TestNewRevision(t *testing.T) {
	a := NewRevision()
	b := NewRevision()

	for _, rev := range []string{a, b} {
		if _, err := ParseID(rev); err != nil {
			t.Fatalf("NewRevision() = %q: %v", rev, err)
		}
	}
	if a == b {
		t.Error("expected distinct revisions")
	}
}

func TestParseID(t *testing.T) {
	if _, err := ParseID("not-a-uuid"); err == nil {
		t.Error("expected error for invalid id")
	}

	id, err := ParseID("0190F7A4-2B6E-7C3D-8E9F-0A1B2C3D4E5F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "0190f7a4-2b6e-7c3d-8e9f-0a1b2c3d4e5f" {
		t.Errorf("expected lowercase normalization, got %s", id)
	}
}
