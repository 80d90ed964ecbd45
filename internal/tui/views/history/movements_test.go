package history

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/testutil"
)

func press(v *MovementsView, keys ...string) {
	for _, k := range keys {
		v.Update(testutil.Key(k))
	}
}

func TestMovementsView_Windows(t *testing.T) {
	s, clock := testutil.NewSeededStore(t)
	// two weeks on, only the whole-history view reaches the seeded movements
	clock.Advance(14 * 24 * time.Hour)
	if _, err := s.RecordMovement(context.Background(), store.MovementInput{
		Kind: models.MovementEntry, ItemCode: "HID001", Quantity: 4, Responsible: "Ana Paula",
	}); err != nil {
		t.Fatalf("RecordMovement() error = %v", err)
	}

	v := NewMovementsView(s)
	tests := []struct {
		label string
		rows  int
	}{
		{"Last 7 days", 1},
		{"Last 30 days", 7},
		{"Today", 1},
		{"All", 7},
	}
	for i, tt := range tests {
		if i > 0 {
			press(v, "w")
		}
		if v.table.RowCount() != tt.rows {
			t.Errorf("%s: RowCount() = %d, want %d", tt.label, v.table.RowCount(), tt.rows)
		}
		if !strings.Contains(v.Render(120, 40), "Period: "+tt.label) {
			t.Errorf("%s: period label not shown", tt.label)
		}
	}
}

func TestMovementsView_KindFilter(t *testing.T) {
	s, _ := testutil.NewSeededStore(t)
	v := NewMovementsView(s)

	if v.table.RowCount() != 6 {
		t.Fatalf("RowCount() = %d, want 6", v.table.RowCount())
	}

	press(v, "e")
	out := v.Render(120, 40)
	if v.table.RowCount() != 3 || !strings.Contains(out, "Kind: Entry") {
		t.Errorf("entries: RowCount() = %d", v.table.RowCount())
	}
	if !strings.Contains(out, "Entries: 75 units   Exits: 0 units") {
		t.Errorf("totals line missing:\n%s", out)
	}

	press(v, "e")
	if v.table.RowCount() != 3 {
		t.Errorf("exits: RowCount() = %d, want 3", v.table.RowCount())
	}
	if !strings.Contains(v.Render(120, 40), "-30 metro") {
		t.Error("exits should show negative quantities")
	}
}

func TestMovementsView_Detail(t *testing.T) {
	s, _ := testutil.NewSeededStore(t)
	v := NewMovementsView(s)

	press(v, "enter")
	out := v.Render(120, 40)
	for _, want := range []string{"MOVEMENT MOV001", "HID002 Conexão PVC 50mm", "NF-2024-001234", "Reposição de estoque mensal"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q", want)
		}
	}
	if !v.Back() || v.Back() {
		t.Error("Back() should close the detail pane exactly once")
	}
}
