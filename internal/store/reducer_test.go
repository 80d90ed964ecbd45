package store

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/saae/almox/internal/models"
)

func sampleState() State {
	return State{
		Items: []models.Item{
			{Code: "A1", Name: "Luva", Category: "EPI", Unit: "par", CurrentQty: 10, MinQty: 5},
			{Code: "A2", Name: "Cabo", Category: "Elétrica", Unit: "metro", CurrentQty: 3, MinQty: 5},
		},
		Movements: []models.Movement{{ID: "MOV1", ItemCode: "A1"}},
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := sampleState()
	snapshot := before.Clone()

	actions := []Action{
		AddItem{Item: models.Item{Code: "A3"}},
		UpdateItem{Item: models.Item{Code: "A1", CurrentQty: 99}},
		DeleteItem{Code: "A2"},
		AddMovement{Movement: models.Movement{ID: "MOV2"}},
		AdjustItemQuantity{Code: "A1", Kind: models.MovementExit, Quantity: 4, At: time.Now()},
	}

	for _, a := range actions {
		_ = Reduce(before, a)
		if !reflect.DeepEqual(before, snapshot) {
			t.Fatalf("Reduce(%T) mutated its input", a)
		}
	}
}

func TestReduce_AdjustItemQuantity(t *testing.T) {
	at := time.Date(2024, 1, 21, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		kind     models.MovementKind
		quantity int
		want     int
	}{
		{"entry adds", models.MovementEntry, 7, 17},
		{"exit subtracts", models.MovementExit, 4, 6},
		{"exit clamps at zero", models.MovementExit, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(sampleState(), AdjustItemQuantity{Code: "A1", Kind: tt.kind, Quantity: tt.quantity, At: at})
			item := got.Items[0]
			if item.CurrentQty != tt.want {
				t.Errorf("CurrentQty = %d, want %d", item.CurrentQty, tt.want)
			}
			if item.LastMovementDate != "2024-01-21" {
				t.Errorf("LastMovementDate = %q", item.LastMovementDate)
			}
		})
	}

	unknown := Reduce(sampleState(), AdjustItemQuantity{Code: "ZZ", Kind: models.MovementEntry, Quantity: 1, At: at})
	if !reflect.DeepEqual(unknown, sampleState()) {
		t.Error("adjusting an unknown item changed state")
	}
}

func TestReduce_AddMovementPrepends(t *testing.T) {
	got := Reduce(sampleState(), AddMovement{Movement: models.Movement{ID: "MOV2"}})
	if len(got.Movements) != 2 || got.Movements[0].ID != "MOV2" {
		t.Errorf("movements = %+v", got.Movements)
	}
}

func TestReduce_UpdateAndDeleteMissingKeepState(t *testing.T) {
	s := sampleState()
	if got := Reduce(s, UpdateItem{Item: models.Item{Code: "NOPE"}}); !reflect.DeepEqual(got, s) {
		t.Error("update of missing item changed state")
	}
	if got := Reduce(s, DeletePump{ID: "B999"}); !reflect.DeepEqual(got, s) {
		t.Error("delete of missing pump changed state")
	}
}

func TestReduce_ReplaceState(t *testing.T) {
	replacement := State{Users: []models.User{{ID: "USR1"}}}
	got := Reduce(sampleState(), ReplaceState{State: replacement})
	if !reflect.DeepEqual(got, replacement) {
		t.Errorf("ReplaceState = %+v", got)
	}
}

type unknownAction struct{}

func (unknownAction) action() {}

func TestReduce_PanicsOnUnknownAction(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Reduce(sampleState(), unknownAction{})
}

func TestChangesItems(t *testing.T) {
	tests := []struct {
		action Action
		want   bool
	}{
		{AddItem{}, true},
		{UpdateItem{}, true},
		{DeleteItem{}, true},
		{AdjustItemQuantity{}, true},
		{AddMovement{}, false},
		{AddPump{}, false},
		{UpdateAlert{}, false},
		{ReplaceState{}, false},
	}

	for _, tt := range tests {
		if got := ChangesItems(tt.action); got != tt.want {
			t.Errorf("ChangesItems(%T) = %v, want %v", tt.action, got, tt.want)
		}
	}
}

func TestDeriveLowStockAlerts(t *testing.T) {
	at := time.UnixMilli(1705745400000).UTC()
	s := sampleState()
	s.Items = append(s.Items, models.Item{Code: "A3", Name: "Fita", CurrentQty: 0, MinQty: 2})

	got := DeriveLowStockAlerts(s, at, "Almoxarife")
	if len(got.Alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %+v", got.Alerts)
	}

	medium, high := got.Alerts[0], got.Alerts[1]
	if medium.ID != "ALT1705745400000-A2" || medium.Priority != models.PriorityMedium {
		t.Errorf("unexpected alert %+v", medium)
	}
	if medium.Title != "Cabo - Estoque Baixo" || !strings.Contains(medium.Description, "(3)") {
		t.Errorf("unexpected text %q / %q", medium.Title, medium.Description)
	}
	if high.Priority != models.PriorityHigh || high.Title != "Fita - Estoque Crítico" {
		t.Errorf("unexpected alert %+v", high)
	}
	if high.Status != models.AlertPending || high.Responsible != "Almoxarife" || high.GeneratedAt != "2024-01-20 10:10" {
		t.Errorf("unexpected stamps %+v", high)
	}

	again := DeriveLowStockAlerts(got, at, "Almoxarife")
	if len(again.Alerts) != 2 {
		t.Errorf("derivation duplicated outstanding alerts: %d", len(again.Alerts))
	}
}

func TestDeriveLowStockAlerts_ResolvedAlertDoesNotCover(t *testing.T) {
	at := time.UnixMilli(1705745400000)
	s := sampleState()
	s.Alerts = []models.Alert{
		{ID: "ALT1705745400000-A2", Kind: models.AlertLowStock, RelatedItemCode: "A2", Status: models.AlertResolved},
	}

	got := DeriveLowStockAlerts(s, at, "")
	if len(got.Alerts) != 2 {
		t.Fatalf("expected a new alert next to the resolved one, got %d", len(got.Alerts))
	}
	if got.Alerts[1].ID != "ALT1705745400000-A2-2" {
		t.Errorf("collision suffix not applied: %s", got.Alerts[1].ID)
	}
	if len(s.Alerts) != 1 {
		t.Error("derivation mutated its input")
	}
}

func TestDeriveLowStockAlerts_OtherKindsDoNotCover(t *testing.T) {
	s := sampleState()
	s.Alerts = []models.Alert{
		{ID: "ALT9", Kind: models.AlertMaintenance, RelatedItemCode: "A2", Status: models.AlertPending},
	}

	got := DeriveLowStockAlerts(s, time.Now(), "")
	if len(got.Alerts) != 2 {
		t.Errorf("maintenance alert should not suppress low stock alert, got %d alerts", len(got.Alerts))
	}
}
