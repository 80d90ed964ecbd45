package store_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/saae/almox/internal/database/seed"
	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/testutil"
	"github.com/saae/almox/internal/util"
)

var testNow = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupStore creates a store over the initial dataset, saving to memory.
func setupStore(t *testing.T) (*store.Store, *store.MemorySlots, *util.FixedClock) {
	t.Helper()

	clock := util.NewFixedClock(testNow)
	slots := store.NewMemorySlots()
	s := store.New(seed.InitialState(),
		store.WithClock(clock),
		store.WithLogger(quietLogger()),
		store.WithAlertResponsible("Almoxarifado Central"),
		store.WithObserver(store.NewSlotObserver(slots, store.DefaultSlot)),
	)
	return s, slots, clock
}

func mustItem(t *testing.T, s *store.Store, code string) models.Item {
	t.Helper()
	item, ok := s.Item(code)
	if !ok {
		t.Fatalf("item %s not found", code)
	}
	return item
}

func outstandingLowStock(s store.State, code string) int {
	n := 0
	for _, a := range s.Alerts {
		if a.Kind == models.AlertLowStock && a.RelatedItemCode == code && a.IsOutstanding() {
			n++
		}
	}
	return n
}

func TestRecordMovement_EntryKeepsExistingAlert(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	_, err := s.RecordMovement(ctx, store.MovementInput{
		Kind: models.MovementEntry, ItemCode: "HID001", Quantity: 10, Responsible: "João Silva",
	})
	if err != nil {
		t.Fatalf("RecordMovement() error: %v", err)
	}

	if got := mustItem(t, s, "HID001").CurrentQty; got != 12 {
		t.Errorf("CurrentQty = %d, want 12", got)
	}

	alert, ok := s.Alert("ALT001")
	if !ok || alert.Status != models.AlertPending {
		t.Errorf("ALT001 should still be pending, got %+v", alert)
	}
}

func TestRecordMovement_ExitBeyondStockRejected(t *testing.T) {
	s, slots, _ := setupStore(t)
	before := s.Snapshot()

	_, err := s.RecordMovement(context.Background(), store.MovementInput{
		Kind: models.MovementExit, ItemCode: "HID002", Quantity: 50, Responsible: "Maria Santos",
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	if got := mustItem(t, s, "HID002").CurrentQty; got != 45 {
		t.Errorf("CurrentQty = %d, want 45", got)
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Error("rejected movement changed state")
	}
	if slots.Saves() != 0 {
		t.Errorf("rejected movement was persisted %d times", slots.Saves())
	}
}

func TestRemovePump_MissingIsNoop(t *testing.T) {
	s, slots, _ := setupStore(t)
	before := s.Snapshot()

	if s.RemovePump(context.Background(), "B999") {
		t.Error("RemovePump(B999) reported a removal")
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Error("state changed")
	}
	if slots.Saves() != 0 {
		t.Error("no-op removal was persisted")
	}
}

func TestRecordMovement_BackToBackEntries(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	first, err := s.RecordMovement(ctx, store.MovementInput{Kind: models.MovementEntry, ItemCode: "HID002", Quantity: 3, Responsible: "Ana Paula"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.RecordMovement(ctx, store.MovementInput{Kind: models.MovementEntry, ItemCode: "HID002", Quantity: 4, Responsible: "Ana Paula"})
	if err != nil {
		t.Fatal(err)
	}

	if first.ID == second.ID {
		t.Errorf("duplicate movement id %s", first.ID)
	}
	if got := mustItem(t, s, "HID002").CurrentQty; got != 52 {
		t.Errorf("CurrentQty = %d, want 52", got)
	}

	movements := s.Snapshot().Movements
	if movements[0].ID != second.ID || movements[1].ID != first.ID {
		t.Error("movements not stored most-recent-first")
	}
}

func TestRecordMovement_FillsSnapshotFields(t *testing.T) {
	s, _, _ := setupStore(t)

	m, err := s.RecordMovement(context.Background(), store.MovementInput{
		Kind: models.MovementExit, ItemCode: "ELE001", Quantity: 30, Responsible: "Carlos Tech",
		Sector: "Manutenção Elétrica", Note: "Troca de cabos",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(m.ID, "MOV") || m.Date != "2024-01-20" || m.Time != "09:00" {
		t.Errorf("unexpected stamps %+v", m)
	}
	if m.ItemName != "Cabo Flexível 4mm" || m.Unit != "metro" {
		t.Errorf("item snapshot missing: %+v", m)
	}
	if got := mustItem(t, s, "ELE001"); got.CurrentQty != 150 || got.LastMovementDate != "2024-01-20" {
		t.Errorf("item after exit = %+v", got)
	}
}

func TestRecordMovement_ExitToZeroRaisesHighAlert(t *testing.T) {
	s, _, clock := setupStore(t)
	clock.Set(time.UnixMilli(1705745400000).UTC())

	_, err := s.RecordMovement(context.Background(), store.MovementInput{
		Kind: models.MovementExit, ItemCode: "HID002", Quantity: 45, Responsible: "João Silva",
	})
	if err != nil {
		t.Fatal(err)
	}

	alert, ok := s.Alert("ALT1705745400000-HID002")
	if !ok {
		t.Fatalf("no derived alert in %+v", s.PendingAlerts())
	}
	if alert.Priority != models.PriorityHigh || alert.Title != "Conexão PVC 50mm - Estoque Crítico" {
		t.Errorf("unexpected alert %+v", alert)
	}
	if alert.Responsible != "Almoxarifado Central" {
		t.Errorf("Responsible = %q", alert.Responsible)
	}
}

func TestRecordMovement_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input store.MovementInput
		want  error
	}{
		{"unknown item", store.MovementInput{Kind: models.MovementEntry, ItemCode: "XXX", Quantity: 1, Responsible: "a"}, store.ErrNotFound},
		{"zero quantity", store.MovementInput{Kind: models.MovementEntry, ItemCode: "HID002", Quantity: 0, Responsible: "a"}, store.ErrInvalidInput},
		{"bad kind", store.MovementInput{Kind: "MOVE", ItemCode: "HID002", Quantity: 1, Responsible: "a"}, store.ErrInvalidInput},
		{"no responsible", store.MovementInput{Kind: models.MovementEntry, ItemCode: "HID002", Quantity: 1}, store.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := setupStore(t)
			if _, err := s.RecordMovement(context.Background(), tt.input); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if n := len(s.Snapshot().Movements); n != 6 {
				t.Errorf("movement count = %d, want 6", n)
			}
		})
	}
}

func TestAddItem(t *testing.T) {
	s, slots, _ := setupStore(t)
	ctx := context.Background()

	item := models.Item{
		Code: "QUI001", Name: "Cloro Granulado", Category: "Químicos", Unit: "kg",
		Supplier: "Hidro Parts", CurrentQty: 40, MinQty: 10, StorageAddress: "F1-P1-N1-001",
	}
	if err := s.AddItem(ctx, item); err != nil {
		t.Fatalf("AddItem() error: %v", err)
	}

	got := mustItem(t, s, "QUI001")
	if got.LastMovementDate != "2024-01-20" {
		t.Errorf("LastMovementDate = %q", got.LastMovementDate)
	}
	if slots.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", slots.Saves())
	}

	if err := s.AddItem(ctx, item); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate add error = %v", err)
	}

	item.Code = ""
	if err := s.AddItem(ctx, item); !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("invalid add error = %v", err)
	}
}

func TestItemOperations_KeepCodesUnique(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	base := models.Item{Name: "Parafuso", Category: "Ferramentas", Unit: "unidade", CurrentQty: 5, MinQty: 1}
	codes := []string{"P1", "P2", "P1", "P3", "P2", "P1"}
	for i, code := range codes {
		item := base
		item.Code = code
		_ = s.AddItem(ctx, item)
		if i%3 == 2 {
			s.RemoveItem(ctx, code)
		}
		item.CurrentQty = i
		_ = s.UpdateItem(ctx, item)

		seen := make(map[string]bool)
		for _, it := range s.Snapshot().Items {
			if seen[it.Code] {
				t.Fatalf("duplicate code %s after step %d", it.Code, i)
			}
			seen[it.Code] = true
			if it.CurrentQty < 0 {
				t.Fatalf("negative quantity for %s", it.Code)
			}
		}
	}
}

func TestUpdateItem(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	item := mustItem(t, s, "FER003")
	item.MinQty = 10
	if err := s.UpdateItem(ctx, item); err != nil {
		t.Fatalf("UpdateItem() error: %v", err)
	}
	if got := mustItem(t, s, "FER003").MinQty; got != 10 {
		t.Errorf("MinQty = %d", got)
	}
	if outstandingLowStock(s.Snapshot(), "FER003") != 1 {
		t.Error("raising the minimum should derive a low stock alert")
	}

	item.Code = "NOPE"
	if err := s.UpdateItem(ctx, item); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update of missing item error = %v", err)
	}
}

func TestDerivationInvariantAfterItemChange(t *testing.T) {
	s, _, _ := setupStore(t)

	if !s.RemoveItem(context.Background(), "EPI003") {
		t.Fatal("RemoveItem(EPI003) = false")
	}

	state := s.Snapshot()
	for _, item := range state.Items {
		n := outstandingLowStock(state, item.Code)
		switch {
		case item.IsLowStock() && n != 1:
			t.Errorf("%s is low with %d outstanding alerts", item.Code, n)
		case !item.IsLowStock() && n != 0:
			t.Errorf("%s is stocked but has %d outstanding alerts", item.Code, n)
		}
	}

	// FER001's seeded alert is resolved, so a fresh one is derived.
	if outstandingLowStock(state, "FER001") != 1 {
		t.Error("expected a derived alert for FER001")
	}
}

func TestReplaceDoesNotDerive(t *testing.T) {
	s, slots, _ := setupStore(t)

	s.Replace(context.Background(), seed.InitialState())

	if !reflect.DeepEqual(s.Snapshot(), seed.InitialState()) {
		t.Error("Replace should reproduce the given state exactly")
	}
	if slots.Saves() != 1 {
		t.Errorf("Saves() = %d, want 1", slots.Saves())
	}
}

func TestPumps(t *testing.T) {
	s, _, clock := setupStore(t)
	ctx := context.Background()
	clock.Set(time.UnixMilli(1705739400123))

	p := models.Pump{
		SerialNumber: "BC-1HP-2024-010", Manufacturer: "AquaTech", Model: "AS-1000",
		Location: "Almoxarifado", State: models.InStock{StorageAddress: "A2-P1-N3-003"},
	}
	added, err := s.AddPump(ctx, p)
	if err != nil {
		t.Fatalf("AddPump() error: %v", err)
	}
	if added.ID != "B400123" {
		t.Errorf("generated id = %s", added.ID)
	}

	if err := added.Deploy(models.PumpStatusOperating, "Pedro Oliveira", "2024-01-20"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdatePump(ctx, added); err != nil {
		t.Fatalf("UpdatePump() error: %v", err)
	}
	got, _ := s.Pump(added.ID)
	if got.StorageAddress() != "" || got.Responsible() != "Pedro Oliveira" {
		t.Errorf("pump after deploy = %+v", got)
	}

	if _, err := s.AddPump(ctx, added); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate pump error = %v", err)
	}

	missing := added
	missing.ID = "B999"
	if err := s.UpdatePump(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update of missing pump error = %v", err)
	}

	if !s.RemovePump(ctx, added.ID) {
		t.Error("RemovePump() = false")
	}
}

func TestAlerts(t *testing.T) {
	s, slots, _ := setupStore(t)
	ctx := context.Background()

	if err := s.ResolveAlert(ctx, "ALT001"); err != nil {
		t.Fatal(err)
	}
	if err := s.ResolveAlert(ctx, "ALT001"); err != nil {
		t.Fatal(err)
	}
	a, _ := s.Alert("ALT001")
	if a.Status != models.AlertResolved {
		t.Errorf("status = %s", a.Status)
	}
	if slots.Saves() != 1 {
		t.Errorf("resolving twice saved %d times, want 1", slots.Saves())
	}

	if err := s.StartAlert(ctx, "ALT006"); err != nil {
		t.Fatal(err)
	}
	if a, _ := s.Alert("ALT006"); a.Status != models.AlertInProgress {
		t.Errorf("ALT006 status = %s", a.Status)
	}

	if err := s.StartAlert(ctx, "ALT001"); err != nil {
		t.Fatal(err)
	}
	if a, _ := s.Alert("ALT001"); a.Status != models.AlertResolved {
		t.Error("starting a resolved alert reopened it")
	}

	if err := s.ResolveAlert(ctx, "ALT999"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("resolve missing error = %v", err)
	}

	manual, err := s.AddAlert(ctx, store.NewAlert{
		Kind: models.AlertMaintenance, Priority: models.PriorityLow,
		Title: "Bomba B005 - Revisão", RelatedPumpID: "B005", Responsible: "Pedro Oliveira",
	})
	if err != nil {
		t.Fatalf("AddAlert() error: %v", err)
	}
	if !strings.HasPrefix(manual.ID, "ALT") || !strings.HasSuffix(manual.ID, "-B005") {
		t.Errorf("alert id = %s", manual.ID)
	}
	if manual.Status != models.AlertPending || manual.GeneratedAt != "2024-01-20 09:00" {
		t.Errorf("unexpected alert %+v", manual)
	}

	if _, err := s.AddAlert(ctx, store.NewAlert{Kind: "NOISE", Priority: models.PriorityLow, Title: "x"}); !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("invalid alert error = %v", err)
	}

	if !s.RemoveAlert(ctx, manual.ID) || s.RemoveAlert(ctx, manual.ID) {
		t.Error("RemoveAlert should succeed once")
	}
}

func TestUsers(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	u, err := s.AddUser(ctx, store.NewUser{
		Name: "Beatriz Costa", Email: "beatriz.costa@saae.gov.br",
		Role: models.RoleTechnician, Sector: "Equipe de Campo",
	})
	if err != nil {
		t.Fatalf("AddUser() error: %v", err)
	}
	if !strings.HasPrefix(u.ID, "USR") || u.Status != models.UserActive {
		t.Errorf("unexpected user %+v", u)
	}
	if u.RegisteredOn != "2024-01-20" || u.LastAccess != "2024-01-20 09:00" {
		t.Errorf("unexpected stamps %+v", u)
	}

	_, err = s.AddUser(ctx, store.NewUser{
		Name: "Outra", Email: "JOAO.SILVA@saae.gov.br", Role: models.RoleManager, Sector: "x",
	})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate email error = %v", err)
	}

	u.Status = models.UserInactive
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("UpdateUser() error: %v", err)
	}
	if n := len(s.ActiveUsers()); n != 5 {
		t.Errorf("ActiveUsers() = %d, want 5", n)
	}

	if !s.RemoveUser(ctx, u.ID) || s.RemoveUser(ctx, u.ID) {
		t.Error("RemoveUser should succeed once")
	}
}

func TestQueries(t *testing.T) {
	s, _, _ := setupStore(t)

	var low []string
	for _, i := range s.LowStockItems() {
		low = append(low, i.Code)
	}
	if want := []string{"HID001", "HID004", "ELE003", "FER001"}; !reflect.DeepEqual(low, want) {
		t.Errorf("LowStockItems() = %v, want %v", low, want)
	}

	if n := len(s.PumpsByStatus()); n != 6 {
		t.Errorf("PumpsByStatus() = %d, want 6", n)
	}
	if n := len(s.PumpsByStatus(models.PumpStatusOperating)); n != 3 {
		t.Errorf("PumpsByStatus(OPERATING) = %d, want 3", n)
	}
	if n := len(s.PumpsByStatus(models.PumpStatusInStock, models.PumpStatusUnderMaintenance)); n != 3 {
		t.Errorf("PumpsByStatus(IN_STOCK, UNDER_MAINTENANCE) = %d, want 3", n)
	}

	window := s.MovementsInWindow(2)
	if len(window) != 4 || window[0].ID != "MOV001" || window[3].ID != "MOV004" {
		t.Errorf("MovementsInWindow(2) = %+v", window)
	}

	if n := len(s.PendingAlerts()); n != 5 {
		t.Errorf("PendingAlerts() = %d, want 5", n)
	}
	if n := len(s.ActiveUsers()); n != 5 {
		t.Errorf("ActiveUsers() = %d, want 5", n)
	}
	if n := s.TotalItems(); n != 13 {
		t.Errorf("TotalItems() = %d, want 13", n)
	}

	if n := len(s.SearchItems("pvc", "")); n != 2 {
		t.Errorf("SearchItems(pvc) = %d, want 2", n)
	}
	if n := len(s.SearchItems("", "EPI")); n != 3 {
		t.Errorf("SearchItems(EPI) = %d, want 3", n)
	}

	filtered := s.FilterAlerts(store.AlertFilter{Title: "bomba", Status: models.AlertPending})
	if len(filtered) != 2 {
		t.Errorf("FilterAlerts() = %+v", filtered)
	}
	if n := len(s.FilterAlerts(store.AlertFilter{Priority: models.PriorityHigh})); n != 2 {
		t.Errorf("FilterAlerts(HIGH) = %d, want 2", n)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _, _ := setupStore(t)

	snap := s.Snapshot()
	snap.Items[0].CurrentQty = 1000

	if mustItem(t, s, snap.Items[0].Code).CurrentQty == 1000 {
		t.Error("Snapshot shares memory with the store")
	}
}

func TestObserverFailureDoesNotUndoChange(t *testing.T) {
	failing := store.ObserverFunc(func(context.Context, store.State) error {
		return errors.New("disk full")
	})
	s := store.New(seed.InitialState(),
		store.WithClock(util.NewFixedClock(testNow)),
		store.WithLogger(quietLogger()),
		store.WithObserver(failing),
	)

	if err := s.ResolveAlert(context.Background(), "ALT002"); err != nil {
		t.Fatalf("ResolveAlert() error: %v", err)
	}
	if a, _ := s.Alert("ALT002"); a.Status != models.AlertResolved {
		t.Error("change was lost after observer failure")
	}
	if s.SaveFailures() != 1 {
		t.Errorf("SaveFailures() = %d, want 1", s.SaveFailures())
	}
}

func TestSubscribe_ObserverSeesLaterChanges(t *testing.T) {
	item := testutil.FixtureItem()
	initial := testutil.FixtureState([]models.Item{item}, nil, []models.Movement{testutil.FixtureMovement(item)})
	initial.Users = []models.User{testutil.FixtureUser()}
	initial.Alerts = []models.Alert{testutil.FixtureAlert()}

	s := store.New(initial, store.WithClock(util.NewFixedClock(testNow)), store.WithLogger(quietLogger()))

	var seen []store.State
	s.Subscribe(store.ObserverFunc(func(_ context.Context, st store.State) error {
		seen = append(seen, st)
		return nil
	}))

	ctx := context.Background()
	if err := s.StartAlert(ctx, initial.Alerts[0].ID); err != nil {
		t.Fatalf("StartAlert() error: %v", err)
	}
	if !s.RemoveUser(ctx, initial.Users[0].ID) {
		t.Fatal("RemoveUser() = false")
	}

	if len(seen) != 2 {
		t.Fatalf("observer called %d times, want 2", len(seen))
	}
	if seen[0].Alerts[0].Status != models.AlertInProgress {
		t.Errorf("first change: alert status = %s", seen[0].Alerts[0].Status)
	}
	if len(seen[0].Users) != 1 || len(seen[1].Users) != 0 {
		t.Errorf("user counts = %d, %d", len(seen[0].Users), len(seen[1].Users))
	}
	if len(seen[1].Movements) != 1 {
		t.Error("unrelated collections should be carried along")
	}
}

func TestAddAlert_OneOpenLowStockPerItem(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	lowStock := func(code string, status models.AlertStatus) store.NewAlert {
		return store.NewAlert{
			Kind: models.AlertLowStock, Priority: models.PriorityHigh, Title: code + " - reposição",
			RelatedItemCode: code, Responsible: "Ana Paula", Status: status,
		}
	}

	if _, err := s.AddAlert(ctx, lowStock("HID001", "")); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("second open alert for HID001 error = %v, want ErrDuplicate", err)
	}
	if n := outstandingLowStock(s.Snapshot(), "HID001"); n != 1 {
		t.Errorf("outstanding HID001 alerts = %d, want 1", n)
	}

	if _, err := s.AddAlert(ctx, lowStock("HID001", models.AlertResolved)); err != nil {
		t.Errorf("resolved alert for HID001 rejected: %v", err)
	}
	if _, err := s.AddAlert(ctx, lowStock("HID002", "")); err != nil {
		t.Errorf("first alert for HID002 rejected: %v", err)
	}
	if n := outstandingLowStock(s.Snapshot(), "HID002"); n != 1 {
		t.Errorf("outstanding HID002 alerts = %d, want 1", n)
	}
}

func TestUpdateAlert_OneOpenLowStockPerItem(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	if err := s.ResolveAlert(ctx, "ALT001"); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateItem(ctx, mustItem(t, s, "HID001")); err != nil {
		t.Fatal(err)
	}
	if n := outstandingLowStock(s.Snapshot(), "HID001"); n != 1 {
		t.Fatalf("derivation should raise a fresh alert, outstanding = %d", n)
	}

	old, _ := s.Alert("ALT001")
	old.Status = models.AlertPending
	if err := s.UpdateAlert(ctx, old); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("reopening ALT001 error = %v, want ErrDuplicate", err)
	}

	old.Status = models.AlertResolved
	old.Description = "Reposição recebida"
	if err := s.UpdateAlert(ctx, old); err != nil {
		t.Errorf("editing a resolved alert: %v", err)
	}

	retarget, _ := s.Alert("ALT003")
	retarget.Kind = models.AlertLowStock
	retarget.RelatedItemCode = "HID001"
	if err := s.UpdateAlert(ctx, retarget); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("moving ALT003 onto HID001 error = %v, want ErrDuplicate", err)
	}

	var fresh models.Alert
	for _, a := range s.PendingAlerts() {
		if a.Kind == models.AlertLowStock && a.RelatedItemCode == "HID001" {
			fresh = a
		}
	}
	fresh.Priority = models.PriorityLow
	if err := s.UpdateAlert(ctx, fresh); err != nil {
		t.Errorf("editing the open alert itself: %v", err)
	}
	if n := outstandingLowStock(s.Snapshot(), "HID001"); n != 1 {
		t.Errorf("outstanding HID001 alerts = %d, want 1", n)
	}
}

func TestRecordMovement_EntryOverflowRejected(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()
	before := s.Snapshot()

	_, err := s.RecordMovement(ctx, store.MovementInput{
		Kind: models.MovementEntry, ItemCode: "HID002", Quantity: math.MaxInt, Responsible: "Ana Paula",
	})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !reflect.DeepEqual(s.Snapshot(), before) {
		t.Error("rejected entry changed state")
	}

	if _, err := s.RecordMovement(ctx, store.MovementInput{
		Kind: models.MovementEntry, ItemCode: "HID002", Quantity: math.MaxInt - 45, Responsible: "Ana Paula",
	}); err != nil {
		t.Fatalf("entry up to the limit: %v", err)
	}
	if got := mustItem(t, s, "HID002").CurrentQty; got != math.MaxInt {
		t.Errorf("CurrentQty = %d, want MaxInt", got)
	}
}

func TestUpdateItem_QuantityChangeStampsDate(t *testing.T) {
	s, _, _ := setupStore(t)
	ctx := context.Background()

	item := mustItem(t, s, "HID002")
	item.CurrentQty = 40
	if err := s.UpdateItem(ctx, item); err != nil {
		t.Fatal(err)
	}
	if got := mustItem(t, s, "HID002").LastMovementDate; got != "2024-01-20" {
		t.Errorf("LastMovementDate after quantity change = %s", got)
	}

	item = mustItem(t, s, "HID002")
	item.MinQty = 25
	item.LastMovementDate = "2024-01-15"
	if err := s.UpdateItem(ctx, item); err != nil {
		t.Fatal(err)
	}
	if got := mustItem(t, s, "HID002").LastMovementDate; got != "2024-01-15" {
		t.Errorf("LastMovementDate without quantity change = %s", got)
	}
}

func TestGeneratedIDs_SkipSavedRecords(t *testing.T) {
	ctx := context.Background()
	clock := util.NewFixedClock(time.UnixMilli(1705739400123))

	st := seed.InitialState()
	// The generator hands out 400123 and 400124 to the pumps below, so
	// the user would get 400125 next.
	st.Users[0].ID = "USR400125"
	s := store.New(st, store.WithClock(clock), store.WithLogger(quietLogger()))

	pump := models.Pump{
		SerialNumber: "BC-1HP-2024-011", Manufacturer: "AquaTech", Model: "AS-1000",
		Location: "Almoxarifado", State: models.InStock{StorageAddress: "A2-P1-N3-004"},
	}
	saved := pump
	saved.ID = "B400123"
	if _, err := s.AddPump(ctx, saved); err != nil {
		t.Fatal(err)
	}

	added, err := s.AddPump(ctx, pump)
	if err != nil {
		t.Fatalf("AddPump() error: %v", err)
	}
	if added.ID != "B400124" {
		t.Errorf("generated pump id = %s", added.ID)
	}

	u, err := s.AddUser(ctx, store.NewUser{
		Name: "Lucas Prado", Email: "lucas.prado@saae.gov.br",
		Role: models.RoleTechnician, Sector: "Equipe de Campo",
	})
	if err != nil {
		t.Fatalf("AddUser() error: %v", err)
	}
	if u.ID == "USR400125" {
		t.Error("generated user id clashes with a saved user")
	}
}
