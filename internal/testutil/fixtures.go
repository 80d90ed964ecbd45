package testutil

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
)

// FixtureDate is the calendar day fixtures are stamped with.
const FixtureDate = "2024-01-20"

// FixtureNow is the instant matching FixtureDate, for fixed clocks.
var FixtureNow = time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)

func shortID() string {
	return strings.ToUpper(uuid.New().String()[:6])
}

// FixtureItem creates a well-stocked item with a unique code.
func FixtureItem(overrides ...func(*models.Item)) models.Item {
	item := models.Item{
		Code:             "TST" + shortID(),
		Name:             "Válvula de Teste",
		Category:         "Hidráulica",
		Unit:             "UN",
		Supplier:         "Hidro Test Ltda",
		CurrentQty:       40,
		MinQty:           10,
		StorageAddress:   "A1-P1-N1-001",
		LastMovementDate: FixtureDate,
	}

	for _, override := range overrides {
		override(&item)
	}
	return item
}

// FixtureLowStockItem creates an item sitting exactly at its minimum.
func FixtureLowStockItem(overrides ...func(*models.Item)) models.Item {
	return FixtureItem(append([]func(*models.Item){
		func(i *models.Item) {
			i.CurrentQty = 5
			i.MinQty = 5
		},
	}, overrides...)...)
}

// FixturePump creates an operating pump with a unique id.
func FixturePump(overrides ...func(*models.Pump)) models.Pump {
	id := shortID()
	pump := models.Pump{
		ID:              "B" + id,
		SerialNumber:    "SN-" + id,
		Manufacturer:    "Test Pumps",
		Model:           "TP-100",
		Power:           "10 CV",
		Capacity:        "50 m³/h",
		Location:        "ETA Central",
		HoursUsed:       "1200",
		NextMaintenance: "2024-03-01",
		State: models.Operating{Deployment: models.Deployment{
			Responsible: "Carlos Silva",
			InstallDate: "2023-06-01",
		}},
	}

	for _, override := range overrides {
		override(&pump)
	}
	return pump
}

// FixtureStockedPump creates a pump held in the warehouse.
func FixtureStockedPump(overrides ...func(*models.Pump)) models.Pump {
	return FixturePump(append([]func(*models.Pump){
		func(p *models.Pump) { p.Store("A2-P1-N3-009") },
	}, overrides...)...)
}

// FixtureMovement creates an exit movement of item.
func FixtureMovement(item models.Item, overrides ...func(*models.Movement)) models.Movement {
	m := models.Movement{
		ID:          "MOV" + shortID(),
		Kind:        models.MovementExit,
		ItemCode:    item.Code,
		ItemName:    item.Name,
		Quantity:    2,
		Unit:        item.Unit,
		Responsible: "João Santos",
		Sector:      "Manutenção",
		Date:        FixtureDate,
		Time:        "08:30",
	}

	for _, override := range overrides {
		override(&m)
	}
	return m
}

// FixtureUser creates an active clerk with a unique email.
func FixtureUser(overrides ...func(*models.User)) models.User {
	id := shortID()
	user := models.User{
		ID:           "USR" + id,
		Name:         "Usuária Teste",
		Email:        strings.ToLower(id) + "@saae.test",
		Role:         models.RoleWarehouseClerk,
		Sector:       "Almoxarifado",
		Status:       models.UserActive,
		LastAccess:   FixtureDate + " 08:00",
		RegisteredOn: "2023-01-10",
	}

	for _, override := range overrides {
		override(&user)
	}
	return user
}

// FixtureAlert creates a pending maintenance alert.
func FixtureAlert(overrides ...func(*models.Alert)) models.Alert {
	alert := models.Alert{
		ID:          "ALT" + shortID(),
		Kind:        models.AlertMaintenance,
		Priority:    models.PriorityMedium,
		Title:       "Manutenção preventiva",
		Description: "Revisão programada",
		GeneratedAt: FixtureDate + " 07:00",
		Status:      models.AlertPending,
		Responsible: "Equipe de Manutenção",
	}

	for _, override := range overrides {
		override(&alert)
	}
	return alert
}

// FixtureState builds a state from the given records. Nil arguments stay
// empty.
func FixtureState(items []models.Item, pumps []models.Pump, movements []models.Movement) store.State {
	return store.State{
		Items:     items,
		Pumps:     pumps,
		Movements: movements,
	}
}
