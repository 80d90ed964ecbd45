package seed

import (
	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
)

// InitialState returns the dataset a warehouse starts with when nothing
// has been saved. Each call returns fresh slices.
func InitialState() store.State {
	return store.State{
		Items:     Items(),
		Pumps:     Pumps(),
		Movements: Movements(),
		Users:     Users(),
		Alerts:    Alerts(),
	}
}

// Items returns the initial stock.
func Items() []models.Item {
	item := func(code, name, category, unit, supplier string, current, minimum int, addr, last string) models.Item {
		return models.Item{
			Code: code, Name: name, Category: category, Unit: unit, Supplier: supplier,
			CurrentQty: current, MinQty: minimum, StorageAddress: addr, LastMovementDate: last,
		}
	}

	return []models.Item{
		item("HID001", "Bomba Centrífuga 3HP", "Bombas", "unidade", "Bomba Tech", 2, 5, "A2-P1-N3-001", "2024-01-20"),
		item("HID002", "Conexão PVC 50mm", "Hidráulica", "unidade", "Hidro Parts", 45, 20, "B1-P2-N1-005", "2024-01-18"),
		item("HID003", "Tubo PVC 100mm", "Hidráulica", "metro", "Hidro Parts", 120, 50, "B1-P3-N1-001", "2024-01-15"),
		item("HID004", "Válvula de Retenção 2\"", "Hidráulica", "unidade", "ValvuTech", 8, 10, "B2-P1-N2-003", "2024-01-12"),
		item("ELE001", "Cabo Flexível 4mm", "Elétrica", "metro", "ElectroMax", 180, 100, "C3-P1-N2-010", "2024-01-19"),
		item("ELE002", "Disjuntor 32A", "Elétrica", "unidade", "ElectroMax", 15, 8, "C3-P2-N1-005", "2024-01-17"),
		item("ELE003", "Contator 25A", "Elétrica", "unidade", "WEG Industrial", 3, 5, "C3-P2-N2-001", "2024-01-10"),
		item("FER001", "Chave de Fenda 8mm", "Ferramentas", "unidade", "Tool Master", 8, 10, "D1-P3-N1-002", "2024-01-14"),
		item("FER002", "Alicate Universal", "Ferramentas", "unidade", "Tool Master", 12, 8, "D1-P3-N1-003", "2024-01-16"),
		item("FER003", "Trena 5m", "Ferramentas", "unidade", "Stanley Brasil", 6, 4, "D1-P3-N2-001", "2024-01-13"),
		item("EPI001", "Capacete de Segurança", "EPI", "unidade", "Safety First", 25, 15, "E2-P1-N4-001", "2024-01-11"),
		item("EPI002", "Luvas de Proteção", "EPI", "par", "Safety First", 40, 20, "E2-P1-N4-002", "2024-01-18"),
		item("EPI003", "Óculos de Proteção", "EPI", "unidade", "Safety First", 18, 12, "E2-P1-N4-003", "2024-01-19"),
	}
}

// Pumps returns the initial pump fleet.
func Pumps() []models.Pump {
	deployed := func(responsible, installed string) models.Deployment {
		return models.Deployment{Responsible: responsible, InstallDate: installed}
	}

	return []models.Pump{
		{
			ID: "B001", SerialNumber: "BC-3HP-2024-001", Manufacturer: "Bomba Tech", Model: "Centrífuga CT-3000",
			Power: "3 HP", Capacity: "500 L/min", Location: "ETA Central - Bomba Principal",
			HoursUsed: "2.340h", NextMaintenance: "2024-12-15",
			State: models.Operating{Deployment: deployed("João Silva", "2024-01-15")},
		},
		{
			ID: "B002", SerialNumber: "BC-2HP-2023-015", Manufacturer: "AquaTech", Model: "Submersível AS-2000",
			Power: "2 HP", Capacity: "300 L/min", Location: "Poço Artesiano Norte",
			HoursUsed: "1.890h", NextMaintenance: "2024-11-20",
			State: models.Operating{Deployment: deployed("Maria Santos", "2023-08-20")},
		},
		{
			ID: "B003", SerialNumber: "BC-5HP-2022-008", Manufacturer: "HidroPower", Model: "Industrial HI-5000",
			Power: "5 HP", Capacity: "800 L/min", Location: "Oficina de Manutenção",
			HoursUsed: "3.120h", NextMaintenance: "Em manutenção",
			State: models.UnderMaintenance{Deployment: deployed("Carlos Tech", "2022-03-10")},
		},
		{
			ID: "B004", SerialNumber: "BC-3HP-2024-002", Manufacturer: "Bomba Tech", Model: "Centrífuga CT-3000",
			Power: "3 HP", Capacity: "500 L/min", Location: "Almoxarifado",
			HoursUsed: "0h", NextMaintenance: "N/A",
			State: models.InStock{StorageAddress: "A2-P1-N3-001"},
		},
		{
			ID: "B005", SerialNumber: "BC-4HP-2023-012", Manufacturer: "AquaTech", Model: "Centrífuga AT-4000",
			Power: "4 HP", Capacity: "650 L/min", Location: "Estação de Recalque Sul",
			HoursUsed: "2.100h", NextMaintenance: "2024-10-10",
			State: models.Operating{Deployment: deployed("Pedro Oliveira", "2023-05-10")},
		},
		{
			ID: "B006", SerialNumber: "BC-2HP-2024-003", Manufacturer: "HidroPower", Model: "Submersível HP-2500",
			Power: "2.5 HP", Capacity: "350 L/min", Location: "Almoxarifado",
			HoursUsed: "0h", NextMaintenance: "N/A",
			State: models.InStock{StorageAddress: "A2-P1-N3-002"},
		},
	}
}

// Movements returns the initial history, most recent first.
func Movements() []models.Movement {
	return []models.Movement{
		{
			ID: "MOV001", Kind: models.MovementEntry, ItemCode: "HID002", ItemName: "Conexão PVC 50mm",
			Quantity: 50, Unit: "unidade", Responsible: "João Silva", Sector: "Almoxarifado",
			Date: "2024-01-20", Time: "08:30", InvoiceNumber: "NF-2024-001234", Supplier: "Hidro Parts",
			Note: "Reposição de estoque mensal",
		},
		{
			ID: "MOV002", Kind: models.MovementExit, ItemCode: "ELE001", ItemName: "Cabo Flexível 4mm",
			Quantity: 30, Unit: "metro", Responsible: "Maria Santos", Sector: "Manutenção Elétrica",
			Date: "2024-01-20", Time: "10:15", Note: "Manutenção preventiva ETA Central",
		},
		{
			ID: "MOV003", Kind: models.MovementExit, ItemCode: "FER001", ItemName: "Chave de Fenda 8mm",
			Quantity: 2, Unit: "unidade", Responsible: "Carlos Tech", Sector: "Equipe de Campo",
			Date: "2024-01-19", Time: "14:00", Note: "Substituição de ferramentas danificadas",
		},
		{
			ID: "MOV004", Kind: models.MovementEntry, ItemCode: "EPI001", ItemName: "Capacete de Segurança",
			Quantity: 20, Unit: "unidade", Responsible: "Ana Paula", Sector: "Almoxarifado",
			Date: "2024-01-18", Time: "09:45", InvoiceNumber: "NF-2024-001198", Supplier: "Safety First",
			Note: "Compra trimestral de EPIs",
		},
		{
			ID: "MOV005", Kind: models.MovementExit, ItemCode: "HID004", ItemName: "Válvula de Retenção 2\"",
			Quantity: 3, Unit: "unidade", Responsible: "Pedro Oliveira", Sector: "Manutenção Hidráulica",
			Date: "2024-01-17", Time: "11:30", Note: "Substituição emergencial - Poço Norte",
		},
		{
			ID: "MOV006", Kind: models.MovementEntry, ItemCode: "ELE003", ItemName: "Contator 25A",
			Quantity: 5, Unit: "unidade", Responsible: "João Silva", Sector: "Almoxarifado",
			Date: "2024-01-15", Time: "08:00", InvoiceNumber: "NF-2024-001150", Supplier: "WEG Industrial",
			Note: "Reposição de componentes elétricos",
		},
	}
}

// Users returns the initial accounts.
func Users() []models.User {
	user := func(id, name, email string, role models.Role, sector string, status models.UserStatus, last, registered string) models.User {
		return models.User{
			ID: id, Name: name, Email: email, Role: role, Sector: sector,
			Status: status, LastAccess: last, RegisteredOn: registered,
		}
	}

	return []models.User{
		user("USR001", "João Silva", "joao.silva@saae.gov.br", models.RoleWarehouseClerk, "Almoxarifado Central", models.UserActive, "2024-01-20 08:30", "2023-01-15"),
		user("USR002", "Maria Santos", "maria.santos@saae.gov.br", models.RoleManager, "Gerência de Manutenção", models.UserActive, "2024-01-20 09:15", "2022-06-20"),
		user("USR003", "Carlos Tech", "carlos.tech@saae.gov.br", models.RoleTechnician, "Manutenção Elétrica", models.UserActive, "2024-01-19 16:45", "2023-03-10"),
		user("USR004", "Ana Paula", "ana.paula@saae.gov.br", models.RoleWarehouseClerk, "Almoxarifado Central", models.UserActive, "2024-01-20 07:50", "2023-08-05"),
		user("USR005", "Pedro Oliveira", "pedro.oliveira@saae.gov.br", models.RoleTechnician, "Manutenção Hidráulica", models.UserActive, "2024-01-18 14:20", "2022-11-12"),
		user("USR006", "Roberto Lima", "roberto.lima@saae.gov.br", models.RoleManager, "Diretoria Técnica", models.UserInactive, "2024-01-10 10:00", "2021-04-18"),
	}
}

// Alerts returns the initial alerts.
func Alerts() []models.Alert {
	return []models.Alert{
		{
			ID: "ALT001", Kind: models.AlertLowStock, Priority: models.PriorityHigh,
			Title:           "Bomba Centrífuga 3HP - Estoque Crítico",
			Description:     "Quantidade atual (2) abaixo do mínimo (5). Solicitar reposição urgente.",
			RelatedItemCode: "HID001", GeneratedAt: "2024-01-20 08:00",
			Status: models.AlertPending, Responsible: "João Silva",
		},
		{
			ID: "ALT002", Kind: models.AlertLowStock, Priority: models.PriorityMedium,
			Title:           "Válvula de Retenção 2\" - Estoque Baixo",
			Description:     "Quantidade atual (8) próxima do mínimo (10). Programar reposição.",
			RelatedItemCode: "HID004", GeneratedAt: "2024-01-19 14:30",
			Status: models.AlertPending, Responsible: "João Silva",
		},
		{
			ID: "ALT003", Kind: models.AlertMaintenance, Priority: models.PriorityHigh,
			Title:         "Bomba B003 - Manutenção em Andamento",
			Description:   "Bomba Industrial HI-5000 em manutenção desde 15/01. Previsão de retorno: 25/01.",
			RelatedPumpID: "B003", GeneratedAt: "2024-01-15 10:00",
			Status: models.AlertInProgress, Responsible: "Carlos Tech",
		},
		{
			ID: "ALT004", Kind: models.AlertLowStock, Priority: models.PriorityMedium,
			Title:           "Contator 25A - Estoque Baixo",
			Description:     "Quantidade atual (3) abaixo do mínimo (5). Solicitar cotação.",
			RelatedItemCode: "ELE003", GeneratedAt: "2024-01-18 11:00",
			Status: models.AlertPending, Responsible: "Ana Paula",
		},
		{
			ID: "ALT005", Kind: models.AlertLowStock, Priority: models.PriorityMedium,
			Title:           "Chave de Fenda 8mm - Estoque Baixo",
			Description:     "Quantidade atual (8) abaixo do mínimo (10). Incluir na próxima compra.",
			RelatedItemCode: "FER001", GeneratedAt: "2024-01-17 09:00",
			Status: models.AlertResolved, Responsible: "João Silva",
		},
		{
			ID: "ALT006", Kind: models.AlertMaintenance, Priority: models.PriorityLow,
			Title:         "Bomba B002 - Manutenção Preventiva Próxima",
			Description:   "Manutenção preventiva programada para 20/11/2024. Agendar serviço.",
			RelatedPumpID: "B002", GeneratedAt: "2024-01-10 08:00",
			Status: models.AlertPending, Responsible: "Pedro Oliveira",
		},
	}
}
