// Package seed provides the fixed dataset a fresh warehouse starts with.
package seed

import "github.com/saae/almox/internal/models"

// Categories lists the item categories offered by forms.
var Categories = []string{
	"Bombas", "Hidráulica", "Elétrica", "Ferramentas",
	"EPI", "Químicos", "Tubulação", "Válvulas",
}

// Sectors lists the departments that move stock.
var Sectors = []string{
	"Almoxarifado Central",
	"Manutenção Elétrica",
	"Manutenção Hidráulica",
	"ETA Central",
	"Equipe de Campo",
	"Gerência de Manutenção",
	"Diretoria Técnica",
}

// Suppliers lists known suppliers.
var Suppliers = []string{
	"Bomba Tech", "AquaTech", "HidroPower", "Hidro Parts", "ElectroMax",
	"WEG Industrial", "Tool Master", "Stanley Brasil", "Safety First", "ValvuTech",
}

// PumpLocations lists the sites a pump can be assigned to.
var PumpLocations = []string{
	"ETA Central - Bomba Principal",
	"ETA Central - Bomba Reserva",
	"Poço Artesiano Norte",
	"Poço Artesiano Sul",
	"Estação de Recalque Sul",
	"Estação de Recalque Norte",
	"Reservatório Central",
	"Almoxarifado",
	"Oficina de Manutenção",
}

// Roles lists user roles in the order forms offer them.
var Roles = models.Roles
