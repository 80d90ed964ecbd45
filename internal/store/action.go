package store

import (
	"time"

	"github.com/saae/almox/internal/models"
)

// Action is a state transition understood by Reduce. The set of actions
// is closed to this package.
type Action interface {
	action()
}

type (
	AddItem    struct{ Item models.Item }
	UpdateItem struct{ Item models.Item }
	DeleteItem struct{ Code string }

	AddPump    struct{ Pump models.Pump }
	UpdatePump struct{ Pump models.Pump }
	DeletePump struct{ ID string }

	// AddMovement prepends so history stays most-recent-first.
	AddMovement struct{ Movement models.Movement }

	AddUser    struct{ User models.User }
	UpdateUser struct{ User models.User }
	DeleteUser struct{ ID string }

	AddAlert    struct{ Alert models.Alert }
	UpdateAlert struct{ Alert models.Alert }
	DeleteAlert struct{ ID string }

	// AdjustItemQuantity applies a movement to an item's stock, clamping
	// at zero and stamping the movement date from At.
	AdjustItemQuantity struct {
		Code     string
		Kind     models.MovementKind
		Quantity int
		At       time.Time
	}

	// ReplaceState swaps the whole aggregate, for bootstrap and restore.
	ReplaceState struct{ State State }
)

func (AddItem) action()            {}
func (UpdateItem) action()         {}
func (DeleteItem) action()         {}
func (AddPump) action()            {}
func (UpdatePump) action()         {}
func (DeletePump) action()         {}
func (AddMovement) action()        {}
func (AddUser) action()            {}
func (UpdateUser) action()         {}
func (DeleteUser) action()         {}
func (AddAlert) action()           {}
func (UpdateAlert) action()        {}
func (DeleteAlert) action()        {}
func (AdjustItemQuantity) action() {}
func (ReplaceState) action()       {}
