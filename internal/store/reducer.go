package store

import (
	"fmt"
	"slices"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/util"
)

// Reduce returns the state that results from applying a to s. It never
// modifies s; any collection it touches is copied first.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AddItem:
		s.Items = appendCopy(s.Items, a.Item)
	case UpdateItem:
		s.Items = replaceWhere(s.Items, a.Item, func(i models.Item) bool { return i.Code == a.Item.Code })
	case DeleteItem:
		s.Items = deleteWhere(s.Items, func(i models.Item) bool { return i.Code == a.Code })

	case AddPump:
		s.Pumps = appendCopy(s.Pumps, a.Pump)
	case UpdatePump:
		s.Pumps = replaceWhere(s.Pumps, a.Pump, func(p models.Pump) bool { return p.ID == a.Pump.ID })
	case DeletePump:
		s.Pumps = deleteWhere(s.Pumps, func(p models.Pump) bool { return p.ID == a.ID })

	case AddMovement:
		movements := make([]models.Movement, 0, len(s.Movements)+1)
		movements = append(movements, a.Movement)
		s.Movements = append(movements, s.Movements...)

	case AddUser:
		s.Users = appendCopy(s.Users, a.User)
	case UpdateUser:
		s.Users = replaceWhere(s.Users, a.User, func(u models.User) bool { return u.ID == a.User.ID })
	case DeleteUser:
		s.Users = deleteWhere(s.Users, func(u models.User) bool { return u.ID == a.ID })

	case AddAlert:
		s.Alerts = appendCopy(s.Alerts, a.Alert)
	case UpdateAlert:
		s.Alerts = replaceWhere(s.Alerts, a.Alert, func(al models.Alert) bool { return al.ID == a.Alert.ID })
	case DeleteAlert:
		s.Alerts = deleteWhere(s.Alerts, func(al models.Alert) bool { return al.ID == a.ID })

	case AdjustItemQuantity:
		idx := s.itemIndex(a.Code)
		if idx < 0 {
			return s
		}
		items := slices.Clone(s.Items)
		item := items[idx]
		item.CurrentQty = max(0, item.CurrentQty+a.Kind.Sign()*a.Quantity)
		item.LastMovementDate = util.FormatDate(a.At)
		items[idx] = item
		s.Items = items

	case ReplaceState:
		return a.State

	default:
		panic(fmt.Sprintf("store: unhandled action %T", a))
	}
	return s
}

// ChangesItems reports whether a touches the item collection in a way
// that requires low-stock alerts to be derived again. ReplaceState is
// excluded so that restored data comes back exactly as saved.
func ChangesItems(a Action) bool {
	switch a.(type) {
	case AddItem, UpdateItem, DeleteItem, AdjustItemQuantity:
		return true
	}
	return false
}

func appendCopy[T any](xs []T, x T) []T {
	out := make([]T, 0, len(xs)+1)
	out = append(out, xs...)
	return append(out, x)
}

func replaceWhere[T any](xs []T, x T, match func(T) bool) []T {
	idx := slices.IndexFunc(xs, match)
	if idx < 0 {
		return xs
	}
	out := slices.Clone(xs)
	out[idx] = x
	return out
}

func deleteWhere[T any](xs []T, match func(T) bool) []T {
	if !slices.ContainsFunc(xs, match) {
		return xs
	}
	out := make([]T, 0, len(xs)-1)
	for _, x := range xs {
		if !match(x) {
			out = append(out, x)
		}
	}
	return out
}
