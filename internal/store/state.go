// Package store owns the warehouse aggregate: items, pumps, movements,
// users and alerts. Every change goes through Reduce, low-stock alerts are
// derived after item changes, and observers see each new state.
package store

import (
	"slices"

	"github.com/saae/almox/internal/models"
)

// State is the whole warehouse aggregate. Collections are treated as
// immutable once a State is published; Reduce copies before writing.
type State struct {
	Items     []models.Item
	Pumps     []models.Pump
	Movements []models.Movement
	Users     []models.User
	Alerts    []models.Alert
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	return State{
		Items:     slices.Clone(s.Items),
		Pumps:     slices.Clone(s.Pumps),
		Movements: slices.Clone(s.Movements),
		Users:     slices.Clone(s.Users),
		Alerts:    slices.Clone(s.Alerts),
	}
}

func (s State) itemIndex(code string) int {
	return slices.IndexFunc(s.Items, func(i models.Item) bool { return i.Code == code })
}

func (s State) pumpIndex(id string) int {
	return slices.IndexFunc(s.Pumps, func(p models.Pump) bool { return p.ID == id })
}

func (s State) userIndex(id string) int {
	return slices.IndexFunc(s.Users, func(u models.User) bool { return u.ID == id })
}

func (s State) alertIndex(id string) int {
	return slices.IndexFunc(s.Alerts, func(a models.Alert) bool { return a.ID == id })
}

// lowStockCovered reports whether code already has an outstanding
// LowStock alert other than exceptID.
func (s State) lowStockCovered(code, exceptID string) bool {
	return slices.ContainsFunc(s.Alerts, func(a models.Alert) bool {
		return a.ID != exceptID && a.Kind == models.AlertLowStock &&
			a.RelatedItemCode == code && a.IsOutstanding()
	})
}
