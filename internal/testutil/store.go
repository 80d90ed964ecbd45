package testutil

import (
	"testing"

	"github.com/saae/almox/internal/database/seed"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/util"
)

// NewSeededStore creates a store over the initial dataset with its clock
// fixed at FixtureNow. Saves go to memory.
func NewSeededStore(t *testing.T) (*store.Store, *util.FixedClock) {
	t.Helper()

	clock := util.NewFixedClock(FixtureNow)
	s := store.New(seed.InitialState(),
		store.WithClock(clock),
		store.WithLogger(QuietLogger()),
		store.WithAlertResponsible("Almoxarifado Central"),
		store.WithObserver(store.NewSlotObserver(store.NewMemorySlots(), store.DefaultSlot)),
	)
	return s, clock
}
