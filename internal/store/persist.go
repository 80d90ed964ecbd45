package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// DefaultSlot is the name the aggregate is saved under.
const DefaultSlot = "almoxarifado-data"

// ErrSlotNotFound is returned by a SlotBackend when nothing has been saved
// under the requested name.
var ErrSlotNotFound = errors.New("slot not found")

// SlotBackend is durable named storage for serialized state.
type SlotBackend interface {
	LoadSlot(ctx context.Context, name string) ([]byte, error)
	SaveSlot(ctx context.Context, name string, doc []byte) error
}

// SlotObserver writes every published state to a slot.
type SlotObserver struct {
	backend SlotBackend
	name    string
}

// NewSlotObserver creates an observer saving to name on backend.
func NewSlotObserver(backend SlotBackend, name string) *SlotObserver {
	if name == "" {
		name = DefaultSlot
	}
	return &SlotObserver{backend: backend, name: name}
}

// StateChanged encodes s and saves it.
func (o *SlotObserver) StateChanged(ctx context.Context, s State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := o.backend.SaveSlot(ctx, o.name, data); err != nil {
		return fmt.Errorf("saving slot %s: %w", o.name, err)
	}
	return nil
}

// Hydrate reads the saved state once at startup. It never fails: a
// missing slot yields defaults, an unreadable one yields defaults with the
// error in the report, and a damaged one keeps whatever collections parse.
func Hydrate(ctx context.Context, backend SlotBackend, name string, defaults State, logger *slog.Logger) (State, DecodeReport) {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		name = DefaultSlot
	}

	data, err := backend.LoadSlot(ctx, name)
	if errors.Is(err, ErrSlotNotFound) {
		logger.Info("no saved state, loading initial dataset", "slot", name)
		return defaults.Clone(), DecodeReport{Missing: true}
	}
	if err != nil {
		logger.Error("failed to read saved state, loading initial dataset", "slot", name, "error", err)
		return defaults.Clone(), DecodeReport{Fallbacks: slices.Clone(allKeys), Err: err}
	}

	s, rep := Decode(data, defaults)
	if len(rep.Fallbacks) > 0 {
		logger.Warn("saved state partially restored",
			"slot", name, "fallbacks", rep.Fallbacks, "error", rep.Err)
	} else {
		logger.Info("saved state restored", "slot", name,
			"items", len(s.Items), "movements", len(s.Movements))
	}
	return s, rep
}

// MemorySlots is a SlotBackend held in memory, for tests and throwaway
// sessions.
type MemorySlots struct {
	mu    sync.Mutex
	slots map[string][]byte
	saves int
}

// NewMemorySlots creates an empty in-memory backend.
func NewMemorySlots() *MemorySlots {
	return &MemorySlots{slots: make(map[string][]byte)}
}

// LoadSlot returns a copy of the saved document.
func (m *MemorySlots) LoadSlot(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.slots[name]
	if !ok {
		return nil, ErrSlotNotFound
	}
	return slices.Clone(doc), nil
}

// SaveSlot stores a copy of doc.
func (m *MemorySlots) SaveSlot(_ context.Context, name string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slots[name] = slices.Clone(doc)
	m.saves++
	return nil
}

// Saves returns how many times SaveSlot has been called.
func (m *MemorySlots) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
