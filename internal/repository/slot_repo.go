// Package repository provides SQLite-backed storage for almox.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/util"
)

// savedAtFormat sorts lexicographically in time order for UTC stamps.
const savedAtFormat = "2006-01-02T15:04:05.000000000Z07:00"

// SlotInfo describes one saved revision of a slot.
type SlotInfo struct {
	Name      string
	Revision  string
	SavedAt   time.Time
	SizeBytes int
}

// SlotRepository stores serialized state documents by name. It implements
// store.SlotBackend.
type SlotRepository struct {
	db    *sql.DB
	clock util.Clock
}

var _ store.SlotBackend = (*SlotRepository)(nil)

// NewSlotRepository creates a slot repository. A nil clock uses wall time.
func NewSlotRepository(db *sql.DB, clock util.Clock) *SlotRepository {
	if clock == nil {
		clock = util.SystemClock{}
	}
	return &SlotRepository{db: db, clock: clock}
}

// LoadSlot returns the document saved under name, or store.ErrSlotNotFound.
func (r *SlotRepository) LoadSlot(ctx context.Context, name string) ([]byte, error) {
	var doc string
	err := r.db.QueryRowContext(ctx,
		"SELECT document FROM state_slots WHERE name = ?", name,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading slot %s: %w", name, err)
	}
	return []byte(doc), nil
}

// SaveSlot replaces the document under name and records the save in the
// slot history. Each save gets a fresh revision.
func (r *SlotRepository) SaveSlot(ctx context.Context, name string, doc []byte) error {
	revision := util.NewRevision()
	savedAt := r.clock.Now().UTC().Format(savedAtFormat)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO state_slots (name, document, revision, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			document = excluded.document,
			revision = excluded.revision,
			saved_at = excluded.saved_at`,
		name, string(doc), revision, savedAt,
	)
	if err != nil {
		return fmt.Errorf("saving slot %s: %w", name, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO slot_history (revision, slot_name, size_bytes, saved_at) VALUES (?, ?, ?, ?)",
		revision, name, len(doc), savedAt,
	)
	if err != nil {
		return fmt.Errorf("recording slot history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing slot %s: %w", name, err)
	}
	return nil
}

// Revision returns the current revision of name.
func (r *SlotRepository) Revision(ctx context.Context, name string) (SlotInfo, error) {
	info := SlotInfo{Name: name}
	var savedAt string
	err := r.db.QueryRowContext(ctx,
		"SELECT revision, saved_at, length(document) FROM state_slots WHERE name = ?", name,
	).Scan(&info.Revision, &savedAt, &info.SizeBytes)
	if errors.Is(err, sql.ErrNoRows) {
		return SlotInfo{}, store.ErrSlotNotFound
	}
	if err != nil {
		return SlotInfo{}, fmt.Errorf("reading slot %s revision: %w", name, err)
	}

	info.SavedAt, err = time.Parse(savedAtFormat, savedAt)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("parsing saved_at: %w", err)
	}
	info.Revision, err = util.ParseID(info.Revision)
	if err != nil {
		return SlotInfo{}, fmt.Errorf("slot %s: %w", name, err)
	}
	return info, nil
}

// History returns up to limit saves of name, newest first.
func (r *SlotRepository) History(ctx context.Context, name string, limit int) ([]SlotInfo, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT revision, size_bytes, saved_at FROM slot_history
		WHERE slot_name = ?
		ORDER BY saved_at DESC, revision DESC
		LIMIT ?`, name, limit)
	if err != nil {
		return nil, fmt.Errorf("querying slot history: %w", err)
	}
	defer rows.Close()

	var history []SlotInfo
	for rows.Next() {
		info := SlotInfo{Name: name}
		var savedAt string
		if err := rows.Scan(&info.Revision, &info.SizeBytes, &savedAt); err != nil {
			return nil, fmt.Errorf("scanning slot history: %w", err)
		}
		if info.SavedAt, err = time.Parse(savedAtFormat, savedAt); err != nil {
			return nil, fmt.Errorf("parsing saved_at: %w", err)
		}
		history = append(history, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slot history: %w", err)
	}
	return history, nil
}

// Delete removes the slot and its history. It reports whether the slot
// existed.
func (r *SlotRepository) Delete(ctx context.Context, name string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM state_slots WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("deleting slot %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM slot_history WHERE slot_name = ?", name); err != nil {
		return false, fmt.Errorf("deleting slot %s history: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing delete: %w", err)
	}

	n, _ := res.RowsAffected()
	return n > 0, nil
}
