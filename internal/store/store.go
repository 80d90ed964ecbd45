package store

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/util"
)

const (
	idDigits      = 6
	maxIDAttempts = 1000
)

// DefaultAlertResponsible is assigned to derived alerts when none is configured.
const DefaultAlertResponsible = "Almoxarifado Central"

// Observer is told about every state the store publishes. The state passed
// in must be treated as read-only.
type Observer interface {
	StateChanged(ctx context.Context, s State) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, s State) error

// StateChanged calls f.
func (f ObserverFunc) StateChanged(ctx context.Context, s State) error {
	return f(ctx, s)
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for ids, dates and alert stamps.
func WithClock(c util.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithAlertResponsible sets who derived low-stock alerts are assigned to.
func WithAlertResponsible(name string) Option {
	return func(s *Store) { s.alertResponsible = name }
}

// WithObserver registers an observer at construction.
func WithObserver(o Observer) Option {
	return func(s *Store) { s.observers = append(s.observers, o) }
}

// Store is the single owner of the warehouse state. Mutations are
// serialized; observers run while the write lock is held, so they must
// not call back into the store.
type Store struct {
	mu               sync.RWMutex
	state            State
	clock            util.Clock
	ids              *util.IDGenerator
	logger           *slog.Logger
	alertResponsible string
	observers        []Observer
	saveFailures     atomic.Int64
}

// New creates a store holding initial.
func New(initial State, opts ...Option) *Store {
	s := &Store{
		state:            initial,
		clock:            util.SystemClock{},
		logger:           slog.Default(),
		alertResponsible: DefaultAlertResponsible,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = util.NewIDGenerator(s.clock)
	return s
}

// Subscribe registers an observer for subsequent changes.
func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// SaveFailures returns how many observer calls have failed.
func (s *Store) SaveFailures() int64 {
	return s.saveFailures.Load()
}

// dispatch applies actions in order and publishes the result once.
// The caller must hold the write lock.
func (s *Store) dispatch(ctx context.Context, actions ...Action) {
	next := s.state
	derive := false
	for _, a := range actions {
		next = Reduce(next, a)
		derive = derive || ChangesItems(a)
	}
	if derive {
		before := len(next.Alerts)
		next = DeriveLowStockAlerts(next, s.clock.Now(), s.alertResponsible)
		if n := len(next.Alerts) - before; n > 0 {
			s.logger.Info("low stock alerts raised", "count", n)
		}
	}
	s.state = next

	for _, o := range s.observers {
		if err := o.StateChanged(ctx, next); err != nil {
			s.saveFailures.Add(1)
			s.logger.Error("state observer failed", "error", err)
		}
	}
}

func (s *Store) reject(op string, err error) error {
	s.logger.Info("operation rejected", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}

// Replace swaps the whole state, as when restoring defaults.
func (s *Store) Replace(ctx context.Context, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dispatch(ctx, ReplaceState{State: st.Clone()})
	s.logger.Info("state replaced",
		"items", len(st.Items), "pumps", len(st.Pumps), "movements", len(st.Movements))
}

// AddItem adds a new item, stamping today as its last movement date.
func (s *Store) AddItem(ctx context.Context, item models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.LastMovementDate = util.FormatDate(s.clock.Now())
	if err := item.Validate(); err != nil {
		return s.reject("adding item", invalid(err))
	}
	if s.state.itemIndex(item.Code) >= 0 {
		return s.reject("adding item", fmt.Errorf("item %s: %w", item.Code, ErrDuplicate))
	}

	s.dispatch(ctx, AddItem{Item: item})
	s.logger.Debug("item added", "code", item.Code)
	return nil
}

// UpdateItem replaces the item with the same code. A changed quantity
// stamps today as the last movement date.
func (s *Store) UpdateItem(ctx context.Context, item models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := item.Validate(); err != nil {
		return s.reject("updating item", invalid(err))
	}
	idx := s.state.itemIndex(item.Code)
	if idx < 0 {
		return s.reject("updating item", fmt.Errorf("item %s: %w", item.Code, ErrNotFound))
	}
	if item.CurrentQty != s.state.Items[idx].CurrentQty {
		item.LastMovementDate = util.FormatDate(s.clock.Now())
	}

	s.dispatch(ctx, UpdateItem{Item: item})
	s.logger.Debug("item updated", "code", item.Code)
	return nil
}

// RemoveItem deletes the item with code. It reports whether anything
// was removed; a missing code is not an error.
func (s *Store) RemoveItem(ctx context.Context, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.itemIndex(code) < 0 {
		return false
	}
	s.dispatch(ctx, DeleteItem{Code: code})
	s.logger.Debug("item removed", "code", code)
	return true
}

// AddPump adds a pump, generating an id when it has none.
func (s *Store) AddPump(ctx context.Context, p models.Pump) (models.Pump, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.freeID("B", s.state.pumpIndex)
	}
	if err := p.Validate(); err != nil {
		return models.Pump{}, s.reject("adding pump", invalid(err))
	}
	if s.state.pumpIndex(p.ID) >= 0 {
		return models.Pump{}, s.reject("adding pump", fmt.Errorf("pump %s: %w", p.ID, ErrDuplicate))
	}

	s.dispatch(ctx, AddPump{Pump: p})
	s.logger.Debug("pump added", "id", p.ID, "status", p.Status())
	return p, nil
}

// UpdatePump replaces the pump with the same id.
func (s *Store) UpdatePump(ctx context.Context, p models.Pump) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := p.Validate(); err != nil {
		return s.reject("updating pump", invalid(err))
	}
	if s.state.pumpIndex(p.ID) < 0 {
		return s.reject("updating pump", fmt.Errorf("pump %s: %w", p.ID, ErrNotFound))
	}

	s.dispatch(ctx, UpdatePump{Pump: p})
	s.logger.Debug("pump updated", "id", p.ID, "status", p.Status())
	return nil
}

// RemovePump deletes the pump with id, reporting whether it existed.
func (s *Store) RemovePump(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.pumpIndex(id) < 0 {
		return false
	}
	s.dispatch(ctx, DeletePump{ID: id})
	s.logger.Debug("pump removed", "id", id)
	return true
}

// RecordMovement records an entry or exit and applies it to the item's
// stock. An exit larger than the current quantity is rejected and
// nothing changes.
func (s *Store) RecordMovement(ctx context.Context, in MovementInput) (models.Movement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := in.Validate(); err != nil {
		return models.Movement{}, s.reject("recording movement", invalid(err))
	}

	idx := s.state.itemIndex(in.ItemCode)
	if idx < 0 {
		return models.Movement{}, s.reject("recording movement", fmt.Errorf("item %s: %w", in.ItemCode, ErrNotFound))
	}
	item := s.state.Items[idx]
	if in.Kind == models.MovementEntry && item.CurrentQty > math.MaxInt-in.Quantity {
		return models.Movement{}, s.reject("recording movement",
			invalid(fmt.Errorf("entry of %d would overflow the stock of %s", in.Quantity, item.Code)))
	}
	if in.Kind == models.MovementExit && in.Quantity > item.CurrentQty {
		return models.Movement{}, s.reject("recording movement",
			fmt.Errorf("%w: %s has %d %s, requested %d", ErrInsufficientStock, item.Code, item.CurrentQty, item.Unit, in.Quantity))
	}

	now := s.clock.Now()
	m := models.Movement{
		ID:            s.ids.Next("MOV"),
		Kind:          in.Kind,
		ItemCode:      item.Code,
		ItemName:      item.Name,
		Quantity:      in.Quantity,
		Unit:          item.Unit,
		Responsible:   in.Responsible,
		Sector:        in.Sector,
		Date:          util.FormatDate(now),
		Time:          util.FormatClock(now),
		InvoiceNumber: in.InvoiceNumber,
		Supplier:      in.Supplier,
		Note:          in.Note,
	}

	s.dispatch(ctx,
		AddMovement{Movement: m},
		AdjustItemQuantity{Code: item.Code, Kind: in.Kind, Quantity: in.Quantity, At: now},
	)
	s.logger.Debug("movement recorded", "id", m.ID, "kind", m.Kind, "item", m.ItemCode, "quantity", m.Quantity)
	return m, nil
}

// AddUser registers a user, stamping registration and last access.
func (s *Store) AddUser(ctx context.Context, in NewUser) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	u := models.User{
		ID:           s.freeID("USR", s.state.userIndex),
		Name:         in.Name,
		Email:        in.Email,
		Role:         in.Role,
		Sector:       in.Sector,
		Status:       in.Status,
		LastAccess:   util.FormatStamp(now),
		RegisteredOn: util.FormatDate(now),
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	if err := u.Validate(); err != nil {
		return models.User{}, s.reject("adding user", invalid(err))
	}
	if s.state.userIndex(u.ID) >= 0 || s.emailTaken(u.Email, "") {
		return models.User{}, s.reject("adding user", fmt.Errorf("user %s: %w", u.Email, ErrDuplicate))
	}

	s.dispatch(ctx, AddUser{User: u})
	s.logger.Debug("user added", "id", u.ID)
	return u, nil
}

// freeID draws short ids until one is not taken. Fragments repeat across
// sessions, so a clash with a saved record is expected now and then.
func (s *Store) freeID(prefix string, index func(string) int) string {
	id := s.ids.NextFragment(prefix, idDigits)
	for range maxIDAttempts {
		if index(id) < 0 {
			break
		}
		id = s.ids.NextFragment(prefix, idDigits)
	}
	return id
}

func (s *Store) emailTaken(email, exceptID string) bool {
	return slices.ContainsFunc(s.state.Users, func(u models.User) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, email)
	})
}

// UpdateUser replaces the user with the same id.
func (s *Store) UpdateUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := u.Validate(); err != nil {
		return s.reject("updating user", invalid(err))
	}
	if s.state.userIndex(u.ID) < 0 {
		return s.reject("updating user", fmt.Errorf("user %s: %w", u.ID, ErrNotFound))
	}
	if s.emailTaken(u.Email, u.ID) {
		return s.reject("updating user", fmt.Errorf("email %s: %w", u.Email, ErrDuplicate))
	}

	s.dispatch(ctx, UpdateUser{User: u})
	s.logger.Debug("user updated", "id", u.ID)
	return nil
}

// RemoveUser deletes the user with id, reporting whether it existed.
func (s *Store) RemoveUser(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.userIndex(id) < 0 {
		return false
	}
	s.dispatch(ctx, DeleteUser{ID: id})
	s.logger.Debug("user removed", "id", id)
	return true
}

// AddAlert raises an alert by hand. The id combines the current time
// with the related item or pump.
func (s *Store) AddAlert(ctx context.Context, in NewAlert) (models.Alert, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.Next("ALT")
	switch {
	case in.RelatedItemCode != "":
		id += "-" + in.RelatedItemCode
	case in.RelatedPumpID != "":
		id += "-" + in.RelatedPumpID
	}

	a := models.Alert{
		ID:              id,
		Kind:            in.Kind,
		Priority:        in.Priority,
		Title:           in.Title,
		Description:     in.Description,
		RelatedItemCode: in.RelatedItemCode,
		RelatedPumpID:   in.RelatedPumpID,
		GeneratedAt:     util.FormatStamp(s.clock.Now()),
		Status:          in.Status,
		Responsible:     in.Responsible,
	}
	if a.Status == "" {
		a.Status = models.AlertPending
	}
	if err := a.Validate(); err != nil {
		return models.Alert{}, s.reject("adding alert", invalid(err))
	}
	if s.state.alertIndex(a.ID) >= 0 {
		return models.Alert{}, s.reject("adding alert", fmt.Errorf("alert %s: %w", a.ID, ErrDuplicate))
	}
	if s.opensSecondLowStock(a) {
		return models.Alert{}, s.reject("adding alert",
			fmt.Errorf("low stock alert for %s already open: %w", a.RelatedItemCode, ErrDuplicate))
	}

	s.dispatch(ctx, AddAlert{Alert: a})
	s.logger.Debug("alert added", "id", a.ID, "kind", a.Kind)
	return a, nil
}

// UpdateAlert replaces the alert with the same id.
func (s *Store) UpdateAlert(ctx context.Context, a models.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := a.Validate(); err != nil {
		return s.reject("updating alert", invalid(err))
	}
	if s.state.alertIndex(a.ID) < 0 {
		return s.reject("updating alert", fmt.Errorf("alert %s: %w", a.ID, ErrNotFound))
	}
	if s.opensSecondLowStock(a) {
		return s.reject("updating alert",
			fmt.Errorf("low stock alert for %s already open: %w", a.RelatedItemCode, ErrDuplicate))
	}

	s.dispatch(ctx, UpdateAlert{Alert: a})
	s.logger.Debug("alert updated", "id", a.ID, "status", a.Status)
	return nil
}

// opensSecondLowStock reports whether a would be a second outstanding
// LowStock alert for its item.
func (s *Store) opensSecondLowStock(a models.Alert) bool {
	if a.Kind != models.AlertLowStock || a.RelatedItemCode == "" || !a.IsOutstanding() {
		return false
	}
	return s.state.lowStockCovered(a.RelatedItemCode, a.ID)
}

// RemoveAlert deletes the alert with id, reporting whether it existed.
func (s *Store) RemoveAlert(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.alertIndex(id) < 0 {
		return false
	}
	s.dispatch(ctx, DeleteAlert{ID: id})
	s.logger.Debug("alert removed", "id", id)
	return true
}

// ResolveAlert marks an alert resolved. Resolving an already resolved
// alert changes nothing and notifies no one.
func (s *Store) ResolveAlert(ctx context.Context, id string) error {
	return s.moveAlert(ctx, "resolving alert", id, models.AlertResolved, func(st models.AlertStatus) bool {
		return st != models.AlertResolved
	})
}

// StartAlert moves a pending alert to in progress. Alerts in any other
// status are left alone.
func (s *Store) StartAlert(ctx context.Context, id string) error {
	return s.moveAlert(ctx, "starting alert", id, models.AlertInProgress, func(st models.AlertStatus) bool {
		return st == models.AlertPending
	})
}

func (s *Store) moveAlert(ctx context.Context, op, id string, to models.AlertStatus, allowed func(models.AlertStatus) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.alertIndex(id)
	if idx < 0 {
		return s.reject(op, fmt.Errorf("alert %s: %w", id, ErrNotFound))
	}
	a := s.state.Alerts[idx]
	if !allowed(a.Status) {
		return nil
	}

	a.Status = to
	s.dispatch(ctx, UpdateAlert{Alert: a})
	s.logger.Debug("alert status changed", "id", id, "status", to)
	return nil
}

// LowStockItems returns items at or below their minimum, in collection order.
func (s *Store) LowStockItems() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter(s.state.Items, models.Item.IsLowStock)
}

// TotalItems returns the number of distinct items.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Items)
}

// PumpsByStatus returns pumps in any of the given statuses, or every pump
// when none is given.
func (s *Store) PumpsByStatus(statuses ...models.PumpStatus) []models.Pump {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(statuses) == 0 {
		return slices.Clone(s.state.Pumps)
	}
	return filter(s.state.Pumps, func(p models.Pump) bool {
		return slices.Contains(statuses, p.Status())
	})
}

// MovementsInWindow returns movements dated within the last days days,
// most recent first.
func (s *Store) MovementsInWindow(days int) []models.Movement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := util.WindowStart(s.clock.Now(), days)
	return filter(s.state.Movements, func(m models.Movement) bool {
		return m.Date >= start
	})
}

// PendingAlerts returns alerts that are not resolved.
func (s *Store) PendingAlerts() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter(s.state.Alerts, models.Alert.IsOutstanding)
}

// ActiveUsers returns users whose status is active.
func (s *Store) ActiveUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter(s.state.Users, models.User.IsActive)
}

// Snapshot returns a copy of the whole aggregate.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Item looks up an item by code.
func (s *Store) Item(code string) (models.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.state.Items, s.state.itemIndex(code))
}

// Pump looks up a pump by id.
func (s *Store) Pump(id string) (models.Pump, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.state.Pumps, s.state.pumpIndex(id))
}

// User looks up a user by id.
func (s *Store) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.state.Users, s.state.userIndex(id))
}

// Alert looks up an alert by id.
func (s *Store) Alert(id string) (models.Alert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lookup(s.state.Alerts, s.state.alertIndex(id))
}

// SearchItems returns items whose code or name contains term, optionally
// restricted to one category.
func (s *Store) SearchItems(term, category string) []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter(s.state.Items, func(i models.Item) bool {
		return (category == "" || i.Category == category) && i.MatchesSearch(term)
	})
}

// FilterAlerts returns alerts matching f.
func (s *Store) FilterAlerts(f AlertFilter) []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return filter(s.state.Alerts, f.matches)
}

func filter[T any](xs []T, keep func(T) bool) []T {
	var out []T
	for _, x := range xs {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

func lookup[T any](xs []T, idx int) (T, bool) {
	if idx < 0 {
		var zero T
		return zero, false
	}
	return xs[idx], true
}
