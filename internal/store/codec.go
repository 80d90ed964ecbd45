package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/saae/almox/internal/models"
)

// Collection keys in the persisted document.
const (
	KeyItems     = "items"
	KeyPumps     = "pumps"
	KeyMovements = "movements"
	KeyUsers     = "users"
	KeyAlerts    = "alerts"
)

var allKeys = []string{KeyItems, KeyPumps, KeyMovements, KeyUsers, KeyAlerts}

type document struct {
	Items     []models.Item     `json:"items"`
	Pumps     []models.Pump     `json:"pumps"`
	Movements []models.Movement `json:"movements"`
	Users     []models.User     `json:"users"`
	Alerts    []models.Alert    `json:"alerts"`
}

// Encode serializes the aggregate as one JSON document. Empty collections
// are written as [] so they are not mistaken for missing ones.
func Encode(s State) ([]byte, error) {
	data, err := json.Marshal(document{
		Items:     orEmpty(s.Items),
		Pumps:     orEmpty(s.Pumps),
		Movements: orEmpty(s.Movements),
		Users:     orEmpty(s.Users),
		Alerts:    orEmpty(s.Alerts),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return data, nil
}

// DecodeReport describes how much of a saved document was usable.
type DecodeReport struct {
	// Missing is set when there was no saved document at all.
	Missing bool

	// Fallbacks names the collections replaced by their defaults.
	Fallbacks []string

	// Err joins the reasons collections were rejected.
	Err error
}

// Clean reports whether every collection came from the saved document.
func (r DecodeReport) Clean() bool {
	return !r.Missing && len(r.Fallbacks) == 0
}

// Decode restores an aggregate from data. Each collection is parsed and
// validated on its own; one that is missing, malformed, or holds an
// invalid record or a repeated key is replaced by the matching collection from defaults.
// A document that is not a JSON object falls back entirely.
func Decode(data []byte, defaults State) (State, DecodeReport) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return defaults.Clone(), DecodeReport{
			Fallbacks: slices.Clone(allKeys),
			Err:       fmt.Errorf("parsing document: %w", err),
		}
	}

	var rep DecodeReport
	var errs []error
	s := State{
		Items:     decodeCollection(raw, KeyItems, defaults.Items, func(i models.Item) string { return i.Code }, &rep, &errs),
		Pumps:     decodeCollection(raw, KeyPumps, defaults.Pumps, func(p models.Pump) string { return p.ID }, &rep, &errs),
		Movements: decodeCollection(raw, KeyMovements, defaults.Movements, func(m models.Movement) string { return m.ID }, &rep, &errs),
		Users:     decodeCollection(raw, KeyUsers, defaults.Users, func(u models.User) string { return u.ID }, &rep, &errs),
		Alerts:    decodeCollection(raw, KeyAlerts, defaults.Alerts, func(a models.Alert) string { return a.ID }, &rep, &errs),
	}
	rep.Err = errors.Join(errs...)
	return s, rep
}

type validatable interface {
	Validate() error
}

func decodeCollection[T validatable](raw map[string]json.RawMessage, key string, defaults []T, keyOf func(T) string, rep *DecodeReport, errs *[]error) []T {
	msg, ok := raw[key]
	if !ok || string(msg) == "null" {
		rep.Fallbacks = append(rep.Fallbacks, key)
		return slices.Clone(defaults)
	}

	var out []T
	err := json.Unmarshal(msg, &out)
	if err == nil {
		seen := make(map[string]bool, len(out))
		for i, v := range out {
			if verr := v.Validate(); verr != nil {
				err = fmt.Errorf("record %d: %w", i, verr)
				break
			}
			k := keyOf(v)
			if seen[k] {
				err = fmt.Errorf("record %d: duplicate key %q", i, k)
				break
			}
			seen[k] = true
		}
	}
	if err != nil {
		rep.Fallbacks = append(rep.Fallbacks, key)
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return slices.Clone(defaults)
	}
	return orEmpty(out)
}

func orEmpty[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
