package models

import (
	"errors"
	"fmt"
	"strings"
)

// AlertKind classifies what raised an alert.
type AlertKind string

const (
	AlertLowStock    AlertKind = "LOW_STOCK"
	AlertMaintenance AlertKind = "MAINTENANCE"
	AlertExpiry      AlertKind = "EXPIRY"
	AlertSystem      AlertKind = "SYSTEM"
)

func (k AlertKind) String() string {
	return string(k)
}

// Valid checks if the kind is a known value.
func (k AlertKind) Valid() bool {
	switch k {
	case AlertLowStock, AlertMaintenance, AlertExpiry, AlertSystem:
		return true
	}
	return false
}

// Label returns the human-readable kind.
func (k AlertKind) Label() string {
	switch k {
	case AlertLowStock:
		return "Low Stock"
	case AlertMaintenance:
		return "Maintenance"
	case AlertExpiry:
		return "Expiry"
	case AlertSystem:
		return "System"
	}
	return string(k)
}

// AlertPriority orders alerts by urgency.
type AlertPriority string

const (
	PriorityHigh   AlertPriority = "HIGH"
	PriorityMedium AlertPriority = "MEDIUM"
	PriorityLow    AlertPriority = "LOW"
)

// AlertPriorities lists priorities from most to least urgent.
var AlertPriorities = []AlertPriority{PriorityHigh, PriorityMedium, PriorityLow}

func (p AlertPriority) String() string {
	return string(p)
}

// Valid checks if the priority is a known value.
func (p AlertPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Label returns the human-readable priority.
func (p AlertPriority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return string(p)
}

// AlertStatus tracks an alert through handling.
type AlertStatus string

const (
	AlertPending    AlertStatus = "PENDING"
	AlertInProgress AlertStatus = "IN_PROGRESS"
	AlertResolved   AlertStatus = "RESOLVED"
)

// AlertStatuses lists statuses in workflow order.
var AlertStatuses = []AlertStatus{AlertPending, AlertInProgress, AlertResolved}

func (s AlertStatus) String() string {
	return string(s)
}

// Valid checks if the status is a known value.
func (s AlertStatus) Valid() bool {
	switch s {
	case AlertPending, AlertInProgress, AlertResolved:
		return true
	}
	return false
}

// Label returns the human-readable status.
func (s AlertStatus) Label() string {
	switch s {
	case AlertPending:
		return "Pending"
	case AlertInProgress:
		return "In Progress"
	case AlertResolved:
		return "Resolved"
	}
	return string(s)
}

// Alert is a notice that something needs attention.
type Alert struct {
	ID              string        `json:"id" validate:"required"`
	Kind            AlertKind     `json:"kind"`
	Priority        AlertPriority `json:"priority"`
	Title           string        `json:"title" validate:"required"`
	Description     string        `json:"description"`
	RelatedItemCode string        `json:"relatedItemCode,omitempty"`
	RelatedPumpID   string        `json:"relatedPumpId,omitempty"`
	GeneratedAt     string        `json:"generatedAt"`
	Status          AlertStatus   `json:"status"`
	Responsible     string        `json:"responsible"`
}

// IsOutstanding reports whether the alert still needs handling.
func (a Alert) IsOutstanding() bool {
	return a.Status != AlertResolved
}

// MatchesTitle reports whether term occurs in the title, ignoring case.
func (a Alert) MatchesTitle(term string) bool {
	return term == "" || strings.Contains(strings.ToLower(a.Title), strings.ToLower(term))
}

// Validate checks required fields and enum values.
func (a Alert) Validate() error {
	var errs []error
	if err := ValidateStruct(a); err != nil {
		errs = append(errs, err)
	}
	if !a.Kind.Valid() {
		errs = append(errs, fmt.Errorf("invalid alert kind: %q", a.Kind))
	}
	if !a.Priority.Valid() {
		errs = append(errs, fmt.Errorf("invalid alert priority: %q", a.Priority))
	}
	if !a.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid alert status: %q", a.Status))
	}
	return errors.Join(errs...)
}
