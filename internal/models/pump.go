package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// PumpStatus represents where a pump is in its lifecycle.
type PumpStatus string

const (
	PumpStatusInStock          PumpStatus = "IN_STOCK"
	PumpStatusOperating        PumpStatus = "OPERATING"
	PumpStatusUnderMaintenance PumpStatus = "UNDER_MAINTENANCE"
	PumpStatusDecommissioned   PumpStatus = "DECOMMISSIONED"
)

// PumpStatuses lists every status in display order.
var PumpStatuses = []PumpStatus{
	PumpStatusInStock,
	PumpStatusOperating,
	PumpStatusUnderMaintenance,
	PumpStatusDecommissioned,
}

func (s PumpStatus) String() string {
	return string(s)
}

// Valid checks if the status is a known value.
func (s PumpStatus) Valid() bool {
	switch s {
	case PumpStatusInStock, PumpStatusOperating, PumpStatusUnderMaintenance, PumpStatusDecommissioned:
		return true
	}
	return false
}

// Label returns the human-readable status.
func (s PumpStatus) Label() string {
	switch s {
	case PumpStatusInStock:
		return "In Stock"
	case PumpStatusOperating:
		return "Operating"
	case PumpStatusUnderMaintenance:
		return "Maintenance"
	case PumpStatusDecommissioned:
		return "Decommissioned"
	}
	return string(s)
}

// PumpState is the status-specific part of a pump. The set of
// implementations is closed to this package.
type PumpState interface {
	Status() PumpStatus
	pumpState()
}

// InStock is a pump sitting on a warehouse shelf.
type InStock struct {
	StorageAddress string
}

// Deployment holds who put a pump in the field and when.
type Deployment struct {
	Responsible string
	InstallDate string
}

// Operating is a pump installed and running.
type Operating struct{ Deployment }

// UnderMaintenance is a pump pulled for repair.
type UnderMaintenance struct{ Deployment }

// Decommissioned is a pump taken out of service for good.
type Decommissioned struct{ Deployment }

func (InStock) Status() PumpStatus          { return PumpStatusInStock }
func (Operating) Status() PumpStatus        { return PumpStatusOperating }
func (UnderMaintenance) Status() PumpStatus { return PumpStatusUnderMaintenance }
func (Decommissioned) Status() PumpStatus   { return PumpStatusDecommissioned }

func (InStock) pumpState()          {}
func (Operating) pumpState()        {}
func (UnderMaintenance) pumpState() {}
func (Decommissioned) pumpState()   {}

// NewPumpState builds the variant for status, keeping only the fields
// that status carries.
func NewPumpState(status PumpStatus, storageAddress, responsible, installDate string) (PumpState, error) {
	d := Deployment{Responsible: responsible, InstallDate: installDate}
	switch status {
	case PumpStatusInStock:
		return InStock{StorageAddress: storageAddress}, nil
	case PumpStatusOperating:
		return Operating{d}, nil
	case PumpStatusUnderMaintenance:
		return UnderMaintenance{d}, nil
	case PumpStatusDecommissioned:
		return Decommissioned{d}, nil
	}
	return nil, fmt.Errorf("invalid pump status: %q", status)
}

// DeploymentOf returns the deployment details when the state carries them.
func DeploymentOf(s PumpState) (Deployment, bool) {
	switch v := s.(type) {
	case Operating:
		return v.Deployment, true
	case UnderMaintenance:
		return v.Deployment, true
	case Decommissioned:
		return v.Deployment, true
	}
	return Deployment{}, false
}

// Pump is a piece of pumping equipment.
type Pump struct {
	ID              string
	SerialNumber    string
	Manufacturer    string
	Model           string
	Power           string
	Capacity        string
	Location        string
	HoursUsed       string
	NextMaintenance string
	State           PumpState
}

// Status returns the pump's current status, or "" when unset.
func (p Pump) Status() PumpStatus {
	if p.State == nil {
		return ""
	}
	return p.State.Status()
}

// StorageAddress returns the shelf address of an in-stock pump.
func (p Pump) StorageAddress() string {
	if s, ok := p.State.(InStock); ok {
		return s.StorageAddress
	}
	return ""
}

// Responsible returns who answers for a deployed pump.
func (p Pump) Responsible() string {
	d, _ := DeploymentOf(p.State)
	return d.Responsible
}

// InstallDate returns when a deployed pump was installed.
func (p Pump) InstallDate() string {
	d, _ := DeploymentOf(p.State)
	return d.InstallDate
}

// Store moves the pump back onto a shelf.
func (p *Pump) Store(storageAddress string) {
	p.State = InStock{StorageAddress: storageAddress}
}

// Deploy moves the pump to a deployed status.
func (p *Pump) Deploy(status PumpStatus, responsible, installDate string) error {
	if status == PumpStatusInStock {
		return errors.New("use Store to return a pump to stock")
	}
	state, err := NewPumpState(status, "", responsible, installDate)
	if err != nil {
		return err
	}
	p.State = state
	return nil
}

// Validate checks that the pump is complete enough to be tracked.
func (p Pump) Validate() error {
	var errs []error
	if p.ID == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if p.SerialNumber == "" {
		errs = append(errs, errors.New("serialNumber is required"))
	}
	if p.Manufacturer == "" {
		errs = append(errs, errors.New("manufacturer is required"))
	}
	if p.Model == "" {
		errs = append(errs, errors.New("model is required"))
	}

	switch s := p.State.(type) {
	case nil:
		errs = append(errs, errors.New("status is required"))
	case InStock:
		if s.StorageAddress == "" {
			errs = append(errs, errors.New("storageAddress is required for pumps in stock"))
		}
	default:
		if p.Responsible() == "" {
			errs = append(errs, fmt.Errorf("responsible is required for %s pumps", s.Status().Label()))
		}
	}
	return errors.Join(errs...)
}

type pumpWire struct {
	ID              string     `json:"id"`
	SerialNumber    string     `json:"serialNumber"`
	Manufacturer    string     `json:"manufacturer"`
	Model           string     `json:"model"`
	Power           string     `json:"power"`
	Capacity        string     `json:"capacity"`
	Location        string     `json:"location"`
	Status          PumpStatus `json:"status"`
	StorageAddress  string     `json:"storageAddress,omitempty"`
	Responsible     string     `json:"responsible,omitempty"`
	InstallDate     string     `json:"installDate,omitempty"`
	HoursUsed       string     `json:"hoursUsed"`
	NextMaintenance string     `json:"nextMaintenance"`
}

// MarshalJSON flattens the state variant into status-tagged fields.
func (p Pump) MarshalJSON() ([]byte, error) {
	if p.State == nil {
		return nil, fmt.Errorf("pump %s has no status", p.ID)
	}
	d, _ := DeploymentOf(p.State)
	return json.Marshal(pumpWire{
		ID:              p.ID,
		SerialNumber:    p.SerialNumber,
		Manufacturer:    p.Manufacturer,
		Model:           p.Model,
		Power:           p.Power,
		Capacity:        p.Capacity,
		Location:        p.Location,
		Status:          p.State.Status(),
		StorageAddress:  p.StorageAddress(),
		Responsible:     d.Responsible,
		InstallDate:     d.InstallDate,
		HoursUsed:       p.HoursUsed,
		NextMaintenance: p.NextMaintenance,
	})
}

// UnmarshalJSON rebuilds the state variant from the flat fields. Fields
// that do not belong to the decoded status are dropped.
func (p *Pump) UnmarshalJSON(data []byte) error {
	var w pumpWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	state, err := NewPumpState(w.Status, w.StorageAddress, w.Responsible, w.InstallDate)
	if err != nil {
		return err
	}
	*p = Pump{
		ID:              w.ID,
		SerialNumber:    w.SerialNumber,
		Manufacturer:    w.Manufacturer,
		Model:           w.Model,
		Power:           w.Power,
		Capacity:        w.Capacity,
		Location:        w.Location,
		HoursUsed:       w.HoursUsed,
		NextMaintenance: w.NextMaintenance,
		State:           state,
	}
	return nil
}
