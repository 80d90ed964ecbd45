package stock

import (
	"fmt"
	"strconv"

	"github.com/saae/almox/internal/database/seed"
	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/tui/components"
)

// MovementForm records an entry or exit for one item.
type MovementForm struct {
	kind models.MovementKind
	item models.Item
	form *components.Form

	quantity    *components.Input
	responsible *components.Input
	sector      *components.Select
	invoice     *components.Input
	supplier    *components.Input
	note        *components.Input
}

// NewMovementForm creates a form for recording kind against item. Invoice
// and supplier are only asked for entries.
func NewMovementForm(kind models.MovementKind, item models.Item) *MovementForm {
	f := &MovementForm{
		kind:        kind,
		item:        item,
		quantity:    components.NewInput("Quantity").SetRequired(true).SetNumeric(true).SetWidth(8).SetMaxLength(6),
		responsible: components.NewInput("Responsible").SetRequired(true).SetWidth(30),
		sector:      components.NewSelect("Sector", seed.Sectors),
		note:        components.NewInput("Note").SetWidth(40).SetMaxLength(200),
	}

	title := "STOCK EXIT"
	if kind == models.MovementEntry {
		title = "STOCK ENTRY"
	}
	f.form = components.NewForm(fmt.Sprintf("%s: %s %s", title, item.Code, item.Name)).
		AddField(f.quantity).
		AddField(f.responsible).
		AddField(f.sector)

	if kind == models.MovementEntry {
		f.invoice = components.NewInput("Invoice").SetWidth(20).SetPlaceholder("NF-0000-000000")
		f.supplier = components.NewInput("Supplier").SetWidth(30).SetValue(item.Supplier)
		f.form.AddField(f.invoice).AddField(f.supplier)
	}
	f.form.AddField(f.note)

	return f
}

// HandleKey passes a key to the form.
func (f *MovementForm) HandleKey(key string) {
	f.form.HandleKey(key)
}

// Submitted reports whether the form was submitted.
func (f *MovementForm) Submitted() bool {
	return f.form.IsSubmitted()
}

// Cancelled reports whether the form was cancelled.
func (f *MovementForm) Cancelled() bool {
	return f.form.IsCancelled()
}

// Reject reopens the form showing err.
func (f *MovementForm) Reject(err error) {
	f.form.SetError(err.Error())
	f.form.Reopen()
}

// Input validates the fields and builds the movement request.
func (f *MovementForm) Input() (store.MovementInput, error) {
	valid := f.quantity.Validate()
	valid = f.responsible.Validate() && valid
	if !valid {
		return store.MovementInput{}, fmt.Errorf("fill in the required fields")
	}

	qty, err := strconv.Atoi(f.quantity.Value())
	if err != nil || qty <= 0 {
		f.quantity.SetError("Must be positive")
		return store.MovementInput{}, fmt.Errorf("quantity must be a positive number")
	}
	if f.kind == models.MovementExit && qty > f.item.CurrentQty {
		f.quantity.SetError(fmt.Sprintf("Max %d", f.item.CurrentQty))
		return store.MovementInput{}, fmt.Errorf("only %d %s in stock", f.item.CurrentQty, f.item.Unit)
	}

	in := store.MovementInput{
		Kind:        f.kind,
		ItemCode:    f.item.Code,
		Quantity:    qty,
		Responsible: f.responsible.Value(),
		Sector:      f.sector.Value(),
		Note:        f.note.Value(),
	}
	if f.kind == models.MovementEntry {
		in.InvoiceNumber = f.invoice.Value()
		in.Supplier = f.supplier.Value()
	}
	return in, nil
}

// Render renders the form.
func (f *MovementForm) Render(p components.Palette) string {
	stock := p.Field("In stock", fmt.Sprintf("%d %s (min %d)", f.item.CurrentQty, f.item.Unit, f.item.MinQty), 16)
	return f.form.Render(p) + "\n\n" + stock
}
