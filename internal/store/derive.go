package store

import (
	"fmt"
	"time"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/util"
)

// DeriveLowStockAlerts appends a pending LowStock alert for every item at
// or below its minimum that does not already have an outstanding one.
// Existing alerts are never changed or removed.
func DeriveLowStockAlerts(s State, at time.Time, responsible string) State {
	covered := make(map[string]bool)
	taken := make(map[string]bool, len(s.Alerts))
	for _, a := range s.Alerts {
		taken[a.ID] = true
		if a.Kind == models.AlertLowStock && a.IsOutstanding() && a.RelatedItemCode != "" {
			covered[a.RelatedItemCode] = true
		}
	}

	var added []models.Alert
	for _, item := range s.Items {
		if !item.IsLowStock() || covered[item.Code] {
			continue
		}
		covered[item.Code] = true

		id := uniqueAlertID(fmt.Sprintf("ALT%d-%s", at.UnixMilli(), item.Code), taken)
		taken[id] = true
		added = append(added, lowStockAlert(id, item, at, responsible))
	}

	if len(added) == 0 {
		return s
	}
	alerts := make([]models.Alert, 0, len(s.Alerts)+len(added))
	alerts = append(alerts, s.Alerts...)
	s.Alerts = append(alerts, added...)
	return s
}

func lowStockAlert(id string, item models.Item, at time.Time, responsible string) models.Alert {
	a := models.Alert{
		ID:              id,
		Kind:            models.AlertLowStock,
		RelatedItemCode: item.Code,
		GeneratedAt:     util.FormatStamp(at),
		Status:          models.AlertPending,
		Responsible:     responsible,
	}
	if item.IsOutOfStock() {
		a.Priority = models.PriorityHigh
		a.Title = item.Name + " - Estoque Crítico"
		a.Description = fmt.Sprintf("Quantidade atual (%d) abaixo do mínimo (%d). Solicitar reposição urgente.",
			item.CurrentQty, item.MinQty)
	} else {
		a.Priority = models.PriorityMedium
		a.Title = item.Name + " - Estoque Baixo"
		a.Description = fmt.Sprintf("Quantidade atual (%d) no limite do mínimo (%d). Programar reposição.",
			item.CurrentQty, item.MinQty)
	}
	return a
}

func uniqueAlertID(base string, taken map[string]bool) string {
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		id := fmt.Sprintf("%s-%d", base, n)
		if !taken[id] {
			return id
		}
	}
}
