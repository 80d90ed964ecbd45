// Package export writes reports to spreadsheet and PDF files.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/reports"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/util"
)

// Workbook sheet names, in tab order.
const (
	SheetItems     = "Itens"
	SheetMovements = "Movimentações"
	SheetPumps     = "Bombas"
	SheetAlerts    = "Alertas"
	SheetSummary   = "Resumo"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
	widths []float64
}

// WriteXLSX writes a workbook with one sheet per collection of s plus a
// summary sheet built from r.
func WriteXLSX(w io.Writer, r *reports.Report, s store.State) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheets := []sheet{
		itemsSheet(s.Items),
		movementsSheet(s.Movements),
		pumpsSheet(s.Pumps),
		alertsSheet(s.Alerts),
		summarySheet(r),
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return fmt.Errorf("xlsx: header style: %w", err)
	}

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sh.name); err != nil {
				return fmt.Errorf("xlsx: rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return fmt.Errorf("xlsx: create sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, headerStyle); err != nil {
			return fmt.Errorf("xlsx: sheet %s: %w", sh.name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return err
		}
	}

	for i, width := range sh.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func itemsSheet(items []models.Item) sheet {
	sh := sheet{
		name:   SheetItems,
		header: []any{"Código", "Nome", "Categoria", "Unidade", "Fornecedor", "Qtd. Atual", "Qtd. Mínima", "Endereço", "Última Movimentação", "Situação"},
		widths: []float64{10, 32, 14, 10, 18, 11, 12, 15, 20, 12},
	}
	for _, i := range items {
		sh.rows = append(sh.rows, []any{
			i.Code, i.Name, i.Category, i.Unit, i.Supplier,
			i.CurrentQty, i.MinQty, i.StorageAddress, i.LastMovementDate, stockSituation(i),
		})
	}
	return sh
}

func movementsSheet(movements []models.Movement) sheet {
	sh := sheet{
		name:   SheetMovements,
		header: []any{"ID", "Tipo", "Data", "Hora", "Código", "Item", "Quantidade", "Unidade", "Responsável", "Setor", "Nota Fiscal", "Fornecedor", "Observação"},
		widths: []float64{18, 8, 11, 7, 10, 30, 11, 10, 18, 16, 12, 18, 30},
	}
	for _, m := range movements {
		sh.rows = append(sh.rows, []any{
			m.ID, m.Kind.Label(), m.Date, m.Time, m.ItemCode, m.ItemName, m.Quantity, m.Unit,
			m.Responsible, m.Sector, m.InvoiceNumber, m.Supplier, m.Note,
		})
	}
	return sh
}

func pumpsSheet(pumps []models.Pump) sheet {
	sh := sheet{
		name:   SheetPumps,
		header: []any{"ID", "Nº Série", "Fabricante", "Modelo", "Potência", "Vazão", "Situação", "Local", "Endereço", "Responsável", "Instalação", "Horas", "Próx. Manutenção"},
		widths: []float64{8, 18, 14, 22, 9, 11, 14, 30, 15, 18, 11, 9, 16},
	}
	for _, p := range pumps {
		d, _ := models.DeploymentOf(p.State)
		sh.rows = append(sh.rows, []any{
			p.ID, p.SerialNumber, p.Manufacturer, p.Model, p.Power, p.Capacity, p.Status().Label(),
			p.Location, p.StorageAddress(), d.Responsible, d.InstallDate, p.HoursUsed, p.NextMaintenance,
		})
	}
	return sh
}

func alertsSheet(alerts []models.Alert) sheet {
	sh := sheet{
		name:   SheetAlerts,
		header: []any{"ID", "Tipo", "Prioridade", "Situação", "Título", "Descrição", "Item", "Bomba", "Gerado em", "Responsável"},
		widths: []float64{22, 12, 10, 12, 32, 48, 8, 8, 17, 18},
	}
	for _, a := range alerts {
		sh.rows = append(sh.rows, []any{
			a.ID, a.Kind.Label(), a.Priority.Label(), a.Status.Label(), a.Title, a.Description,
			a.RelatedItemCode, a.RelatedPumpID, a.GeneratedAt, a.Responsible,
		})
	}
	return sh
}

func summarySheet(r *reports.Report) sheet {
	sum := r.Summary
	sh := sheet{
		name:   SheetSummary,
		header: []any{"Indicador", "Valor"},
		widths: []float64{34, 18},
		rows: [][]any{
			{"Gerado em", util.FormatStamp(r.GeneratedAt)},
			{"Itens cadastrados", sum.TotalItems},
			{"Quantidade em estoque", sum.TotalQuantity},
			{"Itens com estoque baixo", sum.LowStockItems},
			{"Itens sem estoque", sum.OutOfStockItems},
			{"Bombas", sum.TotalPumps},
			{"Bombas em operação", sum.OperatingPumps},
			{"Alertas pendentes", sum.PendingAlerts},
			{"Usuários ativos", sum.ActiveUsers},
			{fmt.Sprintf("Movimentações (%d dias)", r.WindowDays), sum.MovementsInWindow},
			{"Valor unitário estimado", r.UnitValue.InexactFloat64()},
			{"Valor total em estoque", sum.StockValue.InexactFloat64()},
		},
	}

	sh.rows = append(sh.rows, []any{}, []any{"Fornecedor", "Valor em estoque"})
	for _, sv := range r.StockBySupplier {
		sh.rows = append(sh.rows, []any{sv.Supplier, sv.Value.InexactFloat64()})
	}
	return sh
}

func stockSituation(i models.Item) string {
	switch {
	case i.IsOutOfStock():
		return "Sem estoque"
	case i.IsLowStock():
		return "Baixo"
	}
	return "Normal"
}
