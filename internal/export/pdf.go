package export

import (
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/saae/almox/internal/reports"
	"github.com/saae/almox/internal/util"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 30}
)

// PDFMeta carries what the report page prints besides the aggregations.
type PDFMeta struct {
	Warehouse     string
	Author        string
	Replenishment []reports.Suggestion
}

// column describes one table column: its header, width on the 12-grid
// and alignment.
type column struct {
	title string
	size  int
	align align.Type
}

// RenderPDF lays out r as an A4 report and returns the document bytes.
func RenderPDF(r *reports.Report, meta PDFMeta) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório do Almoxarifado", true).
		WithAuthor(meta.Author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r, meta.Warehouse))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionRow("RESUMO"))
	m.AddRows(summaryRows(r)...)

	m.AddRows(sectionRow("ESTOQUE POR CATEGORIA"))
	m.AddRows(table(
		[]column{{"Categoria", 6, align.Left}, {"Itens", 3, align.Right}, {"Quantidade", 3, align.Right}},
		categoryCells(r.ItemsByCategory),
	)...)

	m.AddRows(sectionRow("VALOR EM ESTOQUE POR FORNECEDOR"))
	m.AddRows(table(
		[]column{{"Fornecedor", 6, align.Left}, {"Quantidade", 3, align.Right}, {"Valor", 3, align.Right}},
		supplierCells(r.StockBySupplier),
	)...)

	m.AddRows(sectionRow("SUGESTÃO DE REPOSIÇÃO"))
	if len(meta.Replenishment) == 0 {
		m.AddRows(noteRow("Nenhum item abaixo do estoque mínimo."))
	} else {
		m.AddRows(table(
			[]column{
				{"Código", 2, align.Left}, {"Item", 4, align.Left}, {"Atual", 1, align.Right},
				{"Mínimo", 1, align.Right}, {"Sugerido", 2, align.Right}, {"Valor", 2, align.Right},
			},
			replenishmentCells(meta.Replenishment),
		)...)
		m.AddRows(totalRow("Total estimado:", BRL(reports.TotalValue(meta.Replenishment))))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(noteRow(fmt.Sprintf("Valores estimados a %s por unidade. Movimentações consideradas: últimos %d dias.",
		BRL(r.UnitValue), r.WindowDays)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r *reports.Report, warehouse string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(warehouse, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Relatório do Almoxarifado", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Gerado em", props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(util.FormatStamp(r.GeneratedAt), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
		),
	)
}

func sectionRow(title string) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 4,
		}),
	))
}

func noteRow(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(s, props.Text{Size: 7.5, Color: colorGray, Top: 1}),
	))
}

func summaryRows(r *reports.Report) []core.Row {
	sum := r.Summary
	pairs := [][2]string{
		{"Itens cadastrados", strconv.Itoa(sum.TotalItems)},
		{"Quantidade em estoque", strconv.Itoa(sum.TotalQuantity)},
		{"Itens com estoque baixo", strconv.Itoa(sum.LowStockItems)},
		{"Itens sem estoque", strconv.Itoa(sum.OutOfStockItems)},
		{"Bombas em operação", fmt.Sprintf("%d de %d", sum.OperatingPumps, sum.TotalPumps)},
		{"Alertas pendentes", strconv.Itoa(sum.PendingAlerts)},
		{"Usuários ativos", strconv.Itoa(sum.ActiveUsers)},
		{"Valor total em estoque", BRL(sum.StockValue)},
	}

	rows := make([]core.Row, 0, (len(pairs)+1)/2)
	for i := 0; i < len(pairs); i += 2 {
		cols := summaryCols(pairs[i])
		if i+1 < len(pairs) {
			cols = append(cols, summaryCols(pairs[i+1])...)
		}
		rows = append(rows, row.New(6).Add(cols...))
	}
	return rows
}

func summaryCols(p [2]string) []core.Col {
	valueProps := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Right: 4}
	if p[0] == "Itens com estoque baixo" && p[1] != "0" {
		valueProps.Color = colorAlert
	}
	return []core.Col{
		col.New(4).Add(text.New(p[0], props.Text{Size: 9, Top: 1})),
		col.New(2).Add(text.New(p[1], valueProps)),
	}
}

// table renders a header row followed by one row per cell slice.
func table(cols []column, cells [][]string) []core.Row {
	header := make([]core.Col, len(cols))
	for i, c := range cols {
		header[i] = col.New(c.size).Add(text.New(c.title, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}

	rows := []core.Row{
		row.New(6).Add(header...),
		line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}),
	}
	for _, values := range cells {
		body := make([]core.Col, len(cols))
		for i, c := range cols {
			body[i] = col.New(c.size).Add(text.New(values[i], props.Text{
				Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
			}))
		}
		rows = append(rows, row.New(5).Add(body...))
	}
	return rows
}

func totalRow(label, value string) core.Row {
	return row.New(7).Add(
		col.New(8),
		col.New(2).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
		})),
		col.New(2).Add(text.New(value, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func categoryCells(totals []reports.CategoryTotal) [][]string {
	out := make([][]string, 0, len(totals))
	for _, t := range totals {
		out = append(out, []string{t.Category, strconv.Itoa(t.Items), strconv.Itoa(t.Quantity)})
	}
	return out
}

func supplierCells(values []reports.SupplierValue) [][]string {
	out := make([][]string, 0, len(values))
	for _, v := range values {
		out = append(out, []string{v.Supplier, strconv.Itoa(v.Quantity), BRL(v.Value)})
	}
	return out
}

func replenishmentCells(suggestions []reports.Suggestion) [][]string {
	out := make([][]string, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, []string{
			s.Code, s.Name, strconv.Itoa(s.Current), strconv.Itoa(s.Minimum),
			fmt.Sprintf("%d %s", s.Suggested, s.Unit), BRL(s.Value),
		})
	}
	return out
}

// BRL formats d as Brazilian reais, e.g. R$ 24.100,00.
func BRL(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
