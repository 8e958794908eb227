package render

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/AngelCh415/funnel-report/internal/models"
)

const (
	SheetSummary = "Summary"
	SheetFunnel  = "Funnel"
	SheetCosts   = "Costs"
	SheetReasons = "Reasons"
)

// Workbook escribe el reporte como XLSX: una hoja por tabla y un gráfico de costos unitarios.
func Workbook(w io.Writer, rep models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetSummary)
	for _, name := range []string{SheetFunnel, SheetCosts, SheetReasons} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	if err := writeRows(f, SheetSummary, summaryRows(rep)); err != nil {
		return err
	}
	if err := writeRows(f, SheetFunnel, funnelRows(rep)); err != nil {
		return err
	}
	if err := writeRows(f, SheetCosts, costRows(rep)); err != nil {
		return err
	}
	if err := writeRows(f, SheetReasons, reasonRows(rep)); err != nil {
		return err
	}
	if err := addUnitCostChart(f, len(rep.Summary)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func summaryRows(rep models.Report) [][]any {
	rows := [][]any{toAny(summaryHeader)}
	for _, r := range rep.Summary {
		rows = append(rows, []any{
			r.Region, r.TotalLeads, round2(r.ValidRate),
			costCell(r.LeadCost), costCell(r.ValidLeadCost), costCell(r.ClientCost),
			costCell(r.VisitCost), costCell(r.DealCost),
		})
	}
	t := rep.Totals
	rows = append(rows,
		[]any{},
		[]any{"Totals", "Leads", "Valid", "Clients", "Visits", "Deals"},
		[]any{"", t.Leads, t.Valid, t.Clients, t.Visits, t.Deals},
		[]any{"Cost per lead", rep.CostPerLead},
	)
	return rows
}

func funnelRows(rep models.Report) [][]any {
	rows := [][]any{{"Region", "Stage", "Count", "Offset", "Conversion %"}}
	for _, fs := range rep.Funnels {
		for _, st := range fs.Stages {
			rows = append(rows, []any{fs.Region, st.Stage, st.Count, st.Offset, round2(st.ConversionRate)})
		}
	}
	return rows
}

func costRows(rep models.Report) [][]any {
	rows := [][]any{{"Region", "Stage", "Count", "Unit cost"}}
	for _, cs := range rep.Costs {
		for _, st := range cs.Stages {
			rows = append(rows, []any{cs.Region, st.Stage, st.Count, round2(st.Cost)})
		}
	}
	return rows
}

func reasonRows(rep models.Report) [][]any {
	rows := [][]any{{"Region", "Reason", "Count"}}
	for _, rs := range rep.Reasons {
		for _, it := range rs.Items {
			rows = append(rows, []any{rs.Region, it.Label, it.Count})
		}
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// una serie por columna de costo unitario (D..H del resumen), categorías = regiones.
// Excel grafica el placeholder de costo indefinido como cero.
func addUnitCostChart(f *excelize.File, regions int) error {
	if regions == 0 {
		return nil
	}
	last := regions + 1
	var series []excelize.ChartSeries
	for _, col := range []string{"D", "E", "F", "G", "H"} {
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", SheetSummary, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetSummary, last),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetSummary, col, col, last),
		})
	}
	return f.AddChart(SheetSummary, "J2", &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: "Unit costs"}},
	})
}

func costCell(u models.UnitCost) any {
	if v, ok := u.Amount(); ok {
		return round2(v)
	}
	return models.Placeholder
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
