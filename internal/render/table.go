package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/AngelCh415/funnel-report/internal/models"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginTop(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func SummaryTable(rep models.Report) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(summaryHeader...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rep.Summary {
		t.Row(SummaryCells(r)...)
	}
	return t.String()
}

// Text arma el reporte completo para terminal.
func Text(rep models.Report) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(SummaryTable(rep))
	b.WriteString("\n")
	t := rep.Totals
	b.WriteString(subtleStyle.Render(fmt.Sprintf("cost per lead %.0f | totals: leads %d, valid %d, clients %d, visits %d, deals %d",
		rep.CostPerLead, t.Leads, t.Valid, t.Clients, t.Visits, t.Deals)))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Cost per stage"))
	b.WriteString("\n")
	for _, cs := range rep.Costs {
		parts := make([]string, 0, len(cs.Stages))
		for _, st := range cs.Stages {
			parts = append(parts, fmt.Sprintf("%s(%d) %.0f", st.Stage, st.Count, st.Cost))
		}
		fmt.Fprintf(&b, "%s: %s\n", cs.Region, strings.Join(parts, ", "))
	}

	b.WriteString(titleStyle.Render("Funnel"))
	b.WriteString("\n")
	for _, fs := range rep.Funnels {
		parts := make([]string, 0, len(fs.Stages))
		for j, st := range fs.Stages {
			parts = append(parts, st.Stage+" "+strconv.Itoa(st.Count)+" "+Conversion(j, st.ConversionRate))
		}
		fmt.Fprintf(&b, "%s: %s\n", fs.Region, strings.Join(parts, " > "))
	}

	b.WriteString(titleStyle.Render("Not converted"))
	b.WriteString("\n")
	for _, rs := range rep.Reasons {
		parts := make([]string, 0, len(rs.Items))
		for _, it := range rs.Items {
			parts = append(parts, fmt.Sprintf("%s %d", it.Label, it.Count))
		}
		fmt.Fprintf(&b, "%s: %s\n", rs.Region, strings.Join(parts, ", "))
	}
	return b.String()
}
