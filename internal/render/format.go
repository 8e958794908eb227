package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/AngelCh415/funnel-report/internal/models"
)

var summaryHeader = []string{"Region", "Total leads", "Valid rate", "Lead cost", "Valid lead cost", "Client cost", "Visit cost", "Deal cost"}

func SummaryCells(r models.SummaryRow) []string {
	return []string{
		r.Region,
		strconv.Itoa(r.TotalLeads),
		Rate(r.ValidRate),
		r.LeadCost.Format(),
		r.ValidLeadCost.Format(),
		r.ClientCost.Format(),
		r.VisitCost.Format(),
		r.DealCost.Format(),
	}
}

func Rate(v float64) string { return fmt.Sprintf("%.1f%%", v) }

// etiqueta de conversión; la primera etapa es la base
func Conversion(j int, rate float64) string {
	if j == 0 {
		return "(base)"
	}
	return "(" + Rate(rate) + ")"
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
