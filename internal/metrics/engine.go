package metrics

import (
	"log/slog"

	"github.com/AngelCh415/funnel-report/internal/models"
)

// Observer recibe un aviso por cada reporte construido.
type Observer interface {
	ReportBuilt(regions int)
}

type Engine struct {
	log *slog.Logger
	obs Observer
}

func NewEngine(log *slog.Logger, obs Observer) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{log: log, obs: obs}
}

// Report recalcula todo a partir del snapshot; no guarda estado entre llamadas.
func (e *Engine) Report(ds models.Dataset) models.Report {
	rep := models.Report{
		Stages:      ds.Stages,
		CostPerLead: ds.CostPerLead,
		Summary:     make([]models.SummaryRow, 0, len(ds.Regions)),
		Funnels:     make([]models.FunnelSeries, 0, len(ds.Regions)),
		Costs:       make([]models.CostSeries, 0, len(ds.Regions)),
		Reasons:     make([]models.ReasonSeries, 0, len(ds.Regions)),
		Totals:      SumTotals(ds.Regions),
	}
	for _, r := range ds.Regions {
		rep.Summary = append(rep.Summary, Summary(r.Name, r.Counts, ds.CostPerLead))
		rep.Funnels = append(rep.Funnels, Funnel(r.Name, r.Counts, ds.Stages))
		rep.Costs = append(rep.Costs, StageCosts(r.Name, r.Counts, ds.CostPerLead, ds.Stages))
		rep.Reasons = append(rep.Reasons, Reasons(r.Name, r.Reasons))
	}
	e.log.Debug("report built", slog.Int("regions", len(ds.Regions)), slog.Float64("cost_per_lead", ds.CostPerLead))
	if e.obs != nil {
		e.obs.ReportBuilt(len(ds.Regions))
	}
	return rep
}

func Summary(region string, c models.StageCounts, costPerLead float64) models.SummaryRow {
	leads := c[models.StageLeads]
	total := float64(leads) * costPerLead
	row := models.SummaryRow{
		Region:     region,
		TotalLeads: leads,
		TotalCost:  total,
	}
	// sin leads no hay costo unitario con sentido: todo queda indefinido
	if leads <= 0 {
		return row
	}
	row.ValidRate = pct(c[models.StageValid], leads)
	row.LeadCost = models.Defined(costPerLead)
	row.ValidLeadCost = unitCost(total, c[models.StageValid])
	row.ClientCost = unitCost(total, c[models.StageClients])
	row.VisitCost = unitCost(total, c[models.StageVisits])
	row.DealCost = unitCost(total, c[models.StageDeals])
	return row
}

func Funnel(region string, c models.StageCounts, labels models.StageLabels) models.FunnelSeries {
	maxV := c[0]
	for _, v := range c[1:] {
		if v > maxV {
			maxV = v
		}
	}
	out := models.FunnelSeries{Region: region, Max: maxV, Stages: make([]models.FunnelStage, models.NumStages)}
	for j, v := range c {
		rate := 100.0 // base
		if j > 0 {
			rate = 0
			if v > 0 && c[j-1] > 0 {
				rate = pct(v, c[j-1])
			}
		}
		out.Stages[j] = models.FunnelStage{
			Stage:          labels[j],
			Count:          v,
			Offset:         float64(maxV-v) / 2,
			ConversionRate: rate,
		}
	}
	return out
}

// StageCosts da el costo por persona en cada etapa con conteo positivo.
func StageCosts(region string, c models.StageCounts, costPerLead float64, labels models.StageLabels) models.CostSeries {
	total := float64(c[models.StageLeads]) * costPerLead
	out := models.CostSeries{Region: region, TotalCost: total, Stages: []models.StageCost{}}
	maxCost := 0.0
	for j, v := range c {
		if v <= 0 {
			continue
		}
		cost := total / float64(v)
		if len(out.Stages) == 0 || cost > maxCost {
			maxCost = cost
		}
		out.Stages = append(out.Stages, models.StageCost{Stage: labels[j], Count: v, Cost: cost})
	}
	if len(out.Stages) > 0 {
		out.AxisBound = maxCost * 1.2
	}
	return out
}

func Reasons(region string, r models.ReasonCounts) models.ReasonSeries {
	items := make([]models.ReasonCount, len(r))
	copy(items, r)
	maxC := 0
	for i, it := range items {
		if i == 0 || it.Count > maxC {
			maxC = it.Count
		}
	}
	return models.ReasonSeries{Region: region, Items: items, AxisBound: maxC + 1}
}

func SumTotals(regions []models.Region) models.Totals {
	var t models.Totals
	for _, r := range regions {
		t.Leads += r.Counts[models.StageLeads]
		t.Valid += r.Counts[models.StageValid]
		t.Clients += r.Counts[models.StageClients]
		t.Visits += r.Counts[models.StageVisits]
		t.Deals += r.Counts[models.StageDeals]
	}
	return t
}

func unitCost(total float64, d int) models.UnitCost {
	if d <= 0 {
		return models.Undefined()
	}
	return models.Defined(total / float64(d))
}

func pct(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
