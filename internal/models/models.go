package models

import (
	"encoding/json"
	"strconv"
)

// Posiciones fijas del embudo. Las etiquetas son configurables, el orden no.
const (
	StageLeads = iota
	StageContacted
	StageValid
	StageClients
	StageVisits
	StageDeals
	NumStages
)

// un conteo por etapa, en orden de etapa
type StageCounts [NumStages]int

type StageLabels [NumStages]string

func DefaultStageLabels() StageLabels {
	return StageLabels{"leads", "contacted", "valid", "clients", "visits", "deals"}
}

type ReasonCount struct {
	Label string `json:"label" mapstructure:"label"`
	Count int    `json:"count" mapstructure:"count"`
}

// mapeo ordenado etiqueta -> conteo; el orden es el de visualización
type ReasonCounts []ReasonCount

type Region struct {
	Name    string       `json:"name"`
	Counts  StageCounts  `json:"counts"`
	Reasons ReasonCounts `json:"reasons"`
}

type Dataset struct {
	Stages      StageLabels `json:"stages"`
	CostPerLead float64     `json:"cost_per_lead"`
	Regions     []Region    `json:"regions"`
}

// Clone no comparte slices con d
func (d Dataset) Clone() Dataset {
	out := d
	out.Regions = make([]Region, len(d.Regions))
	for i, r := range d.Regions {
		out.Regions[i] = r
		out.Regions[i].Reasons = append(ReasonCounts(nil), r.Reasons...)
	}
	return out
}

// UnitCost es un monto definido o indefinido (denominador cero).
// El valor cero es Undefined.
type UnitCost struct {
	amount  float64
	defined bool
}

func Defined(amount float64) UnitCost { return UnitCost{amount: amount, defined: true} }
func Undefined() UnitCost             { return UnitCost{} }

func (u UnitCost) IsDefined() bool { return u.defined }

func (u UnitCost) Amount() (float64, bool) { return u.amount, u.defined }

// Placeholder se muestra en lugar de un costo indefinido.
const Placeholder = `\`

// sin decimales, o Placeholder
func (u UnitCost) Format() string {
	if !u.defined {
		return Placeholder
	}
	return strconv.FormatFloat(u.amount, 'f', 0, 64)
}

func (u UnitCost) String() string { return u.Format() }

func (u UnitCost) MarshalJSON() ([]byte, error) {
	if !u.defined {
		return []byte("null"), nil
	}
	return json.Marshal(u.amount)
}

func (u *UnitCost) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*u = Undefined()
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*u = Defined(f)
	return nil
}

type SummaryRow struct {
	Region        string   `json:"region"`
	TotalLeads    int      `json:"total_leads"`
	TotalCost     float64  `json:"total_cost"`
	ValidRate     float64  `json:"valid_rate"`
	LeadCost      UnitCost `json:"lead_cost"`
	ValidLeadCost UnitCost `json:"valid_lead_cost"`
	ClientCost    UnitCost `json:"client_cost"`
	VisitCost     UnitCost `json:"visit_cost"`
	DealCost      UnitCost `json:"deal_cost"`
}

type FunnelStage struct {
	Stage          string  `json:"stage"`
	Count          int     `json:"count"`
	Offset         float64 `json:"offset"`
	ConversionRate float64 `json:"conversion_rate"`
}

type FunnelSeries struct {
	Region string        `json:"region"`
	Max    int           `json:"max"`
	Stages []FunnelStage `json:"stages"`
}

type StageCost struct {
	Stage string  `json:"stage"`
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

type CostSeries struct {
	Region    string      `json:"region"`
	TotalCost float64     `json:"total_cost"`
	Stages    []StageCost `json:"stages"`
	AxisBound float64     `json:"axis_bound"`
}

type ReasonSeries struct {
	Region    string        `json:"region"`
	Items     []ReasonCount `json:"items"`
	AxisBound int           `json:"axis_bound"`
}

// Totals suma etapas entre regiones.
type Totals struct {
	Leads   int `json:"leads"`
	Valid   int `json:"valid"`
	Clients int `json:"clients"`
	Visits  int `json:"visits"`
	Deals   int `json:"deals"`
}

type Report struct {
	Stages      StageLabels    `json:"stages"`
	CostPerLead float64        `json:"cost_per_lead"`
	Summary     []SummaryRow   `json:"summary"`
	Funnels     []FunnelSeries `json:"funnels"`
	Costs       []CostSeries   `json:"costs"`
	Reasons     []ReasonSeries `json:"reasons"`
	Totals      Totals         `json:"totals"`
}
