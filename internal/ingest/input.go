package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/AngelCh415/funnel-report/internal/models"
)

type ReasonInput struct {
	Label string `json:"label" mapstructure:"label" validate:"required"`
	Count int    `json:"count" mapstructure:"count" validate:"min=0"`
}

type RegionInput struct {
	Name    string        `json:"name" mapstructure:"name" validate:"required"`
	Counts  []int         `json:"counts" mapstructure:"counts" validate:"len=6,dive,min=0"`
	Reasons []ReasonInput `json:"reasons" mapstructure:"reasons" validate:"unique=Label,dive"`
}

type DatasetInput struct {
	Stages      []string      `json:"stages" mapstructure:"stages" validate:"omitempty,len=6"`
	CostPerLead *float64      `json:"cost_per_lead" mapstructure:"cost_per_lead" validate:"omitempty,min=0"`
	Regions     []RegionInput `json:"regions" mapstructure:"regions" validate:"required,min=1,unique=Name,dive"`
}

type RegionUpdate struct {
	Counts  []int         `json:"counts" validate:"omitempty,len=6,dive,min=0"`
	Reasons []ReasonInput `json:"reasons" validate:"omitempty,unique=Label,dive"`
}

type CostInput struct {
	CostPerLead *float64 `json:"cost_per_lead" validate:"required,min=0"`
}

// ToDataset normaliza y valida; etiquetas y costo faltantes salen de defaults.
func (in DatasetInput) ToDataset(defaults models.Dataset) (models.Dataset, error) {
	in.normalize()
	if err := Validate(in); err != nil {
		return models.Dataset{}, err
	}
	ds := models.Dataset{
		Stages:      defaults.Stages,
		CostPerLead: defaults.CostPerLead,
		Regions:     make([]models.Region, 0, len(in.Regions)),
	}
	for i, s := range in.Stages {
		ds.Stages[i] = coalesce(s, defaults.Stages[i])
	}
	if in.CostPerLead != nil {
		ds.CostPerLead = *in.CostPerLead
	}
	for _, r := range in.Regions {
		ds.Regions = append(ds.Regions, models.Region{
			Name:    r.Name,
			Counts:  toCounts(r.Counts),
			Reasons: toReasons(r.Reasons),
		})
	}
	return ds, nil
}

func (in *DatasetInput) normalize() {
	for i := range in.Regions {
		in.Regions[i].Name = strings.TrimSpace(in.Regions[i].Name)
		trimLabels(in.Regions[i].Reasons)
	}
}

func DecodeDataset(r io.Reader, defaults models.Dataset) (models.Dataset, error) {
	var in DatasetInput
	if err := decode(r, &in); err != nil {
		return models.Dataset{}, err
	}
	return in.ToDataset(defaults)
}

// DecodeRegionUpdate devuelve nil para lo que no vino en el cuerpo.
func DecodeRegionUpdate(r io.Reader) (*models.StageCounts, models.ReasonCounts, error) {
	var in RegionUpdate
	if err := decode(r, &in); err != nil {
		return nil, nil, err
	}
	trimLabels(in.Reasons)
	if in.Counts == nil && in.Reasons == nil {
		return nil, nil, fmt.Errorf("%w: counts or reasons is required", ErrInvalid)
	}
	if err := Validate(in); err != nil {
		return nil, nil, err
	}
	var counts *models.StageCounts
	if in.Counts != nil {
		c := toCounts(in.Counts)
		counts = &c
	}
	var reasons models.ReasonCounts
	if in.Reasons != nil {
		reasons = toReasons(in.Reasons)
	}
	return counts, reasons, nil
}

func DecodeCost(r io.Reader) (float64, error) {
	var in CostInput
	if err := decode(r, &in); err != nil {
		return 0, err
	}
	if err := Validate(in); err != nil {
		return 0, err
	}
	return *in.CostPerLead, nil
}

func decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body: %v", ErrInvalid, err)
	}
	return nil
}

func toCounts(v []int) models.StageCounts {
	var c models.StageCounts
	copy(c[:], v)
	return c
}

// siempre no-nil: una lista vacía es una entrada válida
func toReasons(in []ReasonInput) models.ReasonCounts {
	out := make(models.ReasonCounts, 0, len(in))
	for _, r := range in {
		out = append(out, models.ReasonCount{Label: r.Label, Count: r.Count})
	}
	return out
}

func trimLabels(rs []ReasonInput) {
	for i := range rs {
		rs[i].Label = strings.TrimSpace(rs[i].Label)
	}
}

func coalesce(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}
