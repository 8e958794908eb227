package config

import "github.com/AngelCh415/funnel-report/internal/models"

const DefaultCostPerLead = 320

// DefaultDataset es el despliegue de referencia: tres ciudades y su propia taxonomía de razones.
func DefaultDataset() models.Dataset {
	return models.Dataset{
		Stages:      models.DefaultStageLabels(),
		CostPerLead: DefaultCostPerLead,
		Regions: []models.Region{
			{
				Name:   "Conghua",
				Counts: models.StageCounts{21, 19, 17, 8, 4, 0},
				Reasons: models.ReasonCounts{
					{Label: "region mismatch", Count: 6},
					{Label: "unknown", Count: 3},
					{Label: "industry mismatch", Count: 3},
					{Label: "price too high", Count: 3},
				},
			},
			{
				Name:   "Zhongshan",
				Counts: models.StageCounts{30, 25, 20, 11, 0, 0},
				Reasons: models.ReasonCounts{
					{Label: "region mismatch", Count: 3},
					{Label: "unknown", Count: 2},
					{Label: "industry mismatch", Count: 2},
					{Label: "insufficient budget", Count: 2},
				},
			},
			{
				Name:   "Jiangmen",
				Counts: models.StageCounts{6, 6, 5, 5, 1, 0},
				Reasons: models.ReasonCounts{
					{Label: "in follow-up", Count: 1},
					{Label: "region mismatch", Count: 1},
					{Label: "unknown", Count: 2},
				},
			},
		},
	}
}
