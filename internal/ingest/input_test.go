package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/funnel-report/internal/models"
)

func defaults() models.Dataset {
	return models.Dataset{Stages: models.DefaultStageLabels(), CostPerLead: 320}
}

func TestDecodeDataset(t *testing.T) {
	body := `{
		"regions": [
			{"name": " A ", "counts": [21,19,17,8,4,0], "reasons": [{"label":"r1","count":6},{"label":" r2 ","count":3}]},
			{"name": "C", "counts": [6,6,5,5,1,0]}
		]
	}`
	ds, err := DecodeDataset(strings.NewReader(body), defaults())
	require.NoError(t, err)

	assert.Equal(t, 320.0, ds.CostPerLead)
	assert.Equal(t, models.DefaultStageLabels(), ds.Stages)
	require.Len(t, ds.Regions, 2)
	assert.Equal(t, "A", ds.Regions[0].Name)
	assert.Equal(t, models.StageCounts{21, 19, 17, 8, 4, 0}, ds.Regions[0].Counts)
	assert.Equal(t, models.ReasonCounts{{Label: "r1", Count: 6}, {Label: "r2", Count: 3}}, ds.Regions[0].Reasons)
	assert.NotNil(t, ds.Regions[1].Reasons)
	assert.Empty(t, ds.Regions[1].Reasons)
}

func TestDecodeDatasetOverrides(t *testing.T) {
	body := `{"cost_per_lead": 100, "stages": ["L","","V","C","Vi","D"], "regions": [{"name":"A","counts":[1,1,1,1,1,1]}]}`
	ds, err := DecodeDataset(strings.NewReader(body), defaults())
	require.NoError(t, err)
	assert.Equal(t, 100.0, ds.CostPerLead)
	assert.Equal(t, models.StageLabels{"L", "contacted", "V", "C", "Vi", "D"}, ds.Stages)
}

func TestDecodeDatasetRejects(t *testing.T) {
	cases := map[string]struct {
		body string
		msg  string
	}{
		"negative count":   {`{"regions":[{"name":"A","counts":[1,-1,0,0,0,0]}]}`, "regions[0].counts[1] must be >= 0"},
		"short counts":     {`{"regions":[{"name":"A","counts":[1,2,3]}]}`, "regions[0].counts must have 6 items"},
		"missing name":     {`{"regions":[{"name":"  ","counts":[1,1,1,1,1,1]}]}`, "regions[0].name is required"},
		"no regions":       {`{"regions":[]}`, "regions"},
		"negative cost":    {`{"cost_per_lead":-1,"regions":[{"name":"A","counts":[1,1,1,1,1,1]}]}`, "cost_per_lead must be >= 0"},
		"duplicate region": {`{"regions":[{"name":"A","counts":[1,1,1,1,1,1]},{"name":"A","counts":[1,1,1,1,1,1]}]}`, "must not repeat name"},
		"duplicate label":  {`{"regions":[{"name":"A","counts":[1,1,1,1,1,1],"reasons":[{"label":"x","count":1},{"label":"x ","count":2}]}]}`, "must not repeat label"},
		"negative reason":  {`{"regions":[{"name":"A","counts":[1,1,1,1,1,1],"reasons":[{"label":"x","count":-2}]}]}`, "reasons[0].count must be >= 0"},
		"unknown field":    {`{"regions":[],"extra":1}`, "malformed body"},
		"not json":         {`nope`, "malformed body"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDataset(strings.NewReader(tc.body), defaults())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tc.msg)
			assert.True(t, strings.HasPrefix(err.Error(), "VALIDATION: "))
		})
	}
}

func TestDecodeRegionUpdate(t *testing.T) {
	counts, reasons, err := DecodeRegionUpdate(strings.NewReader(`{"counts":[5,4,3,2,1,0]}`))
	require.NoError(t, err)
	require.NotNil(t, counts)
	assert.Equal(t, models.StageCounts{5, 4, 3, 2, 1, 0}, *counts)
	assert.Nil(t, reasons)

	counts, reasons, err = DecodeRegionUpdate(strings.NewReader(`{"reasons":[]}`))
	require.NoError(t, err)
	assert.Nil(t, counts)
	assert.NotNil(t, reasons)

	_, _, err = DecodeRegionUpdate(strings.NewReader(`{}`))
	assert.ErrorIs(t, err, ErrInvalid)

	_, _, err = DecodeRegionUpdate(strings.NewReader(`{"counts":[1,2]}`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDecodeCost(t *testing.T) {
	c, err := DecodeCost(strings.NewReader(`{"cost_per_lead": 0}`))
	require.NoError(t, err)
	assert.Zero(t, c)

	_, err = DecodeCost(strings.NewReader(`{}`))
	assert.ErrorContains(t, err, "cost_per_lead is required")

	_, err = DecodeCost(strings.NewReader(`{"cost_per_lead": -5}`))
	assert.ErrorIs(t, err, ErrInvalid)
}
