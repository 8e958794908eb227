package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/funnel-report/internal/models"
)

func seed() models.Dataset {
	return models.Dataset{
		Stages:      models.DefaultStageLabels(),
		CostPerLead: 320,
		Regions: []models.Region{
			{Name: "A", Counts: models.StageCounts{21, 19, 17, 8, 4, 0}, Reasons: models.ReasonCounts{{Label: "r1", Count: 6}}},
			{Name: "B", Counts: models.StageCounts{30, 25, 20, 11, 0, 0}},
		},
	}
}

func TestGetReturnsCopy(t *testing.T) {
	st := NewMemoryStore(seed())

	snap := st.Get()
	snap.Dataset.Regions[0].Counts[0] = 999
	snap.Dataset.Regions[0].Reasons[0].Count = 999

	again := st.Get()
	assert.Equal(t, 21, again.Dataset.Regions[0].Counts[0])
	assert.Equal(t, 6, again.Dataset.Regions[0].Reasons[0].Count)
	assert.Zero(t, again.Revision)
}

func TestUpdateRegion(t *testing.T) {
	st := NewMemoryStore(seed())

	counts := models.StageCounts{1, 1, 1, 1, 1, 1}
	snap, err := st.UpdateRegion("B", &counts, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Revision)
	assert.Equal(t, counts, snap.Dataset.Regions[1].Counts)

	snap, err = st.UpdateRegion("A", nil, models.ReasonCounts{{Label: "x", Count: 2}})
	require.NoError(t, err)
	assert.Equal(t, models.StageCounts{21, 19, 17, 8, 4, 0}, snap.Dataset.Regions[0].Counts)
	assert.Equal(t, "x", snap.Dataset.Regions[0].Reasons[0].Label)

	_, err = st.UpdateRegion("nope", &counts, nil)
	assert.True(t, errors.Is(err, ErrUnknownRegion))
}

func TestResetRestoresDefaults(t *testing.T) {
	st := NewMemoryStore(seed())
	st.SetCostPerLead(10)
	st.Replace(models.Dataset{CostPerLead: 1})

	snap := st.Reset()
	assert.Equal(t, 320.0, snap.Dataset.CostPerLead)
	assert.Len(t, snap.Dataset.Regions, 2)
	assert.Equal(t, uint64(3), snap.Revision)
}

func TestSubset(t *testing.T) {
	st := NewMemoryStore(seed())
	ds, err := st.Subset("B")
	require.NoError(t, err)
	require.Len(t, ds.Regions, 1)
	assert.Equal(t, "B", ds.Regions[0].Name)
	assert.Equal(t, 320.0, ds.CostPerLead)
	assert.Equal(t, models.DefaultStageLabels(), ds.Stages)

	_, err = st.Subset("Z")
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestConcurrentAccess(t *testing.T) {
	st := NewMemoryStore(seed())
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			st.SetCostPerLead(float64(i))
		}(i)
		go func() {
			defer wg.Done()
			_ = st.Get()
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(20), st.Get().Revision)
}
