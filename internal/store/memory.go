package store

import (
	"errors"
	"sync"
	"time"

	"github.com/AngelCh415/funnel-report/internal/models"
)

var ErrUnknownRegion = errors.New("unknown region")

// MemoryStore guarda el snapshot de entrada de la sesión actual.
type MemoryStore struct {
	mu       sync.RWMutex
	defaults models.Dataset
	cur      models.Dataset
	rev      uint64
	updated  time.Time
}

func NewMemoryStore(defaults models.Dataset) *MemoryStore {
	return &MemoryStore{
		defaults: defaults.Clone(),
		cur:      defaults.Clone(),
		updated:  time.Now(),
	}
}

type Snapshot struct {
	Dataset   models.Dataset `json:"dataset"`
	Revision  uint64         `json:"revision"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Get devuelve una copia; el llamador puede mutarla sin afectar el store.
func (s *MemoryStore) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Dataset: s.cur.Clone(), Revision: s.rev, UpdatedAt: s.updated}
}

func (s *MemoryStore) Replace(ds models.Dataset) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = ds.Clone()
	return s.bump()
}

func (s *MemoryStore) SetCostPerLead(c float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.CostPerLead = c
	return s.bump()
}

// UpdateRegion reemplaza conteos y/o razones; nil deja el valor actual.
func (s *MemoryStore) UpdateRegion(name string, counts *models.StageCounts, reasons models.ReasonCounts) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(name)
	if i < 0 {
		return Snapshot{}, ErrUnknownRegion
	}
	if counts != nil {
		s.cur.Regions[i].Counts = *counts
	}
	if reasons != nil {
		s.cur.Regions[i].Reasons = append(models.ReasonCounts(nil), reasons...)
	}
	return s.bump(), nil
}

func (s *MemoryStore) Reset() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = s.defaults.Clone()
	return s.bump()
}

// Subset devuelve el dataset actual reducido a una sola región.
func (s *MemoryStore) Subset(name string) (models.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(name)
	if i < 0 {
		return models.Dataset{}, ErrUnknownRegion
	}
	out := s.cur
	out.Regions = []models.Region{s.cur.Regions[i]}
	return out.Clone(), nil
}

// requiere lock tomado
func (s *MemoryStore) indexOf(name string) int {
	for i, r := range s.cur.Regions {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// requiere lock de escritura
func (s *MemoryStore) bump() Snapshot {
	s.rev++
	s.updated = time.Now()
	return Snapshot{Dataset: s.cur.Clone(), Revision: s.rev, UpdatedAt: s.updated}
}
