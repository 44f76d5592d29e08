package ranker

import (
	"sync"

	"case-management-tool/models"
)

// Row is one outcome observation: an attribute vector plus the success rate
// seen for a given intervention combination.
type Row struct {
	Attrs []float64
	Rate  float64
}

// Table is an immutable in-memory view of the outcome dataset, with rows
// bucketed by intervention bitmask so a lookup only scans rows carrying the
// combination it is scoring. Build a new Table and swap it through a Store;
// never mutate one in place.
type Table struct {
	byMask map[uint8][]Row
	size   int
}

func BuildTable(rows []models.InterventionOutcome) *Table {
	t := &Table{byMask: make(map[uint8][]Row)}
	for i := range rows {
		r := &rows[i]
		t.byMask[r.Interventions] = append(t.byMask[r.Interventions], Row{
			Attrs: r.AttributeVector(),
			Rate:  r.SuccessRate,
		})
		t.size++
	}
	return t
}

func (t *Table) Size() int { return t.size }

// RowsFor returns the rows carrying exactly the given intervention bitmask.
func (t *Table) RowsFor(mask uint8) []Row {
	return t.byMask[mask]
}

// Store hands out the current Table and lets bulk imports swap in a new one
// atomically. The version counter changes with every swap so cached ranking
// results keyed on it go stale immediately.
type Store struct {
	mu      sync.RWMutex
	table   *Table
	version uint64
}

func NewStore(table *Table) *Store {
	if table == nil {
		table = BuildTable(nil)
	}
	return &Store{table: table, version: 1}
}

func (s *Store) Current() (*Table, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table, s.version
}

func (s *Store) Swap(table *Table) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = table
	s.version++
	return s.version
}
