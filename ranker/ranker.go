package ranker

import (
	"errors"
	"math"
	"sort"

	"case-management-tool/models"
)

var ErrNoData = errors.New("outcome table is empty")

// DefaultTopK bounds how many combinations a ranking returns unless the
// caller asks for more.
const (
	DefaultTopK = 3
	MaxTopK     = 20
)

// Recommendation is one ranked intervention combination.
type Recommendation struct {
	Interventions []string `json:"interventions"`
	Mask          uint8    `json:"-"`
	PredictedRate float64  `json:"predicted_success_rate"`
	Delta         float64  `json:"improvement"`
}

// Result carries the baseline alongside the ranked combinations so callers
// can show "current estimate vs. with interventions".
type Result struct {
	Baseline        float64          `json:"baseline_success_rate"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Scorer predicts a success rate for an attribute vector under a given
// intervention combination. ok is false when the table has nothing usable
// for that combination; such combinations are excluded from rankings rather
// than defaulted, so a sparse table cannot fabricate improvements.
type Scorer interface {
	Score(table *Table, attrs []float64, mask uint8) (rate float64, ok bool)
}

// Rank enumerates every combination of the available interventions (the full
// power set of the fixed flag set), scores each against the table, and
// returns the topK combinations by improvement over the baseline. The
// baseline is the score of the empty combination. Ordering is deterministic:
// ties break toward fewer interventions, then lower bitmask.
func Rank(table *Table, scorer Scorer, attrs []float64, topK int) (*Result, error) {
	if table.Size() == 0 {
		return nil, ErrNoData
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	baseline, ok := scorer.Score(table, attrs, 0)
	if !ok {
		baseline = 0
	}

	candidates := make([]Recommendation, 0, 1<<models.NumInterventions)
	for mask := uint8(1); ; mask++ {
		if rate, ok := scorer.Score(table, attrs, mask); ok {
			candidates = append(candidates, Recommendation{
				Interventions: models.InterventionNames(mask),
				Mask:          mask,
				PredictedRate: rate,
				Delta:         rate - baseline,
			})
		}
		if mask == 1<<models.NumInterventions-1 {
			break
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Delta != b.Delta {
			return a.Delta > b.Delta
		}
		if na, nb := popcount(a.Mask), popcount(b.Mask); na != nb {
			return na < nb
		}
		return a.Mask < b.Mask
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	return &Result{Baseline: baseline, Recommendations: candidates}, nil
}

func popcount(mask uint8) int {
	n := 0
	for mask != 0 {
		n += int(mask & 1)
		mask >>= 1
	}
	return n
}

func l1Distance(a, b []float64) float64 {
	var d float64
	for i := range a {
		d += math.Abs(a[i] - b[i])
	}
	return d
}

// nearestRows returns up to k rows for the mask ordered by L1 distance to
// attrs. Equidistant rows keep their table order, which is stable for a
// given import.
func nearestRows(table *Table, attrs []float64, mask uint8, k int) []Row {
	rows := table.RowsFor(mask)
	if len(rows) == 0 {
		return nil
	}

	type scored struct {
		row  Row
		dist float64
		idx  int
	}
	all := make([]scored, len(rows))
	for i, row := range rows {
		all[i] = scored{row: row, dist: l1Distance(attrs, row.Attrs), idx: i}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		return all[i].idx < all[j].idx
	})

	if k > len(all) {
		k = len(all)
	}
	out := make([]Row, k)
	for i := 0; i < k; i++ {
		out[i] = all[i].row
	}
	return out
}
