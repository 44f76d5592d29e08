package ranker

// ExactScorer only accepts rows whose attribute vector matches the client
// exactly. Useful for auditing the dataset; too strict for sparse tables.
type ExactScorer struct{}

func (ExactScorer) Score(table *Table, attrs []float64, mask uint8) (float64, bool) {
	for _, row := range table.RowsFor(mask) {
		if l1Distance(attrs, row.Attrs) == 0 {
			return row.Rate, true
		}
	}
	return 0, false
}

// NearestScorer takes an exact match when one exists and otherwise falls back
// to the closest row (L1 distance) carrying the same intervention
// combination. Combinations with no rows at all stay unscoreable.
type NearestScorer struct{}

func (NearestScorer) Score(table *Table, attrs []float64, mask uint8) (float64, bool) {
	rows := nearestRows(table, attrs, mask, 1)
	if len(rows) == 0 {
		return 0, false
	}
	return rows[0].Rate, true
}

// BlendedScorer averages the K nearest rows for the combination, smoothing
// out single-row outliers in the dataset.
type BlendedScorer struct {
	K int
}

func (s BlendedScorer) Score(table *Table, attrs []float64, mask uint8) (float64, bool) {
	k := s.K
	if k <= 0 {
		k = 3
	}
	rows := nearestRows(table, attrs, mask, k)
	if len(rows) == 0 {
		return 0, false
	}
	var sum float64
	for _, row := range rows {
		sum += row.Rate
	}
	return sum / float64(len(rows)), true
}
