package dataset

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/SashaGoldin/ml-experiments/internal/experiment"
)

// #region normalize
// Normalize z-scores every numeric column: (value - mean) / stddev. Text
// columns pass through unchanged. Constant columns map to zero rather than
// dividing by a zero deviation.
func Normalize(t *Table) *Table {
	out := &Table{
		order:   append([]string(nil), t.order...),
		numeric: make(map[string][]float64, len(t.numeric)),
		text:    make(map[string][]string, len(t.text)),
		rows:    t.rows,
	}
	for name, col := range t.numeric {
		mean := stat.Mean(col, nil)
		std := stat.StdDev(col, nil)
		norm := make([]float64, len(col))
		if std > 0 && !math.IsNaN(std) {
			for i, v := range col {
				norm[i] = (v - mean) / std
			}
		}
		out.numeric[name] = norm
	}
	for name, col := range t.text {
		out.text[name] = append([]string(nil), col...)
	}
	return out
}

// #endregion normalize

// #region shuffle
// Shuffle returns a copy of the table with rows in a seeded random order.
// The same seed always yields the same order.
func Shuffle(t *Table, seed int64) *Table {
	indices := make([]int, t.rows)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return t.subset(indices)
}

// #endregion shuffle

// #region split
// Split partitions the table's rows into len(fractions)+1 consecutive
// tables; the final part takes whatever the fractions leave over. For the
// standard train/validation/test split, pass 0.8, 0.1.
func Split(t *Table, fractions ...float64) []*Table {
	parts := make([]*Table, 0, len(fractions)+1)
	start := 0
	for _, frac := range fractions {
		size := int(math.Round(float64(t.rows) * frac))
		end := start + size
		if end > t.rows {
			end = t.rows
		}
		parts = append(parts, t.subset(rowRange(start, end)))
		start = end
	}
	parts = append(parts, t.subset(rowRange(start, t.rows)))
	return parts
}

func rowRange(start, end int) []int {
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return indices
}

// #endregion split

// #region binary-labels
// BinaryLabels derives a 0/1 label vector from a text column: 1 where the
// cell equals positiveClass, 0 elsewhere.
func BinaryLabels(t *Table, column, positiveClass string) ([]float64, error) {
	col, err := t.Text(column)
	if err != nil {
		return nil, err
	}
	labels := make([]float64, len(col))
	for i, v := range col {
		if v == positiveClass {
			labels[i] = 1
		}
	}
	return labels, nil
}

// NumericLabels reads an existing 0/1 numeric column as a label vector,
// rejecting values other than 0 and 1.
func NumericLabels(t *Table, column string) ([]float64, error) {
	col, err := t.Numeric(column)
	if err != nil {
		return nil, err
	}
	labels := make([]float64, len(col))
	for i, v := range col {
		if v != 0 && v != 1 {
			return nil, &experiment.DataError{Column: column, Reason: "holds a non-binary label"}
		}
		labels[i] = v
	}
	return labels, nil
}

// #endregion binary-labels
