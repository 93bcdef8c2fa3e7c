package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/SashaGoldin/ml-experiments/internal/experiment"
)

const sampleCSV = `Area,Perimeter,Class
100,40,Cammeo
80,35,Osmancik
120,45,Cammeo
90,38,Osmancik
`

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := FromCSV(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}
	return tbl
}

func TestFromCSVColumns(t *testing.T) {
	tbl := sampleTable(t)
	if tbl.NumRows() != 4 {
		t.Fatalf("expected 4 rows, got %d", tbl.NumRows())
	}

	area, err := tbl.Numeric("Area")
	if err != nil {
		t.Fatalf("Numeric: %v", err)
	}
	if area[0] != 100 || area[3] != 90 {
		t.Fatalf("unexpected Area column: %v", area)
	}

	class, err := tbl.Text("Class")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if class[1] != "Osmancik" {
		t.Fatalf("unexpected Class column: %v", class)
	}
}

func TestNumericMissingColumn(t *testing.T) {
	tbl := sampleTable(t)
	_, err := tbl.Numeric("Eccentricity")
	var dataErr *experiment.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError, got %v", err)
	}
}

func TestFromColumnsAlignment(t *testing.T) {
	_, err := FromColumns(map[string][]float64{
		"f1": {1, 2, 3},
		"f2": {1, 2},
	}, []string{"f1", "f2"})
	var dataErr *experiment.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError for ragged columns, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	tbl := sampleTable(t)
	norm := Normalize(tbl)

	area, err := norm.Numeric("Area")
	if err != nil {
		t.Fatalf("Numeric: %v", err)
	}
	var sum float64
	for _, v := range area {
		sum += v
	}
	if mean := sum / float64(len(area)); math.Abs(mean) > 1e-9 {
		t.Fatalf("expected zero mean after z-score, got %f", mean)
	}

	// Original is untouched.
	orig, _ := tbl.Numeric("Area")
	if orig[0] != 100 {
		t.Fatalf("Normalize mutated the source table: %v", orig)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	tbl := sampleTable(t)

	a := Shuffle(tbl, 100)
	b := Shuffle(tbl, 100)
	colA, _ := a.Numeric("Area")
	colB, _ := b.Numeric("Area")
	for i := range colA {
		if colA[i] != colB[i] {
			t.Fatalf("same seed produced different orders: %v vs %v", colA, colB)
		}
	}

	// Shuffling permutes, never drops.
	if a.NumRows() != tbl.NumRows() {
		t.Fatalf("shuffle changed row count: %d", a.NumRows())
	}
	var sum float64
	for _, v := range colA {
		sum += v
	}
	if sum != 100+80+120+90 {
		t.Fatalf("shuffle lost rows: %v", colA)
	}
}

func TestSplitSizes(t *testing.T) {
	cols := map[string][]float64{"f1": make([]float64, 100)}
	for i := range cols["f1"] {
		cols["f1"][i] = float64(i)
	}
	tbl, err := FromColumns(cols, []string{"f1"})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}

	parts := Split(tbl, 0.8, 0.1)
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0].NumRows() != 80 || parts[1].NumRows() != 10 || parts[2].NumRows() != 10 {
		t.Fatalf("unexpected split sizes: %d/%d/%d",
			parts[0].NumRows(), parts[1].NumRows(), parts[2].NumRows())
	}

	// Consecutive, no overlap.
	first, _ := parts[0].Numeric("f1")
	second, _ := parts[1].Numeric("f1")
	if first[79] != 79 || second[0] != 80 {
		t.Fatalf("split parts overlap or reorder: %f, %f", first[79], second[0])
	}
}

func TestBinaryLabels(t *testing.T) {
	tbl := sampleTable(t)
	labels, err := BinaryLabels(tbl, "Class", "Cammeo")
	if err != nil {
		t.Fatalf("BinaryLabels: %v", err)
	}
	want := []float64{1, 0, 1, 0}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, labels)
		}
	}
}

func TestNumericLabelsRejectsNonBinary(t *testing.T) {
	tbl, err := FromColumns(map[string][]float64{"y": {0, 1, 2}}, []string{"y"})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	_, err = NumericLabels(tbl, "y")
	var dataErr *experiment.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError for non-binary label, got %v", err)
	}
}
