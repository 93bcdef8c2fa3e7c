// Command experiments runs the rice-variety classification workflow end to
// end: load the CSV, normalize and split, train a baseline and an
// all-features configuration, compare them on held-out data, render the
// comparison charts, and persist everything to the run registry.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/SashaGoldin/ml-experiments/internal/comparator"
	"github.com/SashaGoldin/ml-experiments/internal/dataset"
	"github.com/SashaGoldin/ml-experiments/internal/evaluator"
	"github.com/SashaGoldin/ml-experiments/internal/experiment"
	"github.com/SashaGoldin/ml-experiments/internal/metrics"
	"github.com/SashaGoldin/ml-experiments/internal/registry"
	"github.com/SashaGoldin/ml-experiments/internal/render"
	"github.com/SashaGoldin/ml-experiments/internal/runlog"
	"github.com/SashaGoldin/ml-experiments/internal/trainer"
)

// The dataset's geometric feature columns and its class column.
var allFeatures = []string{
	"Area", "Perimeter", "Major_Axis_Length", "Minor_Axis_Length",
	"Eccentricity", "Convex_Area", "Extent",
}

var baselineFeatures = []string{"Eccentricity", "Major_Axis_Length", "Area"}

const (
	classColumn   = "Class"
	positiveClass = "Cammeo"
)

// #region main
func main() {
	csvPath := flag.String("csv", envOr("RICE_CSV", "Rice_Cammeo_Osmancik.csv"), "path to the rice dataset CSV")
	dbPath := flag.String("db", envOr("EXPERIMENTS_DB", "experiments.db"), "path to the run registry database")
	outDir := flag.String("out", envOr("PLOTS_DIR", "plots"), "directory for rendered charts")
	epochs := flag.Int("epochs", 60, "training epochs per experiment")
	seed := flag.Int64("seed", 100, "shuffle seed for the dataset split")
	flag.Parse()

	store, err := registry.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("failed to open registry: %v", err)
	}
	defer store.Close()

	train, test, trainLabels, testLabels, err := prepare(*csvPath, *seed)
	if err != nil {
		log.Fatalf("failed to prepare data: %v", err)
	}
	log.Printf("prepared %d training rows, %d test rows", train.NumRows(), test.NumRows())

	tr := trainer.Default()
	ev := evaluator.New()

	var runs []*experiment.Run
	for _, cfg := range []struct {
		name     string
		features []string
	}{
		{"baseline", baselineFeatures},
		{"all_features", allFeatures},
	} {
		settings, err := experiment.NewSettings(0.001, *epochs, 100, 0.35, cfg.features)
		if err != nil {
			log.Fatalf("bad settings for %s: %v", cfg.name, err)
		}

		run, err := tr.Train(cfg.name, settings, train, trainLabels,
			metrics.DefaultBinarySet(settings.ClassificationThreshold))
		if err != nil {
			log.Fatalf("training %s failed: %v", cfg.name, err)
		}
		runs = append(runs, run)

		if err := store.SaveRun(run); err != nil {
			log.Printf("persist %s: %v", run.Name, err)
		}
		logEvent(store, run.RunID, runlog.EventTrained, map[string]any{
			"name": run.Name, "epochs": len(run.Epochs), "features": len(settings.InputFeatures),
		})

		scores, err := ev.Evaluate(run, test, testLabels)
		if err != nil {
			log.Fatalf("evaluating %s failed: %v", run.Name, err)
		}
		logEvent(store, run.RunID, runlog.EventEvaluated, scores)
		printTrainTest(run, scores)
	}

	metricsOfInterest := []string{"accuracy", "precision", "recall"}
	data, err := comparator.New(ev).Compare(runs, metricsOfInterest, test, testLabels)
	if err != nil {
		log.Fatalf("comparison failed: %v", err)
	}
	logEvent(store, "", runlog.EventCompared, map[string]any{
		"runs": data.RunNames, "metrics": data.MetricNames,
	})

	trainPath, testPath, err := render.Comparison(data, *outDir)
	if err != nil {
		log.Fatalf("rendering failed: %v", err)
	}
	log.Printf("wrote %s and %s", trainPath, testPath)
}

// #endregion main

// #region prepare
// prepare loads the CSV and mirrors the standard preparation: z-score
// normalize, shuffle with the seed, split 80/10/10, and derive the binary
// label per split. The validation slice is unused here but kept out of
// train and test.
func prepare(csvPath string, seed int64) (train, test *dataset.Table, trainLabels, testLabels []float64, err error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	raw, err := dataset.FromCSV(f)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	shuffled := dataset.Shuffle(dataset.Normalize(raw), seed)
	parts := dataset.Split(shuffled, 0.8, 0.1)
	train, test = parts[0], parts[2]

	trainLabels, err = dataset.BinaryLabels(train, classColumn, positiveClass)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	testLabels, err = dataset.BinaryLabels(test, classColumn, positiveClass)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return train, test, trainLabels, testLabels, nil
}

// #endregion prepare

// #region reporting
// printTrainTest mirrors the classic train-vs-test readout per metric.
func printTrainTest(run *experiment.Run, scores experiment.MetricScores) {
	fmt.Printf("Comparing metrics between train and test for %s:\n", run.Name)
	for _, metric := range run.MetricNames() {
		testValue, ok := scores[metric]
		if !ok {
			continue
		}
		trainValue, err := run.FinalMetricValue(metric)
		if err != nil {
			continue
		}
		fmt.Println("------")
		fmt.Printf("Train %s: %.4f\n", metric, trainValue)
		fmt.Printf("Test %s:  %.4f\n", metric, testValue)
	}
}

func logEvent(store *registry.Store, runID, event string, details any) {
	detailsJSON, _ := json.Marshal(details)
	err := runlog.LogEvent(store.DB(), runlog.Entry{
		RunID:       runID,
		Event:       event,
		DetailsJSON: string(detailsJSON),
	})
	if err != nil {
		log.Printf("logging error: %v", err)
	}
}

// #endregion reporting

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
