// Command inspect reads a run registry database and reports its contents:
// a table of recent runs, or the full detail of one run by name.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/SashaGoldin/ml-experiments/internal/registry"
	"github.com/SashaGoldin/ml-experiments/internal/runlog"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to experiments.db")
	last := flag.Int("last", 20, "show N most recent runs")
	runName := flag.String("run", "", "show single run detail")
	events := flag.Int("events", 0, "also show N most recent events")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/experiments.db [--last N] [--run name] [--events N] [--json]")
		os.Exit(2)
	}

	store, err := registry.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *runName != "" {
		err = runDetailMode(store, *runName, *jsonOut)
	} else {
		err = runListMode(store, *last, *jsonOut)
	}
	if err == nil && *events > 0 {
		err = runEventsMode(store, *events, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID     string   `json:"run_id"`
	Name      string   `json:"name"`
	Epochs    int      `json:"epochs"`
	Features  []string `json:"features"`
	CreatedAt string   `json:"created_at"`
}

func runListMode(store *registry.Store, last int, jsonOut bool) error {
	records, err := store.ListRuns(last)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]listRow, len(records))
	for i, rec := range records {
		rows[i] = listRow{
			RunID:     rec.RunID,
			Name:      rec.Name,
			Epochs:    rec.Epochs,
			Features:  rec.Settings.InputFeatures,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	fmt.Printf("%-36s  %-16s  %6s  %-10s  %s\n", "RUN ID", "NAME", "EPOCHS", "CREATED", "FEATURES")
	for _, r := range rows {
		fmt.Printf("%-36s  %-16s  %6d  %-10s  %s\n",
			r.RunID, r.Name, r.Epochs, r.CreatedAt[:10], strings.Join(r.Features, ","))
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOut struct {
	RunID        string             `json:"run_id"`
	Name         string             `json:"name"`
	Epochs       int                `json:"epochs"`
	LearningRate float64            `json:"learning_rate"`
	BatchSize    int                `json:"batch_size"`
	Threshold    float64            `json:"classification_threshold"`
	Features     []string           `json:"features"`
	FinalMetrics map[string]float64 `json:"final_metrics"`
}

func runDetailMode(store *registry.Store, name string, jsonOut bool) error {
	run, err := store.GetRun(name)
	if err != nil {
		return err
	}

	out := detailOut{
		RunID:        run.RunID,
		Name:         run.Name,
		Epochs:       len(run.Epochs),
		LearningRate: run.Settings.LearningRate,
		BatchSize:    run.Settings.BatchSize,
		Threshold:    run.Settings.ClassificationThreshold,
		Features:     run.Settings.InputFeatures,
		FinalMetrics: map[string]float64{},
	}
	for _, metric := range run.MetricNames() {
		v, err := run.FinalMetricValue(metric)
		if err != nil {
			continue
		}
		out.FinalMetrics[metric] = v
	}

	if jsonOut {
		return printJSON(out)
	}
	fmt.Printf("run %s (%s)\n", out.Name, out.RunID)
	fmt.Printf("  epochs=%d lr=%g batch=%d threshold=%g\n", out.Epochs, out.LearningRate, out.BatchSize, out.Threshold)
	fmt.Printf("  features: %s\n", strings.Join(out.Features, ", "))
	fmt.Println("  final training metrics:")
	for _, metric := range run.MetricNames() {
		fmt.Printf("    %-10s %.4f\n", metric, out.FinalMetrics[metric])
	}
	return nil
}

// #endregion detail-mode

// #region events-mode

func runEventsMode(store *registry.Store, n int, jsonOut bool) error {
	entries, err := runlog.Recent(store.DB(), n)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(entries)
	}
	fmt.Println("recent events:")
	for _, e := range entries {
		fmt.Printf("  %s  %-10s  run=%s  %s\n",
			e.CreatedAt.Format("2006-01-02T15:04:05Z"), e.Event, orDash(e.RunID), e.DetailsJSON)
	}
	return nil
}

// #endregion events-mode

// #region helpers

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// #endregion helpers
