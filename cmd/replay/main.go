// Command replay trains and checks the experiments recorded in a JSON
// fixture, printing a per-check report and exiting non-zero when any
// expectation fails.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/SashaGoldin/ml-experiments/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to a replay fixture JSON file")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json")
		os.Exit(2)
	}

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if fixture.Description != "" {
		fmt.Printf("fixture: %s\n", fixture.Description)
	}

	results, err := replay.Replay(fixture)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay failed: %v\n", err)
		os.Exit(1)
	}

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s %s %s = %.4f", status, r.Run, r.Side, r.Metric, r.Value)
		if r.Reason != "" {
			fmt.Printf("  (%s)", r.Reason)
		}
		fmt.Println()
	}

	summary := replay.Summarize(fixture, results)
	fmt.Printf("experiments=%d checks=%d passed=%d failed=%d\n",
		summary.Experiments, summary.Checks, summary.Passed, summary.Failed)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// #endregion main
