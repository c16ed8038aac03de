package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/standort-labs/standort-cli/internal/batch"
	"github.com/standort-labs/standort-cli/internal/model"
)

// WriteTable writes the per-company results table to w.
func WriteTable(w io.Writer, run *batch.RunResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "COMPANY\tLOCATION\tLOC SCORE\tCOMP SCORE\tOVERALL")
	_, _ = fmt.Fprintln(tw, "-------\t--------\t---------\t----------\t-------")
	for _, res := range run.Results {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\n",
			truncate(res.Company.Name, 30),
			truncate(res.Location.Name, 20),
			res.LocationScore,
			res.CompanyScore,
			res.OverallScore,
		)
	}
	_ = tw.Flush()
}

// WriteSummary writes run statistics plus the strongest and weakest
// companies to w.
func WriteSummary(w io.Writer, run *batch.RunResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "Run:\t%s\n", run.RunID)
	_, _ = fmt.Fprintf(tw, "Processed:\t%d\n", run.Processed())
	_, _ = fmt.Fprintf(tw, "Failed:\t%d\n", run.Failed())
	_, _ = fmt.Fprintf(tw, "Duration:\t%s\n", run.Duration.Round(time.Millisecond))

	if run.Processed() > 0 {
		low, high, avg := scoreStats(run.Results)
		_, _ = fmt.Fprintf(tw, "Score range:\t%.2f - %.2f\n", low, high)
		_, _ = fmt.Fprintf(tw, "Average:\t%.2f\n", avg)
	}
	_ = tw.Flush()

	ranked := make([]*model.ScoredResult, len(run.Results))
	copy(ranked, run.Results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})

	if len(ranked) > 0 {
		_, _ = fmt.Fprintln(w, "\nTop locations:")
		for i, res := range ranked[:min(5, len(ranked))] {
			_, _ = fmt.Fprintf(w, "  %d. %s (%.2f)\n", i+1, res.Company.Name, res.OverallScore)
		}
	}
	if len(ranked) > 1 {
		_, _ = fmt.Fprintln(w, "\nWeakest locations:")
		bottom := ranked[len(ranked)-min(3, len(ranked)):]
		for i := len(bottom) - 1; i >= 0; i-- {
			_, _ = fmt.Fprintf(w, "  %s (%.2f)\n", bottom[i].Company.Name, bottom[i].OverallScore)
		}
	}

	if run.Failed() > 0 {
		_, _ = fmt.Fprintln(w, "\nFailures:")
		for _, f := range run.Failures {
			_, _ = fmt.Fprintf(w, "  %s (%s): %v\n", f.Company, f.Location, f.Err)
		}
	}
}

// WriteCSV writes the results as CSV rows to w.
func WriteCSV(w io.Writer, run *batch.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"company", "location", "location_score", "company_score", "overall_score"}); err != nil {
		return err
	}
	for _, res := range run.Results {
		record := []string{
			res.Company.Name,
			res.Location.Name,
			strconv.FormatFloat(res.LocationScore, 'f', 2, 64),
			strconv.FormatFloat(res.CompanyScore, 'f', 2, 64),
			strconv.FormatFloat(res.OverallScore, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func scoreStats(results []*model.ScoredResult) (low, high, avg float64) {
	low, high = results[0].OverallScore, results[0].OverallScore
	var sum float64
	for _, res := range results {
		s := res.OverallScore
		if s < low {
			low = s
		}
		if s > high {
			high = s
		}
		sum += s
	}
	return low, high, sum / float64(len(results))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

