package processor

import (
	"sort"
	"time"
)

// Aggregate merges transformed and skipped records into a report sorted by
// path. Byte totals cover transformed records only.
func Aggregate(processed, skipped []Record, elapsed time.Duration) Report {
	records := make([]Record, 0, len(processed)+len(skipped))
	records = append(records, processed...)
	records = append(records, skipped...)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Path < records[j].Path
	})

	report := Report{Records: records, Elapsed: elapsed}
	for _, rec := range records {
		switch o := rec.Outcome.(type) {
		case Transformed:
			report.Transformed++
			report.TotalOrig += rec.OriginalSize
			report.TotalNew += o.NewSize
			report.StrippedTags += o.StrippedTags
		case Skipped:
			report.Skipped++
		case Failed:
			report.Failed++
		}
	}

	report.Savings = report.TotalOrig - report.TotalNew
	if report.TotalOrig > 0 {
		report.SavingsPct = float64(report.Savings) / float64(report.TotalOrig) * 100
	}
	if secs := elapsed.Seconds(); secs > 0 {
		report.Throughput = float64(report.Transformed) / secs
	}
	return report
}
