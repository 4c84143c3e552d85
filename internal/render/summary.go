package render

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/utkarsh5026/bootfactory/factory"
)

// WriteSummary prints a per-worker table of completed and failed units,
// each worker's share of the total, and its throughput over elapsed.
func WriteSummary(w io.Writer, stats []factory.WorkerStats, total int64, elapsed time.Duration) {
	table := tablewriter.NewWriter(w)
	table.Header("Worker", "Completed", "Failed", "Share", "Units/sec")

	for _, st := range stats {
		table.Append(
			fmt.Sprintf("#%d", st.ID),
			fmt.Sprintf("%d", st.Completed),
			fmt.Sprintf("%d", st.Failed),
			formatShare(st.Completed, total),
			formatRate(st.Completed, elapsed),
		)
	}

	table.Append(
		"total",
		fmt.Sprintf("%d", total),
		"",
		formatShare(total, total),
		formatRate(total, elapsed),
	)

	table.Render()
}

func formatShare(n, total int64) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

func formatRate(n int64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(n)/elapsed.Seconds())
}
