package stats

import (
	"strings"
	"time"

	"github.com/n0rdy/widaconsole/common"
)

const (
	DlqExportFileName = "wida_dlq_export.csv"

	isoMillisLayout = "2006-01-02T15:04:05.000Z"
)

var dlqCsvHeader = []string{"ID", "Queue", "Failed At", "Reason"}

// ExportDLQCSV renders the DLQ as "ID,Queue,Failed At,Reason" rows joined by "\n".
// The reason is always quoted with inner quotes doubled; the other columns are written as is.
func ExportDLQCSV(dlq []common.DLQJob) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(dlqCsvHeader, ","))
	for _, dead := range dlq {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join([]string{
			dead.Id,
			dead.Queue,
			FormatIsoMillis(dead.FailedAt),
			quoteCsvField(dead.Reason),
		}, ","))
	}
	return sb.String()
}

func FormatIsoMillis(t time.Time) string {
	return t.UTC().Format(isoMillisLayout)
}

func quoteCsvField(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
