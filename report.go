package mailmerge

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// ResultStatus is the outcome for one recipient.
type ResultStatus string

const (
	StatusSent    ResultStatus = "sent"
	StatusFailed  ResultStatus = "failed"
	StatusSkipped ResultStatus = "skipped" // already delivered by an earlier run
)

// Result is the outcome of one recipient.
type Result struct {
	Err       error
	Address   string
	Status    ResultStatus
	Index     int  // 0-based position in the batch
	Delivered bool // recipient's delivery flag after the run
}

// Report collects one Result per recipient in input order.
type Report struct {
	CampaignID string
	StartedAt  time.Time
	FinishedAt time.Time
	ArchiveKey string // set when the report was archived
	Results    []Result
}

// Len returns the number of results.
func (r *Report) Len() int {
	return len(r.Results)
}

// Sent counts recipients delivered during this run.
func (r *Report) Sent() int {
	return r.count(StatusSent)
}

// Failed counts recipients that were not delivered.
func (r *Report) Failed() int {
	return r.count(StatusFailed)
}

// Skipped counts recipients delivered by an earlier run.
func (r *Report) Skipped() int {
	return r.count(StatusSkipped)
}

func (r *Report) count(s ResultStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// reportHeader extends the email,sent table with status and error columns.
var reportHeader = []string{"email", "sent", "status", "error"}

// WriteCSV writes the report as CSV with header email,sent,status,error.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, res := range r.Results {
		var errText string
		if res.Err != nil {
			errText = res.Err.Error()
		}
		if err := cw.Write([]string{
			res.Address,
			strconv.FormatBool(res.Delivered),
			string(res.Status),
			errText,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename returns the report file name for a run started at t,
// e.g. output-20240501T093000.csv.
func Filename(t time.Time) string {
	return "output-" + t.Format("20060102T150405") + ".csv"
}

// Filename returns the report file name for this run.
func (r *Report) Filename() string {
	return Filename(r.StartedAt)
}
