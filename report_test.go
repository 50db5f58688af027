package mailmerge_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailmerge"
)

func TestReport_WriteCSV(t *testing.T) {
	t.Parallel()

	report := &mailmerge.Report{
		Results: []mailmerge.Result{
			{Index: 0, Address: "alice@example.com", Status: mailmerge.StatusSent, Delivered: true},
			{Index: 1, Address: "bob@example.com", Status: mailmerge.StatusFailed, Err: errors.New("550 no such user, sorry")},
			{Index: 2, Address: "carol@example.com", Status: mailmerge.StatusSkipped, Delivered: true},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf))
	require.Equal(t, "email,sent,status,error\n"+
		"alice@example.com,true,sent,\n"+
		"bob@example.com,false,failed,\"550 no such user, sorry\"\n"+
		"carol@example.com,true,skipped,\n", buf.String())

	require.Equal(t, 1, report.Sent())
	require.Equal(t, 1, report.Failed())
	require.Equal(t, 1, report.Skipped())
	require.Equal(t, 3, report.Len())
}

func TestFilename(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 12, 31, 23, 59, 58, 0, time.UTC)
	require.Equal(t, "output-20241231T235958.csv", mailmerge.Filename(ts))
	require.Equal(t, "output-20241231T235958.csv", (&mailmerge.Report{StartedAt: ts}).Filename())
}
