package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/kailas-cloud/ragdex/internal/usecase/ingest"
)

// maxListedFailures caps the failure list printed to the terminal; the log has all of them.
const maxListedFailures = 20

func printSummary(w io.Writer, s *ingest.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "index created:\t%t\n", s.IndexCreated)
	fmt.Fprintf(tw, "prepared:\t%d\n", s.Prepared)
	fmt.Fprintf(tw, "uploaded:\t%d/%d (%.1f%%)\n", s.Succeeded, s.Attempted, s.SuccessRate)
	fmt.Fprintf(tw, "failed:\t%d\n", s.Failed)
	fmt.Fprintf(tw, "batches:\t%d\n", s.Batches)
	fmt.Fprintf(tw, "elapsed:\t%s\n", s.Elapsed.Round(time.Millisecond))
	if s.Sanity != nil {
		fmt.Fprintf(tw, "read-back:\t%d sampled of %d matching\n", s.Sanity.Sampled, s.Sanity.TotalCount)
		if s.Sanity.Average != nil {
			fmt.Fprintf(tw, "avg %s:\t%.2f\n", s.Sanity.Field, *s.Sanity.Average)
		}
	}
	_ = tw.Flush()

	if len(s.Failures) == 0 {
		return
	}
	fmt.Fprintln(w, "failures:")
	for i, f := range s.Failures {
		if i == maxListedFailures {
			fmt.Fprintf(w, "  ... and %d more\n", len(s.Failures)-maxListedFailures)
			break
		}
		fmt.Fprintf(w, "  %s: %s\n", f.ID, f.Message)
	}
}
