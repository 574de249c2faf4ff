package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apiclient "github.com/donaldgifford/ebay-watcher/internal/api/client"
	"github.com/donaldgifford/ebay-watcher/internal/monitor"
	domain "github.com/donaldgifford/ebay-watcher/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printSearchTable(searches []domain.SearchDefinition) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tQUERY\tSITE\tLISTING\tINTERVAL\n")
	for i := range searches {
		s := &searches[i]
		site := s.Site
		if site == "" {
			site = "-"
		}
		tw.writef("%s\t%s\t%s\t%s\t%dm\n",
			s.SearchID,
			truncate(s.SearchQuery, 40),
			site,
			s.ListingType,
			s.UpdateInterval,
		)
	}
	return tw.finish()
}

func printSearchDetail(def *domain.SearchDefinition) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID:\t%s\n", def.SearchID)
	tw.writef("Query:\t%s\n", def.SearchQuery)
	tw.writef("Site:\t%s\n", def.Site)
	tw.writef("Category:\t%s\n", def.CategoryID)
	if def.MinPrice != nil {
		tw.writef("Min Price:\t%.2f\n", *def.MinPrice)
	}
	if def.MaxPrice != nil {
		tw.writef("Max Price:\t%.2f\n", *def.MaxPrice)
	}
	tw.writef("Listing Type:\t%s\n", def.ListingType)
	tw.writef("Interval:\t%dm\n", def.UpdateInterval)
	return tw.finish()
}

func printStatusTable(statuses []monitor.CoordinatorStatus) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ACCOUNT\tSOURCE\tINTERVAL\tFAILURES\tLAST SUCCESS\tSTATE\n")
	for i := range statuses {
		st := &statuses[i]
		lastSuccess := "-"
		if st.LastSuccess != nil {
			lastSuccess = st.LastSuccess.Format("2006-01-02 15:04:05")
		}
		state := "ok"
		if st.Degraded {
			state = "degraded"
		}
		tw.writef("%s\t%s\t%ds\t%d\t%s\t%s\n",
			st.Account,
			st.Source.String(),
			st.IntervalSeconds,
			st.ConsecutiveFailures,
			lastSuccess,
			state,
		)
	}
	return tw.finish()
}

func printQuota(q *apiclient.QuotaReport) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Daily Limit:\t%d\n", q.DailyLimit)
	tw.writef("Used:\t%d\n", q.DailyUsed)
	tw.writef("Remaining:\t%d\n", q.Remaining)
	tw.writef("Resets At:\t%s\n", q.ResetAt.Format("2006-01-02 15:04:05"))
	return tw.finish()
}

func printSnapshotTable(snaps []apiclient.SnapshotSummary) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SOURCE\tITEMS\tCAPTURED\n")
	for i := range snaps {
		tw.writef("%s\t%d\t%s\n",
			snaps[i].Source,
			snaps[i].ItemCount,
			snaps[i].CapturedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
