// Package report renders the end-of-run summary shown on the
// terminal after a digest run.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"feedsanity/internal/feed"
	"feedsanity/internal/store"
)

// Render writes the per-feed outcome table followed by the run totals
// and, when available, the digest location.
func Render(w io.Writer, snap store.RunSnapshot, digestURI string) {
	fmt.Fprintln(w, feedTable(snap.Feeds))

	fmt.Fprintf(w, "comics: %d  articles: %d  failures: %d", snap.Comics, snap.Articles, snap.Failures)
	if snap.FinishedAt != nil {
		fmt.Fprintf(w, "  elapsed: %s", snap.FinishedAt.Sub(snap.StartedAt).Round(time.Millisecond))
	}
	fmt.Fprintln(w)
	if digestURI != "" {
		fmt.Fprintf(w, "digest: %s\n", digestURI)
	}
}

func feedTable(results []store.FeedResult) string {
	rows := make([]store.FeedResult, len(results))
	copy(rows, results)
	sort.Slice(rows, func(i, j int) bool {
		return feed.Name(rows[i].URL) < feed.Name(rows[j].URL)
	})

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"FEED", "KIND", "ITEMS", "DURATION", "STATUS"})

	var items int64
	var total time.Duration
	for _, r := range rows {
		tw.AppendRow(table.Row{
			feed.Name(r.URL),
			kindCell(r.Kind),
			r.Items,
			r.Duration.Round(time.Millisecond),
			statusCell(r.Error),
		})
		items += r.Items
		total += r.Duration
	}
	tw.AppendFooter(table.Row{"TOTAL", "", items, total.Round(time.Millisecond), ""})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignLeft, WidthMax: 48},
	})

	return tw.Render()
}

func kindCell(kind string) string {
	if kind == "" {
		return "-"
	}
	return kind
}

func statusCell(errText string) string {
	if errText == "" {
		return "ok"
	}
	return errText
}
