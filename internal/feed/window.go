package feed

import "time"

// Window selects which entries are recent enough to process.
type Window struct {
	Lookback   time.Duration
	AllEntries bool
}

// Filter returns the entries published within the lookback window
// ending at now. Entries without a timestamp are always kept, and
// AllEntries disables filtering entirely.
func (w Window) Filter(entries []Entry, now time.Time) []Entry {
	if w.AllEntries {
		return entries
	}
	cutoff := now.Add(-w.Lookback)
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Published == nil || !e.Published.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	return kept
}
