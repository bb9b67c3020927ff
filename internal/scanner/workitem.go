package scanner

// WorkItem represents a single unit of work for the worker pool.
type WorkItem struct {
	Index int    // position in the caller's target list
	URL   string // target URL, used verbatim
}

// Items converts a target list into work items, preserving input order.
func Items(targets []string) []WorkItem {
	items := make([]WorkItem, len(targets))
	for i, t := range targets {
		items[i] = WorkItem{Index: i, URL: t}
	}
	return items
}
