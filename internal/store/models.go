package store

type Setting struct {
	Key   string
	Value string
}

// ViewPrefs are the task-list selections remembered between runs.
// Stored as plain strings; the TUI maps them onto the typed filter and
// sort values and ignores anything it no longer recognizes.
type ViewPrefs struct {
	FilterCategory string
	SortKey        string
	SortDir        string
}
