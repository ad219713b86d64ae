package tui

import (
	"time"

	"github.com/sadopc/elevate/internal/api"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewAnalytics
	viewChat
)

var viewNames = []string{"Tasks", "Analytics", "Chat"}

// --- Messages ---

// tasksLoadedMsg carries a full server list; the app replaces the
// collection with it.
type tasksLoadedMsg struct {
	tasks []api.Task
}

// taskSavedMsg carries the canonical record returned by a create,
// update or toggle call; the app upserts it.
type taskSavedMsg struct {
	task *api.Task
	note string
}

// taskRemovedMsg confirms a server-acknowledged delete.
type taskRemovedMsg struct {
	id string
}

type chatReplyMsg struct {
	resp *api.ChatResponse
}

type chatFailedMsg struct {
	err error
}

type historyMsg struct {
	entries []api.HistoryEntry
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDue(t time.Time) string {
	return t.Local().Format("Jan 02 15:04")
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
