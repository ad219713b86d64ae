package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/elevate/internal/api"
	"github.com/sadopc/elevate/internal/tasklist"
)

type analyticsModel struct {
	client     *api.TaskClient
	collection *tasklist.Collection
	width      int
	height     int

	chart barchart.Model
}

func newAnalyticsModel(client *api.TaskClient, c *tasklist.Collection) analyticsModel {
	return analyticsModel{
		client:     client,
		collection: c,
		chart:      barchart.New(60, 12),
	}
}

func (a *analyticsModel) setSize(w, h int) {
	a.width = w
	a.height = h
	a.buildChart()
}

// refresh refetches the list so the analytics reflect mutations made
// elsewhere (including agent tool calls) since the last visit.
func (a analyticsModel) refresh() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		tasks, err := client.List(context.Background())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load failed: %v", err), isError: true}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (a analyticsModel) update(msg tea.Msg) (analyticsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg, taskSavedMsg, taskRemovedMsg:
		a.buildChart()
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return a, a.refresh()
		}
	}
	return a, nil
}

func (a *analyticsModel) buildChart() {
	chartWidth := a.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if a.height > 30 {
		chartHeight = 14
	}

	a.chart = barchart.New(chartWidth, chartHeight)

	stats := tasklist.DeriveAnalytics(a.collection.Tasks())

	var bars []barchart.BarData
	for _, cs := range stats.Categories {
		values := []barchart.BarValue{
			{
				Name:  "done",
				Value: float64(cs.Completed),
				Style: lipgloss.NewStyle().Foreground(colorSuccess),
			},
			{
				Name:  "open",
				Value: float64(cs.Count - cs.Completed),
				Style: lipgloss.NewStyle().Foreground(categoryColor(cs.Category)),
			},
		}
		bars = append(bars, barchart.BarData{
			Label:  string(cs.Category),
			Values: values,
		})
	}

	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a analyticsModel) view() string {
	w := a.width - 4
	stats := tasklist.DeriveAnalytics(a.collection.Tasks())

	header := titleStyle.Render("Analytics")
	cards := a.renderCards(stats)
	chartView := a.chart.View()
	table := a.renderCategoryTable(stats, w)
	nav := mutedStyle.Render("  r: refresh")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", cards, "", chartView, "", table, "", nav,
		),
	)
}

func (a analyticsModel) renderCards(stats tasklist.Analytics) string {
	card := func(label string, value string, style lipgloss.Style) string {
		return panelStyle.Padding(0, 2).Render(
			lipgloss.JoinVertical(lipgloss.Center,
				style.Bold(true).Render(value),
				mutedStyle.Render(label),
			),
		)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("total", fmt.Sprintf("%d", stats.Total), titleStyle),
		card("completed", fmt.Sprintf("%d", stats.Completed), successStyle),
		card("pending", fmt.Sprintf("%d", stats.Pending), warningStyle),
		card("completion", fmt.Sprintf("%d%%", stats.CompletionRate), highlightStyle),
	)
}

func (a analyticsModel) renderCategoryTable(stats tasklist.Analytics, w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %8s %10s %8s", "Category", "Count", "Completed", "Open")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 42))))

	for _, cs := range stats.Categories {
		dot := lipgloss.NewStyle().Foreground(categoryColor(cs.Category)).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-10s %8d %10d %8d",
			dot, cs.Category, cs.Count, cs.Completed, cs.Count-cs.Completed,
		))
	}

	return strings.Join(rows, "\n")
}
