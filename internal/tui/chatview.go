package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/elevate/internal/api"
	"github.com/sadopc/elevate/internal/chat"
)

type chatModel struct {
	client  *api.ChatClient
	session *chat.Session
	width   int
	height  int

	vp            viewport.Model
	input         textinput.Model
	spin          spinner.Model
	historyLoaded bool
}

func newChatModel(client *api.ChatClient, session *chat.Session) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask me to manage tasks..."
	input.Prompt = "> "

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return chatModel{
		client:  client,
		session: session,
		vp:      viewport.New(60, 10),
		input:   input,
		spin:    spin,
	}
}

func (m *chatModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.vp.Width = max(20, w-8)
	m.vp.Height = max(4, h-9)
	m.input.Width = max(20, w-12)
	m.refreshViewport()
}

func (m chatModel) inputFocused() bool {
	return m.input.Focused()
}

// activate is run when the chat tab is selected: history is fetched
// once per session, on the first visit.
func (m *chatModel) activate() tea.Cmd {
	m.input.Focus()
	cmds := []tea.Cmd{textinput.Blink}
	if !m.historyLoaded {
		cmds = append(cmds, m.loadHistory())
	}
	return tea.Batch(cmds...)
}

func (m chatModel) loadHistory() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		entries, err := client.History(context.Background())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("History load failed: %v", err), isError: true}
		}
		return historyMsg{entries: entries}
	}
}

func (m chatModel) sendCmd(text string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.Send(context.Background(), text)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		return chatReplyMsg{resp: resp}
	}
}

func (m chatModel) update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		m.session.LoadHistory(msg.entries)
		m.historyLoaded = true
		m.refreshViewport()
		return m, nil

	case chatReplyMsg:
		m.session.Resolve(msg.resp)
		m.refreshViewport()
		return m, nil

	case chatFailedMsg:
		m.session.Fail(msg.err)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.session.Awaiting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m chatModel) updateKeys(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	if m.input.Focused() {
		switch msg.String() {
		case "enter":
			return m.trySend()
		case "esc":
			m.input.Blur()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter", "i":
		m.input.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// trySend is the UI boundary for the one-outstanding-request rule: a
// send while a reply is pending is rejected here, never issued.
func (m chatModel) trySend() (chatModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if m.session.Awaiting() {
		return m, func() tea.Msg {
			return statusMsg{text: "Still waiting for the assistant, one message at a time", isError: true}
		}
	}

	if _, err := m.session.Send(text); err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: err.Error(), isError: true}
		}
	}

	m.input.SetValue("")
	m.refreshViewport()
	return m, tea.Batch(m.sendCmd(text), m.spin.Tick)
}

func (m *chatModel) refreshViewport() {
	m.vp.SetContent(m.renderMessages())
	m.vp.GotoBottom()
}

func (m *chatModel) renderMessages() string {
	msgs := m.session.Messages()
	if len(msgs) == 0 {
		return mutedStyle.Render("Start a conversation with your assistant.\nAsk it to create, update, or manage tasks.")
	}

	wrap := lipgloss.NewStyle().Width(max(20, m.vp.Width-2))

	var blocks []string
	for _, msg := range msgs {
		label := chatAgentStyle.Render("AI")
		if msg.Sender == chat.SenderUser {
			label = chatUserStyle.Render("You")
		}
		block := label + " " + mutedStyle.Render(msg.CreatedAt.Local().Format("15:04")) + "\n" +
			wrap.Render(msg.Text)

		for _, tc := range msg.ToolCalls {
			block += "\n" + toolCallStyle.Render("  ⚙ "+formatToolCall(tc))
			if tc.Output != "" {
				block += "\n" + mutedStyle.Render("    → "+truncate(tc.Output, max(20, m.vp.Width-8)))
			}
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func formatToolCall(tc api.ToolCall) string {
	args, err := json.Marshal(tc.Arguments)
	if err != nil {
		return tc.ToolName + "(…)"
	}
	return fmt.Sprintf("%s(%s)", tc.ToolName, args)
}

func (m chatModel) view() string {
	w := m.width - 4

	title := titleStyle.Render("AI Assistant")

	status := ""
	if m.session.Awaiting() {
		status = m.spin.View() + mutedStyle.Render(" thinking...")
	}

	inputView := m.input.View()
	hint := mutedStyle.Render("  enter: send  esc: scroll mode")
	if !m.input.Focused() {
		hint = mutedStyle.Render("  ↑/↓: scroll  enter: type")
	}

	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", m.vp.View(), "", status, inputView, hint,
		),
	)
}
