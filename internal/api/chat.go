package api

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// MaxMessageLen caps a single chat message, matching the backend limit.
const MaxMessageLen = 2000

// ToolCall records one mutation the agent performed on the user's
// behalf while producing a reply.
type ToolCall struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Output    string         `json:"output,omitempty"`
}

// ChatResponse is the agent's structured reply to one message.
type ChatResponse struct {
	AIMessage string     `json:"ai_message"`
	ToolCalls []ToolCall `json:"tool_calls"`
}

// HistoryEntry is one persisted message from the conversation history,
// in the server's own order.
type HistoryEntry struct {
	Message   string     `json:"message"`
	Sender    string     `json:"sender"`
	CreatedAt time.Time  `json:"created_at"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ChatClient calls the conversational endpoints. Like TaskClient it is
// a stateless wrapper; the chat session itself lives in internal/chat.
type ChatClient struct {
	baseURL string
	userID  string
	http    *http.Client
}

func NewChatClient(baseURL, userID string) *ChatClient {
	return &ChatClient{
		baseURL: baseURL,
		userID:  userID,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// SetTimeout overrides the default per-request timeout.
func (c *ChatClient) SetTimeout(d time.Duration) {
	c.http.Timeout = d
}

// Send forwards one user message to the agent and returns its reply
// along with the tool-call trace.
func (c *ChatClient) Send(ctx context.Context, message string) (*ChatResponse, error) {
	body := struct {
		Message string `json:"message"`
	}{Message: message}

	var resp ChatResponse
	if err := send(ctx, c.http, http.MethodPost, c.chatURL(""), c.userID, body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// History fetches the stored conversation in server order.
func (c *ChatClient) History(ctx context.Context) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := send(ctx, c.http, http.MethodGet, c.chatURL("/history"), c.userID, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *ChatClient) chatURL(suffix string) string {
	return joinURL(c.baseURL, "/chat/"+url.PathEscape(c.userID)+"/chat"+suffix)
}
