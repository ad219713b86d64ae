// Package chat implements the session engine behind the assistant
// panel: an ordered message history with an Idle/AwaitingReply state
// machine around the one outstanding request the design allows.
//
// The engine owns its history exclusively. It never touches the task
// collection directly; when a reply lands it fires the refresh hook,
// because agent tool calls may have mutated server-side task state
// invisibly to the session itself.
package chat

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sadopc/elevate/internal/api"
)

// ErrAwaitingReply is returned when a send is attempted while the
// previous request is still in flight. Only one outstanding chat
// request per session.
var ErrAwaitingReply = errors.New("a chat request is already in flight")

// Sender distinguishes the two message roles.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// Message is one entry in the session history. The id is client-
// generated and only used for ordering and rendering; it is not
// server-stable.
type Message struct {
	ID        string
	Text      string
	Sender    Sender
	CreatedAt time.Time
	ToolCalls []api.ToolCall
}

// Session holds the ordered message history for one conversation.
// Message order is append order: history fetched from the server is
// taken in server order at load time, and live messages append after
// it, never interleaved by timestamp re-sort.
type Session struct {
	messages []Message
	awaiting bool

	refresh func()
	now     func() time.Time
	newID   func() string
}

// Option configures a Session.
type Option func(*Session)

// WithRefresh sets the hook fired after each successful reply. Failed
// exchanges do not fire it.
func WithRefresh(fn func()) Option {
	return func(s *Session) { s.refresh = fn }
}

// WithClock overrides the timestamp source. For tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Awaiting reports whether a request is in flight. The UI boundary
// checks this before sending; the engine enforces it in Send as well.
func (s *Session) Awaiting() bool { return s.awaiting }

// Messages returns a copy of the history in append order.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Session) Len() int { return len(s.messages) }

// LoadHistory maps stored entries into the session, replacing any
// previously loaded history. Entries keep the server-provided order.
// Called once when the session becomes active.
func (s *Session) LoadHistory(entries []api.HistoryEntry) {
	msgs := make([]Message, 0, len(entries))
	for i, e := range entries {
		sender := SenderAgent
		if e.Sender == string(SenderUser) {
			sender = SenderUser
		}
		msgs = append(msgs, Message{
			ID:        fmt.Sprintf("history-%d", i),
			Text:      e.Message,
			Sender:    sender,
			CreatedAt: e.CreatedAt,
			ToolCalls: e.ToolCalls,
		})
	}
	s.messages = msgs
}

// Send validates text and optimistically appends it as a user message,
// transitioning to AwaitingReply. The append always succeeds locally;
// issuing the remote call is the caller's job. On a ValidationError or
// ErrAwaitingReply the history is left untouched and the session stays
// Idle or AwaitingReply as it was.
func (s *Session) Send(text string) (Message, error) {
	if s.awaiting {
		return Message{}, ErrAwaitingReply
	}
	if len(text) == 0 {
		return Message{}, &api.ValidationError{Msg: "message cannot be empty"}
	}
	if utf8.RuneCountInString(text) > api.MaxMessageLen {
		return Message{}, &api.ValidationError{
			Msg: fmt.Sprintf("message too long, max %d characters", api.MaxMessageLen),
		}
	}

	msg := Message{
		ID:        s.newID(),
		Text:      text,
		Sender:    SenderUser,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	s.awaiting = true
	return msg, nil
}

// Resolve appends the agent's reply, returns to Idle, and fires the
// refresh hook: tool calls may have changed tasks the session knows
// nothing about, so the collection must be refetched.
func (s *Session) Resolve(resp *api.ChatResponse) Message {
	msg := Message{
		ID:        s.newID(),
		Text:      resp.AIMessage,
		Sender:    SenderAgent,
		CreatedAt: s.now(),
		ToolCalls: resp.ToolCalls,
	}
	s.messages = append(s.messages, msg)
	s.awaiting = false
	if s.refresh != nil {
		s.refresh()
	}
	return msg
}

// Fail appends a synthetic agent message describing the failure and
// returns to Idle. The optimistic user message is not rolled back and
// nothing is retried; the user re-issues the exchange if they want to.
func (s *Session) Fail(err error) Message {
	msg := Message{
		ID:        s.newID(),
		Text:      "Error: " + errText(err),
		Sender:    SenderAgent,
		CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	s.awaiting = false
	return msg
}

func errText(err error) string {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Detail
	}
	if err != nil {
		return err.Error()
	}
	return "failed to get response"
}
