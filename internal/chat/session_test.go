package chat

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/elevate/internal/api"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

// ============================================================
// Send
// ============================================================

func TestSendAppendsOptimistically(t *testing.T) {
	s := NewSession(WithClock(fixedClock()))

	msg, err := s.Send("hello")
	if err != nil {
		t.Fatal(err)
	}
	if msg.Sender != SenderUser || msg.Text != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if !s.Awaiting() {
		t.Fatal("session should be awaiting after send")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
}

func TestSendEmptyRejected(t *testing.T) {
	s := NewSession()

	_, err := s.Send("")
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("rejected send must not touch history")
	}
	if s.Awaiting() {
		t.Fatal("rejected send must leave session idle")
	}
}

func TestSendTooLongRejected(t *testing.T) {
	s := NewSession()

	_, err := s.Send(strings.Repeat("x", api.MaxMessageLen+1))
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("rejected send must not touch history")
	}

	// Exactly at the limit is fine.
	if _, err := s.Send(strings.Repeat("x", api.MaxMessageLen)); err != nil {
		t.Fatalf("%d chars should pass: %v", api.MaxMessageLen, err)
	}
}

func TestSendCountsCharactersNotBytes(t *testing.T) {
	s := NewSession()

	// 1500 two-byte runes: 3000 bytes, but well under the 2000
	// character limit.
	if _, err := s.Send(strings.Repeat("ü", 1500)); err != nil {
		t.Fatalf("1500 multibyte chars should pass: %v", err)
	}

	s2 := NewSession()
	_, err := s2.Send(strings.Repeat("ü", api.MaxMessageLen+1))
	var verr *api.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for %d chars, got %v", api.MaxMessageLen+1, err)
	}
	if s2.Len() != 0 {
		t.Fatal("rejected send must not touch history")
	}
}

func TestSendWhileAwaitingRejected(t *testing.T) {
	s := NewSession()
	s.Send("first")

	_, err := s.Send("second")
	if !errors.Is(err, ErrAwaitingReply) {
		t.Fatalf("expected ErrAwaitingReply, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatal("rejected send must not append")
	}
}

// ============================================================
// Resolve / Fail
// ============================================================

func TestResolveAppendsReplyAndRefreshes(t *testing.T) {
	var refreshed int
	s := NewSession(WithRefresh(func() { refreshed++ }), WithClock(fixedClock()))

	s.Send("add a task for me")
	reply := s.Resolve(&api.ChatResponse{
		AIMessage: "Done.",
		ToolCalls: []api.ToolCall{
			{ToolName: "create_task", Arguments: map[string]any{"title": "New task"}, Output: "created"},
		},
	})

	if reply.Sender != SenderAgent || reply.Text != "Done." {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if len(reply.ToolCalls) != 1 || reply.ToolCalls[0].ToolName != "create_task" {
		t.Fatalf("tool calls lost: %+v", reply.ToolCalls)
	}
	if s.Awaiting() {
		t.Fatal("session should be idle after resolve")
	}
	if refreshed != 1 {
		t.Fatalf("refresh fired %d times, want 1", refreshed)
	}

	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].Sender != SenderUser || msgs[1].Sender != SenderAgent {
		t.Fatalf("unexpected history: %+v", msgs)
	}
}

func TestFailKeepsUserMessage(t *testing.T) {
	var refreshed int
	s := NewSession(WithRefresh(func() { refreshed++ }))

	s.Send("hello")
	s.Fail(errors.New("connection refused"))

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2 (no rollback)", len(msgs))
	}
	if msgs[0].Sender != SenderUser || msgs[0].Text != "hello" {
		t.Fatal("optimistic user message must survive a failure")
	}
	if msgs[1].Sender != SenderAgent || !strings.HasPrefix(msgs[1].Text, "Error: ") {
		t.Fatalf("unexpected failure message: %+v", msgs[1])
	}
	if s.Awaiting() {
		t.Fatal("session should be idle after failure")
	}
	if refreshed != 0 {
		t.Fatal("failed exchange must not fire the refresh hook")
	}
}

func TestFailUsesRequestErrorDetail(t *testing.T) {
	s := NewSession()
	s.Send("hi")

	msg := s.Fail(&api.RequestError{Status: 422, Detail: "message too long"})
	if msg.Text != "Error: message too long" {
		t.Fatalf("expected the server detail, got %q", msg.Text)
	}
}

func TestSendAllowedAgainAfterFail(t *testing.T) {
	s := NewSession()
	s.Send("first")
	s.Fail(errors.New("timeout"))

	if _, err := s.Send("second"); err != nil {
		t.Fatalf("send after failure should work: %v", err)
	}
}

// ============================================================
// History loading
// ============================================================

func TestLoadHistoryKeepsServerOrder(t *testing.T) {
	s := NewSession()
	now := time.Now().UTC()

	s.LoadHistory([]api.HistoryEntry{
		{Message: "first", Sender: "user", CreatedAt: now.Add(-2 * time.Minute)},
		{Message: "second", Sender: "agent", CreatedAt: now.Add(-1 * time.Minute), ToolCalls: []api.ToolCall{{ToolName: "list_tasks"}}},
		{Message: "third", Sender: "user", CreatedAt: now},
	})

	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[0].Text != "first" || msgs[1].Text != "second" || msgs[2].Text != "third" {
		t.Fatal("history must keep server order")
	}
	if msgs[0].Sender != SenderUser || msgs[1].Sender != SenderAgent {
		t.Fatal("sender mapping wrong")
	}
	if len(msgs[1].ToolCalls) != 1 {
		t.Fatal("tool calls should survive history load")
	}
}

func TestLoadHistoryReplaces(t *testing.T) {
	s := NewSession()
	s.LoadHistory([]api.HistoryEntry{{Message: "old", Sender: "user"}})
	s.LoadHistory([]api.HistoryEntry{{Message: "new", Sender: "user"}})

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Text != "new" {
		t.Fatalf("reload should replace history: %+v", msgs)
	}
}

func TestLiveMessagesAppendAfterHistory(t *testing.T) {
	s := NewSession()
	s.LoadHistory([]api.HistoryEntry{
		{Message: "stored", Sender: "agent", CreatedAt: time.Now().Add(time.Hour)},
	})

	s.Send("live")

	msgs := s.Messages()
	// Append order wins even when the stored timestamp is later.
	if msgs[len(msgs)-1].Text != "live" {
		t.Fatal("live message should append after history, never re-sort")
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := NewSession()
	s.Send("hello")

	msgs := s.Messages()
	msgs[0].Text = "mutated"

	if s.Messages()[0].Text != "hello" {
		t.Fatal("Messages() must not expose internal state")
	}
}
