package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amishk599/jdskills/internal/conversation"
	"github.com/amishk599/jdskills/internal/model"
)

type fakeChatter struct {
	log      *conversation.Log
	reply    string
	sendErr  error
	analysis *model.Analysis
	analyErr error
	resets   int
}

func newFakeChatter() *fakeChatter {
	return &fakeChatter{
		log:   conversation.New(conversation.Message{Role: conversation.RoleAssistant, Content: "hello"}),
		reply: "tell me more",
	}
}

func (f *fakeChatter) Messages() []conversation.Message { return f.log.Messages() }

func (f *fakeChatter) Send(_ context.Context, text string) (string, error) {
	_ = f.log.Append(conversation.RoleUser, text)
	if f.sendErr != nil {
		return "", f.sendErr
	}
	_ = f.log.Append(conversation.RoleAssistant, f.reply)
	return f.reply, nil
}

func (f *fakeChatter) Analyze(_ context.Context) (*model.Analysis, error) {
	return f.analysis, f.analyErr
}

func (f *fakeChatter) Reset() {
	f.resets++
	f.log.Reset()
}

func readyModel(t *testing.T, c Chatter) chatModel {
	t.Helper()
	m := newChatModel(context.Background(), c)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(chatModel)
}

// runFirst executes the first command of a batch, which is the provider call.
func runFirst(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatalf("expected batch command, got %T", cmd())
	}
	return batch[0]()
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestChat_SendAppendsTurns(t *testing.T) {
	fc := newFakeChatter()
	m := readyModel(t, fc)
	m.input.SetValue("  Senior Go engineer  ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(chatModel)
	if !m.waiting {
		t.Fatal("expected waiting after enter")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if got := m.messages[len(m.messages)-1]; got.Role != conversation.RoleUser || got.Content != "Senior Go engineer" {
		t.Errorf("last message = %+v", got)
	}

	next, _ = m.Update(runFirst(t, cmd))
	m = next.(chatModel)
	if m.waiting {
		t.Error("still waiting after reply")
	}
	if len(m.messages) != 3 || m.messages[2].Content != "tell me more" {
		t.Errorf("messages = %+v", m.messages)
	}
}

func TestChat_EnterIgnoredWhenBlankOrWaiting(t *testing.T) {
	m := readyModel(t, newFakeChatter())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank input should not send")
	}

	m.input.SetValue("text")
	m.waiting = true
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter while waiting should not send")
	}
}

func TestChat_SendErrorShown(t *testing.T) {
	fc := newFakeChatter()
	fc.sendErr = errors.New("boom")
	m := readyModel(t, fc)
	m.input.SetValue("hi")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(chatModel)
	next, _ = m.Update(runFirst(t, cmd))
	m = next.(chatModel)

	if m.errText == "" {
		t.Error("expected error text after failed send")
	}
}

func TestChat_AnalyzeQuitsWithResult(t *testing.T) {
	fc := newFakeChatter()
	fc.analysis = &model.Analysis{ID: "a-1"}
	m := readyModel(t, fc)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	m = next.(chatModel)
	next, cmd = m.Update(runFirst(t, cmd))
	m = next.(chatModel)

	if m.result == nil || m.result.ID != "a-1" {
		t.Errorf("result = %+v", m.result)
	}
	if !isQuit(cmd) {
		t.Error("expected quit after analysis")
	}
}

func TestChat_AnalyzeEmptyDescriptionStays(t *testing.T) {
	fc := newFakeChatter()
	fc.analyErr = model.ErrEmptyDescription
	m := readyModel(t, fc)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	m = next.(chatModel)
	next, cmd = m.Update(runFirst(t, cmd))
	m = next.(chatModel)

	if isQuit(cmd) {
		t.Error("should not quit on failed analysis")
	}
	if m.result != nil || m.errText == "" {
		t.Errorf("result = %+v, errText = %q", m.result, m.errText)
	}
}

func TestChat_ResetRestoresGreeting(t *testing.T) {
	fc := newFakeChatter()
	_, _ = fc.Send(context.Background(), "something")
	m := readyModel(t, fc)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(chatModel)

	if fc.resets != 1 {
		t.Errorf("resets = %d, want 1", fc.resets)
	}
	if len(m.messages) != 1 || m.messages[0].Content != "hello" {
		t.Errorf("messages after reset = %+v", m.messages)
	}
}

func TestChat_EscQuitsWithoutResult(t *testing.T) {
	m := readyModel(t, newFakeChatter())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Error("expected quit on esc")
	}
	if next.(chatModel).result != nil {
		t.Error("result should be nil after esc")
	}
}
