package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/kingrea/postcard/internal/debounce"
	"github.com/kingrea/postcard/internal/form"
	"github.com/kingrea/postcard/internal/submit"
)

type stubSender struct {
	calls int
	last  form.Values
	err   error
}

func (s *stubSender) Send(_ context.Context, values form.Values) (submit.Receipt, error) {
	s.calls++
	s.last = values.Clone()
	code := 200
	if s.err != nil {
		code = 0
	}
	return submit.Receipt{AttemptID: uuid.New(), StatusCode: code}, s.err
}

func newTestApp(t *testing.T, sender Sender) *App {
	t.Helper()
	return NewApp(nil, nil,
		WithSender(sender),
		WithScheduler(debounce.NewScheduler(time.Millisecond)),
	)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// typeString feeds runes through Update as if the user typed them, and
// returns every command the edits produced (debounce ticks included).
func typeString(t *testing.T, app *App, s string) []tea.Cmd {
	t.Helper()
	var cmds []tea.Cmd
	for _, r := range s {
		model, cmd := app.Update(keyRune(r))
		if _, ok := model.(*App); !ok {
			t.Fatalf("unexpected model type: %T", model)
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// collectMsgs executes commands, flattening batches, without feeding the
// results back into Update.
func collectMsgs(cmds ...tea.Cmd) []tea.Msg {
	var msgs []tea.Msg
	for _, cmd := range cmds {
		if cmd == nil {
			continue
		}
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			msgs = append(msgs, collectMsgs(batch...)...)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func fillValidForm(app *App) {
	app.controller.Edit(form.FieldName, "Ada Lovelace")
	app.controller.Edit(form.FieldEmail, "ada@example.com")
	app.controller.Edit(form.FieldMessage, "This message is comfortably long enough.")
}

func TestTypingClearsErrorBeforeDebounceFires(t *testing.T) {
	app := newTestApp(t, &stubSender{})
	app.setFocus(focusEmail)
	app.controller.ApplyFieldError(form.FieldEmail, "Email is not valid.")

	typeString(t, app, "x")
	if _, ok := app.controller.Errors()[form.FieldEmail]; ok {
		t.Fatalf("keystroke must clear the field error immediately")
	}
}

func TestRapidEditsValidateOnceWithLastValue(t *testing.T) {
	app := newTestApp(t, &stubSender{})
	app.setFocus(focusEmail)

	cmds := typeString(t, app, "bad")
	msgs := collectMsgs(cmds...)

	var ticks []debounceTickMsg
	for _, msg := range msgs {
		if tick, ok := msg.(debounceTickMsg); ok {
			ticks = append(ticks, tick)
		}
	}
	if len(ticks) != 3 {
		t.Fatalf("expected a tick per keystroke, got %d", len(ticks))
	}

	// The two superseded timers land first and must write nothing.
	app.Update(ticks[0])
	app.Update(ticks[1])
	if len(app.controller.Errors()) != 0 {
		t.Fatalf("stale ticks wrote an error: %v", app.controller.Errors())
	}

	// Only the timer from the last edit is still live.
	app.Update(ticks[2])
	want := form.Errors{form.FieldEmail: "Email is not valid."}
	if diff := cmp.Diff(want, app.controller.Errors()); diff != "" {
		t.Fatalf("debounced outcome mismatch (-want +got):\n%s", diff)
	}
	if tok := ticks[2].token; tok.Value != "bad" {
		t.Fatalf("live tick must carry the last value, got %q", tok.Value)
	}
}

func TestDebouncedValidationCanClearAnError(t *testing.T) {
	app := newTestApp(t, &stubSender{})
	app.controller.ApplyFieldError(form.FieldEmail, "Email is not valid.")
	app.controller.Edit(form.FieldEmail, "ada@example.com")

	tok := app.scheduler.Schedule(string(form.FieldEmail), "ada@example.com")
	app.Update(debounceTickMsg{token: tok})
	if len(app.controller.Errors()) != 0 {
		t.Fatalf("valid value should clear the error, got %v", app.controller.Errors())
	}
}

func TestSubmitWithInvalidFieldsMakesNoNetworkCall(t *testing.T) {
	sender := &stubSender{}
	app := newTestApp(t, sender)
	app.controller.Edit(form.FieldName, "Jo")
	app.controller.Edit(form.FieldEmail, "bad")
	app.controller.Edit(form.FieldMessage, "short")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	collectMsgs(cmd)

	if sender.calls != 0 {
		t.Fatalf("invalid form must not reach the network, got %d calls", sender.calls)
	}
	if got := app.controller.Lifecycle().Status(); got != form.StatusError {
		t.Fatalf("expected error status, got %s", got)
	}
	if got := app.controller.Lifecycle().Message(); got != "Please fix the errors above." {
		t.Fatalf("unexpected banner: %q", got)
	}
	want := form.Errors{
		form.FieldEmail:   "Email is not valid.",
		form.FieldMessage: "Message must be at least 20 characters long.",
	}
	if diff := cmp.Diff(want, app.controller.Errors()); diff != "" {
		t.Fatalf("outcome mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitSuccessResetsForm(t *testing.T) {
	sender := &stubSender{}
	app := newTestApp(t, sender)
	fillValidForm(app)
	app.nameInput.SetValue("Ada Lovelace")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if got := app.controller.Lifecycle().Status(); got != form.StatusPending {
		t.Fatalf("expected pending after submit, got %s", got)
	}

	var finished *submitFinishedMsg
	for _, msg := range collectMsgs(cmd) {
		if m, ok := msg.(submitFinishedMsg); ok {
			finished = &m
		}
	}
	if finished == nil {
		t.Fatalf("expected submitFinishedMsg from the exchange")
	}
	if sender.calls != 1 {
		t.Fatalf("expected exactly one network call, got %d", sender.calls)
	}
	if sender.last[form.FieldEmail] != "ada@example.com" {
		t.Fatalf("payload wrong: %v", sender.last)
	}

	app.Update(*finished)
	if got := app.controller.Lifecycle().Status(); got != form.StatusOK {
		t.Fatalf("expected ok, got %s", got)
	}
	for _, f := range form.Fields() {
		if app.controller.Values()[f] != "" {
			t.Fatalf("field %s not reset: %q", f, app.controller.Values()[f])
		}
	}
	if app.nameInput.Value() != "" {
		t.Fatalf("widget not reset after success")
	}
}

func TestSubmit404SurfacesStatusLine(t *testing.T) {
	sender := &stubSender{err: &submit.StatusError{Code: 404, Status: "404 Not Found"}}
	app := newTestApp(t, sender)
	fillValidForm(app)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	var finished *submitFinishedMsg
	for _, msg := range collectMsgs(cmd) {
		if m, ok := msg.(submitFinishedMsg); ok {
			finished = &m
		}
	}
	if finished == nil {
		t.Fatalf("expected submitFinishedMsg")
	}
	app.Update(*finished)

	if got := app.controller.Lifecycle().Status(); got != form.StatusError {
		t.Fatalf("expected error status, got %s", got)
	}
	if got := app.controller.Lifecycle().Message(); got != "404 Not Found" {
		t.Fatalf("banner should be the status line, got %q", got)
	}
	if app.controller.Values()[form.FieldName] != "Ada Lovelace" {
		t.Fatalf("failure must keep the user's input")
	}
}

func TestEditWhilePendingCannotMarkResetForm(t *testing.T) {
	sender := &stubSender{}
	app := newTestApp(t, sender)
	fillValidForm(app)
	app.setFocus(focusEmail)
	app.emailInput.SetValue("ada@example.com")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})

	// Typing while the exchange is pending arms a fresh timer.
	pendingCmds := typeString(t, app, "!")

	var finished *submitFinishedMsg
	for _, msg := range collectMsgs(cmd) {
		if m, ok := msg.(submitFinishedMsg); ok {
			finished = &m
		}
	}
	if finished == nil {
		t.Fatalf("expected submitFinishedMsg")
	}
	app.Update(*finished)

	// The timer from the pending-window edit lands after the reset.
	for _, msg := range collectMsgs(pendingCmds...) {
		if tick, ok := msg.(debounceTickMsg); ok {
			app.Update(tick)
		}
	}
	if len(app.controller.Errors()) != 0 {
		t.Fatalf("late tick wrote an error onto the reset form: %v", app.controller.Errors())
	}
	for _, f := range form.Fields() {
		if app.controller.Values()[f] != "" {
			t.Fatalf("field %s not reset: %q", f, app.controller.Values()[f])
		}
	}
}

func TestSecondSubmitWhilePendingIgnored(t *testing.T) {
	sender := &stubSender{}
	app := newTestApp(t, sender)
	fillValidForm(app)

	_, first := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	_, second := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if second != nil {
		t.Fatalf("submit while pending must be a no-op")
	}
	collectMsgs(first)
	if sender.calls != 1 {
		t.Fatalf("expected a single exchange, got %d", sender.calls)
	}
}

func TestQuitCancelsOutstandingTimers(t *testing.T) {
	app := newTestApp(t, &stubSender{})
	tok := app.scheduler.Schedule(string(form.FieldMessage), "draft")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if app.scheduler.Live(tok) {
		t.Fatalf("teardown must cancel live timers")
	}
}

func TestTabCyclesFocus(t *testing.T) {
	app := newTestApp(t, &stubSender{})
	order := []focusTarget{focusEmail, focusMessage, focusSubmit, focusName}
	for _, want := range order {
		app.Update(tea.KeyMsg{Type: tea.KeyTab})
		if app.focus != want {
			t.Fatalf("expected focus %d, got %d", want, app.focus)
		}
	}
}

func TestEnterOnSubmitRowSubmits(t *testing.T) {
	sender := &stubSender{}
	app := newTestApp(t, sender)
	fillValidForm(app)
	app.setFocus(focusSubmit)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	collectMsgs(cmd)
	if sender.calls != 1 {
		t.Fatalf("enter on the submit row should send, got %d calls", sender.calls)
	}
}
