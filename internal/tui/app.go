// internal/tui/app.go
//
// This is the postcard TUI. It uses bubbletea, which follows The Elm
// Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// Everything the form does arrives here as a discrete message on one
// queue: keystrokes, debounce ticks, and the completion of the network
// exchange. That single-threaded interleaving is what makes the debounce
// bookkeeping safe without locks.

package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/postcard/internal/config"
	"github.com/kingrea/postcard/internal/debounce"
	"github.com/kingrea/postcard/internal/form"
	"github.com/kingrea/postcard/internal/logbook"
	"github.com/kingrea/postcard/internal/submit"
)

// focusTarget tracks which control owns the keyboard.
type focusTarget int

const (
	focusName focusTarget = iota
	focusEmail
	focusMessage
	focusSubmit
)

// Sender performs the network half of a submission. Satisfied by
// *submit.Client; tests swap in stubs.
type Sender interface {
	Send(ctx context.Context, values form.Values) (submit.Receipt, error)
}

// debounceTickMsg lands when a field's quiet period elapses. The token may
// be stale by then; the handler checks before applying anything.
type debounceTickMsg struct {
	token debounce.Token
}

// submitFinishedMsg completes the pending exchange.
type submitFinishedMsg struct {
	receipt submit.Receipt
	err     error
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithSender overrides the submission transport.
func WithSender(s Sender) AppOption {
	return func(a *App) {
		if s != nil {
			a.sender = s
		}
	}
}

// WithScheduler overrides the debounce scheduler.
func WithScheduler(s *debounce.Scheduler) AppOption {
	return func(a *App) {
		if s != nil {
			a.scheduler = s
		}
	}
}

// App is the main application model. It holds the form state machine, the
// debounce bookkeeping, and the input widgets.
type App struct {
	controller *form.Controller
	scheduler  *debounce.Scheduler
	sender     Sender
	logbook    *logbook.Logbook

	nameInput    textinput.Model
	emailInput   textinput.Model
	messageInput textarea.Model
	spin         spinner.Model
	focus        focusTarget

	width  int
	height int
}

// NewApp wires the form controller, scheduler, transport, and widgets.
func NewApp(cfg *config.Config, lb *logbook.Logbook, opts ...AppOption) *App {
	settings := submit.SettingsFromConfig(cfg)

	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 120

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 120

	message := textarea.New()
	message.Placeholder = "What would you like to say? (at least 20 characters)"
	message.SetHeight(5)
	message.ShowLineNumbers = false

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))

	interval := debounce.DefaultInterval
	if cfg != nil {
		interval = cfg.DebounceInterval()
	}

	app := &App{
		controller:   form.NewController(),
		scheduler:    debounce.NewScheduler(interval),
		sender:       submit.NewClient(settings),
		logbook:      lb,
		nameInput:    name,
		emailInput:   email,
		messageInput: message,
		spin:         spin,
		focus:        focusName,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.nameInput.Focus()
	return app
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		inner := max(20, msg.Width-10)
		a.nameInput.Width = inner
		a.emailInput.Width = inner
		a.messageInput.SetWidth(inner)
		return a, nil

	case spinner.TickMsg:
		if a.controller.Lifecycle().Status() != form.StatusPending {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case debounceTickMsg:
		if !a.scheduler.Live(msg.token) {
			// A later edit superseded this timer; its result must not land.
			return a, nil
		}
		field := form.Field(msg.token.Field)
		a.controller.ApplyFieldError(field, form.ValidateField(field, msg.token.Value))
		return a, nil

	case submitFinishedMsg:
		return a, a.handleSubmitFinished(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			a.scheduler.CancelAll()
			a.logInfo("Session closed")
			return a, tea.Quit
		case "tab", "down":
			if msg.String() == "down" && a.focus == focusMessage {
				break // the textarea owns vertical movement
			}
			a.setFocus(a.nextFocus(1))
			return a, nil
		case "shift+tab", "up":
			if msg.String() == "up" && a.focus == focusMessage {
				break
			}
			a.setFocus(a.nextFocus(-1))
			return a, nil
		case "ctrl+s":
			return a, a.handleSubmit()
		case "enter":
			switch a.focus {
			case focusName, focusEmail:
				a.setFocus(a.nextFocus(1))
				return a, nil
			case focusSubmit:
				return a, a.handleSubmit()
			}
			// focusMessage: fall through, newline belongs to the textarea
		}
	}

	return a, a.routeToFocused(msg)
}

// routeToFocused hands the message to the focused widget and turns any
// change of its value into an edit event.
func (a *App) routeToFocused(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch a.focus {
	case focusName:
		a.nameInput, cmd = a.nameInput.Update(msg)
		cmds = append(cmds, cmd, a.recordEdit(form.FieldName, a.nameInput.Value()))
	case focusEmail:
		a.emailInput, cmd = a.emailInput.Update(msg)
		cmds = append(cmds, cmd, a.recordEdit(form.FieldEmail, a.emailInput.Value()))
	case focusMessage:
		a.messageInput, cmd = a.messageInput.Update(msg)
		cmds = append(cmds, cmd, a.recordEdit(form.FieldMessage, a.messageInput.Value()))
	}

	return tea.Batch(cmds...)
}

// recordEdit feeds a changed widget value into the controller and arms the
// field's debounce timer. Unchanged values (cursor movement, blink ticks)
// schedule nothing.
func (a *App) recordEdit(field form.Field, value string) tea.Cmd {
	if a.controller.Values()[field] == value {
		return nil
	}
	a.controller.Edit(field, value)
	token := a.scheduler.Schedule(string(field), value)
	return tea.Tick(a.scheduler.Interval(), func(time.Time) tea.Msg {
		return debounceTickMsg{token: token}
	})
}

// handleSubmit revalidates and, when the form is clean, launches the
// exchange. A submit while one is already pending is ignored.
func (a *App) handleSubmit() tea.Cmd {
	if a.controller.Lifecycle().Status() == form.StatusPending {
		return nil
	}
	payload, ok := a.controller.Submit()
	if !ok {
		a.logWarn("Submit blocked: %d field(s) invalid", len(a.controller.Errors()))
		return nil
	}
	a.scheduler.CancelAll()
	a.logInfo("Submitting form")
	send := func() tea.Msg {
		receipt, err := a.sender.Send(context.Background(), payload)
		return submitFinishedMsg{receipt: receipt, err: err}
	}
	return tea.Batch(a.spin.Tick, send)
}

func (a *App) handleSubmitFinished(msg submitFinishedMsg) tea.Cmd {
	a.controller.Finish(msg.err)
	if msg.err != nil {
		a.logAttempt(logbook.LevelError, msg, "Submission failed: %v", msg.err)
		return nil
	}
	a.logAttempt(logbook.LevelInfo, msg, "Submission accepted")
	// Typing while pending arms new timers; none of them may land on the
	// freshly reset form.
	a.scheduler.CancelAll()
	a.nameInput.Reset()
	a.emailInput.Reset()
	a.messageInput.Reset()
	a.setFocus(focusName)
	return nil
}

func (a *App) nextFocus(step int) focusTarget {
	const count = 4
	return focusTarget((int(a.focus) + step + count) % count)
}

func (a *App) setFocus(target focusTarget) {
	a.focus = target
	a.nameInput.Blur()
	a.emailInput.Blur()
	a.messageInput.Blur()
	switch target {
	case focusName:
		a.nameInput.Focus()
	case focusEmail:
		a.emailInput.Focus()
	case focusMessage:
		a.messageInput.Focus()
	}
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logAttempt(level logbook.Level, msg submitFinishedMsg, format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Attempt(level, msg.receipt.AttemptID, format, args...)
}
