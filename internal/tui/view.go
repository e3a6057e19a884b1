package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/postcard/internal/form"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)
	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelFocusedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#F7B801"))
	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	bannerOKStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4CAF50"))
	bannerErrorStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B"))
	bannerPendingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#5B8DEF"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1)
	submitStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 3).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444"))
	submitFocusedStyle = submitStyle.
				BorderForeground(lipgloss.Color("#F7B801")).
				Foreground(lipgloss.Color("#F7B801"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	logHeadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	logBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))
)

// View renders the current state to a string.
func (a *App) View() string {
	sections := []string{
		headerStyle.Render("✉ POSTCARD"),
		a.renderField(form.FieldName, a.nameInput.View(), focusName),
		a.renderField(form.FieldEmail, a.emailInput.View(), focusEmail),
		a.renderField(form.FieldMessage, a.messageInput.View(), focusMessage),
		a.renderSubmitRow(),
		a.renderBanner(),
	}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	sections = append(sections, hintStyle.Render("Tab → next field    Ctrl+S → send    Esc → quit"))
	return boxStyle.Render(strings.Join(sections, "\n"))
}

func (a *App) renderField(field form.Field, inputView string, target focusTarget) string {
	label := labelStyle
	if a.focus == target {
		label = labelFocusedStyle
	}
	lines := []string{label.Render(field.Label()), inputView}
	if msg, ok := a.controller.Errors()[field]; ok {
		lines = append(lines, fieldErrorStyle.Render("✗ "+msg))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func (a *App) renderSubmitRow() string {
	style := submitStyle
	if a.focus == focusSubmit {
		style = submitFocusedStyle
	}
	label := "Send"
	if a.controller.Lifecycle().Status() == form.StatusPending {
		label = "Sending"
	}
	return style.Render(label)
}

// renderBanner shows the lifecycle status line: nothing while idle, the
// spinner while pending, and the success or failure message otherwise.
func (a *App) renderBanner() string {
	lifecycle := a.controller.Lifecycle()
	switch lifecycle.Status() {
	case form.StatusPending:
		return bannerPendingStyle.Render(fmt.Sprintf("%s Sending your message...", a.spin.View()))
	case form.StatusOK:
		return bannerOKStyle.Render("✓ " + lifecycle.Message())
	case form.StatusError:
		return bannerErrorStyle.Render("✗ " + lifecycle.Message())
	}
	return ""
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(4)
	if len(lines) == 0 {
		return ""
	}
	head := logHeadStyle.Render("ACTIVITY")
	body := logBodyStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}
