// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pulseui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/pulse/lib/pulseapi"
	"github.com/bureau-foundation/pulse/lib/tui"
)

// The seeded development backend creates user0..userN, all with this
// password. The form starts filled in with the first of them.
const (
	defaultLoginUsername = "user0"
	defaultLoginPassword = "password"
)

// LoginForm collects credentials. Tab moves between fields; Enter on
// the password field submits.
type LoginForm struct {
	username textinput.Model
	password textinput.Model
	focus    int

	// notice is the result of the last attempt.
	notice  string
	failed  bool
	pending bool
}

func newLoginForm(theme tui.Theme) LoginForm {
	username := textinput.New()
	username.Prompt = "Username: "
	username.CharLimit = 150
	username.SetValue(defaultLoginUsername)
	username.PromptStyle = lipgloss.NewStyle().Foreground(theme.FaintText)
	username.TextStyle = lipgloss.NewStyle().Foreground(theme.NormalText)

	password := textinput.New()
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.SetValue(defaultLoginPassword)
	password.PromptStyle = username.PromptStyle
	password.TextStyle = username.TextStyle

	form := LoginForm{username: username, password: password}
	form.username.Focus()
	return form
}

// Credentials returns what the form holds, username trimmed.
func (form LoginForm) Credentials() pulseapi.Credentials {
	return pulseapi.Credentials{
		Username: strings.TrimSpace(form.username.Value()),
		Password: form.password.Value(),
	}
}

// update applies a key press. submit is true when the user asked to
// log in.
func (form LoginForm) update(message tea.KeyMsg) (LoginForm, tea.Cmd, bool) {
	switch message.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		form.setFocus(1 - form.focus)
		return form, nil, false
	case tea.KeyEnter:
		if form.focus == 0 {
			form.setFocus(1)
			return form, nil, false
		}
		return form, nil, true
	}

	var command tea.Cmd
	if form.focus == 0 {
		form.username, command = form.username.Update(message)
	} else {
		form.password, command = form.password.Update(message)
	}
	return form, command, false
}

func (form *LoginForm) setFocus(field int) {
	form.focus = field
	if field == 0 {
		form.password.Blur()
		form.username.Focus()
	} else {
		form.username.Blur()
		form.password.Focus()
	}
}

func (form LoginForm) view(theme tui.Theme, currentUser string, width, height int) string {
	title := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Log in to Pulse")
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	session := "Browsing anonymously."
	if currentUser != "" {
		session = "Logged in as " + currentUser + "."
	}
	lines := []string{title, faint.Render(session), "", form.username.View(), form.password.View(), ""}

	switch {
	case form.pending:
		lines = append(lines, faint.Render("Logging in…"))
	case form.failed:
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.ErrorText).Render(form.notice))
	case form.notice != "":
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Liked).Render(form.notice))
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(theme.HelpText).Render("Tab switch field · Enter log in · Esc back"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	return placeCentered(width, height, box)
}
