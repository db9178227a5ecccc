package admintui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitmate/admin-console/internal/admintui/styles"
	"github.com/fitmate/admin-console/internal/api"
	"github.com/fitmate/admin-console/internal/models"
)

type settingsClient interface {
	FetchSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, settings *models.Settings) error
}

type settingsField int

const (
	fieldGymName settingsField = iota
	fieldCurrency
	fieldOpeningHours
	fieldNotifyNewMember
	fieldNotifyPaymentDue
	settingsFieldCount
)

// settingsView shows gym settings and lets the admin edit them in place.
type settingsView struct {
	client settingsClient

	current *models.Settings
	lastErr error

	editing bool
	draft   models.Settings
	focus   settingsField
	saving  bool
}

type settingsLoadedMsg struct {
	settings *models.Settings
	err      error
}

type settingsSavedMsg struct {
	settings *models.Settings
	err      error
}

func newSettingsView(client settingsClient) *settingsView {
	return &settingsView{client: client}
}

func (v *settingsView) Init() tea.Cmd {
	return v.fetchCmd()
}

func (v *settingsView) capturingInput() bool {
	return v.editing
}

func (v *settingsView) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		settings, err := v.client.FetchSettings(ctx)
		return settingsLoadedMsg{settings: settings, err: err}
	}
}

func (v *settingsView) saveCmd() tea.Cmd {
	draft := v.draft
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := v.client.UpdateSettings(ctx, &draft)
		return settingsSavedMsg{settings: &draft, err: err}
	}
}

func (v *settingsView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case settingsLoadedMsg:
		if typed.err != nil {
			v.lastErr = typed.err
			if api.IsSessionExpired(typed.err) {
				return sessionExpiredCmd()
			}
			return nil
		}
		v.current = typed.settings
		v.lastErr = nil
		return nil
	case settingsSavedMsg:
		v.saving = false
		if typed.err != nil {
			if api.IsSessionExpired(typed.err) {
				return sessionExpiredCmd()
			}
			return toastErrorCmd("save failed: " + typed.err.Error())
		}
		v.current = typed.settings
		v.editing = false
		return toastCmd("settings saved")
	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(typed)
		}
		return v.handleKey(typed)
	}
	return nil
}

func (v *settingsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "e":
		if v.current != nil {
			v.editing = true
			v.draft = *v.current
			v.focus = fieldGymName
		}
	case "r":
		return v.fetchCmd()
	case "esc", "backspace":
		return popViewCmd()
	}
	return nil
}

func (v *settingsView) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	if v.saving {
		return nil
	}
	switch msg.String() {
	case "esc":
		v.editing = false
		return nil
	case "tab", "down":
		v.focus = settingsField((int(v.focus) + 1) % int(settingsFieldCount))
		return nil
	case "shift+tab", "up":
		v.focus = settingsField((int(v.focus) + int(settingsFieldCount) - 1) % int(settingsFieldCount))
		return nil
	case "enter":
		if err := v.draft.Validate(); err != nil {
			return toastErrorCmd(err.Error())
		}
		v.saving = true
		return v.saveCmd()
	case "backspace", "ctrl+h":
		v.editField(func(s string) string {
			if len(s) == 0 {
				return s
			}
			runes := []rune(s)
			return string(runes[:len(runes)-1])
		})
		return nil
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		r := string(msg.Runes)
		switch v.focus {
		case fieldNotifyNewMember:
			v.draft.NotifyOnNewMember = !v.draft.NotifyOnNewMember
		case fieldNotifyPaymentDue:
			v.draft.NotifyOnPaymentDue = !v.draft.NotifyOnPaymentDue
		default:
			v.editField(func(s string) string { return s + r })
		}
	}
	return nil
}

func (v *settingsView) editField(edit func(string) string) {
	switch v.focus {
	case fieldGymName:
		v.draft.GymName = edit(v.draft.GymName)
	case fieldCurrency:
		v.draft.Currency = strings.ToUpper(edit(v.draft.Currency))
	case fieldOpeningHours:
		v.draft.OpeningHours = edit(v.draft.OpeningHours)
	}
}

func (v *settingsView) View(width, height int, theme styles.Theme) string {
	if width <= 0 {
		return "loading..."
	}
	if v.lastErr != nil {
		return theme.MutedStyle().Render("could not load settings: " + v.lastErr.Error())
	}
	if v.current == nil {
		return theme.MutedStyle().Render("loading settings...")
	}

	shown := *v.current
	if v.editing {
		shown = v.draft
	}

	lines := []string{
		theme.TitleStyle().Render("Gym Settings"),
		v.renderField(fieldGymName, "Gym name", shown.GymName, theme),
		v.renderField(fieldCurrency, "Currency", shown.Currency, theme),
		v.renderField(fieldOpeningHours, "Opening hours", shown.OpeningHours, theme),
		v.renderField(fieldNotifyNewMember, "Notify on new member", onOff(shown.NotifyOnNewMember), theme),
		v.renderField(fieldNotifyPaymentDue, "Notify on payment due", onOff(shown.NotifyOnPaymentDue), theme),
		"",
	}
	if v.editing {
		status := "tab next field, space toggles, enter save, esc cancel"
		if v.saving {
			status = "saving..."
		}
		lines = append(lines, theme.MutedStyle().Render(status))
	} else {
		lines = append(lines, theme.MutedStyle().Render("e edit, r reload"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *settingsView) renderField(field settingsField, label, value string, theme styles.Theme) string {
	line := fmt.Sprintf("  %-24s %s", label, value)
	if v.editing && v.focus == field {
		return theme.SelectedStyle().Render(line + "▌")
	}
	return line
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
