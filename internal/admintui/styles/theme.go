package styles

import "github.com/charmbracelet/lipgloss"

// BaseColors defines global UI colors.
type BaseColors struct {
	Background string
	Foreground string
	Muted      string
	Accent     string
	Border     string
}

// StatusColors defines colors for health and freshness cues.
type StatusColors struct {
	Good  string
	Warn  string
	Bad   string
	Stale string
}

// MessageColors defines colors for inbox rows.
type MessageColors struct {
	Unread string
	Read   string
	Own    string
}

// ChromeColors defines non-content UI colors.
type ChromeColors struct {
	Header       string
	Footer       string
	SelectedItem string
	Toast        string
	ToastError   string
}

// Theme defines the admin console style tokens.
type Theme struct {
	Name string

	Base    BaseColors
	Status  StatusColors
	Message MessageColors
	Chrome  ChromeColors
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// TitleStyle renders panel titles.
func (t Theme) TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Accent)).Bold(true)
}

// MutedStyle renders secondary text.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Muted))
}

// SelectedStyle renders the cursor row in lists.
func (t Theme) SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.Base.Background)).
		Background(lipgloss.Color(t.Chrome.SelectedItem))
}

// UnreadStyle highlights unread messages.
func (t Theme) UnreadStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Message.Unread)).Bold(true)
}
