package admintui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitmate/admin-console/internal/admintui/styles"
)

const toastDuration = 4 * time.Second

type toastMsg struct {
	text  string
	isErr bool
}

type toastExpiredMsg struct {
	seq int
}

// toastState holds the transient one-line notice at the top of the
// content area. The sequence number keeps a stale expiry from clearing
// a newer toast.
type toastState struct {
	text  string
	isErr bool
	seq   int
}

func toastCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{text: text}
	}
}

func toastErrorCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return toastMsg{text: text, isErr: true}
	}
}

func (t *toastState) update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case toastMsg:
		t.text = typed.text
		t.isErr = typed.isErr
		t.seq++
		seq := t.seq
		return tea.Tick(toastDuration, func(time.Time) tea.Msg {
			return toastExpiredMsg{seq: seq}
		})
	case toastExpiredMsg:
		if typed.seq == t.seq {
			t.text = ""
		}
		return nil
	}
	return nil
}

func (t *toastState) render(width int, palette styles.Theme) string {
	if t.text == "" {
		return ""
	}
	color := palette.Chrome.Toast
	if t.isErr {
		color = palette.Chrome.ToastError
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(palette.Base.Background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
	return style.Width(maxInt(0, width)).Render(truncate(t.text, maxInt(0, width-2)))
}
