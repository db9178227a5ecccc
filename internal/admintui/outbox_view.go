package admintui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fitmate/admin-console/internal/admintui/styles"
	"github.com/fitmate/admin-console/internal/messages"
)

// outboxView lists sent messages, newest first.
type outboxView struct {
	store  *messages.Store
	cursor int
	scroll int
}

func newOutboxView(store *messages.Store) *outboxView {
	return &outboxView{store: store}
}

func (v *outboxView) Init() tea.Cmd {
	return nil
}

func (v *outboxView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.store.Outbox())-1 {
			v.cursor++
		}
	case "esc", "backspace":
		return popViewCmd()
	}
	return nil
}

func (v *outboxView) View(width, height int, theme styles.Theme) string {
	if width <= 0 {
		return "loading..."
	}
	outbox := v.store.Outbox()
	if !v.store.Loaded() {
		return theme.MutedStyle().Render("loading messages...")
	}
	if len(outbox) == 0 {
		return theme.MutedStyle().Render("no sent messages")
	}

	if n := len(outbox); v.cursor >= n {
		v.cursor = n - 1
	}
	rows := maxInt(1, height/inboxRowHeight)
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
	if v.cursor >= v.scroll+rows {
		v.scroll = v.cursor - rows + 1
	}

	var lines []string
	for i := v.scroll; i < len(outbox) && i < v.scroll+rows; i++ {
		msg := outbox[i]
		header := fmt.Sprintf("%s  %s", msg.CreatedAt.Format("Jan 2 15:04"), msg.Sender.Name)
		snippet := "  " + firstLine(msg.Body)
		header = truncate(header, width)
		snippet = truncate(snippet, width)
		if i == v.cursor {
			style := theme.SelectedStyle()
			lines = append(lines, style.Render(header), style.Render(snippet))
		} else {
			lines = append(lines, theme.MutedStyle().Render(header), snippet)
		}
	}
	return strings.Join(lines, "\n")
}
