package admintui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitmate/admin-console/internal/admintui/styles"
	"github.com/fitmate/admin-console/internal/api"
	"github.com/fitmate/admin-console/internal/models"
	"github.com/fitmate/admin-console/internal/stats"
)

type scheduleLister interface {
	ListSchedule(ctx context.Context) ([]models.ScheduleEntry, error)
}

// scheduleView shows upcoming classes, fetched on entry.
type scheduleView struct {
	client scheduleLister

	entries []models.ScheduleEntry
	loaded  bool
	lastErr error
	cursor  int
	scroll  int

	showPast bool
}

type scheduleLoadedMsg struct {
	entries []models.ScheduleEntry
	err     error
}

func newScheduleView(client scheduleLister) *scheduleView {
	return &scheduleView{client: client}
}

func (v *scheduleView) Init() tea.Cmd {
	return v.fetchCmd()
}

func (v *scheduleView) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		entries, err := v.client.ListSchedule(ctx)
		return scheduleLoadedMsg{entries: entries, err: err}
	}
}

func (v *scheduleView) visible() []models.ScheduleEntry {
	if v.showPast {
		return v.entries
	}
	return stats.UpcomingEntries(v.entries, time.Now())
}

func (v *scheduleView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case scheduleLoadedMsg:
		if typed.err != nil {
			v.lastErr = typed.err
			if api.IsSessionExpired(typed.err) {
				return sessionExpiredCmd()
			}
			return nil
		}
		v.entries = typed.entries
		v.loaded = true
		v.lastErr = nil
		return nil
	case tea.KeyMsg:
		switch typed.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(v.visible())-1 {
				v.cursor++
			}
		case "p":
			v.showPast = !v.showPast
			v.cursor = 0
		case "r":
			return v.fetchCmd()
		case "esc", "backspace":
			return popViewCmd()
		}
	}
	return nil
}

func (v *scheduleView) View(width, height int, theme styles.Theme) string {
	if width <= 0 {
		return "loading..."
	}
	if v.lastErr != nil {
		return theme.MutedStyle().Render("could not load schedule: " + v.lastErr.Error())
	}
	if !v.loaded {
		return theme.MutedStyle().Render("loading schedule...")
	}

	entries := v.visible()
	if n := len(entries); v.cursor >= n {
		v.cursor = maxInt(0, n-1)
	}
	if len(entries) == 0 {
		return theme.MutedStyle().Render("no classes scheduled")
	}

	rows := maxInt(1, height-1)
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
	if v.cursor >= v.scroll+rows {
		v.scroll = v.cursor - rows + 1
	}

	var lines []string
	for i := v.scroll; i < len(entries) && i < v.scroll+rows; i++ {
		entry := entries[i]
		fill := fmt.Sprintf("%d/%d", entry.Booked, entry.Capacity)
		line := fmt.Sprintf("%s  %-24s %-10s %s",
			entry.StartsAt.Format("Mon Jan 2 15:04"), truncate(entry.Title, 24), entry.Room, fill)
		line = truncate(line, width)
		if i == v.cursor {
			line = theme.SelectedStyle().Render(line)
		} else if entry.Full() {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Status.Warn)).Render(line)
		}
		lines = append(lines, line)
	}

	footer := theme.MutedStyle().Render(fmt.Sprintf(
		"%d classes  %.0f%% booked  (p toggle past, r reload)",
		len(entries), stats.Occupancy(entries)*100))
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"), footer)
}
