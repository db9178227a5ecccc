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
	"github.com/fitmate/admin-console/internal/stats"
)

type equipmentLister interface {
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
}

// equipmentView shows the equipment inventory, fetched on entry.
type equipmentView struct {
	client equipmentLister

	items   []models.Equipment
	loaded  bool
	lastErr error
	cursor  int
	scroll  int
}

type equipmentLoadedMsg struct {
	items []models.Equipment
	err   error
}

func newEquipmentView(client equipmentLister) *equipmentView {
	return &equipmentView{client: client}
}

func (v *equipmentView) Init() tea.Cmd {
	return v.fetchCmd()
}

func (v *equipmentView) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		items, err := v.client.ListEquipment(ctx)
		return equipmentLoadedMsg{items: items, err: err}
	}
}

func (v *equipmentView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case equipmentLoadedMsg:
		if typed.err != nil {
			v.lastErr = typed.err
			if api.IsSessionExpired(typed.err) {
				return sessionExpiredCmd()
			}
			return nil
		}
		v.items = typed.items
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
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case "r":
			return v.fetchCmd()
		case "esc", "backspace":
			return popViewCmd()
		}
	}
	return nil
}

func (v *equipmentView) View(width, height int, theme styles.Theme) string {
	if width <= 0 {
		return "loading..."
	}
	if v.lastErr != nil {
		return theme.MutedStyle().Render("could not load equipment: " + v.lastErr.Error())
	}
	if !v.loaded {
		return theme.MutedStyle().Render("loading equipment...")
	}
	if len(v.items) == 0 {
		return theme.MutedStyle().Render("no equipment registered")
	}

	rows := maxInt(1, height-1)
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
	if v.cursor >= v.scroll+rows {
		v.scroll = v.cursor - rows + 1
	}

	var lines []string
	for i := v.scroll; i < len(v.items) && i < v.scroll+rows; i++ {
		item := v.items[i]
		serviced := "never"
		if item.LastServicedAt != nil {
			serviced = item.LastServicedAt.Format("2006-01-02")
		}
		line := fmt.Sprintf("%-28s %-12s %-12s serviced %s",
			truncate(item.Name, 28), item.Category, statusLabel(item.Status), serviced)
		line = truncate(line, width)
		if i == v.cursor {
			line = theme.SelectedStyle().Render(line)
		} else if item.Status == models.EquipmentInRepair {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Status.Warn)).Render(line)
		}
		lines = append(lines, line)
	}

	tally := stats.TallyEquipment(v.items)
	footer := theme.MutedStyle().Render(fmt.Sprintf(
		"%d in service  %d in repair  %d retired  (r reload)",
		tally.InService, tally.InRepair, tally.Retired))
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"), footer)
}

func statusLabel(status models.EquipmentStatus) string {
	return strings.ReplaceAll(string(status), "-", " ")
}
