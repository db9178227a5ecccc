package admintui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitmate/admin-console/internal/admintui/styles"
	"github.com/fitmate/admin-console/internal/messages"
	"github.com/fitmate/admin-console/internal/models"
	"github.com/fitmate/admin-console/internal/stats"
)

// membersView lists gym members with filtering and sorting.
type membersView struct {
	store *messages.Store

	cursor int
	scroll int

	filtering  bool
	query      string
	role       models.Role
	activeOnly bool
	sortBy     stats.UserSort
}

func newMembersView(store *messages.Store) *membersView {
	return &membersView{store: store}
}

func (v *membersView) Init() tea.Cmd {
	return nil
}

func (v *membersView) capturingInput() bool {
	return v.filtering
}

func (v *membersView) visible() []models.User {
	filtered := stats.FilterUsers(v.store.Users(), stats.UserFilter{
		Query:      v.query,
		Role:       v.role,
		ActiveOnly: v.activeOnly,
	})
	return stats.SortUsers(filtered, v.sortBy)
}

func (v *membersView) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if v.filtering {
		return v.handleFilterKey(keyMsg)
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.visible())-1 {
			v.cursor++
		}
	case "/":
		v.filtering = true
	case "t":
		v.cycleRole()
		v.cursor = 0
	case "a":
		v.activeOnly = !v.activeOnly
		v.cursor = 0
	case "n":
		v.sortBy = stats.SortByName
	case "d":
		v.sortBy = stats.SortByJoinDate
	case "esc", "backspace":
		if v.query != "" || v.role != "" || v.activeOnly {
			v.query = ""
			v.role = ""
			v.activeOnly = false
			v.cursor = 0
			return nil
		}
		return popViewCmd()
	}
	return nil
}

func (v *membersView) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "esc":
		v.filtering = false
		return nil
	case "backspace", "ctrl+h":
		if len(v.query) > 0 {
			runes := []rune(v.query)
			v.query = string(runes[:len(runes)-1])
		}
		v.cursor = 0
		return nil
	}
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		v.query += string(msg.Runes)
		v.cursor = 0
	}
	return nil
}

func (v *membersView) cycleRole() {
	switch v.role {
	case "":
		v.role = models.RoleTrainer
	case models.RoleTrainer:
		v.role = models.RoleTrainee
	default:
		v.role = ""
	}
}

func (v *membersView) View(width, height int, theme styles.Theme) string {
	if width <= 0 {
		return "loading..."
	}
	if !v.store.Loaded() {
		return theme.MutedStyle().Render("loading members...")
	}

	users := v.visible()
	if n := len(users); v.cursor >= n {
		v.cursor = maxInt(0, n-1)
	}

	filterLine := v.renderFilterLine(theme)
	tallyLine := v.renderTally(users, theme)
	rows := maxInt(1, height-2)
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
	if v.cursor >= v.scroll+rows {
		v.scroll = v.cursor - rows + 1
	}

	var lines []string
	if len(users) == 0 {
		lines = append(lines, theme.MutedStyle().Render("no members match"))
	}
	for i := v.scroll; i < len(users) && i < v.scroll+rows; i++ {
		user := users[i]
		status := "active"
		if !user.Active {
			status = "inactive"
		}
		line := fmt.Sprintf("%-24s %-28s %-8s %-8s joined %s",
			truncate(user.Name, 24), truncate(user.Email, 28), user.Role, status,
			user.JoinedAt.Format("2006-01-02"))
		line = truncate(line, width)
		if i == v.cursor {
			line = theme.SelectedStyle().Render(line)
		}
		lines = append(lines, line)
	}

	body := strings.Join(lines, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, filterLine, body, tallyLine)
}

func (v *membersView) renderFilterLine(theme styles.Theme) string {
	parts := []string{"/ filter", "t role", "a active", "n/d sort"}
	if v.filtering {
		return theme.TitleStyle().Render("filter: " + v.query + "▌")
	}
	if v.query != "" {
		parts = append([]string{fmt.Sprintf("filter=%q", v.query)}, parts...)
	}
	if v.role != "" {
		parts = append([]string{"role=" + string(v.role)}, parts...)
	}
	if v.activeOnly {
		parts = append([]string{"active-only"}, parts...)
	}
	return theme.MutedStyle().Render(strings.Join(parts, "  "))
}

func (v *membersView) renderTally(users []models.User, theme styles.Theme) string {
	tally := stats.TallyMembers(users)
	return theme.MutedStyle().Render(fmt.Sprintf(
		"%d members  %d trainers  %d trainees  %d active",
		tally.Total, tally.Trainers, tally.Trainees, tally.Active))
}
