package admintui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fitmate/admin-console/internal/admintui/styles"
	"github.com/fitmate/admin-console/internal/api"
	"github.com/fitmate/admin-console/internal/models"
	"github.com/fitmate/admin-console/internal/poller"
	"github.com/fitmate/admin-console/internal/stats"
)

// dashboardView renders the aggregate gym snapshot. It owns the background
// poller; polling pauses while another view is on top of the stack.
type dashboardView struct {
	poller  *poller.Poller
	results chan poller.Result

	snapshot    *models.DashboardSnapshot
	lastErr     error
	lastUpdated time.Time

	started   bool
	listening bool
}

type dashboardResultMsg struct {
	result poller.Result
}

func newDashboardView(fetch poller.FetchFunc, interval time.Duration, visible func() bool) *dashboardView {
	v := &dashboardView{
		results: make(chan poller.Result, 8),
	}
	v.poller = poller.New(poller.Config{
		Interval: interval,
		Visible:  visible,
		OnResult: v.enqueue,
	}, fetch)
	return v
}

func (v *dashboardView) enqueue(result poller.Result) {
	select {
	case v.results <- result:
	default:
	}
}

func (v *dashboardView) Close() {
	_ = v.poller.Stop()
}

func (v *dashboardView) Init() tea.Cmd {
	var cmds []tea.Cmd
	if !v.started {
		v.started = true
		_ = v.poller.Start(context.Background())
	}
	if !v.listening {
		v.listening = true
		cmds = append(cmds, v.listenCmd())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (v *dashboardView) listenCmd() tea.Cmd {
	return func() tea.Msg {
		return dashboardResultMsg{result: <-v.results}
	}
}

func (v *dashboardView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case dashboardResultMsg:
		return tea.Batch(v.applyResult(typed.result), v.listenCmd())
	case tea.KeyMsg:
		return v.handleKey(typed)
	}
	return nil
}

func (v *dashboardView) applyResult(result poller.Result) tea.Cmd {
	if result.Err != nil {
		v.lastErr = result.Err
		if api.IsSessionExpired(result.Err) {
			return sessionExpiredCmd()
		}
		if result.Manual {
			return toastErrorCmd(refreshErrorText(result.Err))
		}
		return nil
	}
	v.lastErr = nil
	v.snapshot = result.Snapshot
	v.lastUpdated = time.Now()
	if result.Manual {
		return toastCmd("dashboard refreshed")
	}
	return nil
}

func (v *dashboardView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "r":
		return v.refreshCmd()
	case "i", "enter":
		return pushViewCmd(ViewInbox)
	}
	return nil
}

func (v *dashboardView) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		err := v.poller.RefreshNow(context.Background())
		if err == poller.ErrRefreshInFlight {
			return toastMsg{text: "refresh already in progress"}
		}
		if err != nil {
			return toastMsg{text: "refresh failed: " + err.Error(), isErr: true}
		}
		return nil
	}
}

func (v *dashboardView) View(width, height int, theme styles.Theme) string {
	if width <= 0 {
		return "loading..."
	}
	if v.snapshot == nil {
		if v.lastErr != nil {
			return theme.MutedStyle().Render(refreshErrorText(v.lastErr))
		}
		return theme.MutedStyle().Render("loading dashboard...")
	}

	snap := v.snapshot
	title := theme.TitleStyle()
	muted := theme.MutedStyle()

	counters := []string{
		title.Render("Members"),
		fmt.Sprintf("  total %d  active %d  new this month %d",
			snap.TotalMembers, snap.ActiveMembers, snap.NewMembersThisMonth),
		fmt.Sprintf("  trainers %d  trainees %d", snap.TotalTrainers, snap.TotalTrainees),
		"",
		title.Render("Equipment"),
		fmt.Sprintf("  in service %d  in repair %d", snap.EquipmentInService, snap.EquipmentInRepair),
		"",
		title.Render("Billing"),
		fmt.Sprintf("  revenue this month %s", stats.FormatCents(snap.MonthlyRevenueCents, "USD")),
		fmt.Sprintf("  outstanding %s  due this week %d",
			stats.FormatCents(snap.OutstandingCents, "USD"), snap.PaymentsDueThisWeek),
		"",
		title.Render("Today"),
		fmt.Sprintf("  sessions scheduled %d", snap.SessionsScheduledToday),
	}
	left := lipgloss.JoinVertical(lipgloss.Left, counters...)

	var rightLines []string
	rightLines = append(rightLines, title.Render("Notifications"))
	if len(snap.Notifications) == 0 {
		rightLines = append(rightLines, muted.Render("  nothing new"))
	}
	for _, note := range snap.Notifications {
		rightLines = append(rightLines, "  • "+note.Text)
	}
	rightLines = append(rightLines, "", title.Render("Suggestions"))
	if len(snap.Suggestions) == 0 {
		rightLines = append(rightLines, muted.Render("  none"))
	}
	for _, hint := range snap.Suggestions {
		rightLines = append(rightLines, "  • "+hint.Text)
	}
	right := lipgloss.JoinVertical(lipgloss.Left, rightLines...)

	status := muted.Render(v.statusLine())
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, left, "", right, "", status)
	}

	leftWidth := clampInt(width*40/100, 30, 56)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(leftWidth).Render(left),
		right)
	return lipgloss.JoinVertical(lipgloss.Left, body, "", status)
}

func (v *dashboardView) statusLine() string {
	line := "r refresh"
	if !v.lastUpdated.IsZero() {
		line = fmt.Sprintf("updated %s  %s", v.lastUpdated.Format("15:04:05"), line)
	}
	if v.lastErr != nil && !api.IsSessionExpired(v.lastErr) {
		line = refreshErrorText(v.lastErr) + "  " + line
	}
	return line
}

func refreshErrorText(err error) string {
	if api.IsTimeout(err) {
		return "dashboard refresh timed out"
	}
	return "dashboard refresh failed: " + err.Error()
}
