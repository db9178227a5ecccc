package admintui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fitmate/admin-console/internal/admintui/styles"
)

func (m *Model) renderHeader(palette styles.Theme) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(palette.Base.Foreground)).
		Background(lipgloss.Color(palette.Chrome.Header)).
		Bold(true).
		Padding(0, 1)

	left := "FitMate Admin"
	center := string(m.activeViewID())
	right := ""
	if unread := m.store.UnreadCount(); unread > 0 {
		right = fmt.Sprintf("%d unread", unread)
	}
	return style.Width(maxInt(0, m.width)).Render(joinHeader(left, center, right, m.width-2))
}

func (m *Model) renderFooter(palette styles.Theme) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(palette.Base.Foreground)).
		Background(lipgloss.Color(palette.Chrome.Footer)).
		Padding(0, 1)

	base := "[D]ashboard [I]nbox [O]utbox [M]embers [E]quipment [C]lasses [S]ettings [?]Help q Quit"
	if m.showHelp {
		base = base + "  (R reload, esc back, arrows/jk move)"
	}
	return style.Width(maxInt(0, m.width)).Render(truncate(base, maxInt(0, m.width-2)))
}

func joinHeader(left, center, right string, width int) string {
	left = strings.TrimSpace(left)
	center = strings.TrimSpace(center)
	right = strings.TrimSpace(right)
	if width <= 0 {
		return left
	}

	space := width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if space < 2 {
		line := left
		if right != "" {
			line = left + "  " + right
		}
		return truncate(line, width)
	}

	leftGap := space / 2
	rightGap := space - leftGap
	return truncate(left+strings.Repeat(" ", leftGap)+center+strings.Repeat(" ", rightGap)+right, width)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
