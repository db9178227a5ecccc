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
	"github.com/fitmate/admin-console/internal/messages"
	"github.com/fitmate/admin-console/internal/models"
	"github.com/fitmate/admin-console/internal/visibility"
)

// Each inbox row takes two terminal lines: a header and a body snippet.
const inboxRowHeight = 2

const requestTimeout = 15 * time.Second

type messageSender interface {
	SendMessage(ctx context.Context, recipientID, body string) (*models.Message, error)
}

// inboxView lists received messages. Unread rows are watched by the
// visibility observer: once a row has been at least half visible for the
// dwell delay it is marked read on the backend, and the local flag only
// flips after the backend confirms.
type inboxView struct {
	store      *messages.Store
	reconciler *messages.Reconciler
	sender     messageSender
	observer   *visibility.Observer

	seen      chan string
	listening bool

	cursor int
	scroll int

	observed map[string]bool

	compose composeState
}

type composeState struct {
	active        bool
	recipientID   string
	recipientName string
	body          string
	sending       bool
}

type seenMsg struct {
	id string
}

type markReadDoneMsg struct {
	id  string
	err error
}

type replySentMsg struct {
	sent *models.Message
	err  error
}

func newInboxView(store *messages.Store, reconciler *messages.Reconciler, sender messageSender, opts ...visibility.Option) *inboxView {
	v := &inboxView{
		store:      store,
		reconciler: reconciler,
		sender:     sender,
		seen:       make(chan string, 16),
		observed:   make(map[string]bool),
	}
	v.observer = visibility.New(v.enqueueSeen, opts...)
	return v
}

// enqueueSeen runs on the observer's timer goroutine; it hands the id to
// the bubbletea loop without blocking.
func (v *inboxView) enqueueSeen(id string) {
	select {
	case v.seen <- id:
	default:
	}
}

func (v *inboxView) Close() {
	v.observer.Close()
}

func (v *inboxView) capturingInput() bool {
	return v.compose.active
}

func (v *inboxView) Init() tea.Cmd {
	if v.listening {
		return nil
	}
	v.listening = true
	return v.listenSeenCmd()
}

func (v *inboxView) listenSeenCmd() tea.Cmd {
	return func() tea.Msg {
		return seenMsg{id: <-v.seen}
	}
}

func (v *inboxView) Update(msg tea.Msg) tea.Cmd {
	switch typed := msg.(type) {
	case storeLoadedMsg:
		// A fresh load replaces the message list wholesale; rows start a
		// new observation lifetime.
		v.resetObserved()
		v.clampCursor()
		return nil
	case seenMsg:
		return tea.Batch(v.markReadCmd(typed.id), v.listenSeenCmd())
	case markReadDoneMsg:
		if typed.err != nil && api.IsSessionExpired(typed.err) {
			return sessionExpiredCmd()
		}
		return nil
	case replySentMsg:
		return v.applyReplySent(typed)
	case tea.KeyMsg:
		if v.compose.active {
			return v.handleComposeKey(typed)
		}
		return v.handleKey(typed)
	}
	return nil
}

func (v *inboxView) markReadCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return markReadDoneMsg{id: id, err: v.reconciler.MarkAsRead(ctx, id)}
	}
}

func (v *inboxView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		return nil
	case "down", "j":
		if v.cursor < len(v.store.Inbox())-1 {
			v.cursor++
		}
		return nil
	case "g", "home":
		v.cursor = 0
		return nil
	case "G", "end":
		v.cursor = maxInt(0, len(v.store.Inbox())-1)
		return nil
	case "enter":
		return v.startReply()
	case "esc", "backspace":
		return popViewCmd()
	}
	return nil
}

// startReply opens the compose overlay for the selected message and marks
// it read explicitly; opening a reply is a deliberate read.
func (v *inboxView) startReply() tea.Cmd {
	inbox := v.store.Inbox()
	if v.cursor >= len(inbox) {
		return nil
	}
	selected := inbox[v.cursor]
	v.openCompose(selected.Sender.ID, selected.Sender.Name)
	if selected.IsRead {
		return nil
	}
	return v.markReadCmd(selected.ID)
}

func (v *inboxView) openCompose(recipientID, recipientName string) {
	v.compose = composeState{
		active:        true,
		recipientID:   recipientID,
		recipientName: recipientName,
	}
}

func (v *inboxView) handleComposeKey(msg tea.KeyMsg) tea.Cmd {
	if v.compose.sending {
		return nil
	}
	switch msg.String() {
	case "esc":
		v.compose = composeState{}
		return nil
	case "enter":
		return v.sendReplyCmd()
	case "backspace", "ctrl+h":
		if len(v.compose.body) > 0 {
			runes := []rune(v.compose.body)
			v.compose.body = string(runes[:len(runes)-1])
		}
		return nil
	}
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		v.compose.body += string(msg.Runes)
	}
	return nil
}

func (v *inboxView) sendReplyCmd() tea.Cmd {
	body := strings.TrimSpace(v.compose.body)
	if body == "" {
		return nil
	}
	v.compose.sending = true
	recipient := v.compose.recipientID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sent, err := v.sender.SendMessage(ctx, recipient, body)
		return replySentMsg{sent: sent, err: err}
	}
}

func (v *inboxView) applyReplySent(msg replySentMsg) tea.Cmd {
	v.compose.sending = false
	if msg.err != nil {
		if api.IsSessionExpired(msg.err) {
			return sessionExpiredCmd()
		}
		return toastErrorCmd("send failed: " + msg.err.Error())
	}
	if msg.sent != nil {
		v.store.AppendOutbox(*msg.sent)
	}
	v.compose = composeState{}
	return toastCmd("reply sent")
}

func (v *inboxView) View(width, height int, theme styles.Theme) string {
	if width <= 0 {
		return "loading..."
	}
	inbox := v.store.Inbox()
	if !v.store.Loaded() {
		return theme.MutedStyle().Render("loading messages...")
	}
	if len(inbox) == 0 {
		return theme.MutedStyle().Render("inbox is empty")
	}

	v.clampCursor()
	rows := maxInt(1, height/inboxRowHeight)
	if v.cursor < v.scroll {
		v.scroll = v.cursor
	}
	if v.cursor >= v.scroll+rows {
		v.scroll = v.cursor - rows + 1
	}

	v.syncVisibility(inbox, rows, height)

	var lines []string
	for i := v.scroll; i < len(inbox) && i < v.scroll+rows; i++ {
		lines = append(lines, v.renderRow(inbox[i], i == v.cursor, width, theme))
	}
	body := strings.Join(lines, "\n")

	if v.compose.active {
		return lipgloss.JoinVertical(lipgloss.Left, body, "", v.renderCompose(width, theme))
	}
	return body
}

// syncVisibility tells the observer which unread rows are on screen and
// how much of each row is actually shown.
func (v *inboxView) syncVisibility(inbox []models.Message, rows, height int) {
	unread := make(map[string]bool, len(inbox))
	for i, msg := range inbox {
		if msg.IsRead {
			continue
		}
		unread[msg.ID] = true
		if !v.observed[msg.ID] {
			v.observer.Observe(msg.ID)
			v.observed[msg.ID] = true
		}

		fraction := 0.0
		if i >= v.scroll && i < v.scroll+rows {
			fraction = 1.0
			// The last row may be clipped by the content box.
			rowTop := (i - v.scroll) * inboxRowHeight
			visibleLines := minInt(inboxRowHeight, height-rowTop)
			if visibleLines < inboxRowHeight {
				fraction = float64(visibleLines) / float64(inboxRowHeight)
			}
		}
		v.observer.Report(msg.ID, fraction)
	}

	for id := range v.observed {
		if !unread[id] {
			v.observer.Unobserve(id)
			delete(v.observed, id)
		}
	}
}

func (v *inboxView) resetObserved() {
	for id := range v.observed {
		v.observer.Unobserve(id)
		delete(v.observed, id)
	}
}

func (v *inboxView) clampCursor() {
	if n := len(v.store.Inbox()); v.cursor >= n {
		v.cursor = maxInt(0, n-1)
	}
}

func (v *inboxView) renderRow(msg models.Message, selected bool, width int, theme styles.Theme) string {
	marker := " "
	headerStyle := theme.MutedStyle()
	if !msg.IsRead {
		marker = "●"
		headerStyle = theme.UnreadStyle()
	}

	header := fmt.Sprintf("%s %s (%s)  %s",
		marker, msg.Sender.Name, msg.Sender.Role, msg.CreatedAt.Format("Jan 2 15:04"))
	snippet := "  " + firstLine(msg.Body)

	header = truncate(header, width)
	snippet = truncate(snippet, width)
	if selected {
		style := theme.SelectedStyle()
		return style.Render(header) + "\n" + style.Render(snippet)
	}
	return headerStyle.Render(header) + "\n" + snippet
}

func (v *inboxView) renderCompose(width int, theme styles.Theme) string {
	title := theme.TitleStyle().Render("Reply to " + v.compose.recipientName)
	status := "enter send, esc cancel"
	if v.compose.sending {
		status = "sending..."
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		truncate("> "+v.compose.body+"▌", width),
		theme.MutedStyle().Render(status),
	)
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
