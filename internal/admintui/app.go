// Package admintui is the bubbletea terminal UI for the FitMate admin
// console.
package admintui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/fitmate/admin-console/internal/admintui/styles"
	"github.com/fitmate/admin-console/internal/api"
	"github.com/fitmate/admin-console/internal/logging"
	"github.com/fitmate/admin-console/internal/messages"
	"github.com/fitmate/admin-console/internal/visibility"
)

const (
	defaultPollInterval = 30 * time.Second
	loadTimeout         = 30 * time.Second
)

type Theme string

const (
	ThemeDefault      Theme = "default"
	ThemeHighContrast Theme = "high-contrast"
)

type ViewID string

const (
	ViewDashboard ViewID = "dashboard"
	ViewInbox     ViewID = "inbox"
	ViewOutbox    ViewID = "outbox"
	ViewMembers   ViewID = "members"
	ViewEquipment ViewID = "equipment"
	ViewSchedule  ViewID = "schedule"
	ViewSettings  ViewID = "settings"
)

var viewSwitchKeys = map[string]ViewID{
	"D": ViewDashboard,
	"I": ViewInbox,
	"O": ViewOutbox,
	"M": ViewMembers,
	"E": ViewEquipment,
	"C": ViewSchedule,
	"S": ViewSettings,
}

// Config carries everything the console needs to talk to the backend.
type Config struct {
	ServerURL      string
	Token          string
	Theme          string
	PollInterval   time.Duration
	DwellDelay     time.Duration
	RequestTimeout time.Duration
}

type Model struct {
	client     *api.Client
	store      *messages.Store
	reconciler *messages.Reconciler

	theme        Theme
	pollInterval time.Duration
	dwellDelay   time.Duration

	width    int
	height   int
	showHelp bool

	toast toastState

	sessionExpired bool

	dashboardActive *atomic.Bool

	viewStack []ViewID
	views     map[ViewID]viewModel

	logger zerolog.Logger
}

// viewModel is the contract a screen implements. Update returns a command
// for the program; View renders into the given content box.
type viewModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int, theme styles.Theme) string
}

// inputCapturer marks a view that is consuming raw text input; while
// capturing, global view-switch keys stay out of its way.
type inputCapturer interface {
	capturingInput() bool
}

type pushViewMsg struct {
	id ViewID
}

type popViewMsg struct{}

type sessionExpiredMsg struct{}

type storeLoadedMsg struct {
	err error
}

func pushViewCmd(id ViewID) tea.Cmd {
	return func() tea.Msg {
		return pushViewMsg{id: id}
	}
}

func popViewCmd() tea.Cmd {
	return func() tea.Msg {
		return popViewMsg{}
	}
}

func sessionExpiredCmd() tea.Cmd {
	return func() tea.Msg {
		return sessionExpiredMsg{}
	}
}

func NewModel(cfg Config) (*Model, error) {
	normalized, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	client, err := api.New(api.Config{
		BaseURL: normalized.ServerURL,
		Token:   normalized.Token,
		Timeout: normalized.RequestTimeout,
	})
	if err != nil {
		return nil, err
	}

	store := messages.NewStore(client)

	m := &Model{
		client:          client,
		store:           store,
		reconciler:      messages.NewReconciler(store, client),
		theme:           Theme(normalized.Theme),
		pollInterval:    normalized.PollInterval,
		dwellDelay:      normalized.DwellDelay,
		dashboardActive: &atomic.Bool{},
		viewStack:       []ViewID{ViewDashboard},
		views:           make(map[ViewID]viewModel),
		logger:          logging.Component("admintui"),
	}
	m.dashboardActive.Store(true)
	m.initViews()
	return m, nil
}

// Run starts the console and blocks until it exits.
func Run(cfg Config) error {
	model, err := NewModel(cfg)
	if err != nil {
		return err
	}
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	if model.sessionExpired {
		return errors.New("session expired: log in again")
	}
	return nil
}

func (m *Model) Close() {
	for _, view := range m.views {
		if closer, ok := view.(interface{ Close() }); ok {
			closer.Close()
		}
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadStoreCmd(false)}
	if view := m.activeView(); view != nil {
		cmds = append(cmds, view.Init())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case sessionExpiredMsg:
		m.sessionExpired = true
		m.logger.Warn().Msg("session expired; shutting down")
		return m, tea.Quit
	case storeLoadedMsg:
		if typed.err != nil {
			if api.IsSessionExpired(typed.err) {
				return m, sessionExpiredCmd()
			}
			return m, toastErrorCmd(loadErrorText(typed.err))
		}
		if view := m.views[ViewInbox]; view != nil {
			return m, view.Update(msg)
		}
		return m, nil
	case seenMsg, markReadDoneMsg, replySentMsg:
		// Inbox bookkeeping continues while another view is on top.
		if view := m.views[ViewInbox]; view != nil {
			return m, view.Update(msg)
		}
		return m, nil
	case toastMsg, toastExpiredMsg:
		return m, m.toast.update(msg)
	case dashboardResultMsg:
		// Always lands on the dashboard view so the listen loop stays
		// armed while another view is on top.
		if view := m.views[ViewDashboard]; view != nil {
			return m, view.Update(typed)
		}
		return m, nil
	case pushViewMsg:
		m.pushView(typed.id)
		if view := m.activeView(); view != nil {
			return m, view.Init()
		}
		return m, nil
	case popViewMsg:
		m.popView()
		if view := m.activeView(); view != nil {
			return m, view.Init()
		}
		return m, nil
	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(typed); handled {
			return m, cmd
		}
	}

	if active := m.activeView(); active != nil {
		return m, active.Update(msg)
	}
	return m, nil
}

func (m *Model) View() string {
	active := m.activeView()
	if active == nil {
		return "no active view"
	}

	palette := m.palette()
	header := m.renderHeader(palette)
	footer := m.renderFooter(palette)
	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	body := active.View(m.width, contentHeight, palette)
	if overlay := m.toast.render(m.width, palette); overlay != "" {
		body = overlay + "\n" + body
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}

	if capturer, ok := m.activeView().(inputCapturer); ok && capturer.capturingInput() {
		return nil, false
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "?":
		m.showHelp = !m.showHelp
		return nil, true
	case "R":
		return m.loadStoreCmd(true), true
	}

	if next, ok := viewSwitchKeys[msg.String()]; ok {
		m.pushView(next)
		if view := m.activeView(); view != nil {
			return view.Init(), true
		}
		return nil, true
	}
	return nil, false
}

// loadStoreCmd fetches inbox, outbox and the member directory. A forced
// load replaces everything and drops in-flight read tracking.
func (m *Model) loadStoreCmd(force bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return storeLoadedMsg{err: m.store.Load(ctx, force)}
	}
}

func (m *Model) activeView() viewModel {
	return m.views[m.activeViewID()]
}

func (m *Model) activeViewID() ViewID {
	if len(m.viewStack) == 0 {
		return ViewDashboard
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *Model) pushView(id ViewID) {
	if id == "" {
		return
	}
	if _, ok := m.views[id]; !ok {
		return
	}
	if m.activeViewID() != id {
		m.viewStack = append(m.viewStack, id)
	}
	m.dashboardActive.Store(m.activeViewID() == ViewDashboard)
}

func (m *Model) popView() {
	if len(m.viewStack) > 1 {
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
	}
	m.dashboardActive.Store(m.activeViewID() == ViewDashboard)
}

func (m *Model) palette() styles.Theme {
	if palette, ok := styles.Themes[string(m.theme)]; ok {
		return palette
	}
	return styles.DefaultTheme
}

func (m *Model) initViews() {
	m.views[ViewDashboard] = newDashboardView(m.client.FetchDashboard, m.pollInterval, m.dashboardActive.Load)
	m.views[ViewInbox] = newInboxView(m.store, m.reconciler, m.client, visibility.WithDwell(m.dwellDelay))
	m.views[ViewOutbox] = newOutboxView(m.store)
	m.views[ViewMembers] = newMembersView(m.store)
	m.views[ViewEquipment] = newEquipmentView(m.client)
	m.views[ViewSchedule] = newScheduleView(m.client)
	m.views[ViewSettings] = newSettingsView(m.client)
}

func (c Config) normalize() (Config, error) {
	c.ServerURL = strings.TrimSpace(c.ServerURL)
	c.Token = strings.TrimSpace(c.Token)
	if c.ServerURL == "" {
		return Config{}, errors.New("server URL is required")
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.DwellDelay <= 0 {
		c.DwellDelay = visibility.DefaultDwell
	}
	if strings.TrimSpace(c.Theme) == "" {
		c.Theme = string(ThemeDefault)
	}
	switch Theme(c.Theme) {
	case ThemeDefault, ThemeHighContrast:
	default:
		return Config{}, fmt.Errorf("invalid theme %q", c.Theme)
	}
	return c, nil
}

func loadErrorText(err error) string {
	if api.IsTimeout(err) {
		return "backend timed out; retry with R"
	}
	return "could not load messages: " + err.Error()
}
