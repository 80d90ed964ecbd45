package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/saae/almox/internal/config"
	"github.com/saae/almox/internal/services/reporting"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/tui/views"
	"github.com/saae/almox/internal/tui/views/alerts"
	"github.com/saae/almox/internal/tui/views/equipment"
	"github.com/saae/almox/internal/tui/views/history"
	"github.com/saae/almox/internal/tui/views/staff"
	"github.com/saae/almox/internal/tui/views/stats"
	"github.com/saae/almox/internal/tui/views/stock"
	"github.com/saae/almox/internal/util"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// MaxContentWidth is the maximum width for content display
const MaxContentWidth = 120

// chromeLines is the header, its rule, the status line, the footer rule
// and the footer.
const chromeLines = 6

// maxNotices bounds the status line history.
const maxNotices = 10

// App is the main Bubble Tea application model.
type App struct {
	store   *store.Store
	reports *reporting.Service
	config  *config.Config
	clock   util.Clock
	log     *slog.Logger

	screens map[Module]views.View

	// UI state
	theme    *Theme
	keys     KeyMap
	width    int
	height   int
	ready    bool
	quitting bool
	now      time.Time

	currentModule  Module
	previousModule Module

	// dialog is the open confirmation, if any.
	dialog *dialog

	notices []Notice
}

// dialog is a pending yes/no question. A quit dialog ends the program.
type dialog struct {
	views.ConfirmMsg
	quit bool
}

// Notice is a message on the status line.
type Notice struct {
	Level   NoticeLevel
	Message string
	Time    time.Time
}

// NoticeLevel indicates the severity of a notice.
type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeWarning
	NoticeError
)

// tickMsg is sent periodically to update the clock.
type tickMsg time.Time

// New creates a new App instance.
func New(s *store.Store, svc *reporting.Service, cfg *config.Config, clock util.Clock, logger *slog.Logger) *App {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	theme := NewTheme(cfg.Display.ColorScheme)
	screens := map[Module]views.View{
		ModuleItems:     stock.NewItemsView(s),
		ModulePumps:     equipment.NewPumpsView(s),
		ModuleMovements: history.NewMovementsView(s),
		ModuleAlerts:    alerts.NewAlertsView(s),
		ModuleUsers:     staff.NewUsersView(s),
		ModuleReports:   stats.NewReportsView(svc),
	}
	for _, v := range screens {
		v.SetPalette(theme.Palette())
	}

	return &App{
		store:         s,
		reports:       svc,
		config:        cfg,
		clock:         clock,
		log:           logger,
		screens:       screens,
		theme:         theme,
		keys:          DefaultKeyMap(),
		now:           clock.Now(),
		currentModule: ModuleDashboard,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(),
	)
}

// tickCmd returns a command that sends tick messages.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tickMsg:
		a.now = a.clock.Now()
		return a, tickCmd()

	case views.ResultMsg:
		switch {
		case msg.Err != nil:
			a.log.Warn("operation failed", "module", a.currentModule, "error", msg.Err)
			a.AddNotice(NoticeError, msg.Err.Error())
		case msg.Text != "":
			a.log.Info(msg.Text, "module", a.currentModule)
			a.AddNotice(NoticeInfo, msg.Text)
		}
		a.refreshAll()
		if n := a.store.SaveFailures(); n > 0 {
			a.AddNotice(NoticeWarning, fmt.Sprintf("Changes are not being saved (%d failed writes)", n))
		}
		return a, nil

	case views.ConfirmMsg:
		a.dialog = &dialog{ConfirmMsg: msg}
		return a, nil
	}

	if v := a.currentView(); v != nil {
		return a, v.Update(msg)
	}
	return a, nil
}

// handleKeyPress processes key press events.
func (a *App) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Modal takes priority
	if a.dialog != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			d := a.dialog
			a.dialog = nil
			if d.quit {
				a.quitting = true
				return tea.Quit
			}
			return d.OnYes
		case "n", "N", "esc":
			a.dialog = nil
		}
		return nil
	}

	// Forms and search boxes need all input
	view := a.currentView()
	if view != nil && view.Capturing() {
		return view.Update(msg)
	}

	if a.keys.IsQuit(msg) {
		a.dialog = &dialog{
			ConfirmMsg: views.ConfirmMsg{Title: "CONFIRM EXIT", Prompt: "Are you sure you want to exit?"},
			quit:       true,
		}
		return nil
	}

	if module, ok := a.keys.ModuleFor(msg); ok {
		a.switchTo(module)
		return nil
	}

	if a.keys.Back.Matches(msg) {
		if view != nil && view.Back() {
			return nil
		}
		if a.previousModule != "" {
			a.currentModule, a.previousModule = a.previousModule, ""
		}
		return nil
	}

	if view != nil {
		return view.Update(msg)
	}
	return nil
}

// switchTo makes module current and reloads its screen.
func (a *App) switchTo(module Module) {
	if module == a.currentModule {
		return
	}
	a.previousModule = a.currentModule
	a.currentModule = module
	if v := a.currentView(); v != nil {
		v.Refresh()
	}
}

func (a *App) currentView() views.View {
	return a.screens[a.currentModule]
}

func (a *App) refreshAll() {
	for _, v := range a.screens {
		v.Refresh()
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	if a.quitting {
		return a.theme.Title.Render(a.config.Warehouse.Name + " shutting down...")
	}

	var b strings.Builder

	b.WriteString(a.renderHeader())
	b.WriteString("\n")

	b.WriteString(a.renderStatusLine())
	b.WriteString("\n")

	height := ContentHeight(a.height, chromeLines)
	if a.dialog != nil {
		b.WriteString(a.renderConfirmDialog(height))
	} else {
		b.WriteString(a.renderContent(height))
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	return b.String()
}

// renderHeader renders the top header bar.
func (a *App) renderHeader() string {
	title := fmt.Sprintf("ALMOX v%s  %s", Version, a.currentModule.Title())

	info := fmt.Sprintf("%s | LOW STOCK: %d | OPEN ALERTS: %d",
		a.config.Warehouse.Name,
		len(a.store.LowStockItems()),
		len(a.store.PendingAlerts()),
	)

	spacing := max(a.width-lipgloss.Width(title)-lipgloss.Width(info)-4, 1)

	header := a.theme.Header.Render(title) +
		strings.Repeat(" ", spacing) +
		a.theme.Header.Render(info)

	return header + "\n" + a.theme.DrawDoubleLine(a.width)
}

// renderStatusLine shows the clock and the latest notice.
func (a *App) renderStatusLine() string {
	stamp := a.now.Format(a.config.Display.DateFormat + " " + a.config.Display.TimeFormat)

	var text string
	if len(a.notices) > 0 {
		n := a.notices[0]
		switch n.Level {
		case NoticeError:
			text = a.theme.NoticeErr.Render("ERROR: " + n.Message)
		case NoticeWarning:
			text = a.theme.NoticeWarn.Render("WARNING: " + n.Message)
		default:
			text = a.theme.Notice.Render(n.Message)
		}
	} else if low := len(a.store.LowStockItems()); low > 0 {
		text = a.theme.Warning.Render(fmt.Sprintf("%d item(s) at or below minimum stock", low))
	} else {
		text = a.theme.Muted.Render("All stock levels OK")
	}

	return a.theme.StatusValue.Render(stamp) + a.theme.StatusDivider.Render() + text
}

// renderContent renders the main content area based on current module.
func (a *App) renderContent(height int) string {
	width := ContentWidth(a.width, 40, MaxContentWidth)

	var content string
	switch a.currentModule {
	case ModuleDashboard:
		content = a.renderDashboard(width)
	case ModuleHelp:
		content = a.renderHelp()
	default:
		content = a.currentView().Render(width, height)
	}

	// Center the content container within the terminal
	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Top)

	return style.Render(lipgloss.NewStyle().Width(width).Render(content))
}

// renderConfirmDialog renders the open confirmation dialog.
func (a *App) renderConfirmDialog(height int) string {
	d := a.theme.Box.Render(
		a.theme.Title.Render(a.dialog.Title) + "\n\n" +
			a.theme.Base.Render(a.dialog.Prompt) + "\n\n" +
			a.theme.Label.Render("[Y]es  [N]o"),
	)

	style := lipgloss.NewStyle().
		Width(a.width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center)

	return style.Render(d)
}

// renderFooter renders the bottom status bar.
func (a *App) renderFooter() string {
	return a.theme.DrawHorizontalLine(a.width) + "\n" + a.theme.Footer.Render(a.keys.StatusBarHelp())
}

// AddNotice puts a message on the status line.
func (a *App) AddNotice(level NoticeLevel, message string) {
	a.notices = append([]Notice{{
		Level:   level,
		Message: message,
		Time:    a.clock.Now(),
	}}, a.notices...)

	if len(a.notices) > maxNotices {
		a.notices = a.notices[:maxNotices]
	}
}

// ClearNotices empties the status line.
func (a *App) ClearNotices() {
	a.notices = nil
}

// Run starts the TUI application.
func Run(ctx context.Context, s *store.Store, svc *reporting.Service, cfg *config.Config, clock util.Clock, logger *slog.Logger) error {
	app := New(s, svc, cfg, clock, logger)

	p := tea.NewProgram(app, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
