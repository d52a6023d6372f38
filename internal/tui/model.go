// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/typetutor/internal/content"
	"github.com/verte-zerg/typetutor/internal/heatmap"
	"github.com/verte-zerg/typetutor/internal/metrics"
	"github.com/verte-zerg/typetutor/internal/model"
	statsPkg "github.com/verte-zerg/typetutor/internal/stats"
	"github.com/verte-zerg/typetutor/internal/store"
	"github.com/verte-zerg/typetutor/internal/typing"
)

// Model implements the Bubble Tea typing UI.
type Model struct {
	config  model.Config
	store   *store.Store
	loader  *content.Loader
	request content.Request
	clock   func() time.Time

	keys keyMap
	help help.Model

	session *typing.Session
	item    content.Item
	input   []rune
	weakSet map[rune]struct{}
	err     error

	// Set once the session completes; cleared by retry or next.
	report     *typing.Report
	results    results
	scheme     heatmap.Scheme
	weakNotice bool

	width  int
	height int

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allCorrect   int
	allIncorrect int
	allDuration  int64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Option configures a Model.
type Option func(*Model)

// WithClock overrides time.Now for the typing session.
func WithClock(clock func() time.Time) Option {
	return func(m *Model) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithWeakSet seeds the characters word drills are biased toward.
func WithWeakSet(set map[rune]struct{}) Option {
	return func(m *Model) {
		m.weakSet = set
	}
}

// NewModel constructs a typing TUI model and loads the first text. The
// store may be nil, in which case sessions are not persisted.
func NewModel(cfg model.Config, st *store.Store, loader *content.Loader, req content.Request, opts ...Option) (*Model, error) {
	scheme, err := heatmap.ParseScheme(cfg.Scheme)
	if err != nil {
		return nil, err
	}
	m := &Model{
		config:  cfg,
		store:   st,
		loader:  loader,
		request: req,
		clock:   time.Now,
		keys:    defaultKeyMap(),
		help:    help.New(),
		scheme:  scheme,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.session = typing.NewSession("", typing.WithClock(m.clock), typing.WithSink(typing.SinkFunc(m.sessionCompleted)))
	if err := m.nextText(); err != nil {
		return nil, err
	}
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Restart):
		m.restart()
		return m, nil
	case key.Matches(msg, m.keys.Next):
		if err := m.nextText(); err != nil {
			m.err = err
		}
		return m, nil
	case key.Matches(msg, m.keys.Scheme):
		m.cycleScheme()
		return m, nil
	}

	if m.report != nil {
		if msg.Type == tea.KeyEnter {
			if err := m.nextText(); err != nil {
				m.err = err
			}
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.DeleteWord):
		m.setInput(deleteLastWord(m.input))
	case msg.Type == tea.KeyBackspace:
		if len(m.input) > 0 {
			m.setInput(m.input[:len(m.input)-1])
		}
	case msg.Type == tea.KeySpace:
		m.appendRunes([]rune{' '})
	case msg.Type == tea.KeyEnter:
		m.appendRunes([]rune{'\n'})
	case msg.Type == tea.KeyTab:
		m.appendRunes([]rune{'\t'})
	case msg.Type == tea.KeyRunes:
		m.appendRunes(msg.Runes)
	}
	return m, nil
}

// appendRunes types runes, dropping whatever would run past the target.
// A combining mark may compose onto the last rune, so the length check
// runs on the normalized buffer.
func (m *Model) appendRunes(runes []rune) {
	if len(m.input) >= m.session.TargetLen() {
		return
	}
	next := normalizeInput(append(append([]rune(nil), m.input...), runes...))
	if limit := m.session.TargetLen(); len(next) > limit {
		next = next[:limit]
	}
	m.setInput(next)
}

// setInput stores input in NFC, the form the session compares in, so
// backspace and progress count the same runes the ledger does.
func (m *Model) setInput(input []rune) {
	m.input = normalizeInput(input)
	m.session.OnTextInputChanged(string(m.input))
}

func normalizeInput(input []rune) []rune {
	if len(input) == 0 {
		return input
	}
	return []rune(norm.NFC.String(string(input)))
}

func (m *Model) restart() {
	m.report = nil
	m.input = nil
	m.err = nil
	m.session.Reset()
}

func (m *Model) nextText() error {
	req := m.request
	if m.config.FocusWeak && len(m.weakSet) > 0 {
		req.WordOptions.Weak = m.weakSet
	}
	item, err := m.loader.Next(req)
	if err != nil {
		return fmt.Errorf("failed to load text: %w", err)
	}
	m.item = item
	m.report = nil
	m.input = nil
	m.err = nil
	m.session.ResetWithText(item.Text)
	return nil
}

func (m *Model) cycleScheme() {
	for i, s := range heatmap.Schemes {
		if s == m.scheme {
			m.scheme = heatmap.Schemes[(i+1)%len(heatmap.Schemes)]
			break
		}
	}
	if m.report != nil {
		m.results = newResults(*m.report, m.scheme)
	}
}

func (m *Model) sessionCompleted(r typing.Report) {
	m.report = &r
	m.results = newResults(r, m.scheme)

	durationMs := int64(r.Metrics.ElapsedSeconds * 1000)
	m.lastWPM, _, m.lastAcc = metrics.Rates(r.Counters.Correct, r.Counters.Mistakes, durationMs)
	m.hasLast = true
	m.allCorrect += r.Counters.Correct
	m.allIncorrect += r.Counters.Mistakes
	m.allDuration += durationMs
	m.recomputeAllTime()

	if m.store == nil {
		return
	}
	ctx := context.Background()
	if err := m.store.InsertSession(ctx, statsPkg.SessionFromReport(r, m.meta())); err != nil {
		slog.Warn("failed to save session", "id", r.ID, "err", err)
		return
	}
	slog.Debug("session saved", "id", r.ID, "wpm", r.Metrics.WordsPerMinute, "accuracy", r.Metrics.AccuracyPercentage)
	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) meta() statsPkg.Meta {
	source := m.request.Source
	if m.request.Mode == content.ModeCustom {
		source = ""
	}
	return statsPkg.Meta{
		Mode:   string(m.request.Mode),
		Source: source,
		Lang:   m.config.Lang,
	}
}

func (m *Model) refreshWeakSet() {
	set, err := statsPkg.LoadWeakSet(context.Background(), m.store, m.config)
	if err != nil {
		slog.Warn("failed to refresh weak set", "err", err)
		return
	}
	if len(set) == 0 && !m.weakNotice {
		slog.Info("no stats available for weak-key focus yet; using normal generator")
		m.weakNotice = true
	}
	m.weakSet = set
}

func (m *Model) loadFooterStats() {
	if m.store == nil {
		return
	}
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		slog.Warn("failed to load session stats", "err", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM, _, m.lastAcc = metrics.Rates(last.Correct, last.Incorrect, last.DurationMs)
	m.hasLast = true

	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allIncorrect += s.Incorrect
		m.allDuration += s.DurationMs
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	m.allWPM, _, m.allAcc = metrics.Rates(m.allCorrect, m.allIncorrect, m.allDuration)
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch {
	case m.report != nil:
		body = m.results.view()
	case m.session.TargetLen() == 0:
		body = ""
	default:
		body = m.typingView()
	}
	if m.err != nil {
		body += "\n\n" + errorStyle.Render(m.err.Error())
	}
	if m.width == 0 || m.height == 0 {
		return body
	}
	footer := m.renderFooter()
	helpLine := m.help.View(m.keys)
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	bodyHeight := m.height - 2
	placed := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpRow := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
	return placed + "\n" + footerLine + "\n" + helpRow
}

func (m *Model) typingView() string {
	styled := buildStyledRunes(m.session.DisplaySnapshot())
	var header string
	if m.item.Title != "" {
		header = titleStyle.Render(m.item.Title) + "\n\n"
	}
	if m.width == 0 {
		return header + renderStyledRunes(styled)
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	wrapped := wrapStyledRunes(styled, contentWidth)
	text := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	if m.item.Attribution != "" {
		text += "\n\n" + footerStyle.Render("- "+m.item.Attribution)
	}
	return header + text
}

func (m *Model) renderFooter() string {
	total := m.session.TargetLen()
	if total == 0 {
		return ""
	}
	progress := int(float64(min(len(m.input), total)) / float64(total) * 100)
	segments := []string{fmt.Sprintf("%s · Progress %d%%", m.request.Mode, progress)}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	return footerStyle.Render(strings.Join(segments, "  "))
}
