package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/courtcheck/internal/availability"
	"github.com/five82/courtcheck/internal/config"
	"github.com/five82/courtcheck/internal/state"
)

// viewMode is the screen currently shown.
type viewMode int

const (
	viewForm viewMode = iota
	viewResults
	viewLogs
)

// Options configures the UI.
type Options struct {
	Context         context.Context
	Store           *state.Store
	Source          availability.Source
	Logger          zerolog.Logger
	DefaultCategory string
	ConfigPath      string // theme changes are saved here; empty disables saving
	LogFile         string // shown in the log view
	ThemeName       string
	Prefill         Prefill
	PollTick        time.Duration
	Now             func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx             context.Context
	store           *state.Store
	source          availability.Source
	log             zerolog.Logger
	defaultCategory string
	configPath      string
	logFile         string
	pollTick        time.Duration
	now             func() time.Time

	theme    Theme
	keys     keyMap
	view     viewMode
	prevView viewMode
	width    int
	height   int
	ready    bool

	form    formState
	results viewport.Model
	logs    viewport.Model
	spin    spinner.Model

	// Run state. runSeq tells a finished run apart from one it replaced.
	snapshot   state.Snapshot
	lastReq    *availability.Request
	running    bool
	runSeq     int
	runStarted time.Time
	cancelRun  context.CancelFunc

	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	th := GetTheme(opts.ThemeName)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Accent))

	return Model{
		ctx:             ctx,
		store:           store,
		source:          opts.Source,
		log:             opts.Logger,
		defaultCategory: opts.DefaultCategory,
		configPath:      opts.ConfigPath,
		logFile:         opts.LogFile,
		pollTick:        pollTick,
		now:             now,
		theme:           th,
		keys:            DefaultKeyMap(),
		view:            viewForm,
		form:            newForm(opts.DefaultCategory, opts.Prefill, now()),
		spin:            spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.syncResultsViewport()
		m.syncLogViewport()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{fetchSnapshotCmd(m.store), tickCmd(m.pollTick)}
		if m.view == viewLogs {
			cmds = append(cmds, fetchLogsCmd(m.logFile))
		}
		return m, tea.Batch(cmds...)

	case logLinesMsg:
		m.applyLogLines(msg)
		return m, nil

	case snapshotMsg:
		snap := state.Snapshot(msg)
		// Skip snapshots of an earlier run that is still in the store.
		if m.lastReq == nil || snap.StartedAt.Before(m.runStarted) {
			return m, nil
		}
		m.snapshot = snap
		m.syncResultsViewport()
		return m, nil

	case runDoneMsg:
		if msg.seq != m.runSeq {
			return m, nil
		}
		m.running = false
		if m.cancelRun != nil {
			m.cancelRun()
			m.cancelRun = nil
		}
		return m, fetchSnapshotCmd(m.store)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.view == viewForm {
		return m, m.form.updateInput(msg)
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var content string
	switch m.view {
	case viewResults:
		content = m.renderResults()
	case viewLogs:
		content = m.renderLogs()
	default:
		content = m.renderForm()
	}
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + content
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keys.Quit) {
		m.stopRun()
		return m, tea.Quit
	}
	switch m.view {
	case viewForm:
		return m.handleFormKey(msg)
	case viewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleResultsKey(msg)
	}
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		req, ok := m.form.request(m.defaultCategory, m.now())
		if !ok {
			return m, nil
		}
		return m.startRun(req)
	case key.Matches(msg, m.keys.NextField):
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.PrevField):
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.lastReq != nil {
			m.view = viewResults
		}
		return m, nil
	}

	if !m.form.onSelector() {
		return m, m.form.updateInput(msg)
	}
	switch {
	case key.Matches(msg, m.keys.NextOpt):
		m.form.cycle(true)
	case key.Matches(msg, m.keys.PrevOpt):
		m.form.cycle(false)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.Logs):
		return m.openLogs()
	}
	return m, nil
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stopRun()
		m.view = viewForm
		return m, nil
	case key.Matches(msg, m.keys.Rerun):
		if m.running || m.lastReq == nil {
			return m, nil
		}
		return m.startRun(*m.lastReq)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Logs):
		return m.openLogs()
	case key.Matches(msg, m.keys.Top):
		m.results.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.results.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// startRun launches req in the background and switches to the results view.
func (m Model) startRun(req availability.Request) (tea.Model, tea.Cmd) {
	m.stopRun()
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelRun = cancel
	m.runSeq++
	m.lastReq = &req
	m.running = true
	m.runStarted = time.Now()
	m.snapshot = state.Snapshot{Running: true, Total: len(req.Dates)}
	m.view = viewResults
	m.syncResultsViewport()
	m.results.GotoTop()

	return m, tea.Batch(
		runCheckCmd(ctx, m.store, m.source, req, m.log, m.runSeq),
		m.spin.Tick,
	)
}

// stopRun cancels the in-flight check, if any.
func (m *Model) stopRun() {
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
	m.syncResultsViewport()
	if m.configPath == "" {
		return
	}
	if err := config.SaveTheme(m.configPath, m.theme.Name); err != nil {
		m.log.Warn().Err(err).Str("theme", m.theme.Name).Msg("save theme failed")
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type runDoneMsg struct {
	seq   int
	runID string
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func runCheckCmd(ctx context.Context, store *state.Store, source availability.Source, req availability.Request, log zerolog.Logger, seq int) tea.Cmd {
	return func() tea.Msg {
		runID := availability.RunCheck(ctx, store, source, req, log)
		return runDoneMsg{seq: seq, runID: runID}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
