package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/roadwatch/roadwatch/internal/analysis"
	"github.com/roadwatch/roadwatch/internal/cleanup"
	"github.com/roadwatch/roadwatch/internal/detector"
	"github.com/roadwatch/roadwatch/internal/logtail"
	"github.com/roadwatch/roadwatch/internal/playback"
	"github.com/roadwatch/roadwatch/internal/prefs"
	"github.com/roadwatch/roadwatch/internal/session"
	"github.com/roadwatch/roadwatch/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewUpload View = iota
	ViewProgress
	ViewResults
	ViewPlayer
	ViewLog
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *detector.Client
	Store     *state.Store
	Session   *session.Session
	Cleanup   *cleanup.Coordinator
	Player    *playback.Controller
	LogPath   string
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	Log       zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *detector.Client
	store     *state.Store
	sess      *session.Session
	cleaner   *cleanup.Coordinator
	player    *playback.Controller
	logPath   string
	prefsPath string
	pollTick  time.Duration
	log       zerolog.Logger
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Upload view state
	pathInput   textinput.Model
	sampleIdx   int
	focusedPane int // 0 = path input, 1 = sample list

	// Progress view state
	uploading    bool
	progressBar  progress.Model
	lastProgress detector.UploadProgress
	uploadPath   string

	// Results state
	result          *analysis.Result
	resultsViewport viewport.Model

	// Log view state
	logViewport viewport.Model
	logLines    []string

	// Overlays
	showHelp     bool
	confirmQuit  bool
	notification string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Placeholder = "path to a video file (.mp4, .avi, .mov, ...)"
	input.CharLimit = 512
	input.Focus()

	return Model{
		ctx:         ctx,
		client:      opts.Client,
		store:       opts.Store,
		sess:        opts.Session,
		cleaner:     opts.Cleanup,
		player:      opts.Player,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		log:         opts.Log,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewUpload,
		pathInput:   input,
		progressBar: progress.New(progress.WithDefaultGradient()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		textinput.Blink,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.resultsViewport = viewport.New(msg.Width, m.contentHeight())
			m.logViewport = viewport.New(msg.Width, m.contentHeight())
		} else {
			m.resultsViewport.Width = msg.Width
			m.resultsViewport.Height = m.contentHeight()
			m.logViewport.Width = msg.Width
			m.logViewport.Height = m.contentHeight()
		}
		m.progressBar.Width = min(msg.Width-8, 64)
		m.ready = true
		m.refreshResultsViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case uploadProgressMsg:
		m.lastProgress = detector.UploadProgress(msg.progress)
		return m, listenSessionCmd(msg.events)

	case uploadOutcomeMsg:
		return m.handleOutcome(msg.outcome, listenSessionCmd(msg.events))

	case sessionClosedMsg:
		m.uploading = false
		return m, nil

	case uploadBlockedMsg:
		m.notification = msg.err.Error()
		return m, nil

	case playerOpenedMsg:
		m.player.Attach(msg.media)
		m.player.TogglePlay()
		m.currentView = ViewPlayer
		return m, playerTickCmd()

	case playerErrMsg:
		m.notification = "could not open the processed video: " + msg.err.Error()
		return m, nil

	case playerTickMsg:
		if m.currentView == ViewPlayer && m.player.Attached() {
			return m, playerTickCmd()
		}
		return m, nil

	case logTailMsg:
		m.logLines = msg.lines
		m.logViewport.SetContent(strings.Join(m.logLines, "\n"))
		m.logViewport.GotoBottom()
		return m, nil
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
	if m.confirmQuit {
		return m.renderQuitConfirm()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	b.WriteString("\n")
	b.WriteString(m.renderNotification())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewUpload:
		return m.renderUpload()
	case ViewProgress:
		return m.renderProgress()
	case ViewResults:
		return m.renderResults()
	case ViewPlayer:
		return m.renderPlayer()
	case ViewLog:
		return m.renderLog()
	default:
		return ""
	}
}

// contentHeight is the rows left for the main view below the two header
// lines and above the notification line.
func (m Model) contentHeight() int {
	h := m.height - 4
	if h < 1 {
		return 1
	}
	return h
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.confirmQuit {
		return m.handleQuitConfirmKey(msg)
	}

	// While the path input is focused, printable keys belong to it.
	typing := m.currentView == ViewUpload && m.focusedPane == 0

	switch {
	case key.Matches(msg, m.keys.Quit):
		if typing && msg.String() == "q" {
			break
		}
		return m.requestQuit()

	case key.Matches(msg, m.keys.Help):
		if typing {
			break
		}
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		if typing {
			break
		}
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewUpload):
		if typing {
			break
		}
		if !m.uploading {
			m.leavePlayer()
			m.currentView = ViewUpload
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewResults):
		if typing {
			break
		}
		if m.result != nil {
			m.leavePlayer()
			m.currentView = ViewResults
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewLog):
		if typing {
			break
		}
		m.leavePlayer()
		m.currentView = ViewLog
		return m, tailLogCmd(m.logPath)

	case key.Matches(msg, m.keys.Escape):
		switch m.currentView {
		case ViewPlayer:
			m.leavePlayer()
			m.currentView = ViewResults
		case ViewResults, ViewLog:
			m.currentView = ViewUpload
		}
		return m, nil
	}

	switch m.currentView {
	case ViewUpload:
		return m.handleUploadKey(msg)
	case ViewResults:
		return m.handleResultsKey(msg)
	case ViewPlayer:
		return m.handlePlayerKey(msg)
	case ViewLog:
		return m.handleLogKey(msg)
	}

	return m, nil
}

// requestQuit quits immediately unless an analysis would be lost, in which
// case it asks first.
func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	if m.cleaner != nil && m.cleaner.LeavePrompt() != "" {
		m.confirmQuit = true
		return m, nil
	}
	return m.quit()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.leavePlayer()
	if m.cleaner != nil {
		m.cleaner.NavigationImminent()
	}
	return m, tea.Quit
}

func (m Model) handleQuitConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		return m.quit()
	default:
		m.confirmQuit = false
		return m, nil
	}
}

// leavePlayer closes the media handle when navigating away from playback.
func (m *Model) leavePlayer() {
	if m.player != nil && m.player.Attached() {
		m.player.Detach()
	}
}

// handleOutcome applies a terminal upload outcome and keeps draining the
// session channel so its close is observed.
func (m Model) handleOutcome(outcome analysis.Outcome, next tea.Cmd) (tea.Model, tea.Cmd) {
	m.uploading = false
	switch outcome.Kind {
	case analysis.OutcomeSuccess:
		m.result = outcome.Result
		if m.cleaner != nil {
			m.cleaner.Register(outcome.Result.VideoID)
		}
		m.notification = fmt.Sprintf("Analysis complete: %d vehicles tracked, %s alert",
			outcome.Result.Summary.TotalUniqueVehicles, outcome.Result.Summary.Alert())
		m.currentView = ViewResults
		m.refreshResultsViewport()
	case analysis.OutcomeWarming:
		m.notification = "The analysis service is still warming up. Try again in a moment."
		m.currentView = ViewUpload
	default:
		m.notification = outcome.Reason
		m.currentView = ViewUpload
	}
	return m, next
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLog {
		cmds = append(cmds, tailLogCmd(m.logPath))
	}
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// sessionEvent carries one observable event from a running upload.
type sessionEvent struct {
	progress *detector.UploadProgress
	outcome  *analysis.Outcome
}

type uploadProgressMsg struct {
	progress detector.UploadProgress
	events   chan sessionEvent
}

type uploadOutcomeMsg struct {
	outcome analysis.Outcome
	events  chan sessionEvent
}

type sessionClosedMsg struct{}

type uploadBlockedMsg struct{ err error }

type playerOpenedMsg struct{ media playback.Media }

type playerErrMsg struct{ err error }

type playerTickMsg time.Time

type logTailMsg struct{ lines []string }

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

// startUploadCmd runs the session on its own goroutine and streams its
// events back into the program through a channel.
func startUploadCmd(ctx context.Context, sess *session.Session, path string) tea.Cmd {
	events := make(chan sessionEvent, 8)
	go func() {
		defer close(events)
		err := sess.Start(ctx, path, session.Observer{
			OnProgress: func(p detector.UploadProgress) {
				events <- sessionEvent{progress: &p}
			},
			OnOutcome: func(o analysis.Outcome) {
				events <- sessionEvent{outcome: &o}
			},
		})
		if err != nil {
			o := analysis.Outcome{Kind: analysis.OutcomeFailure, Reason: err.Error()}
			events <- sessionEvent{outcome: &o}
		}
	}()
	return listenSessionCmd(events)
}

// listenSessionCmd waits for the next session event.
func listenSessionCmd(events chan sessionEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return sessionClosedMsg{}
		}
		if ev.progress != nil {
			return uploadProgressMsg{progress: *ev.progress, events: events}
		}
		return uploadOutcomeMsg{outcome: *ev.outcome, events: events}
	}
}

// processSampleCmd asks the server to analyze one of its bundled sample
// videos and normalizes the reply like an upload.
func processSampleCmd(ctx context.Context, client *detector.Client, id string) tea.Cmd {
	events := make(chan sessionEvent, 1)
	go func() {
		defer close(events)
		raw, err := client.ProcessSample(ctx, id)
		var o analysis.Outcome
		if err != nil {
			o = analysis.Outcome{Kind: analysis.OutcomeFailure, Reason: "could not reach the analysis service, please try again"}
		} else {
			o = analysis.Normalize(raw)
		}
		events <- sessionEvent{outcome: &o}
	}()
	return listenSessionCmd(events)
}

func openPlayerCmd(url string, log zerolog.Logger) tea.Cmd {
	return func() tea.Msg {
		media, err := playback.OpenMPV(url, log)
		if err != nil {
			return playerErrMsg{err: err}
		}
		return playerOpenedMsg{media: media}
	}
}

func playerTickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return playerTickMsg(t)
	})
}

func tailLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, 400)
		if err != nil {
			return logTailMsg{lines: []string{"cannot read log: " + err.Error()}}
		}
		return logTailMsg{lines: lines}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
