// Package tui provides a Bubble Tea terminal user interface for browsing and
// growing a yggdrasil catalog.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/handiism/yggdrasil/internal/catalog"
	"github.com/handiism/yggdrasil/internal/config"
	"github.com/handiism/yggdrasil/internal/logging"
	"github.com/handiism/yggdrasil/internal/model"
	"github.com/handiism/yggdrasil/internal/persist"
	"github.com/handiism/yggdrasil/internal/populate"
	"github.com/handiism/yggdrasil/internal/provider"
)

// State represents the current UI state.
type State int

const (
	StateMenu State = iota
	StateBrowse
	StateSearchInput
	StateSearching
	StateChoose
	StateAdding
	StateSong
	StateError
)

// maxLogs is the number of progress lines kept on screen.
const maxLogs = 8

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   populate.ProgressLevel
}

// Config holds what a session works on.
type Config struct {
	// Tree is the catalog being browsed. It is saved on exit.
	Tree *catalog.Tree

	// Provider backs search-and-add. Nil disables it.
	Provider provider.Provider

	Settings *config.Settings
	Logger   zerolog.Logger

	// Context bounds every provider call. Nil means context.Background.
	Context context.Context
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	settings  *config.Settings
	tree      *catalog.Tree
	populator *populate.Populator
	logs      []LogEntry
	status    LogEntry
	err       error

	// Manual navigation
	prefix []string
	keys   []string

	// Search
	candidates []model.Track

	// Song info
	song       catalog.Path
	record     catalog.Record
	fromRandom bool
	saveErr    error

	// songs caches tree.Len() so View never reads the tree while an add
	// runs in the background.
	songs int

	// Context of the provider call in flight. seq tags searches so a result
	// that arrives after esc is dropped.
	ctx    context.Context
	cancel context.CancelFunc
	seq    int
	work   *work

	events chan populate.ProgressEvent

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(cfg Config) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	settings := cfg.Settings
	if settings == nil {
		settings = config.DefaultSettings()
	}
	tree := cfg.Tree
	if tree == nil {
		tree = catalog.New()
	}

	events := make(chan populate.ProgressEvent, 64)

	var p *populate.Populator
	if cfg.Provider != nil {
		p = populate.New(tree, cfg.Provider, settings,
			populate.WithLogger(cfg.Logger),
			populate.WithProgress(func(event populate.ProgressEvent) {
				select {
				case events <- event:
				default:
				}
			}),
		)
	}

	w := newWork(cfg.Context)
	ctx, cancel := context.WithCancel(w.base)

	return Model{
		state:     StateMenu,
		textInput: ti,
		spinner:   sp,
		settings:  settings,
		tree:      tree,
		populator: p,
		songs:     tree.Len(),
		ctx:       ctx,
		cancel:    cancel,
		work:      w,
		events:    events,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForEvent(m.events))
}

// Message types
type (
	// ProgressMsg carries a progress event from the populator.
	ProgressMsg struct {
		Event populate.ProgressEvent
	}

	// SearchDoneMsg is sent when a provider search completes.
	SearchDoneMsg struct {
		Seq        int
		Candidates []model.Track
		Err        error
	}

	// AddDoneMsg is sent when a chosen track has been stored.
	AddDoneMsg struct {
		Result populate.Result
		Err    error
	}
)

// State returns the current UI state.
func (m Model) State() State {
	return m.state
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancel()
			return m, tea.Quit
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		if msg.Event.Level != populate.LevelVerbose {
			m.logs = append(m.logs, LogEntry{Message: msg.Event.Message, Level: msg.Event.Level})
			if len(m.logs) > maxLogs {
				m.logs = m.logs[len(m.logs)-maxLogs:]
			}
		}
		cmds = append(cmds, waitForEvent(m.events))

	case SearchDoneMsg:
		if m.state != StateSearching || msg.Seq != m.seq {
			return m, nil
		}
		return m.searchDone(msg)

	case AddDoneMsg:
		if m.state != StateAdding {
			return m, nil
		}
		m.songs = m.tree.Len()
		if errors.Is(msg.Err, context.Canceled) {
			m = m.toMenu()
			m.status = LogEntry{Message: "Cancelled", Level: populate.LevelWarning}
			return m, nil
		}
		if msg.Err != nil {
			return m.fail(msg.Err), nil
		}
		m.showSong(msg.Result.Path, false)
		m.saveErr = msg.Result.SaveErr
	}

	if m.inputActive() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey reacts to a key press. When handled is false the key is passed
// on to the text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()

	switch m.state {
	case StateMenu:
		switch key {
		case "1":
			return m.startBrowse(), textinput.Blink, true
		case "2":
			return m.randomSong(), nil, true
		case "3":
			return m.startSearch(), textinput.Blink, true
		case "q", "esc":
			return m, tea.Quit, true
		}
		return m, nil, true

	case StateBrowse:
		switch key {
		case "enter":
			return m.browseSelect(), nil, true
		case "esc":
			if len(m.prefix) == 0 {
				return m.toMenu(), nil, true
			}
			m.prefix = m.prefix[:len(m.prefix)-1]
			m.keys, _ = m.tree.Keys(m.prefix...)
			m.status = LogEntry{}
			m.textInput.SetValue("")
			return m, nil, true
		}

	case StateSearchInput:
		switch key {
		case "enter":
			title := strings.TrimSpace(m.textInput.Value())
			if title == "" {
				return m, nil, true
			}
			m.state = StateSearching
			m.logs = nil
			m.seq++
			m.ctx, m.cancel = context.WithCancel(m.work.base)
			return m, tea.Batch(m.search(title), m.spinner.Tick), true
		case "esc":
			return m.toMenu(), nil, true
		}

	case StateChoose:
		switch key {
		case "enter":
			return m.choose()
		case "esc":
			m = m.toMenu()
			m.status = LogEntry{Message: "Cancelled", Level: populate.LevelInfo}
			return m, nil, true
		}

	case StateSearching:
		if key == "esc" {
			m.cancel()
			m = m.toMenu()
			m.status = LogEntry{Message: "Cancelled", Level: populate.LevelWarning}
		}
		return m, nil, true

	case StateAdding:
		// The add owns the tree until AddDoneMsg arrives.
		if key == "esc" {
			m.cancel()
			m.status = LogEntry{Message: "Cancelling...", Level: populate.LevelWarning}
		}
		return m, nil, true

	case StateSong:
		switch key {
		case "r":
			if m.fromRandom {
				return m.randomSong(), nil, true
			}
		case "q":
			return m, tea.Quit, true
		case "enter", "esc", "m":
			return m.toMenu(), nil, true
		}
		return m, nil, true

	case StateError:
		switch key {
		case "q":
			return m, tea.Quit, true
		case "r", "enter", "esc":
			return m.toMenu(), nil, true
		}
		return m, nil, true
	}

	return m, nil, false
}

func (m Model) inputActive() bool {
	switch m.state {
	case StateBrowse, StateSearchInput, StateChoose:
		return true
	}
	return false
}

func (m Model) toMenu() Model {
	m.state = StateMenu
	m.status = LogEntry{}
	m.err = nil
	m.saveErr = nil
	m.prefix = nil
	m.keys = nil
	m.candidates = nil
	m.textInput.Blur()
	m.textInput.SetValue("")
	return m
}

func (m Model) fail(err error) Model {
	m.state = StateError
	m.err = err
	m.textInput.Blur()
	return m
}

func (m Model) emptyCatalog() Model {
	m.status = LogEntry{Message: "The catalog is empty, try search first (3)", Level: populate.LevelWarning}
	return m
}

func (m Model) startBrowse() Model {
	if m.tree.IsEmpty() {
		return m.emptyCatalog()
	}
	m.state = StateBrowse
	m.status = LogEntry{}
	m.prefix = nil
	m.keys, _ = m.tree.Keys()
	m.textInput.Placeholder = "name or number"
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

// browseSelect descends into the key typed by the user, given either by
// name or by its number in the list.
func (m Model) browseSelect() Model {
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m
	}
	key := input
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(m.keys) {
		key = m.keys[n-1]
	}
	m.textInput.SetValue("")

	if len(m.prefix) == catalog.Depth-1 {
		rec, err := m.tree.Lookup(m.prefix[0], m.prefix[1], m.prefix[2], key)
		if err != nil {
			m.status = LogEntry{Message: err.Error(), Level: populate.LevelError}
			return m
		}
		path := catalog.Path{Genre: m.prefix[0], Artist: m.prefix[1], Album: m.prefix[2], Song: key}
		m.textInput.Blur()
		m.state = StateSong
		m.song, m.record, m.fromRandom = path, rec, false
		return m
	}

	next := append(append([]string(nil), m.prefix...), key)
	keys, err := m.tree.Keys(next...)
	if err != nil {
		m.status = LogEntry{Message: err.Error(), Level: populate.LevelError}
		return m
	}
	m.prefix, m.keys = next, keys
	m.status = LogEntry{}
	return m
}

func (m Model) randomSong() Model {
	path, err := m.tree.RandomPath()
	if errors.Is(err, catalog.ErrEmptyCollection) {
		m = m.toMenu()
		return m.emptyCatalog()
	}
	if err != nil {
		return m.fail(err)
	}
	m.showSong(path, true)
	return m
}

func (m *Model) showSong(path catalog.Path, fromRandom bool) {
	rec, err := m.tree.Lookup(path.Genre, path.Artist, path.Album, path.Song)
	if err != nil {
		*m = m.fail(err)
		return
	}
	m.state = StateSong
	m.song, m.record, m.fromRandom = path, rec, fromRandom
	m.saveErr = nil
	m.textInput.Blur()
}

func (m Model) startSearch() Model {
	if m.populator == nil {
		m.status = LogEntry{
			Message: "Search needs SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET",
			Level:   populate.LevelError,
		}
		return m
	}
	m.state = StateSearchInput
	m.status = LogEntry{}
	m.textInput.Placeholder = "Bohemian Rhapsody"
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func (m Model) searchDone(msg SearchDoneMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, populate.ErrNoResults):
		m.state = StateSearchInput
		m.status = LogEntry{Message: "No results found, try another title", Level: populate.LevelWarning}
		m.textInput.Focus()
		return m, textinput.Blink
	case msg.Err != nil:
		return m.fail(msg.Err), nil
	case len(msg.Candidates) == 1:
		m.state = StateAdding
		return m, tea.Batch(m.add(msg.Candidates[0]), m.spinner.Tick)
	}

	m.state = StateChoose
	m.candidates = msg.Candidates
	m.status = LogEntry{}
	m.textInput.Placeholder = "1-" + strconv.Itoa(len(msg.Candidates)) + ", 0 to cancel"
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m, textinput.Blink
}

func (m Model) choose() (Model, tea.Cmd, bool) {
	choice, err := populate.Choose(m.candidates, m.textInput.Value())
	m.textInput.SetValue("")
	if err != nil {
		m.status = LogEntry{Message: err.Error(), Level: populate.LevelError}
		return m, nil, true
	}
	if choice.Cancelled {
		m = m.toMenu()
		m.status = LogEntry{Message: "Cancelled", Level: populate.LevelInfo}
		return m, nil, true
	}
	m.state = StateAdding
	m.textInput.Blur()
	return m, tea.Batch(m.add(choice.Track), m.spinner.Tick), true
}

// search runs the provider search in the background.
func (m Model) search(title string) tea.Cmd {
	p, ctx, seq := m.populator, m.ctx, m.seq
	return func() tea.Msg {
		candidates, err := p.Search(ctx, title)
		return SearchDoneMsg{Seq: seq, Candidates: candidates, Err: err}
	}
}

// add resolves the genre and stores track in the background.
func (m Model) add(track model.Track) tea.Cmd {
	p, ctx, w := m.populator, m.ctx, m.work
	return func() tea.Msg {
		if !w.begin() {
			return AddDoneMsg{Err: context.Canceled}
		}
		defer w.done()
		res, err := p.AddTrack(ctx, track)
		return AddDoneMsg{Result: res, Err: err}
	}
}

// shutdown cancels provider calls and waits for a running add, after which
// the tree is no longer touched by the model.
func (m Model) shutdown() {
	m.work.close()
}

func waitForEvent(events <-chan populate.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// Run starts the TUI application and saves the catalog when it exits.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Tree == nil {
		cfg.Tree = catalog.New()
	}
	if cfg.Settings == nil {
		cfg.Settings = config.DefaultSettings()
	}
	logger := logging.Component(cfg.Logger, "tui")

	cfg.Context = ctx
	m := NewModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	m.shutdown()

	saveErr := persist.Save(context.WithoutCancel(ctx), cfg.Tree, cfg.Settings.CatalogPath)
	if saveErr != nil {
		logger.Error().Err(saveErr).Str("path", cfg.Settings.CatalogPath).Msg("catalog save on exit failed")
	} else {
		logger.Debug().Str("path", cfg.Settings.CatalogPath).Int("songs", cfg.Tree.Len()).Msg("catalog saved")
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", runErr)
	}
	return saveErr
}
