package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/yggdrasil/internal/catalog"
	"github.com/handiism/yggdrasil/internal/model"
	"github.com/handiism/yggdrasil/internal/populate"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#95E1A3")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🌳 Yggdrasil"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d songs in %s", m.songs, m.settings.CatalogPath)))
	b.WriteString("\n\n")

	switch m.state {
	case StateMenu:
		b.WriteString(m.viewMenu())
	case StateBrowse:
		b.WriteString(m.viewBrowse())
	case StateSearchInput:
		b.WriteString(m.viewSearchInput())
	case StateSearching:
		b.WriteString(m.viewBusy("Searching..."))
	case StateChoose:
		b.WriteString(m.viewChoose())
	case StateAdding:
		b.WriteString(m.viewBusy("Adding to catalog..."))
	case StateSong:
		b.WriteString(m.viewSong())
	case StateError:
		b.WriteString(m.viewError())
	}

	if m.status.Message != "" {
		b.WriteString("\n")
		b.WriteString(renderLog(m.status))
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewMenu() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("What would you like to do?"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s Browse the catalog\n", keyStyle.Render("1")))
	b.WriteString(fmt.Sprintf("  %s Random song\n", keyStyle.Render("2")))
	search := "Search and add a song"
	if m.populator == nil {
		search += dimStyle.Render(" (no Spotify credentials)")
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render("3"), search))

	return b.String()
}

func (m Model) viewBrowse() string {
	var b strings.Builder

	level := catalog.Level(len(m.prefix))
	if len(m.prefix) > 0 {
		b.WriteString(infoStyle.Render(strings.Join(m.prefix, " › ")))
		b.WriteString("\n\n")
	}
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Pick the %s:", level)))
	b.WriteString("\n")
	for i, key := range m.keys {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%2d.", i+1)), key))
	}
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewSearchInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Song title:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewBusy(label string) string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(label))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewChoose() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Several songs match:"))
	b.WriteString("\n")
	for i, c := range m.candidates {
		b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(fmt.Sprintf("%d.", i+1)), c))
	}
	b.WriteString(fmt.Sprintf("  %s Cancel\n", keyStyle.Render(populate.CancelToken+".")))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	return b.String()
}

// songInfo renders the fields shown for a song.
func songInfo(path catalog.Path, rec catalog.Record) string {
	var b strings.Builder

	row := func(label, value string) {
		if value == "" {
			value = dimStyle.Render("n/a")
		}
		b.WriteString(fmt.Sprintf("%-13s %s\n", label+":", value))
	}

	row("Song", path.Song)
	row("Artist", path.Artist)
	row("Album", path.Album)
	row("Genre", path.Genre)
	row("Spotify URL", rec.String(catalog.AttrSpotifyURL))
	duration := ""
	if track := model.TrackFromRecord(rec); track.DurationMS > 0 {
		duration = model.FormatDuration(track.Duration())
	}
	row("Duration", duration)
	row("Track number", rec.String(catalog.AttrTrackNumber))
	if file := rec.String(catalog.AttrFilePath); file != "" {
		row("File", file)
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewSong() string {
	var b strings.Builder

	b.WriteString(boxStyle.Render(songInfo(m.song, m.record)))
	b.WriteString("\n")
	if m.saveErr != nil {
		b.WriteString(warningStyle.Render("! Saved in memory only: " + m.saveErr.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		b.WriteString(renderLog(log))
		b.WriteString("\n")
	}

	return b.String()
}

func renderLog(log LogEntry) string {
	var style lipgloss.Style
	prefix := "•"
	switch log.Level {
	case populate.LevelError:
		style = errorStyle
		prefix = "✗"
	case populate.LevelWarning:
		style = warningStyle
		prefix = "!"
	case populate.LevelSuccess:
		style = successStyle
		prefix = "✓"
	case populate.LevelInfo:
		style = infoStyle
		prefix = "›"
	default:
		style = dimStyle
	}
	return style.Render(prefix + " " + log.Message)
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateMenu:
		return "1: browse • 2: random • 3: search • q: quit"
	case StateBrowse:
		return "enter: open • esc: up"
	case StateSearchInput:
		return "enter: search • esc: back"
	case StateChoose:
		return "enter: pick • esc: cancel"
	case StateSearching, StateAdding:
		return "esc: cancel"
	case StateSong:
		if m.fromRandom {
			return "r: another • enter: menu • q: quit"
		}
		return "enter: menu • q: quit"
	case StateError:
		return "r: menu • q: quit"
	}
	return ""
}
