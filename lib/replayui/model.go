// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replayui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rewindlabs/rewind/lib/replay"
	"github.com/rewindlabs/rewind/lib/session"
	"github.com/rewindlabs/rewind/lib/sessionindex"
	"github.com/rewindlabs/rewind/lib/transcript"
)

// screen identifies which view is active.
type screen int

const (
	screenList screen = iota
	screenViewer
	screenReplay
)

// replayTickMsg drives automatic segment delivery while the replay
// overlay is active.
type replayTickMsg struct{}

// Options configures the session browser.
type Options struct {
	// Sessions is the scanned session list, newest first.
	Sessions []sessionindex.Meta

	// ProjectRoot scopes the default listing; the a key toggles to
	// all sessions.
	ProjectRoot string

	// Session receives replay delivery ops.
	Session session.Sink

	// MaxTokensPerChunk and MaxTokensPerSend bound segmentation and
	// delivery. Zero values use the package defaults.
	MaxTokensPerChunk int
	MaxTokensPerSend  int

	// AutoAdvance delivers segments on a timer; otherwise each
	// segment waits for Enter.
	AutoAdvance bool

	// AdvanceInterval is the delay between automatic sends.
	AdvanceInterval time.Duration

	// OnResume, when set, is called for the Resume action with the
	// selected session. Nil disables the action.
	OnResume func(meta sessionindex.Meta)
}

// Model is the top-level bubbletea model for the session browser.
type Model struct {
	theme   Theme
	keys    KeyMap
	options Options

	width  int
	height int
	ready  bool

	screen screen

	// List state.
	rows        []listRow
	cursor      int
	scrollTop   int
	action      Action
	showAll     bool
	filterOn    bool
	filterQuery string

	// Viewer state.
	viewer viewerState

	// Replay state.
	driver  *replay.Driver
	history *deliveryHistory

	// Status line, cleared on the next navigation.
	status string
}

// NewModel creates the session browser model.
func NewModel(options Options) Model {
	if options.AdvanceInterval <= 0 {
		options.AdvanceInterval = replay.DefaultAdvanceInterval
	}
	model := Model{
		theme:   DefaultTheme,
		keys:    DefaultKeyMap,
		options: options,
		history: &deliveryHistory{},
	}
	model.rebuildRows()
	return model
}

// rebuildRows recomputes the visible list from scope and filter.
func (model *Model) rebuildRows() {
	model.rows = buildRows(model.options.Sessions, model.showAll,
		model.options.ProjectRoot, model.filterQuery)
	if model.cursor >= len(model.rows) {
		model.cursor = len(model.rows) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

func (model Model) selectedRow() (listRow, bool) {
	if model.cursor < 0 || model.cursor >= len(model.rows) {
		return listRow{}, false
	}
	return model.rows[model.cursor], true
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true

	case replayTickMsg:
		return model.handleReplayTick()

	case tea.KeyMsg:
		switch model.screen {
		case screenList:
			return model.handleListKeys(message)
		case screenViewer:
			return model.handleViewerKeys(message)
		case screenReplay:
			return model.handleReplayKeys(message)
		}
	}
	return model, nil
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.filterOn {
		switch message.Type {
		case tea.KeyEsc:
			model.filterOn = false
			model.filterQuery = ""
			model.rebuildRows()
		case tea.KeyEnter:
			model.filterOn = false // keep the filtered list
		case tea.KeyBackspace:
			if model.filterQuery != "" {
				runes := []rune(model.filterQuery)
				model.filterQuery = string(runes[:len(runes)-1])
				model.rebuildRows()
			}
		case tea.KeyRunes:
			model.filterQuery += string(message.Runes)
			model.cursor = 0
			model.scrollTop = 0
			model.rebuildRows()
		}
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.moveCursor(-1)

	case key.Matches(message, model.keys.Down):
		model.moveCursor(1)

	case key.Matches(message, model.keys.PageUp):
		model.moveCursor(-model.listHeight())

	case key.Matches(message, model.keys.PageDown):
		model.moveCursor(model.listHeight())

	case key.Matches(message, model.keys.Home):
		model.cursor = 0
		model.scrollTop = 0

	case key.Matches(message, model.keys.End):
		model.moveCursor(len(model.rows))

	case key.Matches(message, model.keys.ActionRight):
		model.action = (model.action + 1) % actionCount

	case key.Matches(message, model.keys.ActionLeft):
		model.action = (model.action + actionCount - 1) % actionCount

	case key.Matches(message, model.keys.ToggleScope):
		model.showAll = !model.showAll
		model.cursor = 0
		model.scrollTop = 0
		model.rebuildRows()

	case key.Matches(message, model.keys.FilterActivate):
		model.filterOn = true
		model.filterQuery = ""

	case key.Matches(message, model.keys.Back):
		if model.filterQuery != "" {
			model.filterQuery = ""
			model.rebuildRows()
		} else {
			return model, tea.Quit
		}

	case key.Matches(message, model.keys.Select):
		return model.selectSession()
	}
	return model, nil
}

// selectSession runs the footer action on the highlighted session.
func (model Model) selectSession() (tea.Model, tea.Cmd) {
	row, ok := model.selectedRow()
	if !ok {
		return model, nil
	}
	model.status = ""

	switch model.action {
	case ActionView:
		return model.openViewer(row.meta)

	case ActionReplay:
		return model.startReplay(row.meta)

	case ActionResume:
		if row.meta.ProviderToken == "" {
			model.status = "No resume token recorded for this session; use Replay instead."
			return model, nil
		}
		if model.options.OnResume == nil {
			model.status = "Server resume is not wired up in this command."
			return model, nil
		}
		model.options.OnResume(row.meta)
		return model, tea.Quit
	}
	return model, nil
}

func (model Model) openViewer(meta sessionindex.Meta) (tea.Model, tea.Cmd) {
	_, items, err := transcript.ReadFile(meta.Path)
	if err != nil {
		model.status = fmt.Sprintf("Failed to read transcript: %v", err)
		return model, nil
	}
	model.viewer = viewerState{
		path:  meta.Path,
		items: items,
		lines: renderTranscript(items, model.theme, model.contentWidth()),
	}
	model.screen = screenViewer
	return model, nil
}

// startReplay plans and begins a segmented replay of the session.
func (model Model) startReplay(meta sessionindex.Meta) (tea.Model, tea.Cmd) {
	_, items, err := transcript.ReadFile(meta.Path)
	if err != nil {
		model.status = fmt.Sprintf("Failed to read transcript: %v", err)
		return model, nil
	}
	if model.options.Session == nil {
		model.status = "No live session to replay into."
		return model, nil
	}

	plan := replay.NewPlan(items, replay.PlanOptions{
		MaxTokensPerChunk: model.options.MaxTokensPerChunk,
		MaxTokensPerSend:  model.options.MaxTokensPerSend,
	})
	if len(plan.Segments) == 0 {
		model.status = "Nothing to replay: no eligible items in this session."
		return model, nil
	}

	model.history = &deliveryHistory{}
	model.driver = replay.NewDriver(plan, replay.DriverConfig{
		Session: model.options.Session,
		History: model.history,
	})
	model.screen = screenReplay

	if model.options.AutoAdvance {
		return model, model.scheduleReplayTick()
	}
	return model, nil
}

func (model Model) scheduleReplayTick() tea.Cmd {
	return tea.Tick(model.options.AdvanceInterval, func(time.Time) tea.Msg {
		return replayTickMsg{}
	})
}

func (model Model) handleReplayTick() (tea.Model, tea.Cmd) {
	if model.screen != screenReplay || model.driver == nil {
		return model, nil
	}
	if model.driver.IsComplete() {
		return model, nil
	}
	model.driver.Advance()
	if model.driver.IsComplete() {
		return model, nil
	}
	return model, model.scheduleReplayTick()
}

func (model Model) handleViewerKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Back):
		model.screen = screenList

	case key.Matches(message, model.keys.Up):
		model.viewer.scroll(-1, model.contentHeight())

	case key.Matches(message, model.keys.Down):
		model.viewer.scroll(1, model.contentHeight())

	case key.Matches(message, model.keys.PageUp):
		model.viewer.scroll(-model.contentHeight(), model.contentHeight())

	case key.Matches(message, model.keys.PageDown):
		model.viewer.scroll(model.contentHeight(), model.contentHeight())

	case key.Matches(message, model.keys.Home):
		model.viewer.offset = 0

	case key.Matches(message, model.keys.End):
		model.viewer.scroll(len(model.viewer.lines), model.contentHeight())
	}
	return model, nil
}

func (model Model) handleReplayKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.driver == nil {
		model.screen = screenList
		return model, nil
	}

	// Once the replay is terminal, any of the overlay keys returns to
	// the list.
	if model.driver.IsComplete() {
		if key.Matches(message, model.keys.Advance) ||
			key.Matches(message, model.keys.Cancel) ||
			key.Matches(message, model.keys.Quit) {
			model.screen = screenList
			model.driver = nil
		}
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Cancel):
		model.driver.Cancel()

	case key.Matches(message, model.keys.Advance):
		// Manual step. Harmless alongside auto-advance: an extra
		// Advance just delivers the next segment sooner.
		model.driver.Advance()
	}
	return model, nil
}

func (model *Model) moveCursor(delta int) {
	model.cursor += delta
	if model.cursor < 0 {
		model.cursor = 0
	}
	if model.cursor >= len(model.rows) {
		model.cursor = len(model.rows) - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
	height := model.listHeight()
	if model.cursor < model.scrollTop {
		model.scrollTop = model.cursor
	}
	if model.cursor >= model.scrollTop+height {
		model.scrollTop = model.cursor - height + 1
	}
}

// Layout helpers. Header and footer each take one line, plus a status
// line when set.

func (model Model) listHeight() int {
	height := model.height - 2
	if model.status != "" {
		height--
	}
	if height < 1 {
		height = 1
	}
	return height
}

func (model Model) contentHeight() int {
	return model.listHeight()
}

func (model Model) contentWidth() int {
	if model.width <= 0 {
		return 80
	}
	return model.width
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "loading…"
	}
	switch model.screen {
	case screenViewer:
		return model.viewerView()
	case screenReplay:
		return model.replayView()
	default:
		return model.listView()
	}
}

func (model Model) listView() string {
	header := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	var out strings.Builder
	scope := "this project"
	if model.showAll {
		scope = "all sessions"
	}
	out.WriteString(header.Render(fmt.Sprintf("Sessions — %d shown · %s", len(model.rows), scope)))
	out.WriteString("\n")

	height := model.listHeight()
	end := model.scrollTop + height
	if end > len(model.rows) {
		end = len(model.rows)
	}
	if len(model.rows) == 0 {
		out.WriteString(help.Render("  no sessions found"))
		out.WriteString("\n")
	}
	for index := model.scrollTop; index < end; index++ {
		out.WriteString(renderListRow(model.rows[index], index == model.cursor, model.theme, model.contentWidth()))
		out.WriteString("\n")
	}

	if model.status != "" {
		out.WriteString(lipgloss.NewStyle().Foreground(model.theme.NoticeText).Render(model.status))
		out.WriteString("\n")
	}
	if model.filterOn {
		out.WriteString("Filter: " + model.filterQuery)
	} else {
		out.WriteString(listFooter(model))
	}
	return out.String()
}

func (model Model) viewerView() string {
	header := lipgloss.NewStyle().Foreground(model.theme.HeaderForeground).Bold(true)
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	var out strings.Builder
	out.WriteString(header.Render(model.viewer.path))
	out.WriteString("\n")
	for _, line := range model.viewer.visibleLines(model.contentHeight()) {
		out.WriteString(line)
		out.WriteString("\n")
	}
	out.WriteString(help.Render("↑/↓ scroll · Esc back · q quit"))
	return out.String()
}

// styleProgressLine colors the bar characters of a formatted progress
// line. The line is otherwise plain text from the replay package.
func styleProgressLine(line string, theme Theme) string {
	filled := lipgloss.NewStyle().Foreground(theme.ProgressFilled)
	empty := lipgloss.NewStyle().Foreground(theme.ProgressEmpty)
	var out strings.Builder
	for _, r := range line {
		switch r {
		case '#':
			out.WriteString(filled.Render("#"))
		case '-':
			out.WriteString(empty.Render("-"))
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

func (model Model) replayView() string {
	help := lipgloss.NewStyle().Foreground(model.theme.HelpText)
	notice := lipgloss.NewStyle().Foreground(model.theme.NoticeText)

	var out strings.Builder
	snapshot := model.driver.Progress()
	out.WriteString(styleProgressLine(replay.FormatProgress(snapshot, model.contentWidth()), model.theme))
	out.WriteString("\n\n")

	tailHeight := model.contentHeight() - 3
	if tailHeight < 1 {
		tailHeight = 1
	}
	for _, line := range model.history.tail(tailHeight) {
		if line.notice {
			out.WriteString(notice.Render(line.text))
		} else {
			out.WriteString(line.text)
		}
		out.WriteString("\n")
	}

	if model.driver.IsComplete() {
		out.WriteString(help.Render("Enter/Esc back to list"))
	} else if model.options.AutoAdvance {
		out.WriteString(help.Render("Esc cancel"))
	} else {
		out.WriteString(help.Render("Enter advance · Esc cancel"))
	}
	return out.String()
}
