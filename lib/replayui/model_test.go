// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package replayui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rewindlabs/rewind/lib/replay"
	"github.com/rewindlabs/rewind/lib/session"
	"github.com/rewindlabs/rewind/lib/sessionindex"
)

const testProjectRoot = "/home/u/proj"

func writeTranscript(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func userMessageLine(text string) string {
	return fmt.Sprintf(`{"type":"message","role":"user","content":[{"type":"input_text","text":"%s"}]}`, text)
}

func assistantMessageLine(text string) string {
	return fmt.Sprintf(`{"type":"message","role":"assistant","content":[{"type":"output_text","text":"%s"}]}`, text)
}

// testSessions writes two replayable transcripts and returns their
// metadata, newest first. The first belongs to the test project, the
// second to another project.
func testSessions(t *testing.T) []sessionindex.Meta {
	t.Helper()
	dir := t.TempDir()

	alphaPath := writeTranscript(t, dir, "alpha.jsonl",
		`{"timestamp":"2026-08-12T11:00:00Z","recorded_project_root":"`+testProjectRoot+`"}`,
		userMessageLine("alpha work item"),
		assistantMessageLine("done"))
	betaPath := writeTranscript(t, dir, "beta.jsonl",
		`{"timestamp":"2026-08-12T10:00:00Z","recorded_project_root":"/home/u/other"}`,
		userMessageLine("beta task item"),
		assistantMessageLine("done"))

	return []sessionindex.Meta{
		{
			Path:                alphaPath,
			Timestamp:           "2026-08-12T11:00:00Z",
			UserMessages:        1,
			FirstMessage:        "alpha work item",
			RecordedProjectRoot: testProjectRoot,
		},
		{
			Path:                betaPath,
			Timestamp:           "2026-08-12T10:00:00Z",
			UserMessages:        1,
			FirstMessage:        "beta task item",
			RecordedProjectRoot: "/home/u/other",
		},
	}
}

func newBrowser(t *testing.T, options Options) Model {
	t.Helper()
	model := NewModel(options)
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func press(t *testing.T, model Model, message tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(message)
	return updated.(Model), cmd
}

func pressRune(t *testing.T, model Model, r rune) (Model, tea.Cmd) {
	t.Helper()
	return press(t, model, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func pressEnter(t *testing.T, model Model) (Model, tea.Cmd) {
	t.Helper()
	return press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
}

func pressEsc(t *testing.T, model Model) (Model, tea.Cmd) {
	t.Helper()
	return press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
}

func TestListScopesToProject(t *testing.T) {
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
	})

	view := model.View()
	if !strings.Contains(view, "1 shown · this project") {
		t.Fatalf("expected project-scoped list, got:\n%s", view)
	}
	if !strings.Contains(view, "alpha work item") {
		t.Fatalf("expected alpha session in view, got:\n%s", view)
	}
	if strings.Contains(view, "beta task item") {
		t.Fatalf("beta session from another project should be hidden, got:\n%s", view)
	}
}

func TestScopeToggleShowsAllSessions(t *testing.T) {
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
	})

	model, _ = pressRune(t, model, 'a')
	view := model.View()
	if !strings.Contains(view, "2 shown · all sessions") {
		t.Fatalf("expected all-sessions scope, got:\n%s", view)
	}
	if !strings.Contains(view, "beta task item") {
		t.Fatalf("expected beta session after scope toggle, got:\n%s", view)
	}
}

func TestFilterNarrowsList(t *testing.T) {
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
	})
	model, _ = pressRune(t, model, 'a') // all sessions

	model, _ = pressRune(t, model, '/')
	for _, r := range "beta" {
		model, _ = pressRune(t, model, r)
	}

	if len(model.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(model.rows))
	}
	if !strings.Contains(model.rows[0].label, "beta task item") {
		t.Fatalf("unexpected filtered row: %q", model.rows[0].label)
	}
	view := model.View()
	if !strings.Contains(view, "Filter: beta") {
		t.Fatalf("expected filter prompt in view, got:\n%s", view)
	}

	// Esc clears the filter and restores the full list.
	model, _ = pressEsc(t, model)
	if len(model.rows) != 2 {
		t.Fatalf("rows after clearing filter = %d, want 2", len(model.rows))
	}
}

func TestFilterEnterKeepsNarrowedList(t *testing.T) {
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
	})
	model, _ = pressRune(t, model, 'a')
	model, _ = pressRune(t, model, '/')
	for _, r := range "alpha" {
		model, _ = pressRune(t, model, r)
	}
	model, _ = pressEnter(t, model)

	if model.filterOn {
		t.Fatal("filter input should be closed after Enter")
	}
	if len(model.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(model.rows))
	}
}

func TestViewerOpensAndCloses(t *testing.T) {
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
	})

	model, _ = pressEnter(t, model) // default action is View
	if model.screen != screenViewer {
		t.Fatalf("screen = %v, want viewer", model.screen)
	}
	view := model.View()
	if !strings.Contains(view, "alpha.jsonl") {
		t.Fatalf("expected transcript path header, got:\n%s", view)
	}
	if !strings.Contains(view, "user: alpha work item") {
		t.Fatalf("expected user line in viewer, got:\n%s", view)
	}

	model, _ = pressEsc(t, model)
	if model.screen != screenList {
		t.Fatalf("screen after Esc = %v, want list", model.screen)
	}
}

func TestReplayManualAdvance(t *testing.T) {
	recorder := &session.Recorder{}
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
		Session:     recorder,
		AutoAdvance: false,
	})

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight}) // View -> Replay
	if model.action != ActionReplay {
		t.Fatalf("action = %v, want Replay", model.action)
	}
	model, _ = pressEnter(t, model)
	if model.screen != screenReplay {
		t.Fatalf("screen = %v, want replay", model.screen)
	}
	if len(recorder.Ops) != 0 {
		t.Fatalf("nothing should be sent before the first advance, got %d ops", len(recorder.Ops))
	}

	for range 10 {
		if model.driver.IsComplete() {
			break
		}
		model, _ = pressEnter(t, model)
	}
	if model.driver == nil || !model.driver.IsComplete() {
		t.Fatal("replay did not complete")
	}

	inputs := recorder.UserInputs()
	if len(inputs) < 2 {
		t.Fatalf("user inputs = %d, want at least segment + end marker", len(inputs))
	}
	if !strings.HasPrefix(inputs[0].Text, replay.IntroBanner) {
		t.Fatalf("first send should carry the intro banner, got %q", inputs[0].Text)
	}
	if inputs[len(inputs)-1].Text != replay.EndMarker {
		t.Fatalf("last user input = %q, want end marker", inputs[len(inputs)-1].Text)
	}
	if got := recorder.Ops[len(recorder.Ops)-1]; got.Type != session.OpTypeUserInput {
		t.Fatalf("end marker must not be followed by an interrupt, last op %v", got.Type)
	}

	view := model.View()
	if !strings.Contains(view, "Restore complete") {
		t.Fatalf("expected completion line, got:\n%s", view)
	}

	// Any overlay key returns to the list once terminal.
	model, _ = pressEnter(t, model)
	if model.screen != screenList {
		t.Fatalf("screen after completion Enter = %v, want list", model.screen)
	}
	if model.driver != nil {
		t.Fatal("driver should be released when leaving the overlay")
	}
}

func TestReplayCancelEmitsInterrupt(t *testing.T) {
	dir := t.TempDir()
	// Two user messages over the chunk budget each, so the plan has at
	// least two segments and a cancel can land mid-delivery.
	big := strings.Repeat("abcd ", 1800)
	path := writeTranscript(t, dir, "long.jsonl",
		`{"timestamp":"2026-08-12T09:00:00Z","recorded_project_root":"`+testProjectRoot+`"}`,
		userMessageLine(big),
		userMessageLine(big))

	recorder := &session.Recorder{}
	model := newBrowser(t, Options{
		Sessions: []sessionindex.Meta{{
			Path:                path,
			Timestamp:           "2026-08-12T09:00:00Z",
			UserMessages:        2,
			FirstMessage:        "long session",
			RecordedProjectRoot: testProjectRoot,
		}},
		ProjectRoot: testProjectRoot,
		Session:     recorder,
		AutoAdvance: false,
	})

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	model, _ = pressEnter(t, model)
	model, _ = pressEnter(t, model) // deliver one segment

	interruptsBefore := recorder.Interrupts()
	if interruptsBefore == 0 {
		t.Fatal("delivered segment should be followed by an interrupt")
	}

	model, _ = pressEsc(t, model)
	if model.driver.Status() != replay.StatusCancelled {
		t.Fatalf("status = %v, want cancelled", model.driver.Status())
	}
	if recorder.Interrupts() != interruptsBefore+1 {
		t.Fatalf("cancel after progress should add one interrupt, got %d", recorder.Interrupts())
	}
	if !strings.Contains(model.View(), "Restore cancelled") {
		t.Fatalf("expected cancellation line, got:\n%s", model.View())
	}

	model, _ = pressEsc(t, model)
	if model.screen != screenList {
		t.Fatalf("screen after cancelled-overlay Esc = %v, want list", model.screen)
	}
}

func TestReplayAutoAdvanceTicks(t *testing.T) {
	recorder := &session.Recorder{}
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
		Session:     recorder,
		AutoAdvance: true,
	})

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	var cmd tea.Cmd
	model, cmd = pressEnter(t, model)
	if cmd == nil {
		t.Fatal("auto-advance replay should schedule a tick")
	}

	for range 10 {
		if model.driver.IsComplete() {
			break
		}
		updated, next := model.Update(replayTickMsg{})
		model = updated.(Model)
		cmd = next
	}
	if !model.driver.IsComplete() {
		t.Fatal("replay did not complete under ticks")
	}
	if cmd != nil {
		t.Fatal("no further tick should be scheduled after completion")
	}
	if len(recorder.UserInputs()) == 0 {
		t.Fatal("ticks should have delivered segments")
	}
}

func TestResumeNeedsToken(t *testing.T) {
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
	})

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight}) // Resume
	model, _ = pressEnter(t, model)

	if model.screen != screenList {
		t.Fatalf("screen = %v, want list", model.screen)
	}
	if !strings.Contains(model.View(), "No resume token") {
		t.Fatalf("expected missing-token status, got:\n%s", model.View())
	}
}

func TestResumeInvokesCallback(t *testing.T) {
	sessions := testSessions(t)
	sessions[0].ProviderToken = "resp_123"

	var resumed sessionindex.Meta
	model := newBrowser(t, Options{
		Sessions:    sessions,
		ProjectRoot: testProjectRoot,
		OnResume:    func(meta sessionindex.Meta) { resumed = meta },
	})

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	_, cmd := pressEnter(t, model)

	if resumed.ProviderToken != "resp_123" {
		t.Fatalf("resume callback not invoked, got %+v", resumed)
	}
	if cmd == nil {
		t.Fatal("resume should quit the browser")
	}
}

func TestReplayWithoutSinkStaysOnList(t *testing.T) {
	model := newBrowser(t, Options{
		Sessions:    testSessions(t),
		ProjectRoot: testProjectRoot,
	})

	model, _ = press(t, model, tea.KeyMsg{Type: tea.KeyRight})
	model, _ = pressEnter(t, model)
	if model.screen != screenList {
		t.Fatalf("screen = %v, want list", model.screen)
	}
	if !strings.Contains(model.View(), "No live session") {
		t.Fatalf("expected missing-sink status, got:\n%s", model.View())
	}
}
