// Package repl implements the interactive session: expressions and key
// lookups evaluated against a loaded configuration, with fuzzy
// completion over registered names and section paths.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/conifer/config"
	"github.com/ardnew/conifer/log"
	"github.com/ardnew/conifer/section"
	"github.com/ardnew/conifer/value"
)

const prompt = "➜ "

func helpMessage() string {
	return `
: Commands (prefix with ':'):

  :help       Print this cruft
  :list       List sections and keys
  :tree       Render the configuration tree
  :constants  List registered constants
  :functions  List registered functions
  :clear      Clear screen
  :quit       Exit

Usage:
  Type a key or path to look it up, or an expression to evaluate it
  Completions appear automatically as you type
  Press Tab / Shift-Tab to cycle through candidates, Enter to accept
  Use Up/Down arrows for history navigation
  Press Ctrl+C on an empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the session.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	reader       *config.Reader
	history      *History
	historyIdx   int
	vocab        []string
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
}

// Run starts an interactive session over the loaded configuration.
func Run(ctx context.Context, reader *config.Reader, cacheDir string) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		log.WarnContext(ctx, "could not load history",
			slog.Any("error", err),
		)
	}

	log.DebugContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history_entries", history.Len()),
	)

	m := newModel(ctx, reader, history)

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, reader *config.Reader, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		reader:     reader,
		history:    history,
		historyIdx: history.Len(),
		vocab:      candidates(reader),
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%d/%d", m.historyIdx+1, m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(hintStyle.Render(
			"Type a key or expression, :help for commands",
		))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.refreshMatches(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			m.refreshMatches(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycleCandidate(1)

	case tea.KeyShiftTab:
		return m.cycleCandidate(-1)

	case tea.KeyUp:
		return m.historyMove(-1)

	case tea.KeyDown:
		return m.historyMove(1)

	case tea.KeyEsc:
		m.restorePreTab()

		return m, nil
	}

	m.tabActive = false

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.historyIdx = m.history.Len()
	m.refreshMatches(false)

	return m, cmd
}

// refreshMatches recomputes the fuzzy matches for the word at the cursor.
// When apply is true, the selected candidate replaces the current word.
func (m *model) refreshMatches(apply bool) {
	if apply && m.suggIdx < len(m.matches) {
		chosen := m.matches[m.suggIdx].Str
		text := m.input.Value()
		text = text[:m.wordStart] + chosen + text[m.wordEnd:]
		m.input.SetValue(text)
		m.input.SetCursor(m.wordStart + len(chosen))
	}

	word, start, end := wordBounds(
		m.input.Value(), m.input.Position(), m.reader.Separator(),
	)
	m.wordStart, m.wordEnd = start, end
	m.matches = match(word, m.vocab)
	m.suggIdx = 0
}

// cycleCandidate advances the tab selection by delta, replacing the
// current word with the selected candidate.
func (m model) cycleCandidate(delta int) (model, tea.Cmd) {
	if !m.tabActive {
		m.refreshMatches(false)

		if len(m.matches) == 0 {
			return m, nil
		}

		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	} else {
		n := len(m.matches)
		m.suggIdx = (m.suggIdx + delta + n) % n
	}

	chosen := m.matches[m.suggIdx].Str
	text := m.preTabText[:m.wordStart] + chosen + m.preTabText[m.wordEnd:]
	m.input.SetValue(text)
	m.input.SetCursor(m.wordStart + len(chosen))

	return m, nil
}

// restorePreTab abandons tab-cycling and restores the original input.
func (m *model) restorePreTab() {
	if !m.tabActive {
		return
	}

	m.tabActive = false
	m.input.SetValue(m.preTabText)
	m.input.SetCursor(m.preTabCursor)
	m.refreshMatches(false)
}

func (m model) historyMove(delta int) (model, tea.Cmd) {
	idx := m.historyIdx + delta
	if idx < 0 || idx > m.history.Len() {
		return m, nil
	}

	m.historyIdx = idx
	m.tabActive = false

	if idx == m.history.Len() {
		m.input.SetValue("")
	} else {
		line, err := m.history.Get(idx)
		if err != nil {
			return m, nil
		}

		m.input.SetValue(line)
		m.input.SetCursor(len(line))
	}

	m.refreshMatches(false)

	return m, nil
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	_ = m.history.Write(input)
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	m.tabActive = false
	m.refreshMatches(false)

	echo := formatCommand(input)

	if cmdName, ok := strings.CutPrefix(input, ":"); ok {
		return m.runCommand(strings.TrimSpace(cmdName), echo)
	}

	return m, tea.Println(echo + "\n" + m.evaluate(input))
}

// evaluate resolves input as a key lookup when possible, falling back to
// expression evaluation.
func (m model) evaluate(input string) string {
	if got, err := m.reader.Get(input); err == nil {
		switch v := got.(type) {
		case value.Value:
			return resultStyle.Render(v.String())

		case *section.Section:
			return resultStyle.Render(v.String())
		}
	}

	result, err := m.reader.Evaluator().Evaluate(input)
	if err != nil {
		return errorStyle.Render("🗴 — " + err.Error())
	}

	return resultStyle.Render(result.String())
}

func (m model) runCommand(name, echo string) (model, tea.Cmd) {
	switch name {
	case "quit", "q", "exit":
		m.quitting = true

		return m, tea.Quit

	case "clear":
		return m, tea.ClearScreen

	case "help":
		return m, tea.Println(echo + "\n" + hintStyle.Render(helpMessage()))

	case "tree":
		return m, tea.Println(echo + "\n" + m.reader.String())

	case "list":
		var b strings.Builder

		for _, name := range m.reader.Sections() {
			b.WriteString(name + m.reader.Separator() + "\n")
		}

		for _, key := range m.reader.Keys() {
			b.WriteString(key + "\n")
		}

		return m, tea.Println(echo + "\n" + strings.TrimRight(b.String(), "\n"))

	case "constants":
		return m, tea.Println(echo + "\n" +
			strings.Join(m.reader.Evaluator().Constants(), "\n"))

	case "functions":
		return m, tea.Println(echo + "\n" +
			strings.Join(m.reader.Evaluator().Functions(), "\n"))
	}

	return m, tea.Println(echo + "\n" + errorStyle.Render(
		"🗴 — unknown command (try: "+strings.Join(ctrlCommands, ", ")+")",
	))
}
