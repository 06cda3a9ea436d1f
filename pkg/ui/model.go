package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sqlsplit/pkg/parser/lexer"
	"sqlsplit/pkg/parser/splitter"
	"sqlsplit/pkg/parser/statements"
	"sqlsplit/pkg/ui/base"
	"sqlsplit/pkg/validate"
	"sqlsplit/pkg/window"
)

// Options configures the statement browser.
type Options struct {
	Window   window.Config
	Validate bool
	// Initial is loaded into the editor and split on start when not empty.
	Initial string
}

type pane int

const (
	editorPane pane = iota
	statementsPane
)

// Model represents the application state
type Model struct {
	opts        Options
	editor      textarea.Model
	detail      viewport.Model
	table       table.Model
	spinner     spinner.Model
	help        help.Model
	highlighter *SQLHighlighter

	width     int
	height    int
	splitting bool
	showHelp  bool
	validate  bool
	focus     pane

	stmts     []statements.Statement
	results   []validate.Result
	lastError error

	lastSplitTime time.Duration
	keys          keyMap
}

func NewModel(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste a SQL script here and press ctrl+s..."
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.SetHeight(8)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle().Background(bgLight)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(textMuted)
	ta.FocusedStyle.Text = lipgloss.NewStyle().Foreground(textPrimary)
	ta.FocusedStyle.LineNumber = lipgloss.NewStyle().Foreground(textMuted)
	if opts.Initial != "" {
		ta.SetValue(opts.Initial)
	}

	vp := viewport.New(80, 8)
	vp.Style = detailStyle

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(primaryColor).
		BorderBottom(true).
		Bold(true).
		Foreground(primaryColor)
	s.Selected = s.Selected.
		Foreground(bgDark).
		Background(secondaryColor).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return Model{
		opts:        opts,
		editor:      ta,
		detail:      vp,
		table:       t,
		spinner:     sp,
		help:        help.New(),
		highlighter: NewSQLHighlighter(),
		validate:    opts.Validate,
		keys:        keys,
	}
}

func (m Model) Init() tea.Cmd {
	if strings.TrimSpace(m.opts.Initial) != "" {
		return tea.Batch(textarea.Blink, m.spinner.Tick, m.split(m.opts.Initial))
	}
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()

	case tea.KeyMsg:
		if m.splitting {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Split):
			sql := m.editor.Value()
			if strings.TrimSpace(sql) != "" {
				m.splitting = true
				return m, tea.Batch(m.spinner.Tick, m.split(sql))
			}
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.editor.SetValue("")
			m.setStatements(nil, nil)
			m.lastError = nil
			return m, nil

		case key.Matches(msg, m.keys.SwitchPane):
			m.switchPane()
			return m, nil

		case key.Matches(msg, m.keys.Validate):
			m.validate = !m.validate
			if len(m.stmts) > 0 {
				m.splitting = true
				return m, tea.Batch(m.spinner.Tick, m.split(m.editor.Value()))
			}
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.ScrollUp):
			m.detail.HalfViewUp()
			return m, nil

		case key.Matches(msg, m.keys.ScrollDown):
			m.detail.HalfViewDown()
			return m, nil
		}

	case splitResultMsg:
		m.splitting = false
		m.lastError = msg.err
		m.lastSplitTime = msg.duration
		if msg.err == nil {
			m.setStatements(msg.stmts, msg.results)
			if len(msg.stmts) > 0 && m.focus == editorPane {
				m.switchPane()
			}
		}
		return m, nil

	case spinner.TickMsg:
		if m.splitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.splitting {
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == editorPane {
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		before := m.table.Cursor()
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
		if m.table.Cursor() != before {
			m.showSelected()
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	sections := []string{m.renderHeader(), m.renderEditor()}

	switch {
	case m.splitting:
		sections = append(sections, m.renderSplitting())
	case m.lastError != nil:
		sections = append(sections, m.renderError())
	case len(m.stmts) > 0:
		sections = append(sections, m.renderStatements(), m.renderDetail())
	}

	sections = append(sections, m.renderStatusBar())

	if m.showHelp {
		sections = append(sections, m.renderHelp())
	}

	return appStyle.Render(strings.Join(sections, "\n"))
}

func (m *Model) switchPane() {
	if m.focus == editorPane {
		m.focus = statementsPane
		m.editor.Blur()
		m.table.Focus()
		m.detail.Style = focusedDetailStyle
		return
	}
	m.focus = editorPane
	m.table.Blur()
	m.editor.Focus()
	m.detail.Style = detailStyle
}

// setStatements replaces the table contents and shows the first statement.
func (m *Model) setStatements(stmts []statements.Statement, results []validate.Result) {
	m.stmts = stmts
	m.results = results
	m.table.SetColumns(columns(m.width - 6))
	m.table.SetRows(m.rows())
	m.table.SetCursor(0)
	m.showSelected()
}

func (m Model) rows() []table.Row {
	cols := columns(m.width - 6)
	textWidth := cols[len(cols)-1].Width

	rows := make([]table.Row, len(m.stmts))
	for i, stmt := range m.stmts {
		status := "-"
		if i < len(m.results) {
			status = m.results[i].Status.String()
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			stmt.Type().String(),
			fmt.Sprintf("%d", stmt.Position()),
			fmt.Sprintf("%d", stmt.Len()),
			status,
			base.Preview(stmt.String(), textWidth),
		}
	}
	return rows
}

func columns(width int) []table.Column {
	cols := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Type", Width: 9},
		{Title: "Pos", Width: 9},
		{Title: "Tokens", Width: 7},
		{Title: "Status", Width: 8},
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	return append(cols, table.Column{Title: "Statement", Width: max(20, width-used)})
}

// showSelected renders the statement under the table cursor into the detail
// viewport.
func (m *Model) showSelected() {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.stmts) {
		m.detail.SetContent("")
		return
	}

	content := m.highlighter.Tokens(m.stmts[i].Tokens())
	if i < len(m.results) && m.results[i].Status != validate.Valid {
		r := m.results[i]
		note := lipgloss.NewStyle().
			Foreground(palette.StatusColor(r.Status.String())).
			Render(fmt.Sprintf("%s: %s", r.Status, r.Reason))
		content = note + "\n\n" + content
	}
	m.detail.SetContent(content)
	m.detail.GotoTop()
}

func (m Model) renderHelp() string {
	helpText := m.help.FullHelpView([][]key.Binding{
		{
			m.keys.Split,
			m.keys.Clear,
			m.keys.SwitchPane,
			m.keys.Validate,
		},
		{
			m.keys.ScrollUp,
			m.keys.ScrollDown,
			m.keys.Help,
			m.keys.Quit,
		},
	})

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(primaryColor).
		Padding(1, 2).
		Background(bgMedium).
		Render(helpText)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("✂ SQL Splitter")
	badge := badgeStyle.Render(fmt.Sprintf("%d statements", len(m.stmts)))
	cfg := m.opts.Window
	info := lipgloss.NewStyle().
		Foreground(textSecondary).
		Render(fmt.Sprintf("Window: %d | Look-behind: %d | Chunk: %d",
			cfg.WindowSize, cfg.LookBehind, cfg.ChunkSize))

	header := lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", badge, "  ", info)

	separator := strings.Repeat("─", max(0, m.width-4))
	sepStyle := lipgloss.NewStyle().
		Foreground(bgLight).
		Render(separator)

	return header + "\n" + sepStyle
}

func (m Model) renderEditor() string {
	label := lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true).
		Render("SQL Script")

	return fmt.Sprintf("%s\n%s", label, editorStyle.Render(m.editor.View()))
}

func (m Model) renderSplitting() string {
	content := lipgloss.JoinHorizontal(
		lipgloss.Left,
		m.spinner.View(),
		" Splitting script...",
	)

	return lipgloss.NewStyle().
		Foreground(primaryColor).
		Padding(1, 0).
		Render(content)
}

func (m Model) renderError() string {
	icon := errorStyle.Render(" ⚠ ERROR ")
	message := lipgloss.NewStyle().
		Foreground(errorColor).
		Render(m.lastError.Error())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(errorColor).
		Padding(0, 1).
		Render(fmt.Sprintf("%s %s", icon, message))
}

func (m Model) renderStatements() string {
	header := lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true).
		Render(fmt.Sprintf("✓ %d statements in %v", len(m.stmts), m.lastSplitTime))

	if len(m.results) > 0 {
		counts := validate.Counts(m.results)
		header += "  " + lipgloss.NewStyle().
			Foreground(warningColor).
			Render(fmt.Sprintf("valid %d | invalid %d | skipped %d",
				counts[validate.Valid], counts[validate.Invalid], counts[validate.Skipped]))
	}

	return fmt.Sprintf("%s\n%s", header, m.table.View())
}

func (m Model) renderDetail() string {
	return m.detail.View()
}

func (m Model) renderStatusBar() string {
	status := successStyle.Render(" editor ")
	if m.focus == statementsPane {
		status = successStyle.Render(" statements ")
	}

	check := " | validation off"
	if m.validate {
		check = " | validation on"
	}

	content := status + lipgloss.NewStyle().
		Foreground(textMuted).
		Render(check+" | Press Ctrl+H for help")

	return statusBarStyle.
		Width(max(0, m.width-4)).
		Render(content)
}

// updateLayout adjusts component sizes based on window size
func (m *Model) updateLayout() {
	editorHeight := 8
	rest := max(6, m.height-editorHeight-12)

	m.editor.SetWidth(m.width - 6)
	m.table.SetColumns(columns(m.width - 6))
	m.table.SetRows(m.rows())
	m.table.SetHeight(rest / 2)
	m.detail.Width = m.width - 6
	m.detail.Height = rest - rest/2
}

type splitResultMsg struct {
	stmts    []statements.Statement
	results  []validate.Result
	err      error
	duration time.Duration
}

// split runs the script through the same reader, lexer and splitter as the
// command line tool.
func (m Model) split(sql string) tea.Cmd {
	cfg := m.opts.Window
	check := m.validate

	return func() tea.Msg {
		start := time.Now()

		l, err := lexer.FromReader(strings.NewReader(sql), cfg)
		if err != nil {
			return splitResultMsg{err: err}
		}
		stmts, err := splitter.Split(l)
		if err != nil {
			return splitResultMsg{err: err, duration: time.Since(start)}
		}

		msg := splitResultMsg{stmts: stmts}
		if check {
			msg.results = validate.New().All(stmts)
		}
		msg.duration = time.Since(start)
		return msg
	}
}

// Run starts the browser on the terminal and blocks until it exits.
func Run(opts Options) error {
	_, err := tea.NewProgram(NewModel(opts), tea.WithAltScreen()).Run()
	return err
}
