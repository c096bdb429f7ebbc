// Package tui is an interactive console for exploring the corpus:
// type a query, walk the ranked documents and request an AI summary.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"skynet/src/core/knowledge"
)

var roleOrder = []knowledge.Role{
	knowledge.RoleResearcher,
	knowledge.RoleFundingManager,
	knowledge.RoleStudent,
}

// Model is the Bubble Tea model for the console application.
type Model struct {
	corpus    *knowledge.Handle
	search    knowledge.SearchService
	summaries knowledge.SummaryService

	input     textinput.Model
	viewport  viewport.Model
	results   []knowledge.DocumentResult
	summary   string
	status    string
	role      int
	cursor    int
	ready     bool
	lastQuery string
}

// summaryMsg carries the outcome of an async summarization request.
type summaryMsg struct {
	text string
	err  error
}

// New creates a new console model instance.
func New(corpus *knowledge.Handle, search knowledge.SearchService, summaries knowledge.SummaryService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type query and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		corpus:    corpus,
		search:    search,
		summaries: summaries,
		input:     ti,
		viewport:  vp,
		status:    "Corpus loaded. Type to search, ctrl+r switches role.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // header + role line
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil

	case summaryMsg:
		if msg.err != nil {
			m.status = "Summary error: " + msg.err.Error()
		} else {
			m.summary = msg.text
			m.status = fmt.Sprintf("Summary ready for %q", m.lastQuery)
		}
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil

	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				docs, err := m.search.SearchDocuments(context.Background(), q, m.currentRole(), 0)
				switch {
				case err != nil:
					m.status = "Error: " + err.Error()
					m.results = nil
				case len(docs) == 0:
					m.status = fmt.Sprintf("No matches for %q", q)
					m.results = nil
				default:
					m.status = fmt.Sprintf("Results for %q (ctrl+s for AI summary)", q)
					m.results = docs
					m.cursor = 0
					m.lastQuery = q
				}
				m.summary = ""
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "ctrl+r":
			m.role = (m.role + 1) % len(roleOrder)
			m.status = fmt.Sprintf("Role switched to %s, search again to re-rank", m.currentRole())
			return m, nil
		case "ctrl+s":
			if len(m.results) > 0 && m.lastQuery != "" {
				m.status = "Generating AI summary..."
				return m, m.summarizeCmd()
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the console layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Skynet Knowledge Console")
	role := roleStyle.Render("Role: " + string(m.currentRole()))
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + role + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) currentRole() knowledge.Role {
	return roleOrder[m.role]
}

func (m Model) summarizeCmd() tea.Cmd {
	query := m.lastQuery
	role := m.currentRole()
	docs := m.results
	return func() tea.Msg {
		summary, err := m.summaries.Summarize(context.Background(), role, query, docs, nil)
		if err != nil {
			return summaryMsg{err: err}
		}
		return summaryMsg{text: summary.Text}
	}
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	doc := m.results[m.cursor]

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Document %d/%d  score=%.4f\n", m.cursor+1, len(m.results), doc.Score))
	b.WriteString(titleStyle.Render(doc.Title) + "\n")
	b.WriteString(doc.URL + "\n\n")

	if corpus, err := m.corpus.Get(); err == nil {
		b.WriteString(knowledge.Preview(knowledge.DocumentContent(corpus, doc, 3), 600))
	}

	if m.summary != "" {
		b.WriteString("\n\n" + titleStyle.Render("AI Summary") + "\n" + m.summary)
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	roleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
