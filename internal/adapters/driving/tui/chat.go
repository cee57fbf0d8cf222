// Package tui provides an interactive chat interface over the query
// service.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
)

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusOKStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// turn is one question/answer exchange in the transcript.
type turn struct {
	question string
	answer   string
	chunks   []domain.RetrievedChunk
}

// answerMsg carries the outcome of an asynchronous query.
type answerMsg struct {
	response *domain.QueryResponse
	err      error
}

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	service  driving.QueryService
	input    textinput.Model
	viewport viewport.Model
	turns    []turn
	status   string
	failed   bool
	waiting  bool
	ready    bool
}

// New creates a new chat model.
func New(service driving.QueryService) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		input:    ti,
		viewport: vp,
		status:   "Ready. Ctrl+C to quit.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-4)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.waiting = true
				m.failed = false
				m.status = "Thinking..."
				m.input.SetValue("")
				return m, m.ask(q)
			}
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.failed = true
			m.status = "Error: " + msg.err.Error()
		} else {
			m.failed = false
			m.status = fmt.Sprintf("Answered with %d chunks (%s)", len(msg.response.RetrievedChunks), msg.response.Model)
			m.turns = append(m.turns, turn{
				question: msg.response.Question,
				answer:   msg.response.Answer,
				chunks:   msg.response.RetrievedChunks,
			})
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs the query off the update loop.
func (m Model) ask(question string) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		resp, err := service.Answer(context.Background(), domain.QueryRequest{
			Question:    question,
			TopK:        domain.DefaultTopK,
			Temperature: domain.DefaultTemperature,
			MaxTokens:   domain.DefaultMaxTokens,
		})
		return answerMsg{response: resp, err: err}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("RAG Chat")
	transcript := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())

	status := statusOKStyle.Render(m.status)
	if m.failed {
		status = statusErrStyle.Render(m.status)
	}
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

// renderTranscript formats all turns with their sources.
func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "Ask a question about your documents."
	}

	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + t.question))
		b.WriteString("\n")
		b.WriteString(answerStyle.Render(t.answer))
		for _, chunk := range t.chunks {
			b.WriteString("\n")
			b.WriteString(sourceStyle.Render(fmt.Sprintf("  [%s] score=%.3f", chunk.ChunkID, chunk.SimilarityScore)))
		}
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
