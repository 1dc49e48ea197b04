// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tui is the interactive terminal chat front end.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/faqmatch/bot"
)

// Responder is the TUI-facing subset of the bot.
type Responder interface {
	Handle(ctx context.Context, sessionID, input string) (*bot.Reply, error)
}

// replyMsg delivers the outcome of one turn.
type replyMsg struct {
	reply *bot.Reply
	err   error
}

type line struct {
	fromUser bool
	text     string
	footnote string
}

// Model is the Bubble Tea model for the chat.
type Model struct {
	ctx        context.Context
	responder  Responder
	sessionID  string
	input      textinput.Model
	viewport   viewport.Model
	transcript []line
	summary    string
	status     string
	busy       bool
	ready      bool
}

// New creates a chat model for one session. summary is shown under the title,
// e.g. the number of loaded FAQs and whether a model is available.
func New(ctx context.Context, responder Responder, sessionID, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 500
	return Model{
		ctx:       ctx,
		responder: responder,
		sessionID: sessionID,
		input:     ti,
		viewport:  viewport.New(0, 0),
		summary:   summary,
		status:    "Ready. Ctrl+C to quit.",
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles keys, window size and turn results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := transcriptBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // title and summary, status, input box
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.refresh()
		return m, nil

	case replyMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.transcript = append(m.transcript, replyLine(msg.reply))
			m.status = "Ready."
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.busy {
				return m, nil
			}
			m.input.Reset()
			m.busy = true
			m.status = "Thinking..."
			m.transcript = append(m.transcript, line{fromUser: true, text: question})
			m.refresh()
			return m, m.ask(question)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask runs one turn off the UI goroutine.
func (m Model) ask(question string) tea.Cmd {
	ctx, responder, sessionID := m.ctx, m.responder, m.sessionID
	return func() tea.Msg {
		reply, err := responder.Handle(ctx, sessionID, question)
		return replyMsg{reply: reply, err: err}
	}
}

// View renders the title, transcript, input and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render("FAQ Assistant")
	summary := summaryStyle.Render(m.summary)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return title + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderTranscript(m.transcript, m.viewport.Width))
	m.viewport.GotoBottom()
}

func replyLine(reply *bot.Reply) line {
	l := line{text: reply.Text}
	if reply.ShowsConfidence() {
		l.footnote = fmt.Sprintf("%s (%s)", bot.FormatConfidence(reply.Confidence), reply.Strategy)
	}
	return l
}

func renderTranscript(lines []line, width int) string {
	if len(lines) == 0 {
		return summaryStyle.Render("Ask about returns, shipping, orders, payment or warranty.")
	}
	wrap := lipgloss.NewStyle().Width(max(20, width-2))
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		if l.fromUser {
			sb.WriteString(userStyle.Render("You: ") + wrap.Render(l.text))
			continue
		}
		sb.WriteString(botStyle.Render("Bot: ") + wrap.Render(l.text))
		if l.footnote != "" {
			sb.WriteString("\n" + confidenceStyle.Render(l.footnote))
		}
	}
	return sb.String()
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true)
	summaryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	confidenceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Run starts the chat in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, responder Responder, sessionID, summary string) error {
	p := tea.NewProgram(New(ctx, responder, sessionID, summary), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
