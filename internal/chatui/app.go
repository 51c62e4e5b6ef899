package chatui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"scrapp/internal/models"
)

// suggestions are the preset prompts offered before the first exchange.
// A number key sends the chip text directly, bypassing the input field.
var suggestions = []string{
	"Find PubMed articles about factor analysis in older adults with Alzheimer's",
	"Search PubMed for deep learning in radiology published since 2020",
	"What can you help me with?",
}

// chatResultMsg carries a settled /api/chat call back into the UI loop.
type chatResultMsg struct {
	resp *models.ChatResponse
	err  error
}

type Model struct {
	controller *Controller
	client     *Client

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width    int
	height   int
	ready    bool
	quitting bool
}

func NewModel(client *Client, model string) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about PubMed articles..."
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.Focus()
	// Enter submits; Alt+Enter inserts the newline instead.
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = dimStyle

	return Model{
		controller: NewController(model),
		client:     client,
		textarea:   ta,
		spinner:    sp,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chrome := m.textarea.Height() + 7 // title, banners, chips, help
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chrome)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chrome
		}
		m.textarea.SetWidth(msg.Width)
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.controller.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case chatResultMsg:
		m.controller.FinishSend(msg.resp, msg.err)
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			cmd := m.send(m.textarea.Value())
			return m, cmd
		case "1", "2", "3":
			// Chips are live only before the first exchange, and only
			// while the input is empty so typed digits still work.
			if len(m.controller.Messages()) == 0 && strings.TrimSpace(m.textarea.Value()) == "" {
				idx, _ := strconv.Atoi(msg.String())
				if idx >= 1 && idx <= len(suggestions) {
					cmd := m.send(suggestions[idx-1])
					return m, cmd
				}
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// send runs the controller's first phase and, when it is not a no-op,
// issues the network call as a command.
func (m *Model) send(text string) tea.Cmd {
	req := m.controller.BeginSend(text)
	if req == nil {
		return nil
	}

	m.textarea.Reset()
	m.refreshViewport()

	client := m.client
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		resp, err := client.Chat(context.Background(), req)
		return chatResultMsg{resp: resp, err: err}
	})
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	sections := make([]string, 0, len(m.controller.Messages()))
	for _, msg := range m.controller.Messages() {
		sections = append(sections, RenderMessage(msg))
	}
	m.viewport.SetContent(strings.Join(sections, "\n\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Scrapp · PubMed research chat") + "\n")
	b.WriteString(m.viewport.View() + "\n")

	if errText := m.controller.Err(); errText != "" {
		b.WriteString(errorStyle.Render(errText) + "\n")
	}

	if len(m.controller.Messages()) == 0 && !m.controller.Loading() {
		for i, s := range suggestions {
			b.WriteString(chipStyle.Render(fmt.Sprintf("%d. %s", i+1, s)) + "\n")
		}
	}

	if m.controller.Loading() {
		b.WriteString(m.spinner.View() + dimStyle.Render(" waiting for assistant...") + "\n")
	}

	b.WriteString(m.textarea.View() + "\n")
	b.WriteString(helpStyle.Render("enter send · alt+enter newline · ctrl+c quit"))
	return b.String()
}
