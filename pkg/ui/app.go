// Package ui is the terminal front-end for a creation session. It is a
// pure render function over the orchestrator's state: every mutation
// arrives as a StateMsg and the view is rebuilt from the snapshot.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	v1 "github.com/young-creators/studio/pkg/apis/studio/v1"
	"github.com/young-creators/studio/pkg/creation"
	"github.com/young-creators/studio/pkg/studioclient"
)

// StateMsg carries an orchestrator state snapshot into the update loop.
// The chat command wires the orchestrator's OnChange hook to
// Program.Send with this type.
type StateMsg creation.State

type publishResultMsg struct {
	URL string
	Err error
}

type App struct {
	orchestrator *creation.Orchestrator
	client       *studioclient.Client

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	bar      progress.Model

	state  creation.State
	status string

	width  int
	height int
	ready  bool
}

func NewApp(orchestrator *creation.Orchestrator, client *studioclient.Client) App {
	input := textinput.New()
	input.Placeholder = "ספרו לי מה תרצו ליצור..."
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = MoodStyle

	return App{
		orchestrator: orchestrator,
		client:       client,
		input:        input,
		spin:         spin,
		bar:          progress.New(progress.WithDefaultGradient()),
		state:        orchestrator.State(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spin.Tick)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		viewportHeight := msg.Height - 7
		if viewportHeight < 3 {
			viewportHeight = 3
		}
		if !a.ready {
			a.viewport = viewport.New(msg.Width, viewportHeight)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = viewportHeight
		}
		a.bar.Width = msg.Width - 4
		a.updateViewportContent()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case StateMsg:
		a.state = creation.State(msg)
		a.updateViewportContent()
		return a, nil

	case publishResultMsg:
		if msg.Err != nil {
			a.status = ErrorStyle.Render("פרסום נכשל: " + msg.Err.Error())
		} else {
			a.status = UserStyle.Render("פורסם! " + msg.URL)
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit

	case "ctrl+r":
		a.orchestrator.Reset()
		a.status = ""
		return a, nil

	case "ctrl+p":
		if a.state.CurrentArtifact == "" || a.state.Busy() {
			return a, nil
		}
		a.status = DimStyle.Render("מפרסם...")
		return a, a.publishCmd()

	case "enter":
		text := strings.TrimSpace(a.input.Value())
		if text == "" || a.state.Busy() {
			return a, nil
		}
		a.input.Reset()
		a.status = ""
		return a, a.submitCmd(text)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// submitCmd runs a full creation cycle in the background. Progress is
// reported through StateMsg snapshots, not the command's return value.
func (a App) submitCmd(text string) tea.Cmd {
	orchestrator := a.orchestrator
	return func() tea.Msg {
		if err := orchestrator.SubmitText(context.Background(), text); err != nil {
			return StateMsg(orchestrator.State())
		}
		return nil
	}
}

func (a App) publishCmd() tea.Cmd {
	client := a.client
	request := v1.PublishRequest{
		Code:          a.state.CurrentArtifact,
		SourceRequest: firstUserMessage(a.state.History),
	}
	return func() tea.Msg {
		response, err := client.Publish(context.Background(), request)
		if err != nil {
			return publishResultMsg{Err: err}
		}
		return publishResultMsg{URL: response.URL}
	}
}

// firstUserMessage is what the child originally asked for; publish
// passes it along so the gallery can describe the artifact.
func firstUserMessage(history []v1.ConversationMessage) string {
	for _, message := range history {
		if message.Role == v1.RoleUser {
			return message.Content
		}
	}
	return ""
}

func (a *App) updateViewportContent() {
	if !a.ready {
		return
	}

	if len(a.state.Messages) == 0 {
		a.viewport.SetContent(DimStyle.Render("עוד אין הודעות. ספרו לי מה ליצור!"))
		return
	}

	var content strings.Builder
	for i, message := range a.state.Messages {
		text := message.Text

		// The newest assistant reply types out word by word while the
		// narration plays.
		if !message.IsUser && i == len(a.state.Messages)-1 && a.state.Mood == creation.MoodSpeaking {
			text = a.state.Revealed
		}

		if message.IsUser {
			content.WriteString(UserStyle.Render("אתם: ") + text)
		} else {
			content.WriteString(AssistantStyle.Render("החבר: ") + text)
		}
		content.WriteString("\n\n")
	}

	a.viewport.SetContent(content.String())
	a.viewport.GotoBottom()
}

func (a App) View() string {
	if !a.ready {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("יוצרים צעירים") + "\n")
	b.WriteString(a.viewport.View() + "\n")
	b.WriteString(a.moodLine() + "\n")

	if a.state.Mood == creation.MoodCreating {
		b.WriteString(a.bar.ViewAs(a.state.Progress/100) + "\n")
	} else {
		b.WriteString(a.input.View() + "\n")
	}
	if a.status != "" {
		b.WriteString(a.status + "\n")
	}

	b.WriteString(a.helpLine())
	return lipgloss.NewStyle().Width(a.width).Render(b.String())
}

func (a App) moodLine() string {
	switch a.state.Mood {
	case creation.MoodListening:
		return MoodStyle.Render("מקשיב... ") + DimStyle.Render(a.state.LiveTranscript)
	case creation.MoodThinking:
		return a.spin.View() + MoodStyle.Render(" חושב...")
	case creation.MoodSpeaking:
		return a.spin.View() + MoodStyle.Render(" מדבר...")
	case creation.MoodCreating:
		return a.spin.View() + MoodStyle.Render(fmt.Sprintf(" יוצר... %.0f%%", a.state.Progress))
	case creation.MoodHappy:
		return MoodStyle.Render("היצירה מוכנה!")
	default:
		return DimStyle.Render("מוכן")
	}
}

func (a App) helpLine() string {
	help := "Enter שליחה  Ctrl+R איפוס  Ctrl+C יציאה"
	if a.state.CurrentArtifact != "" && !a.state.Busy() {
		help = "Ctrl+P פרסום  " + help
	}
	return DimStyle.Render(help)
}
