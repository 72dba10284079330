package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"droidsmith/config"
	"droidsmith/core"
	"droidsmith/logger"
	"droidsmith/progress"
)

type state int

const (
	Input state = iota
	Processing
	Finished
)

type generateCmdModel struct {
	textInput textinput.Model
	spinner   spinner.Model
	state     state

	agent     *core.Agent
	outputDir string
	ctx       context.Context
	cancel    context.CancelFunc

	publisher      *eventPublisher
	outcome        <-chan core.RunOutcome
	pendingRequest string

	lines  []string
	result *core.RunResult
	err    error
}

func newGenerateModel(f genFlags) (generateCmdModel, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return generateCmdModel{}, err
	}

	log := logger.Get()
	agent, err := newAgent(cfg, log)
	if err != nil {
		return generateCmdModel{}, err
	}

	outputDir := cfg.OutputDir
	if f.output != "" {
		outputDir = f.output
	}

	ti := textinput.New()
	ti.Placeholder = "Describe the app you want..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 80

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))

	ctx, cancel := context.WithCancel(context.Background())

	return generateCmdModel{
		textInput:      ti,
		spinner:        s,
		state:          Input,
		agent:          agent,
		outputDir:      outputDir,
		ctx:            ctx,
		cancel:         cancel,
		publisher:      newEventPublisher(log),
		pendingRequest: f.request,
	}, nil
}

type startMsg struct{}

func (m generateCmdModel) Init() tea.Cmd {
	if m.pendingRequest != "" {
		return func() tea.Msg { return startMsg{} }
	}
	return textinput.Blink
}

type outcomeMsg core.RunOutcome

// listenForEvent delivers the next progress event to the update loop.
func (m generateCmdModel) listenForEvent() tea.Msg {
	return <-m.publisher.events
}

// listenForOutcome delivers the run's final outcome.
func (m generateCmdModel) listenForOutcome() tea.Msg {
	return outcomeMsg(<-m.outcome)
}

func (m generateCmdModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.state == Input {
				return m.startRun(m.textInput.Value())
			}
		}
	case startMsg:
		return m.startRun(m.pendingRequest)
	case event:
		m.lines = append(m.lines, renderEvent(msg))
		return m, m.listenForEvent
	case outcomeMsg:
		m.state = Finished
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	default:
		if m.state == Processing {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m generateCmdModel) startRun(request string) (tea.Model, tea.Cmd) {
	if request == "" {
		faint := lipgloss.NewStyle().Faint(true)
		return m, tea.Sequence(tea.Printf("%s", faint.Render("No description entered. Exiting...")), tea.Quit)
	}

	m.textInput.SetValue("")
	m.state = Processing
	m.outcome = m.agent.RunAsync(m.ctx, request, m.outputDir, m.publisher.callback())

	faint := lipgloss.NewStyle().Faint(true).Width(80)
	return m, tea.Batch(
		tea.Printf("%s", faint.Render("> "+request)),
		m.spinner.Tick,
		m.listenForEvent,
		m.listenForOutcome,
	)
}

func renderEvent(e event) string {
	switch e.phase {
	case progress.PhaseError:
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
		return errStyle.Render("! " + e.message)
	case progress.PhaseDone:
		okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		return okStyle.Render("✓ " + e.message)
	default:
		return "• " + e.message
	}
}

func (m generateCmdModel) View() string {
	switch m.state {
	case Input:
		return fmt.Sprintf("%s\n%s\n", m.textInput.View(),
			"(press enter to generate files or esc to quit)")
	case Processing:
		var b strings.Builder
		for _, line := range m.lines {
			b.WriteString(line + "\n")
		}
		b.WriteString(m.spinner.View() + " Working...")
		return b.String()
	case Finished:
		return m.finishedView()
	default:
		return ""
	}
}

func (m generateCmdModel) finishedView() string {
	if m.err != nil {
		return fmt.Sprintf("Generation failed: %v\n", m.err)
	}
	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line + "\n")
	}
	if m.result != nil {
		b.WriteString(fmt.Sprintf("\n%s\n", m.result.Summary))
		b.WriteString(fmt.Sprintf("Wrote %d file(s) to %s\n", len(m.result.Written), m.result.OutputDir))
		for _, e := range m.result.Errors {
			b.WriteString("  ! " + e + "\n")
		}
	}
	return b.String()
}
