// Package tui provides the Bubble Tea interface for playing one game session.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/cogni/internal/achievement"
	"github.com/verte-zerg/cogni/internal/catalog"
	"github.com/verte-zerg/cogni/internal/games"
	"github.com/verte-zerg/cogni/internal/logger"
	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/progress"
	"github.com/verte-zerg/cogni/internal/session"
)

// Recorder stores completed sessions.
type Recorder interface {
	RecordGameResult(ctx context.Context, result model.StoredGameResult) progress.RecordOutcome
	Save(ctx context.Context) error
}

// Options configures a session Model.
type Options struct {
	Game         catalog.Game
	Body         games.Game
	Config       model.PlayConfig
	Recorder     Recorder
	Achievements achievement.Catalog
	Logger       *logger.Logger
	// Clock drives the reaction timer; nil uses the wall clock.
	Clock func() time.Time
}

type countdownMsg struct{ seq int }

type revealMsg struct{ seq int }

// Model implements the Bubble Tea session UI.
type Model struct {
	game         catalog.Game
	body         games.Game
	config       model.PlayConfig
	recorder     Recorder
	achievements achievement.Catalog
	log          *logger.Logger

	engine *session.Engine
	input  textinput.Model

	width  int
	height int

	trial      games.Trial
	hasTrial   bool
	memorizing bool
	countdown  int
	// seq invalidates ticks scheduled before a reset or a new trial.
	seq int

	practiceDone bool
	feedback     string
	feedbackOK   bool

	outcome *progress.RecordOutcome
	saveErr error
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	practiceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#40A9FF"))
	cardStyle     = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a session model in the instructions state.
func NewModel(opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	var engineOpts []session.Option
	if opts.Clock != nil {
		engineOpts = append(engineOpts, session.WithClock(opts.Clock))
	}
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 32
	input.Focus()
	return &Model{
		game:         opts.Game,
		body:         opts.Body,
		config:       opts.Config,
		recorder:     opts.Recorder,
		achievements: opts.Achievements,
		log:          log.With("game", opts.Game.ID),
		engine:       session.New(opts.Config.Rounds, opts.Config.Difficulty, engineOpts...),
		input:        input,
	}
}

// Outcome returns the recorded result once a scored session completed.
func (m *Model) Outcome() (progress.RecordOutcome, bool) {
	if m.outcome == nil {
		return progress.RecordOutcome{}, false
	}
	return *m.outcome, true
}

// SaveErr returns the error from persisting the last completed session.
func (m *Model) SaveErr() error {
	return m.saveErr
}

// Engine exposes the session engine driving this model.
func (m *Model) Engine() *session.Engine {
	return m.engine
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.config.Practice {
		return m.startPractice()
	}
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case countdownMsg:
		return m, m.handleCountdown(msg)
	case revealMsg:
		m.handleReveal(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.engine.Status() {
	case session.StatusInstructions:
		switch key {
		case "enter", " ":
			return m, m.startCountdown()
		case "t":
			return m, m.startPractice()
		case "+", "=", "right":
			m.engine.SetDifficulty(m.engine.State().Difficulty + 1)
		case "-", "left":
			m.engine.SetDifficulty(m.engine.State().Difficulty - 1)
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	case session.StatusCountdown:
		if key == "q" || key == "esc" {
			return m, tea.Quit
		}
		return m, nil
	case session.StatusPaused:
		switch key {
		case "p", "esc", "enter", " ":
			if m.engine.ResumeGame() {
				m.log.Debug("session resumed")
			}
		case "e":
			m.finish()
		case "q":
			return m, tea.Quit
		}
		return m, nil
	case session.StatusComplete:
		switch key {
		case "r":
			m.restart()
		case "q", "esc", "enter":
			return m, tea.Quit
		}
		return m, nil
	}

	// Playing or practice.
	if m.practiceDone {
		switch key {
		case "enter", " ":
			m.practiceDone = false
			return m, m.startCountdown()
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	}
	if key == "p" || key == "esc" {
		if m.engine.PauseGame() {
			m.log.Debug("session paused", "round", m.engine.State().CurrentRound)
		}
		return m, nil
	}
	if m.memorizing || !m.hasTrial {
		return m, nil
	}
	if m.trial.Choices != nil {
		for _, choice := range m.trial.Choices {
			if key == choice {
				return m, m.submit(key)
			}
		}
		return m, nil
	}
	if msg.Type == tea.KeyEnter {
		answer := strings.TrimSpace(m.input.Value())
		if answer == "" {
			return m, nil
		}
		return m, m.submit(answer)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) startCountdown() tea.Cmd {
	if !m.engine.StartCountdown() {
		return nil
	}
	m.hasTrial = false
	m.feedback = ""
	m.countdown = m.config.Countdown
	if m.countdown <= 0 {
		return m.beginPlay()
	}
	m.seq++
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	seq := m.seq
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return countdownMsg{seq: seq}
	})
}

func (m *Model) handleCountdown(msg countdownMsg) tea.Cmd {
	if msg.seq != m.seq || m.engine.Status() != session.StatusCountdown {
		return nil
	}
	m.countdown--
	if m.countdown > 0 {
		return m.tick()
	}
	return m.beginPlay()
}

func (m *Model) beginPlay() tea.Cmd {
	if !m.engine.StartGame() {
		return nil
	}
	m.log.Debug("session started", "difficulty", m.engine.State().Difficulty, "rounds", m.config.Rounds)
	return m.nextTrial()
}

func (m *Model) startPractice() tea.Cmd {
	if !m.engine.StartPractice() {
		return nil
	}
	m.practiceDone = false
	m.feedback = ""
	return m.nextTrial()
}

func (m *Model) nextTrial() tea.Cmd {
	m.trial = m.body.Next(m.engine.State().Difficulty)
	m.hasTrial = true
	m.input.Reset()
	m.seq++
	if m.trial.Show != "" && m.trial.ShowFor > 0 {
		m.memorizing = true
		seq := m.seq
		return tea.Tick(m.trial.ShowFor, func(time.Time) tea.Msg {
			return revealMsg{seq: seq}
		})
	}
	m.memorizing = false
	m.engine.Timer().Start()
	return nil
}

func (m *Model) handleReveal(msg revealMsg) {
	if msg.seq != m.seq || !m.memorizing {
		return
	}
	m.memorizing = false
	m.engine.Timer().Start()
	if m.engine.Status() == session.StatusPaused {
		// Resume continues this interval.
		m.engine.Timer().Pause()
	}
}

func (m *Model) submit(answer string) tea.Cmd {
	ms := m.engine.Timer().Stop()
	correct := m.trial.Check(answer)
	m.engine.RecordResponse(correct,
		session.WithReactionTime(ms),
		session.WithPoints(m.trial.Award(correct, ms)),
	)
	m.feedbackOK = correct
	if correct {
		m.feedback = fmt.Sprintf("Correct · %d ms", ms)
	} else {
		m.feedback = fmt.Sprintf("Expected %s", m.trial.Answer)
	}
	if !m.engine.NextRound() {
		m.finish()
		return nil
	}
	return m.nextTrial()
}

func (m *Model) finish() {
	m.hasTrial = false
	m.memorizing = false
	if m.engine.IsPractice() {
		if m.engine.Status() == session.StatusPaused {
			m.engine.ResumeGame()
		}
		m.engine.Timer().Stop()
		m.practiceDone = true
		return
	}
	if m.engine.Status() == session.StatusPaused {
		m.engine.ResumeGame()
	}
	if !m.engine.CompleteGame() {
		return
	}
	st := m.engine.State()
	if st.Responses == 0 || m.recorder == nil {
		m.log.Info("session ended without responses")
		return
	}
	result := model.StoredGameResult{
		GameID:         m.game.ID,
		GameName:       m.game.Name,
		Domain:         m.game.Domain,
		Score:          st.Score,
		Accuracy:       st.Accuracy,
		Difficulty:     st.Difficulty,
		CorrectAnswers: st.Correct,
		TotalRounds:    st.Responses,
	}
	ctx := context.Background()
	outcome := m.recorder.RecordGameResult(ctx, result)
	m.outcome = &outcome
	if err := m.recorder.Save(ctx); err != nil {
		m.saveErr = err
		m.log.Error("failed to save progress", "error", err)
	}
}

func (m *Model) restart() {
	m.engine.ResetGame()
	m.seq++
	m.outcome = nil
	m.saveErr = nil
	m.hasTrial = false
	m.memorizing = false
	m.practiceDone = false
	m.feedback = ""
	m.input.Reset()
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.engine.Status() {
	case session.StatusInstructions:
		body = m.renderInstructions()
	case session.StatusCountdown:
		body = countStyle.Render(fmt.Sprintf("%d", max(m.countdown, 1)))
	case session.StatusPaused:
		body = promptStyle.Render("Paused") + "\n\n" +
			mutedStyle.Render("p resume · e end now · q quit")
	case session.StatusComplete:
		body = m.renderComplete()
	default:
		body = m.renderPlay()
	}
	content := cardStyle.Render(body)
	header := m.renderHeader()
	footer := footerStyle.Render(m.renderHelp())
	if m.width == 0 || m.height == 0 {
		return header + "\n\n" + content + "\n\n" + footer
	}
	if m.height < 5 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	headerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Top, header)
	bodyBlock := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Bottom, footer)
	return headerLine + "\n" + bodyBlock + "\n" + footerLine
}

func (m *Model) renderHeader() string {
	st := m.engine.State()
	segments := []string{
		titleStyle.Render(m.game.Name),
		m.game.Domain.Label(),
		fmt.Sprintf("Level %d", st.Difficulty),
	}
	if st.Status != session.StatusInstructions {
		segments = append(segments,
			fmt.Sprintf("Round %d/%d", st.CurrentRound, st.TotalRounds),
			fmt.Sprintf("Score %d", st.Score),
			fmt.Sprintf("Streak %d", st.Streak),
		)
	}
	if m.engine.IsPractice() {
		segments = append(segments, practiceStyle.Render("PRACTICE"))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderInstructions() string {
	lines := []string{titleStyle.Render(m.game.Name), ""}
	if m.body != nil {
		lines = append(lines, m.body.Instructions()...)
	}
	lines = append(lines, "",
		fmt.Sprintf("%d rounds at level %d", m.config.Rounds, m.engine.State().Difficulty),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) renderPlay() string {
	if m.practiceDone {
		st := m.engine.State()
		return promptStyle.Render("Practice finished") + "\n\n" +
			fmt.Sprintf("%d/%d correct", st.Correct, st.Responses) + "\n\n" +
			mutedStyle.Render("enter to play for real · q to quit")
	}
	if !m.hasTrial {
		return ""
	}
	var lines []string
	if m.memorizing {
		lines = append(lines, mutedStyle.Render("Memorize"), "", promptStyle.Render(m.trial.Show))
	} else {
		lines = append(lines, promptStyle.Render(m.trial.Prompt), "")
		if m.trial.Choices != nil {
			lines = append(lines, mutedStyle.Render("keys: "+strings.Join(m.trial.Choices, " ")))
		} else {
			lines = append(lines, m.input.View())
		}
	}
	if m.feedback != "" {
		style := wrongStyle
		if m.feedbackOK {
			style = correctStyle
		}
		lines = append(lines, "", style.Render(m.feedback))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderComplete() string {
	st := m.engine.State()
	lines := []string{
		titleStyle.Render("Session complete"),
		"",
		fmt.Sprintf("Score         %d", st.Score),
		fmt.Sprintf("Accuracy      %d%%", st.Accuracy),
		fmt.Sprintf("Correct       %d/%d", st.Correct, st.Responses),
		fmt.Sprintf("Best streak   %d", st.BestStreak),
		fmt.Sprintf("Avg reaction  %.0f ms", st.AverageReaction()),
	}
	if m.outcome != nil {
		lines = append(lines,
			fmt.Sprintf("%s skill  %d", m.game.Domain.Label(), m.outcome.Stats.DomainScores[m.game.Domain]),
			fmt.Sprintf("Day streak    %d", m.outcome.Stats.CurrentStreak),
		)
		for _, u := range m.outcome.Unlocked {
			name := u.AchievementID
			icon := "*"
			if a, ok := m.achievements.Lookup(u.AchievementID); ok {
				name = a.Name
				icon = a.Icon
			}
			lines = append(lines, correctStyle.Render(fmt.Sprintf("%s Unlocked: %s", icon, name)))
		}
	}
	if m.saveErr != nil {
		lines = append(lines, "", wrongStyle.Render("Progress was not saved: "+m.saveErr.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	switch m.engine.Status() {
	case session.StatusInstructions:
		return "enter start · t practice · +/- level · q quit"
	case session.StatusComplete:
		return "r play again · q quit"
	case session.StatusPaused, session.StatusCountdown:
		return "ctrl+c quit"
	}
	if m.trial.Choices == nil {
		return "enter submit · p pause · ctrl+c quit"
	}
	return "p pause · ctrl+c quit"
}
