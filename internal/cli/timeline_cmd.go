package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/scheduler"
	"github.com/spf13/cobra"
)

func newTimelineCmd(app *App) *cobra.Command {
	var configPath string
	var windowDays int

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Browse the scheduled calendar day by day in an interactive view",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := resolveConfig(configPath, windowDays)
			if err != nil {
				return err
			}
			tasks, milestones, projects, habits, err := loadAll(ctx, app)
			if err != nil {
				return err
			}
			result, err := scheduler.Schedule(tasks, milestones, projects, habits, &cfg, app.Observer)
			if err != nil {
				return err
			}

			var previews []domain.SchedulePreview
			for _, p := range result.Previews {
				if len(p.Slots) > 0 {
					previews = append(previews, p)
				}
			}
			sort.Slice(previews, func(i, j int) bool { return previews[i].Date.Before(previews[j].Date) })

			m := newTimelineModel(previews)
			_, err = tea.NewProgram(m).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML SchedulerConfig file")
	cmd.Flags().IntVar(&windowDays, "days", 14, "Window size in days when --config isn't given")

	return cmd
}

var (
	timelineHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	timelineBlockStyle  = lipgloss.NewStyle().PaddingLeft(2)
	timelineHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type timelineKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

var timelineKeys = timelineKeyMap{
	Next: key.NewBinding(key.WithKeys("right", "l", "n"), key.WithHelp("→/l", "next day")),
	Prev: key.NewBinding(key.WithKeys("left", "h", "p"), key.WithHelp("←/h", "previous day")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// timelineModel is a day-paginated view over a scheduling run's previews,
// the same Model/Update/View shape the shell's views use, scaled down to
// a single screen instead of a multi-view shell.
type timelineModel struct {
	previews []domain.SchedulePreview
	cursor   int
}

func newTimelineModel(previews []domain.SchedulePreview) timelineModel {
	return timelineModel{previews: previews}
}

func (m timelineModel) Init() tea.Cmd { return nil }

func (m timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, timelineKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, timelineKeys.Next):
			if m.cursor < len(m.previews)-1 {
				m.cursor++
			}
		case key.Matches(msg, timelineKeys.Prev):
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m timelineModel) View() string {
	if len(m.previews) == 0 {
		return "Nothing scheduled in this window.\n"
	}
	p := m.previews[m.cursor]

	var b strings.Builder
	b.WriteString(timelineHeaderStyle.Render(p.Date.Format("Monday, January 2")))
	b.WriteString(fmt.Sprintf("  (%d/%d)\n\n", m.cursor+1, len(m.previews)))

	for _, block := range p.Slots {
		line := fmt.Sprintf("%s-%s  %s", minuteToClock(block.StartMinute), minuteToClock(block.EndMinute), block.TaskID)
		if block.SessionInfo != nil {
			line += fmt.Sprintf("  (session %d/%d)", block.SessionInfo.SessionNumber, block.SessionInfo.TotalSessions)
		}
		b.WriteString(timelineBlockStyle.Render(line))
		b.WriteString("\n")
	}
	for _, w := range p.Warnings {
		b.WriteString(timelineBlockStyle.Render("! " + w))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(timelineHelpStyle.Render("←/→ day   q quit"))
	b.WriteString("\n")
	return b.String()
}
