// Package dashboard renders a live terminal view of the current day. It
// recomputes today's aggregate from the event log on a fixed cadence so
// the numbers stay honest while the tracker keeps appending events.
package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayoisaiah/daybook/config"
	"github.com/ayoisaiah/daybook/engine"
	"github.com/ayoisaiah/daybook/internal/models"
	"github.com/ayoisaiah/daybook/internal/timeutil"
	"github.com/ayoisaiah/daybook/store"
	"github.com/ayoisaiah/daybook/tracker"
)

const refreshEvery = 15 * time.Second

const maxCategoryRows = 5

type (
	refreshMsg time.Time

	aggregateMsg struct {
		agg *models.DailyAggregate
		err error
	}
)

// Model is the bubbletea model for the live dashboard. The tracker is
// optional; without one the pause key is inert and only stored events
// are shown.
type Model struct {
	db      store.DB
	tracker *tracker.Tracker
	engCfg  engine.Config
	styles  styles
	help    help.Model
	agg     *models.DailyAggregate
	err     error
	paused  bool
	clock   func() time.Time
}

// New builds the dashboard model.
func New(
	cfg *config.Config,
	db store.DB,
	tr *tracker.Tracker,
) (Model, error) {
	engCfg, err := cfg.Engine()
	if err != nil {
		return Model{}, err
	}

	return Model{
		db:      db,
		tracker: tr,
		engCfg:  engCfg,
		styles:  defaultStyles(),
		help:    help.New(),
		clock:   time.Now,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), m.scheduleRefresh())
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// refreshCmd recomputes today's aggregate from the event log.
func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		now := m.clock().In(m.engCfg.Location)
		day := timeutil.RoundToStart(now)

		events, skipped, err := m.db.GetEvents(day, timeutil.RoundToEnd(now))
		if err != nil {
			return aggregateMsg{err: err}
		}

		agg, err := engine.Daily(m.engCfg, day, events)
		if err != nil {
			return aggregateMsg{err: err}
		}

		agg.SkippedEvents += skipped

		return aggregateMsg{agg: agg}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, defaultKeymap.quit):
			return m, tea.Quit
		case key.Matches(msg, defaultKeymap.refresh):
			return m, m.refreshCmd()
		case key.Matches(msg, defaultKeymap.pause):
			if m.tracker == nil {
				return m, nil
			}

			if m.paused {
				m.tracker.Resume()
			} else {
				m.tracker.Pause()
			}

			m.paused = !m.paused

			return m, nil
		}
	case refreshMsg:
		return m, tea.Batch(m.refreshCmd(), m.scheduleRefresh())
	case aggregateMsg:
		m.agg = msg.agg
		m.err = msg.err

		return m, nil
	}

	return m, nil
}

func fmtSeconds(seconds float64) string {
	d := time.Duration(seconds) * time.Second

	h := int(d.Hours())
	mins := int(d.Minutes()) % 60

	if h == 0 {
		return fmt.Sprintf("%dm", mins)
	}

	return fmt.Sprintf("%dh %02dm", h, mins)
}

func (m Model) sessionView() string {
	if m.paused {
		return m.styles.warning.Render("⏸ tracking paused")
	}

	if m.tracker == nil {
		return m.styles.hint.Render("no tracker attached")
	}

	open, ok := m.tracker.Current()
	if !ok {
		return m.styles.hint.Render("no active session")
	}

	elapsed := m.clock().In(m.engCfg.Location).Sub(open.StartTime)

	return fmt.Sprintf(
		"%s %s (%s) since %s",
		m.styles.liveDot.Render("●"),
		open.Identity.App,
		fmtSeconds(elapsed.Seconds()),
		open.StartTime.Format("15:04"),
	)
}

func (m Model) categoriesView() string {
	if len(m.agg.ByCategory) == 0 {
		return m.styles.hint.Render("nothing tracked yet")
	}

	type keyValue struct {
		key   string
		value float64
	}

	kv := make([]keyValue, 0, len(m.agg.ByCategory))
	for k, v := range m.agg.ByCategory {
		kv = append(kv, keyValue{k, v})
	}

	sort.SliceStable(kv, func(i, j int) bool {
		if kv[i].value != kv[j].value {
			return kv[i].value > kv[j].value
		}

		return kv[i].key < kv[j].key
	})

	if len(kv) > maxCategoryRows {
		kv = kv[:maxCategoryRows]
	}

	var s strings.Builder

	for _, v := range kv {
		s.WriteString(fmt.Sprintf(
			"%-14s %s\n",
			v.key,
			m.styles.value.Render(fmtSeconds(v.value)),
		))
	}

	return strings.TrimRight(s.String(), "\n")
}

func (m Model) scoreView() string {
	score := m.agg.Score

	return fmt.Sprintf(
		"%s %s",
		m.styles.scoreBar.Render(fmt.Sprintf("%.0f/100", score.Overall)),
		m.styles.hint.Render("("+score.Rating+")"),
	)
}

func (m Model) View() string {
	var s strings.Builder

	now := m.clock().In(m.engCfg.Location)

	s.WriteString(m.styles.title.Render(
		"Daybook · " + now.Format("Monday, January 02"),
	))
	s.WriteString("\n\n")
	s.WriteString(m.sessionView())
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString("\n" + m.styles.warning.Render(m.err.Error()) + "\n")
	}

	if m.agg != nil {
		var deepWorkSeconds float64
		for _, b := range m.agg.DeepWork {
			deepWorkSeconds += b.Minutes * 60
		}

		s.WriteString(m.styles.section.Render("Today") + "\n")
		s.WriteString(fmt.Sprintf(
			"Tracked %s · Deep work %s in %d block(s) · %d interruption(s)\n",
			m.styles.value.Render(fmtSeconds(m.agg.TotalSeconds)),
			m.styles.value.Render(fmtSeconds(deepWorkSeconds)),
			len(m.agg.DeepWork),
			m.agg.Interruptions.Total,
		))

		s.WriteString(m.styles.section.Render("Score") + "\n")
		s.WriteString(m.scoreView() + "\n")

		s.WriteString(m.styles.section.Render("Categories") + "\n")
		s.WriteString(m.categoriesView() + "\n")

		for _, w := range m.agg.Warnings {
			s.WriteString(m.styles.warning.Render(w) + "\n")
		}
	}

	s.WriteString("\n" + m.help.ShortHelpView([]key.Binding{
		defaultKeymap.pause,
		defaultKeymap.refresh,
		defaultKeymap.quit,
	}))

	return m.styles.base.Render(s.String())
}
