package cli

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mrivera/daypack/internal/domain"
	"github.com/mrivera/daypack/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayPreview(t time.Time, taskID string, startMinute, endMinute int) domain.SchedulePreview {
	return domain.SchedulePreview{
		Date: t,
		Slots: []domain.ScheduledBlock{
			{TaskID: taskID, Date: t, StartMinute: startMinute, EndMinute: endMinute},
		},
	}
}

func TestTimelineModel_NavigatesBetweenDays(t *testing.T) {
	day1 := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	previews := []domain.SchedulePreview{
		dayPreview(day1, "task-a", 540, 600),
		dayPreview(day2, "task-b", 600, 660),
	}

	m := newTimelineModel(previews)
	d := teatest.New(t, m)
	d.DrainInit()

	require.Contains(t, d.View(), "task-a")
	assert.NotContains(t, d.View(), "task-b")

	d.PressKey('l')
	require.Contains(t, d.View(), "task-b")
	assert.NotContains(t, d.View(), "task-a")

	d.SendKey(tea.KeyMsg{Type: tea.KeyLeft})
	require.Contains(t, d.View(), "task-a")
}

func TestTimelineModel_CursorClampedAtBounds(t *testing.T) {
	day1 := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	previews := []domain.SchedulePreview{dayPreview(day1, "task-a", 540, 600)}

	m := newTimelineModel(previews)
	d := teatest.New(t, m)
	d.DrainInit()

	d.PressKey('l')
	d.PressKey('l')
	require.Contains(t, d.View(), "task-a")
}

func TestTimelineModel_QuitsOnQ(t *testing.T) {
	m := newTimelineModel(nil)
	d := teatest.New(t, m)
	d.DrainInit()

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestTimelineModel_EmptyPreviewsMessage(t *testing.T) {
	m := newTimelineModel(nil)
	d := teatest.New(t, m)
	d.DrainInit()
	assert.Contains(t, d.View(), "Nothing scheduled")
}
