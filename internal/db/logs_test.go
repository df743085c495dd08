package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/planner/internal/models"
)

func TestAddDailyLog(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t, nil)

	p, err := database.CreateProject(ctx, "Atlas", date("2025-01-06"), date("2025-07-31"))
	require.NoError(t, err)

	t.Run("defaults to today", func(t *testing.T) {
		l, err := database.AddDailyLog(ctx, p.ID, models.NewDailyLog{
			ActivitiesUS:    "Workshop with BAs",
			ActivitiesIndia: "Env setup",
			BlockersIndia:   "VPN access",
			Decisions:       "Use CDC for egress",
			NextStepsUS:     "Review mapping",
		})
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", l.LogDate.String())
		assert.Equal(t, "VPN access", l.BlockersIndia)
		assert.Equal(t, "Use CDC for egress", l.Decisions)
		assert.Empty(t, l.NextStepsIndia)
		assert.True(t, l.CreatedAt.Equal(fixedNow), "created_at = %v", l.CreatedAt)
	})

	t.Run("caller date wins", func(t *testing.T) {
		l, err := database.AddDailyLog(ctx, p.ID, models.NewDailyLog{
			LogDate:      date("2025-01-31").Ptr(),
			ActivitiesUS: "Backfilled",
		})
		require.NoError(t, err)
		assert.Equal(t, "2025-01-31", l.LogDate.String())
		assert.True(t, l.CreatedAt.Equal(fixedNow))
	})
}

func TestListDailyLogsForProject_Ordering(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	database := newTestDB(t, &now)

	p, err := database.CreateProject(ctx, "Atlas", date("2025-01-06"), date("2025-07-31"))
	require.NoError(t, err)
	other, err := database.CreateProject(ctx, "Other", date("2025-01-06"), date("2025-07-31"))
	require.NoError(t, err)

	entries := []struct {
		date string
		note string
	}{
		{"2025-01-07", "first"},
		{"2025-01-09", "third"},
		{"2025-01-08", "second-a"},
		{"2025-01-08", "second-b"},
	}
	for _, e := range entries {
		now = now.Add(time.Minute)
		_, err := database.AddDailyLog(ctx, p.ID, models.NewDailyLog{LogDate: date(e.date).Ptr(), Decisions: e.note})
		require.NoError(t, err)
	}
	_, err = database.AddDailyLog(ctx, other.ID, models.NewDailyLog{Decisions: "elsewhere"})
	require.NoError(t, err)

	logs, err := database.ListDailyLogsForProject(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, logs, 4)

	var notes []string
	for _, l := range logs {
		notes = append(notes, l.Decisions)
		assert.Equal(t, p.ID, l.ProjectID)
	}
	// Same-day entries come back newest insert first
	assert.Equal(t, []string{"third", "second-b", "second-a", "first"}, notes)
}
