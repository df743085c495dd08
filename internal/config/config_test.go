package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "project_config.ini")

	props, err := Load(path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	assert.Equal(t, []string{
		SectionProjectDefaults,
		SectionTeamMembers,
		SectionHolidays,
		SectionSkills,
		SectionCommunication,
		SectionProjectChallenges,
	}, props.Sections())

	for _, s := range defaults {
		for _, it := range s.items {
			got, ok := props.Get(s.name, it.Key)
			assert.True(t, ok, "%s.%s", s.name, it.Key)
			assert.Equal(t, it.Value, got, "%s.%s", s.name, it.Key)
		}
	}

	// A second load reads the file back rather than rewriting it
	reloaded, err := Load(path)
	require.NoError(t, err)
	v, ok := reloaded.Get(SectionCommunication, "Daily_Call_Time_US_ET")
	require.True(t, ok)
	assert.Equal(t, "9:00 AM", v)
}

func TestGet_Absent(t *testing.T) {
	props, err := Load(filepath.Join(t.TempDir(), "p.ini"))
	require.NoError(t, err)

	v, ok := props.Get("NO_SUCH_SECTION", "key")
	assert.False(t, ok)
	assert.Empty(t, v)

	_, ok = props.Get(SectionTeamMembers, "nobody")
	assert.False(t, ok)

	_, err = props.Lookup("NO_SUCH_SECTION", "key")
	assert.ErrorIs(t, err, ErrSectionMissing)
	_, err = props.Lookup(SectionTeamMembers, "nobody")
	assert.ErrorIs(t, err, ErrKeyMissing)

	assert.Nil(t, props.SectionItems("NO_SUCH_SECTION"))
}

func TestKeysAreCaseInsensitive(t *testing.T) {
	props, err := Load(filepath.Join(t.TempDir(), "p.ini"))
	require.NoError(t, err)

	a, ok := props.Get(SectionTeamMembers, "ssa1_name")
	require.True(t, ok)
	b, ok := props.Get(SectionTeamMembers, "SSA1_NAME")
	require.True(t, ok)
	assert.Equal(t, a, b)
}

func TestSet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.ini")
	props, err := Load(path)
	require.NoError(t, err)

	tests := []struct {
		section string
		key     string
		value   any
		want    string
	}{
		{SectionTeamMembers, "SSA1_Name", "Dana Whitfield", "Dana Whitfield"},
		{SectionTeamMembers, "Offshore_Devs_Count", 8, "8"},
		{SectionCommunication, "Overlap_Hours", 2.5, "2.5"},
		{"NEW_SECTION", "Enabled", true, "true"},
		{SectionProjectChallenges, "Motto", `"ship it"`, `"ship it"`},
	}
	for _, tt := range tests {
		require.NoError(t, props.Set(tt.section, tt.key, tt.value))
		got, ok := props.Get(tt.section, tt.key)
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}

	// Writes are persisted immediately
	reloaded, err := Load(path)
	require.NoError(t, err)
	got, ok := reloaded.Get("NEW_SECTION", "enabled")
	require.True(t, ok)
	assert.Equal(t, "true", got)
	got, _ = reloaded.Get(SectionTeamMembers, "SSA1_Name")
	assert.Equal(t, "Dana Whitfield", got)
	got, _ = reloaded.Get(SectionProjectChallenges, "motto")
	assert.Equal(t, `"ship it"`, got, "surrounding quotes survive a reload")
}

func TestSectionItems(t *testing.T) {
	props, err := Load(filepath.Join(t.TempDir(), "p.ini"))
	require.NoError(t, err)

	items := props.SectionItems(SectionCommunication)
	require.Len(t, items, 4)
	assert.Equal(t, Item{Key: "overlap_hours", Value: "2"}, items[0])
	assert.Equal(t, "weekly_recon_day", items[2].Key)
}

func TestHolidays(t *testing.T) {
	props, err := Load(filepath.Join(t.TempDir(), "p.ini"))
	require.NoError(t, err)

	days, err := props.Holidays("US_Holidays_YYYY-MM-DD")
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-07-04", days[0].String())
	assert.Equal(t, "2025-11-27", days[2].String())

	require.NoError(t, props.Set(SectionHolidays, "Bad", "2025-13-45"))
	_, err = props.Holidays("Bad")
	assert.Error(t, err)

	_, err = props.Holidays("Missing")
	assert.ErrorIs(t, err, ErrKeyMissing)
}

func TestLoadSettings_Defaults(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	s, err := LoadSettings(NewViper())
	require.NoError(t, err)

	dir := filepath.Join(dataHome, "planner")
	assert.Equal(t, dir, s.DataDir)
	assert.Equal(t, filepath.Join(dir, "planner.db"), s.DBPath)
	assert.Equal(t, filepath.Join(dir, "project_config.ini"), s.PropertiesPath)
	assert.Equal(t, filepath.Join(dir, "planner.log"), s.LogPath())
	assert.Empty(t, s.SettingsFile)

	level, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestLoadSettings_EnvAndFile(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("PLANNER_DATA_DIR", dataDir)
	t.Setenv("PLANNER_DB", "/tmp/elsewhere.db")

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "settings.yaml"),
		[]byte("log_level: debug\nproperties: /etc/planner/team.ini\n"), 0644))

	s, err := LoadSettings(NewViper())
	require.NoError(t, err)

	assert.Equal(t, dataDir, s.DataDir)
	assert.Equal(t, "/tmp/elsewhere.db", s.DBPath)
	assert.Equal(t, "/etc/planner/team.ini", s.PropertiesPath)
	assert.NotEmpty(t, s.SettingsFile)

	level, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestSettingsLevel_Invalid(t *testing.T) {
	s := &Settings{LogLevel: "chatty"}
	level, err := s.Level()
	assert.Error(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
