package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tgienger/planner/internal/config"
	"github.com/tgienger/planner/internal/db"
	"github.com/tgienger/planner/internal/plan"
)

var testBuild = BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2025-01-01"}

// run executes one planner invocation against dataDir and returns stdout
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root, a := newRootCmd(testBuild)
	t.Cleanup(func() { a.close() })

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := run(t, dataDir, args...)
	require.NoError(t, err, "planner %s", strings.Join(args, " "))
	return out
}

func createAtlas(t *testing.T, dir string) {
	t.Helper()
	mustRun(t, dir, "project", "create", "Atlas", "--start", "2025-01-06", "--end", "2025-07-31")
}

func TestVersionCmd(t *testing.T) {
	out := mustRun(t, t.TempDir(), "version")
	assert.Equal(t, "planner 1.2.3 (commit: abc123, built: 2025-01-01)\n", out)

	out = mustRun(t, t.TempDir(), "--version")
	assert.Equal(t, "planner 1.2.3 (commit: abc123, built: 2025-01-01)\n", out)
}

func TestProjectCommands(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "project", "list")
	assert.Contains(t, out, "No projects yet")

	out = mustRun(t, dir, "project", "create", "Atlas", "--start", "2025-01-06", "--end", "2025-07-31")
	assert.Equal(t, "Created project #1 Atlas (2025-01-06 -> 2025-07-31)\n", out)
	mustRun(t, dir, "project", "create", "Borealis", "--start", "2025-02-01", "--end", "2025-09-30")

	_, err := run(t, dir, "project", "create", "Atlas", "--start", "2025-03-01", "--end", "2025-04-01")
	assert.ErrorIs(t, err, db.ErrDuplicateName)

	_, err = run(t, dir, "project", "create", "Bad", "--start", "2025-02-30", "--end", "2025-04-01")
	assert.ErrorContains(t, err, "--start")

	_, err = run(t, dir, "project", "create", "Backwards", "--start", "2025-04-01", "--end", "2025-03-01")
	assert.ErrorIs(t, err, db.ErrInvalidDates)

	out = mustRun(t, dir, "project", "list")
	atlas := strings.Index(out, "Atlas")
	borealis := strings.Index(out, "Borealis")
	require.True(t, atlas >= 0 && borealis >= 0, out)
	assert.Less(t, atlas, borealis)
	assert.Contains(t, out, "TARGET END")

	out = mustRun(t, dir, "project", "status", "Atlas", "in progress")
	assert.Equal(t, "Project #1 Atlas is now In Progress\n", out)

	out = mustRun(t, dir, "project", "show", "1")
	assert.Contains(t, out, "Project:    #1 Atlas\n")
	assert.Contains(t, out, "Status:     In Progress\n")
	assert.Contains(t, out, "Plan:       0 phases, 0 epics, 0 tasks, 0 subtasks\n")

	_, err = run(t, dir, "project", "show", "Nope")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestProjectRefs(t *testing.T) {
	dir := t.TempDir()
	createAtlas(t, dir)
	mustRun(t, dir, "project", "create", "1", "--start", "2025-02-03", "--end", "2025-05-30")

	out := mustRun(t, dir, "project", "show", "1")
	assert.Contains(t, out, "Project:    #2 1\n", "names win over ids")

	out = mustRun(t, dir, "project", "show", "#1")
	assert.Contains(t, out, "Project:    #1 Atlas\n")

	out = mustRun(t, dir, "project", "show", "2")
	assert.Contains(t, out, "Project:    #2 1\n")

	_, err := run(t, dir, "project", "show", "#9")
	assert.ErrorIs(t, err, db.ErrNotFound)
	_, err = run(t, dir, "project", "show", "#x")
	assert.ErrorContains(t, err, "invalid id")
}

func TestProjectDelete(t *testing.T) {
	dir := t.TempDir()
	createAtlas(t, dir)
	mustRun(t, dir, "plan", "populate", "Atlas")
	mustRun(t, dir, "log", "add", "Atlas", "--decisions", "Go")

	_, err := run(t, dir, "project", "delete", "Atlas")
	assert.ErrorContains(t, err, "--force")

	out := mustRun(t, dir, "project", "delete", "Atlas", "--force")
	assert.Equal(t, "Deleted project #1 Atlas\n", out)

	_, err = run(t, dir, "project", "show", "Atlas")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestPlanPopulate(t *testing.T) {
	dir := t.TempDir()
	createAtlas(t, dir)

	out := mustRun(t, dir, "plan", "populate", "Atlas")
	assert.Equal(t, "Added 3 phases, 7 epics, 28 tasks to Atlas\n", out)

	_, err := run(t, dir, "plan", "populate", "Atlas")
	assert.ErrorIs(t, err, plan.ErrAlreadyPopulated)
	assert.ErrorContains(t, err, "--append")

	mustRun(t, dir, "plan", "populate", "Atlas", "--append")
	out = mustRun(t, dir, "project", "show", "Atlas")
	assert.Contains(t, out, "Plan:       6 phases, 14 epics, 56 tasks, 0 subtasks\n")
}

func TestPlanPopulate_UsesTeamNames(t *testing.T) {
	dir := t.TempDir()
	createAtlas(t, dir)

	mustRun(t, dir, "config", "set", config.SectionTeamMembers, "SSA1_Name", "Dana")
	mustRun(t, dir, "plan", "populate", "Atlas")

	out := mustRun(t, dir, "plan", "show", "Atlas")
	assert.Contains(t, out, "Client Kick-off & Expectations Alignment | Dana | High | To Do | due 2025-01-09")
}

func TestPlanShow_YAML(t *testing.T) {
	dir := t.TempDir()
	createAtlas(t, dir)
	mustRun(t, dir, "plan", "populate", "Atlas")

	out := mustRun(t, dir, "plan", "show", "Atlas", "-o", "yaml")

	var doc struct {
		Project struct {
			Name string `yaml:"name"`
		} `yaml:"project"`
		Phases []struct {
			Name string `yaml:"name"`
		} `yaml:"phases"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Atlas", doc.Project.Name)
	assert.Len(t, doc.Phases, 3)

	_, err := run(t, dir, "plan", "show", "Atlas", "-o", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestPhaseAndEpicCommands(t *testing.T) {
	dir := t.TempDir()
	createAtlas(t, dir)

	out := mustRun(t, dir, "phase", "add", "Atlas", "Discovery",
		"--start", "2025-01-06", "--end", "2025-01-31", "-d", "Scope the work")
	assert.Equal(t, "Added phase #1 Discovery to Atlas (2025-01-06 -> 2025-01-31)\n", out)

	out = mustRun(t, dir, "phase", "add", "Atlas", "Backlog")
	assert.Equal(t, "Added phase #2 Backlog to Atlas (N/A -> N/A)\n", out)

	_, err := run(t, dir, "phase", "add", "Atlas", "Backwards", "--start", "2025-02-01", "--end", "2025-01-01")
	assert.ErrorIs(t, err, db.ErrInvalidDates)
	_, err = run(t, dir, "phase", "add", "Atlas", "Bad", "--end", "2025-02-31")
	assert.ErrorContains(t, err, "--end")
	_, err = run(t, dir, "phase", "add", "Nope", "Orphan")
	assert.ErrorIs(t, err, db.ErrNotFound)

	out = mustRun(t, dir, "epic", "add", "#1", "Stakeholder Alignment", "--status", "in progress")
	assert.Equal(t, "Added epic #1 Stakeholder Alignment [In Progress] to phase #1\n", out)
	out = mustRun(t, dir, "epic", "add", "2", "Parking Lot")
	assert.Equal(t, "Added epic #2 Parking Lot [Planned] to phase #2\n", out)

	_, err = run(t, dir, "epic", "add", "9", "Orphan")
	assert.ErrorIs(t, err, db.ErrParentNotFound)
	_, err = run(t, dir, "epic", "add", "1", "Bad", "--status", "someday")
	assert.Error(t, err)

	out = mustRun(t, dir, "task", "add", "#1", "Interview sponsors", "--due", "2025-01-10")
	assert.Equal(t, "Added task #1 Interview sponsors [Medium, To Do]\n", out)

	out = mustRun(t, dir, "plan", "show", "Atlas")
	assert.Contains(t, out, "  #1 Discovery  (2025-01-06 -> 2025-01-31)\n    Scope the work\n")
	assert.Contains(t, out, "    #1 Stakeholder Alignment [In Progress]\n")
	assert.Contains(t, out, "      #1 Interview sponsors | - | Medium | To Do | due 2025-01-10\n")
	assert.Contains(t, out, "  #2 Backlog  (N/A -> N/A)\n")
}

func TestTaskCommands(t *testing.T) {
	dir := t.TempDir()
	createAtlas(t, dir)

	out := mustRun(t, dir, "task", "list", "Atlas")
	assert.Equal(t, "Atlas has no tasks\n", out)

	mustRun(t, dir, "plan", "populate", "Atlas")
	out = mustRun(t, dir, "task", "list", "Atlas")
	assert.Contains(t, out, "Client Kick-off & Expectations Alignment")
	assert.Less(t, strings.Index(out, "Client Kick-off"), strings.Index(out, "Production Deployment Plan"))

	out = mustRun(t, dir, "task", "add", "1", "Stakeholder map", "-p", "low", "--due", "2025-01-08", "-a", "SA2")
	assert.Equal(t, "Added task #29 Stakeholder map [Low, To Do]\n", out)

	_, err := run(t, dir, "task", "add", "99", "Orphan")
	assert.ErrorIs(t, err, db.ErrParentNotFound)

	out = mustRun(t, dir, "task", "status", "29", "done")
	assert.Contains(t, out, "Task #29 Stakeholder map is now Done (completed ")
	assert.NotContains(t, out, "N/A")

	_, err = run(t, dir, "task", "status", "29", "finished")
	assert.Error(t, err)
	_, err = run(t, dir, "task", "status", "999", "done")
	assert.ErrorIs(t, err, db.ErrNotFound)

	out = mustRun(t, dir, "subtask", "add", "29", "Draft RACI")
	assert.Equal(t, "Added subtask #1 Draft RACI to task #29\n", out)
	out = mustRun(t, dir, "subtask", "status", "1", "blocked")
	assert.Equal(t, "Subtask #1 Draft RACI is now Blocked\n", out)
}

func TestLogCommands(t *testing.T) {
	dir := t.TempDir()
	createAtlas(t, dir)

	out := mustRun(t, dir, "log", "list", "Atlas")
	assert.Equal(t, "No daily logs for Atlas\n", out)

	out = mustRun(t, dir, "log", "add", "Atlas", "--date", "2025-01-07",
		"--activities-us", "Kick-off held", "--blockers-india", "VPN access")
	assert.Equal(t, "Logged 2025-01-07 for Atlas (#1)\n", out)
	mustRun(t, dir, "log", "add", "Atlas", "--date", "2025-01-08", "--decisions", "Use CDC")

	out = mustRun(t, dir, "log", "list", "Atlas")
	assert.Less(t, strings.Index(out, "=== 2025-01-08"), strings.Index(out, "=== 2025-01-07"))
	assert.Contains(t, out, "Blockers (India):\n  VPN access\n")
	assert.NotContains(t, out, "Blockers (US)")

	_, err := run(t, dir, "log", "add", "Atlas", "--date", "tomorrow")
	assert.ErrorContains(t, err, "--date")
}

func TestConfigCommands(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "config", "get", config.SectionTeamMembers, "ssa1_name")
	assert.Equal(t, "Senior Solutions Architect (USA)\n", out)
	assert.FileExists(t, filepath.Join(dir, "project_config.ini"))

	mustRun(t, dir, "config", "set", "COMMUNICATION", "Overlap_Hours", "3")
	out = mustRun(t, dir, "config", "get", "COMMUNICATION", "OVERLAP_HOURS")
	assert.Equal(t, "3\n", out)

	_, err := run(t, dir, "config", "get", "NOPE", "x")
	assert.ErrorIs(t, err, config.ErrSectionMissing)

	out = mustRun(t, dir, "config", "list", "HOLIDAYS")
	assert.Equal(t, "[HOLIDAYS]\n"+
		"india_holidays_yyyy-mm-dd = 2025-08-15, 2025-10-02, 2025-10-23\n"+
		"us_holidays_yyyy-mm-dd = 2025-07-04, 2025-09-01, 2025-11-27\n", out)

	out = mustRun(t, dir, "config", "list")
	assert.Contains(t, out, "[PROJECT_CHALLENGES]\n")

	_, err = run(t, dir, "config", "list", "NOPE")
	assert.Error(t, err)

	out = mustRun(t, dir, "config", "holidays")
	assert.Equal(t,
		"india_holidays_yyyy-mm-dd: Fri 2025-08-15, Thu 2025-10-02, Thu 2025-10-23\n"+
			"us_holidays_yyyy-mm-dd: Fri 2025-07-04, Mon 2025-09-01, Thu 2025-11-27\n", out)

	mustRun(t, dir, "config", "set", "HOLIDAYS", "US_Holidays_YYYY-MM-DD", "2025-13-01")
	_, err = run(t, dir, "config", "holidays")
	assert.ErrorContains(t, err, "us_holidays_yyyy-mm-dd")

	out = mustRun(t, dir, "config", "path")
	assert.Contains(t, out, filepath.Join(dir, "planner.db"))
}

func TestRootStartsInterface(t *testing.T) {
	dir := t.TempDir()
	root, a := newRootCmd(testBuild)
	t.Cleanup(func() { a.close() })

	var started tea.Model
	a.runTUI = func(m tea.Model) error {
		started = m
		return nil
	}
	root.SetArgs([]string{"--data-dir", dir, "--log-level", "debug"})
	require.NoError(t, root.Execute())

	assert.NotNil(t, started)
	assert.FileExists(t, filepath.Join(dir, "planner.log"))
	assert.FileExists(t, filepath.Join(dir, "project_config.ini"))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, t.TempDir(), "--log-level", "loud", "version")
	assert.ErrorContains(t, err, "log level")
}
