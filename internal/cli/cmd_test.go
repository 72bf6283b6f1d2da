package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/identity"
	"github.com/alexanderramin/kpidesk/internal/repository"
	"github.com/alexanderramin/kpidesk/internal/service"
	"github.com/alexanderramin/kpidesk/internal/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProfile = domain.Profile{
	UserID: "u-1", Name: "Kim", Team: "Platform", Department: "Engineering", Position: "Lead",
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T, observers ...service.UseCaseObserver) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(db)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local))
	logger, _ := logtest.NewNullLogger()

	records := service.NewRecordService(repository.NewSQLRecordRepo(db), clock)
	checklists := service.NewChecklistService(repository.NewSQLChecklistRepo(db, uow))
	comments := service.NewCommentService(repository.NewSQLCommentRepo(db), clock)
	ident := identity.NewStaticProvider(testProfile)

	return &App{
		Records:    records,
		Checklists: checklists,
		Comments:   comments,
		Editor: service.NewEditorService(records, checklists, comments, service.EditorConfig{
			Identity: ident,
			Clock:    clock,
			Logger:   logger,
			Debounce: 150 * time.Millisecond,
		}, observers...),
		Identity:          ident,
		ConfiguredProfile: testProfile,
		Clock:             clock,
	}
}

func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// seedTask creates a task record through the CLI and returns its code.
func seedTask(t *testing.T, app *App) string {
	t.Helper()
	out, err := executeCmd(t, app, "record", "new", "--kind", "task", "--title", "Ship release", "--type", "개발")
	require.NoError(t, err)
	require.Contains(t, out, "MAIN-TASK-25-001")
	return "MAIN-TASK-25-001"
}

func checklistItems(t *testing.T, app *App, code string) []domain.ChecklistItem {
	t.Helper()
	items, err := app.Checklists.ListByRecord(context.Background(), code)
	require.NoError(t, err)
	return items
}

func findItem(t *testing.T, items []domain.ChecklistItem, text string) domain.ChecklistItem {
	t.Helper()
	for _, it := range items {
		if it.Text == text {
			return it
		}
	}
	t.Fatalf("checklist item %q not found", text)
	return domain.ChecklistItem{}
}

// --- record ---

func TestRecordNew_FillsDefaultsFromProfile(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "record", "new", "--kind", "task",
		"--title", "Ship release", "--type", "개발", "--comment", "kickoff")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")
	assert.Contains(t, out, "comments: 1 added")

	rec, err := app.Records.GetByCode(context.Background(), "MAIN-TASK-25-001")
	require.NoError(t, err)
	assert.Equal(t, "Ship release", rec.Title)
	assert.Equal(t, "Platform", rec.Team)
	assert.Equal(t, "Kim", rec.Assignee)
	assert.Equal(t, "2025-06-01", rec.StartDate)
	assert.Equal(t, domain.StatusWaiting, rec.Status)
}

func TestRecordNew_ValidationNamesMissingField(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "record", "new", "--kind", "kpi", "--title", "Latency")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "카테고리")

	records, err := app.Records.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordNew_RejectsUnknownKind(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "record", "new", "--kind", "project")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestRecordNew_RejectsMalformedDate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "record", "new", "--kind", "task", "--due", "2025/06/30")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date")
}

func TestRecordNew_CodesIncrement(t *testing.T) {
	app := testApp(t)
	seedTask(t, app)

	out, err := executeCmd(t, app, "record", "new", "--kind", "task", "--title", "Second", "--type", "운영")
	require.NoError(t, err)
	assert.Contains(t, out, "MAIN-TASK-25-002")
}

func TestRecordList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "record", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No records found.")

	code := seedTask(t, app)
	out, err = executeCmd(t, app, "record", "list", "--kind", "task")
	require.NoError(t, err)
	assert.Contains(t, out, code)
	assert.Contains(t, out, "Ship release")

	out, err = executeCmd(t, app, "record", "list", "--kind", "kpi")
	require.NoError(t, err)
	assert.Contains(t, out, "No records found.")
}

func TestRecordEdit_UpdatesFields(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)

	out, err := executeCmd(t, app, "record", "edit", code,
		"--title", "Ship 2.0", "--status", "진행", "--due", "2025-06-30", "--description", "cut the branch")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved")

	rec, err := app.Records.GetByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "Ship 2.0", rec.Title)
	assert.Equal(t, domain.StatusInProgress, rec.Status)
	assert.Equal(t, "2025-06-30", rec.DueDate)
	assert.Equal(t, "cut the branch", rec.Description)
}

func TestRecordEdit_AcceptsLowercaseCode(t *testing.T) {
	app := testApp(t)
	seedTask(t, app)

	_, err := executeCmd(t, app, "record", "edit", "main-task-25-001", "--category", "infra")
	require.NoError(t, err)
}

func TestRecordShow(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)
	_, err := executeCmd(t, app, "checklist", "add", code, "--text", "Write notes")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "comment", "add", code, "--text", "looks good")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "record", "show", code)
	require.NoError(t, err)
	assert.Contains(t, out, "Ship release")
	assert.Contains(t, out, "Checklist")
	assert.Contains(t, out, "Write notes")
	assert.Contains(t, out, "looks good")
}

func TestRecordRemove(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)

	out, err := executeCmd(t, app, "record", "rm", code)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+code)

	_, err = app.Records.GetByCode(context.Background(), code)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecordShow_NotFound(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "record", "show", "MAIN-TASK-25-999")
	assert.Error(t, err)
}

// --- checklist ---

func TestChecklist_AddChildAndRollup(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)

	_, err := executeCmd(t, app, "checklist", "add", code, "--text", "Prepare")
	require.NoError(t, err)
	parent := findItem(t, checklistItems(t, app, code), "Prepare")

	out, err := executeCmd(t, app, "checklist", "add", code, "--text", "Draft notes", "--parent", parent.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, out, "Added item")

	items := checklistItems(t, app, code)
	child := findItem(t, items, "Draft notes")
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	assert.Equal(t, 1, child.Level)

	_, err = executeCmd(t, app, "checklist", "set", code, child.ID, "--status", "완료")
	require.NoError(t, err)

	parent = findItem(t, checklistItems(t, app, code), "Prepare")
	assert.Equal(t, domain.StatusDone, parent.Status)
	assert.True(t, parent.Checked)
}

func TestChecklist_SetDerivedFieldOnParentFails(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)
	_, err := executeCmd(t, app, "checklist", "add", code, "--text", "Prepare")
	require.NoError(t, err)
	parent := findItem(t, checklistItems(t, app, code), "Prepare")
	_, err = executeCmd(t, app, "checklist", "add", code, "--text", "Child", "--parent", parent.ID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "checklist", "set", code, parent.ID, "--progress", "50")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot apply")

	_, err = executeCmd(t, app, "checklist", "set", code, parent.ID, "--assignee", "Lee")
	require.NoError(t, err)
	assert.Equal(t, "Lee", findItem(t, checklistItems(t, app, code), "Prepare").Assignee)
}

func TestChecklist_SetRequiresAFlag(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)

	_, err := executeCmd(t, app, "checklist", "set", code, "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestChecklist_EditMoveAndRemove(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)
	for _, text := range []string{"A", "B"} {
		_, err := executeCmd(t, app, "checklist", "add", code, "--text", text)
		require.NoError(t, err)
	}
	items := checklistItems(t, app, code)
	a, b := findItem(t, items, "A"), findItem(t, items, "B")

	_, err := executeCmd(t, app, "checklist", "edit", code, a.ID, "--text", "Alpha")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "checklist", "move", code, b.ID, "--under", a.ID)
	require.NoError(t, err)
	moved := findItem(t, checklistItems(t, app, code), "B")
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, a.ID, *moved.ParentID)

	_, err = executeCmd(t, app, "checklist", "move", code, a.ID, "--under", b.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")

	_, err = executeCmd(t, app, "checklist", "move", code, b.ID, "--top")
	require.NoError(t, err)
	assert.Nil(t, findItem(t, checklistItems(t, app, code), "B").ParentID)

	_, err = executeCmd(t, app, "checklist", "move", code, b.ID)
	require.Error(t, err)

	_, err = executeCmd(t, app, "checklist", "move", code, b.ID, "--under", a.ID)
	require.NoError(t, err)
	out, err := executeCmd(t, app, "checklist", "rm", code, a.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 2 item(s)")
	assert.Empty(t, checklistItems(t, app, code))
}

func TestChecklist_ToggleCollapsesChildren(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)
	_, err := executeCmd(t, app, "checklist", "add", code, "--text", "Parent")
	require.NoError(t, err)
	parent := findItem(t, checklistItems(t, app, code), "Parent")
	_, err = executeCmd(t, app, "checklist", "add", code, "--text", "Hidden child", "--parent", parent.ID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "checklist", "toggle", code, parent.ID)
	require.NoError(t, err)
	assert.False(t, findItem(t, checklistItems(t, app, code), "Parent").Expanded)

	out, err := executeCmd(t, app, "record", "show", code)
	require.NoError(t, err)
	assert.NotContains(t, out, "Hidden child")
}

func TestChecklist_AmbiguousPrefix(t *testing.T) {
	_, err := matchID("checklist item", "ab", []string{"abc1", "abd2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")

	id, err := matchID("checklist item", "abc", []string{"abc", "abcd"})
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestChecklist_EvaluationHasNoChecklist(t *testing.T) {
	app := testApp(t)
	_, err := executeCmd(t, app, "record", "new", "--kind", "evaluation", "--title", "Q2 review", "--type", "정기")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "checklist", "add", "EVAL-25-001", "--text", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no checklist")
}

// --- comment ---

func TestComment_AddEditRemove(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)

	_, err := executeCmd(t, app, "comment", "add", code, "--text", "first pass")
	require.NoError(t, err)

	rec, err := app.Records.GetByCode(context.Background(), code)
	require.NoError(t, err)
	list, err := app.Comments.ListByRecord(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kim", list[0].Author.Name)

	_, err = executeCmd(t, app, "comment", "edit", code, list[0].ID[:8], "--text", "second pass")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "comment", "list", code)
	require.NoError(t, err)
	assert.Contains(t, out, "second pass")
	assert.NotContains(t, out, "first pass")

	out, err = executeCmd(t, app, "comment", "rm", code, list[0].ID)
	require.NoError(t, err)
	assert.Contains(t, out, "1 removed")

	out, err = executeCmd(t, app, "comment", "list", code)
	require.NoError(t, err)
	assert.Contains(t, out, "No comments.")
}

func TestComment_BlankRejected(t *testing.T) {
	app := testApp(t)
	code := seedTask(t, app)

	_, err := executeCmd(t, app, "comment", "add", code, "--text", "   ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be blank")
}

// --- profile ---

func TestProfileShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Kim")
	assert.Contains(t, out, "Platform")
}

func TestProfileSave_RequiresStore(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "profile", "save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KPIDESK_REDIS_URL")
}

func TestProfileSave_PublishesToRedis(t *testing.T) {
	app := testApp(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	provider := identity.NewRedisProviderWithClient(client, testProfile.UserID, nil)
	t.Cleanup(func() { _ = provider.Close() })
	app.Profiles = provider

	out, err := executeCmd(t, app, "profile", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved profile u-1")

	got, err := provider.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testProfile, got)
}

// --- metrics ---

func TestRootCmd_PrintsUseCaseMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observer, err := service.NewMetricsUseCaseObserver(reg)
	require.NoError(t, err)
	app := testApp(t, observer)
	app.Metrics = reg

	out, err := executeCmd(t, app, "record", "new", "--kind", "task", "--title", "Ship", "--type", "개발")
	require.NoError(t, err)
	assert.Contains(t, out, "record-new")
	assert.Contains(t, out, "record-save")
}

// --- import ---

func TestRecordImport(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "kpi.json")
	data := `{
  "record": {"kind": "kpi", "title": "Cut latency", "category": "performance", "due_date": "2025-09-30"},
  "checklist": [
    {"ref": "p", "text": "Profile"},
    {"ref": "c", "parent_ref": "p", "text": "Cache", "status": "완료", "progress": 100}
  ],
  "comments": ["imported"]
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, err := executeCmd(t, app, "record", "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "KPI-TASK-25-001")
	assert.Contains(t, out, "comments: 1 added")

	items := checklistItems(t, app, "KPI-TASK-25-001")
	require.Len(t, items, 2)
	parent := findItem(t, items, "Profile")
	assert.Equal(t, domain.StatusDone, parent.Status)
	assert.Equal(t, 100, parent.Progress)
}

func TestRecordImport_InvalidFile(t *testing.T) {
	app := testApp(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"record": {"kind": "project"}}`), 0o644))

	_, err := executeCmd(t, app, "record", "import", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record.kind")
}
