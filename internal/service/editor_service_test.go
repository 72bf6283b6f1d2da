package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/kpidesk/internal/checklist"
	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/form"
	"github.com/alexanderramin/kpidesk/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillTask(t *testing.T, sess *form.Session) {
	t.Helper()
	require.NoError(t, sess.Dispatch(form.SetTitle{Value: "Migrate CI"}))
	require.NoError(t, sess.Dispatch(form.SetType{Value: "development"}))
}

func TestEditorService_NewTaskRoundTrip(t *testing.T) {
	s := setupServices(t)
	editor := s.editor()
	ctx := context.Background()

	sess, err := editor.New(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Equal(t, "MAIN-TASK-25-001", sess.State().Code)
	assert.Equal(t, "Kim", sess.State().Assignee)
	assert.Equal(t, "Platform", sess.State().Team)
	fillTask(t, sess)

	store := sess.Checklist()
	require.NotNil(t, store)
	root, ok := store.Add("Pipeline")
	require.True(t, ok)
	done, ok := store.AddChild(root, "Design")
	require.True(t, ok)
	wip, ok := store.AddChild(root, "Build")
	require.True(t, ok)
	require.True(t, store.Set(done, checklist.SetStatus{Status: domain.StatusDone}))
	require.True(t, store.Set(wip, checklist.SetStatus{Status: domain.StatusInProgress}))

	_, ok = sess.AddComment("first")
	require.True(t, ok)
	_, ok = sess.AddComment("second")
	require.True(t, ok)

	res, err := editor.Save(ctx, sess)
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 2, res.Comments.Created)
	assert.Equal(t, form.PhaseClosed, sess.Phase())

	reopened, err := editor.Open(ctx, "MAIN-TASK-25-001")
	require.NoError(t, err)
	assert.Equal(t, res.Record.ID, reopened.State().ID)

	items := reopened.Checklist().Items()
	require.Len(t, items, 3)
	assert.Equal(t, domain.StatusInProgress, items[0].Status, "root status derives from children")

	view := reopened.Comments().View()
	require.Len(t, view, 2)
	assert.Equal(t, "second", view[0].Comment.Content)
	assert.Equal(t, "Kim", view[0].Comment.Author.Name)
}

func TestEditorService_NextCodeFollowsExisting(t *testing.T) {
	s := setupServices(t)
	editor := s.editor()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sess, err := editor.New(ctx, domain.KindTask)
		require.NoError(t, err)
		fillTask(t, sess)
		_, err = editor.Save(ctx, sess)
		require.NoError(t, err)
	}

	sess, err := editor.New(ctx, domain.KindTask)
	require.NoError(t, err)
	assert.Equal(t, "MAIN-TASK-25-003", sess.State().Code)
}

func TestEditorService_ValidationFailureKeepsSessionOpen(t *testing.T) {
	s := setupServices(t)
	editor := s.editor()
	ctx := context.Background()

	sess, err := editor.New(ctx, domain.KindKPI)
	require.NoError(t, err)

	_, err = editor.Save(ctx, sess)
	var verr *form.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, form.PhaseEditing, sess.Phase())

	list, err := s.records.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEditorService_ChecklistFailureIsAWarning(t *testing.T) {
	database := testutil.NewTestDB(t)
	injected := errors.New("disk full")
	s := setupServicesWithUoW(t, database, &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: injected})
	editor := s.editor()
	ctx := context.Background()

	sess, err := editor.New(ctx, domain.KindTask)
	require.NoError(t, err)
	fillTask(t, sess)
	_, ok := sess.Checklist().Add("Pipeline")
	require.True(t, ok)

	res, err := editor.Save(ctx, sess)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "checklist", res.Warnings[0].Op)
	assert.ErrorIs(t, res.Warnings[0].Err, injected)

	_, err = s.records.GetByID(ctx, res.Record.ID)
	require.NoError(t, err, "record survives a checklist failure")

	items, err := s.checklists.ListByRecord(ctx, res.Record.Code)
	require.NoError(t, err)
	assert.Empty(t, items)

	var warned bool
	for _, e := range s.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["op"] == "checklist_replace" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestEditorService_OpenUnknownRecord(t *testing.T) {
	s := setupServices(t)
	_, err := s.editor().Open(context.Background(), "MAIN-TASK-25-404")
	assert.Error(t, err)
}

func TestEditorService_ObservesUseCases(t *testing.T) {
	s := setupServices(t)
	reg := prometheus.NewRegistry()
	metrics, err := NewMetricsUseCaseObserver(reg)
	require.NoError(t, err)
	editor := s.editor(NewMultiUseCaseObserver(metrics, NewLogUseCaseObserver(s.logger)))
	ctx := context.Background()

	sess, err := editor.New(ctx, domain.KindTask)
	require.NoError(t, err)
	_, err = editor.Save(ctx, sess)
	require.Error(t, err)
	fillTask(t, sess)
	_, err = editor.Save(ctx, sess)
	require.NoError(t, err)

	series, err := promtest.GatherAndCount(reg, "kpidesk_use_case_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, series)

	var names []string
	for _, e := range s.hook.AllEntries() {
		if e.Message == "service_use_case" {
			names = append(names, e.Data["use_case"].(string))
		}
	}
	assert.Equal(t, []string{"record-new", "record-save", "record-save"}, names)
	assert.Equal(t, logrus.ErrorLevel, s.hook.AllEntries()[1].Level)
}

func TestEditorService_UseCaseTimingFollowsClock(t *testing.T) {
	s := setupServices(t)
	rec := &recordingObserver{}
	ctx := context.Background()

	_, err := s.editor(rec).New(ctx, domain.KindTask)
	require.NoError(t, err)

	require.Len(t, rec.events, 1)
	assert.Equal(t, "record-new", rec.events[0].Name)
	assert.True(t, rec.events[0].StartedAt.Equal(s.clock.Now()))
	assert.Zero(t, rec.events[0].Duration)
}
