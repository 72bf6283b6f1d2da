package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/kpidesk/internal/domain"
	"github.com/alexanderramin/kpidesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepo_CreateAndListNewestFirst(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := seedRecord(t, NewSQLRecordRepo(db), domain.KindKPI)
	repo := NewSQLCommentRepo(db)
	ctx := context.Background()

	at := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	first := testutil.NewTestComment(rec.ID, "first", testutil.WithCommentTime(at))
	second := testutil.NewTestComment(rec.ID, "second", testutil.WithCommentTime(at.Add(time.Minute)))
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content)
	assert.Equal(t, "first", list[1].Content)
	assert.Equal(t, "Kim", list[0].Author.Name)
	assert.True(t, list[1].CreatedAt.Equal(at))
}

func TestCommentRepo_SameInstantKeepsInsertionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := seedRecord(t, NewSQLRecordRepo(db), domain.KindTask)
	repo := NewSQLCommentRepo(db)
	ctx := context.Background()

	at := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	for _, content := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestComment(rec.ID, content, testutil.WithCommentTime(at))))
	}

	list, err := repo.ListByRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].Content, list[1].Content, list[2].Content})
}

func TestCommentRepo_UpdateContent(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := seedRecord(t, NewSQLRecordRepo(db), domain.KindKPI)
	repo := NewSQLCommentRepo(db)
	ctx := context.Background()

	c := testutil.NewTestComment(rec.ID, "draft")
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.UpdateContent(ctx, c.ID, "final"))

	list, err := repo.ListByRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "final", list[0].Content)

	assert.ErrorIs(t, repo.UpdateContent(ctx, "missing", "x"), ErrNotFound)
}

func TestCommentRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	rec := seedRecord(t, NewSQLRecordRepo(db), domain.KindKPI)
	repo := NewSQLCommentRepo(db)
	ctx := context.Background()

	c := testutil.NewTestComment(rec.ID, "bye")
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.Delete(ctx, c.ID))

	list, err := repo.ListByRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, repo.Delete(ctx, c.ID), ErrNotFound)
}

func TestCommentRepo_RecordDeleteCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	records := NewSQLRecordRepo(db)
	rec := seedRecord(t, records, domain.KindKPI)
	repo := NewSQLCommentRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestComment(rec.ID, "x")))
	require.NoError(t, records.Delete(ctx, rec.ID))

	list, err := repo.ListByRecord(ctx, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
