package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusIsClosed(t *testing.T) {
	cases := []struct {
		status Status
		closed bool
	}{
		{StatusWaiting, false},
		{StatusInProgress, false},
		{StatusDone, true},
		{StatusCancelled, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.closed, tc.status.IsClosed(), "status=%s", tc.status)
	}
}

func TestParseStatus_AcceptsAliases(t *testing.T) {
	s, err := ParseStatus("done")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, s)

	s, err = ParseStatus("진행")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("blocked")
	assert.Error(t, err)
}

func TestParsePriority_BothScales(t *testing.T) {
	p, err := ParsePriority("High")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	p, err = ParsePriority("심각")
	require.NoError(t, err)
	assert.Equal(t, PriorityCritical, p)

	p, err = ParsePriority("")
	require.NoError(t, err)
	_, ranked := p.Rank()
	assert.False(t, ranked, "없음 carries no rank")
}

func TestPriorityFromAverage_Midpoints(t *testing.T) {
	assert.Equal(t, PriorityLow, PriorityFromAverage(1.49))
	assert.Equal(t, PriorityMedium, PriorityFromAverage(1.5))
	assert.Equal(t, PriorityMedium, PriorityFromAverage(2.49))
	assert.Equal(t, PriorityHigh, PriorityFromAverage(2.5))
	assert.Equal(t, PriorityCritical, PriorityFromAverage(3.5))
}

func TestChecklistItem_StatusCheckedSync(t *testing.T) {
	item := &ChecklistItem{Status: StatusWaiting}

	item.SetStatus(StatusCancelled)
	assert.True(t, item.Checked, "취소 implies checked")

	item.SetStatus(StatusInProgress)
	assert.False(t, item.Checked)

	item.SetChecked(true)
	assert.Equal(t, StatusDone, item.Status)

	item.SetChecked(false)
	assert.Equal(t, StatusWaiting, item.Status)
}

func TestCommentRef_Discriminates(t *testing.T) {
	local := LocalRef("abc")
	persisted := PersistedRef("abc")

	assert.True(t, local.IsLocal())
	assert.False(t, persisted.IsLocal())
	assert.NotEqual(t, local, persisted, "same id, different origin")
	assert.Equal(t, "abc", local.ID())
}

func TestMergeRecord_DetailWinsSummaryFills(t *testing.T) {
	summary := &Record{ID: "r1", Title: "Summary title", Team: "Platform", Assignee: "kim"}
	detail := &Record{ID: "r1", Title: "Detail title", Description: "long text"}

	got := MergeRecord(detail, summary)
	assert.Equal(t, "Detail title", got.Title)
	assert.Equal(t, "Platform", got.Team, "required field kept from summary")
	assert.Equal(t, "kim", got.Assignee)
	assert.Equal(t, "long text", got.Description)
}

func TestMergeRecord_NilSides(t *testing.T) {
	summary := &Record{Title: "only summary"}
	assert.Equal(t, "only summary", MergeRecord(nil, summary).Title)
	assert.Equal(t, "", MergeRecord(nil, nil).Title)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, ClampPercent(-5))
	assert.Equal(t, 55, ClampPercent(55))
	assert.Equal(t, 100, ClampPercent(140))
}

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2025-02-28"))
	assert.False(t, IsDate("2025-02-30"))
	assert.False(t, IsDate("25-02-01"))
	assert.False(t, IsDate(""))
}
