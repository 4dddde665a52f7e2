package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmercier/roomplan/pkg/core/model"
)

func TestGroupSessions_SameSlotSameSubject(t *testing.T) {
	sessions := []*model.Session{
		{Date: "2026-02-05", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS ACSE 1", Subject: "Droit"},
		{Date: "2026-02-05", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "BTS ACSE 2", Subject: "Droit"},
	}

	groups, keys := GroupSessions(sessions)

	require.Len(t, keys, 1)
	assert.Len(t, groups[keys[0]], 2, "Identical slots with the same subject should share a group")
}

func TestGroupSessions_EveryKeyFieldSplits(t *testing.T) {
	base := model.Session{Date: "2026-02-05", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "A", Subject: "Droit"}

	otherDate := base
	otherDate.Date = "2026-02-06"
	otherStart := base
	otherStart.StartMin = 10 * 60
	otherEnd := base
	otherEnd.EndMin = 11 * 60
	otherSubject := base
	otherSubject.Subject = "Agronomie"

	sessions := []*model.Session{&base, &otherDate, &otherStart, &otherEnd, &otherSubject}

	groups, keys := GroupSessions(sessions)

	assert.Len(t, keys, 5, "Date, start, end and subject are all part of the group key")
	for _, key := range keys {
		assert.Len(t, groups[key], 1)
	}
}

func TestGroupSessions_PreservesFirstSeenOrder(t *testing.T) {
	sessions := []*model.Session{
		{Date: "2026-02-05", StartMin: 14 * 60, EndMin: 17 * 60, Cohort: "A", Subject: "Agronomie"},
		{Date: "2026-02-05", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "A", Subject: "Droit"},
		{Date: "2026-02-05", StartMin: 14 * 60, EndMin: 17 * 60, Cohort: "B", Subject: "Agronomie"},
		{Date: "2026-02-05", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "B", Subject: "Droit"},
	}

	groups, keys := GroupSessions(sessions)

	require.Len(t, keys, 2)
	assert.Equal(t, "Agronomie", keys[0].Subject, "Key order should follow first appearance in the input")
	assert.Equal(t, "Droit", keys[1].Subject)

	agronomie := groups[keys[0]]
	require.Len(t, agronomie, 2)
	assert.Equal(t, "A", agronomie[0].Cohort, "Sessions keep input order within their group")
	assert.Equal(t, "B", agronomie[1].Cohort)
}

func TestGroupSessions_DoesNotMutateInput(t *testing.T) {
	session := &model.Session{Date: "2026-02-05", StartMin: 9 * 60, EndMin: 12 * 60, Cohort: "A", Subject: "Droit"}
	before := *session

	GroupSessions([]*model.Session{session})

	assert.Equal(t, before, *session)
}

func TestGroupSessions_Empty(t *testing.T) {
	groups, keys := GroupSessions(nil)

	assert.Empty(t, groups)
	assert.Empty(t, keys)
}
