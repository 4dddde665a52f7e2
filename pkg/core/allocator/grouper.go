package allocator

import "github.com/tmercier/roomplan/pkg/core/model"

// GroupKey identifies sessions that are candidates for sharing one room:
// same date, same times, same subject.
type GroupKey struct {
	Date     string
	StartMin int
	EndMin   int
	Subject  string
}

// GroupSessions partitions sessions into shared-room candidate groups.
// Sessions keep their input order within each group, and the returned key
// slice preserves first-seen order so callers can iterate deterministically.
// Inputs are not mutated.
func GroupSessions(sessions []*model.Session) (map[GroupKey][]*model.Session, []GroupKey) {
	groups := make(map[GroupKey][]*model.Session)
	keys := make([]GroupKey, 0)

	for _, s := range sessions {
		key := GroupKey{
			Date:     s.Date,
			StartMin: s.StartMin,
			EndMin:   s.EndMin,
			Subject:  s.Subject,
		}
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], s)
	}

	return groups, keys
}
