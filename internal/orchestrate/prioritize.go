package orchestrate

import (
	"sort"

	"github.com/HANSKMIEL/Optura/internal/model"
)

// statusRank orders statuses so that work already in flight sorts first.
var statusRank = map[model.TaskStatus]int{
	model.StatusInProgress: 0,
	model.StatusReview:     1,
	model.StatusApproved:   2,
	model.StatusPending:    3,
	model.StatusBlocked:    4,
	model.StatusCompleted:  5,
	model.StatusFailed:     6,
}

// Reprioritize computes a new total order over a project's tasks, favoring
// work already in flight. Within equal rank the existing order is preserved,
// so the operation is idempotent: a second pass over the result yields an
// empty change set. Only tasks whose position actually moved are reported;
// persisting the new order values is the caller's job.
func Reprioritize(projectID string, tasks []*model.Task) *model.ReprioritizeResult {
	sorted := make([]*model.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := rankOf(sorted[i].Status), rankOf(sorted[j].Status)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].Order < sorted[j].Order
	})

	res := &model.ReprioritizeResult{
		ProjectID:  projectID,
		Changes:    []*model.OrderChange{},
		TotalTasks: len(tasks),
	}
	for newOrder, t := range sorted {
		if t.Order != newOrder {
			res.Changes = append(res.Changes, &model.OrderChange{
				TaskID:   t.ID,
				Name:     t.Name,
				OldOrder: t.Order,
				NewOrder: newOrder,
			})
		}
	}
	return res
}

func rankOf(s model.TaskStatus) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	// Unknown statuses sort last.
	return len(statusRank)
}
