package orchestrate

import (
	"sort"

	"github.com/HANSKMIEL/Optura/internal/model"
)

// Classify partitions a project's non-terminal tasks by readiness.
//
// Completed, failed, and in-progress tasks are skipped: the first two are
// terminal for scheduling, and in-progress work is already moving and not
// re-offered. Every other task lands in exactly one bucket:
//
//   - needs_approval: all prerequisites completed, status is review, and the
//     task requires human sign-off;
//   - actionable: all prerequisites completed (or none) and no sign-off is
//     pending;
//   - blocked: at least one prerequisite is not yet completed; the unmet
//     prerequisites are named.
//
// The full membership of each bucket is returned; trimming to a display
// count is left to the presentation layer.
func Classify(g *Graph) *model.NextActions {
	res := &model.NextActions{
		ProjectID:     g.ProjectID,
		Actionable:    []*model.TaskRef{},
		NeedsApproval: []*model.TaskRef{},
		Blocked:       []*model.BlockedTask{},
	}

	// Walk tasks in display order so the buckets read the way the board does.
	idx := make([]int, g.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		na, nb := g.Nodes[idx[a]], g.Nodes[idx[b]]
		if na.Order != nb.Order {
			return na.Order < nb.Order
		}
		return na.ID < nb.ID
	})

	for _, i := range idx {
		n := g.Nodes[i]
		if n.Status.IsTerminal() || n.Status == model.StatusInProgress {
			continue
		}

		var unmet []string
		for _, p := range g.in[i] {
			if g.Nodes[p].Status != model.StatusCompleted {
				unmet = append(unmet, g.Nodes[p].Name)
			}
		}

		if len(unmet) > 0 {
			res.Blocked = append(res.Blocked, &model.BlockedTask{
				TaskID:    n.ID,
				Name:      n.Name,
				BlockedBy: unmet,
			})
			continue
		}

		ref := &model.TaskRef{TaskID: n.ID, Name: n.Name, Status: n.Status}
		if n.Estimated {
			hours := n.Hours
			ref.EstimateHours = &hours
		}
		if n.Status == model.StatusReview && n.RequiresApproval {
			res.NeedsApproval = append(res.NeedsApproval, ref)
		} else {
			res.Actionable = append(res.Actionable, ref)
		}
	}

	return res
}
