package orchestrate

import "github.com/HANSKMIEL/Optura/internal/model"

// CriticalPath computes the maximum-duration path through the dependency
// graph and the resulting project duration floor.
//
// An empty graph yields an empty path and zero hours. A cyclic edge set is
// reported through the result's Error field rather than a returned error.
// Among equally long paths, the first maximum encountered in start-node then
// end-node order is kept; BuildGraph lays nodes out in ascending task-id
// order, so the choice is stable for a given task set.
func CriticalPath(g *Graph) *model.CriticalPathResult {
	res := &model.CriticalPathResult{
		ProjectID:    g.ProjectID,
		CriticalPath: []*model.PathStep{},
	}
	if g.Len() == 0 {
		return res
	}

	order, acyclic := g.topoOrder()
	if !acyclic {
		res.Error = CircularDependency
		return res
	}

	// Start nodes have no prerequisites, end nodes no dependents.
	// An isolated task is both, and is its own candidate path.
	var starts, ends []int
	for i := range g.Nodes {
		if len(g.in[i]) == 0 {
			starts = append(starts, i)
		}
		if len(g.out[i]) == 0 {
			ends = append(ends, i)
		}
	}

	var (
		bestPath []int
		bestDur  float64
	)

	for _, start := range starts {
		// Longest distance from this start to every reachable node,
		// relaxing edges in topological order.
		dist := make([]float64, g.Len())
		prev := make([]int, g.Len())
		for i := range dist {
			dist[i] = -1
			prev[i] = -1
		}
		dist[start] = g.Nodes[start].Hours

		for _, u := range order {
			if dist[u] < 0 {
				continue
			}
			for _, v := range g.out[u] {
				if d := dist[u] + g.Nodes[v].Hours; d > dist[v] {
					dist[v] = d
					prev[v] = u
				}
			}
		}

		for _, end := range ends {
			if dist[end] > bestDur {
				bestDur = dist[end]
				bestPath = bestPath[:0]
				for n := end; n >= 0; n = prev[n] {
					bestPath = append(bestPath, n)
				}
				// Reverse: reconstruction walked end to start.
				for i, j := 0, len(bestPath)-1; i < j; i, j = i+1, j-1 {
					bestPath[i], bestPath[j] = bestPath[j], bestPath[i]
				}
			}
		}
	}

	for _, i := range bestPath {
		n := g.Nodes[i]
		res.CriticalPath = append(res.CriticalPath, &model.PathStep{
			TaskID:        n.ID,
			Name:          n.Name,
			EstimateHours: n.Hours,
			Status:        n.Status,
		})
	}
	res.TotalHours = bestDur
	return res
}
