package orchestrate

import (
	"fmt"
	"sort"

	"github.com/HANSKMIEL/Optura/internal/model"
)

// Config carries scheduling parameters. Passing them explicitly keeps the
// analyzers free of process-wide state.
type Config struct {
	// DefaultEstimateHours is the duration assumed for tasks with no estimate.
	DefaultEstimateHours float64
}

// DefaultConfig returns the standard scheduling parameters.
func DefaultConfig() Config {
	return Config{DefaultEstimateHours: 1.0}
}

// Node is one task inside a dependency graph.
type Node struct {
	ID               string
	Name             string
	Hours            float64
	Status           model.TaskStatus
	RequiresApproval bool
	Estimated        bool // true when the task carried its own estimate
	Order            int
}

// Graph is an ephemeral dependency graph for one project: an arena of nodes
// indexed by task id with adjacency lists by arena index. Edges point from a
// prerequisite to its dependent. Built fresh per analysis call, never stored.
type Graph struct {
	ProjectID string
	Nodes     []Node
	index     map[string]int // task id -> arena index
	out       [][]int        // prerequisite -> dependents
	in        [][]int        // dependent -> prerequisites
}

// BuildGraph assembles a graph from one project's tasks and dependency edges.
// Nodes are laid out in ascending task-id order so that downstream
// enumeration (and therefore critical-path tie-breaking) is deterministic.
// It fails only when a task or edge endpoint does not belong to projectID.
func BuildGraph(projectID string, tasks []*model.Task, deps []*model.TaskDependency, cfg Config) (*Graph, error) {
	sorted := make([]*model.Task, len(tasks))
	copy(sorted, tasks)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	g := &Graph{
		ProjectID: projectID,
		Nodes:     make([]Node, 0, len(sorted)),
		index:     make(map[string]int, len(sorted)),
	}

	for _, t := range sorted {
		if t.ProjectID != projectID {
			return nil, fmt.Errorf("task %s belongs to project %s, not %s", t.ID, t.ProjectID, projectID)
		}
		hours := cfg.DefaultEstimateHours
		if t.EstimateHours != nil {
			hours = *t.EstimateHours
		}
		g.index[t.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{
			ID:               t.ID,
			Name:             t.Name,
			Hours:            hours,
			Status:           t.Status,
			RequiresApproval: t.RequiresApproval,
			Estimated:        t.EstimateHours != nil,
			Order:            t.Order,
		})
	}

	g.out = make([][]int, len(g.Nodes))
	g.in = make([][]int, len(g.Nodes))

	for _, d := range deps {
		to, ok := g.index[d.TaskID]
		if !ok {
			return nil, fmt.Errorf("dependency references unknown task %s", d.TaskID)
		}
		from, ok := g.index[d.DependsOnTaskID]
		if !ok {
			return nil, fmt.Errorf("dependency references unknown task %s", d.DependsOnTaskID)
		}
		g.out[from] = append(g.out[from], to)
		g.in[to] = append(g.in[to], from)
	}

	return g, nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Lookup returns the arena index for a task id.
func (g *Graph) Lookup(taskID string) (int, bool) {
	i, ok := g.index[taskID]
	return i, ok
}

// Dependents returns the arena indexes of tasks that depend on node i.
func (g *Graph) Dependents(i int) []int {
	return g.out[i]
}

// Prerequisites returns the arena indexes of tasks that node i depends on.
func (g *Graph) Prerequisites(i int) []int {
	return g.in[i]
}

// topoOrder runs Kahn's algorithm, seeding and releasing nodes in arena
// (ascending task-id) order. The second return is false when a cycle
// prevents a complete ordering.
func (g *Graph) topoOrder() ([]int, bool) {
	indegree := make([]int, len(g.Nodes))
	for i := range g.Nodes {
		indegree[i] = len(g.in[i])
	}

	var queue []int
	for i := range g.Nodes {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, len(g.Nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		var released []int
		for _, succ := range g.out[n] {
			indegree[succ]--
			if indegree[succ] == 0 {
				released = append(released, succ)
			}
		}
		sort.Ints(released)
		queue = append(queue, released...)
	}

	return order, len(order) == len(g.Nodes)
}
