package model

// ProjectFilter selects projects in ListProjects queries.
// Zero values mean "no constraint".
type ProjectFilter struct {
	Status []ProjectStatus
	Search string // matches name or description, case-insensitive
	Limit  int
	Offset int
}

// TaskFilter selects tasks in ListTasks queries. ProjectID is required;
// the rest are optional constraints.
type TaskFilter struct {
	ProjectID string
	Status    []TaskStatus
	Limit     int
	Offset    int
}
