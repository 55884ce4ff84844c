package models

type TaskStats struct {
	Total        int64
	Completed    int64
	Pending      int64
	HighPriority int64
}

// ProjectStats counts as active every project referenced by at least one
// task. There is no explicit active flag on a project.
type ProjectStats struct {
	Total  int64
	Active int64
}

type Stats struct {
	Tasks    TaskStats
	Projects ProjectStats
}
