package showframe

// TaskType describes the type of a Task, used internally to control behaviour
type TaskType string

const (
	// ExtractTaskType indicates that this task sources data from a DataSource
	ExtractTaskType TaskType = "extract"
	// WithColumnTaskType indicates that this task adds a column
	WithColumnTaskType TaskType = "with_column"
	// RemoveColumnTaskType indicates that this task removes a column
	RemoveColumnTaskType TaskType = "remove_column"
	// RenameColumnTaskType indicates that this task renames a column
	RenameColumnTaskType TaskType = "rename_column"
	// RepackTaskType indicates that this task triggers a Repack
	RepackTaskType TaskType = "repack"
	// MapTaskType indicates that this task triggers a Map
	MapTaskType TaskType = "map"
	// FilterTaskType indicates that this task triggers a Filter
	FilterTaskType TaskType = "filter"
	// AccumulateTaskType indicates that this task triggers an Accumulation
	AccumulateTaskType TaskType = "accumulate"
	// CollectTaskType indicates that this task triggers a Collect
	CollectTaskType TaskType = "collect"
)
