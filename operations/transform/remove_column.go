package transform

import "github.com/go-sif/showframe"

// removeColumnTask is a task that does nothing, as columns are dropped by the next repack
type removeColumnTask struct{}

// RunWorker for removeColumnTask does nothing
func (s *removeColumnTask) RunWorker(previous showframe.OperablePartition) ([]showframe.OperablePartition, error) {
	return []showframe.OperablePartition{previous}, nil
}

// RemoveColumn removes existing columns
func RemoveColumn(oldNames ...string) *showframe.DataFrameOperation {
	return &showframe.DataFrameOperation{
		TaskType: showframe.RemoveColumnTaskType,
		Do: func(d showframe.DataFrame) (*showframe.DataFrameOperationResult, error) {
			newSchema := d.GetSchema().Clone()
			for _, oldName := range oldNames {
				if _, err := newSchema.RemoveColumn(oldName); err != nil {
					return nil, err
				}
			}
			return &showframe.DataFrameOperationResult{
				Task:       &removeColumnTask{},
				DataSchema: newSchema,
			}, nil
		},
	}
}
