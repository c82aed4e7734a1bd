package dataframe

import (
	"fmt"

	"github.com/go-sif/showframe"
)

// GetParent returns the parent DataFrame of a DataFrame, or nil if there isn't one
func (df *dataFrameImpl) GetParent() showframe.DataFrame {
	if df.parent == nil {
		return nil
	}
	return df.parent
}

// Optimize splits the DataFrame chain into stages which each share a memory layout.
// A Repack ends a Stage, and a Collect or Accumulate ends the Plan.
func Optimize(df showframe.DataFrame) (*Plan, error) {
	frame, ok := df.(*dataFrameImpl)
	if !ok {
		return nil, fmt.Errorf("Cannot optimize DataFrame of type %T", df)
	}
	return frame.Optimize()
}

// Optimize splits the DataFrame chain into stages which each share a memory layout.
// A Repack ends a Stage, and a Collect or Accumulate ends the Plan.
func (df *dataFrameImpl) Optimize() (*Plan, error) {
	// create a slice of frames, in order of execution, by following parent links
	frames := []*dataFrameImpl{}
	for next := df; next != nil; next = next.parent {
		frames = append([]*dataFrameImpl{next}, frames...)
	}
	stages := []*Stage{createStage(0)}
	for i, f := range frames {
		currentStage := stages[len(stages)-1]
		currentStage.frames = append(currentStage.frames, f)
		switch f.taskType {
		case showframe.RepackTaskType:
			if i+1 < len(frames) {
				currentStage.end()
				nextStage := createStage(len(stages))
				nextStage.incomingSchema = currentStage.outgoingSchema
				stages = append(stages, nextStage)
			}
		case showframe.AccumulateTaskType:
			aTask, ok := f.task.(accumulationTask)
			if !ok {
				return nil, fmt.Errorf("taskType is %s but Task is not an accumulationTask. Task is misdefined", f.taskType)
			}
			currentStage.accumulatorFactory = aTask.GetAccumulatorFactory()
			if i+1 < len(frames) {
				return nil, fmt.Errorf("No tasks can follow an Accumulate()")
			}
		case showframe.CollectTaskType:
			cTask, ok := f.task.(collectionTask)
			if !ok {
				return nil, fmt.Errorf("taskType is %s but Task is not a collectionTask. Task is misdefined", f.taskType)
			}
			currentStage.collectionLimit = cTask.GetCollectionLimit()
			currentStage.endsInCollect = true
			if i+1 < len(frames) {
				return nil, fmt.Errorf("No tasks can follow a Collect()")
			}
		}
	}
	stages[len(stages)-1].end()
	return &Plan{stages: stages, parser: df.parser, source: df.source}, nil
}
