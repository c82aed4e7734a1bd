package dataframe

import (
	"github.com/go-sif/showframe"
	iutil "github.com/go-sif/showframe/internal/util"
	"github.com/go-sif/showframe/logging"
	"github.com/hashicorp/go-multierror"
)

// Stage is a group of tasks which share a common memory layout.
// Partitions are repacked between Stages.
type Stage struct {
	id                  int
	incomingSchema      showframe.Schema
	outgoingSchema      showframe.Schema
	widestInitialSchema showframe.Schema
	frames              []*dataFrameImpl
	accumulatorFactory  showframe.AccumulatorFactory
	endsInCollect       bool
	collectionLimit     int
}

// createStage is a factory for Stages
func createStage(id int) *Stage {
	return &Stage{
		id:     id,
		frames: []*dataFrameImpl{},
	}
}

// end computes the widest and outgoing Schemas of this Stage, once all of its frames are known
func (s *Stage) end() {
	if s.incomingSchema == nil {
		s.incomingSchema = s.frames[0].schema
	}
	// columns are only ever appended within a stage, so the schema with the
	// most columns dictates the memory layout for the whole stage
	var widest showframe.Schema
	for _, f := range s.frames {
		if widest == nil || f.schema.NumColumns() > widest.NumColumns() || (f.schema.NumColumns() == widest.NumColumns() && f.schema.Size() > widest.Size()) {
			widest = f.schema
		}
	}
	if widest.NumColumns() < s.incomingSchema.NumColumns() {
		widest = s.incomingSchema
	}
	s.widestInitialSchema = widest
	lastFrame := s.frames[len(s.frames)-1]
	if lastFrame.schema.NumRemovedColumns() > 0 {
		// if a stage ends with removed columns, we will repack automatically
		s.outgoingSchema = lastFrame.schema.Repack()
	} else {
		s.outgoingSchema = lastFrame.schema
	}
}

// ID returns the ID for this Stage
func (s *Stage) ID() int {
	return s.id
}

// IncomingSchema is the Schema for data entering this Stage
func (s *Stage) IncomingSchema() showframe.Schema {
	return s.incomingSchema
}

// OutgoingSchema is the Schema for data leaving this Stage
func (s *Stage) OutgoingSchema() showframe.Schema {
	return s.outgoingSchema
}

// WidestInitialSchema returns the Schema which determines the memory layout of Partitions in this Stage
func (s *Stage) WidestInitialSchema() showframe.Schema {
	return s.widestInitialSchema
}

// WorkerExecute runs a stage against a Partition of data, returning
// the modified Partition (which may have been modified in-place, filtered,
// or replaced). Row errors are returned unless ignoreRowErrors is set,
// in which case they are logged and the offending rows dropped.
func (s *Stage) WorkerExecute(part showframe.OperablePartition, ignoreRowErrors bool) ([]showframe.OperablePartition, error) {
	log := logging.WithComponent("stage")
	var prev = []showframe.OperablePartition{part}
	for _, frame := range s.frames {
		next := make([]showframe.OperablePartition, 0, len(prev))
		for _, p := range prev {
			out, err := frame.task.RunWorker(p)
			if err != nil {
				merr, isRowErr := err.(*multierror.Error)
				if !isRowErr || !ignoreRowErrors {
					return nil, err
				}
				log.Warn().
					Int("stage", s.id).
					Str("task", string(frame.taskType)).
					Int("rows_dropped", len(merr.Errors)).
					Str("errors", iutil.FormatMultiError(merr)).
					Msg("ignoring row errors")
			}
			for _, o := range out {
				o.UpdateCurrentSchema(frame.schema)
			}
			next = append(next, out...)
		}
		prev = next
	}
	return prev, nil
}

// EndsInAccumulate returns true iff this Stage ends with an accumulation task
func (s *Stage) EndsInAccumulate() bool {
	return s.accumulatorFactory != nil
}

// EndsInCollect returns true iff this Stage represents a collect task
func (s *Stage) EndsInCollect() bool {
	return s.endsInCollect
}

// GetCollectionLimit returns the maximum number of Partitions to collect, or 0 if there is no limit
func (s *Stage) GetCollectionLimit() int {
	return s.collectionLimit
}

// AccumulatorFactory retrieves the AccumulatorFactory for this Stage (if it exists)
func (s *Stage) AccumulatorFactory() showframe.AccumulatorFactory {
	return s.accumulatorFactory
}
