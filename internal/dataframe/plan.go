package dataframe

import (
	"github.com/go-sif/showframe"
)

// Plan is an optimized execution Plan for a DataFrame
type Plan struct {
	stages []*Stage
	parser showframe.DataSourceParser
	source showframe.DataSource
}

// Size returns the number of stages in this Plan
func (p *Plan) Size() int {
	return len(p.stages)
}

// GetStage returns a particular Stage in this Plan
func (p *Plan) GetStage(idx int) *Stage {
	return p.stages[idx]
}

// LastStage returns the final Stage in this Plan
func (p *Plan) LastStage() *Stage {
	return p.stages[len(p.stages)-1]
}

// Parser returns this Plan's DataSourceParser
func (p *Plan) Parser() showframe.DataSourceParser {
	return p.parser
}

// Source returns this Plan's DataSource
func (p *Plan) Source() showframe.DataSource {
	return p.source
}

// OutgoingSchema returns the Schema of data leaving this Plan
func (p *Plan) OutgoingSchema() showframe.Schema {
	return p.LastStage().OutgoingSchema()
}

// IndexedPartitionLoader is a PartitionLoader, along with its position in the PartitionMap it came from
type IndexedPartitionLoader struct {
	Index  int
	Loader showframe.PartitionLoader
}

// AnalyzeSource returns every PartitionLoader for this Plan's DataSource, in order
func (p *Plan) AnalyzeSource() ([]IndexedPartitionLoader, error) {
	pmap, err := p.source.Analyze()
	if err != nil {
		return nil, err
	}
	loaders := []IndexedPartitionLoader{}
	for pmap.HasNext() {
		loaders = append(loaders, IndexedPartitionLoader{Index: len(loaders), Loader: pmap.Next()})
	}
	return loaders, nil
}
