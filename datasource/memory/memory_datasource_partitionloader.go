package memory

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-sif/showframe"
)

// PartitionLoader is capable of loading partitions of data from a single in-memory buffer
type PartitionLoader struct {
	idx    int
	source *DataSource
}

// ToString returns a string representation of this PartitionLoader
func (pl *PartitionLoader) ToString() string {
	return fmt.Sprintf("Memory loader index: %d", pl.idx)
}

// Load parses the buffer assigned to this PartitionLoader
func (pl *PartitionLoader) Load(parser showframe.DataSourceParser, widestInitialSchema showframe.Schema) (showframe.PartitionIterator, error) {
	if parser == nil {
		return nil, fmt.Errorf("Memory DataSource requires a DataSourceParser")
	}
	r := bytes.NewReader(pl.source.data[pl.idx])
	return parser.Parse(r, pl.source, pl.source.schema, widestInitialSchema, nil)
}

// GobEncode serializes a PartitionLoader
func (pl *PartitionLoader) GobEncode() ([]byte, error) {
	buff := make([]byte, 4)
	binary.LittleEndian.PutUint32(buff, uint32(pl.idx))
	return buff, nil
}

// GobDecode deserializes a PartitionLoader
func (pl *PartitionLoader) GobDecode(in []byte) error {
	if len(in) < 4 {
		return fmt.Errorf("Serialized memory PartitionLoader is too short")
	}
	idx := int(binary.LittleEndian.Uint32(in))
	if pl.source != nil && idx >= len(pl.source.data) {
		return fmt.Errorf("Memory PartitionLoader index %d is out of range", idx)
	}
	pl.idx = idx
	return nil
}
