package dsv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-sif/showframe"
)

// ParserConf configures a DSV Parser
type ParserConf struct {
	PartitionSize int    // The maximum number of rows per Partition. Defaults to 128.
	HeaderLines   int    // The number of lines to ignore from the beginning of each buffer. Defaults to 0.
	Delimiter     rune   // The delimiter separating columns. Defaults to ,
	Comment       rune   // Lines beginning with the comment character are ignored. Cannot be equal to the Delimiter. Defaults to no comment character.
	NilValue      string // A special string which represents nil values in the dataset. The empty string is always nil.
}

// Parser produces partitions from delimiter-separated data
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new DSV Parser. Fields are assigned to Schema columns by position.
func CreateParser(conf *ParserConf) (*Parser, error) {
	c := ParserConf{}
	if conf != nil {
		c = *conf
	}
	conf = &c
	if conf.PartitionSize == 0 {
		conf.PartitionSize = 128
	}
	if conf.Delimiter == 0 {
		conf.Delimiter = ','
	}
	if conf.Comment != 0 && conf.Comment == conf.Delimiter {
		return nil, fmt.Errorf("Comment character %q cannot also be the delimiter", conf.Comment)
	}
	return &Parser{conf: conf}, nil
}

// PartitionSize returns the maximum size in rows of Partitions produced by this Parser
func (p *Parser) PartitionSize() int {
	return p.conf.PartitionSize
}

// Parse parses DSV data to produce Partitions
func (p *Parser) Parse(r io.Reader, source showframe.DataSource, schema showframe.Schema, widestInitialSchema showframe.Schema, onIteratorEnd func()) (showframe.PartitionIterator, error) {
	reader := csv.NewReader(r)
	reader.Comma = p.conf.Delimiter
	reader.Comment = p.conf.Comment
	reader.FieldsPerRecord = schema.NumColumns()
	reader.ReuseRecord = true

	for i := 0; i < p.conf.HeaderLines; i++ {
		if _, err := reader.Read(); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
	}

	iterator := &dsvPartitionIterator{
		parser:              p,
		reader:              reader,
		hasNext:             true,
		source:              source,
		schema:              schema,
		widestInitialSchema: widestInitialSchema,
		endListeners:        []func(){},
	}
	if onIteratorEnd != nil {
		iterator.OnEnd(onIteratorEnd)
	}
	return iterator, nil
}
