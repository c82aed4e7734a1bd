package session

import (
	"context"
	"io"
	"os"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/accumulators"
	"github.com/go-sif/showframe/display"
	"github.com/go-sif/showframe/operations/util"
)

// Frame is a DataFrame bound to the Session which runs it
type Frame struct {
	session *Session
	df      showframe.DataFrame
}

// DataFrame returns the underlying DataFrame
func (f *Frame) DataFrame() showframe.DataFrame {
	return f.df
}

// To chains operations onto this Frame, producing a new one
func (f *Frame) To(ops ...*showframe.DataFrameOperation) (*Frame, error) {
	next, err := f.df.To(ops...)
	if err != nil {
		return nil, err
	}
	return &Frame{session: f.session, df: next}, nil
}

// Schema returns the Schema of this Frame, without columns which have been removed
func (f *Frame) Schema() showframe.Schema {
	schema := f.df.GetSchema()
	if schema.NumRemovedColumns() > 0 {
		return schema.Repack()
	}
	return schema
}

// Columns returns the column names of this Frame, in order
func (f *Frame) Columns() []string {
	return f.Schema().ColumnNames()
}

// Collect runs this Frame and returns every row, in order
func (f *Frame) Collect(ctx context.Context) (*showframe.Result, error) {
	collected, err := f.df.To(util.Collect(0))
	if err != nil {
		return nil, err
	}
	return f.session.Run(ctx, collected)
}

// Count runs this Frame and returns the number of rows
func (f *Frame) Count(ctx context.Context) (uint64, error) {
	counted, err := f.df.To(util.Accumulate(accumulators.Counter))
	if err != nil {
		return 0, err
	}
	res, err := f.session.Run(ctx, counted)
	if err != nil {
		return 0, err
	}
	return res.Accumulated.(*accumulators.Count).GetCount(), nil
}

// CountNonNull runs this Frame and returns the number of rows where the given column is not nil
func (f *Frame) CountNonNull(ctx context.Context, colName string) (uint64, error) {
	counted, err := f.df.To(util.Accumulate(accumulators.NonNullCounter(colName)))
	if err != nil {
		return 0, err
	}
	res, err := f.session.Run(ctx, counted)
	if err != nil {
		return 0, err
	}
	return res.Accumulated.(*accumulators.Count).GetCount(), nil
}

// Show runs this Frame and prints its first rows to stdout as a table
func (f *Frame) Show(ctx context.Context, opts ...display.Option) error {
	return f.ShowTo(ctx, os.Stdout, opts...)
}

// ShowTo runs this Frame and prints its first rows to w as a table
func (f *Frame) ShowTo(ctx context.Context, w io.Writer, opts ...display.Option) error {
	res, err := f.Collect(ctx)
	if err != nil {
		return err
	}
	return display.Show(w, f.Schema(), res, opts...)
}

// PrintSchema prints the Schema of this Frame to w as a tree
func (f *Frame) PrintSchema(w io.Writer) error {
	return display.PrintSchema(w, f.Schema())
}

// String describes this Frame's columns, e.g. DataFrame[id: long, name: string]
func (f *Frame) String() string {
	return "DataFrame" + display.DescribeSchema(f.Schema())
}
