package display

const (
	// DefaultNumRows is the number of rows shown unless configured otherwise
	DefaultNumRows = 20
	// DefaultTruncate is the maximum number of characters shown per cell unless configured otherwise
	DefaultTruncate = 20
	minimumColWidth = 3
)

// Options configures Show
type Options struct {
	NumRows  int  // maximum number of rows to show
	Truncate int  // cells longer than this are truncated. 0 disables truncation.
	Vertical bool // print one line per column value, instead of a table
}

// Option modifies Options
type Option func(*Options)

// NewOptions builds Options from the defaults and the given modifiers
func NewOptions(opts ...Option) *Options {
	o := &Options{NumRows: DefaultNumRows, Truncate: DefaultTruncate}
	for _, opt := range opts {
		opt(o)
	}
	if o.NumRows < 0 {
		o.NumRows = 0
	}
	if o.Truncate < 0 {
		o.Truncate = 0
	}
	return o
}

// WithNumRows sets the maximum number of rows to show
func WithNumRows(n int) Option {
	return func(o *Options) { o.NumRows = n }
}

// WithTruncate sets the maximum number of characters shown per cell
func WithTruncate(n int) Option {
	return func(o *Options) { o.Truncate = n }
}

// WithoutTruncation shows cells in full, left-aligned
func WithoutTruncation() Option {
	return WithTruncate(0)
}

// WithVertical prints rows vertically (one line per column value)
func WithVertical() Option {
	return func(o *Options) { o.Vertical = true }
}
