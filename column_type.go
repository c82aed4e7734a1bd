package showframe

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeDisplayLayout is the layout used to display TimeColumnType values
const TimeDisplayLayout = "2006-01-02 15:04:05.999999"

// IsVariableLength returns true iff colType is a VarColumnType
func IsVariableLength(colType ColumnType) (isVariableLength bool) {
	_, isVariableLength = colType.(VarColumnType)
	return
}

// ColumnType is an interface which is implemented to define a supported fixed-width column types.
// showframe provides a variety of built-in types in this package.
type ColumnType interface {
	Size() int                     // returns size in bytes of a column type
	ToString(v interface{}) string // produces a display representation of a value of this type
	TypeName() string              // returns the name of this type, as it appears in a printed Schema
}

// VarColumnType is an interface which is implemented to define supported variable-length column types. Size() for VarColumnTypes should always return 0.
type VarColumnType interface {
	ColumnType
	Serialize(v interface{}) ([]byte, error) // Defines how this type is serialized
	Deserialize([]byte) (interface{}, error) // Defines how this type is deserialized
}

// BytesColumnType is a column type which stores a fixed number of bytes
type BytesColumnType struct {
	Length int
}

// Size in bytes of a BytesColumn
func (b *BytesColumnType) Size() int {
	return b.Length
}

// ToString produces a string representation of a value of a BytesColumnType value
func (b *BytesColumnType) ToString(v interface{}) string {
	return formatBinary(v.([]byte))
}

// TypeName returns "binary"
func (b *BytesColumnType) TypeName() string {
	return "binary"
}

// BoolColumnType is a column type which stores a boolean value
type BoolColumnType struct{}

// Size in bytes of a BoolColumn
func (b *BoolColumnType) Size() int {
	return 1
}

// ToString produces a string representation of a value of a BoolColumnType value
func (b *BoolColumnType) ToString(v interface{}) string {
	return strconv.FormatBool(v.(bool))
}

// TypeName returns "boolean"
func (b *BoolColumnType) TypeName() string {
	return "boolean"
}

// Int8ColumnType is a column type which stores a int8 value
type Int8ColumnType struct{}

// Size in bytes of a Int8Column
func (b *Int8ColumnType) Size() int {
	return 1
}

// ToString produces a string representation of a value of a Int8ColumnType value
func (b *Int8ColumnType) ToString(v interface{}) string {
	return strconv.FormatInt(int64(v.(int8)), 10)
}

// TypeName returns "byte"
func (b *Int8ColumnType) TypeName() string {
	return "byte"
}

// Int16ColumnType is a column type which stores a int16 value
type Int16ColumnType struct{}

// Size in bytes of a Int16Column
func (b *Int16ColumnType) Size() int {
	return 2
}

// ToString produces a string representation of a value of a Int16ColumnType value
func (b *Int16ColumnType) ToString(v interface{}) string {
	return strconv.FormatInt(int64(v.(int16)), 10)
}

// TypeName returns "short"
func (b *Int16ColumnType) TypeName() string {
	return "short"
}

// Int32ColumnType is a column type which stores a int32 value
type Int32ColumnType struct{}

// Size in bytes of a Int32Column
func (b *Int32ColumnType) Size() int {
	return 4
}

// ToString produces a string representation of a value of a Int32ColumnType value
func (b *Int32ColumnType) ToString(v interface{}) string {
	return strconv.FormatInt(int64(v.(int32)), 10)
}

// TypeName returns "integer"
func (b *Int32ColumnType) TypeName() string {
	return "integer"
}

// Int64ColumnType is a column type which stores a int64 value
type Int64ColumnType struct{}

// Size in bytes of a Int64Column
func (b *Int64ColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a Int64ColumnType value
func (b *Int64ColumnType) ToString(v interface{}) string {
	return strconv.FormatInt(v.(int64), 10)
}

// TypeName returns "long"
func (b *Int64ColumnType) TypeName() string {
	return "long"
}

// Float32ColumnType is a column type which stores a float32 value
type Float32ColumnType struct{}

// Size in bytes of a Float32Column
func (b *Float32ColumnType) Size() int {
	return 4
}

// ToString produces a string representation of a value of a Float32ColumnType value
func (b *Float32ColumnType) ToString(v interface{}) string {
	return formatFloat(float64(v.(float32)), 32)
}

// TypeName returns "float"
func (b *Float32ColumnType) TypeName() string {
	return "float"
}

// Float64ColumnType is a column type which stores a float64 value
type Float64ColumnType struct{}

// Size in bytes of a Float64Column
func (b *Float64ColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a Float64ColumnType value
func (b *Float64ColumnType) ToString(v interface{}) string {
	return formatFloat(v.(float64), 64)
}

// TypeName returns "double"
func (b *Float64ColumnType) TypeName() string {
	return "double"
}

// TimeColumnType is a column type which stores a time.Time value with nanosecond precision, as UTC.
// Format is only used by parsers, to interpret textual times.
type TimeColumnType struct {
	Format string
}

// Size in bytes of a TimeColumn
func (b *TimeColumnType) Size() int {
	return 8
}

// ToString produces a string representation of a value of a TimeColumnType value
func (b *TimeColumnType) ToString(v interface{}) string {
	return v.(time.Time).UTC().Format(TimeDisplayLayout)
}

// TypeName returns "timestamp"
func (b *TimeColumnType) TypeName() string {
	return "timestamp"
}

// StringColumnType is a column type which stores fixed-length strings. Useful for hashes, etc.
type StringColumnType struct {
	Length int
}

// Size in bytes of a StringColumn
func (b *StringColumnType) Size() int {
	return b.Length
}

// ToString produces a string representation of a value of a StringColumnType value
func (b *StringColumnType) ToString(v interface{}) string {
	return v.(string)
}

// TypeName returns "string"
func (b *StringColumnType) TypeName() string {
	return "string"
}

// formatBinary renders bytes as space-separated upper-case hex pairs, e.g. [01 FF]
func formatBinary(data []byte) string {
	var res strings.Builder
	res.WriteByte('[')
	for i, v := range data {
		if i > 0 {
			res.WriteByte(' ')
		}
		res.WriteString(strings.ToUpper(hex.EncodeToString([]byte{v})))
	}
	res.WriteByte(']')
	return res.String()
}

// formatFloat renders floats the way JVM-based dataframe engines do: plain
// decimals with at least one fractional digit between 10^-3 and 10^7, and
// computerized scientific notation (1.0E10) outside of that range.
func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	abs := math.Abs(v)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(v, 'f', -1, bitSize)
		if !strings.ContainsRune(s, '.') {
			s += ".0"
		}
		return s
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'E', -1, bitSize), "E")
	if !strings.ContainsRune(mantissa, '.') {
		mantissa += ".0"
	}
	e, _ := strconv.Atoi(exp)
	return mantissa + "E" + strconv.Itoa(e)
}
