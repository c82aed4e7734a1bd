package partition

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-sif/showframe"
	errors "github.com/go-sif/showframe/errors"
)

const (
	colValueIsNilFlag = 1 << iota
)

// rowImpl is a representation of a single row of columnar data,
// (a slice of a Partition), along with a reference to the
// Schema for that row (a mapping of column names to byte
// offsets).
type rowImpl struct {
	partID            string
	meta              []byte
	data              []byte                 // likely a slice of a partition array
	varData           map[string]interface{} // variable-length data
	serializedVarData map[string][]byte      // variable-length data which has not been deserialized yet
	schema            showframe.Schema       // schema lets us pick the values we need out of the row
}

// CreateRow builds a new row from individual internal components
func CreateRow(partID string, meta []byte, data []byte, varData map[string]interface{}, serializedVarData map[string][]byte, schema showframe.Schema) showframe.Row {
	return &rowImpl{partID: partID, meta: meta, data: data, varData: varData, serializedVarData: serializedVarData, schema: schema}
}

// CreateTempRow builds an empty row struct which cannot be used until passed to a function which populates it with data
func CreateTempRow() showframe.Row {
	return &rowImpl{}
}

// Schema returns a read-only copy of the schema for a row
func (r *rowImpl) Schema() showframe.Schema {
	return r.schema.Clone()
}

// ToString returns a string representation of this row
func (r *rowImpl) ToString() string {
	var res strings.Builder
	fmt.Fprint(&res, "{")
	r.schema.ForEachColumn(func(name string, col showframe.Column) error {
		if r.schema.IsMarkedForRemoval(name) {
			return nil
		}
		val := "null"
		if !r.IsNil(name) {
			v, err := r.Get(name)
			if err != nil {
				return err
			}
			val = col.Type().ToString(v)
		}
		fmt.Fprintf(&res, "%q: %s,", name, val)
		return nil
	})
	fmt.Fprint(&res, "}")
	return res.String()
}

// IsNil returns true iff the given column value is nil in this row. If an error occurs, this function will return false.
func (r *rowImpl) IsNil(colName string) bool {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return false
	}
	return r.checkIsNil(colName, offset) != nil
}

// SetNil sets the given column value to nil within this row
func (r *rowImpl) SetNil(colName string) error {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return err
	}
	r.meta[offset.Index()] = r.meta[offset.Index()] | colValueIsNilFlag
	if showframe.IsVariableLength(offset.Type()) {
		delete(r.varData, colName)
		delete(r.serializedVarData, colName)
	}
	return nil
}

func (r *rowImpl) checkIsNil(colName string, offset showframe.Column) error {
	if r.meta[offset.Index()]&colValueIsNilFlag > 0 {
		return errors.NilValueError{Name: colName}
	}
	if showframe.IsVariableLength(offset.Type()) {
		if _, ok := r.serializedVarData[colName]; ok {
			return nil
		}
		if v, ok := r.varData[colName]; !ok || v == nil {
			return errors.NilValueError{Name: colName}
		}
	}
	return nil
}

func (r *rowImpl) setNotNil(offset showframe.Column) {
	r.meta[offset.Index()] = r.meta[offset.Index()] &^ colValueIsNilFlag
}

// fixedOffset looks up a fixed-width column, checking that it can hold size bytes
func (r *rowImpl) fixedOffset(colName string, size int) (showframe.Column, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	if showframe.IsVariableLength(offset.Type()) {
		return nil, fmt.Errorf("Column %s is variable-length", colName)
	}
	if offset.Type().Size() < size {
		return nil, fmt.Errorf("Column %s of type %s cannot store a %d-byte value", colName, offset.Type().TypeName(), size)
	}
	return offset, nil
}

// getFixed returns the raw bytes of a non-nil fixed-width column
func (r *rowImpl) getFixed(colName string, size int) ([]byte, error) {
	offset, err := r.fixedOffset(colName, size)
	if err != nil {
		return nil, err
	}
	if err = r.checkIsNil(colName, offset); err != nil {
		return nil, err
	}
	return r.data[offset.Start() : offset.Start()+offset.Type().Size()], nil
}

// setFixed returns the raw bytes of a fixed-width column for writing, marking it as not nil
func (r *rowImpl) setFixed(colName string, size int) ([]byte, error) {
	offset, err := r.fixedOffset(colName, size)
	if err != nil {
		return nil, err
	}
	r.setNotNil(offset)
	return r.data[offset.Start() : offset.Start()+offset.Type().Size()], nil
}

// Get returns the value of any column as an interface{}, if it exists
func (r *rowImpl) Get(colName string) (col interface{}, err error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	if err = r.checkIsNil(colName, offset); err != nil {
		return nil, err
	}
	switch offset.Type().(type) {
	case *showframe.VarStringColumnType:
		return r.GetVarString(colName)
	case *showframe.VarBytesColumnType:
		return r.GetVarBytes(colName)
	case *showframe.BytesColumnType:
		return r.GetBytes(colName)
	case *showframe.BoolColumnType:
		return r.GetBool(colName)
	case *showframe.Int8ColumnType:
		return r.GetInt8(colName)
	case *showframe.Int16ColumnType:
		return r.GetInt16(colName)
	case *showframe.Int32ColumnType:
		return r.GetInt32(colName)
	case *showframe.Int64ColumnType:
		return r.GetInt64(colName)
	case *showframe.Float32ColumnType:
		return r.GetFloat32(colName)
	case *showframe.Float64ColumnType:
		return r.GetFloat64(colName)
	case *showframe.TimeColumnType:
		return r.GetTime(colName)
	case *showframe.StringColumnType:
		return r.GetString(colName)
	default:
		if showframe.IsVariableLength(offset.Type()) {
			return r.GetVarCustomData(colName)
		}
		return nil, fmt.Errorf("Cannot fetch value for unknown column type")
	}
}

// GetBytes retrieves a fixed-length byte array from the column with the given name.
func (r *rowImpl) GetBytes(colName string) (col []byte, err error) {
	return r.getFixed(colName, 0)
}

// GetBool retrieves a single bool from the column with the given name.
func (r *rowImpl) GetBool(colName string) (col bool, err error) {
	bits, err := r.getFixed(colName, 1)
	if err != nil {
		return
	}
	col = bits[0] > 0
	return
}

// GetInt8 retrieves a single int8 from the column with the given name
func (r *rowImpl) GetInt8(colName string) (col int8, err error) {
	bits, err := r.getFixed(colName, 1)
	if err != nil {
		return
	}
	col = int8(bits[0])
	return
}

// GetInt16 retrieves a single int16 from the column with the given name
func (r *rowImpl) GetInt16(colName string) (col int16, err error) {
	bits, err := r.getFixed(colName, 2)
	if err != nil {
		return
	}
	col = int16(binary.LittleEndian.Uint16(bits))
	return
}

// GetInt32 retrieves a single int32 from the column with the given name
func (r *rowImpl) GetInt32(colName string) (col int32, err error) {
	bits, err := r.getFixed(colName, 4)
	if err != nil {
		return
	}
	col = int32(binary.LittleEndian.Uint32(bits))
	return
}

// GetInt64 retrieves a single int64 from the column with the given name
func (r *rowImpl) GetInt64(colName string) (col int64, err error) {
	bits, err := r.getFixed(colName, 8)
	if err != nil {
		return
	}
	col = int64(binary.LittleEndian.Uint64(bits))
	return
}

// GetFloat32 retrieves a single float32 from the column with the given name
func (r *rowImpl) GetFloat32(colName string) (col float32, err error) {
	bits, err := r.getFixed(colName, 4)
	if err != nil {
		return
	}
	col = math.Float32frombits(binary.LittleEndian.Uint32(bits))
	return
}

// GetFloat64 retrieves a single float64 from the column with the given name
func (r *rowImpl) GetFloat64(colName string) (col float64, err error) {
	bits, err := r.getFixed(colName, 8)
	if err != nil {
		return
	}
	col = math.Float64frombits(binary.LittleEndian.Uint64(bits))
	return
}

// GetTime retrieves a single Time from the column with the given name, in UTC
func (r *rowImpl) GetTime(colName string) (col time.Time, err error) {
	bits, err := r.getFixed(colName, 8)
	if err != nil {
		return
	}
	col = time.Unix(0, int64(binary.LittleEndian.Uint64(bits))).UTC()
	return
}

// GetString returns a single, fixed-length string value from the column with the given name.
// Values shorter than the column are padded with zero bytes, which are trimmed.
func (r *rowImpl) GetString(colName string) (string, error) {
	bits, err := r.getFixed(colName, 0)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(bits), "\x00"), nil
}

// GetVarCustomData retrieves variable-length data of a custom type from the column with the given name
func (r *rowImpl) GetVarCustomData(colName string) (interface{}, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	vcol, ok := offset.Type().(showframe.VarColumnType)
	if !ok {
		return nil, fmt.Errorf("Column %s is not a VarColumnType", colName)
	}
	if err = r.checkIsNil(colName, offset); err != nil {
		return nil, err
	}
	// deserialize serialized data if present
	if ser, ok := r.serializedVarData[colName]; ok {
		deser, err := vcol.Deserialize(ser)
		if err != nil {
			return nil, fmt.Errorf("Error deserializing variable-length column data for column %s in partition %s: %w", colName, r.partID, err)
		}
		r.varData[colName] = deser
		delete(r.serializedVarData, colName)
	}
	return r.varData[colName], nil
}

// GetVarBytes retrieves a variable-length byte array from the column with the given name
func (r *rowImpl) GetVarBytes(colName string) (col []byte, err error) {
	val, err := r.GetVarCustomData(colName)
	if err != nil {
		return nil, err
	}
	col, ok := val.([]byte)
	if !ok {
		return nil, fmt.Errorf("Column %s does not contain a []byte", colName)
	}
	return col, nil
}

// GetVarString retrieves a single string from the column with the given name
func (r *rowImpl) GetVarString(colName string) (col string, err error) {
	val, err := r.GetVarCustomData(colName)
	if err != nil {
		return "", err
	}
	col, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("Column %s does not contain a string", colName)
	}
	return col, nil
}

// SetBytes overwrites a fixed-length byte array in the column with the given name.
func (r *rowImpl) SetBytes(colName string, value []byte) (err error) {
	offset, err := r.fixedOffset(colName, 0)
	if err != nil {
		return
	}
	if len(value) > offset.Type().Size() {
		return fmt.Errorf("Value is wider than column %s: %d/%d", colName, len(value), offset.Type().Size())
	}
	buff, err := r.setFixed(colName, 0)
	if err != nil {
		return
	}
	n := copy(buff, value)
	for i := n; i < len(buff); i++ {
		buff[i] = 0
	}
	return
}

// SetBool modifies a single bool from the column with the given name.
func (r *rowImpl) SetBool(colName string, value bool) (err error) {
	buff, err := r.setFixed(colName, 1)
	if err != nil {
		return
	}
	var newVal byte
	if value {
		newVal = 1
	}
	buff[0] = newVal
	return
}

// SetInt8 modifies a single int8 from the column with the given name.
func (r *rowImpl) SetInt8(colName string, value int8) (err error) {
	buff, err := r.setFixed(colName, 1)
	if err != nil {
		return
	}
	buff[0] = byte(value)
	return
}

// SetInt16 modifies a single int16 from the column with the given name.
func (r *rowImpl) SetInt16(colName string, value int16) (err error) {
	buff, err := r.setFixed(colName, 2)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint16(buff, uint16(value))
	return
}

// SetInt32 modifies a single int32 from the column with the given name.
func (r *rowImpl) SetInt32(colName string, value int32) (err error) {
	buff, err := r.setFixed(colName, 4)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint32(buff, uint32(value))
	return
}

// SetInt64 modifies a single int64 from the column with the given name.
func (r *rowImpl) SetInt64(colName string, value int64) (err error) {
	buff, err := r.setFixed(colName, 8)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint64(buff, uint64(value))
	return
}

// SetFloat32 modifies a single float32 from the column with the given name.
func (r *rowImpl) SetFloat32(colName string, value float32) (err error) {
	buff, err := r.setFixed(colName, 4)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint32(buff, math.Float32bits(value))
	return
}

// SetFloat64 modifies a single float64 from the column with the given name.
func (r *rowImpl) SetFloat64(colName string, value float64) (err error) {
	buff, err := r.setFixed(colName, 8)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint64(buff, math.Float64bits(value))
	return
}

// SetTime modifies a single Time from the column with the given name.
func (r *rowImpl) SetTime(colName string, value time.Time) (err error) {
	buff, err := r.setFixed(colName, 8)
	if err != nil {
		return
	}
	binary.LittleEndian.PutUint64(buff, uint64(value.UnixNano()))
	return
}

// SetString modifies a single fixed-length string from the column with the given name.
func (r *rowImpl) SetString(colName string, value string) (err error) {
	return r.SetBytes(colName, []byte(value))
}

// SetVarCustomData stores variable-length data of a custom type in this Row
func (r *rowImpl) SetVarCustomData(colName string, value interface{}) (err error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return
	}
	if !showframe.IsVariableLength(offset.Type()) {
		return fmt.Errorf("Column %s is not a VarColumnType", colName)
	}
	if value == nil {
		return r.SetNil(colName)
	}
	r.setNotNil(offset)
	delete(r.serializedVarData, colName)
	r.varData[colName] = value
	return nil
}

// SetVarBytes modifies a single variable-length byte array from the column with the given name.
func (r *rowImpl) SetVarBytes(colName string, value []byte) (err error) {
	if value == nil {
		return r.SetNil(colName)
	}
	return r.SetVarCustomData(colName, value)
}

// SetVarString modifies a single string from the column with the given name.
func (r *rowImpl) SetVarString(colName string, value string) (err error) {
	return r.SetVarCustomData(colName, value)
}

// Repack copies a row into the memory layout of widestSchema, addressed by currentSchema.
// Columns are matched by name. Columns which currentSchema defines, but which this row
// does not know about, start out nil.
func (r *rowImpl) Repack(widestSchema showframe.Schema, currentSchema showframe.Schema) (*rowImpl, error) {
	meta := newMeta(widestSchema.NumColumns())
	buff := make([]byte, widestSchema.Size())
	varData := make(map[string]interface{})
	serializedVarData := make(map[string][]byte)
	err := currentSchema.ForEachColumn(func(name string, col showframe.Column) error {
		if !r.schema.HasColumn(name) {
			return nil
		}
		oldCol, err := r.schema.GetOffset(name)
		if err != nil {
			return err
		}
		if !showframe.IsVariableLength(oldCol.Type()) {
			copy(buff[col.Start():col.Start()+col.Type().Size()], r.data[oldCol.Start():oldCol.Start()+oldCol.Type().Size()])
		} else if ser, ok := r.serializedVarData[name]; ok {
			serializedVarData[name] = ser
		} else if v, ok := r.varData[name]; ok {
			varData[name] = v
		}
		meta[col.Index()] = r.meta[oldCol.Index()]
		return nil
	})
	if err != nil {
		return nil, err
	}
	// no partID, because this new row belongs to no partition
	return &rowImpl{"", meta, buff, varData, serializedVarData, currentSchema}, nil
}
