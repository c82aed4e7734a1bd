package literal

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/go-sif/showframe"
	"github.com/go-sif/showframe/errors"
)

// inferType determines the ColumnType for a Go value. Unsigned values are
// widened to the next signed type, so that every value fits.
func inferType(colName string, v interface{}) (showframe.ColumnType, error) {
	switch val := v.(type) {
	case bool:
		return &showframe.BoolColumnType{}, nil
	case int8:
		return &showframe.Int8ColumnType{}, nil
	case int16, uint8:
		return &showframe.Int16ColumnType{}, nil
	case int32, uint16:
		return &showframe.Int32ColumnType{}, nil
	case int, int64, uint32:
		return &showframe.Int64ColumnType{}, nil
	case uint, uint64:
		if _, ok := toInt64(val); !ok {
			return nil, errors.SchemaInferenceError{Column: colName, Reason: fmt.Sprintf("%d overflows long", val)}
		}
		return &showframe.Int64ColumnType{}, nil
	case float32:
		return &showframe.Float32ColumnType{}, nil
	case float64:
		return &showframe.Float64ColumnType{}, nil
	case string:
		return &showframe.VarStringColumnType{}, nil
	case []byte:
		return &showframe.VarBytesColumnType{}, nil
	case time.Time:
		return &showframe.TimeColumnType{}, nil
	default:
		return nil, errors.SchemaInferenceError{Column: colName, Reason: fmt.Sprintf("unsupported type %T", v)}
	}
}

// toInt64 converts any Go integer to an int64, returning false if it is not an integer or does not fit
func toInt64(v interface{}) (int64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	}
	return 0, false
}

func checkRange(colName string, colType showframe.ColumnType, v interface{}, min int64, max int64) (int64, error) {
	i, ok := toInt64(v)
	if !ok {
		return 0, errors.SchemaInferenceError{Column: colName, Reason: fmt.Sprintf("%T value %v is not compatible with %s", v, v, colType.TypeName())}
	}
	if i < min || i > max {
		return 0, errors.SchemaInferenceError{Column: colName, Reason: fmt.Sprintf("%d is out of range for %s", i, colType.TypeName())}
	}
	return i, nil
}

// convertValue converts a literal value to the canonical Go type for colType. Nil stays nil.
func convertValue(colName string, colType showframe.ColumnType, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	mismatch := errors.SchemaInferenceError{Column: colName, Reason: fmt.Sprintf("%T value %v is not compatible with %s", v, v, colType.TypeName())}
	switch colType.(type) {
	case *showframe.BoolColumnType:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case *showframe.Int8ColumnType:
		i, err := checkRange(colName, colType, v, math.MinInt8, math.MaxInt8)
		return int8(i), err
	case *showframe.Int16ColumnType:
		i, err := checkRange(colName, colType, v, math.MinInt16, math.MaxInt16)
		return int16(i), err
	case *showframe.Int32ColumnType:
		i, err := checkRange(colName, colType, v, math.MinInt32, math.MaxInt32)
		return int32(i), err
	case *showframe.Int64ColumnType:
		return checkRange(colName, colType, v, math.MinInt64, math.MaxInt64)
	case *showframe.Float32ColumnType:
		switch f := v.(type) {
		case float32:
			return f, nil
		case float64:
			return float32(f), nil
		}
		if i, ok := toInt64(v); ok {
			return float32(i), nil
		}
	case *showframe.Float64ColumnType:
		switch f := v.(type) {
		case float32:
			return float64(f), nil
		case float64:
			return f, nil
		}
		if i, ok := toInt64(v); ok {
			return float64(i), nil
		}
	case *showframe.VarStringColumnType:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case *showframe.VarBytesColumnType:
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	case *showframe.TimeColumnType:
		if t, ok := v.(time.Time); ok {
			return t, nil
		}
	}
	return nil, mismatch
}

// setValue stores a converted value in a Row
func setValue(row showframe.Row, colName string, colType showframe.ColumnType, v interface{}) error {
	if v == nil {
		return row.SetNil(colName)
	}
	switch colType.(type) {
	case *showframe.BoolColumnType:
		return row.SetBool(colName, v.(bool))
	case *showframe.Int8ColumnType:
		return row.SetInt8(colName, v.(int8))
	case *showframe.Int16ColumnType:
		return row.SetInt16(colName, v.(int16))
	case *showframe.Int32ColumnType:
		return row.SetInt32(colName, v.(int32))
	case *showframe.Int64ColumnType:
		return row.SetInt64(colName, v.(int64))
	case *showframe.Float32ColumnType:
		return row.SetFloat32(colName, v.(float32))
	case *showframe.Float64ColumnType:
		return row.SetFloat64(colName, v.(float64))
	case *showframe.VarStringColumnType:
		return row.SetVarString(colName, v.(string))
	case *showframe.VarBytesColumnType:
		return row.SetVarBytes(colName, v.([]byte))
	case *showframe.TimeColumnType:
		return row.SetTime(colName, v.(time.Time))
	}
	return fmt.Errorf("Literal rows do not support column type %T", colType)
}
