package dsv

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-sif/showframe"
)

// scanRow parses a slice of strings into a Row, according to a schema
func scanRow(conf *ParserConf, names []string, colTypes []showframe.ColumnType, rowStrings []string, row showframe.Row) error {
	for i, colVal := range rowStrings {
		if len(colVal) == 0 || colVal == conf.NilValue {
			if err := row.SetNil(names[i]); err != nil {
				return err
			}
			continue
		}
		if err := scanValue(names[i], colTypes[i], colVal, row); err != nil {
			return err
		}
	}
	return nil
}

func scanValue(name string, colType showframe.ColumnType, colVal string, row showframe.Row) error {
	switch colType := colType.(type) {
	case *showframe.BytesColumnType:
		if len(colVal) > colType.Size() {
			return fmt.Errorf("BytesColumn %s contains more than %d bytes", name, colType.Size())
		}
		return row.SetBytes(name, []byte(colVal))
	case *showframe.BoolColumnType:
		bval, err := strconv.ParseBool(colVal)
		if err != nil {
			return err
		}
		return row.SetBool(name, bval)
	case *showframe.Int8ColumnType:
		ival, err := strconv.ParseInt(colVal, 10, 8)
		if err != nil {
			return err
		}
		return row.SetInt8(name, int8(ival))
	case *showframe.Int16ColumnType:
		ival, err := strconv.ParseInt(colVal, 10, 16)
		if err != nil {
			return err
		}
		return row.SetInt16(name, int16(ival))
	case *showframe.Int32ColumnType:
		ival, err := strconv.ParseInt(colVal, 10, 32)
		if err != nil {
			return err
		}
		return row.SetInt32(name, int32(ival))
	case *showframe.Int64ColumnType:
		ival, err := strconv.ParseInt(colVal, 10, 64)
		if err != nil {
			return err
		}
		return row.SetInt64(name, ival)
	case *showframe.Float32ColumnType:
		fval, err := strconv.ParseFloat(colVal, 32)
		if err != nil {
			return err
		}
		return row.SetFloat32(name, float32(fval))
	case *showframe.Float64ColumnType:
		fval, err := strconv.ParseFloat(colVal, 64)
		if err != nil {
			return err
		}
		return row.SetFloat64(name, fval)
	case *showframe.StringColumnType:
		if len(colVal) > colType.Size() {
			return fmt.Errorf("StringColumn %s contains more than %d bytes", name, colType.Size())
		}
		return row.SetString(name, colVal)
	case *showframe.TimeColumnType:
		format := colType.Format
		if len(format) == 0 {
			format = time.RFC3339Nano
		}
		tval, err := time.Parse(format, colVal)
		if err != nil {
			return fmt.Errorf("Column %s could not be parsed as datetime with format %s. Was: %#v", name, format, colVal)
		}
		return row.SetTime(name, tval)
	case *showframe.VarStringColumnType:
		return row.SetVarString(name, colVal)
	case *showframe.VarBytesColumnType:
		return row.SetVarBytes(name, []byte(colVal))
	default:
		return fmt.Errorf("DSV parsing does not support column type %T", colType)
	}
}
