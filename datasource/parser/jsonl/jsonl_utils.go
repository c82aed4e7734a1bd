package jsonl

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-sif/showframe"
	"github.com/tidwall/gjson"
)

// ParseJSONRow parses a JSON document into a Row, using each column name as a gjson path.
// Missing values and JSON nulls become nil.
func ParseJSONRow(colNames []string, colTypes []showframe.ColumnType, rowJSON gjson.Result, row showframe.Row) error {
	for i, colName := range colNames {
		val := rowJSON.Get(colName)
		if !val.Exists() || val.Type == gjson.Null {
			if err := row.SetNil(colName); err != nil {
				return err
			}
			continue
		}
		if err := parseValue(val, colName, colTypes[i], row); err != nil {
			return err
		}
	}
	return nil
}

func parseValue(val gjson.Result, colName string, colType showframe.ColumnType, row showframe.Row) error {
	switch colType := colType.(type) {
	case *showframe.BoolColumnType:
		if !val.IsBool() {
			return fmt.Errorf("Column %s was not a boolean. Was: %s", colName, val.Raw)
		}
		return row.SetBool(colName, val.Bool())
	case *showframe.Int8ColumnType:
		if val.Type != gjson.Number {
			return fmt.Errorf("Column %s was not a number. Was: %s", colName, val.Raw)
		}
		return row.SetInt8(colName, int8(val.Int()))
	case *showframe.Int16ColumnType:
		if val.Type != gjson.Number {
			return fmt.Errorf("Column %s was not a number. Was: %s", colName, val.Raw)
		}
		return row.SetInt16(colName, int16(val.Int()))
	case *showframe.Int32ColumnType:
		if val.Type != gjson.Number {
			return fmt.Errorf("Column %s was not a number. Was: %s", colName, val.Raw)
		}
		return row.SetInt32(colName, int32(val.Int()))
	case *showframe.Int64ColumnType:
		if val.Type != gjson.Number {
			return fmt.Errorf("Column %s was not a number. Was: %s", colName, val.Raw)
		}
		return row.SetInt64(colName, val.Int())
	case *showframe.Float32ColumnType:
		if val.Type != gjson.Number {
			return fmt.Errorf("Column %s was not a number. Was: %s", colName, val.Raw)
		}
		return row.SetFloat32(colName, float32(val.Float()))
	case *showframe.Float64ColumnType:
		if val.Type != gjson.Number {
			return fmt.Errorf("Column %s was not a number. Was: %s", colName, val.Raw)
		}
		return row.SetFloat64(colName, val.Float())
	case *showframe.StringColumnType:
		if val.Type != gjson.String {
			return fmt.Errorf("Column %s was not a string. Was: %s", colName, val.Raw)
		}
		return row.SetString(colName, val.String())
	case *showframe.VarStringColumnType:
		if val.Type != gjson.String {
			return fmt.Errorf("Column %s was not a string. Was: %s", colName, val.Raw)
		}
		return row.SetVarString(colName, val.String())
	case *showframe.BytesColumnType, *showframe.VarBytesColumnType:
		// binary values are base64-encoded, the way encoding/json represents []byte
		if val.Type != gjson.String {
			return fmt.Errorf("Column %s was not a base64 string. Was: %s", colName, val.Raw)
		}
		data, err := base64.StdEncoding.DecodeString(val.String())
		if err != nil {
			return fmt.Errorf("Column %s could not be decoded as base64: %w", colName, err)
		}
		if _, ok := colType.(*showframe.BytesColumnType); ok {
			return row.SetBytes(colName, data)
		}
		return row.SetVarBytes(colName, data)
	case *showframe.TimeColumnType:
		if val.Type == gjson.Number {
			return row.SetTime(colName, time.Unix(val.Int(), 0))
		}
		format := colType.Format
		if format == "" {
			format = time.RFC3339Nano
		}
		tval, err := time.Parse(format, val.String())
		if err != nil {
			return fmt.Errorf("Column %s could not be parsed as datetime with format %s. Was: %s", colName, format, val.Raw)
		}
		return row.SetTime(colName, tval)
	default:
		return fmt.Errorf("JSONL parsing does not support column type %T", colType)
	}
}
