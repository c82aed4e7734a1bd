package showframe

import (
	"bytes"
	"encoding/gob"
)

// VarStringColumnType is a column type which stores a variable-length string value
type VarStringColumnType struct{}

// Size in bytes of the fixed-length portion of a VarStringColumn
func (b *VarStringColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a VarStringColumnType value
func (b *VarStringColumnType) ToString(v interface{}) string {
	return v.(string)
}

// TypeName returns "string"
func (b *VarStringColumnType) TypeName() string {
	return "string"
}

// Serialize serializes a VarStringColumnType value to binary data
func (b *VarStringColumnType) Serialize(v interface{}) ([]byte, error) {
	return []byte(v.(string)), nil
}

// Deserialize deserializes a VarStringColumnType value from binary data
func (b *VarStringColumnType) Deserialize(ser []byte) (interface{}, error) {
	return string(ser), nil
}

// VarBytesColumnType is a column type which stores variable-length byte arrays
type VarBytesColumnType struct{}

// Size in bytes of the fixed-length portion of a VarBytesColumn
func (b *VarBytesColumnType) Size() int {
	return 0
}

// ToString produces a string representation of a value of a VarBytesColumnType value
func (b *VarBytesColumnType) ToString(v interface{}) string {
	return formatBinary(v.([]byte))
}

// TypeName returns "binary"
func (b *VarBytesColumnType) TypeName() string {
	return "binary"
}

// Serialize serializes a VarBytesColumnType value to binary data
func (b *VarBytesColumnType) Serialize(v interface{}) ([]byte, error) {
	buff := new(bytes.Buffer)
	e := gob.NewEncoder(buff)
	err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// Deserialize deserializes a VarBytesColumnType value from binary data
func (b *VarBytesColumnType) Deserialize(ser []byte) (interface{}, error) {
	var deser []byte
	buff := bytes.NewBuffer(ser)
	d := gob.NewDecoder(buff)
	err := d.Decode(&deser)
	if err != nil {
		return nil, err
	}
	return deser, nil
}
