package partition

import "github.com/go-sif/showframe"

// GetMeta returns Row internal data
func (r *rowImpl) GetMeta() []byte {
	return r.meta
}

// GetData returns Row internal data
func (r *rowImpl) GetData() []byte {
	return r.data
}

// GetVarData returns Row internal data
func (r *rowImpl) GetVarData() map[string]interface{} {
	return r.varData
}

// GetSerializedVarData returns Row internal data
func (r *rowImpl) GetSerializedVarData() map[string][]byte {
	return r.serializedVarData
}

// GetColData retrieves the serialized bytes of a variable-length column, serializing it if necessary
func (r *rowImpl) GetColData(colName string) ([]byte, error) {
	offset, err := r.schema.GetOffset(colName)
	if err != nil {
		return nil, err
	}
	if !showframe.IsVariableLength(offset.Type()) {
		return r.data[offset.Start() : offset.Start()+offset.Type().Size()], nil
	}
	// if it's still serialized, use that directly
	if ser, ok := r.serializedVarData[colName]; ok {
		return ser, nil
	}
	vcol := offset.Type().(showframe.VarColumnType)
	v, err := r.GetVarCustomData(colName)
	if err != nil {
		return nil, err
	}
	return vcol.Serialize(v)
}
