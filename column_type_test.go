package showframe

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatFloat(t *testing.T) {
	require.Equal(t, "1.0", formatFloat(1, 64))
	require.Equal(t, "0.0", formatFloat(0, 64))
	require.Equal(t, "-2.5", formatFloat(-2.5, 64))
	require.Equal(t, "0.001", formatFloat(0.001, 64))
	require.Equal(t, "1.0E-4", formatFloat(0.0001, 64))
	require.Equal(t, "1.0E10", formatFloat(1e10, 64))
	require.Equal(t, "1.2345E7", formatFloat(12345000, 64))
	require.Equal(t, "1234567.0", formatFloat(1234567, 64))
	require.Equal(t, "NaN", formatFloat(math.NaN(), 64))
	require.Equal(t, "Infinity", formatFloat(math.Inf(1), 64))
	require.Equal(t, "-Infinity", formatFloat(math.Inf(-1), 64))
	require.Equal(t, "0.1", (&Float32ColumnType{}).ToString(float32(0.1)))
}

func TestFormatBinary(t *testing.T) {
	require.Equal(t, "[01 FF]", formatBinary([]byte{1, 255}))
	require.Equal(t, "[]", formatBinary(nil))
	require.Equal(t, "[0A]", (&VarBytesColumnType{}).ToString([]byte{10}))
}

func TestTimeToString(t *testing.T) {
	ts := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	require.Equal(t, "2021-03-04 05:06:07", (&TimeColumnType{}).ToString(ts))
	require.Equal(t, "2021-03-04 05:06:07.5", (&TimeColumnType{}).ToString(ts.Add(500*time.Millisecond)))
}

func TestVarBytesSerialization(t *testing.T) {
	colType := &VarBytesColumnType{}
	ser, err := colType.Serialize([]byte("hello"))
	require.Nil(t, err)
	deser, err := colType.Deserialize(ser)
	require.Nil(t, err)
	require.Equal(t, []byte("hello"), deser)
}
