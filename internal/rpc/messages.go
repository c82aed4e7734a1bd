package rpc

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-sif/showframe/internal/stats"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Registration describes a worker joining a cluster
type Registration struct {
	ID   string
	Port int
}

// ToMessage converts a Registration to its wire representation
func (r *Registration) ToMessage() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":   r.ID,
		"port": r.Port,
	})
}

// RegistrationFromMessage parses a Registration
func RegistrationFromMessage(m *structpb.Struct) (*Registration, error) {
	fields := m.GetFields()
	id := fields["id"].GetStringValue()
	if id == "" {
		return nil, fmt.Errorf("Registration is missing a worker id")
	}
	port := int(fields["port"].GetNumberValue())
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("Registration for worker %s has invalid port %d", id, port)
	}
	return &Registration{ID: id, Port: port}, nil
}

// LogMessage is a log entry forwarded from a worker to the coordinator
type LogMessage struct {
	Source  string
	Level   int
	Message string
}

// ToMessage converts a LogMessage to its wire representation
func (l *LogMessage) ToMessage() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"source":  l.Source,
		"level":   l.Level,
		"message": l.Message,
	})
}

// LogMessageFromMessage parses a LogMessage
func LogMessageFromMessage(m *structpb.Struct) *LogMessage {
	fields := m.GetFields()
	return &LogMessage{
		Source:  fields["source"].GetStringValue(),
		Level:   int(fields["level"].GetNumberValue()),
		Message: fields["message"].GetStringValue(),
	}
}

// LoaderAssignment is a serialized PartitionLoader, along with its position in the DataSource's PartitionMap
type LoaderAssignment struct {
	Index  int
	Loader []byte
}

// LoaderAssignmentsToMessage converts LoaderAssignments to their wire representation
func LoaderAssignmentsToMessage(assignments []LoaderAssignment) (*structpb.ListValue, error) {
	values := make([]interface{}, len(assignments))
	for i, a := range assignments {
		values[i] = map[string]interface{}{
			"index":  a.Index,
			"loader": base64.StdEncoding.EncodeToString(a.Loader),
		}
	}
	return structpb.NewList(values)
}

// LoaderAssignmentsFromMessage parses LoaderAssignments
func LoaderAssignmentsFromMessage(m *structpb.ListValue) ([]LoaderAssignment, error) {
	assignments := make([]LoaderAssignment, 0, len(m.GetValues()))
	for _, v := range m.GetValues() {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			return nil, fmt.Errorf("LoaderAssignment must be a struct")
		}
		loader, err := base64.StdEncoding.DecodeString(fields["loader"].GetStringValue())
		if err != nil {
			return nil, fmt.Errorf("LoaderAssignment contains an invalid loader: %w", err)
		}
		assignments = append(assignments, LoaderAssignment{
			Index:  int(fields["index"].GetNumberValue()),
			Loader: loader,
		})
	}
	return assignments, nil
}

// StatsToMessage converts a statistics Snapshot to its wire representation
func StatsToMessage(s *stats.Snapshot) (*structpb.Struct, error) {
	rows := make([]interface{}, len(s.RowsProcessed))
	for i, v := range s.RowsProcessed {
		rows[i] = v
	}
	partitions := make([]interface{}, len(s.PartitionsProcessed))
	for i, v := range s.PartitionsProcessed {
		partitions[i] = v
	}
	runtimes := make([]interface{}, len(s.StageRuntimes))
	for i, v := range s.StageRuntimes {
		runtimes[i] = v.Nanoseconds()
	}
	return structpb.NewStruct(map[string]interface{}{
		"start":      s.StartTime.Format(time.RFC3339Nano),
		"runtime":    s.TotalRuntime.Nanoseconds(),
		"rows":       rows,
		"partitions": partitions,
		"runtimes":   runtimes,
	})
}

// StatsFromMessage parses a statistics Snapshot
func StatsFromMessage(m *structpb.Struct) *stats.Snapshot {
	fields := m.GetFields()
	numbers := func(name string) []int64 {
		values := fields[name].GetListValue().GetValues()
		result := make([]int64, len(values))
		for i, v := range values {
			result[i] = int64(v.GetNumberValue())
		}
		return result
	}
	runtimes := numbers("runtimes")
	start, _ := time.Parse(time.RFC3339Nano, fields["start"].GetStringValue())
	s := &stats.Snapshot{
		StartTime:           start,
		TotalRuntime:        time.Duration(fields["runtime"].GetNumberValue()),
		RowsProcessed:       numbers("rows"),
		PartitionsProcessed: numbers("partitions"),
		StageRuntimes:       make([]time.Duration, len(runtimes)),
	}
	for i, v := range runtimes {
		s.StageRuntimes[i] = time.Duration(v)
	}
	return s
}

// ResultKind identifies the payload of a ResultFrame
type ResultKind byte

const (
	// PartitionResult frames carry a compressed, collected Partition
	PartitionResult ResultKind = iota + 1
	// AccumulatorResult frames carry a serialized Accumulator
	AccumulatorResult
)

const resultFrameHeaderSize = 5

// ResultFrame is one piece of the output produced by a worker for a single PartitionLoader
type ResultFrame struct {
	Index   int
	Kind    ResultKind
	Payload []byte
}

// ToMessage converts a ResultFrame to its wire representation: a 4-byte little-endian
// loader index and a kind byte, followed by the payload
func (f *ResultFrame) ToMessage() *wrapperspb.BytesValue {
	buff := make([]byte, resultFrameHeaderSize+len(f.Payload))
	binary.LittleEndian.PutUint32(buff, uint32(f.Index))
	buff[4] = byte(f.Kind)
	copy(buff[resultFrameHeaderSize:], f.Payload)
	return wrapperspb.Bytes(buff)
}

// ResultFrameFromMessage parses a ResultFrame
func ResultFrameFromMessage(m *wrapperspb.BytesValue) (*ResultFrame, error) {
	buff := m.GetValue()
	if len(buff) < resultFrameHeaderSize {
		return nil, fmt.Errorf("Result frame is too short (%d bytes)", len(buff))
	}
	kind := ResultKind(buff[4])
	if kind != PartitionResult && kind != AccumulatorResult {
		return nil, fmt.Errorf("Result frame has unknown kind %d", kind)
	}
	return &ResultFrame{
		Index:   int(binary.LittleEndian.Uint32(buff)),
		Kind:    kind,
		Payload: buff[resultFrameHeaderSize:],
	}, nil
}
