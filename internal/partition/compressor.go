package partition

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/go-sif/showframe"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// A PartitionCompressor serializes and compresses Partitions for transfer between nodes
type PartitionCompressor interface {
	Compress(w io.Writer, part showframe.Partition) error
	Decompress(r io.Reader, widestSchema showframe.Schema, currentSchema showframe.Schema) (showframe.OperablePartition, error)
	Close() error
}

// NewPartitionCompressor instantiates a PartitionCompressor by name ("lz4" or "zstd")
func NewPartitionCompressor(name string) (PartitionCompressor, error) {
	switch name {
	case "", "lz4":
		return NewLZ4PartitionCompressor(), nil
	case "zstd":
		return NewZstdPartitionCompressor()
	default:
		return nil, fmt.Errorf("Unknown partition compression algorithm %s", name)
	}
}

// LZ4PartitionCompressor is a partition compressor which uses the lz4 compression algorithm
type LZ4PartitionCompressor struct {
	lock               sync.Mutex
	compressor         *lz4.Writer
	decompressor       *lz4.Reader
	reusableReadBuffer *bytes.Buffer
}

// NewLZ4PartitionCompressor instantiates a new LZ4PartitionCompressor
func NewLZ4PartitionCompressor() *LZ4PartitionCompressor {
	return &LZ4PartitionCompressor{
		compressor:         lz4.NewWriter(new(bytes.Buffer)),
		decompressor:       lz4.NewReader(new(bytes.Buffer)),
		reusableReadBuffer: new(bytes.Buffer),
	}
}

// Compress serializes and compresses partition data to a write stream
func (c *LZ4PartitionCompressor) Compress(w io.Writer, part showframe.Partition) error {
	data, err := ToBytes(part)
	if err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.compressor.Reset(w)
	if _, err = c.compressor.Write(data); err != nil {
		return err
	}
	return c.compressor.Close()
}

// Decompress decompresses and deserializes partition data from a read stream
func (c *LZ4PartitionCompressor) Decompress(r io.Reader, widestSchema showframe.Schema, currentSchema showframe.Schema) (showframe.OperablePartition, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.decompressor.Reset(r)
	c.reusableReadBuffer.Reset()
	if _, err := c.reusableReadBuffer.ReadFrom(c.decompressor); err != nil {
		return nil, fmt.Errorf("Unable to decompress partition data: %w", err)
	}
	return FromBytes(c.reusableReadBuffer.Bytes(), widestSchema, currentSchema)
}

// Close releases the resources held by this compressor
func (c *LZ4PartitionCompressor) Close() error {
	return nil
}

// ZstdPartitionCompressor is a partition compressor which uses the zstd compression algorithm
type ZstdPartitionCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdPartitionCompressor instantiates a new ZstdPartitionCompressor
func NewZstdPartitionCompressor() (*ZstdPartitionCompressor, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &ZstdPartitionCompressor{encoder: encoder, decoder: decoder}, nil
}

// Compress serializes and compresses partition data to a write stream
func (c *ZstdPartitionCompressor) Compress(w io.Writer, part showframe.Partition) error {
	data, err := ToBytes(part)
	if err != nil {
		return err
	}
	_, err = w.Write(c.encoder.EncodeAll(data, nil))
	return err
}

// Decompress decompresses and deserializes partition data from a read stream
func (c *ZstdPartitionCompressor) Decompress(r io.Reader, widestSchema showframe.Schema, currentSchema showframe.Schema) (showframe.OperablePartition, error) {
	compressed, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data, err := c.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("Unable to decompress partition data: %w", err)
	}
	return FromBytes(data, widestSchema, currentSchema)
}

// Close releases the resources held by this compressor
func (c *ZstdPartitionCompressor) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}
