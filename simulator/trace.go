package simulator

import (
	"encoding/binary"
	"hash/crc32"
	"io"
	"os"
	"sync"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// TraceCompression represents the compression algorithm used for trace records
type TraceCompression uint8

const (
	TraceCompressionNone   TraceCompression = 0
	TraceCompressionLZ4    TraceCompression = 1
	TraceCompressionSnappy TraceCompression = 2
)

// ParseTraceCompression maps a config string to a compression type
func ParseTraceCompression(name string) (TraceCompression, error) {
	switch name {
	case "none":
		return TraceCompressionNone, nil
	case "lz4":
		return TraceCompressionLZ4, nil
	case "snappy":
		return TraceCompressionSnappy, nil
	default:
		return TraceCompressionNone, NewSimError(ErrCodeTraceCorrupted, "ParseTraceCompression",
			"unknown compression algorithm: "+name, nil)
	}
}

// Trace record layout:
// [0-1]: Magic number (0xBE1A for trace records)
// [2]: Format version
// [3]: Compression type (0=none, 1=LZ4, 2=Snappy)
// [4-7]: Uncompressed payload size
// [8-11]: Compressed payload size
// [12-15]: Payload checksum (CRC32 of uncompressed payload)
// [16+]: Payload
const (
	TraceMagic       = 0xBE1A
	TraceVersion     = 1
	TraceHeaderSize  = 16
)

// Payload layout (little endian):
// NumPages(2) | NumFrames(2) | FIFOFaults(4) | LRUFaults(4) | OPTFaults(4) |
// RefLen(4) | RefLen * PageID(4)
const tracePayloadFixedSize = 20

// serializeRunResult converts a run result to its trace payload
func serializeRunResult(result *RunResult) []byte {
	buf := make([]byte, tracePayloadFixedSize+4*len(result.RefString))
	offset := 0

	binary.LittleEndian.PutUint16(buf[offset:], uint16(result.NumPages))
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], uint16(result.NumFrames))
	offset += 2
	binary.LittleEndian.PutUint32(buf[offset:], uint32(result.Faults[PolicyFIFO]))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(result.Faults[PolicyLRU]))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(result.Faults[PolicyOPT]))
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(len(result.RefString)))
	offset += 4

	for _, page := range result.RefString {
		binary.LittleEndian.PutUint32(buf[offset:], uint32(page))
		offset += 4
	}

	return buf
}

// deserializeRunResult parses a trace payload back into a run result
func deserializeRunResult(data []byte) (*RunResult, error) {
	if len(data) < tracePayloadFixedSize {
		return nil, ErrTraceCorrupted("deserializeRunResult", 0)
	}

	result := &RunResult{
		Faults: make(map[PolicyKind]int, 3),
	}

	offset := 0
	result.NumPages = int(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2
	result.NumFrames = int(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2
	result.Faults[PolicyFIFO] = int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	result.Faults[PolicyLRU] = int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	result.Faults[PolicyOPT] = int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	refLen := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4

	if len(data) != tracePayloadFixedSize+4*refLen {
		return nil, ErrTraceCorrupted("deserializeRunResult", int64(offset))
	}

	result.RefString = make(ReferenceString, refLen)
	for i := 0; i < refLen; i++ {
		result.RefString[i] = int(binary.LittleEndian.Uint32(data[offset:]))
		offset += 4
	}

	return result, nil
}

// encodeTraceRecord frames and compresses a run result into one trace record
func encodeTraceRecord(result *RunResult, compression TraceCompression) ([]byte, error) {
	payload := serializeRunResult(result)
	checksum := crc32.ChecksumIEEE(payload)

	var compressed []byte

	switch compression {
	case TraceCompressionNone:
		compressed = payload

	case TraceCompressionLZ4:
		compressed = make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, compressed, nil)
		if err != nil {
			return nil, NewSimError(ErrCodeTraceIO, "encodeTraceRecord", "LZ4 compression failed", err)
		}
		if n == 0 {
			// Payload not compressible, store it as-is
			compression = TraceCompressionNone
			compressed = payload
		} else {
			compressed = compressed[:n]
		}

	case TraceCompressionSnappy:
		compressed = snappy.Encode(nil, payload)

	default:
		return nil, NewSimError(ErrCodeTraceCorrupted, "encodeTraceRecord",
			"unsupported compression type", nil)
	}

	// Compression that grows the record is not worth keeping
	if compression != TraceCompressionNone && len(compressed) >= len(payload) {
		compression = TraceCompressionNone
		compressed = payload
	}

	buf := make([]byte, TraceHeaderSize+len(compressed))
	binary.LittleEndian.PutUint16(buf[0:2], TraceMagic)
	buf[2] = TraceVersion
	buf[3] = uint8(compression)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(payload)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(compressed)))
	binary.LittleEndian.PutUint32(buf[12:16], checksum)
	copy(buf[TraceHeaderSize:], compressed)

	return buf, nil
}

// decodeTraceRecord parses one trace record starting at offset in data
// Returns the run result and the number of bytes consumed
func decodeTraceRecord(data []byte, offset int64) (*RunResult, int, error) {
	if int64(len(data))-offset < TraceHeaderSize {
		return nil, 0, ErrTraceCorrupted("decodeTraceRecord", offset)
	}

	header := data[offset:]

	magic := binary.LittleEndian.Uint16(header[0:2])
	if magic != TraceMagic {
		return nil, 0, ErrTraceCorrupted("decodeTraceRecord", offset)
	}

	if header[2] != TraceVersion {
		return nil, 0, ErrTraceCorrupted("decodeTraceRecord", offset)
	}

	compression := TraceCompression(header[3])
	uncompressedSize := binary.LittleEndian.Uint32(header[4:8])
	compressedSize := binary.LittleEndian.Uint32(header[8:12])
	checksum := binary.LittleEndian.Uint32(header[12:16])

	recordSize := TraceHeaderSize + int(compressedSize)
	if int64(len(data))-offset < int64(recordSize) {
		return nil, 0, ErrTraceCorrupted("decodeTraceRecord", offset)
	}

	compressed := header[TraceHeaderSize:recordSize]

	var payload []byte
	var err error

	switch compression {
	case TraceCompressionNone:
		payload = compressed

	case TraceCompressionLZ4:
		payload = make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(compressed, payload)
		if err != nil {
			return nil, 0, NewSimError(ErrCodeTraceCorrupted, "decodeTraceRecord", "LZ4 decompression failed", err)
		}
		if n != int(uncompressedSize) {
			return nil, 0, ErrTraceCorrupted("decodeTraceRecord", offset)
		}

	case TraceCompressionSnappy:
		payload, err = snappy.Decode(nil, compressed)
		if err != nil {
			return nil, 0, NewSimError(ErrCodeTraceCorrupted, "decodeTraceRecord", "snappy decompression failed", err)
		}
		if len(payload) != int(uncompressedSize) {
			return nil, 0, ErrTraceCorrupted("decodeTraceRecord", offset)
		}

	default:
		return nil, 0, ErrTraceCorrupted("decodeTraceRecord", offset)
	}

	if crc32.ChecksumIEEE(payload) != checksum {
		return nil, 0, ErrTraceCorrupted("decodeTraceRecord", offset)
	}

	result, err := deserializeRunResult(payload)
	if err != nil {
		return nil, 0, err
	}

	return result, recordSize, nil
}

// TraceWriter appends run results to a trace file
type TraceWriter struct {
	file *os.File
	compression TraceCompression
	mutex sync.Mutex
}

// NewTraceWriter opens (or creates) a trace file for appending
func NewTraceWriter(path string, compression TraceCompression) (*TraceWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, ErrTraceIO("NewTraceWriter", err)
	}

	return &TraceWriter{
		file: file,
		compression: compression,
	}, nil
}

// Append writes one run result to the trace file
func (tw *TraceWriter) Append(result *RunResult) error {
	record, err := encodeTraceRecord(result, tw.compression)
	if err != nil {
		return err
	}

	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	if _, err := tw.file.Write(record); err != nil {
		return ErrTraceIO("Append", err)
	}

	return nil
}

// Sync flushes the trace file to disk
func (tw *TraceWriter) Sync() error {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	if err := tw.file.Sync(); err != nil {
		return ErrTraceIO("Sync", err)
	}
	return nil
}

// Close closes the trace file
func (tw *TraceWriter) Close() error {
	tw.mutex.Lock()
	defer tw.mutex.Unlock()

	if err := tw.file.Close(); err != nil {
		return ErrTraceIO("Close", err)
	}
	return nil
}

// ReadTrace reads every run result from a trace file
func ReadTrace(path string) ([]*RunResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrTraceIO("ReadTrace", err)
	}

	return decodeTraceRecords(data)
}

// decodeTraceRecords walks a byte slice of concatenated trace records
func decodeTraceRecords(data []byte) ([]*RunResult, error) {
	var results []*RunResult
	var offset int64

	for offset < int64(len(data)) {
		result, consumed, err := decodeTraceRecord(data, offset)
		if err != nil {
			return nil, err
		}

		results = append(results, result)
		offset += int64(consumed)
	}

	return results, nil
}

// ReadTraceStream reads run results from an io.Reader holding trace records
func ReadTraceStream(r io.Reader) ([]*RunResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrTraceIO("ReadTraceStream", err)
	}

	return decodeTraceRecords(data)
}
