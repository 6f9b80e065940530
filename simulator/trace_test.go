package simulator

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func sampleRunResult(t *testing.T) *RunResult {
	t.Helper()

	result, err := RunAll(ReferenceString{1, 2, 3, 1, 2, 4, 1, 2, 3}, 9, 3)
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	return result
}

func equalRunResults(a, b *RunResult) bool {
	if a.NumPages != b.NumPages || a.NumFrames != b.NumFrames {
		return false
	}

	if len(a.RefString) != len(b.RefString) {
		return false
	}
	for i := range a.RefString {
		if a.RefString[i] != b.RefString[i] {
			return false
		}
	}

	for _, kind := range Kinds() {
		if a.Faults[kind] != b.Faults[kind] {
			return false
		}
	}
	return true
}

// TestTraceRecordRoundTrip tests encode and decode under every compression
// algorithm
func TestTraceRecordRoundTrip(t *testing.T) {
	original := sampleRunResult(t)

	compressions := []struct {
		name string
		compression TraceCompression
	}{
		{name: "None", compression: TraceCompressionNone},
		{name: "LZ4", compression: TraceCompressionLZ4},
		{name: "Snappy", compression: TraceCompressionSnappy},
	}

	for _, tt := range compressions {
		t.Run(tt.name, func(t *testing.T) {
			record, err := encodeTraceRecord(original, tt.compression)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, consumed, err := decodeTraceRecord(record, 0)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if consumed != len(record) {
				t.Errorf("Expected %d bytes consumed, got %d", len(record), consumed)
			}

			if !equalRunResults(original, decoded) {
				t.Errorf("Round trip mismatch: %+v vs %+v", original, decoded)
			}
		})
	}
}

// TestTraceRecordBadMagic tests rejection of a record without the magic
// number
func TestTraceRecordBadMagic(t *testing.T) {
	record, err := encodeTraceRecord(sampleRunResult(t), TraceCompressionNone)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	record[0] ^= 0xFF

	_, _, err = decodeTraceRecord(record, 0)
	if !IsErrorCode(err, ErrCodeTraceCorrupted) {
		t.Errorf("Expected ErrCodeTraceCorrupted, got %v", err)
	}
}

// TestTraceRecordChecksumMismatch tests that payload corruption is detected
func TestTraceRecordChecksumMismatch(t *testing.T) {
	record, err := encodeTraceRecord(sampleRunResult(t), TraceCompressionNone)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	// Flip one payload byte, leaving the header intact
	record[TraceHeaderSize] ^= 0xFF

	_, _, err = decodeTraceRecord(record, 0)
	if !IsErrorCode(err, ErrCodeTraceCorrupted) {
		t.Errorf("Expected ErrCodeTraceCorrupted, got %v", err)
	}
}

// TestTraceRecordTruncated tests that a short record is rejected
func TestTraceRecordTruncated(t *testing.T) {
	record, err := encodeTraceRecord(sampleRunResult(t), TraceCompressionNone)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	_, _, err = decodeTraceRecord(record[:len(record)-4], 0)
	if !IsErrorCode(err, ErrCodeTraceCorrupted) {
		t.Errorf("Expected ErrCodeTraceCorrupted, got %v", err)
	}
}

// TestTraceWriterAndReader tests appending run results to a file and
// reading them back
func TestTraceWriterAndReader(t *testing.T) {
	tempDir := t.TempDir()
	tracePath := filepath.Join(tempDir, "runs.trace")

	writer, err := NewTraceWriter(tracePath, TraceCompressionSnappy)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}

	gen := NewGenerator(3)
	var written []*RunResult

	for i := 0; i < 5; i++ {
		ref, err := gen.Generate(20, 10)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		result, err := RunAll(ref, 9, 3)
		if err != nil {
			t.Fatalf("RunAll failed: %v", err)
		}

		if err := writer.Append(result); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		written = append(written, result)
	}

	if err := writer.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	read, err := ReadTrace(tracePath)
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}

	if len(read) != len(written) {
		t.Fatalf("Expected %d records, got %d", len(written), len(read))
	}

	for i := range written {
		if !equalRunResults(written[i], read[i]) {
			t.Errorf("Record %d mismatch: %+v vs %+v", i, written[i], read[i])
		}
	}
}

// TestTraceWriterAppendsAcrossOpens tests that reopening a trace file keeps
// earlier records
func TestTraceWriterAppendsAcrossOpens(t *testing.T) {
	tempDir := t.TempDir()
	tracePath := filepath.Join(tempDir, "runs.trace")

	for i := 0; i < 2; i++ {
		writer, err := NewTraceWriter(tracePath, TraceCompressionNone)
		if err != nil {
			t.Fatalf("NewTraceWriter failed: %v", err)
		}

		if err := writer.Append(sampleRunResult(t)); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	read, err := ReadTrace(tracePath)
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}

	if len(read) != 2 {
		t.Errorf("Expected 2 records after two opens, got %d", len(read))
	}
}

// TestReadTraceStream tests reading records from an arbitrary reader
func TestReadTraceStream(t *testing.T) {
	first, err := encodeTraceRecord(sampleRunResult(t), TraceCompressionLZ4)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	second, err := encodeTraceRecord(sampleRunResult(t), TraceCompressionNone)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	stream := bytes.NewReader(append(first, second...))

	results, err := ReadTraceStream(stream)
	if err != nil {
		t.Fatalf("ReadTraceStream failed: %v", err)
	}

	if len(results) != 2 {
		t.Errorf("Expected 2 records, got %d", len(results))
	}
}

// TestReadTraceMissingFile tests the error path for a missing trace file
func TestReadTraceMissingFile(t *testing.T) {
	_, err := ReadTrace(filepath.Join(t.TempDir(), "missing.trace"))
	if !IsErrorCode(err, ErrCodeTraceIO) {
		t.Errorf("Expected ErrCodeTraceIO, got %v", err)
	}
}

// TestReadTraceEmptyFile tests that an empty trace file yields no records
func TestReadTraceEmptyFile(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "empty.trace")
	if err := os.WriteFile(tracePath, nil, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	results, err := ReadTrace(tracePath)
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}

	if len(results) != 0 {
		t.Errorf("Expected no records, got %d", len(results))
	}
}

// TestParseTraceCompression tests config string mapping
func TestParseTraceCompression(t *testing.T) {
	tests := []struct {
		name string
		expected TraceCompression
		wantErr bool
	}{
		{name: "none", expected: TraceCompressionNone},
		{name: "lz4", expected: TraceCompressionLZ4},
		{name: "snappy", expected: TraceCompressionSnappy},
		{name: "zstd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTraceCompression(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error for unknown algorithm")
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseTraceCompression failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}
