package simulator

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// MmapTraceReader provides zero-copy access to a trace file using a
// memory-mapped view. Useful for scanning large accumulated trace logs
// without pulling the whole file through buffered reads.
type MmapTraceReader struct {
	file *os.File
	mmapData []byte
	fileSize int64
	offset int64 // Next record offset
	mutex sync.Mutex
}

// NewMmapTraceReader opens a trace file and maps it read-only
func NewMmapTraceReader(path string) (*MmapTraceReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ErrTraceIO("NewMmapTraceReader", err)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, ErrTraceIO("NewMmapTraceReader", err)
	}

	fileSize := fileInfo.Size()

	reader := &MmapTraceReader{
		file: file,
		fileSize: fileSize,
	}

	// An empty trace maps nothing; Next reports done immediately
	if fileSize == 0 {
		return reader, nil
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(fileSize), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, ErrTraceIO("NewMmapTraceReader", err)
	}

	reader.mmapData = data
	return reader, nil
}

// Next decodes the next record from the mapped view
// Returns the run result and true, or nil and false after the last record
func (mr *MmapTraceReader) Next() (*RunResult, bool, error) {
	mr.mutex.Lock()
	defer mr.mutex.Unlock()

	if mr.offset >= mr.fileSize {
		return nil, false, nil
	}

	result, consumed, err := decodeTraceRecord(mr.mmapData, mr.offset)
	if err != nil {
		return nil, false, err
	}

	mr.offset += int64(consumed)
	return result, true, nil
}

// ReadAll decodes every remaining record from the mapped view
func (mr *MmapTraceReader) ReadAll() ([]*RunResult, error) {
	var results []*RunResult

	for {
		result, ok, err := mr.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return results, nil
		}
		results = append(results, result)
	}
}

// Reset rewinds the reader to the first record
func (mr *MmapTraceReader) Reset() {
	mr.mutex.Lock()
	defer mr.mutex.Unlock()
	mr.offset = 0
}

// Close unmaps the view and closes the underlying file
func (mr *MmapTraceReader) Close() error {
	mr.mutex.Lock()
	defer mr.mutex.Unlock()

	if mr.mmapData != nil {
		if err := unix.Munmap(mr.mmapData); err != nil {
			return ErrTraceIO("Close", err)
		}
		mr.mmapData = nil
	}

	if err := mr.file.Close(); err != nil {
		return ErrTraceIO("Close", err)
	}

	return nil
}
