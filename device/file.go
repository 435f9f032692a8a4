package device

import (
	"fmt"
	"os"
)

// FileDevice backs the device buffer with a file on disk. Buffer contents
// survive the process, which makes it useful for capturing allocator output
// for offline inspection, or as a stand-in device in environments without a
// GPU.
//
// On unix the file is memory-mapped and written ranges are flushed with
// msync; on other platforms writes go through plain file I/O.
type FileDevice struct {
	path   string
	f      *os.File
	data   []byte // active mapping; nil on platforms without mmap
	size   int
	id     BufferID
	nextID BufferID
}

var _ Device = (*FileDevice)(nil)

// NewFile creates (or truncates) the backing file at path.
func NewFile(path string) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("device: open backing file: %w", err)
	}
	return &FileDevice{path: path, f: f}, nil
}

// CreateOrResize truncates the backing file to capacity and remaps it.
func (d *FileDevice) CreateOrResize(capacity int, usage Usage) (BufferID, error) {
	if capacity < 0 {
		return 0, ErrBadCapacity
	}
	if err := d.unmap(); err != nil {
		return 0, err
	}
	if err := d.f.Truncate(int64(capacity)); err != nil {
		return 0, fmt.Errorf("device: truncate backing file: %w", err)
	}
	if err := d.mapFile(capacity); err != nil {
		return 0, err
	}
	if err := syncFile(d.f); err != nil {
		return 0, err
	}
	d.size = capacity
	d.nextID++
	d.id = d.nextID
	return d.id, nil
}

// Write copies data into the backing file at the given byte offset.
func (d *FileDevice) Write(id BufferID, off int, data []byte) error {
	if id == 0 || id != d.id {
		return ErrUnknownBuffer
	}
	if off < 0 || off+len(data) > d.size {
		return ErrWriteOutOfRange
	}
	if len(data) == 0 {
		return nil
	}
	return d.write(off, data)
}

// Size returns the capacity of the current buffer in bytes.
func (d *FileDevice) Size() int { return d.size }

// Path returns the location of the backing file.
func (d *FileDevice) Path() string { return d.path }

// Close releases the mapping and closes the backing file.
func (d *FileDevice) Close() error {
	if err := d.unmap(); err != nil {
		d.f.Close()
		return err
	}
	return d.f.Close()
}
