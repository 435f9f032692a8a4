//go:build unix

package device

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// pageSize is the mapping granularity assumed for msync range alignment.
const pageSize = 4096

func (d *FileDevice) mapFile(size int) error {
	if size == 0 {
		d.data = nil
		return nil
	}
	data, err := unix.Mmap(int(d.f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("device: mmap backing file: %w", err)
	}
	d.data = data
	return nil
}

func (d *FileDevice) unmap() error {
	if d.data == nil {
		return nil
	}
	err := unix.Munmap(d.data)
	d.data = nil
	if err != nil {
		return fmt.Errorf("device: munmap backing file: %w", err)
	}
	return nil
}

// write copies into the mapping and schedules an asynchronous flush of the
// touched pages. MS_ASYNC keeps Write an enqueue rather than a blocking sync.
func (d *FileDevice) write(off int, data []byte) error {
	copy(d.data[off:], data)

	// msync requires a page-aligned range.
	start := (off / pageSize) * pageSize
	end := off + len(data)
	if end%pageSize != 0 {
		end = ((end / pageSize) + 1) * pageSize
	}
	if end > len(d.data) {
		end = len(d.data)
	}
	if err := unix.Msync(d.data[start:end], unix.MS_ASYNC); err != nil {
		return fmt.Errorf("device: msync: %w", err)
	}
	return nil
}

func syncFile(f *os.File) error {
	if err := unix.Fdatasync(int(f.Fd())); err != nil {
		return fmt.Errorf("device: fdatasync: %w", err)
	}
	return nil
}
