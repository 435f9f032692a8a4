//go:build !unix

package device

import (
	"fmt"
	"os"
)

func (d *FileDevice) mapFile(int) error { return nil }

func (d *FileDevice) unmap() error { return nil }

// write falls back to plain file I/O where mmap is unavailable.
func (d *FileDevice) write(off int, data []byte) error {
	if _, err := d.f.WriteAt(data, int64(off)); err != nil {
		return fmt.Errorf("device: write backing file: %w", err)
	}
	return nil
}

func syncFile(f *os.File) error {
	return f.Sync()
}
