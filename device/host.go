package device

// WriteOp records one Write call against a HostDevice.
type WriteOp struct {
	Buffer BufferID
	Off    int
	Len    int
}

// HostDevice keeps the "device" buffer in host memory and records every
// write. It implements Device and is the implementation used by tests and
// examples.
//
// The fault-injection fields make the next matching call fail with the given
// error, then clear themselves. They exist for exercising the allocator's
// device-failure paths.
type HostDevice struct {
	buf    []byte
	id     BufferID
	nextID BufferID
	usage  Usage
	writes []WriteOp

	FailCreate error
	FailWrite  error
}

var _ Device = (*HostDevice)(nil)

// NewHost returns an empty HostDevice with no buffer allocated.
func NewHost() *HostDevice {
	return &HostDevice{}
}

// CreateOrResize discards any current buffer and allocates a fresh one.
func (d *HostDevice) CreateOrResize(capacity int, usage Usage) (BufferID, error) {
	if d.FailCreate != nil {
		err := d.FailCreate
		d.FailCreate = nil
		return 0, err
	}
	if capacity < 0 {
		return 0, ErrBadCapacity
	}
	d.nextID++
	d.id = d.nextID
	d.buf = make([]byte, capacity)
	d.usage = usage
	return d.id, nil
}

// Write copies data into the current buffer.
func (d *HostDevice) Write(id BufferID, off int, data []byte) error {
	if d.FailWrite != nil {
		err := d.FailWrite
		d.FailWrite = nil
		return err
	}
	if id == 0 || id != d.id {
		return ErrUnknownBuffer
	}
	if off < 0 || off+len(data) > len(d.buf) {
		return ErrWriteOutOfRange
	}
	copy(d.buf[off:], data)
	d.writes = append(d.writes, WriteOp{Buffer: id, Off: off, Len: len(data)})
	return nil
}

// Bytes returns the current buffer contents. The slice aliases device memory
// and is only valid until the next CreateOrResize.
func (d *HostDevice) Bytes() []byte { return d.buf }

// Capacity returns the current buffer capacity in bytes.
func (d *HostDevice) Capacity() int { return len(d.buf) }

// ID returns the id of the current buffer, or 0 if none exists.
func (d *HostDevice) ID() BufferID { return d.id }

// Usage returns the usage the current buffer was created with.
func (d *HostDevice) Usage() Usage { return d.usage }

// Writes returns the recorded write operations in call order.
func (d *HostDevice) Writes() []WriteOp { return d.writes }

// ResetWrites clears the recorded write log.
func (d *HostDevice) ResetWrites() { d.writes = d.writes[:0] }
