// Package device defines the narrow contract between the allocator core and
// whatever owns the real device buffer, plus two reference implementations.
//
// The core never touches device memory directly. It asks its Device for two
// things: (re)allocating a fixed-capacity buffer, and copying host bytes into
// it. Everything else about the device (queues, bind groups, pipelines) lives
// outside this module.
//
// # Implementations
//
// HostDevice: an in-memory buffer that records every write. Used by tests and
// examples, and useful as a software fallback.
//
// FileDevice: backs the buffer with a file. On unix the file is memory-mapped
// and written ranges are msync'd; elsewhere it falls back to plain file I/O.
// Handy for capturing buffer contents for offline inspection.
//
// # Thread safety
//
// Implementations in this package are not thread-safe; they inherit the
// single-writer model of the allocator that drives them.
package device
