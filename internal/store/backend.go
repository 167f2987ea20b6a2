package store

import (
	"context"

	"github.com/rcliao/trackr/internal/model"
)

// BackendKind tags the storage variant chosen at Open.
type BackendKind string

const (
	BackendFile   BackendKind = "file"
	BackendMemory BackendKind = "memory"
)

// container maps day keys to records in append order.
type container map[string][]model.ActivityRecord

// backend is implemented by sqliteBackend and memoryBackend only. The
// container is held in memory by both; save persists the given partitions.
type backend interface {
	kind() BackendKind
	load(ctx context.Context) error
	save(ctx context.Context, keys ...string) error
	read(fn func(c container))
	write(fn func(c container))
	close() error
}

type memoryBackend struct {
	data container
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: container{}}
}

func (m *memoryBackend) kind() BackendKind { return BackendMemory }

func (m *memoryBackend) load(context.Context) error { return nil }

func (m *memoryBackend) save(context.Context, ...string) error { return nil }

func (m *memoryBackend) read(fn func(c container)) { fn(m.data) }

func (m *memoryBackend) write(fn func(c container)) { fn(m.data) }

func (m *memoryBackend) close() error { return nil }
