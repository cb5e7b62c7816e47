package migrations

import (
	"io/fs"
	"sync"
)

var registry struct {
	mu   sync.RWMutex
	fsys []fs.FS
}

// Register adds a filesystem containing migration SQL to the shared registry.
// The module registers its embedded admin_sessions/swag_requests/activity_log
// migrations at init; hosts can append their own filesystems on top before
// feeding the lot to their runner.
func Register(fsys fs.FS) {
	if fsys == nil {
		return
	}
	registry.mu.Lock()
	registry.fsys = append(registry.fsys, fsys)
	registry.mu.Unlock()
}

// Filesystems returns the registered filesystems in registration order, the
// module's own migrations first.
func Filesystems() []fs.FS {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	out := make([]fs.FS, len(registry.fsys))
	copy(out, registry.fsys)
	return out
}
