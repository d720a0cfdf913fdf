// Package locking serializes mutating operations per imprint name across
// processes. Lock files live under the data directory so every CLI invocation
// contends on the same paths.
package locking

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"imprint/internal/services"
)

// ConflictError reports a mutating operation attempted while another holds
// the lock for the same imprint name. The first caller wins; retry after it
// finishes.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("another operation is in progress for %q", e.Name)
}

func (e *ConflictError) Unwrap() error {
	return services.ErrConflict
}

// NameLock is a held per-name lock. Release it when the mutation commits or
// aborts.
type NameLock struct {
	lock *flock.Flock
}

// AcquireName takes the per-name lock without blocking. A held lock yields
// ConflictError so the second caller sees a clean refusal instead of a stall.
func AcquireName(lockDir, name string) (*NameLock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(lockDir, name+".lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire name lock: %w", err)
	}
	if !locked {
		return nil, &ConflictError{Name: name}
	}
	return &NameLock{lock: lock}, nil
}

// Release drops the lock. Safe on nil.
func (l *NameLock) Release() {
	if l == nil || l.lock == nil {
		return
	}
	_ = l.lock.Unlock()
}
