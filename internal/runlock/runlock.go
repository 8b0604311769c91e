// Package runlock serializes prepare runs that target the same processed
// directory.
package runlock

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("another vivosprep run is already writing to this processed directory")

// Lock is an acquired run lock.
type Lock struct {
	path string
	lock *flock.Flock
}

// PathFor returns the lock file used for processedDir inside lockDir.
func PathFor(lockDir, processedDir string) string {
	sum := sha1.Sum([]byte(filepath.Clean(processedDir)))
	return filepath.Join(lockDir, hex.EncodeToString(sum[:])+".lock")
}

// Acquire takes the lock for processedDir without blocking.
func Acquire(lockDir, processedDir string) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := PathFor(lockDir, processedDir)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
