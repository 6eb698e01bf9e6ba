// Package filelock serializes writes to todotree config files.
//
// A config save takes an advisory lock keyed on the target path, then
// replaces the target through a temp file and rename so a concurrent reader
// sees either the old or the new file, never a partial one.
package filelock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// ErrLockTimeout is returned when a lock is still held by someone else after
// the wait deadline.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// DefaultTimeout bounds how long LockAndWrite and Update wait for the lock.
const DefaultTimeout = 5 * time.Second

const retryDelay = 20 * time.Millisecond

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
// The lock file will be created at the specified path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires an exclusive lock on the file, blocking until the lock is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// LockWithTimeout retries a non-blocking lock until it succeeds or timeout
// elapses. On timeout the error wraps ErrLockTimeout.
func (fl *FileLock) LockWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := fl.flock.TryLockContext(ctx, retryDelay)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s after %s", ErrLockTimeout, fl.path, timeout)
	case err != nil:
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	case !locked:
		return fmt.Errorf("%w: %s after %s", ErrLockTimeout, fl.path, timeout)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// LockPath returns the lock file guarding path. Lock files live in the
// system temp directory and are never removed: deleting one while another
// process waits on it would let two writers hold different inodes.
func LockPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "todotree-"+hex.EncodeToString(sum[:8])+".lock")
}

// AtomicWrite writes data to a file atomically using a temp file and rename.
// An existing file keeps its permission bits; new files are created 0644.
// If the operation fails at any point, the original file remains unchanged.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	perm := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	// Same directory as the target so the rename stays on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	// Renamed into place, nothing to clean up
	tempFile = nil

	return nil
}

// LockAndWrite acquires the lock for path, performs an atomic write, and
// releases the lock. See LockPath for where the lock file lives.
func LockAndWrite(path string, data []byte) error {
	return Update(path, func([]byte) ([]byte, error) {
		return data, nil
	})
}

// Update runs a locked read-modify-write of path. fn receives the current
// content (nil when the file does not exist) and returns the replacement.
// An error from fn aborts the write and is returned unchanged.
func Update(path string, fn func(current []byte) ([]byte, error)) (err error) {
	lock := NewFileLock(LockPath(path))
	if err := lock.LockWithTimeout(DefaultTimeout); err != nil {
		return err
	}
	defer func() {
		if rerr := lock.Unlock(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	return AtomicWrite(path, next)
}
