package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// LockName is the sentinel file created next to the manifest document.
	LockName = "note.lock"
	// LockContent is written into the sentinel. Only its presence matters.
	LockContent = "<locked>"
)

// LockPath returns the sentinel path for the manifest document at path.
func LockPath(path string) string {
	return filepath.Join(filepath.Dir(path), LockName)
}

// Lock creates the sentinel for the manifest at path. It fails with
// ErrLockHeld, without waiting, if the sentinel already exists.
//
// The lock is advisory and carries no owner: any process may Unlock it, and
// a writer that dies while holding it leaves the sentinel behind.
func Lock(path string) error {
	lp := LockPath(path)
	f, err := os.OpenFile(lp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrLockHeld, lp)
		}
		return fmt.Errorf("manifest: create lock: %w", err)
	}
	if _, err := f.WriteString(LockContent); err != nil {
		_ = f.Close()
		_ = os.Remove(lp)
		return fmt.Errorf("manifest: write lock: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(lp)
		return fmt.Errorf("manifest: close lock: %w", err)
	}
	return nil
}

// Unlock removes the sentinel for the manifest at path. A missing sentinel
// is not an error.
func Unlock(path string) error {
	if err := os.Remove(LockPath(path)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("manifest: remove lock: %w", err)
	}
	return nil
}

// Locked reports whether the sentinel for the manifest at path exists.
func Locked(path string) bool {
	_, err := os.Stat(LockPath(path))
	return err == nil
}

// WithLock runs fn while holding the lock for the manifest at path. The
// lock is released whether or not fn succeeds.
func WithLock(path string, fn func() error) (err error) {
	if err := Lock(path); err != nil {
		return err
	}
	defer func() {
		if uerr := Unlock(path); uerr != nil && err == nil {
			err = uerr
		}
	}()
	return fn()
}
