package files

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
)

// ErrOutputBusy means another subburn process is rendering to the same file.
var ErrOutputBusy = errors.New("output is being written by another process")

// OutputLock is an advisory lock held next to a render target.
type OutputLock struct {
	path string
	lock *flock.Flock
}

// LockPath is the lock file used for output.
func LockPath(output string) string {
	return output + ".lock"
}

// LockOutput takes the lock for output without waiting.
func LockOutput(output string) (*OutputLock, error) {
	path := LockPath(output)
	if err := RejectSymlinkPath(path); err != nil {
		return nil, err
	}
	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOutputBusy, output)
	}
	return &OutputLock{path: path, lock: l}, nil
}

// Release unlocks and removes the lock file. It is safe to call twice.
func (l *OutputLock) Release() error {
	if l == nil || !l.lock.Locked() {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release output lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove output lock: %w", err)
	}
	return nil
}
