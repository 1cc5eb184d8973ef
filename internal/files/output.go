package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrOutputExists is returned by ResolveOutput under RefuseExisting.
var ErrOutputExists = errors.New("output file already exists")

// OutputPolicy decides what happens when the render target already exists.
type OutputPolicy int

const (
	// OverwriteExisting lets ffmpeg replace the file.
	OverwriteExisting OutputPolicy = iota
	// RenameExisting picks a free sibling name instead.
	RenameExisting
	// RefuseExisting fails with ErrOutputExists.
	RefuseExisting
)

// ResolveOutput checks the render target. It refuses symlinked paths, since
// ffmpeg would write through them, and applies policy when the file exists.
// The returned path is the one to render to.
func ResolveOutput(path string, policy OutputPolicy) (string, error) {
	if err := RejectSymlinkPath(path); err != nil {
		return "", err
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return path, nil
	case err != nil:
		return "", fmt.Errorf("check output: %w", err)
	case info.IsDir():
		return "", fmt.Errorf("output %s is a directory", path)
	}

	switch policy {
	case RenameExisting:
		return AvailablePath(path)
	case RefuseExisting:
		return "", fmt.Errorf("%w: %s", ErrOutputExists, path)
	default:
		return path, nil
	}
}

// AvailablePath returns path if nothing exists there, otherwise the first
// free name among name_1 .. name_9, falling back to a UUID suffix.
func AvailablePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path is empty")
	}
	free, err := isFree(path)
	if err != nil || free {
		return path, err
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; i <= 9; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		free, err := isFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}

	suffix := uuid.NewString()[:8]
	if u, err := uuid.NewV7(); err == nil {
		suffix = u.String()
	}
	return fmt.Sprintf("%s_%s%s", base, suffix, ext), nil
}

func isFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	return false, err
}
