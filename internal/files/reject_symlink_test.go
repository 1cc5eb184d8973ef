package files

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// symlinkTree builds dir/real/nested, dir/link -> dir/real and
// dir/target.mp4 with dir/linked.mp4 pointing at it.
func symlinkTree(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need elevated rights on Windows")
	}
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "real", "nested"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "link")); err != nil {
		t.Fatalf("symlink dir: %v", err)
	}
	target := filepath.Join(dir, "target.mp4")
	if err := os.WriteFile(target, []byte("original"), 0o600); err != nil {
		t.Fatalf("write target: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(dir, "linked.mp4")); err != nil {
		t.Fatalf("symlink file: %v", err)
	}
	return dir
}

func TestRejectSymlinkPath(t *testing.T) {
	dir := symlinkTree(t)

	cases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain_new_file", filepath.Join(dir, "real", "out.mp4"), false},
		{"plain_existing_file", filepath.Join(dir, "target.mp4"), false},
		{"symlinked_file", filepath.Join(dir, "linked.mp4"), true},
		{"symlinked_parent", filepath.Join(dir, "link", "out.mp4"), true},
		{"symlinked_ancestor", filepath.Join(dir, "link", "nested", "out.mp4"), true},
		{"empty", "  ", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RejectSymlinkPath(tc.path)
			if (err != nil) != tc.wantErr {
				t.Fatalf("RejectSymlinkPath(%q) error = %v, wantErr %v", tc.path, err, tc.wantErr)
			}
		})
	}
}

func TestResolveOutputRejectsSymlinkedTarget(t *testing.T) {
	dir := symlinkTree(t)

	for _, policy := range []OutputPolicy{OverwriteExisting, RenameExisting, RefuseExisting} {
		if _, err := ResolveOutput(filepath.Join(dir, "linked.mp4"), policy); err == nil {
			t.Fatalf("policy %d: expected symlinked output to be refused", policy)
		}
		if _, err := ResolveOutput(filepath.Join(dir, "link", "out.mp4"), policy); err == nil {
			t.Fatalf("policy %d: expected output under a symlinked directory to be refused", policy)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "target.mp4"))
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("target changed through symlink: %q", data)
	}
}

func TestLockOutputRejectsSymlinkedLockFile(t *testing.T) {
	dir := symlinkTree(t)
	out := filepath.Join(dir, "out.mp4")
	if err := os.Symlink(filepath.Join(dir, "target.mp4"), LockPath(out)); err != nil {
		t.Fatalf("symlink lock: %v", err)
	}

	if l, err := LockOutput(out); err == nil {
		_ = l.Release()
		t.Fatalf("expected symlinked lock file to be refused")
	}
	if _, err := LockOutput(filepath.Join(dir, "link", "out.mp4")); err == nil {
		t.Fatalf("expected lock under a symlinked directory to be refused")
	}
}
