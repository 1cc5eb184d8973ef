// Package selection holds the video, subtitle and output paths chosen by the
// user and the small path rules that go with them.
package selection

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/rivo/uniseg"
)

// ContainerExt is the only container the probe and the renderer accept.
const ContainerExt = ".mp4"

// SubtitleExt is the subtitle format passed to the ass filter.
const SubtitleExt = ".ass"

// Selection is a value copy of the chosen paths handed to a render job.
type Selection struct {
	Video    string
	Subtitle string
	Output   string
}

// Missing returns the names of empty fields, in declaration order.
func (s Selection) Missing() []string {
	var missing []string
	if strings.TrimSpace(s.Video) == "" {
		missing = append(missing, "video")
	}
	if strings.TrimSpace(s.Subtitle) == "" {
		missing = append(missing, "subtitle")
	}
	if strings.TrimSpace(s.Output) == "" {
		missing = append(missing, "output")
	}
	return missing
}

// Registry stores the current selection. It is safe for concurrent use, but
// front ends normally touch it from their UI goroutine only.
type Registry struct {
	mu  sync.RWMutex
	sel Selection
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Video() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sel.Video
}

func (r *Registry) SetVideo(path string) {
	r.mu.Lock()
	r.sel.Video = path
	r.mu.Unlock()
}

func (r *Registry) Subtitle() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sel.Subtitle
}

func (r *Registry) SetSubtitle(path string) {
	r.mu.Lock()
	r.sel.Subtitle = path
	r.mu.Unlock()
}

func (r *Registry) Output() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sel.Output
}

// SetOutput stores path with the container extension enforced.
func (r *Registry) SetOutput(path string) {
	if strings.TrimSpace(path) != "" {
		path = EnsureExtension(path, ContainerExt)
	}
	r.mu.Lock()
	r.sel.Output = path
	r.mu.Unlock()
}

// Snapshot returns a copy of the current selection.
func (r *Registry) Snapshot() Selection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sel
}

// Ready reports whether a render can be requested. Only the video is
// required to enable the trigger; a missing subtitle is reported by the
// controller when the render starts.
func (r *Registry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return strings.TrimSpace(r.sel.Video) != ""
}

// EnsureExtension appends ext unless path already ends with it (compared
// case-insensitively). Applying it twice gives the same result.
func EnsureExtension(path, ext string) string {
	if ext == "" {
		return path
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

// HasExtension reports whether path carries ext, ignoring case.
func HasExtension(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// Label shortens a path for display by keeping its last max grapheme
// clusters behind a "..." prefix.
func Label(path string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(path) <= max {
		return path
	}
	clusters := make([]string, 0, len(path))
	g := uniseg.NewGraphemes(path)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}
	return "..." + strings.Join(clusters[len(clusters)-max:], "")
}
