// Package subtitle inspects subtitle files before a render. It is a
// pre-flight aid for the CLI; the render itself hands the file to ffmpeg
// untouched.
package subtitle

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/asticode/go-astisub"
)

// Summary describes a subtitle file.
type Summary struct {
	Path       string
	Format     string
	Events     int
	Blank      int
	Styles     []string
	FirstStart time.Duration
	LastEnd    time.Duration
}

// Inspect parses path and summarizes its events and styles.
func Inspect(path string) (Summary, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("parse subtitle %s: %w", path, err)
	}
	return summarize(path, subs), nil
}

func summarize(path string, subs *astisub.Subtitles) Summary {
	s := Summary{
		Path:   path,
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
		Events: len(subs.Items),
	}
	for name := range subs.Styles {
		s.Styles = append(s.Styles, name)
	}
	sort.Strings(s.Styles)

	for i, item := range subs.Items {
		if i == 0 || item.StartAt < s.FirstStart {
			s.FirstStart = item.StartAt
		}
		if item.EndAt > s.LastEnd {
			s.LastEnd = item.EndAt
		}
		if isBlank(item) {
			s.Blank++
		}
	}
	return s
}

func isBlank(item *astisub.Item) bool {
	for _, l := range item.Lines {
		if strings.TrimSpace(l.String()) != "" {
			return false
		}
	}
	return true
}

// Validate reports files that would burn nothing visible.
func (s Summary) Validate() error {
	if s.Events == 0 {
		return fmt.Errorf("no subtitles found in %s", s.Path)
	}
	if s.Blank == s.Events {
		return fmt.Errorf("%s contains events but no dialogue text", s.Path)
	}
	return nil
}

// Overruns reports whether the last event ends after a video of length d.
func (s Summary) Overruns(d time.Duration) bool {
	return d > 0 && s.LastEnd > d
}

// Burnable reports whether the ass filter can read path.
func Burnable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ass", ".ssa":
		return true
	default:
		return false
	}
}

// FormatTimestamp renders d as HH:MM:SS.mmm.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
