// Package ffmpeg owns the wire contract with the external ffmpeg binary:
// the argument list for a subtitle burn, the escaping rules of the filter
// graph, the -progress line format and process spawning.
package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultBinary     = "ffmpeg"
	DefaultCRF        = 18
	DefaultPreset     = "slow"
	DefaultVideoCodec = "libx264"
)

// Encoding holds the tunable encoder options. The zero value means defaults.
type Encoding struct {
	CRF        int
	Preset     string
	VideoCodec string
}

// WithDefaults fills empty fields.
func (e Encoding) WithDefaults() Encoding {
	if e.CRF <= 0 {
		e.CRF = DefaultCRF
	}
	if strings.TrimSpace(e.Preset) == "" {
		e.Preset = DefaultPreset
	}
	if strings.TrimSpace(e.VideoCodec) == "" {
		e.VideoCodec = DefaultVideoCodec
	}
	return e
}

// BuildBurnArgs returns the ffmpeg arguments that burn subtitlePath into
// videoPath and write outputPath. Progress is reported as key=value lines on
// stderr.
func BuildBurnArgs(videoPath, subtitlePath, outputPath string, enc Encoding) []string {
	enc = enc.WithDefaults()
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-progress", "pipe:2",
		"-i", videoPath,
		"-vf", SubtitleFilter(subtitlePath),
		"-crf", strconv.Itoa(enc.CRF),
		"-preset", enc.Preset,
		"-movflags", "+faststart",
		"-c:v", enc.VideoCodec,
		"-c:a", "copy",
		outputPath,
	}
}

// SubtitleFilter returns the ass filter expression for subtitlePath.
func SubtitleFilter(subtitlePath string) string {
	return fmt.Sprintf("ass='%s'", EscapeFilterPath(subtitlePath))
}

// quoteEscape stands for one single quote inside the quoted ass argument.
// The filter-graph parser ends the quote, reads the escaped \' and reopens
// it, which leaves \' for the option parser to turn back into '.
const quoteEscape = `\'\''`

// EscapeFilterPath makes path safe as a single filter-graph argument.
// Backslashes become forward slashes first, then every colon is escaped,
// since colon separates filter options, and single quotes are escaped for
// both parsing levels.
func EscapeFilterPath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.ReplaceAll(path, ":", `\:`)
	return strings.ReplaceAll(path, "'", quoteEscape)
}

// UnescapeFilterPath reverses EscapeFilterPath. The result is the
// forward-slash form of the original path.
func UnescapeFilterPath(escaped string) string {
	escaped = strings.ReplaceAll(escaped, quoteEscape, "'")
	return strings.ReplaceAll(escaped, `\:`, ":")
}

// FilterOptions splits a filter argument list on unescaped colons, the way
// the filter-graph parser does.
func FilterOptions(arg string) []string {
	var (
		parts   []string
		current strings.Builder
	)
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if c == '\\' && i+1 < len(arg) {
			current.WriteByte(c)
			current.WriteByte(arg[i+1])
			i++
			continue
		}
		if c == ':' {
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteByte(c)
	}
	return append(parts, current.String())
}
