package ffmpeg

import (
	"regexp"
	"strconv"
	"strings"
)

// ProgressKey is the -progress field carrying elapsed output time. Despite
// its name ffmpeg reports it in microseconds.
const ProgressKey = "out_time_ms"

// ParseProgressLine extracts the elapsed microseconds from one -progress
// line. Lines with another key, no '=' or a non-numeric value report false.
func ParseProgressLine(line string) (int64, bool) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return 0, false
	}
	if strings.TrimSpace(key) != ProgressKey {
		return 0, false
	}
	us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || us < 0 {
		return 0, false
	}
	return us, true
}

// MicrosToSeconds converts microseconds to whole seconds, truncating.
func MicrosToSeconds(us int64) int64 {
	return us / 1_000_000
}

var progressField = regexp.MustCompile(`^[a-z0-9_]+=`)

// IsProgressField reports whether line looks like any -progress key=value
// field rather than regular ffmpeg log output.
func IsProgressField(line string) bool {
	return progressField.MatchString(strings.TrimSpace(line))
}
