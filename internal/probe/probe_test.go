package probe

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/oukeidos/subburn/internal/apperrors"
	"github.com/oukeidos/subburn/internal/testsupport"
)

var (
	box     = testsupport.Box
	ftypBox = testsupport.FtypBox
	mvhdBox = testsupport.MvhdBox
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	return testsupport.WriteBytes(t, "clip.mp4", data)
}

func TestDurationFromHeader(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want time.Duration
	}{
		{"v0_12_5s", append(ftypBox(), box("moov", mvhdBox(0, 1000, 12500))...), 12500 * time.Millisecond},
		{"v0_30s_90k", append(ftypBox(), box("moov", mvhdBox(0, 90000, 30*90000))...), 30 * time.Second},
		{"v1_long", append(ftypBox(), box("moov", mvhdBox(1, 600, 600*7200+300))...), 2*time.Hour + 500*time.Millisecond},
		{"mdat_before_moov", bytes.Join([][]byte{ftypBox(), box("mdat", make([]byte, 64)), box("moov", mvhdBox(0, 1000, 4321))}, nil), 4321 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Duration(writeFile(t, tc.data))
			if err != nil {
				t.Fatalf("Duration() error = %v", err)
			}
			if time.Duration(got) != tc.want {
				t.Fatalf("Duration() = %v, want %v", time.Duration(got), tc.want)
			}
		})
	}
}

func TestDurationMilliseconds(t *testing.T) {
	path := writeFile(t, append(ftypBox(), box("moov", mvhdBox(0, 1000, 12500))...))
	got, err := Duration(path)
	if err != nil {
		t.Fatalf("Duration() error = %v", err)
	}
	if got.Milliseconds() != 12500 {
		t.Fatalf("Milliseconds() = %d, want 12500", got.Milliseconds())
	}
	if got.Seconds() != 12 {
		t.Fatalf("Seconds() = %d, want 12", got.Seconds())
	}
}

func TestDurationErrors(t *testing.T) {
	full := append(ftypBox(), box("moov", mvhdBox(0, 1000, 12500))...)

	cases := []struct {
		name string
		path func(t *testing.T) string
		want apperrors.Kind
	}{
		{
			name: "missing_file",
			path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.mp4") },
			want: apperrors.KindNotFound,
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
			want: apperrors.KindNotFound,
		},
		{
			name: "not_mp4",
			path: func(t *testing.T) string { return writeFile(t, []byte("this is not a video file at all")) },
			want: apperrors.KindMalformedContainer,
		},
		{
			name: "too_short",
			path: func(t *testing.T) string { return writeFile(t, []byte{0, 0, 0}) },
			want: apperrors.KindMalformedContainer,
		},
		{
			name: "truncated_mvhd",
			path: func(t *testing.T) string { return writeFile(t, full[:len(full)-40]) },
			want: apperrors.KindMalformedContainer,
		},
		{
			name: "no_moov",
			path: func(t *testing.T) string {
				return writeFile(t, append(ftypBox(), box("mdat", make([]byte, 16))...))
			},
			want: apperrors.KindUnsupported,
		},
		{
			name: "zero_duration",
			path: func(t *testing.T) string {
				return writeFile(t, append(ftypBox(), box("moov", mvhdBox(0, 1000, 0))...))
			},
			want: apperrors.KindUnsupported,
		},
		{
			name: "unknown_duration_v0",
			path: func(t *testing.T) string {
				return writeFile(t, append(ftypBox(), box("moov", mvhdBox(0, 1000, math.MaxUint32))...))
			},
			want: apperrors.KindUnsupported,
		},
		{
			name: "unknown_duration_v1",
			path: func(t *testing.T) string {
				return writeFile(t, append(ftypBox(), box("moov", mvhdBox(1, 1000, math.MaxUint64))...))
			},
			want: apperrors.KindUnsupported,
		},
		{
			name: "v1_duration_out_of_range",
			path: func(t *testing.T) string {
				return writeFile(t, append(ftypBox(), box("moov", mvhdBox(1, 1, math.MaxUint64-1))...))
			},
			want: apperrors.KindUnsupported,
		},
		{
			name: "zero_timescale",
			path: func(t *testing.T) string {
				return writeFile(t, append(ftypBox(), box("moov", mvhdBox(0, 0, 100))...))
			},
			want: apperrors.KindUnsupported,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Duration(tc.path(t))
			if err == nil {
				t.Fatalf("expected error")
			}
			if kind, _ := apperrors.KindOf(err); kind != tc.want {
				t.Fatalf("kind = %q, want %q (err=%v)", kind, tc.want, err)
			}
		})
	}
}

func TestUnitsToDuration(t *testing.T) {
	cases := []struct {
		name      string
		units     uint64
		timescale uint64
		want      time.Duration
		ok        bool
	}{
		{"thirds", 1, 3, 333 * time.Millisecond, true},
		{"zero", 0, 1000, 0, true},
		{"largest_fitting", maxMillis, 1000, time.Duration(maxMillis) * time.Millisecond, true},
		{"overflow_whole", math.MaxUint64, 1000, 0, false},
		{"overflow_whole_seconds", maxMillis + 1, 1, 0, false},
		{"overflow_fraction", maxMillis/1000*1000 + 999, 1000, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := unitsToDuration(tc.units, tc.timescale)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if time.Duration(got) != tc.want {
				t.Fatalf("got %v, want %v", time.Duration(got), tc.want)
			}
			if got < 0 {
				t.Fatalf("negative duration %v", time.Duration(got))
			}
		})
	}
}
