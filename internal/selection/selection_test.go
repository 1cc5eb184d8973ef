package selection

import (
	"reflect"
	"strings"
	"testing"
)

func TestEnsureExtension(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"appends_when_missing", "out", "out.mp4"},
		{"keeps_existing", "out.mp4", "out.mp4"},
		{"case_insensitive", "OUT.MP4", "OUT.MP4"},
		{"other_extension", "clip.mkv", "clip.mkv.mp4"},
		{"directory_with_dots", "/tmp/v1.2/out", "/tmp/v1.2/out.mp4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EnsureExtension(tc.in, ContainerExt)
			if got != tc.want {
				t.Fatalf("EnsureExtension(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if again := EnsureExtension(got, ContainerExt); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestEnsureExtensionWithoutDot(t *testing.T) {
	if got := EnsureExtension("out", "mp4"); got != "out.mp4" {
		t.Fatalf("got %q", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if r.Ready() {
		t.Fatalf("empty registry should not be ready")
	}

	r.SetVideo("/v/in.mp4")
	if !r.Ready() {
		t.Fatalf("video alone should enable the trigger")
	}
	r.SetSubtitle("/v/in.ass")
	r.SetOutput("/v/out")

	want := Selection{Video: "/v/in.mp4", Subtitle: "/v/in.ass", Output: "/v/out.mp4"}
	if got := r.Snapshot(); got != want {
		t.Fatalf("Snapshot() = %+v, want %+v", got, want)
	}

	snap := r.Snapshot()
	r.SetVideo("/v/other.mp4")
	if snap.Video != "/v/in.mp4" {
		t.Fatalf("snapshot must not follow later updates")
	}
}

func TestSelectionMissing(t *testing.T) {
	got := Selection{Video: "a.mp4", Subtitle: "  "}.Missing()
	want := []string{"subtitle", "output"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Missing() = %v, want %v", got, want)
	}
	if m := (Selection{Video: "a", Subtitle: "b", Output: "c"}).Missing(); len(m) != 0 {
		t.Fatalf("expected nothing missing, got %v", m)
	}
}

func TestLabel(t *testing.T) {
	short := "/tmp/a.mp4"
	if got := Label(short, 40); got != short {
		t.Fatalf("short path changed: %q", got)
	}

	long := "/home/someone/Videos/" + strings.Repeat("x", 50) + ".mp4"
	got := Label(long, 40)
	if !strings.HasPrefix(got, "...") {
		t.Fatalf("missing ellipsis: %q", got)
	}
	if tail := strings.TrimPrefix(got, "..."); len(tail) != 40 || !strings.HasSuffix(long, tail) {
		t.Fatalf("unexpected tail %q", tail)
	}

	wide := strings.Repeat("字", 45)
	if got := Label(wide, 40); got != "..."+strings.Repeat("字", 40) {
		t.Fatalf("grapheme trim failed: %q", got)
	}
}
