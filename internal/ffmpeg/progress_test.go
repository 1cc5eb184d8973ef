package ffmpeg

import "testing"

func TestParseProgressLine(t *testing.T) {
	cases := []struct {
		line   string
		wantUS int64
		wantOK bool
	}{
		{"out_time_ms=1000000", 1000000, true},
		{"out_time_ms=2500000  ", 2500000, true},
		{"out_time_ms=0\r", 0, true},
		{"out_time_ms=N/A", 0, false},
		{"out_time_ms=-5", 0, false},
		{"out_time_ms=", 0, false},
		{"out_time_us=1000000", 0, false},
		{"out_time=00:00:01.000000", 0, false},
		{"frame=42", 0, false},
		{"garbage", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		us, ok := ParseProgressLine(tc.line)
		if ok != tc.wantOK || us != tc.wantUS {
			t.Errorf("ParseProgressLine(%q) = (%d, %v), want (%d, %v)", tc.line, us, ok, tc.wantUS, tc.wantOK)
		}
	}
}

func TestMicrosToSecondsTruncates(t *testing.T) {
	cases := map[int64]int64{
		0:        0,
		999999:   0,
		1000000:  1,
		2500000:  2,
		29999999: 29,
	}
	for in, want := range cases {
		if got := MicrosToSeconds(in); got != want {
			t.Errorf("MicrosToSeconds(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestIsProgressField(t *testing.T) {
	if !IsProgressField("bitrate=1234.5kbits/s") {
		t.Fatalf("expected progress field")
	}
	if !IsProgressField("progress=end") {
		t.Fatalf("expected progress field")
	}
	if IsProgressField("[Parsed_ass_0 @ 0x1] Unable to open sub.ass") {
		t.Fatalf("log line misclassified")
	}
}
