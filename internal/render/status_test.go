package render

import "testing"

func TestIsValidTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusIdle, StatusSpawning, true},
		{StatusSpawning, StatusRunning, true},
		{StatusSpawning, StatusFailed, true},
		{StatusRunning, StatusCompleted, true},
		{StatusCompleted, StatusSpawning, true},
		{StatusFailed, StatusSpawning, true},

		{StatusIdle, StatusRunning, false},
		{StatusIdle, StatusCompleted, false},
		{StatusSpawning, StatusCompleted, false},
		{StatusRunning, StatusFailed, false},
		{StatusRunning, StatusSpawning, false},
		{StatusCompleted, StatusRunning, false},
		{StatusFailed, StatusIdle, false},
	}
	for _, tc := range cases {
		if got := isValidTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
