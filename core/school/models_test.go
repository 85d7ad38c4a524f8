package school

import "testing"

func Test_MasteryStatus(t *testing.T) {
	tests := []struct {
		name    string
		mastery int
		want    string
	}{
		{name: "zero", mastery: 0, want: ProgressAtRisk},
		{name: "just below on-track", mastery: 49, want: ProgressAtRisk},
		{name: "on-track boundary", mastery: 50, want: ProgressOnTrack},
		{name: "just below excellent", mastery: 79, want: ProgressOnTrack},
		{name: "excellent boundary", mastery: 80, want: ProgressExcellent},
		{name: "full marks", mastery: 100, want: ProgressExcellent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MasteryStatus(tt.mastery); got != tt.want {
				t.Errorf("MasteryStatus(%d) = %s, want %s", tt.mastery, got, tt.want)
			}
		})
	}
}
