package ffmpeg

import (
	"math"
	"testing"
)

func TestParseDurationLine(t *testing.T) {
	tests := []struct {
		line string
		want float64
		ok   bool
	}{
		{"  Duration: 00:02:03.45, start: 0.000000, bitrate: 1000 kb/s", 123.45, true},
		{"Duration: 01:00:00.00", 3600, true},
		{"  Duration: N/A, start: 0.000000", 0, false},
		{"frame=  100 fps= 25", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseDurationLine(tt.line)
		if ok != tt.ok {
			t.Errorf("parseDurationLine(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseDurationLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestParseOutTime(t *testing.T) {
	tests := []struct {
		line string
		want float64
		ok   bool
	}{
		// Both out_time_us and out_time_ms carry microseconds.
		{"out_time_us=1500000", 1.5, true},
		{"out_time_ms=1500000", 1.5, true},
		{"out_time=00:00:30.00", 30, true},
		{"out_time_ms=-1", 0, false},
		{"speed=2.5x", 0, false},
		{"progress=continue", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseOutTime(tt.line)
		if ok != tt.ok {
			t.Errorf("parseOutTime(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseOutTime(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
