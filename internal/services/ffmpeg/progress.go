package ffmpeg

import (
	"strconv"
	"strings"
)

// parseDurationLine extracts the source duration in seconds from ffmpeg's
// stderr header, e.g. "  Duration: 00:02:03.45, start: 0.000000, ...".
func parseDurationLine(line string) (float64, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "Duration:") {
		return 0, false
	}
	value := strings.TrimSpace(strings.TrimPrefix(trimmed, "Duration:"))
	if idx := strings.IndexByte(value, ','); idx >= 0 {
		value = value[:idx]
	}
	return parseClock(strings.TrimSpace(value))
}

func parseClock(value string) (float64, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	total := hours*3600 + minutes*60 + seconds
	if total <= 0 {
		return 0, false
	}
	return total, true
}

// parseOutTime extracts the processed position in seconds from the progress
// stream. ffmpeg reports out_time_us and out_time_ms, both in microseconds.
func parseOutTime(line string) (float64, bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return 0, false
	}
	switch key {
	case "out_time_us", "out_time_ms":
		micros, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || micros < 0 {
			return 0, false
		}
		return float64(micros) / 1e6, true
	case "out_time":
		return parseClock(strings.TrimSpace(value))
	default:
		return 0, false
	}
}
