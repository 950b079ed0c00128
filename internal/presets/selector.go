package presets

import (
	"strings"

	"mediaconv/internal/media"
)

// Candidate names one encoder configuration for the native backend to attempt.
type Candidate string

const (
	Passthrough     Candidate = "passthrough"
	HighestQuality  Candidate = "highest-quality"
	HighQuality     Candidate = "high-quality"
	MediumQuality   Candidate = "medium-quality"
	LowQuality      Candidate = "low-quality"
	AudioCompressed Candidate = "audio-compressed"
)

// Quality is the caller-selected compression level. It only matters when the
// request asks for compression.
type Quality string

const (
	QualityPassthrough Quality = "passthrough"
	QualityHigh        Quality = "high"
	QualityMedium      Quality = "medium"
	QualityLow         Quality = "low"
)

// ParseQuality converts a string into a known quality level.
func ParseQuality(value string) (Quality, bool) {
	switch Quality(strings.ToLower(strings.TrimSpace(value))) {
	case QualityPassthrough:
		return QualityPassthrough, true
	case QualityHigh:
		return QualityHigh, true
	case QualityMedium:
		return QualityMedium, true
	case QualityLow:
		return QualityLow, true
	default:
		return "", false
	}
}

// Candidates returns the ordered preset candidates for a request. The result
// is non-empty and holds at most three entries; the first candidate the
// engine accepts for the target format wins.
func Candidates(kind media.Kind, target media.Format, compress bool, quality Quality) []Candidate {
	if kind == media.KindVideo {
		if compress {
			return []Candidate{qualityPreset(quality)}
		}
		return []Candidate{Passthrough, HighestQuality}
	}

	// Audio policy. Compressed targets always lead with the lossy encoder;
	// m4a additionally falls back to passthrough when the source track can be
	// remuxed as-is, aac does not (raw ADTS output cannot carry arbitrary
	// source codecs).
	if target.IsCompressedAudio() {
		if compress || target == media.FormatAAC {
			return []Candidate{AudioCompressed}
		}
		return []Candidate{AudioCompressed, Passthrough}
	}
	if compress {
		return []Candidate{AudioCompressed, Passthrough, HighestQuality}
	}
	return []Candidate{Passthrough, HighestQuality}
}

func qualityPreset(quality Quality) Candidate {
	switch quality {
	case QualityHigh:
		return HighQuality
	case QualityMedium:
		return MediumQuality
	case QualityLow:
		return LowQuality
	default:
		return Passthrough
	}
}
