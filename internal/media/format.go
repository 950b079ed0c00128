package media

import "strings"

// Kind partitions inputs into the two convertible media classes.
type Kind string

const (
	KindVideo   Kind = "video"
	KindAudio   Kind = "audio"
	KindUnknown Kind = "unknown"
)

// Format identifies an output container or audio format.
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatMOV  Format = "mov"
	FormatM4V  Format = "m4v"
	FormatM4A  Format = "m4a"
	FormatAAC  Format = "aac"
	FormatWAV  Format = "wav"
	FormatAIFF Format = "aiff"
	FormatCAF  Format = "caf"
)

var videoTargets = []Format{FormatMP4, FormatMOV, FormatM4V}

var audioTargets = []Format{FormatM4A, FormatAAC, FormatWAV, FormatAIFF, FormatCAF}

var formatKinds = map[Format]Kind{
	FormatMP4:  KindVideo,
	FormatMOV:  KindVideo,
	FormatM4V:  KindVideo,
	FormatM4A:  KindAudio,
	FormatAAC:  KindAudio,
	FormatWAV:  KindAudio,
	FormatAIFF: KindAudio,
	FormatCAF:  KindAudio,
}

// ParseFormat converts a string into a known target format.
func ParseFormat(value string) (Format, bool) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	_, ok := formatKinds[normalized]
	return normalized, ok
}

// Kind returns the media class a format belongs to.
func (f Format) Kind() Kind {
	if kind, ok := formatKinds[f]; ok {
		return kind
	}
	return KindUnknown
}

// Extension returns the file extension for a format, without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

// IsCompressedAudio reports whether a format uses a lossy audio encoder. The
// uncompressed formats have no true compressed preset on the native backend,
// so compression intent for them degrades to the lossy-then-lossless chain.
func (f Format) IsCompressedAudio() bool {
	return f == FormatM4A || f == FormatAAC
}

// LegalTargets returns the fixed target formats for a media kind. Unknown
// inputs have no legal targets.
func LegalTargets(kind Kind) []Format {
	switch kind {
	case KindVideo:
		return append([]Format(nil), videoTargets...)
	case KindAudio:
		return append([]Format(nil), audioTargets...)
	default:
		return nil
	}
}

// TargetAllowed reports whether a target format is legal for the classified kind.
func TargetAllowed(kind Kind, target Format) bool {
	return target.Kind() == kind && kind != KindUnknown
}
