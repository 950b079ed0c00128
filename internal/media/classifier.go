package media

import (
	"path/filepath"
	"strings"
)

// legacyExtension is the one input container the native backend cannot read.
const legacyExtension = ".avi"

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".m4v": {},
	".avi": {},
}

var audioExtensions = map[string]struct{}{
	".m4a":  {},
	".wav":  {},
	".caf":  {},
	".aac":  {},
	".aiff": {},
}

// Classify determines the media kind of a source file. The declared content
// type wins when present; otherwise the extension allow-list decides. Returns
// KindUnknown when neither check matches, which blocks conversion.
func Classify(path, declaredContentType string) Kind {
	if kind := classifyContentType(declaredContentType); kind != KindUnknown {
		return kind
	}
	return classifyExtension(path)
}

func classifyContentType(contentType string) Kind {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		return KindUnknown
	}
	if base, _, found := strings.Cut(contentType, ";"); found {
		contentType = strings.TrimSpace(base)
	}
	switch {
	case strings.HasPrefix(contentType, "video/"):
		return KindVideo
	case strings.HasPrefix(contentType, "audio/"):
		return KindAudio
	default:
		return KindUnknown
	}
}

func classifyExtension(path string) Kind {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(path)))
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	if _, ok := audioExtensions[ext]; ok {
		return KindAudio
	}
	return KindUnknown
}

// IsLegacySource reports whether the source uses the legacy container that
// must be handled by the external tool backend.
func IsLegacySource(path string) bool {
	return strings.ToLower(filepath.Ext(strings.TrimSpace(path))) == legacyExtension
}
