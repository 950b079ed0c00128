package backend

import "mediaconv/internal/media"

// Kind identifies which execution path drives a conversion. The choice is
// made once per session and never changes mid-conversion.
type Kind string

const (
	KindNative       Kind = "native"
	KindExternalTool Kind = "external-tool"
)

// Choose picks the backend for a source file: the external tool handles the
// legacy container, everything else goes to the native engine.
func Choose(sourcePath string) Kind {
	if media.IsLegacySource(sourcePath) {
		return KindExternalTool
	}
	return KindNative
}
