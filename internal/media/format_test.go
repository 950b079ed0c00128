package media_test

import (
	"testing"

	"mediaconv/internal/media"
)

func TestParseFormat(t *testing.T) {
	format, ok := media.ParseFormat(" MP4 ")
	if !ok || format != media.FormatMP4 {
		t.Fatalf("ParseFormat(MP4) = %v, %v", format, ok)
	}
	if _, ok := media.ParseFormat("ogg"); ok {
		t.Fatal("ogg must not parse")
	}
}

func TestFormatKind(t *testing.T) {
	if media.FormatMOV.Kind() != media.KindVideo {
		t.Fatal("mov must be video")
	}
	if media.FormatCAF.Kind() != media.KindAudio {
		t.Fatal("caf must be audio")
	}
	if media.Format("ogg").Kind() != media.KindUnknown {
		t.Fatal("unknown format must have unknown kind")
	}
}

func TestLegalTargets(t *testing.T) {
	if targets := media.LegalTargets(media.KindVideo); len(targets) != 3 {
		t.Fatalf("video targets = %v", targets)
	}
	if targets := media.LegalTargets(media.KindAudio); len(targets) != 5 {
		t.Fatalf("audio targets = %v", targets)
	}
	if targets := media.LegalTargets(media.KindUnknown); targets != nil {
		t.Fatalf("unknown kind must have no targets, got %v", targets)
	}
}

func TestTargetAllowed(t *testing.T) {
	if !media.TargetAllowed(media.KindVideo, media.FormatM4V) {
		t.Fatal("video to m4v must be allowed")
	}
	if media.TargetAllowed(media.KindAudio, media.FormatMP4) {
		t.Fatal("audio to mp4 must be rejected")
	}
	if media.TargetAllowed(media.KindUnknown, media.FormatMP4) {
		t.Fatal("unknown kind has no legal targets")
	}
}

func TestIsCompressedAudio(t *testing.T) {
	if !media.FormatM4A.IsCompressedAudio() || !media.FormatAAC.IsCompressedAudio() {
		t.Fatal("m4a and aac are compressed audio")
	}
	if media.FormatWAV.IsCompressedAudio() {
		t.Fatal("wav is uncompressed")
	}
}
