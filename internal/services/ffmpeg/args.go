package ffmpeg

import (
	"fmt"

	"mediaconv/internal/media"
	"mediaconv/internal/presets"
)

// presetFormats is the static support matrix: which target formats each
// preset's argument recipe can produce. Raw ADTS output cannot carry
// arbitrary source codecs, so passthrough never targets bare aac.
var presetFormats = map[presets.Candidate]map[media.Format]bool{
	presets.Passthrough: {
		media.FormatMP4:  true,
		media.FormatMOV:  true,
		media.FormatM4V:  true,
		media.FormatM4A:  true,
		media.FormatWAV:  true,
		media.FormatAIFF: true,
		media.FormatCAF:  true,
	},
	presets.HighestQuality: {
		media.FormatMP4:  true,
		media.FormatMOV:  true,
		media.FormatM4V:  true,
		media.FormatWAV:  true,
		media.FormatAIFF: true,
		media.FormatCAF:  true,
	},
	presets.HighQuality: {
		media.FormatMP4: true,
		media.FormatMOV: true,
		media.FormatM4V: true,
	},
	presets.MediumQuality: {
		media.FormatMP4: true,
		media.FormatMOV: true,
		media.FormatM4V: true,
	},
	presets.LowQuality: {
		media.FormatMP4: true,
		media.FormatMOV: true,
		media.FormatM4V: true,
	},
	presets.AudioCompressed: {
		media.FormatM4A: true,
		media.FormatAAC: true,
	},
}

func supportsFormat(preset presets.Candidate, format media.Format) bool {
	return presetFormats[preset][format]
}

// buildArgs assembles the ffmpeg invocation for one export attempt. The
// progress stream goes to stdout as key=value lines; the header with the
// source duration arrives on stderr.
func buildArgs(source, destination string, format media.Format, preset presets.Candidate) ([]string, error) {
	args := []string{"-hide_banner", "-nostdin", "-y", "-i", source, "-progress", "pipe:1"}

	switch preset {
	case presets.Passthrough:
		args = append(args, "-c", "copy")
	case presets.HighestQuality, presets.HighQuality, presets.MediumQuality, presets.LowQuality:
		if format.Kind() == media.KindVideo {
			args = append(args, videoEncodeArgs(preset)...)
		} else {
			args = append(args, "-vn", "-c:a", pcmCodec(format))
		}
	case presets.AudioCompressed:
		args = append(args, "-vn", "-c:a", "aac", "-b:a", "256k")
	default:
		return nil, fmt.Errorf("unknown preset %q", preset)
	}

	if isMP4Family(format) {
		args = append(args, "-movflags", "+faststart")
	}
	args = append(args, destination)
	return args, nil
}

func videoEncodeArgs(preset presets.Candidate) []string {
	switch preset {
	case presets.HighQuality:
		return []string{"-c:v", "libx264", "-preset", "slow", "-crf", "18", "-c:a", "aac", "-b:a", "192k"}
	case presets.MediumQuality:
		return []string{"-c:v", "libx264", "-preset", "medium", "-crf", "23", "-c:a", "aac", "-b:a", "160k"}
	case presets.LowQuality:
		return []string{"-c:v", "libx264", "-preset", "faster", "-crf", "28", "-c:a", "aac", "-b:a", "128k"}
	default:
		return []string{"-c:v", "libx264", "-preset", "slow", "-crf", "16", "-c:a", "aac", "-b:a", "256k"}
	}
}

func pcmCodec(format media.Format) string {
	if format == media.FormatAIFF {
		return "pcm_s16be"
	}
	return "pcm_s16le"
}

func isMP4Family(format media.Format) bool {
	switch format {
	case media.FormatMP4, media.FormatMOV, media.FormatM4V, media.FormatM4A:
		return true
	default:
		return false
	}
}
