package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediaconv/internal/media"
)

func newFormatsCommand(ctx *commandContext) *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:         "formats [source]",
		Short:       "Show media classification and legal target formats",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				rows := [][]string{
					{string(media.KindVideo), joinFormats(media.LegalTargets(media.KindVideo))},
					{string(media.KindAudio), joinFormats(media.LegalTargets(media.KindAudio))},
				}
				fmt.Fprintln(out, renderTable([]string{"Kind", "Targets"}, rows))
				return nil
			}

			source := args[0]
			kind := media.Classify(source, contentType)
			if kind == media.KindUnknown {
				return fmt.Errorf("%s is not a recognized media file", source)
			}
			fmt.Fprintf(out, "%s classifies as %s\n", source, kind)
			if media.IsLegacySource(source) {
				fmt.Fprintln(out, "Legacy container: conversions use the external transcoder")
			}
			fmt.Fprintf(out, "Legal targets: %s\n", joinFormats(media.LegalTargets(kind)))
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "Declared content type of the source (optional)")
	return cmd
}

func joinFormats(formats []media.Format) string {
	names := make([]string, 0, len(formats))
	for _, format := range formats {
		names = append(names, string(format))
	}
	return strings.Join(names, ", ")
}
