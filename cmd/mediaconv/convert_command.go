package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mediaconv/internal/conversion"
	"mediaconv/internal/media"
	"mediaconv/internal/presets"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		targetFlag   string
		compressFlag bool
		qualityFlag  string
		contentType  string
	)

	cmd := &cobra.Command{
		Use:   "convert <source>",
		Short: "Convert a media file to another container or format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, ok := media.ParseFormat(targetFlag)
			if !ok {
				return fmt.Errorf("unknown target format %q", targetFlag)
			}
			quality := presets.QualityPassthrough
			if qualityFlag != "" {
				parsed, ok := presets.ParseQuality(qualityFlag)
				if !ok {
					return fmt.Errorf("unknown quality %q (passthrough, high, medium, low)", qualityFlag)
				}
				quality = parsed
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			eng, err := ctx.buildEngine(logger)
			if err != nil {
				return err
			}
			defer eng.Close()

			return runConversion(cmd, eng.orchestrator, conversion.Request{
				SourcePath:          args[0],
				DeclaredContentType: contentType,
				Target:              target,
				Compress:            compressFlag,
				Quality:             quality,
			})
		},
	}

	cmd.Flags().StringVarP(&targetFlag, "to", "t", "", "Target format (mp4, mov, m4v, m4a, aac, wav, aiff, caf)")
	cmd.Flags().BoolVar(&compressFlag, "compress", false, "Re-encode with lossy compression")
	cmd.Flags().StringVarP(&qualityFlag, "quality", "q", "", "Compression quality (only with --compress)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "Declared content type of the source (optional)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func runConversion(cmd *cobra.Command, orchestrator *conversion.Orchestrator, req conversion.Request) error {
	runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := orchestrator.Submit(runCtx, req)
	if err != nil {
		return err
	}

	// A second interrupt kills the process; the first requests a graceful
	// cancel of the native export.
	go func() {
		<-runCtx.Done()
		orchestrator.Cancel()
	}()

	out := cmd.OutOrStdout()
	interactive := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	var (
		runErr   error
		terminal bool
	)
	lastShown := -1
	for event := range session.Events {
		switch event.Type {
		case conversion.EventProgress:
			percent := int(event.Fraction * 100)
			if interactive {
				fmt.Fprintf(out, "\rConverting... %3d%%", percent)
			} else if percent/10 > lastShown/10 {
				fmt.Fprintf(out, "progress %d%%\n", percent)
			}
			lastShown = percent
			continue
		}
		if interactive && lastShown >= 0 {
			fmt.Fprintln(out)
		}
		terminal = true
		switch event.Type {
		case conversion.EventSucceeded:
			fmt.Fprintf(out, "Converted to %s\n", event.Destination)
		case conversion.EventCancelled:
			fmt.Fprintln(out, "Conversion cancelled")
		case conversion.EventFailed:
			runErr = event.Err
		}
	}

	// The terminal event only seals the outcome; the history row and
	// completion side effects finish afterwards. Exiting before Done loses
	// them.
	<-session.Done()

	if !terminal {
		return errors.New("event stream ended without a terminal event")
	}
	return runErr
}
