package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mediaconv/internal/conversion"
	"mediaconv/internal/media"
	"mediaconv/internal/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var (
		videoTarget string
		audioTarget string
	)

	cmd := &cobra.Command{
		Use:   "watch <dir> [dir...]",
		Short: "Watch directories and convert media files as they appear",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoFormat, ok := media.ParseFormat(videoTarget)
			if !ok || videoFormat.Kind() != media.KindVideo {
				return fmt.Errorf("invalid video target %q", videoTarget)
			}
			audioFormat, ok := media.ParseFormat(audioTarget)
			if !ok || audioFormat.Kind() != media.KindAudio {
				return fmt.Errorf("invalid audio target %q", audioTarget)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
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

			settle := time.Duration(cfg.Watch.SettleSeconds) * time.Second
			w, err := watcher.New(args, settle, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = w.Run(runCtx, func(handleCtx context.Context, sourcePath string) error {
				target := videoFormat
				if media.Classify(sourcePath, "") == media.KindAudio {
					target = audioFormat
				}
				return convertOnce(handleCtx, eng.orchestrator, conversion.Request{
					SourcePath: sourcePath,
					Target:     target,
				})
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&videoTarget, "video-to", "mp4", "Target format for video sources")
	cmd.Flags().StringVar(&audioTarget, "audio-to", "m4a", "Target format for audio sources")
	return cmd
}

// convertOnce drives a session to its terminal event, discarding progress.
func convertOnce(ctx context.Context, orchestrator *conversion.Orchestrator, req conversion.Request) error {
	session, err := orchestrator.Submit(ctx, req)
	if err != nil {
		return err
	}
	var runErr error
	for event := range session.Events {
		if event.Type == conversion.EventFailed {
			runErr = event.Err
		}
	}
	// The next watched file is submitted only once this session's history row
	// and side effects have settled.
	<-session.Done()
	return runErr
}
