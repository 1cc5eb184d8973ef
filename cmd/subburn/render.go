package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oukeidos/subburn/internal/cleanup"
	"github.com/oukeidos/subburn/internal/config"
	"github.com/oukeidos/subburn/internal/ffmpeg"
	"github.com/oukeidos/subburn/internal/files"
	"github.com/oukeidos/subburn/internal/logger"
	"github.com/oukeidos/subburn/internal/present"
	"github.com/oukeidos/subburn/internal/probe"
	"github.com/oukeidos/subburn/internal/render"
	"github.com/oukeidos/subburn/internal/selection"
	"github.com/oukeidos/subburn/internal/subtitle"
)

// renderSpawner starts ffmpeg. Tests swap it for a fake.
var renderSpawner ffmpeg.Spawner = ffmpeg.ExecSpawner{}

type renderOptions struct {
	ffmpegPath   string
	crf          int
	preset       string
	codec        string
	pollInterval time.Duration
	yes          bool
	rename       bool
	keepPartial  bool
}

func newRenderCmd(global *globalOptions) *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <video.mp4> <subtitle.ass> <output[.mp4]>",
		Short: "Burn subtitles into a video",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, global, &opts)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addRenderFlags(cmd, &opts)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, opts *renderOptions) {
	cmd.Flags().StringVar(&opts.ffmpegPath, "ffmpeg", ffmpeg.DefaultBinary, "ffmpeg executable name or path")
	cmd.Flags().IntVar(&opts.crf, "crf", ffmpeg.DefaultCRF, "Constant rate factor (1-51, lower is better)")
	cmd.Flags().StringVar(&opts.preset, "preset", ffmpeg.DefaultPreset, "x264 preset ("+strings.Join(config.ValidPresets(), ", ")+")")
	cmd.Flags().StringVar(&opts.codec, "codec", ffmpeg.DefaultVideoCodec, "Video encoder")
	cmd.Flags().DurationVar(&opts.pollInterval, "poll-interval", 100*time.Millisecond, "Progress refresh interval")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Overwrite output file without asking")
	cmd.Flags().BoolVar(&opts.rename, "rename", false, "Write to a new name if the output exists")
	cmd.Flags().BoolVar(&opts.keepPartial, "keep-partial", false, "Keep the output of a failed or cancelled render")
}

// applyTo copies flags the user set explicitly over the config file values.
func (o *renderOptions) applyTo(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("ffmpeg") {
		cfg.FFmpeg.Binary = o.ffmpegPath
	}
	if flags.Changed("crf") {
		cfg.FFmpeg.CRF = o.crf
	}
	if flags.Changed("preset") {
		cfg.FFmpeg.Preset = strings.ToLower(strings.TrimSpace(o.preset))
	}
	if flags.Changed("codec") {
		cfg.FFmpeg.VideoCodec = o.codec
	}
	if flags.Changed("poll-interval") {
		cfg.UI.PollIntervalMS = int(o.pollInterval / time.Millisecond)
	}
}

func (o *renderOptions) outputPolicy() files.OutputPolicy {
	switch {
	case o.yes:
		return files.OverwriteExisting
	case o.rename:
		return files.RenameExisting
	default:
		return files.RefuseExisting
	}
}

func runRender(cmd *cobra.Command, args []string, global *globalOptions, opts *renderOptions) error {
	if len(args) != 3 {
		_ = cmd.Usage()
		return fmt.Errorf("expected <video> <subtitle> <output>, got %d argument(s)", len(args))
	}
	if opts.yes && opts.rename {
		return fmt.Errorf("--yes and --rename cannot be combined")
	}

	cfg, err := loadConfig(cmd, global, opts)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	sel := selection.Selection{Video: args[0], Subtitle: args[1], Output: args[2]}
	if missing := sel.Missing(); len(missing) > 0 {
		return fmt.Errorf("missing %s path", strings.Join(missing, ", "))
	}
	sel.Output = selection.EnsureExtension(sel.Output, selection.ContainerExt)
	if err := checkInputs(sel); err != nil {
		return err
	}

	output, err := files.ResolveOutput(sel.Output, opts.outputPolicy())
	if err != nil {
		if errors.Is(err, files.ErrOutputExists) {
			return fmt.Errorf("%w (use --yes to overwrite or --rename)", err)
		}
		return err
	}
	if output != sel.Output {
		logger.Info("Output exists; writing to a new name", "output", output)
	}
	sel.Output = output

	lock, err := files.LockOutput(sel.Output)
	if err != nil {
		return err
	}
	cleanup.Register("output lock", lock.Release)

	model := present.NewModel()
	model.SetSelection(sel)
	if d, err := probe.Duration(sel.Video); err != nil {
		logger.Warn("Video duration unknown; progress will be unbounded", "video", sel.Video, "error", err)
		model.SetProbeError(err)
	} else {
		logger.Info("Video duration", "video", sel.Video, "duration", d.String())
		model.SetDuration(d)
	}

	ctx, stop := signalContext()
	defer stop()

	ctrl := render.NewController(render.Options{
		Binary:   cfg.FFmpeg.Binary,
		Encoding: cfg.Encoding(),
		Spawner:  renderSpawner,
		Logger:   logger.L(),
	})
	h, err := ctrl.Start(ctx, sel)
	if err != nil {
		model.Fail(err)
		return err
	}
	model.Begin(h.OutputPath())

	view := newProgressView(cmd.ErrOrStderr(), model)
	outcome := watch(ctrl, h, model, view, cfg.PollInterval())
	fmt.Fprintln(cmd.OutOrStdout(), model.Status)

	if !outcome.Succeeded() && !opts.keepPartial {
		removePartial(h.OutputPath())
	}
	return outcomeError(outcome, h.OutputPath())
}

// checkInputs catches obvious path mistakes before ffmpeg is started.
func checkInputs(sel selection.Selection) error {
	for _, p := range []string{sel.Video, sel.Subtitle} {
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("input not readable: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("input %s is a directory", p)
		}
	}
	if !selection.HasExtension(sel.Video, selection.ContainerExt) {
		logger.Warn("Video is not an .mp4 file; duration will be unknown", "video", sel.Video)
	}
	if !subtitle.Burnable(sel.Subtitle) {
		return fmt.Errorf("unsupported subtitle %q (the ass filter needs .ass or .ssa)", sel.Subtitle)
	}
	return nil
}

// watch polls the job on every tick until Done and returns its outcome.
func watch(ctrl *render.Controller, h *render.Handle, model *present.Model, view *progressView, every time.Duration) render.Outcome {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		for {
			event, ok := ctrl.Poll(h)
			if !ok {
				break
			}
			model.Apply(event)
			if event.IsDone() {
				view.finish(event.Outcome)
				return event.Outcome
			}
		}
		view.update(model)
	}
	return render.Outcome{}
}

func outcomeError(outcome render.Outcome, output string) error {
	switch outcome.Status {
	case render.OutcomeSuccess:
		logger.Info("Render finished", "output", output)
		return nil
	case render.OutcomeCancelled:
		logger.Warn("Render cancelled", "output", output)
		return nil
	default:
		if last := lastLine(outcome.Detail); last != "" {
			return fmt.Errorf("ffmpeg exited with code %d: %s", outcome.ExitCode, last)
		}
		return fmt.Errorf("ffmpeg exited with code %d", outcome.ExitCode)
	}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func removePartial(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("Could not remove partial output", "output", path, "error", err)
		return
	}
	logger.Debug("Removed partial output", "output", path)
}
