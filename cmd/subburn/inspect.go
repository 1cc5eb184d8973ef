package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oukeidos/subburn/internal/apperrors"
	"github.com/oukeidos/subburn/internal/probe"
	"github.com/oukeidos/subburn/internal/subtitle"
)

func newInspectCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <video.mp4> [subtitle.ass]",
		Short: "Show video duration and subtitle statistics",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, global)
		},
		SilenceUsage: true,
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}

func runInspect(cmd *cobra.Command, args []string, global *globalOptions) error {
	cfg, err := loadConfig(cmd, global, nil)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	videoRows := [][2]string{{"Path", args[0]}}
	var videoLength time.Duration
	if d, err := probe.Duration(args[0]); err != nil {
		kind, _ := apperrors.KindOf(err)
		videoRows = append(videoRows, [2]string{"Duration", "unknown (" + string(kind) + ")"})
		videoRows = append(videoRows, [2]string{"Reason", apperrors.PublicMessage(err)})
	} else {
		videoLength = time.Duration(d)
		videoRows = append(videoRows, [2]string{"Duration", subtitle.FormatTimestamp(videoLength)})
		videoRows = append(videoRows, [2]string{"Progress range", strconv.FormatInt(d.Seconds(), 10) + " s"})
	}
	fmt.Fprintln(out, renderTable("Video", videoRows))

	if len(args) < 2 {
		return nil
	}
	sum, err := subtitle.Inspect(args[1])
	if err != nil {
		return err
	}
	subRows := [][2]string{
		{"Path", sum.Path},
		{"Format", sum.Format},
		{"Events", strconv.Itoa(sum.Events)},
		{"Blank events", strconv.Itoa(sum.Blank)},
		{"Styles", strings.Join(sum.Styles, ", ")},
		{"First start", subtitle.FormatTimestamp(sum.FirstStart)},
		{"Last end", subtitle.FormatTimestamp(sum.LastEnd)},
	}
	var warnings []string
	if !subtitle.Burnable(sum.Path) {
		warnings = append(warnings, "not an .ass/.ssa file; convert it before rendering")
	}
	if err := sum.Validate(); err != nil {
		warnings = append(warnings, err.Error())
	}
	if sum.Overruns(videoLength) {
		warnings = append(warnings, "last subtitle ends after the video")
	}
	if len(warnings) > 0 {
		subRows = append(subRows, [2]string{"Warnings", strings.Join(warnings, "\n")})
	}
	fmt.Fprintln(out, renderTable("Subtitle", subRows))
	return nil
}
