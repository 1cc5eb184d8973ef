package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/oukeidos/subburn/internal/present"
	"github.com/oukeidos/subburn/internal/render"
)

// progressView draws the model's progress as a terminal bar. An unknown
// duration turns the bar into a spinner.
type progressView struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressView(w io.Writer, model *present.Model) *progressView {
	total := model.ProgressMax
	if total <= 0 {
		total = -1
	}
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(model.Status),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(total > 0),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionUseANSICodes(writerIsTerminal(w)),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &progressView{w: w, bar: bar}
}

func (v *progressView) update(model *present.Model) {
	_ = v.bar.Set64(model.ProgressValue)
}

func (v *progressView) finish(outcome render.Outcome) {
	if outcome.Succeeded() {
		_ = v.bar.Finish()
	} else {
		_ = v.bar.Exit()
	}
	fmt.Fprintln(v.w)
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}
