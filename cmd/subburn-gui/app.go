package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/subburn/internal/apperrors"
	"github.com/oukeidos/subburn/internal/ffmpeg"
	"github.com/oukeidos/subburn/internal/logger"
	"github.com/oukeidos/subburn/internal/present"
	"github.com/oukeidos/subburn/internal/probe"
	"github.com/oukeidos/subburn/internal/render"
	"github.com/oukeidos/subburn/internal/selection"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	closeGrace          = 5 * time.Second
)

// scheduleFunc calls fn every interval until the returned stop is called.
type scheduleFunc func(every time.Duration, fn func()) (stop func())

// burnApp is the window state. Apart from the atomics, every field belongs
// to the fyne main goroutine.
type burnApp struct {
	window   fyne.Window
	prefs    fyne.Preferences
	settings guiPrefs

	registry *selection.Registry
	model    *present.Model
	spawner  ffmpeg.Spawner
	ctrl     *render.Controller
	active   atomic.Pointer[render.Handle]

	schedule  scheduleFunc
	pollEvery time.Duration
	stopPoll  func()
	probeSeq  uint64

	// chooseOutput asks for an output path and calls onChosen with it.
	chooseOutput func(onChosen func(path string))

	videoLabel    *widget.Label
	subtitleLabel *widget.Label
	outputLabel   *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	progress      *widget.ProgressBar
	progressInf   *widget.ProgressBarInfinite
	videoBtn      *widget.Button
	subtitleBtn   *widget.Button
	outputBtn     *widget.Button
	settingsBtn   *widget.Button
	renderBtn     *widget.Button
	cancelBtn     *widget.Button

	panicNoticeOnce sync.Once
}

func newBurnApp(w fyne.Window, prefs fyne.Preferences) *burnApp {
	a := &burnApp{
		window:    w,
		prefs:     prefs,
		settings:  loadPrefs(prefs),
		registry:  selection.NewRegistry(),
		model:     present.NewModel(),
		schedule:  tickerSchedule,
		pollEvery: defaultPollInterval,
	}
	a.chooseOutput = a.showSaveDialog
	a.rebuildController()
	a.setupUI()
	a.syncView()
	return a
}

func tickerSchedule(every time.Duration, fn func()) func() {
	ticker := time.NewTicker(every)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}

func (a *burnApp) rebuildController() {
	opts := a.settings.controllerOptions()
	opts.Spawner = a.spawner
	a.ctrl = render.NewController(opts)
}

func (a *burnApp) setupUI() {
	a.videoLabel = widget.NewLabel("")
	a.subtitleLabel = widget.NewLabel("")
	a.outputLabel = widget.NewLabel("")
	a.statusLabel = widget.NewLabel("")
	a.statusLabel.Wrapping = fyne.TextWrapWord
	a.progressLabel = widget.NewLabel("")
	a.progress = widget.NewProgressBar()
	a.progressInf = widget.NewProgressBarInfinite()

	a.videoBtn = widget.NewButton("Browse...", a.pickVideo)
	a.subtitleBtn = widget.NewButton("Browse...", a.pickSubtitle)
	a.outputBtn = widget.NewButton("Save As...", a.pickOutput)
	a.settingsBtn = widget.NewButton("Settings", a.showSettings)
	a.cancelBtn = widget.NewButton("Cancel", a.requestCancel)
	a.renderBtn = widget.NewButton(present.TriggerIdle, a.startRender)
	a.renderBtn.Importance = widget.HighImportance

	form := widget.NewForm(
		widget.NewFormItem("Video", container.NewBorder(nil, nil, nil, a.videoBtn, a.videoLabel)),
		widget.NewFormItem("Subtitle", container.NewBorder(nil, nil, nil, a.subtitleBtn, a.subtitleLabel)),
		widget.NewFormItem("Output", container.NewBorder(nil, nil, nil, a.outputBtn, a.outputLabel)),
	)
	actions := container.NewHBox(a.settingsBtn, layout.NewSpacer(), a.cancelBtn, a.renderBtn)

	a.window.SetContent(container.NewPadded(container.NewVBox(
		form,
		widget.NewSeparator(),
		a.progress,
		a.progressInf,
		a.progressLabel,
		a.statusLabel,
		layout.NewSpacer(),
		actions,
	)))
	a.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open Video...", a.pickVideo),
			fyne.NewMenuItem("Open Subtitle...", a.pickSubtitle),
			fyne.NewMenuItem("Settings...", a.showSettings),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("About", a.showAbout),
		),
	))
}

// syncView copies the model into the widgets.
func (a *burnApp) syncView() {
	m := a.model
	a.videoLabel.SetText(m.VideoLabel)
	a.subtitleLabel.SetText(m.SubtitleLabel)
	a.outputLabel.SetText(m.OutputLabel)
	a.statusLabel.SetText(m.Status)
	a.renderBtn.SetText(m.TriggerText)
	setEnabled(a.renderBtn, m.TriggerEnabled)
	setEnabled(a.cancelBtn, m.CancelEnabled)

	idle := !m.Running()
	setEnabled(a.videoBtn, idle)
	setEnabled(a.subtitleBtn, idle)
	setEnabled(a.outputBtn, idle)
	setEnabled(a.settingsBtn, idle)

	if !m.ProgressVisible {
		a.progress.Hide()
		a.progressInf.Stop()
		a.progressInf.Hide()
		a.progressLabel.Hide()
		return
	}
	if m.ProgressMax > 0 {
		a.progressInf.Stop()
		a.progressInf.Hide()
		a.progress.Max = float64(m.ProgressMax)
		a.progress.SetValue(float64(m.ProgressValue))
		a.progress.Show()
		a.progressLabel.SetText(fmt.Sprintf("%d / %d s", m.ProgressValue, m.ProgressMax))
	} else {
		a.progress.Hide()
		a.progressInf.Show()
		a.progressInf.Start()
		a.progressLabel.SetText(fmt.Sprintf("%d s", m.ProgressValue))
	}
	a.progressLabel.Show()
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}

func (a *burnApp) pickVideo() {
	a.openFile(prefVideoDir, []string{".mp4"}, a.selectVideo)
}

func (a *burnApp) pickSubtitle() {
	a.openFile(prefSubtitleDir, []string{".ass"}, a.selectSubtitle)
}

func (a *burnApp) openFile(kind string, exts []string, onPick func(string)) {
	fd := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()
		a.rememberDir(kind, path)
		onPick(path)
	}, a.window)
	fd.SetFilter(storage.NewExtensionFileFilter(exts))
	a.startIn(fd, kind)
	fd.Resize(fyne.NewSize(900, 640))
	fd.Show()
}

func (a *burnApp) pickOutput() {
	a.chooseOutput(a.selectOutput)
}

func (a *burnApp) showSaveDialog(onChosen func(path string)) {
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()
		if selection.EnsureExtension(path, selection.ContainerExt) != path {
			discardPlaceholder(path)
		}
		a.rememberDir(prefOutputDir, path)
		onChosen(path)
	}, a.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{selection.ContainerExt}))
	fd.SetFileName(suggestedOutputName(a.registry.Video()))
	a.startIn(fd, prefOutputDir)
	fd.Resize(fyne.NewSize(900, 640))
	fd.Show()
}

func (a *burnApp) startIn(fd *dialog.FileDialog, kind string) {
	dir := a.settings.dirFor(kind)
	if dir == "" {
		return
	}
	if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
		fd.SetLocation(lister)
	}
}

func (a *burnApp) rememberDir(kind, path string) {
	a.settings.remember(kind, path)
	savePrefs(a.prefs, a.settings)
}

// discardPlaceholder removes the empty file the save dialog creates when the
// chosen name lacks the container extension and ffmpeg writes elsewhere.
func discardPlaceholder(path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() != 0 {
		return
	}
	if err := os.Remove(path); err != nil {
		logger.Warn("Failed to remove placeholder file", "path", path, "error", err)
	}
}

func suggestedOutputName(video string) string {
	if video == "" {
		return "output" + selection.ContainerExt
	}
	base := strings.TrimSuffix(filepath.Base(video), filepath.Ext(video))
	return base + "_subbed" + selection.ContainerExt
}

func (a *burnApp) handleDropped(uris []fyne.URI) {
	if a.model.Running() {
		return
	}
	for _, u := range uris {
		path := u.Path()
		switch {
		case selection.HasExtension(path, selection.ContainerExt):
			a.rememberDir(prefVideoDir, path)
			a.selectVideo(path)
		case selection.HasExtension(path, selection.SubtitleExt), selection.HasExtension(path, ".ssa"):
			a.rememberDir(prefSubtitleDir, path)
			a.selectSubtitle(path)
		default:
			logger.Warn("Ignoring dropped file", "path", path)
		}
	}
}

func (a *burnApp) selectVideo(path string) {
	a.setVideo(path)
	a.probeAsync(path)
}

func (a *burnApp) setVideo(path string) {
	a.registry.SetVideo(path)
	a.model.ProgressMax = 0
	a.model.SetSelection(a.registry.Snapshot())
	a.syncView()
}

func (a *burnApp) selectSubtitle(path string) {
	a.registry.SetSubtitle(path)
	a.model.SetSelection(a.registry.Snapshot())
	a.syncView()
}

func (a *burnApp) selectOutput(path string) {
	a.registry.SetOutput(path)
	a.model.SetSelection(a.registry.Snapshot())
	a.syncView()
}

// probeAsync reads the duration off the UI goroutine. Only the result for
// the latest selected video is applied.
func (a *burnApp) probeAsync(path string) {
	a.probeSeq++
	seq := a.probeSeq
	a.safeGo("probe", func() {
		d, err := probe.Duration(path)
		a.safeDo("probe.apply", func() {
			a.applyProbe(seq, path, d, err)
		})
	})
}

func (a *burnApp) applyProbe(seq uint64, path string, d probe.MediaDuration, err error) {
	if seq != a.probeSeq {
		return
	}
	if err != nil {
		logger.Warn("Duration probe failed", "path", path, "error", err)
		a.model.SetProbeError(err)
	} else {
		logger.Info("Video probed", "path", path, "duration_ms", d.Milliseconds())
		a.model.SetDuration(d)
	}
	a.syncView()
}

// startRender asks for the output path first when none is chosen yet and
// starts the job once it is confirmed.
func (a *burnApp) startRender() {
	if strings.TrimSpace(a.registry.Output()) != "" {
		a.beginRender()
		return
	}
	a.chooseOutput(func(path string) {
		a.selectOutput(path)
		a.beginRender()
	})
}

func (a *burnApp) beginRender() {
	h, err := a.ctrl.Start(context.Background(), a.registry.Snapshot())
	if err != nil {
		logger.Error("Render did not start", "error", err)
		a.model.Fail(err)
		a.syncView()
		if apperrors.Is(err, apperrors.KindSpawnFailed) {
			dialog.ShowError(errors.New(apperrors.PublicMessage(err)), a.window)
		}
		return
	}
	logger.Info("Render started", "job", h.ID(), "output", h.OutputPath())
	a.active.Store(h)
	a.model.Begin(h.OutputPath())
	a.syncView()
	a.stopPoll = a.schedule(a.pollEvery, func() {
		a.safeDo("render.poll", a.pollEvents)
	})
}

// pollEvents drains the active job's channel into the model.
func (a *burnApp) pollEvents() {
	h := a.active.Load()
	if h == nil {
		return
	}
	for {
		e, ok := h.Poll()
		if !ok {
			break
		}
		a.model.Apply(e)
		if e.IsDone() {
			a.finishRender(h, e.Outcome)
			break
		}
	}
	a.syncView()
}

func (a *burnApp) finishRender(h *render.Handle, outcome render.Outcome) {
	if a.stopPoll != nil {
		a.stopPoll()
		a.stopPoll = nil
	}
	a.active.CompareAndSwap(h, nil)
	logger.Info("Render ended", "job", h.ID(), "outcome", outcome.String())

	switch outcome.Status {
	case render.OutcomeSuccess:
		fyne.CurrentApp().SendNotification(&fyne.Notification{
			Title:   "Render finished",
			Content: filepath.Base(h.OutputPath()),
		})
	case render.OutcomeFailed:
		msg := a.model.Status
		if detail := strings.TrimSpace(outcome.Detail); detail != "" {
			msg += "\n\n" + detail
		}
		dialog.ShowInformation("Render Failed", msg, a.window)
	}
}

func (a *burnApp) requestCancel() {
	a.cancelActive("cancel button")
	if a.model.Running() {
		a.model.CancelEnabled = false
		a.model.Status = "Cancelling..."
		a.syncView()
	}
}

// cancelActive may be called from any goroutine.
func (a *burnApp) cancelActive(reason string) {
	h := a.active.Load()
	if h == nil {
		return
	}
	logger.Warn("Cancellation requested", "reason", reason, "job", h.ID())
	h.Cancel()
}

// closeWindow cancels a running render and waits briefly for ffmpeg to exit
// before closing.
func (a *burnApp) closeWindow() {
	h := a.active.Load()
	if h == nil {
		a.window.SetCloseIntercept(nil)
		a.window.Close()
		return
	}
	a.cancelActive("window closed")
	a.safeGo("window.close", func() {
		select {
		case <-h.Finished():
		case <-time.After(closeGrace):
			logger.Warn("ffmpeg did not exit before close", "job", h.ID())
		}
		fyne.Do(func() {
			a.window.SetCloseIntercept(nil)
			a.window.Close()
		})
	})
}

// checkFFmpeg reports a missing encoder in the status line at startup.
func (a *burnApp) checkFFmpeg() {
	binary := a.settings.controllerOptions().Binary
	if _, err := exec.LookPath(binary); err != nil {
		logger.Warn("ffmpeg not found", "binary", binary, "error", err)
		a.model.Status = fmt.Sprintf("ffmpeg not found (%s). Set its path in Settings.", binary)
		a.syncView()
	}
}
