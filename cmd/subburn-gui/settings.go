package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/subburn/internal/config"
	"github.com/oukeidos/subburn/internal/logger"
)

func (a *burnApp) showSettings() {
	if a.model.Running() {
		return
	}
	binary := widget.NewEntry()
	binary.SetText(a.settings.FFmpeg)
	crf := widget.NewEntry()
	crf.SetText(strconv.Itoa(a.settings.CRF))
	crf.Validator = validateCRF
	preset := widget.NewSelect(config.ValidPresets(), nil)
	preset.SetSelected(a.settings.Preset)
	codec := widget.NewEntry()
	codec.SetText(a.settings.Codec)

	binaryItem := widget.NewFormItem("ffmpeg", binary)
	binaryItem.HintText = "Command name or full path"
	crfItem := widget.NewFormItem("CRF", crf)
	crfItem.HintText = fmt.Sprintf("%d (best) to %d (smallest)", minCRF, maxCRF)

	items := []*widget.FormItem{
		binaryItem,
		crfItem,
		widget.NewFormItem("Preset", preset),
		widget.NewFormItem("Video codec", codec),
	}
	dialog.ShowForm("Encoder Settings", "Save", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		next := a.settings
		next.FFmpeg = binary.Text
		next.CRF, _ = strconv.Atoi(strings.TrimSpace(crf.Text))
		next.Preset = preset.Selected
		next.Codec = codec.Text
		a.applySettings(next)
	}, a.window)
}

// applySettings stores new encoder settings and swaps the controller. It is
// a no-op while a render is running.
func (a *burnApp) applySettings(next guiPrefs) {
	if a.model.Running() {
		return
	}
	a.settings = next.normalized()
	savePrefs(a.prefs, a.settings)
	a.rebuildController()
	logger.Info("Encoder settings saved",
		"ffmpeg", a.settings.FFmpeg, "crf", a.settings.CRF,
		"preset", a.settings.Preset, "codec", a.settings.Codec)
}

func validateCRF(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("CRF must be a whole number")
	}
	if n < minCRF || n > maxCRF {
		return fmt.Errorf("CRF must be between %d and %d", minCRF, maxCRF)
	}
	return nil
}
