package main

import (
	"fmt"
	"runtime/debug"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/subburn/internal/version"
)

func (a *burnApp) showAbout() {
	info := widget.NewForm(
		widget.NewFormItem("App", widget.NewLabel("subburn")),
		widget.NewFormItem("Version", widget.NewLabel(version.Version)),
		widget.NewFormItem("Commit", widget.NewLabel(version.Commit)),
		widget.NewFormItem("Build", widget.NewLabel(version.BuildDate)),
		widget.NewFormItem("Encoder", widget.NewLabel(a.settings.FFmpeg)),
	)
	components := widget.NewButton("View Components", func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			dialog.ShowInformation("Components", "Build information is not available.", a.window)
			return
		}
		showTextDialog(a.window, "Components", componentsText(bi))
	})
	d := dialog.NewCustom("About", "Close", container.NewVBox(info, components), a.window)
	d.Show()
}

// componentsText lists the modules compiled into the binary.
func componentsText(bi *debug.BuildInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", bi.Main.Path, bi.GoVersion)
	for _, dep := range bi.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}
		fmt.Fprintf(&b, "%s %s\n", dep.Path, dep.Version)
	}
	return b.String()
}

func showTextDialog(w fyne.Window, title, text string) {
	entry := widget.NewMultiLineEntry()
	entry.SetText(text)
	entry.Wrapping = fyne.TextWrapOff
	entry.Disable()
	scroll := container.NewScroll(entry)
	scroll.SetMinSize(fyne.NewSize(640, 420))
	d := dialog.NewCustom(title, "Close", scroll, w)
	d.Show()
}
