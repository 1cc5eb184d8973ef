package main

import (
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"

	"github.com/oukeidos/subburn/internal/logger"
	"github.com/oukeidos/subburn/internal/version"
)

func main() {
	logger.Init(slog.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	myApp := app.NewWithID("com.oukeidos.subburn")
	myApp.SetIcon(theme.MediaVideoIcon())

	w := myApp.NewWindow("subburn " + version.Short())
	w.SetIcon(theme.MediaVideoIcon())
	w.SetMaster()
	w.Resize(fyne.NewSize(640, 360))
	w.CenterOnScreen()

	a := newBurnApp(w, myApp.Preferences())
	w.SetCloseIntercept(a.closeWindow)
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		a.handleDropped(uris)
	})
	a.checkFFmpeg()

	w.ShowAndRun()
}
