package main

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/oukeidos/subburn/internal/ffmpeg"
)

func TestLoadPrefsDefaults(t *testing.T) {
	p := test.NewTempApp(t).Preferences()
	got := loadPrefs(p)
	want := guiPrefs{
		FFmpeg: ffmpeg.DefaultBinary,
		CRF:    ffmpeg.DefaultCRF,
		Preset: ffmpeg.DefaultPreset,
		Codec:  ffmpeg.DefaultVideoCodec,
	}
	if got != want {
		t.Fatalf("loadPrefs() = %+v, want %+v", got, want)
	}
}

func TestLoadPrefsRepairsStoredValues(t *testing.T) {
	p := test.NewTempApp(t).Preferences()
	p.SetInt(prefCRF, 90)
	p.SetString(prefPreset, "Turbo")
	p.SetString(prefCodec, "  ")
	p.SetString(prefVideoDir, filepath.Join(t.TempDir(), "gone"))

	got := loadPrefs(p)
	if got.CRF != maxCRF {
		t.Fatalf("CRF = %d, want %d", got.CRF, maxCRF)
	}
	if got.Preset != ffmpeg.DefaultPreset || got.Codec != ffmpeg.DefaultVideoCodec {
		t.Fatalf("preset/codec not reset: %+v", got)
	}
	if got.VideoDir != "" {
		t.Fatalf("missing directory kept: %q", got.VideoDir)
	}
	if p.Int(prefCRF) != maxCRF {
		t.Fatalf("repaired CRF not written back: %d", p.Int(prefCRF))
	}
}

func TestPrefsSaveAndReload(t *testing.T) {
	p := test.NewTempApp(t).Preferences()
	dir := t.TempDir()
	in := guiPrefs{
		VideoDir: dir,
		FFmpeg:   "/opt/ffmpeg/bin/ffmpeg",
		CRF:      23,
		Preset:   "veryfast",
		Codec:    "libx265",
	}
	savePrefs(p, in)
	if got := loadPrefs(p); got != in {
		t.Fatalf("reloaded %+v, want %+v", got, in)
	}
}

func TestDirForFallsBackToVideoDir(t *testing.T) {
	var p guiPrefs
	p.remember(prefVideoDir, "/media/show/ep1.mp4")
	if got := p.dirFor(prefSubtitleDir); got != "/media/show" {
		t.Fatalf("subtitle dir = %q", got)
	}
	if got := p.dirFor(prefOutputDir); got != "/media/show" {
		t.Fatalf("output dir = %q", got)
	}
	p.remember(prefOutputDir, "/exports/out.mp4")
	if got := p.dirFor(prefOutputDir); got != "/exports" {
		t.Fatalf("output dir = %q", got)
	}
}

func TestControllerOptions(t *testing.T) {
	p := guiPrefs{FFmpeg: "ffmpeg", CRF: 20, Preset: "fast", Codec: "libx264"}
	opts := p.controllerOptions()
	if opts.Binary != "ffmpeg" {
		t.Fatalf("Binary = %q", opts.Binary)
	}
	if opts.Encoding != (ffmpeg.Encoding{CRF: 20, Preset: "fast", VideoCodec: "libx264"}) {
		t.Fatalf("Encoding = %+v", opts.Encoding)
	}
}
