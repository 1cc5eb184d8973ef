package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fyne.io/fyne/v2"

	"github.com/oukeidos/subburn/internal/config"
	"github.com/oukeidos/subburn/internal/ffmpeg"
	"github.com/oukeidos/subburn/internal/logger"
	"github.com/oukeidos/subburn/internal/render"
)

const (
	prefVideoDir    = "LastVideoDir"
	prefSubtitleDir = "LastSubtitleDir"
	prefOutputDir   = "LastOutputDir"
	prefFFmpeg      = "FFmpegBinary"
	prefCRF         = "CRF"
	prefPreset      = "Preset"
	prefCodec       = "VideoCodec"
)

const (
	minCRF = 1
	maxCRF = 51
)

// guiPrefs is what the window remembers between runs.
type guiPrefs struct {
	VideoDir    string
	SubtitleDir string
	OutputDir   string

	FFmpeg string
	CRF    int
	Preset string
	Codec  string
}

func loadPrefs(p fyne.Preferences) guiPrefs {
	prefs := guiPrefs{
		VideoDir:    p.String(prefVideoDir),
		SubtitleDir: p.String(prefSubtitleDir),
		OutputDir:   p.String(prefOutputDir),
		FFmpeg:      p.StringWithFallback(prefFFmpeg, ffmpeg.DefaultBinary),
		CRF:         p.IntWithFallback(prefCRF, ffmpeg.DefaultCRF),
		Preset:      p.StringWithFallback(prefPreset, ffmpeg.DefaultPreset),
		Codec:       p.StringWithFallback(prefCodec, ffmpeg.DefaultVideoCodec),
	}
	normalized := prefs.normalized()
	if normalized != prefs {
		logger.Warn("Stored encoder settings adjusted",
			"crf", prefs.CRF, "effective_crf", normalized.CRF,
			"preset", prefs.Preset, "effective_preset", normalized.Preset)
		savePrefs(p, normalized)
	}
	return normalized
}

func savePrefs(p fyne.Preferences, prefs guiPrefs) {
	p.SetString(prefVideoDir, prefs.VideoDir)
	p.SetString(prefSubtitleDir, prefs.SubtitleDir)
	p.SetString(prefOutputDir, prefs.OutputDir)
	p.SetString(prefFFmpeg, prefs.FFmpeg)
	p.SetInt(prefCRF, prefs.CRF)
	p.SetString(prefPreset, prefs.Preset)
	p.SetString(prefCodec, prefs.Codec)
}

// normalized clamps the encoder settings and forgets directories that no
// longer exist.
func (p guiPrefs) normalized() guiPrefs {
	p.FFmpeg = strings.TrimSpace(p.FFmpeg)
	if p.FFmpeg == "" {
		p.FFmpeg = ffmpeg.DefaultBinary
	}
	if p.CRF < minCRF {
		p.CRF = minCRF
	}
	if p.CRF > maxCRF {
		p.CRF = maxCRF
	}
	p.Preset = strings.ToLower(strings.TrimSpace(p.Preset))
	if !slices.Contains(config.ValidPresets(), p.Preset) {
		p.Preset = ffmpeg.DefaultPreset
	}
	p.Codec = strings.TrimSpace(p.Codec)
	if p.Codec == "" {
		p.Codec = ffmpeg.DefaultVideoCodec
	}
	p.VideoDir = existingDir(p.VideoDir)
	p.SubtitleDir = existingDir(p.SubtitleDir)
	p.OutputDir = existingDir(p.OutputDir)
	return p
}

func existingDir(dir string) string {
	if dir == "" {
		return ""
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

// remember records the directory of a path picked in a dialog.
func (p *guiPrefs) remember(kind, path string) {
	dir := filepath.Dir(path)
	switch kind {
	case prefVideoDir:
		p.VideoDir = dir
	case prefSubtitleDir:
		p.SubtitleDir = dir
	case prefOutputDir:
		p.OutputDir = dir
	}
}

func (p guiPrefs) dirFor(kind string) string {
	switch kind {
	case prefVideoDir:
		return p.VideoDir
	case prefSubtitleDir:
		if p.SubtitleDir == "" {
			return p.VideoDir
		}
		return p.SubtitleDir
	case prefOutputDir:
		if p.OutputDir == "" {
			return p.VideoDir
		}
		return p.OutputDir
	}
	return ""
}

func (p guiPrefs) controllerOptions() render.Options {
	binary := p.FFmpeg
	if expanded, err := config.ExpandPath(binary); err == nil {
		binary = expanded
	}
	return render.Options{
		Binary: binary,
		Encoding: ffmpeg.Encoding{
			CRF:        p.CRF,
			Preset:     p.Preset,
			VideoCodec: p.Codec,
		},
		Logger: logger.L(),
	}
}
