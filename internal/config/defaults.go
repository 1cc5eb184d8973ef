package config

import "github.com/oukeidos/subburn/internal/ffmpeg"

const (
	defaultConfigPath     = "~/.config/subburn/config.toml"
	projectConfigName     = "subburn.toml"
	defaultLogLevel       = "info"
	defaultPollIntervalMS = 100
)

var presets = []string{
	"ultrafast", "superfast", "veryfast", "faster", "fast",
	"medium", "slow", "slower", "veryslow", "placebo",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		FFmpeg: FFmpeg{
			Binary:     ffmpeg.DefaultBinary,
			CRF:        ffmpeg.DefaultCRF,
			Preset:     ffmpeg.DefaultPreset,
			VideoCodec: ffmpeg.DefaultVideoCodec,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
		UI: UI{
			PollIntervalMS: defaultPollIntervalMS,
		},
	}
}
