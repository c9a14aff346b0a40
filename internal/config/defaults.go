package config

const (
	defaultManifestDir = "~/.local/share/butler"
	defaultStagingDir  = "~/.local/share/butler/staging"
	defaultLogDir      = "~/.local/share/butler/logs"
	defaultVideoMaxMB  = 500
	defaultAudioMaxMB  = 50
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ManifestDir: defaultManifestDir,
			StagingDir:  defaultStagingDir,
			LogDir:      defaultLogDir,
		},
		Transcode: Transcode{
			FFmpegBinary:  "ffmpeg",
			FFprobeBinary: "ffprobe",
		},
		Limits: Limits{
			VideoMaxMB: defaultVideoMaxMB,
			AudioMaxMB: defaultAudioMaxMB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
