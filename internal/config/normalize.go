package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names recognized by normalize. Credentials keep the
// names the original deployment used so existing environments carry over.
const (
	EnvAccessKeyID     = "R2_ACCESS_KEY_ID"
	EnvSecretAccessKey = "R2_SECRET_ACCESS_KEY"
	EnvEndpoint        = "R2_ENDPOINT"
	EnvBucket          = "R2_BUCKET_NAME"
	EnvFFmpegPath      = "FFMPEG_PATH"
	EnvVideoMaxMB      = "MAX_VIDEO_SIZE_MB"
	EnvAudioMaxMB      = "MAX_AUDIO_SIZE_MB"
	EnvManifestDir     = "BUTLER_MANIFEST_DIR"
)

func (c *Config) normalize() error {
	c.applyEnvOverrides()
	return c.normalizePaths()
}

func (c *Config) applyEnvOverrides() {
	if value, ok := lookupEnv(EnvAccessKeyID); ok {
		c.Remote.AccessKeyID = value
	}
	if value, ok := lookupEnv(EnvSecretAccessKey); ok {
		c.Remote.SecretAccessKey = value
	}
	if value, ok := lookupEnv(EnvEndpoint); ok {
		c.Remote.Endpoint = value
	}
	if value, ok := lookupEnv(EnvBucket); ok {
		c.Remote.Bucket = value
	}
	if value, ok := lookupEnv(EnvFFmpegPath); ok {
		c.Transcode.FFmpegBinary = value
	}
	if value, ok := lookupEnv(EnvManifestDir); ok {
		c.Paths.ManifestDir = value
	}
	if value, ok := lookupEnv(EnvVideoMaxMB); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			c.Limits.VideoMaxMB = parsed
		}
	}
	if value, ok := lookupEnv(EnvAudioMaxMB); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed > 0 {
			c.Limits.AudioMaxMB = parsed
		}
	}
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ManifestDir, err = expandPath(c.Paths.ManifestDir); err != nil {
		return fmt.Errorf("paths.manifest_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = c.Paths.ManifestDir + "/staging"
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = c.Paths.ManifestDir + "/logs"
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func lookupEnv(name string) (string, bool) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
