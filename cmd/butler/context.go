package main

import (
	"log/slog"
	"strings"
	"sync"

	"butler/internal/config"
	"butler/internal/deps"
	"butler/internal/logging"
	"butler/internal/manifest"
	"butler/internal/remote"
	"butler/internal/services/ffmpeg"
)

// commandContext lazily loads configuration and builds the collaborators
// the commands share. The factories exist so tests can substitute fakes
// for the object store and the transcoder.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	newRemote     func(config.Remote) (remote.Store, error)
	newTranscoder func(*config.Config) ffmpeg.Client
	newProber     func(*config.Config) ffmpeg.Prober
	checkTools    func(*config.Config) []deps.Status
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		newRemote: func(cfg config.Remote) (remote.Store, error) {
			return remote.NewMinioStore(cfg)
		},
		newTranscoder: func(cfg *config.Config) ffmpeg.Client {
			return ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Transcode.FFmpegBinary))
		},
		newProber: func(cfg *config.Config) ffmpeg.Prober {
			return ffmpeg.NewProbeCLI(cfg.Transcode.FFprobeBinary)
		},
		checkTools: func(cfg *config.Config) []deps.Status {
			return deps.CheckBinaries(deps.Requirements(cfg))
		},
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	var loggerErr error
	c.loggerOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{"stderr", cfg.LogFilePath()},
		})
		if err != nil {
			loggerErr = err
			return
		}
		c.logger = logger
	})
	if loggerErr != nil {
		return nil, loggerErr
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	return c.logger, nil
}

// withStore opens the manifest for the duration of fn. The flock inside
// Open makes concurrent invocations fail fast rather than interleave.
func (c *commandContext) withStore(fn func(*config.Config, *manifest.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := manifest.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store)
}
