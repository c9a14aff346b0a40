package config

import (
	"fmt"
	"strings"

	"butler/internal/services"
)

// Validate ensures the configuration is usable. Remote credentials are
// required for every command that touches the object store.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRemote() error {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(c.Remote.AccessKeyID) == "" {
		missing = append(missing, EnvAccessKeyID)
	}
	if strings.TrimSpace(c.Remote.SecretAccessKey) == "" {
		missing = append(missing, EnvSecretAccessKey)
	}
	if strings.TrimSpace(c.Remote.Endpoint) == "" {
		missing = append(missing, EnvEndpoint)
	}
	if strings.TrimSpace(c.Remote.Bucket) == "" {
		missing = append(missing, EnvBucket)
	}
	if len(missing) > 0 {
		return services.Wrap(
			services.ErrConfiguration,
			"config",
			"validate remote",
			fmt.Sprintf("missing required settings: %s", strings.Join(missing, ", ")),
			nil,
		)
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Limits.VideoMaxMB <= 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate limits", "limits.video_max_mb must be positive", nil)
	}
	if c.Limits.AudioMaxMB <= 0 {
		return services.Wrap(services.ErrConfiguration, "config", "validate limits", "limits.audio_max_mb must be positive", nil)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return services.Wrap(
			services.ErrConfiguration,
			"config",
			"validate logging",
			fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format),
			nil,
		)
	}
}
