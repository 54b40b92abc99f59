package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if _, _, err := net.SplitHostPort(c.Engine.Address); err != nil {
		problems = append(problems, fmt.Sprintf("engine.address %q must be host:port", c.Engine.Address))
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q must be console or json", c.Logging.Format))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level %q must be debug, info, warn, or error", c.Logging.Level))
	}

	if c.Levels.PollIntervalMS < 10 {
		problems = append(problems, fmt.Sprintf("levels.poll_interval_ms %d must be at least 10", c.Levels.PollIntervalMS))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
