package config

import "strings"

// normalize trims string fields, fills empty values from defaults, and expands
// user paths.
func (c *Config) normalize() error {
	defaults := Default()

	c.Engine.Address = strings.TrimSpace(c.Engine.Address)
	if c.Engine.Address == "" {
		c.Engine.Address = defaults.Engine.Address
	}
	if c.Engine.ConnectTimeout <= 0 {
		c.Engine.ConnectTimeout = defaults.Engine.ConnectTimeout
	}
	if c.Engine.RequestTimeout <= 0 {
		c.Engine.RequestTimeout = defaults.Engine.RequestTimeout
	}
	if c.Engine.ReconnectInterval <= 0 {
		c.Engine.ReconnectInterval = defaults.Engine.ReconnectInterval
	}

	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaults.Paths.LogDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaults.Paths.StateDir
	}
	for _, field := range []*string{&c.Paths.LogDir, &c.Paths.StateDir} {
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if c.Levels.PollIntervalMS <= 0 {
		c.Levels.PollIntervalMS = defaults.Levels.PollIntervalMS
	}
	if c.Levels.PeakHoldDecay <= 0 {
		c.Levels.PeakHoldDecay = defaults.Levels.PeakHoldDecay
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}

	return nil
}
