package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

func (c *Config) normalize() error {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"library_dir", &c.Paths.LibraryDir},
		{"data_dir", &c.Paths.DataDir},
		{"log_dir", &c.Paths.LogDir},
	} {
		expanded, err := expandPath(*field.value)
		if err != nil {
			return fmt.Errorf("normalize %s: %w", field.name, err)
		}
		*field.value = expanded
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Library.UnsortedSeries = strings.TrimSpace(c.Library.UnsortedSeries)
	return nil
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.LibraryDir == "" {
		problems = append(problems, "paths.library_dir must be set")
	}
	if c.Paths.DataDir == "" {
		problems = append(problems, "paths.data_dir must be set")
	}
	if c.Paths.APIBind != "" {
		if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
			problems = append(problems, fmt.Sprintf("paths.api_bind %q is not host:port", c.Paths.APIBind))
		}
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not console or json", c.Logging.Format))
	}
	if c.Library.UnsortedSeries == "" {
		problems = append(problems, "library.unsorted_series must not be empty")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
