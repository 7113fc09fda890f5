package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/color-anomaly-mcp/internal/anomaly"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBoundOrdering = "ANOMALY_MCP_BOUND_ORDERING"
	EnvSensitivity   = "ANOMALY_MCP_SENSITIVITY"
)

// Config holds the defaults applied when a tool call leaves an option out.
type Config struct {
	// BoundOrdering decides how color_one and color_two become a bound.
	BoundOrdering anomaly.Ordering

	// DefaultSensitivity is the tolerance used when a call omits sensitivity.
	DefaultSensitivity int
}

// DefaultConfig returns as-given ordering and zero sensitivity.
func DefaultConfig() Config {
	return Config{
		BoundOrdering:      anomaly.OrderingAsGiven,
		DefaultSensitivity: 0,
	}
}

// ConfigFromEnv overlays environment settings on DefaultConfig. getenv is
// usually os.Getenv. Unset variables keep their defaults; malformed ones are
// reported.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(getenv(EnvBoundOrdering)); v != "" {
		o, err := anomaly.ParseOrdering(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvBoundOrdering, err)
		}
		cfg.BoundOrdering = o
	}

	if v := strings.TrimSpace(getenv(EnvSensitivity)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: invalid integer %q", EnvSensitivity, v)
		}
		cfg.DefaultSensitivity = n
	}

	return cfg, nil
}
